package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"valentine/pkg/domain"
)

// GormStore backs the collections with a relational database. The DSN picks
// the driver: postgres:// URLs use Postgres, anything else is treated as an
// SQLite path.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the database and migrates the schema.
func NewGormStore(dsn string) (*GormStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(
		&userModel{}, &requestModel{}, &messageModel{}, &cardModel{},
		&followModel{}, &likeModel{}, &blockModel{},
		&notificationModel{}, &reportModel{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (g *GormStore) SaveUser(u domain.User) error {
	var existing userModel
	err := g.db.Where("username = ?", u.Username).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m := userToModel(u)
		return g.db.Create(&m).Error
	}
	if err != nil {
		return err
	}
	m := userToModel(u)
	m.ID = existing.ID
	return g.db.Save(&m).Error
}

func (g *GormStore) GetUser(username string) (domain.User, bool, error) {
	var m userModel
	err := g.db.Where("username = ?", username).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return m.toDomain(), true, nil
}

func (g *GormStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := g.db.Model(&userModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *GormStore) ListUsers() ([]domain.User, error) {
	var models []userModel
	if err := g.db.Order("id asc").Find(&models).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, m.toDomain())
	}
	return users, nil
}

func (g *GormStore) DeleteUser(username string) error {
	return g.db.Where("username = ?", username).Delete(&userModel{}).Error
}

func (g *GormStore) UserCount() (int, error) {
	var count int64
	if err := g.db.Model(&userModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (g *GormStore) AppendRequest(r domain.ValentineRequest) (domain.ValentineRequest, error) {
	m := requestToModel(r)
	m.ID = 0
	if err := g.db.Create(&m).Error; err != nil {
		return domain.ValentineRequest{}, err
	}
	return m.toDomain(), nil
}

func (g *GormStore) UpdateRequest(r domain.ValentineRequest) error {
	m := requestToModel(r)
	res := g.db.Model(&requestModel{}).Where("id = ?", m.ID).Updates(map[string]any{
		"status":           m.Status,
		"response_message": m.ResponseMessage,
		"responded_at":     m.RespondedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("request %d not found", r.ID)
	}
	return nil
}

func (g *GormStore) ListRequests() ([]domain.ValentineRequest, error) {
	var models []requestModel
	if err := g.db.Order("id asc").Find(&models).Error; err != nil {
		return nil, err
	}
	requests := make([]domain.ValentineRequest, 0, len(models))
	for _, m := range models {
		requests = append(requests, m.toDomain())
	}
	return requests, nil
}

func (g *GormStore) AppendMessage(msg domain.Message) error {
	m := messageToModel(msg)
	return g.db.Create(&m).Error
}

func (g *GormStore) ListMessages() ([]domain.Message, error) {
	var models []messageModel
	if err := g.db.Order("id asc").Find(&models).Error; err != nil {
		return nil, err
	}
	messages := make([]domain.Message, 0, len(models))
	for _, m := range models {
		messages = append(messages, m.toDomain())
	}
	return messages, nil
}

func (g *GormStore) AppendCard(c domain.Card) (domain.Card, error) {
	m := cardToModel(c)
	m.ID = 0
	if err := g.db.Create(&m).Error; err != nil {
		return domain.Card{}, err
	}
	return m.toDomain(), nil
}

func (g *GormStore) UpdateCard(c domain.Card) error {
	res := g.db.Model(&cardModel{}).Where("id = ?", c.ID).Update("viewed", c.Viewed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("card %d not found", c.ID)
	}
	return nil
}

func (g *GormStore) ListCards() ([]domain.Card, error) {
	var models []cardModel
	if err := g.db.Order("id asc").Find(&models).Error; err != nil {
		return nil, err
	}
	cards := make([]domain.Card, 0, len(models))
	for _, m := range models {
		cards = append(cards, m.toDomain())
	}
	return cards, nil
}

func (g *GormStore) AppendFollow(f domain.Follow) error {
	m := followModel{Follower: f.Follower, Following: f.Following, FollowedAt: f.FollowedAt}
	return g.db.Create(&m).Error
}

func (g *GormStore) RemoveFollow(follower, following string) error {
	return g.db.Where("follower = ? AND following = ?", follower, following).
		Delete(&followModel{}).Error
}

func (g *GormStore) ListFollows() ([]domain.Follow, error) {
	var models []followModel
	if err := g.db.Order("id asc").Find(&models).Error; err != nil {
		return nil, err
	}
	follows := make([]domain.Follow, 0, len(models))
	for _, m := range models {
		follows = append(follows, domain.Follow{
			Follower:   m.Follower,
			Following:  m.Following,
			FollowedAt: m.FollowedAt,
		})
	}
	return follows, nil
}

func (g *GormStore) AppendLike(l domain.Like) error {
	m := likeModel{Username: l.User, LikesUsername: l.LikesUsername, LikedAt: l.LikedAt}
	return g.db.Create(&m).Error
}

func (g *GormStore) RemoveLike(user, likesUsername string) error {
	return g.db.Where("username = ? AND likes_username = ?", user, likesUsername).
		Delete(&likeModel{}).Error
}

func (g *GormStore) ListLikes() ([]domain.Like, error) {
	var models []likeModel
	if err := g.db.Order("id asc").Find(&models).Error; err != nil {
		return nil, err
	}
	likes := make([]domain.Like, 0, len(models))
	for _, m := range models {
		likes = append(likes, domain.Like{
			User:          m.Username,
			LikesUsername: m.LikesUsername,
			LikedAt:       m.LikedAt,
		})
	}
	return likes, nil
}

func (g *GormStore) AppendBlock(b domain.Block) error {
	m := blockModel{Blocker: b.Blocker, Blocked: b.Blocked, CreatedAt: b.CreatedAt}
	return g.db.Create(&m).Error
}

func (g *GormStore) RemoveBlock(blocker, blocked string) error {
	return g.db.Where("blocker = ? AND blocked = ?", blocker, blocked).
		Delete(&blockModel{}).Error
}

func (g *GormStore) ListBlocks() ([]domain.Block, error) {
	var models []blockModel
	if err := g.db.Order("id asc").Find(&models).Error; err != nil {
		return nil, err
	}
	blocks := make([]domain.Block, 0, len(models))
	for _, m := range models {
		blocks = append(blocks, domain.Block{
			Blocker:   m.Blocker,
			Blocked:   m.Blocked,
			CreatedAt: m.CreatedAt,
		})
	}
	return blocks, nil
}

func (g *GormStore) AppendNotification(n domain.Notification) (domain.Notification, error) {
	m := notificationToModel(n)
	m.ID = 0
	if err := g.db.Create(&m).Error; err != nil {
		return domain.Notification{}, err
	}
	return m.toDomain(), nil
}

func (g *GormStore) UpdateNotification(n domain.Notification) error {
	res := g.db.Model(&notificationModel{}).Where("id = ?", n.ID).Update("read", n.Read)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %d not found", n.ID)
	}
	return nil
}

func (g *GormStore) ListNotifications() ([]domain.Notification, error) {
	var models []notificationModel
	if err := g.db.Order("id asc").Find(&models).Error; err != nil {
		return nil, err
	}
	notifications := make([]domain.Notification, 0, len(models))
	for _, m := range models {
		notifications = append(notifications, m.toDomain())
	}
	return notifications, nil
}

func (g *GormStore) AppendReport(r domain.Report) error {
	m := reportModel{
		Reporter:  r.Reporter,
		Reported:  r.Reported,
		Reason:    r.Reason,
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
	}
	return g.db.Create(&m).Error
}

func (g *GormStore) ListReports() ([]domain.Report, error) {
	var models []reportModel
	if err := g.db.Order("id asc").Find(&models).Error; err != nil {
		return nil, err
	}
	reports := make([]domain.Report, 0, len(models))
	for _, m := range models {
		reports = append(reports, domain.Report{
			Reporter:  m.Reporter,
			Reported:  m.Reported,
			Reason:    m.Reason,
			Message:   m.Message,
			CreatedAt: m.CreatedAt,
		})
	}
	return reports, nil
}
