package store

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"valentine/pkg/domain"
)

// Database models mirror the domain types; conversions live next to them
// so the rest of the code never sees gorm tags.

type userModel struct {
	ID                 uint   `gorm:"primaryKey;autoIncrement"`
	Username           string `gorm:"uniqueIndex;size:64;not null"`
	Email              string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash       string `gorm:"size:255;not null"`
	ProfilePicture     string `gorm:"size:512"`
	Bio                string
	Interests          string
	RelationshipStatus string `gorm:"size:64"`
	Theme              string `gorm:"size:32"`
	IsAdmin            bool
	Settings           datatypes.JSON
	CreatedAt          time.Time
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() domain.User {
	settings := domain.DefaultSettings()
	if len(m.Settings) > 0 {
		// A corrupt column falls back to defaults rather than failing reads.
		_ = json.Unmarshal(m.Settings, &settings)
	}
	return domain.User{
		Username:           m.Username,
		Email:              m.Email,
		PasswordHash:       m.PasswordHash,
		ProfilePicture:     m.ProfilePicture,
		Bio:                m.Bio,
		Interests:          m.Interests,
		RelationshipStatus: m.RelationshipStatus,
		Theme:              m.Theme,
		IsAdmin:            m.IsAdmin,
		Settings:           settings,
		CreatedAt:          m.CreatedAt,
	}
}

func userToModel(u domain.User) userModel {
	raw, _ := json.Marshal(u.Settings)
	return userModel{
		Username:           u.Username,
		Email:              u.Email,
		PasswordHash:       u.PasswordHash,
		ProfilePicture:     u.ProfilePicture,
		Bio:                u.Bio,
		Interests:          u.Interests,
		RelationshipStatus: u.RelationshipStatus,
		Theme:              u.Theme,
		IsAdmin:            u.IsAdmin,
		Settings:           datatypes.JSON(raw),
		CreatedAt:          u.CreatedAt,
	}
}

type requestModel struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	FromUser        string `gorm:"index;size:64;not null"`
	ToUser          string `gorm:"index;size:64;not null"`
	Message         string
	Status          string `gorm:"size:16;not null"`
	ResponseMessage string
	SentAt          time.Time
	RespondedAt     *time.Time
}

func (requestModel) TableName() string { return "valentine_requests" }

func (m requestModel) toDomain() domain.ValentineRequest {
	return domain.ValentineRequest{
		ID:              int(m.ID),
		From:            m.FromUser,
		To:              m.ToUser,
		Message:         m.Message,
		Status:          domain.RequestStatus(m.Status),
		ResponseMessage: m.ResponseMessage,
		SentAt:          m.SentAt,
		RespondedAt:     m.RespondedAt,
	}
}

func requestToModel(r domain.ValentineRequest) requestModel {
	return requestModel{
		ID:              uint(r.ID),
		FromUser:        r.From,
		ToUser:          r.To,
		Message:         r.Message,
		Status:          string(r.Status),
		ResponseMessage: r.ResponseMessage,
		SentAt:          r.SentAt,
		RespondedAt:     r.RespondedAt,
	}
}

type messageModel struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	FromUser string `gorm:"index;size:64;not null"`
	ToUser   string `gorm:"index;size:64;not null"`
	Content  string
	SentAt   time.Time
	Read     bool
	Type     string `gorm:"size:16;not null"`
}

func (messageModel) TableName() string { return "messages" }

func (m messageModel) toDomain() domain.Message {
	return domain.Message{
		From:    m.FromUser,
		To:      m.ToUser,
		Content: m.Content,
		SentAt:  m.SentAt,
		Read:    m.Read,
		Type:    domain.MessageType(m.Type),
	}
}

func messageToModel(msg domain.Message) messageModel {
	return messageModel{
		FromUser: msg.From,
		ToUser:   msg.To,
		Content:  msg.Content,
		SentAt:   msg.SentAt,
		Read:     msg.Read,
		Type:     string(msg.Type),
	}
}

type cardModel struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	FromUser   string `gorm:"index;size:64;not null"`
	ToUser     string `gorm:"index;size:64;not null"`
	TemplateID int
	Message    string
	CreatedAt  time.Time
	Viewed     bool
}

func (cardModel) TableName() string { return "cards" }

func (m cardModel) toDomain() domain.Card {
	return domain.Card{
		ID:         int(m.ID),
		From:       m.FromUser,
		To:         m.ToUser,
		TemplateID: m.TemplateID,
		Message:    m.Message,
		CreatedAt:  m.CreatedAt,
		Viewed:     m.Viewed,
	}
}

func cardToModel(c domain.Card) cardModel {
	return cardModel{
		ID:         uint(c.ID),
		FromUser:   c.From,
		ToUser:     c.To,
		TemplateID: c.TemplateID,
		Message:    c.Message,
		CreatedAt:  c.CreatedAt,
		Viewed:     c.Viewed,
	}
}

type followModel struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	Follower   string `gorm:"index:idx_follow_edge;size:64;not null"`
	Following  string `gorm:"index:idx_follow_edge;size:64;not null"`
	FollowedAt time.Time
}

func (followModel) TableName() string { return "follows" }

type likeModel struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	Username      string `gorm:"index:idx_like_edge;size:64;not null"`
	LikesUsername string `gorm:"index:idx_like_edge;size:64;not null"`
	LikedAt       time.Time
}

func (likeModel) TableName() string { return "likes" }

type blockModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Blocker   string `gorm:"index:idx_block_edge;size:64;not null"`
	Blocked   string `gorm:"index:idx_block_edge;size:64;not null"`
	CreatedAt time.Time
}

func (blockModel) TableName() string { return "blocks" }

type notificationModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Type      string `gorm:"size:16;not null"`
	FromUser  string `gorm:"size:64;not null"`
	ToUser    string `gorm:"index;size:64;not null"`
	Message   string
	CreatedAt time.Time
	Read      bool
}

func (notificationModel) TableName() string { return "notifications" }

func (m notificationModel) toDomain() domain.Notification {
	return domain.Notification{
		ID:        int(m.ID),
		Type:      domain.NotificationType(m.Type),
		From:      m.FromUser,
		To:        m.ToUser,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
		Read:      m.Read,
	}
}

func notificationToModel(n domain.Notification) notificationModel {
	return notificationModel{
		ID:        uint(n.ID),
		Type:      string(n.Type),
		FromUser:  n.From,
		ToUser:    n.To,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
		Read:      n.Read,
	}
}

type reportModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Reporter  string `gorm:"size:64;not null"`
	Reported  string `gorm:"index;size:64;not null"`
	Reason    string `gorm:"size:64"`
	Message   string
	CreatedAt time.Time
}

func (reportModel) TableName() string { return "reports" }
