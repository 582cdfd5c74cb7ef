package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"valentine/pkg/domain"
)

// Collection file names, one whole JSON document per collection.
const (
	usersFile         = "users.json"
	requestsFile      = "requests.json"
	messagesFile      = "messages.json"
	cardsFile         = "cards.json"
	followsFile       = "follows.json"
	likesFile         = "likes.json"
	blocksFile        = "blocks.json"
	notificationsFile = "notifications.json"
	reportsFile       = "reports.json"
)

// userRecord is the on-disk user shape; the password hash is excluded from
// API marshalling but must survive restarts.
type userRecord struct {
	domain.User
	PasswordHash string `json:"password"`
}

// FileStore keeps collections in memory and mirrors each one to a JSON
// document on every mutation. Each document is rewritten wholesale under
// its collection mutex, so the rewrite either fully succeeds or the prior
// version remains.
type FileStore struct {
	mem *MemoryStore
	dir string

	usersMu         sync.Mutex
	requestsMu      sync.Mutex
	messagesMu      sync.Mutex
	cardsMu         sync.Mutex
	followsMu       sync.Mutex
	likesMu         sync.Mutex
	blocksMu        sync.Mutex
	notificationsMu sync.Mutex
	reportsMu       sync.Mutex
}

// NewFileStore creates the data directory if missing and loads any existing
// collection documents.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	f := &FileStore{mem: NewMemoryStore(), dir: dir}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FileStore) load() error {
	var users map[string]userRecord
	if err := f.readDoc(usersFile, &users); err != nil {
		return err
	}
	ordered := make([]userRecord, 0, len(users))
	for _, rec := range users {
		ordered = append(ordered, rec)
	}
	// Registration order is recovered from created_at; username breaks ties.
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].Username < ordered[j].Username
	})
	for _, rec := range ordered {
		u := rec.User
		u.PasswordHash = rec.PasswordHash
		if err := f.mem.SaveUser(u); err != nil {
			return err
		}
	}

	if err := f.readDoc(requestsFile, &f.mem.requests); err != nil {
		return err
	}
	if err := f.readDoc(messagesFile, &f.mem.messages); err != nil {
		return err
	}
	if err := f.readDoc(cardsFile, &f.mem.cards); err != nil {
		return err
	}
	if err := f.readDoc(followsFile, &f.mem.follows); err != nil {
		return err
	}
	if err := f.readDoc(likesFile, &f.mem.likes); err != nil {
		return err
	}
	if err := f.readDoc(blocksFile, &f.mem.blocks); err != nil {
		return err
	}
	if err := f.readDoc(notificationsFile, &f.mem.notifications); err != nil {
		return err
	}
	return f.readDoc(reportsFile, &f.mem.reports)
}

func (f *FileStore) readDoc(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// writeDoc rewrites the whole document via a temp file and rename so a
// failed write leaves the previous version intact.
func (f *FileStore) writeDoc(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	target := filepath.Join(f.dir, name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (f *FileStore) persistUsers() error {
	users, err := f.mem.ListUsers()
	if err != nil {
		return err
	}
	doc := make(map[string]userRecord, len(users))
	for _, u := range users {
		doc[u.Username] = userRecord{User: u, PasswordHash: u.PasswordHash}
	}
	return f.writeDoc(usersFile, doc)
}

func (f *FileStore) SaveUser(u domain.User) error {
	f.usersMu.Lock()
	defer f.usersMu.Unlock()
	if err := f.mem.SaveUser(u); err != nil {
		return err
	}
	return f.persistUsers()
}

func (f *FileStore) GetUser(username string) (domain.User, bool, error) {
	return f.mem.GetUser(username)
}

func (f *FileStore) HasUserEmail(email string) (bool, error) {
	return f.mem.HasUserEmail(email)
}

func (f *FileStore) ListUsers() ([]domain.User, error) {
	return f.mem.ListUsers()
}

func (f *FileStore) DeleteUser(username string) error {
	f.usersMu.Lock()
	defer f.usersMu.Unlock()
	if err := f.mem.DeleteUser(username); err != nil {
		return err
	}
	return f.persistUsers()
}

func (f *FileStore) UserCount() (int, error) {
	return f.mem.UserCount()
}

func (f *FileStore) AppendRequest(r domain.ValentineRequest) (domain.ValentineRequest, error) {
	f.requestsMu.Lock()
	defer f.requestsMu.Unlock()
	created, err := f.mem.AppendRequest(r)
	if err != nil {
		return domain.ValentineRequest{}, err
	}
	return created, f.persistRequests()
}

func (f *FileStore) UpdateRequest(r domain.ValentineRequest) error {
	f.requestsMu.Lock()
	defer f.requestsMu.Unlock()
	if err := f.mem.UpdateRequest(r); err != nil {
		return err
	}
	return f.persistRequests()
}

func (f *FileStore) persistRequests() error {
	requests, err := f.mem.ListRequests()
	if err != nil {
		return err
	}
	return f.writeDoc(requestsFile, requests)
}

func (f *FileStore) ListRequests() ([]domain.ValentineRequest, error) {
	return f.mem.ListRequests()
}

func (f *FileStore) AppendMessage(msg domain.Message) error {
	f.messagesMu.Lock()
	defer f.messagesMu.Unlock()
	if err := f.mem.AppendMessage(msg); err != nil {
		return err
	}
	messages, err := f.mem.ListMessages()
	if err != nil {
		return err
	}
	return f.writeDoc(messagesFile, messages)
}

func (f *FileStore) ListMessages() ([]domain.Message, error) {
	return f.mem.ListMessages()
}

func (f *FileStore) AppendCard(c domain.Card) (domain.Card, error) {
	f.cardsMu.Lock()
	defer f.cardsMu.Unlock()
	created, err := f.mem.AppendCard(c)
	if err != nil {
		return domain.Card{}, err
	}
	return created, f.persistCards()
}

func (f *FileStore) UpdateCard(c domain.Card) error {
	f.cardsMu.Lock()
	defer f.cardsMu.Unlock()
	if err := f.mem.UpdateCard(c); err != nil {
		return err
	}
	return f.persistCards()
}

func (f *FileStore) persistCards() error {
	cards, err := f.mem.ListCards()
	if err != nil {
		return err
	}
	return f.writeDoc(cardsFile, cards)
}

func (f *FileStore) ListCards() ([]domain.Card, error) {
	return f.mem.ListCards()
}

func (f *FileStore) AppendFollow(edge domain.Follow) error {
	f.followsMu.Lock()
	defer f.followsMu.Unlock()
	if err := f.mem.AppendFollow(edge); err != nil {
		return err
	}
	return f.persistFollows()
}

func (f *FileStore) RemoveFollow(follower, following string) error {
	f.followsMu.Lock()
	defer f.followsMu.Unlock()
	if err := f.mem.RemoveFollow(follower, following); err != nil {
		return err
	}
	return f.persistFollows()
}

func (f *FileStore) persistFollows() error {
	follows, err := f.mem.ListFollows()
	if err != nil {
		return err
	}
	return f.writeDoc(followsFile, follows)
}

func (f *FileStore) ListFollows() ([]domain.Follow, error) {
	return f.mem.ListFollows()
}

func (f *FileStore) AppendLike(edge domain.Like) error {
	f.likesMu.Lock()
	defer f.likesMu.Unlock()
	if err := f.mem.AppendLike(edge); err != nil {
		return err
	}
	return f.persistLikes()
}

func (f *FileStore) RemoveLike(user, likesUsername string) error {
	f.likesMu.Lock()
	defer f.likesMu.Unlock()
	if err := f.mem.RemoveLike(user, likesUsername); err != nil {
		return err
	}
	return f.persistLikes()
}

func (f *FileStore) persistLikes() error {
	likes, err := f.mem.ListLikes()
	if err != nil {
		return err
	}
	return f.writeDoc(likesFile, likes)
}

func (f *FileStore) ListLikes() ([]domain.Like, error) {
	return f.mem.ListLikes()
}

func (f *FileStore) AppendBlock(edge domain.Block) error {
	f.blocksMu.Lock()
	defer f.blocksMu.Unlock()
	if err := f.mem.AppendBlock(edge); err != nil {
		return err
	}
	return f.persistBlocks()
}

func (f *FileStore) RemoveBlock(blocker, blocked string) error {
	f.blocksMu.Lock()
	defer f.blocksMu.Unlock()
	if err := f.mem.RemoveBlock(blocker, blocked); err != nil {
		return err
	}
	return f.persistBlocks()
}

func (f *FileStore) persistBlocks() error {
	blocks, err := f.mem.ListBlocks()
	if err != nil {
		return err
	}
	return f.writeDoc(blocksFile, blocks)
}

func (f *FileStore) ListBlocks() ([]domain.Block, error) {
	return f.mem.ListBlocks()
}

func (f *FileStore) AppendNotification(n domain.Notification) (domain.Notification, error) {
	f.notificationsMu.Lock()
	defer f.notificationsMu.Unlock()
	created, err := f.mem.AppendNotification(n)
	if err != nil {
		return domain.Notification{}, err
	}
	return created, f.persistNotifications()
}

func (f *FileStore) UpdateNotification(n domain.Notification) error {
	f.notificationsMu.Lock()
	defer f.notificationsMu.Unlock()
	if err := f.mem.UpdateNotification(n); err != nil {
		return err
	}
	return f.persistNotifications()
}

func (f *FileStore) persistNotifications() error {
	notifications, err := f.mem.ListNotifications()
	if err != nil {
		return err
	}
	return f.writeDoc(notificationsFile, notifications)
}

func (f *FileStore) ListNotifications() ([]domain.Notification, error) {
	return f.mem.ListNotifications()
}

func (f *FileStore) AppendReport(r domain.Report) error {
	f.reportsMu.Lock()
	defer f.reportsMu.Unlock()
	if err := f.mem.AppendReport(r); err != nil {
		return err
	}
	reports, err := f.mem.ListReports()
	if err != nil {
		return err
	}
	return f.writeDoc(reportsFile, reports)
}

func (f *FileStore) ListReports() ([]domain.Report, error) {
	return f.mem.ListReports()
}
