package store

import (
	"fmt"
	"sync"

	"valentine/pkg/domain"
)

// MemoryStore keeps every collection in-process. One mutex per collection
// restores the lost-update safety that whole-file rewrites lack.
type MemoryStore struct {
	usersMu   sync.RWMutex
	users     map[string]domain.User
	userOrder []string

	requestsMu sync.RWMutex
	requests   []domain.ValentineRequest

	messagesMu sync.RWMutex
	messages   []domain.Message

	cardsMu sync.RWMutex
	cards   []domain.Card

	followsMu sync.RWMutex
	follows   []domain.Follow

	likesMu sync.RWMutex
	likes   []domain.Like

	blocksMu sync.RWMutex
	blocks   []domain.Block

	notificationsMu sync.RWMutex
	notifications   []domain.Notification

	reportsMu sync.RWMutex
	reports   []domain.Report
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]domain.User)}
}

// SaveUser creates or replaces a user and tracks registration order.
func (m *MemoryStore) SaveUser(u domain.User) error {
	m.usersMu.Lock()
	defer m.usersMu.Unlock()
	if _, exists := m.users[u.Username]; !exists {
		m.userOrder = append(m.userOrder, u.Username)
	}
	m.users[u.Username] = u
	return nil
}

// GetUser returns a user by username.
func (m *MemoryStore) GetUser(username string) (domain.User, bool, error) {
	m.usersMu.RLock()
	defer m.usersMu.RUnlock()
	u, ok := m.users[username]
	return u, ok, nil
}

// HasUserEmail reports whether any user registered the email.
func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.usersMu.RLock()
	defer m.usersMu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ListUsers returns users in registration order.
func (m *MemoryStore) ListUsers() ([]domain.User, error) {
	m.usersMu.RLock()
	defer m.usersMu.RUnlock()
	res := make([]domain.User, 0, len(m.userOrder))
	for _, name := range m.userOrder {
		if u, ok := m.users[name]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

// DeleteUser removes the user record only; relational records are left
// orphaned on purpose.
func (m *MemoryStore) DeleteUser(username string) error {
	m.usersMu.Lock()
	defer m.usersMu.Unlock()
	delete(m.users, username)
	filtered := m.userOrder[:0]
	for _, name := range m.userOrder {
		if name != username {
			filtered = append(filtered, name)
		}
	}
	m.userOrder = filtered
	return nil
}

// UserCount returns the number of users.
func (m *MemoryStore) UserCount() (int, error) {
	m.usersMu.RLock()
	defer m.usersMu.RUnlock()
	return len(m.users), nil
}

// AppendRequest assigns the next id and appends the request.
func (m *MemoryStore) AppendRequest(r domain.ValentineRequest) (domain.ValentineRequest, error) {
	m.requestsMu.Lock()
	defer m.requestsMu.Unlock()
	r.ID = len(m.requests) + 1
	m.requests = append(m.requests, r)
	return r, nil
}

// UpdateRequest replaces the stored request with the same id.
func (m *MemoryStore) UpdateRequest(r domain.ValentineRequest) error {
	m.requestsMu.Lock()
	defer m.requestsMu.Unlock()
	for i := range m.requests {
		if m.requests[i].ID == r.ID {
			m.requests[i] = r
			return nil
		}
	}
	return fmt.Errorf("request %d not found", r.ID)
}

// ListRequests returns a copy of the request log.
func (m *MemoryStore) ListRequests() ([]domain.ValentineRequest, error) {
	m.requestsMu.RLock()
	defer m.requestsMu.RUnlock()
	return append([]domain.ValentineRequest(nil), m.requests...), nil
}

// AppendMessage appends to the message log.
func (m *MemoryStore) AppendMessage(msg domain.Message) error {
	m.messagesMu.Lock()
	defer m.messagesMu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

// ListMessages returns a copy of the message log.
func (m *MemoryStore) ListMessages() ([]domain.Message, error) {
	m.messagesMu.RLock()
	defer m.messagesMu.RUnlock()
	return append([]domain.Message(nil), m.messages...), nil
}

// AppendCard assigns the next id and appends the card.
func (m *MemoryStore) AppendCard(c domain.Card) (domain.Card, error) {
	m.cardsMu.Lock()
	defer m.cardsMu.Unlock()
	c.ID = len(m.cards) + 1
	m.cards = append(m.cards, c)
	return c, nil
}

// UpdateCard replaces the stored card with the same id.
func (m *MemoryStore) UpdateCard(c domain.Card) error {
	m.cardsMu.Lock()
	defer m.cardsMu.Unlock()
	for i := range m.cards {
		if m.cards[i].ID == c.ID {
			m.cards[i] = c
			return nil
		}
	}
	return fmt.Errorf("card %d not found", c.ID)
}

// ListCards returns a copy of the card collection.
func (m *MemoryStore) ListCards() ([]domain.Card, error) {
	m.cardsMu.RLock()
	defer m.cardsMu.RUnlock()
	return append([]domain.Card(nil), m.cards...), nil
}

// AppendFollow records a follow edge.
func (m *MemoryStore) AppendFollow(f domain.Follow) error {
	m.followsMu.Lock()
	defer m.followsMu.Unlock()
	m.follows = append(m.follows, f)
	return nil
}

// RemoveFollow removes the edge if present; absent edges are a no-op.
func (m *MemoryStore) RemoveFollow(follower, following string) error {
	m.followsMu.Lock()
	defer m.followsMu.Unlock()
	filtered := m.follows[:0]
	for _, f := range m.follows {
		if !(f.Follower == follower && f.Following == following) {
			filtered = append(filtered, f)
		}
	}
	m.follows = filtered
	return nil
}

// ListFollows returns a copy of the follow edges.
func (m *MemoryStore) ListFollows() ([]domain.Follow, error) {
	m.followsMu.RLock()
	defer m.followsMu.RUnlock()
	return append([]domain.Follow(nil), m.follows...), nil
}

// AppendLike records a like edge.
func (m *MemoryStore) AppendLike(l domain.Like) error {
	m.likesMu.Lock()
	defer m.likesMu.Unlock()
	m.likes = append(m.likes, l)
	return nil
}

// RemoveLike removes the edge if present; absent edges are a no-op.
func (m *MemoryStore) RemoveLike(user, likesUsername string) error {
	m.likesMu.Lock()
	defer m.likesMu.Unlock()
	filtered := m.likes[:0]
	for _, l := range m.likes {
		if !(l.User == user && l.LikesUsername == likesUsername) {
			filtered = append(filtered, l)
		}
	}
	m.likes = filtered
	return nil
}

// ListLikes returns a copy of the like edges.
func (m *MemoryStore) ListLikes() ([]domain.Like, error) {
	m.likesMu.RLock()
	defer m.likesMu.RUnlock()
	return append([]domain.Like(nil), m.likes...), nil
}

// AppendBlock records a block edge.
func (m *MemoryStore) AppendBlock(b domain.Block) error {
	m.blocksMu.Lock()
	defer m.blocksMu.Unlock()
	m.blocks = append(m.blocks, b)
	return nil
}

// RemoveBlock removes the edge if present; absent edges are a no-op.
func (m *MemoryStore) RemoveBlock(blocker, blocked string) error {
	m.blocksMu.Lock()
	defer m.blocksMu.Unlock()
	filtered := m.blocks[:0]
	for _, b := range m.blocks {
		if !(b.Blocker == blocker && b.Blocked == blocked) {
			filtered = append(filtered, b)
		}
	}
	m.blocks = filtered
	return nil
}

// ListBlocks returns a copy of the block edges.
func (m *MemoryStore) ListBlocks() ([]domain.Block, error) {
	m.blocksMu.RLock()
	defer m.blocksMu.RUnlock()
	return append([]domain.Block(nil), m.blocks...), nil
}

// AppendNotification assigns the next id and appends the notification.
func (m *MemoryStore) AppendNotification(n domain.Notification) (domain.Notification, error) {
	m.notificationsMu.Lock()
	defer m.notificationsMu.Unlock()
	n.ID = len(m.notifications) + 1
	m.notifications = append(m.notifications, n)
	return n, nil
}

// UpdateNotification replaces the stored notification with the same id.
func (m *MemoryStore) UpdateNotification(n domain.Notification) error {
	m.notificationsMu.Lock()
	defer m.notificationsMu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == n.ID {
			m.notifications[i] = n
			return nil
		}
	}
	return fmt.Errorf("notification %d not found", n.ID)
}

// ListNotifications returns a copy of the notification log.
func (m *MemoryStore) ListNotifications() ([]domain.Notification, error) {
	m.notificationsMu.RLock()
	defer m.notificationsMu.RUnlock()
	return append([]domain.Notification(nil), m.notifications...), nil
}

// AppendReport appends to the report log.
func (m *MemoryStore) AppendReport(r domain.Report) error {
	m.reportsMu.Lock()
	defer m.reportsMu.Unlock()
	m.reports = append(m.reports, r)
	return nil
}

// ListReports returns a copy of the report log.
func (m *MemoryStore) ListReports() ([]domain.Report, error) {
	m.reportsMu.RLock()
	defer m.reportsMu.RUnlock()
	return append([]domain.Report(nil), m.reports...), nil
}
