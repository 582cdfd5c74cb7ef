package store

import "valentine/pkg/domain"

// Store defines persistence operations for every collection. Queries are
// full scans by design; implementations must keep each collection
// internally consistent under concurrent callers.
type Store interface {
	// users, keyed by username; ListUsers preserves registration order
	SaveUser(domain.User) error
	GetUser(username string) (domain.User, bool, error)
	HasUserEmail(email string) (bool, error)
	ListUsers() ([]domain.User, error)
	DeleteUser(username string) error
	UserCount() (int, error)

	// valentine requests; AppendRequest assigns the next monotonic id
	AppendRequest(domain.ValentineRequest) (domain.ValentineRequest, error)
	UpdateRequest(domain.ValentineRequest) error
	ListRequests() ([]domain.ValentineRequest, error)

	// messages, append-only
	AppendMessage(domain.Message) error
	ListMessages() ([]domain.Message, error)

	// cards
	AppendCard(domain.Card) (domain.Card, error)
	UpdateCard(domain.Card) error
	ListCards() ([]domain.Card, error)

	// social edges; Remove* are unconditional set-difference operations
	AppendFollow(domain.Follow) error
	RemoveFollow(follower, following string) error
	ListFollows() ([]domain.Follow, error)

	AppendLike(domain.Like) error
	RemoveLike(user, likesUsername string) error
	ListLikes() ([]domain.Like, error)

	AppendBlock(domain.Block) error
	RemoveBlock(blocker, blocked string) error
	ListBlocks() ([]domain.Block, error)

	// notifications; AppendNotification assigns the next monotonic id
	AppendNotification(domain.Notification) (domain.Notification, error)
	UpdateNotification(domain.Notification) error
	ListNotifications() ([]domain.Notification, error)

	// reports, append-only
	AppendReport(domain.Report) error
	ListReports() ([]domain.Report, error)
}

// SessionStore binds opaque session tokens to usernames.
type SessionStore interface {
	NewSession(username string) (string, error)
	GetUsernameByToken(token string) (string, bool, error)
	DeleteSession(token string) error
}
