package domain

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
)

type NotificationType string

const (
	NotificationRequest NotificationType = "request"
	NotificationFollow  NotificationType = "follow"
	NotificationLike    NotificationType = "like"
)

// User is keyed by username; email is unique as well.
type User struct {
	Username           string               `json:"username"`
	Email              string               `json:"email"`
	PasswordHash       string               `json:"-"`
	ProfilePicture     string               `json:"profile_picture,omitempty"`
	Bio                string               `json:"bio"`
	Interests          string               `json:"interests"`
	RelationshipStatus string               `json:"relationship_status"`
	Theme              string               `json:"theme"`
	IsAdmin            bool                 `json:"is_admin"`
	Settings           NotificationSettings `json:"notification_settings"`
	CreatedAt          time.Time            `json:"created_at"`
}

// NotificationSettings are per-type email opt-in flags.
type NotificationSettings struct {
	EmailOnMessage bool `json:"email_on_message"`
	EmailOnRequest bool `json:"email_on_request"`
	EmailOnLike    bool `json:"email_on_like"`
	EmailOnFollow  bool `json:"email_on_follow"`
}

// DefaultSettings returns the opt-in flags applied at registration.
func DefaultSettings() NotificationSettings {
	return NotificationSettings{
		EmailOnMessage: true,
		EmailOnRequest: true,
	}
}

// ValentineRequest moves pending -> accepted | rejected; both terminal.
type ValentineRequest struct {
	ID              int           `json:"id"`
	From            string        `json:"from"`
	To              string        `json:"to"`
	Message         string        `json:"message"`
	Status          RequestStatus `json:"status"`
	ResponseMessage string        `json:"response_message"`
	SentAt          time.Time     `json:"sent_at"`
	RespondedAt     *time.Time    `json:"responded_at"`
}

// Message is immutable once appended. Read is stored but no endpoint flips
// it; retained for wire compatibility.
type Message struct {
	From    string      `json:"from"`
	To      string      `json:"to"`
	Content string      `json:"content"`
	SentAt  time.Time   `json:"sent_at"`
	Read    bool        `json:"read"`
	Type    MessageType `json:"type"`
}

type Card struct {
	ID         int       `json:"id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	TemplateID int       `json:"template_id"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	Viewed     bool      `json:"viewed"`
}

// Follow is a directed edge, unique per ordered pair, no self-loops.
type Follow struct {
	Follower   string    `json:"follower"`
	Following  string    `json:"following"`
	FollowedAt time.Time `json:"followed_at"`
}

type Like struct {
	User          string    `json:"user"`
	LikesUsername string    `json:"likes_username"`
	LikedAt       time.Time `json:"liked_at"`
}

// Block is asymmetric: blocker -> blocked gates requests and messages in
// that direction only.
type Block struct {
	Blocker   string    `json:"blocker"`
	Blocked   string    `json:"blocked"`
	CreatedAt time.Time `json:"created_at"`
}

type Notification struct {
	ID        int              `json:"id"`
	Type      NotificationType `json:"type"`
	From      string           `json:"from"`
	To        string           `json:"to"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
	Read      bool             `json:"read"`
}

type Report struct {
	Reporter  string    `json:"reporter"`
	Reported  string    `json:"reported"`
	Reason    string    `json:"reason"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalyticsSummary holds per-user counters incremented at explicit call
// sites; they can drift from the ground-truth logs.
type AnalyticsSummary struct {
	PageViews    int64 `json:"page_views"`
	MessagesSent int64 `json:"messages_sent"`
	Follows      int64 `json:"follows"`
	Likes        int64 `json:"likes"`
	RequestsSent int64 `json:"requests_sent"`
}

type Gift struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Link        string `json:"link"`
	Category    string `json:"category"`
}

type CardTemplate struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Bg   string `json:"bg"`
	Icon string `json:"icon"`
}
