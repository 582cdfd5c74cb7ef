package app

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"time"

	"valentine/internal/analytics"
	"valentine/internal/mailer"
	"valentine/internal/util"
	"valentine/pkg/domain"
)

// SendMessage persists a text message and fans it out. Both the HTTP
// endpoint and the websocket send_message event call this, so guards and
// side effects stay identical on the two paths.
func (a *App) SendMessage(from, to, content string) (domain.Message, error) {
	to = strings.TrimSpace(to)
	content = strings.TrimSpace(content)

	recipient, exists, err := a.store.GetUser(to)
	if err != nil {
		return domain.Message{}, fmt.Errorf("lookup user: %w", err)
	}
	if !exists {
		return domain.Message{}, ErrUserNotFound
	}
	if content == "" {
		return domain.Message{}, ErrEmptyMessage
	}
	blocked, err := a.isBlocked(to, from)
	if err != nil {
		return domain.Message{}, err
	}
	if blocked {
		return domain.Message{}, ErrMessageBlocked
	}

	msg := domain.Message{
		From:    from,
		To:      to,
		Content: content,
		SentAt:  time.Now(),
		Type:    domain.MessageText,
	}
	if err := a.store.AppendMessage(msg); err != nil {
		return domain.Message{}, fmt.Errorf("save message: %w", err)
	}

	if recipient.Settings.EmailOnMessage {
		mailer.SendAsync(a.mailer, recipient.Email,
			fmt.Sprintf("New Message from %s", from),
			fmt.Sprintf("💬 New Message from %s\n\n%s\n\nRead it at %s", from, content, a.dashboardLink()))
	}
	a.notifier.Emit(to, EventNewMessage, map[string]any{
		"from":    from,
		"content": content,
		"sent_at": msg.SentAt,
		"type":    string(domain.MessageText),
	})
	a.tracker.Incr(from, analytics.CounterMessagesSent)
	return msg, nil
}

// ShareImage persists an image message with the payload embedded as a data
// URL. The realtime event carries a placeholder instead of the payload, and
// the raw bytes are archived best-effort.
func (a *App) ShareImage(from, to string, data []byte, contentType string) (domain.Message, error) {
	to = strings.TrimSpace(to)
	if len(data) == 0 || to == "" {
		return domain.Message{}, ErrMissingFileOrTo
	}
	recipient, exists, err := a.store.GetUser(to)
	if err != nil {
		return domain.Message{}, fmt.Errorf("lookup user: %w", err)
	}
	if !exists {
		return domain.Message{}, ErrRecipientNotFound
	}
	blocked, err := a.isBlocked(to, from)
	if err != nil {
		return domain.Message{}, err
	}
	if blocked {
		return domain.Message{}, ErrMessageBlocked
	}
	if contentType == "" {
		contentType = "image/png"
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	msg := domain.Message{
		From:    from,
		To:      to,
		Content: fmt.Sprintf("data:%s;base64,%s", contentType, encoded),
		SentAt:  time.Now(),
		Type:    domain.MessageImage,
	}
	if err := a.store.AppendMessage(msg); err != nil {
		return domain.Message{}, fmt.Errorf("save message: %w", err)
	}

	if recipient.Settings.EmailOnMessage {
		mailer.SendAsync(a.mailer, recipient.Email,
			fmt.Sprintf("New Message from %s", from),
			fmt.Sprintf("💬 %s shared an image with you.\n\nSee it at %s", from, a.dashboardLink()))
	}
	a.notifier.Emit(to, EventNewMessage, map[string]any{
		"from":    from,
		"content": "[Image shared]",
		"sent_at": msg.SentAt,
		"type":    string(domain.MessageImage),
	})
	a.archiveUpload("messages/"+from+"/"+util.NewID(), data, contentType)
	a.tracker.Incr(from, analytics.CounterMessagesSent)
	return msg, nil
}

// Conversation returns every message between the two users, oldest first.
// Visibility is symmetric: either participant sees the same set.
func (a *App) Conversation(user, other string) ([]domain.Message, error) {
	all, err := a.store.ListMessages()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	conversation := make([]domain.Message, 0)
	for _, m := range all {
		if (m.From == user && m.To == other) || (m.From == other && m.To == user) {
			conversation = append(conversation, m)
		}
	}
	sort.SliceStable(conversation, func(i, j int) bool {
		return conversation[i].SentAt.Before(conversation[j].SentAt)
	})
	return conversation, nil
}

// Notifications lists notifications addressed to the user.
func (a *App) Notifications(username string) ([]domain.Notification, error) {
	all, err := a.store.ListNotifications()
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	mine := make([]domain.Notification, 0)
	for _, n := range all {
		if n.To == username {
			mine = append(mine, n)
		}
	}
	return mine, nil
}

// MarkNotificationRead flips the read flag; recipient only.
func (a *App) MarkNotificationRead(username string, id int) error {
	all, err := a.store.ListNotifications()
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}
	for _, n := range all {
		if n.ID == id && n.To == username {
			n.Read = true
			return a.store.UpdateNotification(n)
		}
	}
	return ErrNotificationNotFound
}
