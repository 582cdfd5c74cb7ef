package app

import (
	"fmt"
	"time"

	"valentine/pkg/domain"
)

// AdminUserSummary is one row of the admin user listing.
type AdminUserSummary struct {
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
	IsAdmin       bool      `json:"is_admin"`
	Followers     int       `json:"followers"`
	Following     int       `json:"following"`
	LikesReceived int       `json:"likes_received"`
}

// AdminStats aggregates collection sizes for the admin dashboard.
type AdminStats struct {
	TotalUsers             int `json:"total_users"`
	TotalValentineRequests int `json:"total_valentine_requests"`
	TotalMessages          int `json:"total_messages"`
	TotalCards             int `json:"total_cards"`
	TotalFollows           int `json:"total_follows"`
	TotalLikes             int `json:"total_likes"`
	PendingRequests        int `json:"pending_requests"`
	AcceptedRequests       int `json:"accepted_requests"`
}

// AdminUsers lists every user with social-graph counts.
func (a *App) AdminUsers() ([]AdminUserSummary, error) {
	users, err := a.store.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	follows, err := a.store.ListFollows()
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	likes, err := a.store.ListLikes()
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}

	summaries := make([]AdminUserSummary, 0, len(users))
	for _, u := range users {
		s := AdminUserSummary{
			Username:  u.Username,
			Email:     u.Email,
			CreatedAt: u.CreatedAt,
			IsAdmin:   u.IsAdmin,
		}
		for _, f := range follows {
			if f.Following == u.Username {
				s.Followers++
			}
			if f.Follower == u.Username {
				s.Following++
			}
		}
		for _, l := range likes {
			if l.LikesUsername == u.Username {
				s.LikesReceived++
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// Stats aggregates collection counts.
func (a *App) Stats() (AdminStats, error) {
	var stats AdminStats
	users, err := a.store.ListUsers()
	if err != nil {
		return stats, fmt.Errorf("list users: %w", err)
	}
	requests, err := a.store.ListRequests()
	if err != nil {
		return stats, fmt.Errorf("list requests: %w", err)
	}
	messages, err := a.store.ListMessages()
	if err != nil {
		return stats, fmt.Errorf("list messages: %w", err)
	}
	cards, err := a.store.ListCards()
	if err != nil {
		return stats, fmt.Errorf("list cards: %w", err)
	}
	follows, err := a.store.ListFollows()
	if err != nil {
		return stats, fmt.Errorf("list follows: %w", err)
	}
	likes, err := a.store.ListLikes()
	if err != nil {
		return stats, fmt.Errorf("list likes: %w", err)
	}

	stats.TotalUsers = len(users)
	stats.TotalValentineRequests = len(requests)
	stats.TotalMessages = len(messages)
	stats.TotalCards = len(cards)
	stats.TotalFollows = len(follows)
	stats.TotalLikes = len(likes)
	for _, r := range requests {
		switch r.Status {
		case domain.RequestPending:
			stats.PendingRequests++
		case domain.RequestAccepted:
			stats.AcceptedRequests++
		}
	}
	return stats, nil
}

// Reports lists every filed report, oldest first.
func (a *App) Reports() ([]domain.Report, error) {
	reports, err := a.store.ListReports()
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// MakeAdmin grants the admin flag.
func (a *App) MakeAdmin(username string) error {
	return a.setAdminFlag(username, true)
}

// RemoveAdmin clears the admin flag.
func (a *App) RemoveAdmin(username string) error {
	return a.setAdminFlag(username, false)
}

func (a *App) setAdminFlag(username string, isAdmin bool) error {
	user, exists, err := a.store.GetUser(username)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	user.IsAdmin = isAdmin
	return a.store.SaveUser(user)
}

// DeleteUser removes the user record only. Messages, requests, edges and
// cards referencing the username stay behind; listings simply show a
// username that no longer resolves.
func (a *App) DeleteUser(username string) error {
	if err := a.requireUser(username); err != nil {
		return err
	}
	return a.store.DeleteUser(username)
}
