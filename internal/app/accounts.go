package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"valentine/internal/analytics"
	"valentine/internal/util"
	"valentine/pkg/auth"
	"valentine/pkg/domain"
)

const maxBioLen = 200

// Register creates the account and starts a session for it.
func (a *App) Register(username, email, password string) (domain.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if username == "" || email == "" || password == "" {
		return domain.User{}, "", ErrAllFieldsRequired
	}
	if _, exists, err := a.store.GetUser(username); err != nil {
		return domain.User{}, "", fmt.Errorf("lookup user: %w", err)
	} else if exists {
		return domain.User{}, "", ErrUsernameTaken
	}
	taken, err := a.store.HasUserEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if taken {
		return domain.User{}, "", ErrEmailTaken
	}

	user := domain.User{
		Username:           username,
		Email:              email,
		PasswordHash:       auth.HashPassword(password),
		Bio:                "",
		Interests:          "",
		RelationshipStatus: "Looking",
		Theme:              "default",
		Settings:           domain.DefaultSettings(),
		CreatedAt:          time.Now(),
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, "", fmt.Errorf("save user: %w", err)
	}
	token, err := a.sessions.NewSession(username)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("start session: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and starts a session.
func (a *App) Login(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return "", ErrCredentialsRequired
	}
	user, exists, err := a.store.GetUser(username)
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if !exists || !auth.CheckPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	token, err := a.sessions.NewSession(username)
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return token, nil
}

// Logout destroys the session; unknown tokens are fine.
func (a *App) Logout(token string) error {
	if token == "" {
		return nil
	}
	return a.sessions.DeleteSession(token)
}

// Authenticate resolves a session token to its user.
func (a *App) Authenticate(token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrNoSession
	}
	username, ok, err := a.sessions.GetUsernameByToken(token)
	if err != nil {
		return domain.User{}, fmt.Errorf("resolve session: %w", err)
	}
	if !ok {
		return domain.User{}, ErrNoSession
	}
	user, exists, err := a.store.GetUser(username)
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !exists {
		// Account deleted while the session was live.
		return domain.User{}, ErrNoSession
	}
	return user, nil
}

// SetupAdmin promotes the first registered user to admin. One-shot: fails
// once any admin exists. Deliberately unauthenticated, matching the
// bootstrap flow it replaces.
func (a *App) SetupAdmin() (string, error) {
	users, err := a.store.ListUsers()
	if err != nil {
		return "", fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return "", ErrNoUsersYet
	}
	for _, u := range users {
		if u.IsAdmin {
			return "", ErrAdminExists
		}
	}
	first := users[0]
	first.IsAdmin = true
	if err := a.store.SaveUser(first); err != nil {
		return "", fmt.Errorf("save user: %w", err)
	}
	return first.Username, nil
}

// GetProfile returns a user's public profile and counts a page view for
// the profile owner.
func (a *App) GetProfile(username string) (domain.User, error) {
	user, exists, err := a.store.GetUser(username)
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !exists {
		return domain.User{}, ErrUserNotFound
	}
	a.tracker.Incr(username, analytics.CounterPageViews)
	return user, nil
}

// UpdateBio replaces the caller's bio, truncated to 200 chars.
func (a *App) UpdateBio(username, bio string) error {
	bio = strings.TrimSpace(bio)
	if len(bio) > maxBioLen {
		bio = bio[:maxBioLen]
	}
	user, exists, err := a.store.GetUser(username)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	user.Bio = bio
	return a.store.SaveUser(user)
}

// UpdateProfile replaces interests, relationship status and theme.
func (a *App) UpdateProfile(username, interests, relationshipStatus, theme string) error {
	interests = strings.TrimSpace(interests)
	if len(interests) > maxBioLen {
		interests = interests[:maxBioLen]
	}
	relationshipStatus = strings.TrimSpace(relationshipStatus)
	if relationshipStatus == "" {
		relationshipStatus = "Looking"
	}
	theme = strings.TrimSpace(theme)
	if theme == "" {
		theme = "default"
	}
	user, exists, err := a.store.GetUser(username)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	user.Interests = interests
	user.RelationshipStatus = relationshipStatus
	user.Theme = theme
	return a.store.SaveUser(user)
}

// UploadProfilePicture stores the image inline as a data URL and archives
// the raw bytes best-effort.
func (a *App) UploadProfilePicture(username string, data []byte, contentType string) error {
	if len(data) == 0 {
		return ErrNoFileSelected
	}
	if !strings.HasPrefix(contentType, "image/") {
		return ErrFileMustBeImage
	}
	user, exists, err := a.store.GetUser(username)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	user.ProfilePicture = fmt.Sprintf("data:%s;base64,%s", contentType, encoded)
	if err := a.store.SaveUser(user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	a.archiveUpload("avatars/"+username+"/"+util.NewID(), data, contentType)
	return nil
}

// NotificationSettings returns the caller's email opt-in flags.
func (a *App) NotificationSettings(username string) (domain.NotificationSettings, error) {
	user, exists, err := a.store.GetUser(username)
	if err != nil {
		return domain.NotificationSettings{}, fmt.Errorf("lookup user: %w", err)
	}
	if !exists {
		return domain.NotificationSettings{}, ErrUserNotFound
	}
	return user.Settings, nil
}

// UpdateNotificationSettings replaces the caller's email opt-in flags.
func (a *App) UpdateNotificationSettings(username string, settings domain.NotificationSettings) error {
	user, exists, err := a.store.GetUser(username)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	user.Settings = settings
	return a.store.SaveUser(user)
}

// SearchUsers matches usernames by case-insensitive substring, excluding
// the caller. Queries under two characters are rejected.
func (a *App) SearchUsers(caller, query string) ([]domain.User, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < 2 {
		return nil, ErrQueryTooShort
	}
	users, err := a.store.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	results := make([]domain.User, 0)
	for _, u := range users {
		if u.Username == caller {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), query) {
			results = append(results, u)
		}
	}
	return results, nil
}

// Analytics returns the caller's activity counters.
func (a *App) Analytics(username string) (domain.AnalyticsSummary, error) {
	return a.tracker.Summary(username)
}

func (a *App) archiveUpload(key string, data []byte, contentType string) {
	if a.uploads == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.uploads.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
			slog.Warn("upload archive failed", "key", key, "error", err)
		}
	}()
}
