package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"valentine/internal/analytics"
	"valentine/internal/mailer"
	"valentine/pkg/storage"
	"valentine/pkg/store"
)

// Realtime event names shared by the HTTP and websocket paths.
const (
	EventConnectionResponse = "connection_response"
	EventNewMessage         = "new_message"
	EventMessageSent        = "message_sent"
	EventUserNotification   = "user_notification"
	EventError              = "error"
)

// Notifier pushes an event to every live connection in a room. Rooms are
// named by username.
type Notifier interface {
	Emit(room, event string, data any)
}

type noopNotifier struct{}

func (noopNotifier) Emit(string, string, any) {}

// Config holds runtime configuration for the core application. Collaborator
// fields override the construction that would otherwise be derived from the
// scalar settings.
type Config struct {
	DatabaseURL     string
	DataDir         string
	SessionStrategy string // "memory", "redis" or "jwt"
	SessionTTL      time.Duration
	RedisAddr       string
	RedisPassword   string
	SecretKey       string
	BaseURL         string

	Store    store.Store
	Sessions store.SessionStore
	Notifier Notifier
	Mailer   mailer.Mailer
	Tracker  analytics.Tracker
	Uploads  storage.ObjectStore
}

// App is the core application service wiring storage, sessions, realtime
// push, email and analytics together.
type App struct {
	store    store.Store
	sessions store.SessionStore
	notifier Notifier
	mailer   mailer.Mailer
	tracker  analytics.Tracker
	uploads  storage.ObjectStore
	baseURL  string
}

// New constructs the application. Missing collaborators get sensible
// defaults: file or gorm store per config, in-memory sessions, log mailer,
// in-memory analytics, no realtime push, no upload archive.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		var err error
		switch {
		case cfg.DatabaseURL != "":
			dataStore, err = store.NewGormStore(cfg.DatabaseURL)
			if err != nil {
				return nil, fmt.Errorf("init gorm store: %w", err)
			}
		case cfg.DataDir != "":
			dataStore, err = store.NewFileStore(cfg.DataDir)
			if err != nil {
				return nil, fmt.Errorf("init file store: %w", err)
			}
		default:
			dataStore = store.NewMemoryStore()
		}
	}

	sessionStore := cfg.Sessions
	if sessionStore == nil {
		switch strings.ToLower(strings.TrimSpace(cfg.SessionStrategy)) {
		case "redis":
			if cfg.RedisAddr == "" {
				return nil, fmt.Errorf("redisAddr is required for redis session strategy")
			}
			client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
			sessionStore = store.NewRedisSessionStore(client, cfg.SessionTTL)
		case "jwt":
			if cfg.SecretKey == "" {
				return nil, fmt.Errorf("secretKey is required for jwt session strategy")
			}
			sessionStore = store.NewJWTSessionStore(cfg.SecretKey, cfg.SessionTTL)
		default:
			sessionStore = store.NewMemorySessionStore()
		}
	}

	notifier := cfg.Notifier
	if notifier == nil {
		notifier = noopNotifier{}
	}
	emailer := cfg.Mailer
	if emailer == nil {
		emailer = mailer.LogMailer{}
	}
	tracker := cfg.Tracker
	if tracker == nil {
		tracker = analytics.NewMemoryTracker()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &App{
		store:    dataStore,
		sessions: sessionStore,
		notifier: notifier,
		mailer:   emailer,
		tracker:  tracker,
		uploads:  cfg.Uploads,
		baseURL:  baseURL,
	}, nil
}

func (a *App) dashboardLink() string {
	return a.baseURL + "/dashboard"
}
