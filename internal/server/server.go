package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"valentine/internal/app"
	"valentine/internal/realtime"
	"valentine/internal/util"
	"valentine/pkg/domain"
)

const sessionCookie = "session"

// Config wires required dependencies for the HTTP server.
type Config struct {
	App            *app.App
	Hub            *realtime.Hub
	MaxUploadBytes int64
}

// Server exposes the HTTP and websocket surface.
type Server struct {
	app            *app.App
	hub            *realtime.Hub
	mux            *http.ServeMux
	maxUploadBytes int64
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 5 * 1024 * 1024
	}
	s := &Server{
		app:            cfg.App,
		hub:            cfg.Hub,
		mux:            http.NewServeMux(),
		maxUploadBytes: maxUpload,
	}
	s.routes()
	return s
}

// Router returns the configured handler wrapped in the ambient middleware.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("valentine",
		util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	// accounts & sessions
	s.mux.HandleFunc("POST /register", s.handleRegister)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("GET /logout", s.handleLogout)
	s.mux.HandleFunc("POST /setup-admin", s.handleSetupAdmin)

	// profile
	s.mux.Handle("GET /api/user", s.authenticated(s.handleCurrentUser))
	s.mux.Handle("GET /api/user/analytics", s.authenticated(s.handleAnalytics))
	s.mux.Handle("GET /api/user/blocked-list", s.authenticated(s.handleBlockedList))
	s.mux.Handle("GET /api/user/notification-settings", s.authenticated(s.handleGetNotificationSettings))
	s.mux.Handle("POST /api/user/notification-settings", s.authenticated(s.handleUpdateNotificationSettings))
	s.mux.Handle("POST /api/user/bio", s.authenticated(s.handleUpdateBio))
	s.mux.Handle("POST /api/user/profile", s.authenticated(s.handleUpdateProfile))
	s.mux.Handle("POST /api/user/profile-picture", s.authenticated(s.handleProfilePicture))
	s.mux.HandleFunc("GET /api/user/{username}", s.handleUserProfile)
	s.mux.Handle("GET /api/search-user", s.authenticated(s.handleSearchUser))

	// valentine requests
	s.mux.Handle("POST /api/send-request", s.authenticated(s.handleSendRequest))
	s.mux.Handle("GET /api/requests/sent", s.authenticated(s.handleSentRequests))
	s.mux.Handle("GET /api/requests/received", s.authenticated(s.handleReceivedRequests))
	s.mux.Handle("POST /api/requests/{id}/respond", s.authenticated(s.handleRespondRequest))

	// messaging
	s.mux.Handle("POST /api/messages/send", s.authenticated(s.handleSendMessage))
	s.mux.Handle("POST /api/messages/share-image", s.authenticated(s.handleShareImage))
	s.mux.Handle("GET /api/messages/{username}", s.authenticated(s.handleConversation))

	// cards & gifts
	s.mux.HandleFunc("GET /api/gifts", s.handleGifts)
	s.mux.HandleFunc("GET /api/card-templates", s.handleCardTemplates)
	s.mux.Handle("POST /api/cards/create", s.authenticated(s.handleCreateCard))
	s.mux.Handle("GET /api/cards/received", s.authenticated(s.handleReceivedCards))
	s.mux.Handle("POST /api/cards/{id}/view", s.authenticated(s.handleViewCard))

	// social graph
	s.mux.Handle("POST /api/follow/{username}", s.authenticated(s.handleFollow))
	s.mux.Handle("POST /api/unfollow/{username}", s.authenticated(s.handleUnfollow))
	s.mux.HandleFunc("GET /api/followers/{username}", s.handleFollowers)
	s.mux.HandleFunc("GET /api/following/{username}", s.handleFollowing)
	s.mux.Handle("POST /api/like/{username}", s.authenticated(s.handleLike))
	s.mux.Handle("POST /api/unlike/{username}", s.authenticated(s.handleUnlike))
	s.mux.HandleFunc("GET /api/likes/{username}", s.handleLikes)
	s.mux.Handle("POST /api/block/{username}", s.authenticated(s.handleBlock))
	s.mux.Handle("POST /api/unblock/{username}", s.authenticated(s.handleUnblock))
	s.mux.Handle("POST /api/report/{username}", s.authenticated(s.handleReport))

	// notifications
	s.mux.Handle("GET /api/notifications", s.authenticated(s.handleNotifications))
	s.mux.Handle("POST /api/notifications/{id}/read", s.authenticated(s.handleNotificationRead))

	// admin
	s.mux.Handle("GET /api/admin/users", s.adminOnly(s.handleAdminUsers))
	s.mux.Handle("GET /api/admin/stats", s.adminOnly(s.handleAdminStats))
	s.mux.Handle("GET /api/admin/reports", s.adminOnly(s.handleAdminReports))
	s.mux.Handle("POST /api/admin/users/{username}/make-admin", s.adminOnly(s.handleMakeAdmin))
	s.mux.Handle("POST /api/admin/users/{username}/remove-admin", s.adminOnly(s.handleRemoveAdmin))
	s.mux.Handle("POST /api/admin/users/{username}/delete", s.adminOnly(s.handleDeleteUser))

	// realtime
	s.mux.HandleFunc("GET /ws", s.handleWebsocket)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers
type authHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.app.Authenticate(sessionToken(r))
		if err != nil {
			writeAppError(w, err)
			return
		}
		next(w, r, user)
	})
}

func (s *Server) adminOnly(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.app.Authenticate(sessionToken(r))
		if err != nil {
			writeAppError(w, err)
			return
		}
		if !user.IsAdmin {
			writeAppError(w, app.ErrNotAdmin)
			return
		}
		next(w, r, user)
	})
}

// sessionToken pulls the token from the Authorization header or the
// session cookie.
func sessionToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": true, "message": msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

// writeAppError maps application failure codes onto HTTP statuses.
func writeAppError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "Internal error"
	switch app.CodeOf(err) {
	case app.CodeInvalidInput:
		status, msg = http.StatusBadRequest, err.Error()
	case app.CodeNotFound:
		status, msg = http.StatusNotFound, err.Error()
	case app.CodeConflict:
		status, msg = http.StatusConflict, err.Error()
	case app.CodeUnauthorized:
		status, msg = http.StatusUnauthorized, err.Error()
	case app.CodeForbidden:
		status, msg = http.StatusForbidden, err.Error()
	case app.CodeInvalidState:
		status, msg = http.StatusConflict, err.Error()
	}
	writeError(w, status, msg)
}

func atoiPath(r *http.Request, name string) (int, error) {
	return strconv.Atoi(r.PathValue(name))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
