package server

import (
	"net/http"
	"strings"

	"valentine/internal/app"
	"valentine/pkg/domain"
)

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req struct {
		To      string `json:"to"`
		Content string `json:"content"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := s.app.SendMessage(user.Username, req.To, req.Content); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Message sent")
}

func (s *Server) handleShareImage(w http.ResponseWriter, r *http.Request, user domain.User) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeAppError(w, app.ErrMissingFileOrTo)
		return
	}
	to := strings.TrimSpace(r.FormValue("to"))
	data, contentType, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	if _, err := s.app.ShareImage(user.Username, to, data, contentType); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Image shared")
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request, user domain.User) {
	conversation, err := s.app.Conversation(user.Username, r.PathValue("username"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conversation)
}

func (s *Server) handleNotifications(w http.ResponseWriter, _ *http.Request, user domain.User) {
	notifications, err := s.app.Notifications(user.Username)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := atoiPath(r, "id")
	if err != nil {
		writeAppError(w, app.ErrNotificationNotFound)
		return
	}
	if err := s.app.MarkNotificationRead(user.Username, id); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
