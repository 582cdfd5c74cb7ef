package server

import (
	"net/http"

	"valentine/internal/app"
	"valentine/pkg/domain"
)

func (s *Server) handleSendRequest(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req struct {
		RecipientUsername string `json:"recipient_username"`
		Message           string `json:"message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := s.app.SendRequest(user.Username, req.RecipientUsername, req.Message); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Request sent successfully")
}

func (s *Server) handleSentRequests(w http.ResponseWriter, _ *http.Request, user domain.User) {
	sent, err := s.app.SentRequests(user.Username)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sent)
}

func (s *Server) handleReceivedRequests(w http.ResponseWriter, _ *http.Request, user domain.User) {
	received, err := s.app.ReceivedRequests(user.Username)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, received)
}

func (s *Server) handleRespondRequest(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := atoiPath(r, "id")
	if err != nil {
		writeAppError(w, app.ErrRequestNotFound)
		return
	}
	var req struct {
		Response        string `json:"response"`
		ResponseMessage string `json:"response_message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	updated, err := s.app.RespondRequest(user.Username, id, req.Response, req.ResponseMessage)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Request "+string(updated.Status))
}
