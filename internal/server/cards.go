package server

import (
	"net/http"

	"valentine/internal/app"
	"valentine/pkg/domain"
)

func (s *Server) handleGifts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Gifts())
}

func (s *Server) handleCardTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.app.CardTemplates())
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req struct {
		To         string `json:"to"`
		TemplateID int    `json:"template_id"`
		Message    string `json:"message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	card, err := s.app.CreateCard(user.Username, req.To, req.TemplateID, req.Message)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Card created",
		"card":    card,
	})
}

func (s *Server) handleReceivedCards(w http.ResponseWriter, _ *http.Request, user domain.User) {
	cards, err := s.app.ReceivedCards(user.Username)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleViewCard(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := atoiPath(r, "id")
	if err != nil {
		writeAppError(w, app.ErrCardNotFound)
		return
	}
	card, err := s.app.ViewCard(user.Username, id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "card": card})
}
