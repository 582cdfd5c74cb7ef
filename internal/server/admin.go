package server

import (
	"net/http"

	"valentine/pkg/domain"
)

func (s *Server) handleAdminUsers(w http.ResponseWriter, _ *http.Request, _ domain.User) {
	users, err := s.app.AdminUsers()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleAdminStats(w http.ResponseWriter, _ *http.Request, _ domain.User) {
	stats, err := s.app.Stats()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAdminReports(w http.ResponseWriter, _ *http.Request, _ domain.User) {
	reports, err := s.app.Reports()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleMakeAdmin(w http.ResponseWriter, r *http.Request, _ domain.User) {
	target := r.PathValue("username")
	if err := s.app.MakeAdmin(target); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, target+" is now an admin")
}

func (s *Server) handleRemoveAdmin(w http.ResponseWriter, r *http.Request, _ domain.User) {
	target := r.PathValue("username")
	if err := s.app.RemoveAdmin(target); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, target+" is no longer an admin")
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request, _ domain.User) {
	target := r.PathValue("username")
	if err := s.app.DeleteUser(target); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User "+target+" deleted")
}
