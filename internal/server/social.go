package server

import (
	"net/http"

	"valentine/pkg/domain"
)

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request, user domain.User) {
	if err := s.app.Follow(user.Username, r.PathValue("username")); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Following user")
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request, user domain.User) {
	if err := s.app.Unfollow(user.Username, r.PathValue("username")); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Unfollowed user")
}

func (s *Server) handleFollowers(w http.ResponseWriter, r *http.Request) {
	followers, err := s.app.Followers(r.PathValue("username"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"followers": followers,
		"count":     len(followers),
	})
}

func (s *Server) handleFollowing(w http.ResponseWriter, r *http.Request) {
	following, err := s.app.Following(r.PathValue("username"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"following": following,
		"count":     len(following),
	})
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request, user domain.User) {
	if err := s.app.Like(user.Username, r.PathValue("username")); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Liked user")
}

func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request, user domain.User) {
	if err := s.app.Unlike(user.Username, r.PathValue("username")); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Unliked user")
}

func (s *Server) handleLikes(w http.ResponseWriter, r *http.Request) {
	likes, err := s.app.Likes(r.PathValue("username"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"likes": likes,
		"count": len(likes),
	})
}

func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request, user domain.User) {
	target := r.PathValue("username")
	if err := s.app.Block(user.Username, target); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "You blocked "+target)
}

func (s *Server) handleUnblock(w http.ResponseWriter, r *http.Request, user domain.User) {
	target := r.PathValue("username")
	if err := s.app.Unblock(user.Username, target); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "You unblocked "+target)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.app.Report(user.Username, r.PathValue("username"), req.Reason, req.Message); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "User reported successfully")
}
