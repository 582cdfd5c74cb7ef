package server

import (
	"io"
	"net/http"
	"time"

	"valentine/pkg/domain"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileResponse struct {
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	ProfilePicture     string    `json:"profile_picture,omitempty"`
	Bio                string    `json:"bio"`
	Interests          string    `json:"interests"`
	RelationshipStatus string    `json:"relationship_status"`
	Theme              string    `json:"theme"`
	CreatedAt          time.Time `json:"created_at"`
}

func profileOf(u domain.User) profileResponse {
	return profileResponse{
		Username:           u.Username,
		Email:              u.Email,
		ProfilePicture:     u.ProfilePicture,
		Bio:                u.Bio,
		Interests:          u.Interests,
		RelationshipStatus: u.RelationshipStatus,
		Theme:              u.Theme,
		CreatedAt:          u.CreatedAt,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	_, token, err := s.app.Register(req.Username, req.Email, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}
	setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Account created successfully",
		"token":   token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, err := s.app.Login(req.Username, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}
	setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged in successfully",
		"token":   token,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	_ = s.app.Logout(sessionToken(r))
	clearSessionCookie(w)
	writeSuccess(w, http.StatusOK, "Logged out")
}

func (s *Server) handleSetupAdmin(w http.ResponseWriter, _ *http.Request) {
	admin, err := s.app.SetupAdmin()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": admin + " is now an admin!",
		"admin":   admin,
	})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, _ *http.Request, user domain.User) {
	writeJSON(w, http.StatusOK, profileOf(user))
}

func (s *Server) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.app.GetProfile(r.PathValue("username"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileOf(user))
}

func (s *Server) handleUpdateBio(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req struct {
		Bio string `json:"bio"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.app.UpdateBio(user.Username, req.Bio); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Bio updated")
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req struct {
		Interests          string `json:"interests"`
		RelationshipStatus string `json:"relationship_status"`
		Theme              string `json:"theme"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.app.UpdateProfile(user.Username, req.Interests, req.RelationshipStatus, req.Theme); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Profile updated")
}

func (s *Server) handleProfilePicture(w http.ResponseWriter, r *http.Request, user domain.User) {
	data, contentType, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	if err := s.app.UploadProfilePicture(user.Username, data, contentType); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Profile picture updated")
}

// readUpload extracts the multipart "file" part, bounded by the upload
// limit.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return nil, "", false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read file")
		return nil, "", false
	}
	return data, header.Header.Get("Content-Type"), true
}

func (s *Server) handleGetNotificationSettings(w http.ResponseWriter, _ *http.Request, user domain.User) {
	settings, err := s.app.NotificationSettings(user.Username)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateNotificationSettings(w http.ResponseWriter, r *http.Request, user domain.User) {
	var settings domain.NotificationSettings
	if !decodeJSON(w, r, &settings) {
		return
	}
	if err := s.app.UpdateNotificationSettings(user.Username, settings); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Notification settings updated")
}

func (s *Server) handleSearchUser(w http.ResponseWriter, r *http.Request, user domain.User) {
	results, err := s.app.SearchUsers(user.Username, r.URL.Query().Get("q"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	summaries := make([]map[string]any, 0, len(results))
	for _, u := range results {
		summaries = append(summaries, map[string]any{
			"username":        u.Username,
			"email":           u.Email,
			"profile_picture": u.ProfilePicture,
			"bio":             u.Bio,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "results": summaries})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, _ *http.Request, user domain.User) {
	summary, err := s.app.Analytics(user.Username)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleBlockedList(w http.ResponseWriter, _ *http.Request, user domain.User) {
	blocked, err := s.app.BlockedList(user.Username)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blocked": blocked})
}
