package handlers

import (
	"net/http"

	"github.com/AnshRaj112/coffeemates-backend/internal/middleware"
	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/services"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
}

// Signup creates an account and returns a session token.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	u, token, err := h.auth.Signup(r.Context(), services.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.ensureHQChat(r, u)

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Welcome to Coffeemates",
		User:    u,
		Token:   token,
	})
}

// Signin checks credentials and returns a session token. Every failure reads
// the same to the client.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, services.ErrInvalidCredentials)
		return
	}

	u, token, err := h.auth.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.ensureHQChat(r, u)

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Signed in",
		User:    u,
		Token:   token,
	})
}

// Signout ends the current session.
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Signout(r.Context(), middleware.Token(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Signed out"})
}

// Me returns the signed-in profile, creating it on first load.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.profiles.GetOrCreate(r.Context(), middleware.UserID(r.Context()), "", "")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.ensureHQChat(r, u)

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "OK", User: u})
}

// ensureHQChat makes sure the welcome conversation exists. A failure is
// logged and retried on the next load.
func (h *Handler) ensureHQChat(r *http.Request, u *models.User) {
	if u.ID == models.HQUserID {
		return
	}
	if _, err := h.chats.EnsureHQChat(r.Context(), u); err != nil {
		h.log.WithError(err).WithField("user_id", u.ID).Error("failed to ensure HQ chat")
	}
}

// currentUser loads the signed-in profile.
func (h *Handler) currentUser(r *http.Request) (*models.User, error) {
	return h.profiles.GetOrCreate(r.Context(), middleware.UserID(r.Context()), "", "")
}
