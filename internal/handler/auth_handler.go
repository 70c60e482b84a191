package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"storefront-admin/internal/domain"
)

// SessionManager issues, reads and clears the session cookie.
type SessionManager interface {
	Login(w http.ResponseWriter, identity domain.Identity) (*domain.Session, error)
	Logout(w http.ResponseWriter)
	Current(r *http.Request) (*domain.Session, bool)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	credentials domain.CredentialChecker
	sessions    SessionManager
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(credentials domain.CredentialChecker, sessions SessionManager) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		sessions:    sessions,
	}
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse carries the signed-in identity, or a null user.
// CSRFToken must be echoed in X-CSRF-Token on state-changing calls.
type UserResponse struct {
	User      *domain.Identity `json:"user"`
	CSRFToken string           `json:"csrfToken,omitempty"`
}

// Login checks the admin credentials and starts a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	identity, err := h.credentials.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeServiceError(w, r, err, "Login failed")
		return
	}

	session, err := h.sessions.Login(w, *identity)
	if err != nil {
		writeServiceError(w, r, err, "Login failed")
		return
	}

	slog.InfoContext(r.Context(), "admin signed in", "email", identity.Email)

	writeJSON(w, http.StatusOK, UserResponse{User: &session.Identity, CSRFToken: session.CSRFToken})
}

// Logout clears the session cookie. It succeeds without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// User returns the identity of the current session
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessions.Current(r)
	if !ok {
		writeJSON(w, http.StatusOK, UserResponse{})
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{User: &session.Identity, CSRFToken: session.CSRFToken})
}
