package handler

import (
	"errors"
	"net/http"

	"infoco-backoffice/internal/domain"
	"infoco-backoffice/internal/middleware"
	"infoco-backoffice/internal/observability"
	"infoco-backoffice/internal/service"
	"infoco-backoffice/internal/session"
)

// AuthHandler handles login, logout, and session introspection.
type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
}

func NewAuthHandler(authService *service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool            `json:"success"`
	User    *domain.Profile `json:"user"`
}

// Login authenticates a credential and sets the session cookie. Every
// failure mode reports the same message, so accounts cannot be enumerated.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	profile, cookieValue, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).Error("login failed", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "Login unavailable")
		return
	}

	observability.SessionsCreated.Inc()
	http.SetCookie(w, h.sessions.Cookie(cookieValue))
	respondJSON(w, http.StatusOK, LoginResponse{Success: true, User: profile})
}

// Logout revokes the session and clears the cookie. It succeeds even when
// the cookie is already stale.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		h.authService.Logout(r.Context(), cookie.Value)
	}
	http.SetCookie(w, h.sessions.ExpiredCookie())
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	profile, err := h.authService.CurrentUser(r.Context(), userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		// The account was deleted while its session was still live.
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

// UpdatePassword sets a new password for the authenticated user.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req UpdatePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.authService.UpdatePassword(r.Context(), userID, req.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "Password must have at least 6 characters")
	case errors.Is(err, domain.ErrProfileNotFound):
		respondError(w, http.StatusNotFound, "Profile not found")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to update password")
	default:
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
