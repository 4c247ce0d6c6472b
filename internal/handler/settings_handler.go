package handler

import (
	"encoding/json"
	"net/http"

	"infoco-backoffice/internal/domain"
)

// SettingsHandler manages application-wide settings stored as JSON config
// values: the role permission matrix and the login screen image.
type SettingsHandler struct {
	appConfig domain.AppConfigRepository
}

func NewSettingsHandler(appConfig domain.AppConfigRepository) *SettingsHandler {
	return &SettingsHandler{appConfig: appConfig}
}

// UpdatePermissions replaces the role permission matrix. The value is
// opaque to the server; the frontend owns its shape.
func (h *SettingsHandler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	var permissions json.RawMessage
	if !decodeBody(w, r, &permissions) {
		return
	}
	if len(permissions) == 0 || string(permissions) == "null" {
		respondError(w, http.StatusBadRequest, "A permissions object is required")
		return
	}

	if err := h.appConfig.Set(r.Context(), domain.ConfigPermissions, permissions); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update permissions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type LoginImageRequest struct {
	URL string `json:"url"`
}

// UpdateLoginImage sets the image shown behind the login form.
func (h *SettingsHandler) UpdateLoginImage(w http.ResponseWriter, r *http.Request) {
	var req LoginImageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	value, err := json.Marshal(req.URL)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid url")
		return
	}
	if err := h.appConfig.Set(r.Context(), domain.ConfigLoginImageURL, value); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update login image")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
