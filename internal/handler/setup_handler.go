package handler

import (
	"errors"
	"net/http"

	"infoco-backoffice/internal/observability"
	"infoco-backoffice/internal/seed"
)

// SetupHandler exposes the one-shot database seed.
type SetupHandler struct {
	seeder *seed.Seeder
}

func NewSetupHandler(seeder *seed.Seeder) *SetupHandler {
	return &SetupHandler{seeder: seeder}
}

// Run seeds the default dataset. Guarded by the setup secret and the seed
// marker, so it can be hit repeatedly without duplicating data.
func (h *SetupHandler) Run(w http.ResponseWriter, r *http.Request) {
	err := h.seeder.Run(r.Context(), r.URL.Query().Get("secret"))
	switch {
	case errors.Is(err, seed.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, seed.ErrAlreadySeeded):
		respondError(w, http.StatusConflict, "Database already seeded")
	case err != nil:
		observability.FromContext(r.Context()).Error("seed failed", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "Seed failed")
	default:
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Database seeded successfully",
		})
	}
}
