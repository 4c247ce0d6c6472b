package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"infoco-backoffice/internal/domain"
	"infoco-backoffice/internal/seed"
	"infoco-backoffice/internal/testutil"
)

func TestSetupHandler_Run(t *testing.T) {
	// The secret and seed-marker guards fire before any transaction, so a
	// nil transaction manager is safe here.
	t.Run("wrong_secret", func(t *testing.T) {
		appConfig := testutil.NewMockAppConfigRepository()
		h := NewSetupHandler(seed.NewSeeder(nil, appConfig, "top-secret"))

		w := httptest.NewRecorder()
		h.Run(w, httptest.NewRequest(http.MethodPost, "/api/v1/setup?secret=wrong", nil))

		testutil.AssertJSONError(t, w, http.StatusUnauthorized, "Unauthorized")
	})

	t.Run("missing_secret", func(t *testing.T) {
		appConfig := testutil.NewMockAppConfigRepository()
		h := NewSetupHandler(seed.NewSeeder(nil, appConfig, "top-secret"))

		w := httptest.NewRecorder()
		h.Run(w, httptest.NewRequest(http.MethodPost, "/api/v1/setup", nil))

		testutil.AssertJSONError(t, w, http.StatusUnauthorized, "Unauthorized")
	})

	t.Run("already_seeded", func(t *testing.T) {
		appConfig := testutil.NewMockAppConfigRepository()
		appConfig.Values[domain.ConfigSeedMarker] = json.RawMessage(`true`)
		h := NewSetupHandler(seed.NewSeeder(nil, appConfig, "top-secret"))

		w := httptest.NewRecorder()
		h.Run(w, httptest.NewRequest(http.MethodPost, "/api/v1/setup?secret=top-secret", nil))

		testutil.AssertJSONError(t, w, http.StatusConflict, "Database already seeded")
	})
}
