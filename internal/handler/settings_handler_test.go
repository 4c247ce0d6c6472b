package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"infoco-backoffice/internal/domain"
	"infoco-backoffice/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestSettingsHandler_UpdatePermissions(t *testing.T) {
	t.Run("stores_matrix_verbatim", func(t *testing.T) {
		appConfig := testutil.NewMockAppConfigRepository()
		h := NewSettingsHandler(appConfig)

		matrix := map[string]map[string]bool{"admin": {"canViewDashboard": true}}
		w := httptest.NewRecorder()
		h.UpdatePermissions(w, testutil.NewJSONRequest(t, http.MethodPut, "/api/v1/settings/permissions", matrix))

		testutil.AssertStatusCode(t, w, http.StatusOK)
		assert.JSONEq(t, `{"admin":{"canViewDashboard":true}}`, string(appConfig.Values[domain.ConfigPermissions]))
	})

	t.Run("null_body_rejected", func(t *testing.T) {
		appConfig := testutil.NewMockAppConfigRepository()
		h := NewSettingsHandler(appConfig)

		w := httptest.NewRecorder()
		h.UpdatePermissions(w, testutil.NewJSONRequest(t, http.MethodPut, "/api/v1/settings/permissions", nil))

		testutil.AssertStatusCode(t, w, http.StatusBadRequest)
		assert.Empty(t, appConfig.Values)
	})

	t.Run("store_failure", func(t *testing.T) {
		appConfig := testutil.NewMockAppConfigRepository()
		appConfig.SetFunc = func(ctx context.Context, key string, value json.RawMessage) error {
			return errors.New("db down")
		}

		h := NewSettingsHandler(appConfig)
		w := httptest.NewRecorder()
		h.UpdatePermissions(w, testutil.NewJSONRequest(t, http.MethodPut, "/api/v1/settings/permissions",
			map[string]bool{"x": true}))

		testutil.AssertJSONError(t, w, http.StatusInternalServerError, "Failed to update permissions")
	})
}

func TestSettingsHandler_UpdateLoginImage(t *testing.T) {
	t.Run("stores_url_as_json_string", func(t *testing.T) {
		appConfig := testutil.NewMockAppConfigRepository()
		h := NewSettingsHandler(appConfig)

		w := httptest.NewRecorder()
		h.UpdateLoginImage(w, testutil.NewJSONRequest(t, http.MethodPut, "/api/v1/settings/login-image",
			LoginImageRequest{URL: "https://cdn.test/login.png"}))

		testutil.AssertStatusCode(t, w, http.StatusOK)
		assert.Equal(t, `"https://cdn.test/login.png"`, string(appConfig.Values[domain.ConfigLoginImageURL]))
	})

	t.Run("empty_url_clears_image", func(t *testing.T) {
		appConfig := testutil.NewMockAppConfigRepository()
		h := NewSettingsHandler(appConfig)

		w := httptest.NewRecorder()
		h.UpdateLoginImage(w, testutil.NewJSONRequest(t, http.MethodPut, "/api/v1/settings/login-image",
			LoginImageRequest{URL: ""}))

		testutil.AssertStatusCode(t, w, http.StatusOK)
		assert.Equal(t, `""`, string(appConfig.Values[domain.ConfigLoginImageURL]))
	})
}
