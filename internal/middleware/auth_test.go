package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"infoco-backoffice/internal/security"
	"infoco-backoffice/internal/session"
	"infoco-backoffice/internal/testutil"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestSessions(t *testing.T) (*session.Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := session.NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = store.Close() })

	sealer, err := security.NewSealer(testSessionSecret)
	require.NoError(t, err)
	return session.NewManager(store, sealer, time.Hour, false), mr
}

func TestAuth_ValidSession(t *testing.T) {
	sessions, _ := newTestSessions(t)
	cookieValue, err := sessions.Create(context.Background(), "user-123")
	require.NoError(t, err)

	var capturedUserID string
	nextHandlerCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextHandlerCalled = true
		capturedUserID, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := Auth(sessions)(nextHandler)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookieValue})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusOK)
	assert.True(t, nextHandlerCalled, "next handler should be called")
	assert.Equal(t, "user-123", capturedUserID)
}

func TestAuth_NoCookie(t *testing.T) {
	sessions, _ := newTestSessions(t)

	nextHandlerCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextHandlerCalled = true
	})

	handler := Auth(sessions)(nextHandler)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusUnauthorized)
	assert.False(t, nextHandlerCalled, "next handler should not be called")
	assert.Contains(t, w.Body.String(), "Not authenticated")
}

func TestAuth_InvalidCookie(t *testing.T) {
	sessions, _ := newTestSessions(t)

	nextHandlerCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextHandlerCalled = true
	})

	handler := Auth(sessions)(nextHandler)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "not-a-sealed-cookie"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusUnauthorized)
	assert.False(t, nextHandlerCalled, "next handler should not be called")
	assert.Contains(t, w.Body.String(), "Invalid or expired session")
}

func TestAuth_ExpiredSession(t *testing.T) {
	sessions, mr := newTestSessions(t)
	cookieValue, err := sessions.Create(context.Background(), "user-123")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	nextHandlerCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextHandlerCalled = true
	})

	handler := Auth(sessions)(nextHandler)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookieValue})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusUnauthorized)
	assert.False(t, nextHandlerCalled, "next handler should not be called")
}

func TestAuth_StoreOutageIsServerError(t *testing.T) {
	sessions, mr := newTestSessions(t)
	cookieValue, err := sessions.Create(context.Background(), "user-123")
	require.NoError(t, err)

	mr.SetError("connection refused")
	defer mr.SetError("")

	nextHandlerCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextHandlerCalled = true
	})

	handler := Auth(sessions)(nextHandler)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookieValue})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	// An unreachable store must not look like a logged-out user.
	testutil.AssertStatusCode(t, w, http.StatusInternalServerError)
	assert.False(t, nextHandlerCalled, "next handler should not be called")
}

func TestGetUserID(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		ctx := WithUserID(context.Background(), "user-456")
		userID, ok := GetUserID(ctx)
		assert.True(t, ok)
		assert.Equal(t, "user-456", userID)
	})

	t.Run("missing", func(t *testing.T) {
		userID, ok := GetUserID(context.Background())
		assert.False(t, ok)
		assert.Empty(t, userID)
	})

	t.Run("wrong_type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), UserIDKey, 12345)
		userID, ok := GetUserID(ctx)
		assert.False(t, ok)
		assert.Empty(t, userID)
	})
}

func TestAuth_MultipleMiddleware(t *testing.T) {
	sessions, _ := newTestSessions(t)
	cookieValue, err := sessions.Create(context.Background(), "user-123")
	require.NoError(t, err)

	callOrder := make([]string, 0)

	loggingMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callOrder = append(callOrder, "logging-before")
			next.ServeHTTP(w, r)
			callOrder = append(callOrder, "logging-after")
		})
	}

	finalHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callOrder = append(callOrder, "handler")
		w.WriteHeader(http.StatusOK)
	})

	handler := loggingMiddleware(Auth(sessions)(finalHandler))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookieValue})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, []string{"logging-before", "handler", "logging-after"}, callOrder)
}
