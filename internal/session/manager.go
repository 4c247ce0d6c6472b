// Package session issues, validates, and revokes first-party login sessions.
// The client holds an encrypted cookie carrying only the session ID; the
// server-side store is the source of truth for identity.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"infoco-backoffice/internal/domain"
	"infoco-backoffice/internal/observability"
	"infoco-backoffice/internal/security"
)

const (
	// CookieName is the session cookie issued at login.
	CookieName = "infoco_session"

	// DefaultTTL is the sliding session lifetime. Every successful
	// validation resets the countdown, so a continuously active session
	// never expires; that matches the product's intent for an internal
	// back-office tool.
	DefaultTTL = 7 * 24 * time.Hour

	sessionIDBytes = 32
)

// cookiePayload is the only thing the cookie carries in its sealed form.
type cookiePayload struct {
	ID string `json:"id"`
}

// Manager owns the session lifecycle against a TTL-bearing store.
type Manager struct {
	store  domain.SessionStore
	sealer *security.Sealer
	ttl    time.Duration
	secure bool
}

// NewManager wires a Manager. secure controls the cookie's Secure attribute
// and should be true in production.
func NewManager(store domain.SessionStore, sealer *security.Sealer, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, sealer: sealer, ttl: ttl, secure: secure}
}

// TTL reports the configured session duration.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create mints a session for userID: one store write plus a sealed cookie
// value for the client. Each call produces a fresh random session ID.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	id, err := security.RandomToken(sessionIDBytes)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	record := &domain.Session{ID: id, UserID: userID, CreatedAt: time.Now()}
	if err := m.store.Set(ctx, record, m.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	cookieValue, err := m.sealer.Seal(cookiePayload{ID: id})
	if err != nil {
		return "", fmt.Errorf("seal session cookie: %w", err)
	}
	return cookieValue, nil
}

// Validate resolves a cookie value to the user it authenticates. An
// undecryptable or unknown cookie yields domain.ErrUnauthenticated; a store
// outage propagates as its own error so callers do not mask an
// infrastructure failure as a login problem. On a hit the store TTL is
// extended (sliding expiry).
func (m *Manager) Validate(ctx context.Context, cookieValue string) (string, error) {
	var payload cookiePayload
	if err := m.sealer.Open(cookieValue, &payload); err != nil || payload.ID == "" {
		observability.Debug("session cookie rejected", slog.Any("error", err))
		return "", domain.ErrUnauthenticated
	}

	record, err := m.store.Get(ctx, payload.ID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return "", domain.ErrUnauthenticated
	}
	if err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	// A refresh race only shortens or lengthens the window slightly; it is
	// not a security boundary, so a failed refresh is logged and ignored.
	if err := m.store.Refresh(ctx, payload.ID, m.ttl); err != nil {
		observability.Warn("session ttl refresh failed", slog.String("error", err.Error()))
	}
	return record.UserID, nil
}

// Delete revokes the session named by cookieValue. It is best-effort and
// idempotent: an invalid cookie or an already-deleted session is not an
// error, and the caller should clear the client cookie regardless.
func (m *Manager) Delete(ctx context.Context, cookieValue string) {
	var payload cookiePayload
	if err := m.sealer.Open(cookieValue, &payload); err != nil || payload.ID == "" {
		return
	}
	if err := m.store.Delete(ctx, payload.ID); err != nil {
		observability.Warn("session delete failed", slog.String("error", err.Error()))
	}
}

// Cookie builds the session cookie for a sealed value.
func (m *Manager) Cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie builds the clearing cookie sent at logout.
func (m *Manager) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
