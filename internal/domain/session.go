package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Session is the server-side record backing one login. It is keyed by an
// opaque session ID that is distinct from the user ID; the client only ever
// holds the ID in encrypted form inside the cookie.
type Session struct {
	ID        string    `json:"-"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionStore is a TTL-bearing keyed store for session records.
// Get must return ErrSessionNotFound for missing or expired entries and a
// distinct error for store I/O failures, so callers can tell an expired
// login apart from an outage.
type SessionStore interface {
	Set(ctx context.Context, session *Session, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Refresh(ctx context.Context, sessionID string, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}
