// Package mail integrates the Zoho Mail provider: OAuth token brokerage and
// the message API client.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"

	"infoco-backoffice/internal/observability"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNotConnected means no token pair is held; the account must go
	// through the authorization flow before mail calls can be made.
	ErrNotConnected = errors.New("mail account not connected")

	// ErrReauthorizationRequired means a refresh failed and the stored pair
	// was cleared; the user has to re-consent at the provider.
	ErrReauthorizationRequired = errors.New("mail reauthorization required")
)

// refreshSafetyMargin is subtracted from the provider-reported lifetime so a
// token is never used when it could expire mid-request.
const refreshSafetyMargin = 300 * time.Second

// TokenPair is the provider token state for one connected account.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// AccountInfo caches the provider account identity needed by message calls.
type AccountInfo struct {
	AccountID    string `json:"accountId"`
	PrimaryEmail string `json:"primaryEmail"`
}

// TokenStore holds the token pair and account metadata for the connected
// account. Implementations must tolerate concurrent access.
type TokenStore interface {
	Tokens() *TokenPair
	SetTokens(pair *TokenPair)
	Account() *AccountInfo
	SetAccount(info *AccountInfo)
	Clear()
}

// MemoryTokenStore is the in-process TokenStore.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	pair    *TokenPair
	account *AccountInfo
}

func NewMemoryTokenStore() *MemoryTokenStore { return &MemoryTokenStore{} }

func (s *MemoryTokenStore) Tokens() *TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pair == nil {
		return nil
	}
	pair := *s.pair
	return &pair
}

func (s *MemoryTokenStore) SetTokens(pair *TokenPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
}

func (s *MemoryTokenStore) Account() *AccountInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return nil
	}
	info := *s.account
	return &info
}

func (s *MemoryTokenStore) SetAccount(info *AccountInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = info
}

func (s *MemoryTokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = nil
	s.account = nil
}

// TokenBroker maintains the access/refresh pair for the mail account:
// expiry tracking, silent refresh, and explicit disconnect.
//
//	disconnected --(callback success)--> connected
//	connected --(expired, refresh ok)--> connected (token replaced)
//	connected --(expired, refresh fails)--> disconnected
//	connected --(disconnect)--> disconnected
type TokenBroker struct {
	store TokenStore
	oauth *oauth2.Config
	group singleflight.Group
	now   func() time.Time
}

// NewTokenBroker wires a broker over the given store and OAuth endpoints.
func NewTokenBroker(store TokenStore, oauth *oauth2.Config) *TokenBroker {
	return &TokenBroker{store: store, oauth: oauth, now: time.Now}
}

// Connected reports whether a token pair is held.
func (b *TokenBroker) Connected() bool {
	return b.store.Tokens() != nil
}

// AuthURL returns the provider consent URL. It does not touch local token
// state.
func (b *TokenBroker) AuthURL(state string) string {
	return b.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// CompleteAuthorization stores the token pair delivered on the provider
// callback. A callback that omits refresh_token (silent re-auth) keeps the
// previously stored refresh token instead of discarding it.
func (b *TokenBroker) CompleteAuthorization(params url.Values) error {
	if provErr := params.Get("error"); provErr != "" {
		return fmt.Errorf("provider error: %s", provErr)
	}
	accessToken := params.Get("access_token")
	expiresIn := params.Get("expires_in")
	if accessToken == "" || expiresIn == "" {
		return errors.New("callback missing access_token or expires_in")
	}
	lifetime, err := strconv.Atoi(expiresIn)
	if err != nil {
		return fmt.Errorf("invalid expires_in %q", expiresIn)
	}

	refreshToken := params.Get("refresh_token")
	if refreshToken == "" {
		if prev := b.store.Tokens(); prev != nil {
			refreshToken = prev.RefreshToken
		}
	}

	b.store.SetTokens(&TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    b.expiry(lifetime),
	})
	return nil
}

// GetValidAccessToken returns an access token good for at least the safety
// margin, refreshing silently when needed. Concurrent callers racing an
// expired token coalesce into a single refresh request; all of them see the
// same outcome. A failed refresh clears the pair and returns
// ErrReauthorizationRequired.
func (b *TokenBroker) GetValidAccessToken(ctx context.Context) (string, error) {
	pair := b.store.Tokens()
	if pair == nil {
		return "", ErrNotConnected
	}
	if b.now().Before(pair.ExpiresAt) {
		return pair.AccessToken, nil
	}

	token, err, _ := b.group.Do("refresh", func() (any, error) {
		// Re-read under the flight: a racer may have refreshed already.
		current := b.store.Tokens()
		if current == nil {
			return "", ErrNotConnected
		}
		if b.now().Before(current.ExpiresAt) {
			return current.AccessToken, nil
		}
		return b.refresh(ctx, current)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (b *TokenBroker) refresh(ctx context.Context, pair *TokenPair) (string, error) {
	if pair.RefreshToken == "" {
		b.store.Clear()
		return "", ErrReauthorizationRequired
	}

	source := b.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: pair.RefreshToken})
	refreshed, err := source.Token()
	if err != nil {
		observability.MailTokenRefreshes.WithLabelValues("failed").Inc()
		observability.Warn("mail token refresh failed", slog.String("error", err.Error()))
		b.store.Clear()
		return "", ErrReauthorizationRequired
	}

	next := &TokenPair{
		AccessToken:  refreshed.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    refreshed.Expiry.Add(-refreshSafetyMargin),
	}
	// Some providers rotate the refresh token on use.
	if refreshed.RefreshToken != "" {
		next.RefreshToken = refreshed.RefreshToken
	}
	b.store.SetTokens(next)
	observability.MailTokenRefreshes.WithLabelValues("ok").Inc()
	observability.Debug("mail access token refreshed")
	return next.AccessToken, nil
}

// Disconnect clears the token pair and cached account metadata. It never
// fails.
func (b *TokenBroker) Disconnect() {
	b.store.Clear()
}

func (b *TokenBroker) expiry(lifetimeSeconds int) time.Time {
	return b.now().Add(time.Duration(lifetimeSeconds)*time.Second - refreshSafetyMargin)
}
