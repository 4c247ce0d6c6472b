package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"infoco-backoffice/internal/domain"
	"infoco-backoffice/internal/security"
	"infoco-backoffice/internal/session"
)

// AuthService authenticates system users and owns their sessions.
type AuthService struct {
	profiles domain.ProfileRepository
	sessions *session.Manager
}

func NewAuthService(profiles domain.ProfileRepository, sessions *session.Manager) *AuthService {
	return &AuthService{
		profiles: profiles,
		sessions: sessions,
	}
}

// Login verifies the credential and opens a session. The returned cookie
// value is opaque to the caller. A wrong email and a wrong password are
// indistinguishable from the outside.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Profile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		// A store outage is not a credential problem; the handler
		// turns this into a 500.
		return nil, "", fmt.Errorf("failed to load profile: %w", err)
	}

	if !security.VerifyPassword(password, profile.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	cookieValue, err := s.sessions.Create(ctx, profile.ID)
	if err != nil {
		return nil, "", err
	}
	return profile, cookieValue, nil
}

// Logout tears down the session behind the cookie. Garbage cookies are
// ignored.
func (s *AuthService) Logout(ctx context.Context, cookieValue string) {
	s.sessions.Delete(ctx, cookieValue)
}

// CurrentUser resolves the profile of an authenticated session.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.GetByID(ctx, userID)
}

// UpdatePassword rehashes and stores a new password for the profile.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < 6 {
		return domain.ErrInvalidInput
	}
	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.profiles.UpdatePassword(ctx, userID, hash)
}
