package testutil

import (
	"infoco-backoffice/internal/domain"
	"infoco-backoffice/internal/security"
)

// ProfileOptions configures a test profile fixture
type ProfileOptions struct {
	ID       string
	Email    string
	Name     string
	Role     string
	Password string
}

// NewTestProfile creates a profile with a real password hash, so login flows
// can be exercised end to end.
func NewTestProfile(opts ...func(*ProfileOptions)) *domain.Profile {
	options := &ProfileOptions{
		ID:       "profile-1",
		Email:    "admin@infoco.com.br",
		Name:     "Admin Geral",
		Role:     domain.RoleAdmin,
		Password: "Infoco@2024",
	}
	for _, opt := range opts {
		opt(options)
	}

	hash, err := security.HashPassword(options.Password)
	if err != nil {
		panic(err)
	}

	return &domain.Profile{
		ID:           options.ID,
		Email:        options.Email,
		Name:         options.Name,
		Role:         options.Role,
		Department:   "Administração",
		PasswordHash: hash,
	}
}

func WithProfileID(id string) func(*ProfileOptions) {
	return func(o *ProfileOptions) {
		o.ID = id
	}
}

func WithEmail(email string) func(*ProfileOptions) {
	return func(o *ProfileOptions) {
		o.Email = email
	}
}

func WithRole(role string) func(*ProfileOptions) {
	return func(o *ProfileOptions) {
		o.Role = role
	}
}

func WithPassword(password string) func(*ProfileOptions) {
	return func(o *ProfileOptions) {
		o.Password = password
	}
}
