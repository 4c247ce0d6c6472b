package domain

import (
	"context"
	"errors"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

// Roles assignable to system users.
const (
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinator"
	RoleSupport     = "support"
	RoleDirector    = "director"
)

// Profile is a system user account. PasswordHash is stored as
// "saltHex:digestHex" and never leaves the server.
type Profile struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Department   string `json:"department"`
	Pfp          string `json:"pfp,omitempty"`
	PasswordHash string `json:"-"`
}

// ProfileRepository defines data access for system user accounts.
type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	Update(ctx context.Context, profile *Profile) error
	UpdatePicture(ctx context.Context, id, url string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}
