package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"infoco-backoffice/internal/domain"
)

// ProfileRepository implements domain.ProfileRepository for PostgreSQL.
// Login-path statements are prepared once at construction.
type ProfileRepository struct {
	db             *sql.DB
	getByEmailStmt *sql.Stmt
	getByIDStmt    *sql.Stmt
}

// NewProfileRepository creates a new PostgreSQL profile repository.
// Returns an error if statement preparation fails.
func NewProfileRepository(db *sql.DB) (*ProfileRepository, error) {
	repo := &ProfileRepository{db: db}

	var err error
	repo.getByEmailStmt, err = db.Prepare(`
		SELECT id, email, name, role, department, COALESCE(pfp, ''), password_hash
		FROM profiles
		WHERE email = $1
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare getByEmail statement: %w", err)
	}

	repo.getByIDStmt, err = db.Prepare(`
		SELECT id, email, name, role, department, COALESCE(pfp, ''), password_hash
		FROM profiles
		WHERE id = $1
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare getByID statement: %w", err)
	}

	return repo, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (email, name, role, department, pfp, password_hash)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		profile.Email,
		profile.Name,
		profile.Role,
		profile.Department,
		profile.Pfp,
		profile.PasswordHash,
	).Scan(&profile.ID)

	if IsUniqueViolation(err, "") {
		return domain.ErrEmailExists
	}
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.scanOne(r.getByIDStmt.QueryRowContext(ctx, id))
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.scanOne(r.getByEmailStmt.QueryRowContext(ctx, email))
}

func (r *ProfileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	query := `
		SELECT id, email, name, role, department, COALESCE(pfp, ''), password_hash
		FROM profiles
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*domain.Profile
	for rows.Next() {
		profile := &domain.Profile{}
		if err := rows.Scan(
			&profile.ID,
			&profile.Email,
			&profile.Name,
			&profile.Role,
			&profile.Department,
			&profile.Pfp,
			&profile.PasswordHash,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET email = $2, name = $3, role = $4, department = $5
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.Email,
		profile.Name,
		profile.Role,
		profile.Department,
	)
	if IsUniqueViolation(err, "") {
		return domain.ErrEmailExists
	}
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return requireRowAffected(result, domain.ErrProfileNotFound)
}

func (r *ProfileRepository) UpdatePicture(ctx context.Context, id, url string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET pfp = $2 WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("failed to update profile picture: %w", err)
	}
	return requireRowAffected(result, domain.ErrProfileNotFound)
}

func (r *ProfileRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRowAffected(result, domain.ErrProfileNotFound)
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) scanOne(row *sql.Row) (*domain.Profile, error) {
	profile := &domain.Profile{}
	err := row.Scan(
		&profile.ID,
		&profile.Email,
		&profile.Name,
		&profile.Role,
		&profile.Department,
		&profile.Pfp,
		&profile.PasswordHash,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// requireRowAffected maps a zero-row update to the entity's not-found error.
func requireRowAffected(result sql.Result, notFound error) error {
	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if count == 0 {
		return notFound
	}
	return nil
}
