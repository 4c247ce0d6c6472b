package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"infoco-backoffice/internal/domain"
)

// AppConfigRepository implements domain.AppConfigRepository for PostgreSQL,
// a key/JSONB-value table upserted in place.
type AppConfigRepository struct {
	db *sql.DB
}

func NewAppConfigRepository(db *sql.DB) *AppConfigRepository {
	return &AppConfigRepository{db: db}
}

func (r *AppConfigRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM app_config WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, domain.ErrConfigKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get config %q: %w", key, err)
	}
	return json.RawMessage(value), nil
}

func (r *AppConfigRepository) Set(ctx context.Context, key string, value json.RawMessage) error {
	query := `
		INSERT INTO app_config (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := r.db.ExecContext(ctx, query, key, []byte(value)); err != nil {
		return fmt.Errorf("failed to set config %q: %w", key, err)
	}
	return nil
}
