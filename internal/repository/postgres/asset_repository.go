package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"infoco-backoffice/internal/domain"
)

// AssetRepository implements domain.AssetRepository for PostgreSQL. The
// maintenance log is stored as a JSONB column on the asset row.
type AssetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	log, err := marshalMaintenanceLog(asset.MaintenanceLog)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO assets (name, description, purchase_date, purchase_value, location, status, assigned_to_employee_id, maintenance_log)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = r.db.QueryRowContext(ctx, query,
		asset.Name,
		asset.Description,
		asset.PurchaseDate,
		asset.PurchaseValue,
		asset.Location,
		asset.Status,
		asset.AssignedToEmployeeID,
		log,
	).Scan(&asset.ID)
	if IsForeignKeyViolation(err) {
		return domain.ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (r *AssetRepository) List(ctx context.Context) ([]*domain.Asset, error) {
	query := `
		SELECT id, name, description, purchase_date, purchase_value, location, status, assigned_to_employee_id, maintenance_log
		FROM assets
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []*domain.Asset
	for rows.Next() {
		asset := &domain.Asset{}
		var log []byte
		if err := rows.Scan(
			&asset.ID,
			&asset.Name,
			&asset.Description,
			&asset.PurchaseDate,
			&asset.PurchaseValue,
			&asset.Location,
			&asset.Status,
			&asset.AssignedToEmployeeID,
			&log,
		); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		if err := json.Unmarshal(log, &asset.MaintenanceLog); err != nil {
			return nil, fmt.Errorf("failed to decode maintenance log for asset %d: %w", asset.ID, err)
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	log, err := marshalMaintenanceLog(asset.MaintenanceLog)
	if err != nil {
		return err
	}
	query := `
		UPDATE assets
		SET name = $2, description = $3, purchase_date = $4, purchase_value = $5, location = $6, status = $7, assigned_to_employee_id = $8, maintenance_log = $9
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.Name,
		asset.Description,
		asset.PurchaseDate,
		asset.PurchaseValue,
		asset.Location,
		asset.Status,
		asset.AssignedToEmployeeID,
		log,
	)
	if IsForeignKeyViolation(err) {
		return domain.ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	return requireRowAffected(result, domain.ErrAssetNotFound)
}

func (r *AssetRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return requireRowAffected(result, domain.ErrAssetNotFound)
}

// marshalMaintenanceLog always produces a JSON array, never null, so the
// column stays queryable with jsonb array operators.
func marshalMaintenanceLog(log []domain.MaintenanceRecord) ([]byte, error) {
	if log == nil {
		log = []domain.MaintenanceRecord{}
	}
	data, err := json.Marshal(log)
	if err != nil {
		return nil, fmt.Errorf("failed to encode maintenance log: %w", err)
	}
	return data, nil
}

// ExternalSystemRepository implements domain.ExternalSystemRepository for
// PostgreSQL.
type ExternalSystemRepository struct {
	db *sql.DB
}

func NewExternalSystemRepository(db *sql.DB) *ExternalSystemRepository {
	return &ExternalSystemRepository{db: db}
}

func (r *ExternalSystemRepository) Create(ctx context.Context, system *domain.ExternalSystem) error {
	query := `
		INSERT INTO external_systems (name, type, api_url, access_token, token_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		system.Name,
		system.Type,
		system.APIURL,
		system.AccessToken,
		system.TokenType,
	).Scan(&system.ID)
	if err != nil {
		return fmt.Errorf("failed to create external system: %w", err)
	}
	return nil
}

func (r *ExternalSystemRepository) List(ctx context.Context) ([]*domain.ExternalSystem, error) {
	query := `
		SELECT id, name, type, api_url, access_token, token_type
		FROM external_systems
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list external systems: %w", err)
	}
	defer rows.Close()

	var systems []*domain.ExternalSystem
	for rows.Next() {
		system := &domain.ExternalSystem{}
		if err := rows.Scan(
			&system.ID,
			&system.Name,
			&system.Type,
			&system.APIURL,
			&system.AccessToken,
			&system.TokenType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan external system: %w", err)
		}
		systems = append(systems, system)
	}
	return systems, rows.Err()
}

func (r *ExternalSystemRepository) Update(ctx context.Context, system *domain.ExternalSystem) error {
	query := `
		UPDATE external_systems
		SET name = $2, type = $3, api_url = $4, access_token = $5, token_type = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		system.ID,
		system.Name,
		system.Type,
		system.APIURL,
		system.AccessToken,
		system.TokenType,
	)
	if err != nil {
		return fmt.Errorf("failed to update external system: %w", err)
	}
	return requireRowAffected(result, domain.ErrExternalSystemNotFound)
}

func (r *ExternalSystemRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM external_systems WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete external system: %w", err)
	}
	return requireRowAffected(result, domain.ErrExternalSystemNotFound)
}
