package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"infoco-backoffice/internal/domain"
)

// SupplierRepository implements domain.SupplierRepository for PostgreSQL.
type SupplierRepository struct {
	db *sql.DB
}

func NewSupplierRepository(db *sql.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	query := `
		INSERT INTO suppliers (name, category, contact_person, email, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		supplier.Name,
		supplier.Category,
		supplier.ContactPerson,
		supplier.Email,
		supplier.Phone,
	).Scan(&supplier.ID)
	if err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	query := `
		SELECT id, name, category, contact_person, email, phone
		FROM suppliers
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*domain.Supplier
	for rows.Next() {
		supplier := &domain.Supplier{}
		if err := rows.Scan(
			&supplier.ID,
			&supplier.Name,
			&supplier.Category,
			&supplier.ContactPerson,
			&supplier.Email,
			&supplier.Phone,
		); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, rows.Err()
}

func (r *SupplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $2, category = $3, contact_person = $4, email = $5, phone = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		supplier.ID,
		supplier.Name,
		supplier.Category,
		supplier.ContactPerson,
		supplier.Email,
		supplier.Phone,
	)
	if err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
	}
	return requireRowAffected(result, domain.ErrSupplierNotFound)
}

func (r *SupplierRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	return requireRowAffected(result, domain.ErrSupplierNotFound)
}
