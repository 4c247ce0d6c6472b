package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"infoco-backoffice/internal/domain"
)

// MunicipalityRepository implements domain.MunicipalityRepository for
// PostgreSQL.
type MunicipalityRepository struct {
	db *sql.DB
}

func NewMunicipalityRepository(db *sql.DB) *MunicipalityRepository {
	return &MunicipalityRepository{db: db}
}

func (r *MunicipalityRepository) Create(ctx context.Context, municipality *domain.Municipality) error {
	query := `
		INSERT INTO municipalities (municipality, paid, pending, contract_end_date, coat_of_arms_url)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		municipality.Municipality,
		municipality.Paid,
		municipality.Pending,
		municipality.ContractEndDate,
		municipality.CoatOfArmsURL,
	).Scan(&municipality.ID)
	if err != nil {
		return fmt.Errorf("failed to create municipality: %w", err)
	}
	return nil
}

func (r *MunicipalityRepository) List(ctx context.Context) ([]*domain.Municipality, error) {
	query := `
		SELECT id, municipality, paid, pending, contract_end_date, COALESCE(coat_of_arms_url, '')
		FROM municipalities
		ORDER BY municipality
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list municipalities: %w", err)
	}
	defer rows.Close()

	var municipalities []*domain.Municipality
	for rows.Next() {
		municipality := &domain.Municipality{}
		if err := rows.Scan(
			&municipality.ID,
			&municipality.Municipality,
			&municipality.Paid,
			&municipality.Pending,
			&municipality.ContractEndDate,
			&municipality.CoatOfArmsURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan municipality: %w", err)
		}
		municipalities = append(municipalities, municipality)
	}
	return municipalities, rows.Err()
}

func (r *MunicipalityRepository) Update(ctx context.Context, municipality *domain.Municipality) error {
	query := `
		UPDATE municipalities
		SET municipality = $2, paid = $3, pending = $4, contract_end_date = $5, coat_of_arms_url = NULLIF($6, '')
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		municipality.ID,
		municipality.Municipality,
		municipality.Paid,
		municipality.Pending,
		municipality.ContractEndDate,
		municipality.CoatOfArmsURL,
	)
	if err != nil {
		return fmt.Errorf("failed to update municipality: %w", err)
	}
	return requireRowAffected(result, domain.ErrMunicipalityNotFound)
}

func (r *MunicipalityRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM municipalities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete municipality: %w", err)
	}
	return requireRowAffected(result, domain.ErrMunicipalityNotFound)
}

// TransactionRepository implements domain.TransactionRepository for
// PostgreSQL.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	query := `
		INSERT INTO transactions (type, description, amount, due_date, payment_date, status, municipality_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		transaction.Type,
		transaction.Description,
		transaction.Amount,
		transaction.DueDate,
		transaction.PaymentDate,
		transaction.Status,
		transaction.MunicipalityID,
	).Scan(&transaction.ID)
	if IsForeignKeyViolation(err) {
		return domain.ErrMunicipalityNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	query := `
		SELECT id, type, description, amount, due_date, payment_date, status, municipality_id
		FROM transactions
		ORDER BY due_date DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction := &domain.Transaction{}
		if err := rows.Scan(
			&transaction.ID,
			&transaction.Type,
			&transaction.Description,
			&transaction.Amount,
			&transaction.DueDate,
			&transaction.PaymentDate,
			&transaction.Status,
			&transaction.MunicipalityID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET type = $2, description = $3, amount = $4, due_date = $5, payment_date = $6, status = $7, municipality_id = $8
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		transaction.ID,
		transaction.Type,
		transaction.Description,
		transaction.Amount,
		transaction.DueDate,
		transaction.PaymentDate,
		transaction.Status,
		transaction.MunicipalityID,
	)
	if IsForeignKeyViolation(err) {
		return domain.ErrMunicipalityNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return requireRowAffected(result, domain.ErrTransactionNotFound)
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return requireRowAffected(result, domain.ErrTransactionNotFound)
}
