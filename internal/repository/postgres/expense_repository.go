package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"infoco-backoffice/internal/domain"
)

// ExpenseRepository implements domain.ExpenseRepository for PostgreSQL.
// Employee and internal expenses live in separate tables.
type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) CreateEmployeeExpense(ctx context.Context, expense *domain.EmployeeExpense) error {
	query := `
		INSERT INTO employee_expenses (employee_id, type, description, amount, date, status, receipt)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		expense.EmployeeID,
		expense.Type,
		expense.Description,
		expense.Amount,
		expense.Date,
		expense.Status,
		expense.Receipt,
	).Scan(&expense.ID)
	if IsForeignKeyViolation(err) {
		return domain.ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create employee expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) ListEmployeeExpenses(ctx context.Context) ([]*domain.EmployeeExpense, error) {
	query := `
		SELECT id, employee_id, type, description, amount, date, status, COALESCE(receipt, '')
		FROM employee_expenses
		ORDER BY date DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*domain.EmployeeExpense
	for rows.Next() {
		expense := &domain.EmployeeExpense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.EmployeeID,
			&expense.Type,
			&expense.Description,
			&expense.Amount,
			&expense.Date,
			&expense.Status,
			&expense.Receipt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (r *ExpenseRepository) UpdateEmployeeExpense(ctx context.Context, expense *domain.EmployeeExpense) error {
	query := `
		UPDATE employee_expenses
		SET employee_id = $2, type = $3, description = $4, amount = $5, date = $6, status = $7, receipt = NULLIF($8, '')
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		expense.ID,
		expense.EmployeeID,
		expense.Type,
		expense.Description,
		expense.Amount,
		expense.Date,
		expense.Status,
		expense.Receipt,
	)
	if IsForeignKeyViolation(err) {
		return domain.ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update employee expense: %w", err)
	}
	return requireRowAffected(result, domain.ErrExpenseNotFound)
}

func (r *ExpenseRepository) DeleteEmployeeExpense(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM employee_expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee expense: %w", err)
	}
	return requireRowAffected(result, domain.ErrExpenseNotFound)
}

func (r *ExpenseRepository) CreateInternalExpense(ctx context.Context, expense *domain.InternalExpense) error {
	query := `
		INSERT INTO internal_expenses (description, category, amount, date, supplier_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		expense.Description,
		expense.Category,
		expense.Amount,
		expense.Date,
		expense.SupplierID,
	).Scan(&expense.ID)
	if IsForeignKeyViolation(err) {
		return domain.ErrSupplierNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create internal expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) ListInternalExpenses(ctx context.Context) ([]*domain.InternalExpense, error) {
	query := `
		SELECT id, description, category, amount, date, supplier_id
		FROM internal_expenses
		ORDER BY date DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list internal expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*domain.InternalExpense
	for rows.Next() {
		expense := &domain.InternalExpense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.Description,
			&expense.Category,
			&expense.Amount,
			&expense.Date,
			&expense.SupplierID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan internal expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (r *ExpenseRepository) UpdateInternalExpense(ctx context.Context, expense *domain.InternalExpense) error {
	query := `
		UPDATE internal_expenses
		SET description = $2, category = $3, amount = $4, date = $5, supplier_id = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		expense.ID,
		expense.Description,
		expense.Category,
		expense.Amount,
		expense.Date,
		expense.SupplierID,
	)
	if IsForeignKeyViolation(err) {
		return domain.ErrSupplierNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update internal expense: %w", err)
	}
	return requireRowAffected(result, domain.ErrExpenseNotFound)
}

func (r *ExpenseRepository) DeleteInternalExpense(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM internal_expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete internal expense: %w", err)
	}
	return requireRowAffected(result, domain.ErrExpenseNotFound)
}
