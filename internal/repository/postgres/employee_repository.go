package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"infoco-backoffice/internal/domain"
)

// EmployeeRepository implements domain.EmployeeRepository for PostgreSQL.
type EmployeeRepository struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (name, position, department, email, base_salary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		employee.Name,
		employee.Position,
		employee.Department,
		employee.Email,
		employee.BaseSalary,
	).Scan(&employee.ID)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `
		SELECT id, name, position, department, email, base_salary
		FROM employees
		WHERE id = $1
	`
	employee := &domain.Employee{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&employee.ID,
		&employee.Name,
		&employee.Position,
		&employee.Department,
		&employee.Email,
		&employee.BaseSalary,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*domain.Employee, error) {
	query := `
		SELECT id, name, position, department, email, base_salary
		FROM employees
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*domain.Employee
	for rows.Next() {
		employee := &domain.Employee{}
		if err := rows.Scan(
			&employee.ID,
			&employee.Name,
			&employee.Position,
			&employee.Department,
			&employee.Email,
			&employee.BaseSalary,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

func (r *EmployeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	query := `
		UPDATE employees
		SET name = $2, position = $3, department = $4, email = $5, base_salary = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		employee.ID,
		employee.Name,
		employee.Position,
		employee.Department,
		employee.Email,
		employee.BaseSalary,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return requireRowAffected(result, domain.ErrEmployeeNotFound)
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return requireRowAffected(result, domain.ErrEmployeeNotFound)
}
