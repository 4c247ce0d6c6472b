package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"infoco-backoffice/internal/domain"
)

// PayrollRepository implements domain.PayrollRepository for PostgreSQL.
type PayrollRepository struct {
	db *sql.DB
}

func NewPayrollRepository(db *sql.DB) *PayrollRepository {
	return &PayrollRepository{db: db}
}

func (r *PayrollRepository) Create(ctx context.Context, payroll *domain.Payroll) error {
	query := `
		INSERT INTO payrolls (employee_id, month_year, base_salary, benefits, deductions, net_pay, pay_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		payroll.EmployeeID,
		payroll.MonthYear,
		payroll.BaseSalary,
		payroll.Benefits,
		payroll.Deductions,
		payroll.NetPay,
		payroll.PayDate,
	).Scan(&payroll.ID)
	if IsForeignKeyViolation(err) {
		return domain.ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create payroll: %w", err)
	}
	return nil
}

func (r *PayrollRepository) List(ctx context.Context) ([]*domain.Payroll, error) {
	query := `
		SELECT id, employee_id, month_year, base_salary, benefits, deductions, net_pay, pay_date
		FROM payrolls
		ORDER BY month_year DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []*domain.Payroll
	for rows.Next() {
		payroll := &domain.Payroll{}
		if err := rows.Scan(
			&payroll.ID,
			&payroll.EmployeeID,
			&payroll.MonthYear,
			&payroll.BaseSalary,
			&payroll.Benefits,
			&payroll.Deductions,
			&payroll.NetPay,
			&payroll.PayDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, payroll)
	}
	return payrolls, rows.Err()
}

func (r *PayrollRepository) Update(ctx context.Context, payroll *domain.Payroll) error {
	query := `
		UPDATE payrolls
		SET employee_id = $2, month_year = $3, base_salary = $4, benefits = $5, deductions = $6, net_pay = $7, pay_date = $8
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		payroll.ID,
		payroll.EmployeeID,
		payroll.MonthYear,
		payroll.BaseSalary,
		payroll.Benefits,
		payroll.Deductions,
		payroll.NetPay,
		payroll.PayDate,
	)
	if IsForeignKeyViolation(err) {
		return domain.ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update payroll: %w", err)
	}
	return requireRowAffected(result, domain.ErrPayrollNotFound)
}

func (r *PayrollRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payrolls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll: %w", err)
	}
	return requireRowAffected(result, domain.ErrPayrollNotFound)
}

// LeaveRequestRepository implements domain.LeaveRequestRepository for
// PostgreSQL.
type LeaveRequestRepository struct {
	db *sql.DB
}

func NewLeaveRequestRepository(db *sql.DB) *LeaveRequestRepository {
	return &LeaveRequestRepository{db: db}
}

func (r *LeaveRequestRepository) Create(ctx context.Context, request *domain.LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (employee_id, type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		request.EmployeeID,
		request.Type,
		request.StartDate,
		request.EndDate,
		request.Reason,
		request.Status,
	).Scan(&request.ID)
	if IsForeignKeyViolation(err) {
		return domain.ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create leave request: %w", err)
	}
	return nil
}

func (r *LeaveRequestRepository) List(ctx context.Context) ([]*domain.LeaveRequest, error) {
	query := `
		SELECT id, employee_id, type, start_date, end_date, reason, status
		FROM leave_requests
		ORDER BY start_date DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []*domain.LeaveRequest
	for rows.Next() {
		request := &domain.LeaveRequest{}
		if err := rows.Scan(
			&request.ID,
			&request.EmployeeID,
			&request.Type,
			&request.StartDate,
			&request.EndDate,
			&request.Reason,
			&request.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

func (r *LeaveRequestRepository) Update(ctx context.Context, request *domain.LeaveRequest) error {
	query := `
		UPDATE leave_requests
		SET employee_id = $2, type = $3, start_date = $4, end_date = $5, reason = $6, status = $7
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		request.ID,
		request.EmployeeID,
		request.Type,
		request.StartDate,
		request.EndDate,
		request.Reason,
		request.Status,
	)
	if IsForeignKeyViolation(err) {
		return domain.ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	return requireRowAffected(result, domain.ErrLeaveRequestNotFound)
}

func (r *LeaveRequestRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	return requireRowAffected(result, domain.ErrLeaveRequestNotFound)
}
