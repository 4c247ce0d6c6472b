package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"infoco-backoffice/internal/domain"
)

// TaskRepository implements domain.TaskRepository for PostgreSQL.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (employee_id, title, description, date, hours, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		task.EmployeeID,
		task.Title,
		task.Description,
		task.Date,
		task.Hours,
		task.Status,
	).Scan(&task.ID)
	if IsForeignKeyViolation(err) {
		return domain.ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context) ([]*domain.Task, error) {
	query := `
		SELECT id, employee_id, title, description, date, hours, status
		FROM tasks
		ORDER BY date DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task := &domain.Task{}
		if err := rows.Scan(
			&task.ID,
			&task.EmployeeID,
			&task.Title,
			&task.Description,
			&task.Date,
			&task.Hours,
			&task.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET employee_id = $2, title = $3, description = $4, date = $5, hours = $6, status = $7
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.EmployeeID,
		task.Title,
		task.Description,
		task.Date,
		task.Hours,
		task.Status,
	)
	if IsForeignKeyViolation(err) {
		return domain.ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireRowAffected(result, domain.ErrTaskNotFound)
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireRowAffected(result, domain.ErrTaskNotFound)
}
