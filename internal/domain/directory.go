package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrSupplierNotFound = errors.New("supplier not found")
)

// Task statuses.
const (
	TaskDone       = "Concluída"
	TaskInProgress = "Em Andamento"
	TaskPending    = "Pendente"
)

// Employee is a staff record, distinct from a Profile: employees do not
// necessarily have a login.
type Employee struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	Department string  `json:"department"`
	Email      string  `json:"email"`
	BaseSalary float64 `json:"baseSalary,omitempty"`
}

// Task is a unit of tracked work assigned to an employee.
type Task struct {
	ID          int64     `json:"id"`
	EmployeeID  int64     `json:"employeeId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Hours       float64   `json:"hours"`
	Status      string    `json:"status"`
}

// Supplier is an external vendor referenced by internal expenses.
type Supplier struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *Employee) error
	GetByID(ctx context.Context, id int64) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
	Update(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id int64) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	List(ctx context.Context) ([]*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id int64) error
}

type SupplierRepository interface {
	Create(ctx context.Context, supplier *Supplier) error
	List(ctx context.Context) ([]*Supplier, error)
	Update(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, id int64) error
}
