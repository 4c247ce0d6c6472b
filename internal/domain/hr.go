package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPayrollNotFound      = errors.New("payroll record not found")
	ErrLeaveRequestNotFound = errors.New("leave request not found")
)

// Leave types and statuses.
const (
	LeaveVacation = "Férias"
	LeaveMedical  = "Licença Médica"
	LeaveOther    = "Outro"

	LeavePending  = "Pendente"
	LeaveApproved = "Aprovada"
	LeaveRejected = "Rejeitada"
)

// Payroll is one employee's pay record for a reference month (YYYY-MM).
// The net pay is an inert figure; this system records it, it does not
// compute it.
type Payroll struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	MonthYear  string    `json:"monthYear"`
	BaseSalary float64   `json:"baseSalary"`
	Benefits   float64   `json:"benefits"`
	Deductions float64   `json:"deductions"`
	NetPay     float64   `json:"netPay"`
	PayDate    time.Time `json:"payDate"`
}

// LeaveRequest is a vacation or leave-of-absence request.
type LeaveRequest struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	Type       string    `json:"type"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
}

type PayrollRepository interface {
	Create(ctx context.Context, payroll *Payroll) error
	List(ctx context.Context) ([]*Payroll, error)
	Update(ctx context.Context, payroll *Payroll) error
	Delete(ctx context.Context, id int64) error
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, request *LeaveRequest) error
	List(ctx context.Context) ([]*LeaveRequest, error)
	Update(ctx context.Context, request *LeaveRequest) error
	Delete(ctx context.Context, id int64) error
}
