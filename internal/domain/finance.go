package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMunicipalityNotFound = errors.New("municipality not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrExpenseNotFound      = errors.New("expense not found")
)

// Transaction types and statuses.
const (
	TransactionReceivable = "receivable"
	TransactionPayable    = "payable"

	TransactionPending = "pending"
	TransactionPaid    = "paid"
)

// Payment statuses shared by expense records.
const (
	PaymentPaid    = "Pago"
	PaymentPending = "Pendente"
)

// Municipality is a client contract: a municipality served by the company,
// with its running paid/pending totals.
type Municipality struct {
	ID              int64     `json:"id"`
	Municipality    string    `json:"municipality"`
	Paid            float64   `json:"paid"`
	Pending         float64   `json:"pending"`
	ContractEndDate time.Time `json:"contractEndDate"`
	CoatOfArmsURL   string    `json:"coatOfArmsUrl,omitempty"`
}

// Transaction is a receivable or payable ledger entry, optionally tied to a
// municipality contract.
type Transaction struct {
	ID             int64      `json:"id"`
	Type           string     `json:"type"`
	Description    string     `json:"description"`
	Amount         float64    `json:"amount"`
	DueDate        time.Time  `json:"dueDate"`
	PaymentDate    *time.Time `json:"paymentDate,omitempty"`
	Status         string     `json:"status"`
	MunicipalityID *int64     `json:"municipalityId,omitempty"`
}

// EmployeeExpense is money paid to or reimbursed for an employee.
type EmployeeExpense struct {
	ID          int64     `json:"id"`
	EmployeeID  int64     `json:"employeeId"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	Receipt     string    `json:"receipt,omitempty"`
}

// InternalExpense is a company expense, optionally tied to a supplier.
type InternalExpense struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	SupplierID  *int64    `json:"supplierId,omitempty"`
}

type MunicipalityRepository interface {
	Create(ctx context.Context, municipality *Municipality) error
	List(ctx context.Context) ([]*Municipality, error)
	Update(ctx context.Context, municipality *Municipality) error
	Delete(ctx context.Context, id int64) error
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) error
	List(ctx context.Context) ([]*Transaction, error)
	Update(ctx context.Context, transaction *Transaction) error
	Delete(ctx context.Context, id int64) error
}

type ExpenseRepository interface {
	CreateEmployeeExpense(ctx context.Context, expense *EmployeeExpense) error
	ListEmployeeExpenses(ctx context.Context) ([]*EmployeeExpense, error)
	UpdateEmployeeExpense(ctx context.Context, expense *EmployeeExpense) error
	DeleteEmployeeExpense(ctx context.Context, id int64) error

	CreateInternalExpense(ctx context.Context, expense *InternalExpense) error
	ListInternalExpenses(ctx context.Context) ([]*InternalExpense, error)
	UpdateInternalExpense(ctx context.Context, expense *InternalExpense) error
	DeleteInternalExpense(ctx context.Context, id int64) error
}
