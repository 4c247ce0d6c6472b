package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"infoco-backoffice/internal/domain"
)

// AllData is the bootstrap payload the frontend loads once after login.
// Field names mirror what the client stores.
type AllData struct {
	Profiles            []*domain.Profile         `json:"profiles"`
	Employees           []*domain.Employee        `json:"employees"`
	Tasks               []*domain.Task            `json:"tasks"`
	Suppliers           []*domain.Supplier        `json:"suppliers"`
	FinanceData         []*domain.Municipality    `json:"financeData"`
	Transactions        []*domain.Transaction     `json:"transactions"`
	EmployeeExpenses    []*domain.EmployeeExpense `json:"employeeExpenses"`
	InternalExpenses    []*domain.InternalExpense `json:"internalExpenses"`
	Assets              []*domain.Asset           `json:"assets"`
	ExternalSystems     []*domain.ExternalSystem  `json:"externalSystems"`
	Payrolls            []*domain.Payroll         `json:"payrolls"`
	LeaveRequests       []*domain.LeaveRequest    `json:"leaveRequests"`
	ManagedFiles        []*domain.ManagedFile     `json:"managedFiles"`
	PaymentNotes        []*domain.PaymentNote     `json:"paymentNotes"`
	UpdatePosts         []*domain.UpdatePost      `json:"updatePosts"`
	Notifications       []*domain.Notification    `json:"notifications"`
	Permissions         json.RawMessage           `json:"permissions,omitempty"`
	LoginScreenImageURL *string                   `json:"loginScreenImageUrl"`
}

// DataService assembles the aggregate read model over every repository.
type DataService struct {
	profiles        domain.ProfileRepository
	employees       domain.EmployeeRepository
	tasks           domain.TaskRepository
	suppliers       domain.SupplierRepository
	municipalities  domain.MunicipalityRepository
	transactions    domain.TransactionRepository
	expenses        domain.ExpenseRepository
	assets          domain.AssetRepository
	externalSystems domain.ExternalSystemRepository
	payrolls        domain.PayrollRepository
	leaveRequests   domain.LeaveRequestRepository
	documents       domain.DocumentRepository
	feed            domain.FeedRepository
	appConfig       domain.AppConfigRepository
}

type DataServiceDeps struct {
	Profiles        domain.ProfileRepository
	Employees       domain.EmployeeRepository
	Tasks           domain.TaskRepository
	Suppliers       domain.SupplierRepository
	Municipalities  domain.MunicipalityRepository
	Transactions    domain.TransactionRepository
	Expenses        domain.ExpenseRepository
	Assets          domain.AssetRepository
	ExternalSystems domain.ExternalSystemRepository
	Payrolls        domain.PayrollRepository
	LeaveRequests   domain.LeaveRequestRepository
	Documents       domain.DocumentRepository
	Feed            domain.FeedRepository
	AppConfig       domain.AppConfigRepository
}

func NewDataService(deps DataServiceDeps) *DataService {
	return &DataService{
		profiles:        deps.Profiles,
		employees:       deps.Employees,
		tasks:           deps.Tasks,
		suppliers:       deps.Suppliers,
		municipalities:  deps.Municipalities,
		transactions:    deps.Transactions,
		expenses:        deps.Expenses,
		assets:          deps.Assets,
		externalSystems: deps.ExternalSystems,
		payrolls:        deps.Payrolls,
		leaveRequests:   deps.LeaveRequests,
		documents:       deps.Documents,
		feed:            deps.Feed,
		appConfig:       deps.AppConfig,
	}
}

// FetchAll loads every collection. Password hashes never leave the server;
// the Profile JSON encoding already hides them.
func (s *DataService) FetchAll(ctx context.Context) (*AllData, error) {
	out := &AllData{}
	var err error

	if out.Profiles, err = s.profiles.List(ctx); err != nil {
		return nil, fmt.Errorf("profiles: %w", err)
	}
	if out.Employees, err = s.employees.List(ctx); err != nil {
		return nil, fmt.Errorf("employees: %w", err)
	}
	if out.Tasks, err = s.tasks.List(ctx); err != nil {
		return nil, fmt.Errorf("tasks: %w", err)
	}
	if out.Suppliers, err = s.suppliers.List(ctx); err != nil {
		return nil, fmt.Errorf("suppliers: %w", err)
	}
	if out.FinanceData, err = s.municipalities.List(ctx); err != nil {
		return nil, fmt.Errorf("municipalities: %w", err)
	}
	if out.Transactions, err = s.transactions.List(ctx); err != nil {
		return nil, fmt.Errorf("transactions: %w", err)
	}
	if out.EmployeeExpenses, err = s.expenses.ListEmployeeExpenses(ctx); err != nil {
		return nil, fmt.Errorf("employee expenses: %w", err)
	}
	if out.InternalExpenses, err = s.expenses.ListInternalExpenses(ctx); err != nil {
		return nil, fmt.Errorf("internal expenses: %w", err)
	}
	if out.Assets, err = s.assets.List(ctx); err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	if out.ExternalSystems, err = s.externalSystems.List(ctx); err != nil {
		return nil, fmt.Errorf("external systems: %w", err)
	}
	if out.Payrolls, err = s.payrolls.List(ctx); err != nil {
		return nil, fmt.Errorf("payrolls: %w", err)
	}
	if out.LeaveRequests, err = s.leaveRequests.List(ctx); err != nil {
		return nil, fmt.Errorf("leave requests: %w", err)
	}
	if out.ManagedFiles, err = s.documents.ListFiles(ctx); err != nil {
		return nil, fmt.Errorf("managed files: %w", err)
	}
	if out.PaymentNotes, err = s.documents.ListPaymentNotes(ctx); err != nil {
		return nil, fmt.Errorf("payment notes: %w", err)
	}
	if out.UpdatePosts, err = s.feed.ListPosts(ctx); err != nil {
		return nil, fmt.Errorf("posts: %w", err)
	}
	if out.Notifications, err = s.feed.ListNotifications(ctx); err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}

	permissions, err := s.appConfig.Get(ctx, domain.ConfigPermissions)
	if err != nil && !errors.Is(err, domain.ErrConfigKeyNotFound) {
		return nil, fmt.Errorf("permissions config: %w", err)
	}
	out.Permissions = permissions

	loginImage, err := s.appConfig.Get(ctx, domain.ConfigLoginImageURL)
	if err == nil {
		var url string
		if json.Unmarshal(loginImage, &url) == nil && url != "" {
			out.LoginScreenImageURL = &url
		}
	} else if !errors.Is(err, domain.ErrConfigKeyNotFound) {
		return nil, fmt.Errorf("login image config: %w", err)
	}

	return out, nil
}
