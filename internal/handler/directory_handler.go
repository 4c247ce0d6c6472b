package handler

import (
	"errors"
	"net/http"

	"infoco-backoffice/internal/domain"
)

// DirectoryHandler manages employees, their tasks, and suppliers.
type DirectoryHandler struct {
	employees domain.EmployeeRepository
	tasks     domain.TaskRepository
	suppliers domain.SupplierRepository
}

func NewDirectoryHandler(
	employees domain.EmployeeRepository,
	tasks domain.TaskRepository,
	suppliers domain.SupplierRepository,
) *DirectoryHandler {
	return &DirectoryHandler{
		employees: employees,
		tasks:     tasks,
		suppliers: suppliers,
	}
}

func (h *DirectoryHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var employee domain.Employee
	if !decodeBody(w, r, &employee) {
		return
	}
	if employee.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if err := h.employees.Create(r.Context(), &employee); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create employee")
		return
	}
	respondJSON(w, http.StatusCreated, employee)
}

func (h *DirectoryHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var employee domain.Employee
	if !decodeBody(w, r, &employee) {
		return
	}
	employee.ID = id

	err := h.employees.Update(r.Context(), &employee)
	if errors.Is(err, domain.ErrEmployeeNotFound) {
		respondError(w, http.StatusNotFound, "Employee not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update employee")
		return
	}
	respondJSON(w, http.StatusOK, employee)
}

// DeleteEmployee removes an employee; the database cascades to tasks,
// expenses, payrolls, and leave requests.
func (h *DirectoryHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.employees.Delete(r.Context(), id)
	if errors.Is(err, domain.ErrEmployeeNotFound) {
		respondError(w, http.StatusNotFound, "Employee not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete employee")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *DirectoryHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var task domain.Task
	if !decodeBody(w, r, &task) {
		return
	}
	if task.Title == "" || task.EmployeeID == 0 {
		respondError(w, http.StatusBadRequest, "Title and employeeId are required")
		return
	}
	if task.Status == "" {
		task.Status = domain.TaskPending
	}

	err := h.tasks.Create(r.Context(), &task)
	if errors.Is(err, domain.ErrEmployeeNotFound) {
		respondError(w, http.StatusBadRequest, "Employee does not exist")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

func (h *DirectoryHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var task domain.Task
	if !decodeBody(w, r, &task) {
		return
	}
	task.ID = id

	err := h.tasks.Update(r.Context(), &task)
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		respondError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, domain.ErrEmployeeNotFound):
		respondError(w, http.StatusBadRequest, "Employee does not exist")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to update task")
	default:
		respondJSON(w, http.StatusOK, task)
	}
}

func (h *DirectoryHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.tasks.Delete(r.Context(), id)
	if errors.Is(err, domain.ErrTaskNotFound) {
		respondError(w, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete task")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *DirectoryHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var supplier domain.Supplier
	if !decodeBody(w, r, &supplier) {
		return
	}
	if supplier.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if err := h.suppliers.Create(r.Context(), &supplier); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create supplier")
		return
	}
	respondJSON(w, http.StatusCreated, supplier)
}

func (h *DirectoryHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var supplier domain.Supplier
	if !decodeBody(w, r, &supplier) {
		return
	}
	supplier.ID = id

	err := h.suppliers.Update(r.Context(), &supplier)
	if errors.Is(err, domain.ErrSupplierNotFound) {
		respondError(w, http.StatusNotFound, "Supplier not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update supplier")
		return
	}
	respondJSON(w, http.StatusOK, supplier)
}

func (h *DirectoryHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.suppliers.Delete(r.Context(), id)
	if errors.Is(err, domain.ErrSupplierNotFound) {
		respondError(w, http.StatusNotFound, "Supplier not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete supplier")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
