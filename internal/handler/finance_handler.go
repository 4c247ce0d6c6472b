package handler

import (
	"errors"
	"net/http"

	"infoco-backoffice/internal/domain"
)

// FinanceHandler manages municipality contracts, the transaction ledger,
// and both expense books.
type FinanceHandler struct {
	municipalities domain.MunicipalityRepository
	transactions   domain.TransactionRepository
	expenses       domain.ExpenseRepository
}

func NewFinanceHandler(
	municipalities domain.MunicipalityRepository,
	transactions domain.TransactionRepository,
	expenses domain.ExpenseRepository,
) *FinanceHandler {
	return &FinanceHandler{
		municipalities: municipalities,
		transactions:   transactions,
		expenses:       expenses,
	}
}

func (h *FinanceHandler) CreateMunicipality(w http.ResponseWriter, r *http.Request) {
	var municipality domain.Municipality
	if !decodeBody(w, r, &municipality) {
		return
	}
	if municipality.Municipality == "" {
		respondError(w, http.StatusBadRequest, "Municipality name is required")
		return
	}
	if err := h.municipalities.Create(r.Context(), &municipality); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create municipality")
		return
	}
	respondJSON(w, http.StatusCreated, municipality)
}

func (h *FinanceHandler) UpdateMunicipality(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var municipality domain.Municipality
	if !decodeBody(w, r, &municipality) {
		return
	}
	municipality.ID = id

	err := h.municipalities.Update(r.Context(), &municipality)
	if errors.Is(err, domain.ErrMunicipalityNotFound) {
		respondError(w, http.StatusNotFound, "Municipality not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update municipality")
		return
	}
	respondJSON(w, http.StatusOK, municipality)
}

// DeleteMunicipality removes a contract; its transactions survive with the
// municipality reference detached.
func (h *FinanceHandler) DeleteMunicipality(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.municipalities.Delete(r.Context(), id)
	if errors.Is(err, domain.ErrMunicipalityNotFound) {
		respondError(w, http.StatusNotFound, "Municipality not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete municipality")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *FinanceHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var transaction domain.Transaction
	if !decodeBody(w, r, &transaction) {
		return
	}
	if transaction.Type != domain.TransactionReceivable && transaction.Type != domain.TransactionPayable {
		respondError(w, http.StatusBadRequest, "Type must be receivable or payable")
		return
	}
	if transaction.Status == "" {
		transaction.Status = domain.TransactionPending
	}

	err := h.transactions.Create(r.Context(), &transaction)
	if errors.Is(err, domain.ErrMunicipalityNotFound) {
		respondError(w, http.StatusBadRequest, "Municipality does not exist")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}
	respondJSON(w, http.StatusCreated, transaction)
}

func (h *FinanceHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var transaction domain.Transaction
	if !decodeBody(w, r, &transaction) {
		return
	}
	transaction.ID = id

	err := h.transactions.Update(r.Context(), &transaction)
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		respondError(w, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, domain.ErrMunicipalityNotFound):
		respondError(w, http.StatusBadRequest, "Municipality does not exist")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to update transaction")
	default:
		respondJSON(w, http.StatusOK, transaction)
	}
}

func (h *FinanceHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.transactions.Delete(r.Context(), id)
	if errors.Is(err, domain.ErrTransactionNotFound) {
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *FinanceHandler) CreateEmployeeExpense(w http.ResponseWriter, r *http.Request) {
	var expense domain.EmployeeExpense
	if !decodeBody(w, r, &expense) {
		return
	}
	if expense.EmployeeID == 0 {
		respondError(w, http.StatusBadRequest, "employeeId is required")
		return
	}
	if expense.Status == "" {
		expense.Status = domain.PaymentPending
	}

	err := h.expenses.CreateEmployeeExpense(r.Context(), &expense)
	if errors.Is(err, domain.ErrEmployeeNotFound) {
		respondError(w, http.StatusBadRequest, "Employee does not exist")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create expense")
		return
	}
	respondJSON(w, http.StatusCreated, expense)
}

func (h *FinanceHandler) UpdateEmployeeExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var expense domain.EmployeeExpense
	if !decodeBody(w, r, &expense) {
		return
	}
	expense.ID = id

	err := h.expenses.UpdateEmployeeExpense(r.Context(), &expense)
	if errors.Is(err, domain.ErrExpenseNotFound) {
		respondError(w, http.StatusNotFound, "Expense not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update expense")
		return
	}
	respondJSON(w, http.StatusOK, expense)
}

func (h *FinanceHandler) DeleteEmployeeExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.expenses.DeleteEmployeeExpense(r.Context(), id)
	if errors.Is(err, domain.ErrExpenseNotFound) {
		respondError(w, http.StatusNotFound, "Expense not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete expense")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *FinanceHandler) CreateInternalExpense(w http.ResponseWriter, r *http.Request) {
	var expense domain.InternalExpense
	if !decodeBody(w, r, &expense) {
		return
	}
	if expense.Description == "" {
		respondError(w, http.StatusBadRequest, "Description is required")
		return
	}

	err := h.expenses.CreateInternalExpense(r.Context(), &expense)
	if errors.Is(err, domain.ErrSupplierNotFound) {
		respondError(w, http.StatusBadRequest, "Supplier does not exist")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create expense")
		return
	}
	respondJSON(w, http.StatusCreated, expense)
}

func (h *FinanceHandler) UpdateInternalExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var expense domain.InternalExpense
	if !decodeBody(w, r, &expense) {
		return
	}
	expense.ID = id

	err := h.expenses.UpdateInternalExpense(r.Context(), &expense)
	if errors.Is(err, domain.ErrExpenseNotFound) {
		respondError(w, http.StatusNotFound, "Expense not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update expense")
		return
	}
	respondJSON(w, http.StatusOK, expense)
}

func (h *FinanceHandler) DeleteInternalExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.expenses.DeleteInternalExpense(r.Context(), id)
	if errors.Is(err, domain.ErrExpenseNotFound) {
		respondError(w, http.StatusNotFound, "Expense not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete expense")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
