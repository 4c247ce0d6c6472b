package handler

import (
	"errors"
	"net/http"

	"infoco-backoffice/internal/domain"
)

// HRHandler manages payroll records and leave requests. Both are inert
// records; no pay computation happens server-side.
type HRHandler struct {
	payrolls domain.PayrollRepository
	leaves   domain.LeaveRequestRepository
}

func NewHRHandler(payrolls domain.PayrollRepository, leaves domain.LeaveRequestRepository) *HRHandler {
	return &HRHandler{payrolls: payrolls, leaves: leaves}
}

func (h *HRHandler) CreatePayroll(w http.ResponseWriter, r *http.Request) {
	var payroll domain.Payroll
	if !decodeBody(w, r, &payroll) {
		return
	}
	if payroll.EmployeeID == 0 || payroll.MonthYear == "" {
		respondError(w, http.StatusBadRequest, "employeeId and monthYear are required")
		return
	}

	err := h.payrolls.Create(r.Context(), &payroll)
	if errors.Is(err, domain.ErrEmployeeNotFound) {
		respondError(w, http.StatusBadRequest, "Employee does not exist")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create payroll record")
		return
	}
	respondJSON(w, http.StatusCreated, payroll)
}

func (h *HRHandler) UpdatePayroll(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var payroll domain.Payroll
	if !decodeBody(w, r, &payroll) {
		return
	}
	payroll.ID = id

	err := h.payrolls.Update(r.Context(), &payroll)
	if errors.Is(err, domain.ErrPayrollNotFound) {
		respondError(w, http.StatusNotFound, "Payroll record not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update payroll record")
		return
	}
	respondJSON(w, http.StatusOK, payroll)
}

func (h *HRHandler) DeletePayroll(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.payrolls.Delete(r.Context(), id)
	if errors.Is(err, domain.ErrPayrollNotFound) {
		respondError(w, http.StatusNotFound, "Payroll record not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete payroll record")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *HRHandler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var request domain.LeaveRequest
	if !decodeBody(w, r, &request) {
		return
	}
	if request.EmployeeID == 0 {
		respondError(w, http.StatusBadRequest, "employeeId is required")
		return
	}
	if request.Status == "" {
		request.Status = domain.LeavePending
	}

	err := h.leaves.Create(r.Context(), &request)
	if errors.Is(err, domain.ErrEmployeeNotFound) {
		respondError(w, http.StatusBadRequest, "Employee does not exist")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create leave request")
		return
	}
	respondJSON(w, http.StatusCreated, request)
}

// UpdateLeaveRequest also carries approvals and rejections: the client sends
// the record back with the new status.
func (h *HRHandler) UpdateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var request domain.LeaveRequest
	if !decodeBody(w, r, &request) {
		return
	}
	request.ID = id

	err := h.leaves.Update(r.Context(), &request)
	if errors.Is(err, domain.ErrLeaveRequestNotFound) {
		respondError(w, http.StatusNotFound, "Leave request not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update leave request")
		return
	}
	respondJSON(w, http.StatusOK, request)
}

func (h *HRHandler) DeleteLeaveRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.leaves.Delete(r.Context(), id)
	if errors.Is(err, domain.ErrLeaveRequestNotFound) {
		respondError(w, http.StatusNotFound, "Leave request not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete leave request")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
