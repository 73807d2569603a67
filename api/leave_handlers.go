package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/leave"
)

// =============================================================================
// LEAVE BALANCES
// =============================================================================

// GetLeaveBalances returns the employee's remaining days per leave type.
func (h *Handler) GetLeaveBalances(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	h.writeBalances(w, r, emp.ID)
}

// SetLeaveBalances overwrites the remaining days of the listed types.
func (h *Handler) SetLeaveBalances(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	var req SetLeaveBalancesRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	types := make(map[leave.Type]decimal.Decimal, len(req.Balances))
	for name, days := range req.Balances {
		t, err := leave.ParseType(name)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		types[t] = days
	}
	for t, days := range types {
		if err := h.Store.SetLeaveBalance(r.Context(), emp.ID, t, days); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save leave balance", err)
			return
		}
	}
	h.writeBalances(w, r, emp.ID)
}

func (h *Handler) writeBalances(w http.ResponseWriter, r *http.Request, employeeID string) {
	balances, err := h.Leave.LeaveBalances(r.Context(), employeeID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	dto := LeaveBalancesDTO{EmployeeID: employeeID, Balances: make(map[string]decimal.Decimal, len(balances))}
	for t, days := range balances {
		dto.Balances[string(t)] = days
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// ListLeaveRequests returns the employee's leave requests starting in ?month=.
func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	ym, err := h.parseMonth(r)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	reqs, err := h.Leave.List(r.Context(), emp.ID, ym)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	dtos := make([]LeaveRequestDTO, len(reqs))
	for i, req := range reqs {
		dtos[i] = toLeaveRequestDTO(req)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SubmitLeave stores a pending leave request. Blocking issues answer 422;
// warnings such as an insufficient balance come back with the 201.
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	var req SubmitLeaveRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	start, end := h.parseSpan(req.Start, req.End)
	stored, val, err := h.Leave.Submit(r.Context(), leave.SubmitInput{
		EmployeeID: emp.ID,
		Type:       leaveType(req.Type),
		Start:      start,
		End:        end,
		Reason:     req.Reason,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, SubmitLeaveResponse{
		Request:  toLeaveRequestDTO(*stored),
		Warnings: toIssueDTOs(val.Warnings()),
	})
}

// ApproveLeave approves a pending leave request and deducts its days.
func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	h.reviewLeave(w, r, true)
}

// RejectLeave rejects a pending leave request.
func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	h.reviewLeave(w, r, false)
}

func (h *Handler) reviewLeave(w http.ResponseWriter, r *http.Request, approve bool) {
	var req ReviewRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	reviewed, err := h.Leave.Review(r.Context(), chi.URLParam(r, "id"), leave.ReviewInput{
		Approve:  approve,
		Reviewer: req.Reviewer,
		Comment:  req.Comment,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(*reviewed))
}
