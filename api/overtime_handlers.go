package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// OVERTIME REQUESTS
// =============================================================================

// ListOvertimeRequests returns the employee's overtime requests dated in ?month=.
func (h *Handler) ListOvertimeRequests(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	ym, err := h.parseMonth(r)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	reqs, err := h.Overtime.List(r.Context(), emp.ID, ym)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOvertimeRequestDTOs(reqs))
}

// SubmitOvertime applies for overtime. Over the monthly ceiling without
// compensatory_hours the answer is 409 with the limit check; the client
// then resubmits with compensatory_hours in [0, exceeded].
func (h *Handler) SubmitOvertime(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	var req SubmitOvertimeRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	date, err := worktime.ParseDate(req.Date)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	stored, check, err := h.Overtime.Submit(r.Context(), overtime.SubmitInput{
		EmployeeID:        emp.ID,
		Date:              date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Hours:             req.Hours,
		Reason:            req.Reason,
		CompensatoryHours: req.CompensatoryHours,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, SubmitOvertimeResponse{
		Request:    toOvertimeRequestDTO(*stored),
		LimitCheck: toLimitCheckDTO(check),
	})
}

// ListPendingOvertime returns every pending overtime request, oldest first.
func (h *Handler) ListPendingOvertime(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Store.ListPendingOvertimeRequests(r.Context())
	if err != nil {
		h.writeDomainError(w, worktime.Unavailable("list pending overtime", err))
		return
	}
	writeJSON(w, http.StatusOK, toOvertimeRequestDTOs(reqs))
}

// ApproveOvertime approves a pending overtime request.
func (h *Handler) ApproveOvertime(w http.ResponseWriter, r *http.Request) {
	h.reviewOvertime(w, r, true)
}

// RejectOvertime rejects a pending overtime request.
func (h *Handler) RejectOvertime(w http.ResponseWriter, r *http.Request) {
	h.reviewOvertime(w, r, false)
}

func (h *Handler) reviewOvertime(w http.ResponseWriter, r *http.Request, approve bool) {
	var req ReviewRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	reviewed, err := h.Overtime.Review(r.Context(), chi.URLParam(r, "id"), overtime.ReviewInput{
		Approve:  approve,
		Reviewer: req.Reviewer,
		Comment:  req.Comment,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOvertimeRequestDTO(*reviewed))
}

// =============================================================================
// MONTHLY CEILING
// =============================================================================

// GetOvertimeLimit checks ?hours= more overtime against the employee's
// approved hours of ?month=. A failing record store degrades the check
// instead of failing it.
func (h *Handler) GetOvertimeLimit(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	ym, err := h.parseMonth(r)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	hours := decimal.Zero
	if s := r.URL.Query().Get("hours"); s != "" {
		hours, err = decimal.NewFromString(s)
		if err != nil || hours.IsNegative() {
			h.writeDomainError(w, fmt.Errorf("%w: hours %q", worktime.ErrInvalidInput, s))
			return
		}
	}

	check := h.Overtime.Ledger.CheckLimit(r.Context(), emp.ID, ym, hours)
	writeJSON(w, http.StatusOK, toLimitCheckDTO(check))
}

// GetOvertimeSummary returns the employee's overtime position for ?month=.
func (h *Handler) GetOvertimeSummary(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	ym, err := h.parseMonth(r)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	summary, err := h.Overtime.Ledger.Summary(r.Context(), emp.ID, ym)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOvertimeSummaryDTO(summary))
}

// ListCeilingAlerts returns the alerts recorded by the ceiling monitor,
// for ?month= when given, otherwise for every month.
func (h *Handler) ListCeilingAlerts(w http.ResponseWriter, r *http.Request) {
	var ym worktime.YearMonth
	if r.URL.Query().Get("month") != "" {
		var err error
		if ym, err = h.parseMonth(r); err != nil {
			h.writeDomainError(w, err)
			return
		}
	}

	alerts, err := h.Store.ListCeilingAlerts(r.Context(), ym)
	if err != nil {
		h.writeDomainError(w, worktime.Unavailable("list ceiling alerts", err))
		return
	}
	dtos := make([]CeilingAlertDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = toCeilingAlertDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}
