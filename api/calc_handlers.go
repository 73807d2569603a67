package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/warp/attendance-engine/leave"
	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// STATELESS CALCULATORS
// =============================================================================

// ComputeWorkHours returns the work-window hours between two timestamps.
// Unparseable or inverted input is reported as an invalid range with zero
// hours, not as an error.
func (h *Handler) ComputeWorkHours(w http.ResponseWriter, r *http.Request) {
	var req WorkHoursRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, toWorkHoursDTO(h.Calculator.ComputeStrings(req.Start, req.End)))
}

// ListLeaveTypes returns the leave type catalogue.
func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	dtos := make([]LeaveTypeDTO, len(leave.AllTypes))
	for i, t := range leave.AllTypes {
		dtos[i] = LeaveTypeDTO{Code: string(t), Label: t.Label()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ValidateLeave runs the leave rules without storing anything. Every issue
// is reported in the body; the status is 200 even when the request is
// invalid.
func (h *Handler) ValidateLeave(w http.ResponseWriter, r *http.Request) {
	var req ValidateLeaveRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	t := leaveType(req.Type)
	start, end := h.parseSpan(req.Start, req.End)

	var val leave.Validation
	if req.EmployeeID != "" {
		var err error
		val, err = h.Leave.Check(r.Context(), req.EmployeeID, t, start, end)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
	} else {
		val = h.Leave.Validator.Validate(leave.Input{Type: t, Start: start, End: end, Balance: req.Balance})
	}

	writeJSON(w, http.StatusOK, toLeaveValidationDTO(val))
}

// ClassifyOvertime splits an overtime span into pay tiers for its date.
func (h *Handler) ClassifyOvertime(w http.ResponseWriter, r *http.Request) {
	var req ClassifyOvertimeRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	date, err := worktime.ParseDate(req.Date)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	cl, err := h.Classifier.Classify(date, req.StartTime, req.EndTime)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClassificationDTO(cl, req.HourlyRate))
}

// CheckOvertimeLimit runs the monthly ceiling check over records supplied
// in the body.
func (h *Handler) CheckOvertimeLimit(w http.ResponseWriter, r *http.Request) {
	var req LimitCheckRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	ym, err := worktime.ParseYearMonth(req.Month)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if req.NewHours.IsNegative() {
		h.writeDomainError(w, fmt.Errorf("%w: new hours must not be negative", worktime.ErrInvalidInput))
		return
	}

	records := make([]overtime.Request, 0, len(req.Records))
	for _, rec := range req.Records {
		date, err := worktime.ParseDate(rec.Date)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		records = append(records, overtime.Request{
			Date:   date,
			Hours:  rec.Hours,
			Status: overtime.NormalizeStatus(rec.Status),
		})
	}

	ceiling := h.Rules.MonthlyOvertimeCeiling
	if req.Ceiling != nil {
		ceiling = *req.Ceiling
	}
	writeJSON(w, http.StatusOK, toLimitCheckDTO(overtime.CheckLimit(ym, req.NewHours, records, ceiling)))
}

// leaveType parses s, keeping an unknown value so the validator reports it.
func leaveType(s string) leave.Type {
	t, err := leave.ParseType(s)
	if err != nil {
		return leave.Type(s)
	}
	return t
}

// parseSpan reads both ends of a leave span. An unparseable end becomes
// the zero time, which the calculator reports as an invalid range.
func (h *Handler) parseSpan(start, end string) (time.Time, time.Time) {
	s, _ := h.parseTimestamp(start)
	e, _ := h.parseTimestamp(end)
	return s, e
}
