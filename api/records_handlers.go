package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/shift"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// ATTENDANCE
// =============================================================================

// PutAttendanceDay records the punches of one day.
func (h *Handler) PutAttendanceDay(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	date, err := worktime.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	var req PutAttendanceRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	day := attendance.Day{Date: date, Status: strings.TrimSpace(req.Status)}
	if day.PunchIn, err = h.optionalTimestamp(req.PunchIn); err != nil {
		h.writeDomainError(w, err)
		return
	}
	if day.PunchOut, err = h.optionalTimestamp(req.PunchOut); err != nil {
		h.writeDomainError(w, err)
		return
	}
	if day.Complete() && !day.PunchOut.After(*day.PunchIn) {
		h.writeDomainError(w, fmt.Errorf("%w: punch out must be after punch in", worktime.ErrInvalidRange))
		return
	}

	if err := h.Store.SaveAttendanceDay(r.Context(), emp.ID, day); err != nil {
		h.writeDomainError(w, worktime.Unavailable("save attendance day", err))
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDayDTO(day))
}

// ListAttendance returns the employee's days of ?month= with their punches,
// overtime and leave.
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	ym, err := h.parseMonth(r)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	days, err := h.Store.ListAttendanceDays(r.Context(), emp.ID, ym)
	if err != nil {
		h.writeDomainError(w, worktime.Unavailable("list attendance days", err))
		return
	}
	dtos := make([]AttendanceDayDTO, len(days))
	for i, d := range days {
		dtos[i] = toAttendanceDayDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAttendanceStats returns the monthly attendance panel.
func (h *Handler) GetAttendanceStats(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	ym, err := h.parseMonth(r)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	st, err := h.Attendance.MonthlyStats(r.Context(), emp.ID, ym)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AttendanceStatsDTO{
		EmployeeID:    emp.ID,
		Month:         st.YearMonth.String(),
		WorkDays:      st.WorkDays,
		NormalDays:    st.NormalDays,
		AbnormalDays:  st.AbnormalDays,
		WorkHours:     st.WorkHours,
		OvertimeHours: st.OvertimeHours,
		LeaveDays:     st.LeaveDays,
	})
}

func (h *Handler) optionalTimestamp(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := h.parseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// =============================================================================
// SALARY AND PAYROLL
// =============================================================================

// GetSalaryConfig returns the employee's salary configuration.
func (h *Handler) GetSalaryConfig(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}

	cfg, err := h.Store.SalaryConfig(r.Context(), emp.ID)
	if err != nil {
		h.writeDomainError(w, worktime.Unavailable("get salary config", err))
		return
	}
	if cfg == nil {
		h.writeDomainError(w, fmt.Errorf("%w: employee %s", worktime.ErrSalaryConfigMissing, emp.ID))
		return
	}
	writeJSON(w, http.StatusOK, toSalaryConfigDTO(*cfg))
}

// PutSalaryConfig replaces the employee's salary configuration.
func (h *Handler) PutSalaryConfig(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	var req SalaryConfigDTO
	if !h.decodeRequest(w, r, &req) {
		return
	}
	if req.BaseSalary.IsNegative() || req.HourlyRate.IsNegative() {
		h.writeDomainError(w, fmt.Errorf("%w: salary amounts must not be negative", worktime.ErrInvalidInput))
		return
	}

	cfg := req.toDomain(emp.ID, h.Clock())
	if err := h.Store.SaveSalaryConfig(r.Context(), cfg); err != nil {
		h.writeDomainError(w, worktime.Unavailable("save salary config", err))
		return
	}
	writeJSON(w, http.StatusOK, toSalaryConfigDTO(cfg))
}

// GetPayroll returns the salary breakdown of ?month=.
func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	ym, err := h.parseMonth(r)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	b, err := h.Payroll.Breakdown(r.Context(), emp.ID, ym)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollDTO(*b))
}

// =============================================================================
// SHIFTS
// =============================================================================

// ListShifts returns the shifts of ?month=.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	ym, err := h.parseMonth(r)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	shifts, err := h.Shifts.List(r.Context(), ym)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	dtos := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = toShiftDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateShift schedules a shift.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req CreateShiftRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	date, err := worktime.ParseDate(req.Date)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	name := req.EmployeeName
	if name == "" {
		if emp, err := h.Store.GetEmployee(r.Context(), req.EmployeeID); err == nil && emp != nil {
			name = emp.Name
		}
	}

	created, err := h.Shifts.Create(r.Context(), shift.CreateInput{
		EmployeeID:   req.EmployeeID,
		EmployeeName: name,
		Date:         date,
		Type:         shift.Type(req.Type),
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Note:         req.Note,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(*created))
}

// DeleteShift removes a shift.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := h.Shifts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetShiftStats returns the schedule summary of ?month=.
func (h *Handler) GetShiftStats(w http.ResponseWriter, r *http.Request) {
	ym, err := h.parseMonth(r)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	st, err := h.Shifts.Stats(r.Context(), ym)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftStatsDTO(st))
}
