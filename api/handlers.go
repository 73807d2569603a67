/*
handlers.go - HTTP API handlers for the attendance engine

PURPOSE:
  Exposes the work-hour calculators and the leave, overtime, attendance,
  shift and payroll services via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: SQLite record store
  - Services built once from the configured work rules
  - validator for request DTOs

REQUEST FLOW:
  1. Parse HTTP request (decodeRequest runs the validate tags)
  2. Call domain logic
  3. Serialize response
  4. Map domain errors to HTTP status (writeDomainError)

ERROR HANDLING:
  Errors are returned as JSON {"error", "code", "details"}:
  - 400: Malformed input, invalid clock times, invalid ranges
  - 404: Employee, request or configuration not found
  - 409: Request no longer pending; monthly overtime ceiling exceeded
         (the body carries the limit check)
  - 422: Leave request failed validation (the body carries the issues)
  - 503: Record store unavailable
  - 500: Internal errors

FILES:
  - calc_handlers.go:     stateless calculators
  - leave_handlers.go:    leave balances, requests and review
  - overtime_handlers.go: overtime requests, ceiling and alerts
  - records_handlers.go:  attendance, salary, payroll, shifts

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/leave"
	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/payroll"
	"github.com/warp/attendance-engine/shift"
	"github.com/warp/attendance-engine/store/sqlite"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Rules      worktime.Config
	Calculator *worktime.Calculator
	Classifier *overtime.Classifier
	Leave      *leave.Service
	Overtime   *overtime.Service
	Attendance *attendance.Service
	Shifts     *shift.Service
	Payroll    *payroll.Service
	Logger     *slog.Logger
	Clock      func() time.Time

	validate *validator.Validate

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler wires the services over store with the given work rules.
// A nil tier table uses the default tiers.
func NewHandler(store *sqlite.Store, rules worktime.Config, tiers overtime.TierTable, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	classifier := overtime.NewClassifier(tiers, store)
	return &Handler{
		Store:      store,
		Rules:      rules,
		Calculator: worktime.NewCalculator(rules),
		Classifier: classifier,
		Leave:      leave.NewService(store, store, rules, logger),
		Overtime:   overtime.NewService(store, rules, logger),
		Attendance: attendance.NewService(store, rules),
		Shifts:     shift.NewService(store),
		Payroll:    payroll.NewService(store, store, store, classifier, rules),
		Logger:     logger,
		Clock:      time.Now,
		validate:   newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates or updates an employee. The id and hire date
// default to a new uuid and today.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	emp := sqlite.Employee{
		ID:         strings.TrimSpace(req.ID),
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Department: req.Department,
		HireDate:   h.today(),
	}
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	if req.HireDate != "" {
		hire, err := worktime.ParseDate(req.HireDate)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		emp.HireDate = hire
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}

	saved, err := h.Store.GetEmployee(r.Context(), emp.ID)
	if err != nil || saved == nil {
		writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*saved))
}

// requireEmployee loads the {id} employee, writing a 404 when absent.
func (h *Handler) requireEmployee(w http.ResponseWriter, r *http.Request) (*sqlite.Employee, bool) {
	id := chi.URLParam(r, "id")
	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, worktime.Unavailable("get employee", err))
		return nil, false
	}
	if emp == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error: "Employee not found", Code: "not_found", Details: id,
		})
		return nil, false
	}
	return emp, true
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the holiday calendar.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = HolidayDTO{
			ID:        hol.ID,
			Date:      hol.Date.Format(worktime.DateLayout),
			Name:      hol.Name,
			Recurring: hol.Recurring,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday. Overtime on that date is paid as holiday
// overtime.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}
	date, err := worktime.ParseDate(req.Date)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	hol := sqlite.Holiday{
		ID:        uuid.NewString(),
		Date:      date,
		Name:      strings.TrimSpace(req.Name),
		Recurring: req.Recurring,
	}
	if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, HolidayDTO{
		ID:        hol.ID,
		Date:      req.Date,
		Name:      hol.Name,
		Recurring: hol.Recurring,
	})
}

// DeleteHoliday removes a holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	found, err := h.Store.DeleteHoliday(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Holiday not found", Code: "not_found", Details: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message, Code: codeForStatus(status)}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_input"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// decodeRequest decodes the JSON body into dst and runs its validate tags.
// It writes a 400 and returns false on failure.
func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return false
		}
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Code:    "invalid_input",
			Details: err.Error(),
			Fields:  fields,
		})
		return false
	}
	return true
}

// writeDomainError maps the engine's error taxonomy to HTTP.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var (
		invalid *leave.ValidationError
		ceiling *worktime.CeilingExceededError
	)

	switch {
	case errors.As(err, &invalid):
		code := "invalid_leave_request"
		if len(invalid.Issues) > 0 {
			code = invalid.Issues[0].Code
		}
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "Leave request is invalid",
			Code:    code,
			Details: err.Error(),
			Issues:  toIssueDTOs(invalid.Issues),
		})

	case errors.As(err, &ceiling):
		check := LimitCheckDTO{
			Month:        ceiling.YearMonth.String(),
			CurrentHours: ceiling.CurrentHours,
			NewHours:     ceiling.NewHours,
			TotalAfter:   ceiling.TotalAfter,
			Exceeded:     ceiling.Exceeded,
			Ceiling:      ceiling.Ceiling,
		}
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:      "Monthly overtime ceiling exceeded",
			Code:       "overtime_ceiling_exceeded",
			Details:    err.Error(),
			LimitCheck: &check,
		})

	case worktime.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found", Code: "not_found", Details: err.Error()})

	case errors.Is(err, worktime.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "Request is not pending", Code: "invalid_transition", Details: err.Error()})

	case errors.Is(err, worktime.ErrCollaboratorUnavailable):
		h.Logger.Error("record store unavailable", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "Record store unavailable", Code: "unavailable", Details: err.Error()})

	case worktime.IsClientError(err):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid input", Code: clientErrorCode(err), Details: err.Error()})

	default:
		h.Logger.Error("unhandled error", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

var clientErrorCodes = []struct {
	err  error
	code string
}{
	{worktime.ErrInvalidRange, "invalid_range"},
	{worktime.ErrNonIntegerHours, leave.CodeNonIntegerHours},
	{worktime.ErrDailyCapExceeded, leave.CodeDailyCapExceeded},
	{worktime.ErrNotOnTheHour, leave.CodeNotOnTheHour},
	{worktime.ErrUnknownLeaveType, leave.CodeUnknownType},
	{worktime.ErrInvalidClockTime, "invalid_clock_time"},
	{worktime.ErrInvalidCompensatory, "invalid_compensatory_hours"},
}

func clientErrorCode(err error) string {
	for _, c := range clientErrorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "invalid_input"
}

// parseMonth reads ?month=YYYY-MM, defaulting to the current month in the
// configured location.
func (h *Handler) parseMonth(r *http.Request) (worktime.YearMonth, error) {
	s := r.URL.Query().Get("month")
	if s == "" {
		return worktime.MonthOf(h.Rules.In(h.Clock())), nil
	}
	return worktime.ParseYearMonth(s)
}

// today is the current calendar date at UTC midnight.
func (h *Handler) today() time.Time {
	now := h.Rules.In(h.Clock())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// parseTimestamp reads a request timestamp in the configured location.
func (h *Handler) parseTimestamp(s string) (time.Time, error) {
	return worktime.ParseTimestamp(s, h.Rules.Location)
}
