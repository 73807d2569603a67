/*
handlers_test.go - HTTP tests for the API handlers

Tests for:
- Stateless calculators (work hours, leave validation, classification, limit check)
- Leave submission, warnings and review
- Two-phase overtime submission against the monthly ceiling
- Attendance, salary configuration and payroll
- Shifts and holidays
- Error mapping (404, 400 field errors, 409 transitions)
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/api"
	"github.com/warp/attendance-engine/store/sqlite"
	"github.com/warp/attendance-engine/worktime"
)

// Monday 10 March 2025.
var testNow = time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)

type testAPI struct {
	t      *testing.T
	h      *api.Handler
	store  *sqlite.Store
	router http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := api.NewHandler(store, worktime.DefaultConfig(), nil, logger)
	h.Clock = func() time.Time { return testNow }

	return &testAPI{t: t, h: h, store: store, router: api.NewRouter(h, api.RouterOptions{})}
}

func (a *testAPI) call(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) employee(id string) {
	a.t.Helper()
	rec := a.call(http.MethodPost, "/api/employees", map[string]any{
		"id": id, "name": "Employee " + id, "hire_date": "2024-01-01",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// =============================================================================
// STATELESS CALCULATORS
// =============================================================================

func TestComputeWorkHours(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name         string
		start, end   string
		wantHours    string
		wantInvalid  bool
		wantSameDay  bool
		wantFullDays int
	}{
		{"full day minus lunch", "2025-03-10 09:00", "2025-03-10 18:00", "8", false, true, 0},
		{"morning only", "2025-03-10 09:00", "2025-03-10 12:00", "3", false, true, 0},
		{"across three days", "2025-03-10 14:00", "2025-03-12 11:00", "14", false, false, 1},
		{"end before start", "2025-03-10 18:00", "2025-03-10 09:00", "0", true, false, 0},
		{"unparseable", "yesterday", "2025-03-10 09:00", "0", true, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.call(http.MethodPost, "/api/work-hours", map[string]string{"start": tt.start, "end": tt.end})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			got := decodeAs[api.WorkHoursDTO](t, rec)
			assert.Equal(t, tt.wantHours, got.Hours.String())
			assert.Equal(t, tt.wantInvalid, got.InvalidRange)
			if !tt.wantInvalid {
				assert.Equal(t, tt.wantSameDay, got.SameDay)
				assert.Equal(t, tt.wantFullDays, got.FullDays)
			}
		})
	}
}

func TestComputeWorkHours_MissingFields(t *testing.T) {
	a := newTestAPI(t)

	rec := a.call(http.MethodPost, "/api/work-hours", map[string]string{"start": "2025-03-10 09:00"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeAs[api.ErrorResponse](t, rec)
	assert.Equal(t, "invalid_input", got.Code)
	assert.Equal(t, "required", got.Fields["end"])
}

func TestListLeaveTypes(t *testing.T) {
	a := newTestAPI(t)

	rec := a.call(http.MethodGet, "/api/leave/types", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeAs[[]api.LeaveTypeDTO](t, rec)
	require.Len(t, got, 15)
	assert.Equal(t, "ANNUAL_LEAVE", got[0].Code)
	assert.Equal(t, "Annual leave", got[0].Label)
}

func TestValidateLeave_ReportsIssuesWith200(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name      string
		body      map[string]any
		wantValid bool
		wantCodes []string
	}{
		{
			name:      "one full day",
			body:      map[string]any{"type": "annual_leave", "start": "2025-03-10 09:00", "end": "2025-03-10 18:00"},
			wantValid: true,
		},
		{
			name:      "not on the hour",
			body:      map[string]any{"type": "ANNUAL_LEAVE", "start": "2025-03-10 09:00:30", "end": "2025-03-10 18:00"},
			wantCodes: []string{"not_on_the_hour"},
		},
		{
			name:      "unknown type",
			body:      map[string]any{"type": "NAP_LEAVE", "start": "2025-03-10 09:00", "end": "2025-03-10 10:00"},
			wantCodes: []string{"unknown_leave_type"},
		},
		{
			name:      "lunch only",
			body:      map[string]any{"type": "SICK_LEAVE", "start": "2025-03-10 12:00", "end": "2025-03-10 13:00"},
			wantCodes: []string{"invalid_range"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.call(http.MethodPost, "/api/leave/validate", tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			got := decodeAs[api.LeaveValidationDTO](t, rec)
			assert.Equal(t, tt.wantValid, got.Valid)
			var codes []string
			for _, is := range got.Errors {
				codes = append(codes, is.Code)
			}
			assert.Equal(t, tt.wantCodes, codes)
		})
	}
}

func TestValidateLeave_BalanceWarning(t *testing.T) {
	a := newTestAPI(t)

	// GIVEN: Half a day left
	// WHEN: Validating a full day
	rec := a.call(http.MethodPost, "/api/leave/validate", map[string]any{
		"type": "ANNUAL_LEAVE", "start": "2025-03-10 09:00", "end": "2025-03-10 18:00", "balance": "0.5",
	})

	// THEN: Valid, with an insufficient balance warning
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeAs[api.LeaveValidationDTO](t, rec)
	assert.True(t, got.Valid)
	assert.Equal(t, "1", got.Days.String())
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, "insufficient_balance", got.Warnings[0].Code)
}

func TestClassifyOvertime(t *testing.T) {
	a := newTestAPI(t)
	rec := a.call(http.MethodPost, "/api/holidays", map[string]any{"date": "2025-03-12", "name": "Founders' Day"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	tests := []struct {
		name         string
		date         string
		wantDayType  string
		wantWeighted string
		wantPay      string
	}{
		{"weekday", "2025-03-10", "weekday", "4.35", "870"},
		{"saturday", "2025-03-08", "restday", "4.35", "870"},
		{"holiday", "2025-03-12", "holiday", "6", "1200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.call(http.MethodPost, "/api/overtime/classify", map[string]any{
				"date": tt.date, "start_time": "18:00", "end_time": "21:00", "hourly_rate": "200",
			})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			got := decodeAs[api.ClassificationDTO](t, rec)
			assert.Equal(t, tt.wantDayType, got.DayType)
			assert.Equal(t, "3", got.Hours.String())
			assert.Equal(t, tt.wantWeighted, got.WeightedHours.String())
			require.NotNil(t, got.Pay)
			assert.Equal(t, tt.wantPay, got.Pay.String())
		})
	}
}

func TestClassifyOvertime_BadClockTime(t *testing.T) {
	a := newTestAPI(t)

	rec := a.call(http.MethodPost, "/api/overtime/classify", map[string]any{
		"date": "2025-03-10", "start_time": "6pm", "end_time": "21:00",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_clock_time", decodeAs[api.ErrorResponse](t, rec).Code)
}

func TestCheckOvertimeLimit_ExplicitRecords(t *testing.T) {
	a := newTestAPI(t)

	// GIVEN: 44 approved hours in March, pending and February hours that do not count
	rec := a.call(http.MethodPost, "/api/overtime/limit-check", map[string]any{
		"month":     "2025-03",
		"new_hours": "5",
		"records": []map[string]any{
			{"date": "2025-03-03", "hours": "40", "status": "approved"},
			{"date": "2025-03-04", "hours": "4", "status": " APPROVED "},
			{"date": "2025-03-05", "hours": "10", "status": "pending"},
			{"date": "2025-02-28", "hours": "10", "status": "approved"},
		},
	})

	// THEN: 49 of 46, exceeded by 3
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeAs[api.LimitCheckDTO](t, rec)
	assert.Equal(t, "44", got.CurrentHours.String())
	assert.Equal(t, "49", got.TotalAfter.String())
	assert.Equal(t, "3", got.Exceeded.String())
	assert.Equal(t, "46", got.Ceiling.String())
	assert.False(t, got.WithinLimit)
}

// =============================================================================
// EMPLOYEES AND ERRORS
// =============================================================================

func TestEmployee_NotFound(t *testing.T) {
	a := newTestAPI(t)

	for _, path := range []string{
		"/api/employees/ghost",
		"/api/employees/ghost/leave/balances",
		"/api/employees/ghost/overtime/summary",
		"/api/employees/ghost/payroll",
	} {
		rec := a.call(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "not_found", decodeAs[api.ErrorResponse](t, rec).Code, path)
	}
}

func TestCreateEmployee_ValidationFields(t *testing.T) {
	a := newTestAPI(t)

	rec := a.call(http.MethodPost, "/api/employees", map[string]any{"email": "not-an-email"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeAs[api.ErrorResponse](t, rec)
	assert.Equal(t, "required", got.Fields["name"])
	assert.Equal(t, "email", got.Fields["email"])
}

func TestCreateEmployee_DefaultsAndList(t *testing.T) {
	a := newTestAPI(t)

	rec := a.call(http.MethodPost, "/api/employees", map[string]any{"name": "Grace"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeAs[api.EmployeeDTO](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2025-03-10", created.HireDate)

	rec = a.call(http.MethodGet, "/api/employees", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeAs[[]api.EmployeeDTO](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Grace", list[0].Name)
}

// =============================================================================
// LEAVE
// =============================================================================

func TestSubmitLeave_WarningThenApproveDeductsBalance(t *testing.T) {
	a := newTestAPI(t)
	a.employee("emp-1")

	// GIVEN: Three annual leave days
	rec := a.call(http.MethodPut, "/api/employees/emp-1/leave/balances", map[string]any{
		"balances": map[string]string{"annual_leave": "3"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// WHEN: Submitting one day
	rec = a.call(http.MethodPost, "/api/employees/emp-1/leave/requests", map[string]any{
		"type": "ANNUAL_LEAVE", "start": "2025-03-11 09:00", "end": "2025-03-11 18:00", "reason": "Family trip",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	submitted := decodeAs[api.SubmitLeaveResponse](t, rec)
	assert.Equal(t, "pending", submitted.Request.Status)
	assert.Equal(t, "8", submitted.Request.Hours.String())
	assert.Empty(t, submitted.Warnings)

	// AND: Approving it
	rec = a.call(http.MethodPost, "/api/leave/requests/"+submitted.Request.ID+"/approve", map[string]any{"reviewer": "manager"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "approved", decodeAs[api.LeaveRequestDTO](t, rec).Status)

	// THEN: The balance drops by one day
	rec = a.call(http.MethodGet, "/api/employees/emp-1/leave/balances", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	balances := decodeAs[api.LeaveBalancesDTO](t, rec)
	assert.Equal(t, "2", balances.Balances["ANNUAL_LEAVE"].String())

	// AND: A second review is rejected
	rec = a.call(http.MethodPost, "/api/leave/requests/"+submitted.Request.ID+"/reject", map[string]any{"reviewer": "manager"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_transition", decodeAs[api.ErrorResponse](t, rec).Code)
}

func TestSubmitLeave_InsufficientBalanceIsAWarning(t *testing.T) {
	a := newTestAPI(t)
	a.employee("emp-1")
	rec := a.call(http.MethodPut, "/api/employees/emp-1/leave/balances", map[string]any{
		"balances": map[string]string{"PERSONAL_LEAVE": "0"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.call(http.MethodPost, "/api/employees/emp-1/leave/requests", map[string]any{
		"type": "PERSONAL_LEAVE", "start": "2025-03-11 13:00", "end": "2025-03-11 17:00", "reason": "Errands",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decodeAs[api.SubmitLeaveResponse](t, rec)
	assert.Equal(t, "0.5", got.Request.Days.String())
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, "insufficient_balance", got.Warnings[0].Code)
}

func TestSubmitLeave_BlockingIssuesAre422(t *testing.T) {
	a := newTestAPI(t)
	a.employee("emp-1")

	tests := []struct {
		name     string
		body     map[string]any
		wantCode string
	}{
		{
			name:     "not on the hour",
			body:     map[string]any{"type": "SICK_LEAVE", "start": "2025-03-11 09:15", "end": "2025-03-11 12:00", "reason": "Doctor"},
			wantCode: "not_on_the_hour",
		},
		{
			name:     "reason too short",
			body:     map[string]any{"type": "SICK_LEAVE", "start": "2025-03-11 09:00", "end": "2025-03-11 12:00", "reason": "x"},
			wantCode: "reason_too_short",
		},
		{
			name:     "inverted range",
			body:     map[string]any{"type": "SICK_LEAVE", "start": "2025-03-11 12:00", "end": "2025-03-11 09:00", "reason": "Doctor"},
			wantCode: "invalid_range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.call(http.MethodPost, "/api/employees/emp-1/leave/requests", tt.body)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			got := decodeAs[api.ErrorResponse](t, rec)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.NotEmpty(t, got.Issues)
		})
	}

	rec := a.call(http.MethodGet, "/api/employees/emp-1/leave/requests?month=2025-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeAs[[]api.LeaveRequestDTO](t, rec))
}

func TestReviewLeave_UnknownRequest(t *testing.T) {
	a := newTestAPI(t)

	rec := a.call(http.MethodPost, "/api/leave/requests/nope/approve", map[string]any{"reviewer": "manager"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// OVERTIME
// =============================================================================

func submitOvertime(a *testAPI, employeeID string, body map[string]any) *httptest.ResponseRecorder {
	a.t.Helper()
	return a.call(http.MethodPost, "/api/employees/"+employeeID+"/overtime/requests", body)
}

func TestSubmitOvertime_TwoPhaseOverCeiling(t *testing.T) {
	a := newTestAPI(t)
	a.employee("emp-1")

	// GIVEN: 44 approved hours this month
	rec := submitOvertime(a, "emp-1", map[string]any{
		"date": "2025-03-03", "start_time": "18:00", "end_time": "22:00", "hours": "44", "reason": "Quarter close",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decodeAs[api.SubmitOvertimeResponse](t, rec)
	assert.True(t, first.LimitCheck.WithinLimit)

	rec = a.call(http.MethodPost, "/api/overtime/requests/"+first.Request.ID+"/approve", map[string]any{"reviewer": "manager"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// WHEN: Applying for 4 more hours without an allocation
	body := map[string]any{"date": "2025-03-04", "start_time": "18:00", "end_time": "22:00", "reason": "Release"}
	rec = submitOvertime(a, "emp-1", body)

	// THEN: 409 with the limit check, nothing stored
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	conflict := decodeAs[api.ErrorResponse](t, rec)
	assert.Equal(t, "overtime_ceiling_exceeded", conflict.Code)
	require.NotNil(t, conflict.LimitCheck)
	assert.Equal(t, "44", conflict.LimitCheck.CurrentHours.String())
	assert.Equal(t, "2", conflict.LimitCheck.Exceeded.String())

	// AND: Allocating more than the excess is refused
	body["compensatory_hours"] = "3"
	rec = submitOvertime(a, "emp-1", body)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "invalid_compensatory_hours", decodeAs[api.ErrorResponse](t, rec).Code)

	// AND: Resubmitting with the excess as compensatory hours is stored
	body["compensatory_hours"] = "2"
	rec = submitOvertime(a, "emp-1", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	second := decodeAs[api.SubmitOvertimeResponse](t, rec)
	assert.Equal(t, "pending", second.Request.Status)
	assert.Equal(t, "4", second.Request.Hours.String())
	assert.Equal(t, "2", second.Request.CompensatoryHours.String())
	assert.Equal(t, "2", second.Request.PaidHours.String())

	rec = a.call(http.MethodGet, "/api/overtime/requests/pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decodeAs[[]api.OvertimeRequestDTO](t, rec)
	require.Len(t, pending, 1)
	assert.Equal(t, second.Request.ID, pending[0].ID)
}

func TestOvertimeLimitAndSummary(t *testing.T) {
	a := newTestAPI(t)
	a.employee("emp-1")

	for _, date := range []string{"2025-03-03", "2025-03-04"} {
		rec := submitOvertime(a, "emp-1", map[string]any{
			"date": date, "start_time": "18:00", "end_time": "21:00", "reason": "Support",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		created := decodeAs[api.SubmitOvertimeResponse](t, rec)
		if date == "2025-03-03" {
			rec = a.call(http.MethodPost, "/api/overtime/requests/"+created.Request.ID+"/approve", map[string]any{"reviewer": "manager"})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		}
	}

	rec := a.call(http.MethodGet, "/api/employees/emp-1/overtime/limit?month=2025-03&hours=45", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	check := decodeAs[api.LimitCheckDTO](t, rec)
	assert.Equal(t, "3", check.CurrentHours.String())
	assert.Equal(t, "2", check.Exceeded.String())

	rec = a.call(http.MethodGet, "/api/employees/emp-1/overtime/limit?hours=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.call(http.MethodGet, "/api/employees/emp-1/overtime/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decodeAs[api.OvertimeSummaryDTO](t, rec)
	assert.Equal(t, "2025-03", summary.Month)
	assert.Equal(t, "3", summary.ApprovedHours.String())
	assert.Equal(t, "3", summary.PendingHours.String())
	assert.Equal(t, 1, summary.ApprovedCount)
	assert.Equal(t, 1, summary.PendingCount)

	rec = a.call(http.MethodGet, "/api/employees/emp-1/overtime/requests?month=2025-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeAs[[]api.OvertimeRequestDTO](t, rec), 2)
}

func TestOvertime_BadMonth(t *testing.T) {
	a := newTestAPI(t)
	a.employee("emp-1")

	rec := a.call(http.MethodGet, "/api/employees/emp-1/overtime/summary?month=2025-13", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// ATTENDANCE AND PAYROLL
// =============================================================================

func TestAttendance_PutAndStats(t *testing.T) {
	a := newTestAPI(t)
	a.employee("emp-1")

	rec := a.call(http.MethodPut, "/api/employees/emp-1/attendance/2025-03-03", map[string]any{
		"punch_in": "2025-03-03 09:00", "punch_out": "2025-03-03 18:00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.call(http.MethodPut, "/api/employees/emp-1/attendance/2025-03-04", map[string]any{
		"punch_in": "2025-03-04 18:00", "punch_out": "2025-03-04 09:00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_range", decodeAs[api.ErrorResponse](t, rec).Code)

	rec = a.call(http.MethodGet, "/api/employees/emp-1/attendance?month=2025-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	days := decodeAs[[]api.AttendanceDayDTO](t, rec)
	require.Len(t, days, 1)
	assert.Equal(t, "2025-03-03", days[0].Date)
	assert.False(t, days[0].Abnormal)

	rec = a.call(http.MethodGet, "/api/employees/emp-1/attendance/stats?month=2025-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeAs[api.AttendanceStatsDTO](t, rec)
	assert.Equal(t, 1, stats.WorkDays)
	assert.Equal(t, 1, stats.NormalDays)
	assert.Equal(t, "8", stats.WorkHours.String())
}

func TestPayroll_MonthlyWithOvertime(t *testing.T) {
	a := newTestAPI(t)
	a.employee("emp-1")

	// GIVEN: No salary configuration yet
	rec := a.call(http.MethodGet, "/api/employees/emp-1/salary-config", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// AND: 48000 monthly (200 per hour) with one approved 3h weekday overtime
	rec = a.call(http.MethodPut, "/api/employees/emp-1/salary-config", map[string]any{
		"salary_type": "monthly",
		"base_salary": "48000",
		"allowances":  map[string]string{"meal": "2400"},
		"deductions":  map[string]string{"labor_insurance": "1000"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = submitOvertime(a, "emp-1", map[string]any{
		"date": "2025-03-10", "start_time": "18:00", "end_time": "21:00", "reason": "Deploy",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decodeAs[api.SubmitOvertimeResponse](t, rec).Request.ID
	rec = a.call(http.MethodPost, "/api/overtime/requests/"+id+"/approve", map[string]any{"reviewer": "manager"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// WHEN: Computing the March payroll
	rec = a.call(http.MethodGet, "/api/employees/emp-1/payroll?month=2025-03", nil)

	// THEN: 2h x 1.34 + 1h x 1.67 at 200 = 870 overtime
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeAs[api.PayrollDTO](t, rec)
	assert.Equal(t, "200", got.HourlyRate.String())
	assert.Equal(t, "870", got.Overtime.Weekday.String())
	assert.Equal(t, "870", got.Overtime.Total.String())
	assert.Equal(t, "51270", got.GrossSalary.String())
	assert.Equal(t, "1000", got.TotalDeductions.String())
	assert.Equal(t, "50270", got.NetSalary.String())
}

func TestPutSalaryConfig_Invalid(t *testing.T) {
	a := newTestAPI(t)
	a.employee("emp-1")

	rec := a.call(http.MethodPut, "/api/employees/emp-1/salary-config", map[string]any{"salary_type": "weekly"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "oneof", decodeAs[api.ErrorResponse](t, rec).Fields["salary_type"])

	rec = a.call(http.MethodPut, "/api/employees/emp-1/salary-config", map[string]any{"salary_type": "hourly", "hourly_rate": "-5"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// SHIFTS AND HOLIDAYS
// =============================================================================

func TestShifts_CreateStatsDelete(t *testing.T) {
	a := newTestAPI(t)
	a.employee("emp-1")

	rec := a.call(http.MethodPost, "/api/shifts", map[string]any{
		"employee_id": "emp-1", "date": "2025-03-11", "type": "morning",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeAs[api.ShiftDTO](t, rec)
	assert.Equal(t, "08:00", created.StartTime)
	assert.Equal(t, "16:00", created.EndTime)
	assert.Equal(t, "8", created.Hours.String())
	assert.Equal(t, "Employee emp-1", created.EmployeeName)

	rec = a.call(http.MethodPost, "/api/shifts", map[string]any{
		"employee_id": "emp-1", "date": "2025-03-12", "type": "custom",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.call(http.MethodGet, "/api/shifts/stats?month=2025-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeAs[api.ShiftStatsDTO](t, rec)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.ByType["morning"])

	rec = a.call(http.MethodDelete, "/api/shifts/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = a.call(http.MethodDelete, "/api/shifts/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHolidays_CreateListDelete(t *testing.T) {
	a := newTestAPI(t)

	rec := a.call(http.MethodPost, "/api/holidays", map[string]any{"date": "2025-10-10", "name": "National Day", "recurring": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeAs[api.HolidayDTO](t, rec)

	rec = a.call(http.MethodGet, "/api/holidays", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeAs[[]api.HolidayDTO](t, rec)
	require.Len(t, list, 1)
	assert.True(t, list[0].Recurring)

	rec = a.call(http.MethodDelete, "/api/holidays/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = a.call(http.MethodDelete, "/api/holidays/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
