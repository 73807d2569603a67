package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/leave"
	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/payroll"
	"github.com/warp/attendance-engine/shift"
	"github.com/warp/attendance-engine/store/sqlite"
	"github.com/warp/attendance-engine/worktime"
)

var april = worktime.YearMonth{Year: 2025, Month: time.April}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func date(month time.Month, day int) time.Time {
	return time.Date(2025, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// =============================================================================
// OVERTIME
// =============================================================================

func TestOvertimeRequests_RoundTripAndMonthFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, time.April, 7, 20, 0, 0, 0, time.UTC)

	req := overtime.Request{
		ID: "ot-1", EmployeeID: "emp-1", Date: date(time.April, 7), StartTime: "18:00", EndTime: "20:30",
		Hours: dec("2.5"), CompensatoryHours: dec("0.5"), Reason: "release", Status: overtime.StatusPending,
		CreatedAt: created, UpdatedAt: created,
	}
	require.NoError(t, store.SaveOvertimeRequest(ctx, req))
	require.NoError(t, store.SaveOvertimeRequest(ctx, overtime.Request{
		ID: "ot-2", EmployeeID: "emp-1", Date: date(time.May, 1), StartTime: "18:00", EndTime: "19:00",
		Hours: dec("1"), CompensatoryHours: decimal.Zero, Status: overtime.StatusPending,
		CreatedAt: created, UpdatedAt: created,
	}))

	got, err := store.GetOvertimeRequest(ctx, "ot-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2.5", got.Hours.String())
	assert.Equal(t, "0.5", got.CompensatoryHours.String())
	assert.Equal(t, date(time.April, 7), got.Date)
	assert.Nil(t, got.ReviewedAt)

	list, err := store.ListOvertimeRequests(ctx, "emp-1", april)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ot-1", list[0].ID)

	// Review updates in place
	reviewed := time.Date(2025, time.April, 8, 9, 0, 0, 0, time.UTC)
	got.Status = overtime.StatusApproved
	got.ReviewedBy = "mgr-1"
	got.ReviewedAt = &reviewed
	require.NoError(t, store.SaveOvertimeRequest(ctx, *got))

	again, err := store.GetOvertimeRequest(ctx, "ot-1")
	require.NoError(t, err)
	assert.Equal(t, overtime.StatusApproved, again.Status)
	require.NotNil(t, again.ReviewedAt)
	assert.True(t, reviewed.Equal(*again.ReviewedAt))

	pending, err := store.ListPendingOvertimeRequests(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ot-2", pending[0].ID)

	missing, err := store.GetOvertimeRequest(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOvertimeService_OnSQLite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := overtime.NewService(store, worktime.DefaultConfig(), nil)

	req, _, err := svc.Submit(ctx, overtime.SubmitInput{
		EmployeeID: "emp-1", Date: date(time.April, 7), StartTime: "18:00", EndTime: "22:00", Reason: "deploy",
	})
	require.NoError(t, err)
	_, err = svc.Review(ctx, req.ID, overtime.ReviewInput{Approve: true, Reviewer: "mgr"})
	require.NoError(t, err)

	check := svc.Ledger.CheckLimit(ctx, "emp-1", april, dec("43"))
	assert.False(t, check.WithinLimit)
	assert.Equal(t, "4", check.CurrentHours.String())
	assert.Equal(t, "1", check.Exceeded.String())
}

// =============================================================================
// LEAVE
// =============================================================================

func TestLeave_ReviewDeductsBalanceInTransaction(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetLeaveBalance(ctx, "emp-1", leave.TypeAnnual, dec("7")))

	svc := leave.NewService(store, store, worktime.DefaultConfig(), nil)
	req, val, err := svc.Submit(ctx, leave.SubmitInput{
		EmployeeID: "emp-1", Type: leave.TypeAnnual,
		Start:  time.Date(2025, time.April, 7, 9, 0, 0, 0, time.UTC),
		End:    time.Date(2025, time.April, 8, 18, 0, 0, 0, time.UTC),
		Reason: "trip",
	})
	require.NoError(t, err)
	assert.Empty(t, val.Warnings())

	listed, err := store.ListLeaveRequests(ctx, "emp-1", april)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "16", listed[0].Hours.String())

	_, err = svc.Review(ctx, req.ID, leave.ReviewInput{Approve: true, Reviewer: "mgr"})
	require.NoError(t, err)

	balances, err := store.LeaveBalances(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "5", balances[leave.TypeAnnual].String())

	stored, err := store.GetLeaveRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, stored.Status)
	assert.Equal(t, "mgr", stored.ReviewedBy)
}

func TestLeave_MonthFilterUsesLocalDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	tokyo := time.FixedZone("JST", 9*3600)
	start := time.Date(2025, time.May, 1, 9, 0, 0, 0, tokyo) // 2025-04-30T00:00Z

	require.NoError(t, store.SaveLeaveRequest(ctx, leave.Request{
		ID: "lv-1", EmployeeID: "emp-1", Type: leave.TypeSick, Start: start, End: start.Add(2 * time.Hour),
		Hours: dec("2"), Days: dec("0.25"), Status: leave.StatusPending,
	}))

	inApril, err := store.ListLeaveRequests(ctx, "emp-1", april)
	require.NoError(t, err)
	assert.Empty(t, inApril)

	inMay, err := store.ListLeaveRequests(ctx, "emp-1", worktime.YearMonth{Year: 2025, Month: time.May})
	require.NoError(t, err)
	assert.Len(t, inMay, 1)
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func TestAttendance_JoinsRequests(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	in := time.Date(2025, time.April, 7, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, time.April, 7, 18, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveAttendanceDay(ctx, "emp-1", attendance.Day{
		Date: date(time.April, 7), PunchIn: &in, PunchOut: &out, Status: attendance.StatusPunchNormal,
	}))
	// A day with only a punch-in
	require.NoError(t, store.SaveAttendanceDay(ctx, "emp-1", attendance.Day{
		Date: date(time.April, 8), PunchIn: &in, Status: attendance.StatusPunchOutMissing,
	}))
	require.NoError(t, store.SaveOvertimeRequest(ctx, overtime.Request{
		ID: "ot-1", EmployeeID: "emp-1", Date: date(time.April, 7), StartTime: "18:00", EndTime: "20:00",
		Hours: dec("2"), CompensatoryHours: decimal.Zero, Status: overtime.StatusApproved,
	}))

	days, err := store.ListAttendanceDays(ctx, "emp-1", april)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.True(t, days[0].Complete())
	require.NotNil(t, days[0].Overtime)
	assert.Equal(t, "2", days[0].Overtime.Hours.String())
	assert.True(t, days[1].Abnormal())

	st := attendance.Summarize(april, days, worktime.DefaultConfig())
	assert.Equal(t, 1, st.WorkDays)
	assert.Equal(t, "2", st.OvertimeHours.String())
}

// =============================================================================
// SHIFTS, SALARY, HOLIDAYS, EMPLOYEES, ALERTS
// =============================================================================

func TestShifts_CRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := shift.NewService(store)

	night, err := svc.Create(ctx, shift.CreateInput{EmployeeID: "emp-1", Date: date(time.April, 3), Type: shift.TypeNight})
	require.NoError(t, err)
	_, err = svc.Create(ctx, shift.CreateInput{EmployeeID: "emp-2", Date: date(time.April, 3), Type: shift.TypeDayOff})
	require.NoError(t, err)

	shifts, err := svc.List(ctx, april)
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, "00:00", shifts[0].EndTime)
	assert.Empty(t, shifts[1].StartTime)

	require.NoError(t, svc.Delete(ctx, night.ID))
	assert.ErrorIs(t, svc.Delete(ctx, night.ID), worktime.ErrRequestNotFound)
}

func TestSalaryConfig_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	missing, err := store.SalaryConfig(ctx, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	cfg := payroll.SalaryConfig{
		EmployeeID: "emp-1", Type: payroll.SalaryMonthly, BaseSalary: dec("42000.50"), HourlyRate: decimal.Zero,
		Allowances: payroll.Allowances{Meal: dec("2400"), Transport: dec("1000")},
		Deductions: payroll.Deductions{HealthInsurance: dec("710"), PensionSelf: dec("1260.3")},
		UpdatedAt:  time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveSalaryConfig(ctx, cfg))

	got, err := store.SalaryConfig(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, cfg.BaseSalary.Equal(got.BaseSalary))
	assert.True(t, dec("3400").Equal(got.Allowances.Total()))
	assert.True(t, dec("1970.3").Equal(got.Deductions.Total()))
	assert.Equal(t, payroll.SalaryMonthly, got.Type)
}

func TestHolidays_OneOffAndRecurring(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveHoliday(ctx, sqlite.Holiday{ID: "h-1", Date: date(time.April, 4), Name: "Children's Day"}))
	require.NoError(t, store.SaveHoliday(ctx, sqlite.Holiday{
		ID: "h-2", Date: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), Name: "New Year", Recurring: true,
	}))

	assert.True(t, store.IsHoliday(date(time.April, 4)))
	assert.False(t, store.IsHoliday(time.Date(2026, time.April, 4, 0, 0, 0, 0, time.UTC)))
	assert.True(t, store.IsHoliday(date(time.January, 1)))

	// The classifier reads holidays from the store
	c := overtime.NewClassifier(nil, store)
	assert.Equal(t, overtime.Holiday, c.DayType(date(time.April, 4)))

	holidays, err := store.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Len(t, holidays, 2)

	ok, err := store.DeleteHoliday(ctx, "h-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, store.IsHoliday(date(time.April, 4)))
}

func TestEmployees_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := sqlite.Employee{ID: "emp-1", Name: "Alice Chen", Email: "alice@example.com", HireDate: date(time.January, 6)}
	require.NoError(t, store.SaveEmployee(ctx, emp))
	emp.Department = "Engineering"
	require.NoError(t, store.SaveEmployee(ctx, emp))

	got, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Engineering", got.Department)
	assert.Equal(t, date(time.January, 6), got.HireDate)

	all, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	none, err := store.GetEmployee(ctx, "emp-9")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCeilingAlerts_OnePerMonth(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC)

	alert := sqlite.CeilingAlert{
		ID: "al-1", EmployeeID: "emp-1", YearMonth: april,
		ApprovedHours: dec("48"), Ceiling: dec("46"), Exceeded: dec("2"), CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.SaveCeilingAlert(ctx, alert))

	alert.ID = "al-2"
	alert.ApprovedHours = dec("50")
	alert.Exceeded = dec("4")
	require.NoError(t, store.SaveCeilingAlert(ctx, alert))

	alerts, err := store.ListCeilingAlerts(ctx, april)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "al-1", alerts[0].ID)
	assert.Equal(t, "4", alerts[0].Exceeded.String())

	all, err := store.ListCeilingAlerts(ctx, worktime.YearMonth{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, store.Reset(ctx))
	all, err = store.ListCeilingAlerts(ctx, worktime.YearMonth{})
	require.NoError(t, err)
	assert.Empty(t, all)
}
