package attendance_test

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
	"github.com/warp/attendance-engine/store/memory"
	"github.com/warp/attendance-engine/worktime"
)

var april = worktime.YearMonth{Year: 2025, Month: time.April}

func date(day int) time.Time {
	return time.Date(2025, time.April, day, 0, 0, 0, 0, time.UTC)
}

func clock(day, hour, minute int) *time.Time {
	t := time.Date(2025, time.April, day, hour, minute, 0, 0, time.UTC)
	return &t
}

func punched(day int, in, out *time.Time, status string) attendance.Day {
	return attendance.Day{Date: date(day), PunchIn: in, PunchOut: out, Status: status}
}

// =============================================================================
// DAY RULES
// =============================================================================

func TestDay_Abnormal(t *testing.T) {
	tests := []struct {
		name string
		day  attendance.Day
		want bool
	}{
		{"both punches normal", punched(7, clock(7, 9, 0), clock(7, 18, 0), attendance.StatusPunchNormal), false},
		{"repair approved", punched(7, clock(7, 9, 0), clock(7, 18, 0), attendance.StatusRepairApproved), false},
		{"repair pending", punched(7, clock(7, 9, 0), clock(7, 18, 0), attendance.StatusRepairPending), true},
		{"single punch with normal status", punched(7, clock(7, 9, 0), nil, attendance.StatusPunchNormal), true},
		{"no punches at all", punched(7, nil, nil, ""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.day.Abnormal())
		})
	}
}

func TestDay_PunchOvertime(t *testing.T) {
	cfg := worktime.DefaultConfig()

	late := punched(7, clock(7, 9, 0), clock(7, 19, 30), attendance.StatusPunchNormal)
	assert.Equal(t, "1.5", late.PunchOvertime(cfg).String())

	short := punched(7, clock(7, 9, 0), clock(7, 17, 0), attendance.StatusPunchNormal)
	assert.True(t, short.PunchOvertime(cfg).IsZero())

	reversed := punched(7, clock(7, 18, 0), clock(7, 9, 0), attendance.StatusPunchNormal)
	assert.True(t, reversed.PunchOvertime(cfg).IsZero())
}

func TestDay_ApplicationOvertime(t *testing.T) {
	d := attendance.Day{Date: date(7), Overtime: &attendance.OvertimeEntry{Hours: decimal.NewFromInt(2), Status: "Approved"}}
	assert.Equal(t, "2", d.ApplicationOvertime().String())

	d.Overtime.Status = ""
	assert.Equal(t, "2", d.ApplicationOvertime().String())

	d.Overtime.Status = "pending"
	assert.True(t, d.ApplicationOvertime().IsZero())
}

// =============================================================================
// MERGE
// =============================================================================

func TestMerge_LeaveOnStartDate(t *testing.T) {
	punches := []attendance.Day{
		punched(8, clock(8, 9, 0), clock(8, 18, 0), attendance.StatusPunchNormal),
		{Date: time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC), Status: attendance.StatusPunchNormal},
	}
	lv := []leave.Request{{
		Type: leave.TypeAnnual, Start: time.Date(2025, time.April, 10, 9, 0, 0, 0, time.UTC),
		End: time.Date(2025, time.April, 11, 18, 0, 0, 0, time.UTC), Days: decimal.NewFromInt(2), Status: leave.StatusApproved,
	}}

	days := attendance.Merge(april, punches, nil, lv)

	require.Len(t, days, 2)
	assert.Equal(t, date(8), days[0].Date)
	assert.True(t, days[0].Complete())
	assert.Nil(t, days[0].Overtime)

	assert.Equal(t, date(10), days[1].Date)
	require.NotNil(t, days[1].Leave)
	assert.Equal(t, "2", days[1].Leave.Days.String())
}

func TestMerge_OvertimePerDate(t *testing.T) {
	ot := func(hours int64, status overtime.Status, created int, start, end string) overtime.Request {
		return overtime.Request{
			Date: date(8), Hours: decimal.NewFromInt(hours), Status: status,
			StartTime: start, EndTime: end, CreatedAt: date(created),
		}
	}

	tests := []struct {
		name       string
		requests   []overtime.Request
		wantHours  string
		wantStatus string
		wantSpan   [2]string
		wantStats  string
	}{
		{
			name: "later pending keeps the approved hours",
			requests: []overtime.Request{
				ot(3, overtime.StatusApproved, 1, "18:00", "21:00"),
				ot(2, overtime.StatusPending, 2, "21:00", "23:00"),
			},
			wantHours: "3", wantStatus: "approved", wantSpan: [2]string{"18:00", "21:00"}, wantStats: "3",
		},
		{
			name: "later rejected keeps the approved hours",
			requests: []overtime.Request{
				ot(2, overtime.StatusRejected, 3, "19:00", "21:00"),
				ot(3, overtime.StatusApproved, 1, "18:00", "21:00"),
			},
			wantHours: "3", wantStatus: "approved", wantSpan: [2]string{"18:00", "21:00"}, wantStats: "3",
		},
		{
			name: "approved requests are summed",
			requests: []overtime.Request{
				ot(2, overtime.StatusApproved, 2, "21:00", "23:00"),
				ot(3, overtime.StatusApproved, 1, "18:00", "21:00"),
			},
			wantHours: "5", wantStatus: "approved", wantSpan: [2]string{"18:00", "23:00"}, wantStats: "5",
		},
		{
			name: "latest unapproved request is shown",
			requests: []overtime.Request{
				ot(1, overtime.StatusRejected, 1, "18:00", "19:00"),
				ot(2, overtime.StatusPending, 2, "18:00", "20:00"),
			},
			wantHours: "2", wantStatus: "pending", wantSpan: [2]string{"18:00", "20:00"}, wantStats: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := attendance.Merge(april, nil, tt.requests, nil)

			require.Len(t, days, 1)
			entry := days[0].Overtime
			require.NotNil(t, entry)
			assert.Equal(t, tt.wantHours, entry.Hours.String())
			assert.Equal(t, tt.wantStatus, entry.Status)
			assert.Equal(t, tt.wantSpan, [2]string{entry.StartTime, entry.EndTime})

			stats := attendance.Summarize(april, days, worktime.DefaultConfig())
			assert.Equal(t, tt.wantStats, stats.OvertimeHours.String())
		})
	}

	// The caller's slice keeps its order
	requests := []overtime.Request{ot(3, overtime.StatusApproved, 9, "", ""), ot(1, overtime.StatusApproved, 8, "", "")}
	attendance.Merge(april, nil, requests, nil)
	assert.Equal(t, date(9), requests[0].CreatedAt)
}

// =============================================================================
// MONTHLY STATISTICS
// =============================================================================

func TestService_MonthlyStats(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	save := func(d attendance.Day) { require.NoError(t, store.SaveAttendanceDay(ctx, "emp-1", d)) }

	// GIVEN: A month of mixed punch, overtime and leave records
	save(punched(7, clock(7, 9, 0), clock(7, 19, 30), attendance.StatusPunchNormal))
	save(punched(8, clock(8, 9, 0), clock(8, 18, 0), attendance.StatusPunchNormal))
	save(punched(9, clock(9, 9, 0), nil, attendance.StatusPunchOutMissing))
	save(punched(10, clock(10, 9, 0), clock(10, 18, 0), attendance.StatusRepairPending))
	require.NoError(t, store.SaveAttendanceDay(ctx, "emp-2", punched(7, clock(7, 9, 0), clock(7, 18, 0), "")))

	require.NoError(t, store.SaveOvertimeRequest(ctx, overtime.Request{
		ID: "ot-1", EmployeeID: "emp-1", Date: date(8), StartTime: "18:00", EndTime: "20:00",
		Hours: decimal.NewFromInt(2), Status: overtime.StatusApproved,
	}))
	require.NoError(t, store.SaveOvertimeRequest(ctx, overtime.Request{
		ID: "ot-2", EmployeeID: "emp-1", Date: date(15), StartTime: "18:00", EndTime: "21:00",
		Hours: decimal.NewFromInt(3), Status: overtime.StatusPending,
	}))
	require.NoError(t, store.SaveLeaveRequest(ctx, leave.Request{
		ID: "lv-1", EmployeeID: "emp-1", Type: leave.TypeAnnual,
		Start: *clock(11, 9, 0), End: *clock(11, 18, 0), Days: decimal.NewFromInt(1), Status: leave.StatusApproved,
	}))
	require.NoError(t, store.SaveLeaveRequest(ctx, leave.Request{
		ID: "lv-2", EmployeeID: "emp-1", Type: leave.TypeSick,
		Start: *clock(14, 9, 0), End: *clock(14, 13, 0), Days: decimal.RequireFromString("0.375"), Status: leave.StatusPending,
	}))

	// WHEN: Computing the monthly statistics
	st, err := attendance.NewService(store, worktime.DefaultConfig()).MonthlyStats(ctx, "emp-1", april)

	// THEN: Only complete days count as work days and only approved entries add up
	require.NoError(t, err)
	assert.Equal(t, 3, st.WorkDays)
	assert.Equal(t, 2, st.NormalDays)
	assert.Equal(t, 2, st.AbnormalDays)
	assert.Equal(t, "24", st.WorkHours.String())
	assert.Equal(t, "3.5", st.OvertimeHours.String())
	assert.Equal(t, "1", st.LeaveDays.String())
}

func TestSummarize_EmptyMonth(t *testing.T) {
	st := attendance.Summarize(april, nil, worktime.DefaultConfig())

	assert.Zero(t, st.WorkDays)
	assert.True(t, st.WorkHours.IsZero())
	assert.True(t, st.OvertimeHours.IsZero())
	assert.Equal(t, april, st.YearMonth)
}
