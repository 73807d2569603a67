// Package memory provides an in-memory record store for tests and local runs.
// It implements the same collaborator interfaces as store/sqlite.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/leave"
	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/payroll"
	"github.com/warp/attendance-engine/shift"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	overtime map[string]overtime.Request
	leave    map[string]leave.Request
	balances map[string]leave.Balances
	punches  map[dayKey]attendance.Day
	shifts   map[string]shift.Shift
	salaries map[string]payroll.SalaryConfig
	holidays map[string]bool
}

type dayKey struct {
	EmployeeID string
	Date       string
}

func New() *Memory {
	return &Memory{
		overtime: make(map[string]overtime.Request),
		leave:    make(map[string]leave.Request),
		balances: make(map[string]leave.Balances),
		punches:  make(map[dayKey]attendance.Day),
		shifts:   make(map[string]shift.Shift),
		salaries: make(map[string]payroll.SalaryConfig),
		holidays: make(map[string]bool),
	}
}

// Compile-time checks
var (
	_ overtime.Store           = (*Memory)(nil)
	_ leave.Store              = (*Memory)(nil)
	_ leave.BalanceStore       = (*Memory)(nil)
	_ attendance.Source        = (*Memory)(nil)
	_ shift.Store              = (*Memory)(nil)
	_ payroll.ConfigSource     = (*Memory)(nil)
	_ overtime.HolidayCalendar = (*Memory)(nil)
)

// =============================================================================
// OVERTIME
// =============================================================================

func (m *Memory) SaveOvertimeRequest(_ context.Context, r overtime.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overtime[r.ID] = r
	return nil
}

func (m *Memory) GetOvertimeRequest(_ context.Context, id string) (*overtime.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.overtime[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Memory) ListOvertimeRequests(_ context.Context, employeeID string, ym worktime.YearMonth) ([]overtime.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.overtimeLocked(employeeID, ym), nil
}

func (m *Memory) overtimeLocked(employeeID string, ym worktime.YearMonth) []overtime.Request {
	var out []overtime.Request
	for _, r := range m.overtime {
		if r.EmployeeID == employeeID && r.InMonth(ym) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// =============================================================================
// LEAVE
// =============================================================================

func (m *Memory) SaveLeaveRequest(_ context.Context, r leave.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leave[r.ID] = r
	return nil
}

func (m *Memory) GetLeaveRequest(_ context.Context, id string) (*leave.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.leave[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Memory) ListLeaveRequests(_ context.Context, employeeID string, ym worktime.YearMonth) ([]leave.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.leaveLocked(employeeID, ym), nil
}

func (m *Memory) leaveLocked(employeeID string, ym worktime.YearMonth) []leave.Request {
	var out []leave.Request
	for _, r := range m.leave {
		if r.EmployeeID == employeeID && ym.Contains(r.Start) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func (m *Memory) ReviewLeaveRequest(_ context.Context, r leave.Request, balanceDelta decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leave[r.ID] = r
	if !balanceDelta.IsZero() {
		b := m.balancesLocked(r.EmployeeID)
		b[r.Type] = b[r.Type].Add(balanceDelta)
	}
	return nil
}

func (m *Memory) LeaveBalances(_ context.Context, employeeID string) (leave.Balances, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(leave.Balances, len(m.balances[employeeID]))
	for t, d := range m.balances[employeeID] {
		out[t] = d
	}
	return out, nil
}

// SetLeaveBalance sets the remaining days of one leave type.
func (m *Memory) SetLeaveBalance(_ context.Context, employeeID string, t leave.Type, days decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balancesLocked(employeeID)[t] = days
	return nil
}

func (m *Memory) balancesLocked(employeeID string) leave.Balances {
	b, ok := m.balances[employeeID]
	if !ok {
		b = make(leave.Balances)
		m.balances[employeeID] = b
	}
	return b
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// SaveAttendanceDay upserts the punch record of one day.
func (m *Memory) SaveAttendanceDay(_ context.Context, employeeID string, d attendance.Day) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.punches[dayKey{EmployeeID: employeeID, Date: d.Date.Format(worktime.DateLayout)}] = attendance.Day{
		Date: d.Date, PunchIn: d.PunchIn, PunchOut: d.PunchOut, Status: d.Status,
	}
	return nil
}

func (m *Memory) ListAttendanceDays(_ context.Context, employeeID string, ym worktime.YearMonth) ([]attendance.Day, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var punches []attendance.Day
	for k, d := range m.punches {
		if k.EmployeeID == employeeID {
			punches = append(punches, d)
		}
	}
	return attendance.Merge(ym, punches, m.overtimeLocked(employeeID, ym), m.leaveLocked(employeeID, ym)), nil
}

// =============================================================================
// SHIFTS, SALARY, HOLIDAYS
// =============================================================================

func (m *Memory) SaveShift(_ context.Context, s shift.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[s.ID] = s
	return nil
}

func (m *Memory) ListShifts(_ context.Context, ym worktime.YearMonth) ([]shift.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []shift.Shift
	for _, s := range m.shifts {
		if ym.Contains(s.Date) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

func (m *Memory) DeleteShift(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.shifts[id]
	delete(m.shifts, id)
	return ok, nil
}

func (m *Memory) SaveSalaryConfig(_ context.Context, c payroll.SalaryConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.salaries[c.EmployeeID] = c
	return nil
}

func (m *Memory) SalaryConfig(_ context.Context, employeeID string) (*payroll.SalaryConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.salaries[employeeID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// AddHoliday marks a calendar date as a holiday.
func (m *Memory) AddHoliday(date time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[date.Format(worktime.DateLayout)] = true
}

func (m *Memory) IsHoliday(date time.Time) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.holidays[date.Format(worktime.DateLayout)]
}
