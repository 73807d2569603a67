/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for the current month. Each scenario creates employees, salary
	configurations, leave balances, requests, punches and shifts that
	demonstrate specific features.

AVAILABLE SCENARIOS:

	near-ceiling:   44 of 46 approved overtime hours; the next request
	                needs a compensatory allocation
	leave-balances: balances with approved, pending and rejected leave
	mixed-month:    punches, abnormal days, rest-day and holiday overtime,
	                shifts and payroll for a monthly and an hourly worker

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create employees and salary configurations
 3. Write requests, punches and shifts straight to the store, dated in
    the current month of the configured location

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "near-ceiling"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler
  - store/sqlite: record store written by the loaders
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/leave"
	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/payroll"
	"github.com/warp/attendance-engine/shift"
	"github.com/warp/attendance-engine/store/sqlite"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "near-ceiling",
		Name:        "Near the Ceiling",
		Description: "Alice has 44 of 46 approved overtime hours this month",
		Category:    "overtime",
	},
	{
		ID:          "leave-balances",
		Name:        "Leave Balances",
		Description: "Balances with approved, pending and rejected leave requests",
		Category:    "leave",
	},
	{
		ID:          "mixed-month",
		Name:        "Mixed Month",
		Description: "Punches, abnormal days, rest-day and holiday overtime, shifts and payroll",
		Category:    "payroll",
	},
}

func (h *Handler) scenarioLoaders() map[string]func(context.Context, worktime.YearMonth) error {
	return map[string]func(context.Context, worktime.YearMonth) error{
		"near-ceiling":   h.loadNearCeilingScenario,
		"leave-balances": h.loadLeaveBalancesScenario,
		"mixed-month":    h.loadMixedMonthScenario,
	}
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the database and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	load, ok := h.scenarioLoaders()[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	ym := worktime.MonthOf(h.Rules.In(h.Clock()))
	if err := load(ctx, ym); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	h.currentScenario = req.ScenarioID

	h.Logger.Info("scenario loaded", "scenario", req.ScenarioID, "month", ym.String())
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "loaded",
		"scenario": req.ScenarioID,
		"month":    ym.String(),
	})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadNearCeilingScenario(ctx context.Context, ym worktime.YearMonth) error {
	s := h.seeder(ctx, ym)

	s.employee("emp-alice", "Alice Chen", "Engineering")
	s.employee("emp-bob", "Bob Lin", "Engineering")
	s.monthlySalary("emp-alice", "48000")
	s.hourlySalary("emp-bob", "190")
	s.balance("emp-alice", leave.TypeAnnual, "7")
	s.balance("emp-bob", leave.TypeAnnual, "7")

	// 11 x 4h approved = 44h, two short of the ceiling
	days := weekdays(ym, 12)
	for i, d := range days[:11] {
		s.overtime(fmt.Sprintf("ot-alice-%02d", i+1), "emp-alice", d, "18:00", "22:00", overtime.StatusApproved, "0")
	}
	s.overtime("ot-alice-12", "emp-alice", days[11], "18:00", "20:00", overtime.StatusPending, "0")

	for i, d := range days[:5] {
		s.overtime(fmt.Sprintf("ot-bob-%02d", i+1), "emp-bob", d, "18:00", "20:00", overtime.StatusApproved, "0")
	}
	return s.err
}

func (h *Handler) loadLeaveBalancesScenario(ctx context.Context, ym worktime.YearMonth) error {
	s := h.seeder(ctx, ym)

	s.employee("emp-carol", "Carol Wu", "Finance")
	s.monthlySalary("emp-carol", "45000")
	s.balance("emp-carol", leave.TypeAnnual, "9")
	s.balance("emp-carol", leave.TypeSick, "5")
	s.balance("emp-carol", leave.TypePersonal, "3")
	s.balance("emp-carol", leave.TypeCompTimeOff, "2")

	days := weekdays(ym, 8)
	s.leave("lv-carol-1", "emp-carol", leave.TypeAnnual, days[2], 9, days[2], 18, leave.StatusApproved, "Family trip")
	s.leave("lv-carol-2", "emp-carol", leave.TypeSick, days[5], 13, days[5], 17, leave.StatusPending, "Dentist")
	s.leave("lv-carol-3", "emp-carol", leave.TypePersonal, days[7], 9, days[7], 18, leave.StatusRejected, "Moving house")
	return s.err
}

func (h *Handler) loadMixedMonthScenario(ctx context.Context, ym worktime.YearMonth) error {
	s := h.seeder(ctx, ym)

	s.employee("emp-dave", "Dave Huang", "Operations")
	s.employee("emp-erin", "Erin Tsai", "Operations")
	s.monthlySalary("emp-dave", "52000")
	s.hourlySalary("emp-erin", "190")
	s.balance("emp-dave", leave.TypeAnnual, "10")
	s.balance("emp-erin", leave.TypeAnnual, "3")

	days := weekdays(ym, 13)
	for i, d := range days[:10] {
		switch i {
		case 3:
			s.punch("emp-dave", d, 9, 0, 20, 30, "")
		case 6:
			s.punchInOnly("emp-dave", d, 9, 0, "STATUS_PUNCH_OUT_MISSING")
		default:
			s.punch("emp-dave", d, 9, 0, 18, 0, "")
		}
	}
	for _, d := range days[:5] {
		s.punch("emp-erin", d, 9, 0, 18, 0, "")
	}

	saturday := firstWeekday(ym, time.Saturday)
	s.overtime("ot-dave-1", "emp-dave", days[3], "18:00", "20:30", overtime.StatusApproved, "0")
	s.overtime("ot-dave-2", "emp-dave", saturday, "10:00", "14:00", overtime.StatusApproved, "0")
	s.holiday("hol-founders", days[12], "Founders' Day")
	s.overtime("ot-dave-3", "emp-dave", days[12], "09:00", "12:00", overtime.StatusApproved, "1")
	s.overtime("ot-erin-1", "emp-erin", days[1], "18:00", "21:00", overtime.StatusPending, "0")

	s.leave("lv-dave-1", "emp-dave", leave.TypeAnnual, days[8], 9, days[8], 18, leave.StatusApproved, "Errands")

	shifts := []shift.Type{shift.TypeMorning, shift.TypeAfternoon, shift.TypeNight, shift.TypeFullDay, shift.TypeDayOff}
	for i, d := range days[:10] {
		s.shift(fmt.Sprintf("sh-dave-%02d", i+1), "emp-dave", "Dave Huang", d, shift.TypeFullDay)
		s.shift(fmt.Sprintf("sh-erin-%02d", i+1), "emp-erin", "Erin Tsai", d, shifts[i%len(shifts)])
	}
	return s.err
}

// =============================================================================
// SEEDING HELPERS
// =============================================================================

// seeder writes scenario records and keeps the first error.
type seeder struct {
	ctx   context.Context
	store *sqlite.Store
	calc  *worktime.Calculator
	rules worktime.Config
	loc   *time.Location
	now   time.Time
	err   error
}

func (h *Handler) seeder(ctx context.Context, ym worktime.YearMonth) *seeder {
	loc := h.Rules.Location
	if loc == nil {
		loc = time.UTC
	}
	return &seeder{ctx: ctx, store: h.Store, calc: h.Calculator, rules: h.Rules, loc: loc, now: ym.Start()}
}

// tick returns strictly increasing creation times so "latest wins" joins
// stay deterministic.
func (s *seeder) tick() time.Time {
	s.now = s.now.Add(time.Minute)
	return s.now
}

func (s *seeder) do(what string, f func() error) {
	if s.err != nil {
		return
	}
	if err := f(); err != nil {
		s.err = fmt.Errorf("%s: %w", what, err)
	}
}

func (s *seeder) employee(id, name, department string) {
	s.do("save employee "+id, func() error {
		return s.store.SaveEmployee(s.ctx, sqlite.Employee{
			ID:         id,
			Name:       name,
			Email:      id[len("emp-"):] + "@example.com",
			Department: department,
			HireDate:   time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC),
		})
	})
}

func (s *seeder) monthlySalary(employeeID, base string) {
	s.do("save salary "+employeeID, func() error {
		return s.store.SaveSalaryConfig(s.ctx, payroll.SalaryConfig{
			EmployeeID: employeeID,
			Type:       payroll.SalaryMonthly,
			BaseSalary: decimal.RequireFromString(base),
			Allowances: payroll.Allowances{Meal: decimal.NewFromInt(2400), Transport: decimal.NewFromInt(1000)},
			Deductions: payroll.Deductions{
				LaborInsurance:  decimal.NewFromInt(1100),
				HealthInsurance: decimal.NewFromInt(750),
			},
			UpdatedAt: s.tick(),
		})
	})
}

func (s *seeder) hourlySalary(employeeID, rate string) {
	s.do("save salary "+employeeID, func() error {
		return s.store.SaveSalaryConfig(s.ctx, payroll.SalaryConfig{
			EmployeeID: employeeID,
			Type:       payroll.SalaryHourly,
			HourlyRate: decimal.RequireFromString(rate),
			Deductions: payroll.Deductions{LaborInsurance: decimal.NewFromInt(600)},
			UpdatedAt:  s.tick(),
		})
	})
}

func (s *seeder) balance(employeeID string, t leave.Type, days string) {
	s.do("set balance "+employeeID, func() error {
		return s.store.SetLeaveBalance(s.ctx, employeeID, t, decimal.RequireFromString(days))
	})
}

func (s *seeder) overtime(id, employeeID string, date time.Time, start, end string, status overtime.Status, comp string) {
	s.do("save overtime "+id, func() error {
		hours, err := worktime.ClockSpan(start, end)
		if err != nil {
			return err
		}
		created := s.tick()
		r := overtime.Request{
			ID:                id,
			EmployeeID:        employeeID,
			Date:              date,
			StartTime:         start,
			EndTime:           end,
			Hours:             hours,
			CompensatoryHours: decimal.RequireFromString(comp),
			Reason:            "Release support",
			Status:            status,
			CreatedAt:         created,
			UpdatedAt:         created,
		}
		if status != overtime.StatusPending {
			r.ReviewedBy = "manager"
			r.ReviewedAt = &created
		}
		return s.store.SaveOvertimeRequest(s.ctx, r)
	})
}

func (s *seeder) leave(id, employeeID string, t leave.Type, startDay time.Time, startHour int, endDay time.Time, endHour int, status leave.Status, reason string) {
	s.do("save leave "+id, func() error {
		start := s.at(startDay, startHour, 0)
		end := s.at(endDay, endHour, 0)
		res := s.calc.Compute(start, end)
		created := s.tick()
		r := leave.Request{
			ID:         id,
			EmployeeID: employeeID,
			Type:       t,
			Start:      start,
			End:        end,
			Hours:      res.Hours,
			Days:       res.Hours.Div(s.rules.DailyHoursDecimal()),
			Reason:     reason,
			Status:     status,
			CreatedAt:  created,
			UpdatedAt:  created,
		}
		if status != leave.StatusPending {
			r.ReviewedBy = "manager"
			r.ReviewedAt = &created
		}
		return s.store.SaveLeaveRequest(s.ctx, r)
	})
}

func (s *seeder) punch(employeeID string, date time.Time, inH, inM, outH, outM int, status string) {
	in, out := s.at(date, inH, inM), s.at(date, outH, outM)
	s.do("save attendance "+employeeID, func() error {
		return s.store.SaveAttendanceDay(s.ctx, employeeID, attendance.Day{Date: date, PunchIn: &in, PunchOut: &out, Status: status})
	})
}

func (s *seeder) punchInOnly(employeeID string, date time.Time, inH, inM int, status string) {
	in := s.at(date, inH, inM)
	s.do("save attendance "+employeeID, func() error {
		return s.store.SaveAttendanceDay(s.ctx, employeeID, attendance.Day{Date: date, PunchIn: &in, Status: status})
	})
}

func (s *seeder) holiday(id string, date time.Time, name string) {
	s.do("save holiday "+id, func() error {
		return s.store.SaveHoliday(s.ctx, sqlite.Holiday{ID: id, Date: date, Name: name})
	})
}

func (s *seeder) shift(id, employeeID, name string, date time.Time, t shift.Type) {
	s.do("save shift "+id, func() error {
		start, end, err := shift.Resolve(t, "", "")
		if err != nil {
			return err
		}
		return s.store.SaveShift(s.ctx, shift.Shift{
			ID:           id,
			EmployeeID:   employeeID,
			EmployeeName: name,
			Date:         date,
			Type:         t,
			StartTime:    start,
			EndTime:      end,
			CreatedAt:    s.tick(),
		})
	})
}

func (s *seeder) at(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, s.loc)
}

// weekdays returns the first n Monday-to-Friday dates of ym. Every month
// has at least 20.
func weekdays(ym worktime.YearMonth, n int) []time.Time {
	var out []time.Time
	for d := ym.Start(); d.Before(ym.End()) && len(out) < n; d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			out = append(out, d)
		}
	}
	return out
}

func firstWeekday(ym worktime.YearMonth, wd time.Weekday) time.Time {
	d := ym.Start()
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
