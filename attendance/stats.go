// Package attendance derives monthly attendance statistics from daily punch
// records and their overtime and leave sub-records.
package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/worktime"
)

// Punch status codes recorded by the attendance system.
const (
	StatusPunchNormal     = "STATUS_PUNCH_NORMAL"
	StatusRepairApproved  = "STATUS_REPAIR_APPROVED"
	StatusPunchInMissing  = "STATUS_PUNCH_IN_MISSING"
	StatusPunchOutMissing = "STATUS_PUNCH_OUT_MISSING"
	StatusRepairPending   = "STATUS_REPAIR_PENDING"
	StatusRepairRejected  = "STATUS_REPAIR_REJECTED"
)

var abnormalStatuses = map[string]bool{
	StatusPunchInMissing:  true,
	StatusPunchOutMissing: true,
	StatusRepairPending:   true,
	StatusRepairRejected:  true,
}

// =============================================================================
// DAY RECORD
// =============================================================================

type OvertimeEntry struct {
	Hours     decimal.Decimal
	StartTime string
	EndTime   string
	Reason    string
	Status    string
}

type LeaveEntry struct {
	Type          string
	Days          decimal.Decimal
	Status        string
	Reason        string
	ReviewComment string
}

// Day is one calendar day of an employee's attendance.
type Day struct {
	Date     time.Time
	PunchIn  *time.Time
	PunchOut *time.Time
	Status   string
	Overtime *OvertimeEntry
	Leave    *LeaveEntry
}

// Complete reports whether both punches are present.
func (d Day) Complete() bool { return d.PunchIn != nil && d.PunchOut != nil }

// Abnormal reports an abnormal status code, or a day with exactly one punch.
func (d Day) Abnormal() bool {
	if abnormalStatuses[d.Status] {
		return true
	}
	return (d.PunchIn == nil) != (d.PunchOut == nil)
}

// PunchOvertime is the time between the punches beyond the lunch break and
// the daily hours, floored at zero.
func (d Day) PunchOvertime(cfg worktime.Config) decimal.Decimal {
	if !d.Complete() || !d.PunchOut.After(*d.PunchIn) {
		return decimal.Zero
	}
	minutes := int(d.PunchOut.Sub(*d.PunchIn).Minutes())
	extra := minutes - cfg.LunchMinutes() - cfg.DailyHours*60
	return worktime.HoursFromMinutes(max(0, extra))
}

// ApplicationOvertime counts the overtime sub-record when it is approved,
// or when it carries hours but no status yet.
func (d Day) ApplicationOvertime() decimal.Decimal {
	ot := d.Overtime
	if ot == nil || !ot.Hours.IsPositive() {
		return decimal.Zero
	}
	status := overtime.NormalizeStatus(ot.Status)
	if status == overtime.StatusApproved || status == "" {
		return ot.Hours
	}
	return decimal.Zero
}

// =============================================================================
// MONTHLY STATISTICS
// =============================================================================

type MonthlyStats struct {
	YearMonth     worktime.YearMonth
	WorkDays      int
	NormalDays    int
	AbnormalDays  int
	WorkHours     decimal.Decimal
	OvertimeHours decimal.Decimal
	LeaveDays     decimal.Decimal
}

// Summarize aggregates the days dated in ym. A day's overtime is the larger
// of its punch overtime and its application overtime.
func Summarize(ym worktime.YearMonth, days []Day, cfg worktime.Config) MonthlyStats {
	calc := worktime.NewCalculator(cfg)
	st := MonthlyStats{
		YearMonth:     ym,
		WorkHours:     decimal.Zero,
		OvertimeHours: decimal.Zero,
		LeaveDays:     decimal.Zero,
	}

	for _, d := range days {
		if !ym.Contains(d.Date) {
			continue
		}
		if d.Complete() {
			st.WorkDays++
			st.WorkHours = st.WorkHours.Add(calc.Compute(*d.PunchIn, *d.PunchOut).Hours)
		}
		switch {
		case d.Abnormal():
			st.AbnormalDays++
		case d.Complete():
			st.NormalDays++
		}
		st.OvertimeHours = st.OvertimeHours.Add(decimal.Max(d.PunchOvertime(cfg), d.ApplicationOvertime()))
		if d.Leave != nil && overtime.NormalizeStatus(d.Leave.Status) == overtime.StatusApproved {
			st.LeaveDays = st.LeaveDays.Add(d.Leave.Days)
		}
	}
	return st
}

// =============================================================================
// SERVICE
// =============================================================================

// Source lists an employee's attendance days for a month.
type Source interface {
	ListAttendanceDays(ctx context.Context, employeeID string, ym worktime.YearMonth) ([]Day, error)
}

type Service struct {
	Source Source
	Config worktime.Config
}

func NewService(source Source, cfg worktime.Config) *Service {
	return &Service{Source: source, Config: cfg}
}

func (s *Service) MonthlyStats(ctx context.Context, employeeID string, ym worktime.YearMonth) (MonthlyStats, error) {
	days, err := s.Source.ListAttendanceDays(ctx, employeeID, ym)
	if err != nil {
		return MonthlyStats{}, worktime.Unavailable("list attendance days", err)
	}
	return Summarize(ym, days, s.Config), nil
}
