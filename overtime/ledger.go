package overtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// LIMIT CHECK - Pure monthly ceiling arithmetic
// =============================================================================

// LimitCheck is the phase-one answer to "may this request be submitted".
type LimitCheck struct {
	YearMonth    worktime.YearMonth
	CurrentHours decimal.Decimal
	NewHours     decimal.Decimal
	TotalAfter   decimal.Decimal
	Exceeded     decimal.Decimal
	Ceiling      decimal.Decimal
	WithinLimit  bool

	// Degraded is set when the record source failed and the check fell open.
	Degraded bool
}

// Err returns a *worktime.CeilingExceededError when the limit is exceeded.
func (c LimitCheck) Err() error {
	if c.WithinLimit {
		return nil
	}
	return &worktime.CeilingExceededError{
		YearMonth:    c.YearMonth,
		CurrentHours: c.CurrentHours,
		NewHours:     c.NewHours,
		TotalAfter:   c.TotalAfter,
		Exceeded:     c.Exceeded,
		Ceiling:      c.Ceiling,
	}
}

// ApprovedHours sums the hours of approved requests dated in ym.
func ApprovedHours(ym worktime.YearMonth, requests []Request) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range requests {
		if r.InMonth(ym) && r.Status.IsApproved() {
			sum = sum.Add(r.Hours)
		}
	}
	return sum
}

// CheckLimit tests approved hours of ym plus newHours against ceiling.
func CheckLimit(ym worktime.YearMonth, newHours decimal.Decimal, requests []Request, ceiling decimal.Decimal) LimitCheck {
	current := ApprovedHours(ym, requests)
	total := current.Add(newHours)
	return LimitCheck{
		YearMonth:    ym,
		CurrentHours: current,
		NewHours:     newHours,
		TotalAfter:   total,
		Exceeded:     worktime.MaxZero(total.Sub(ceiling)),
		Ceiling:      ceiling,
		WithinLimit:  total.LessThanOrEqual(ceiling),
	}
}

// ValidateCompensatory requires 0 <= hours <= check.Exceeded, and never more
// than the requested hours themselves. The requester may allocate less than
// the full excess.
func ValidateCompensatory(check LimitCheck, hours decimal.Decimal) error {
	if hours.IsNegative() {
		return fmt.Errorf("%w: %s is negative", worktime.ErrInvalidCompensatory, hours)
	}
	if hours.GreaterThan(check.Exceeded) {
		return fmt.Errorf("%w: %s is more than the %s hours over the ceiling",
			worktime.ErrInvalidCompensatory, hours, check.Exceeded)
	}
	if hours.GreaterThan(check.NewHours) {
		return fmt.Errorf("%w: %s is more than the %s hours requested",
			worktime.ErrInvalidCompensatory, hours, check.NewHours)
	}
	return nil
}

// =============================================================================
// MONTHLY SUMMARY
// =============================================================================

type MonthlySummary struct {
	EmployeeID        string
	YearMonth         worktime.YearMonth
	Ceiling           decimal.Decimal
	ApprovedHours     decimal.Decimal
	PendingHours      decimal.Decimal
	CompensatoryHours decimal.Decimal
	Remaining         decimal.Decimal
	Exceeded          decimal.Decimal
	ApprovedCount     int
	PendingCount      int
	RejectedCount     int
}

// Summarize builds the monthly view over the requests dated in ym.
func Summarize(employeeID string, ym worktime.YearMonth, requests []Request, ceiling decimal.Decimal) MonthlySummary {
	s := MonthlySummary{
		EmployeeID:        employeeID,
		YearMonth:         ym,
		Ceiling:           ceiling,
		ApprovedHours:     decimal.Zero,
		PendingHours:      decimal.Zero,
		CompensatoryHours: decimal.Zero,
	}
	for _, r := range requests {
		if !r.InMonth(ym) {
			continue
		}
		switch NormalizeStatus(string(r.Status)) {
		case StatusApproved:
			s.ApprovedCount++
			s.ApprovedHours = s.ApprovedHours.Add(r.Hours)
			s.CompensatoryHours = s.CompensatoryHours.Add(r.CompensatoryHours)
		case StatusPending:
			s.PendingCount++
			s.PendingHours = s.PendingHours.Add(r.Hours)
		case StatusRejected:
			s.RejectedCount++
		}
	}
	s.Remaining = worktime.MaxZero(ceiling.Sub(s.ApprovedHours))
	s.Exceeded = worktime.MaxZero(s.ApprovedHours.Sub(ceiling))
	return s
}

// =============================================================================
// LEDGER - View over the record source
// =============================================================================

// RecordSource lists an employee's overtime requests for a month.
type RecordSource interface {
	ListOvertimeRequests(ctx context.Context, employeeID string, ym worktime.YearMonth) ([]Request, error)
}

// Ledger re-reads the full request set on every call. Nothing is cached.
type Ledger struct {
	Source  RecordSource
	Ceiling decimal.Decimal
	Logger  *slog.Logger
}

func NewLedger(source RecordSource, cfg worktime.Config, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{Source: source, Ceiling: cfg.MonthlyOvertimeCeiling, Logger: logger}
}

// CheckLimit reads the month's requests and checks newHours against the
// ceiling. A read failure fails open: within limit, nothing current,
// nothing exceeded, Degraded set.
func (l *Ledger) CheckLimit(ctx context.Context, employeeID string, ym worktime.YearMonth, newHours decimal.Decimal) LimitCheck {
	requests, err := l.Source.ListOvertimeRequests(ctx, employeeID, ym)
	if err != nil {
		l.Logger.Warn("overtime ledger unavailable, allowing submission",
			"employee_id", employeeID, "month", ym.String(), "error", err)
		return LimitCheck{
			YearMonth:    ym,
			CurrentHours: decimal.Zero,
			NewHours:     newHours,
			TotalAfter:   newHours,
			Exceeded:     decimal.Zero,
			Ceiling:      l.Ceiling,
			WithinLimit:  true,
			Degraded:     true,
		}
	}
	return CheckLimit(ym, newHours, requests, l.Ceiling)
}

// Summary returns the monthly view. Read failures are returned.
func (l *Ledger) Summary(ctx context.Context, employeeID string, ym worktime.YearMonth) (MonthlySummary, error) {
	requests, err := l.Source.ListOvertimeRequests(ctx, employeeID, ym)
	if err != nil {
		return MonthlySummary{}, worktime.Unavailable("list overtime requests", err)
	}
	return Summarize(employeeID, ym, requests, l.Ceiling), nil
}
