package worktime

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RESULT
// =============================================================================

// Result is the outcome of a work-hour computation. It is derived, never stored.
type Result struct {
	Hours        decimal.Decimal
	InvalidRange bool
	SameDay      bool

	// Breakdown. For same-day spans only FirstDayHours is set.
	FirstDayHours decimal.Decimal
	FullDays      int
	FullDayHours  decimal.Decimal
	LastDayHours  decimal.Decimal
}

func invalidResult() Result {
	return Result{
		Hours:         decimal.Zero,
		InvalidRange:  true,
		FirstDayHours: decimal.Zero,
		FullDayHours:  decimal.Zero,
		LastDayHours:  decimal.Zero,
	}
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator computes net work hours inside the configured working-day window.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

func (c *Calculator) Config() Config { return c.cfg }

// Compute returns the work hours between start and end.
//
// Same calendar day: both ends are clipped to the window and the lunch
// overlap is subtracted once. Across days: the first day runs from
// max(start, window start) to window end, every day strictly between
// contributes DailyHours, and the last day runs from window start to
// min(max(end, window start), window end). Partial days floor at zero and
// the total is rounded half-up to 2 decimals.
func (c *Calculator) Compute(start, end time.Time) Result {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return invalidResult()
	}

	start = c.cfg.In(start)
	end = c.cfg.In(end).In(start.Location())

	days := DaysBetween(start, end)
	if days == 0 {
		h := HoursFromMinutes(c.sameDayMinutes(clockMinutes(start), clockMinutes(end)))
		return Result{
			Hours:         h,
			SameDay:       true,
			FirstDayHours: h,
			FullDayHours:  decimal.Zero,
			LastDayHours:  decimal.Zero,
		}
	}

	first := c.partialMinutes(max(clockMinutes(start), c.cfg.startMinute()), c.cfg.endMinute())
	last := c.partialMinutes(
		c.cfg.startMinute(),
		min(max(clockMinutes(end), c.cfg.startMinute()), c.cfg.endMinute()),
	)

	fullDays := days - 1
	fullHours := decimal.NewFromInt(int64(fullDays * c.cfg.DailyHours))
	total := decimal.NewFromInt(int64(first + last)).Div(sixty).Add(fullHours).Round(2)
	firstHours := HoursFromMinutes(first)

	// The last day takes the rounding remainder so the breakdown sums to Hours.
	return Result{
		Hours:         total,
		FirstDayHours: firstHours,
		FullDays:      fullDays,
		FullDayHours:  fullHours,
		LastDayHours:  total.Sub(firstHours).Sub(fullHours),
	}
}

// ComputeStrings parses both timestamps with ParseTimestamp and computes the
// work hours. Unparseable input is reported as an invalid range.
func (c *Calculator) ComputeStrings(start, end string) Result {
	s, err := ParseTimestamp(start, c.cfg.Location)
	if err != nil {
		return invalidResult()
	}
	e, err := ParseTimestamp(end, c.cfg.Location)
	if err != nil {
		return invalidResult()
	}
	return c.Compute(s, e)
}

func (c *Calculator) sameDayMinutes(start, end int) int {
	start = max(start, c.cfg.startMinute())
	end = min(end, c.cfg.endMinute())
	if start >= end {
		return 0
	}
	return c.partialMinutes(start, end)
}

// partialMinutes is end-start minus the lunch overlap, floored at zero.
func (c *Calculator) partialMinutes(start, end int) int {
	lunch := max(0, min(end, c.cfg.lunchEndMinute())-max(start, c.cfg.lunchStartMinute()))
	return max(0, end-start-lunch)
}

// =============================================================================
// CALENDAR HELPERS
// =============================================================================

// DaysBetween returns the number of calendar days from a's date to b's date,
// read in each value's own location.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool { return DaysBetween(a, b) == 0 }

// OnTheHour reports whether t has zero minutes and seconds.
func OnTheHour(t time.Time) bool { return t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 }

func clockMinutes(t time.Time) int { return t.Hour()*60 + t.Minute() }
