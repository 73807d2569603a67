/*
Package worktime provides the work-hour calculation engine.

PURPOSE:
  Pure calculations that turn timestamps into billable work hours against a
  configured working-day window. Leave validation, overtime tiers, the
  monthly overtime ledger and payroll all build on this package.

KEY CONCEPTS:
  - Config:     working-day window, lunch break, daily hours and the monthly
                overtime ceiling, passed explicitly to every calculator
  - Calculator: net work hours between two timestamps (calculator.go)
  - ClockSpan:  overtime duration between two HH:MM clock times (clock.go)
  - YearMonth:  month key used by the monthly ledger (yearmonth.go)

DESIGN PRINCIPLES:
  1. No package state: every calculator is built from a Config value
  2. Precision: spans are counted in whole minutes, hours are decimal.Decimal
  3. Invalid input yields a zero result with a flag, never a panic

USAGE:
  calc := worktime.NewCalculator(worktime.DefaultConfig())
  res := calc.Compute(start, end)
  if res.InvalidRange {
      // show "0 hours"
  }

SEE ALSO:
  - leave/validator.go: whole-hour leave rules on top of Calculator
  - overtime/classifier.go: tiered overtime on top of ClockSpan
  - factory/rules.go: builds a Config from a JSON rules document
*/
package worktime

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONFIG - Working-day window and monthly ceiling
// =============================================================================

// Config is the immutable rule set shared by every calculator.
// Hours are wall-clock hours of the day (0-24).
type Config struct {
	StartHour      int
	EndHour        int
	LunchStartHour int
	LunchEndHour   int
	DailyHours     int

	// MonthlyOvertimeCeiling is the statutory cap on approved overtime per
	// employee per month.
	MonthlyOvertimeCeiling decimal.Decimal

	// Location, when set, converts timestamps before calendar dates and
	// clock times are read. Nil keeps each timestamp's own location.
	Location *time.Location
}

// DefaultConfig returns the 09:00-18:00 window with a 12:00-13:00 lunch,
// 8 hours per day and a 46 hour monthly overtime ceiling.
func DefaultConfig() Config {
	return Config{
		StartHour:              9,
		EndHour:                18,
		LunchStartHour:         12,
		LunchEndHour:           13,
		DailyHours:             8,
		MonthlyOvertimeCeiling: decimal.NewFromInt(46),
	}
}

// Validate checks that the window is well formed.
func (c Config) Validate() error {
	switch {
	case c.StartHour < 0 || c.EndHour > 24 || c.StartHour >= c.EndHour:
		return fmt.Errorf("%w: work window %02d:00-%02d:00", ErrInvalidConfig, c.StartHour, c.EndHour)
	case c.LunchStartHour >= c.LunchEndHour:
		return fmt.Errorf("%w: lunch %02d:00-%02d:00", ErrInvalidConfig, c.LunchStartHour, c.LunchEndHour)
	case c.LunchStartHour < c.StartHour || c.LunchEndHour > c.EndHour:
		return fmt.Errorf("%w: lunch outside work window", ErrInvalidConfig)
	case c.DailyHours <= 0:
		return fmt.Errorf("%w: daily hours must be positive", ErrInvalidConfig)
	case c.MonthlyOvertimeCeiling.IsNegative():
		return fmt.Errorf("%w: negative overtime ceiling", ErrInvalidConfig)
	}
	return nil
}

// DailyHoursDecimal returns DailyHours as a decimal, used for hours-to-days conversion.
func (c Config) DailyHoursDecimal() decimal.Decimal { return decimal.NewFromInt(int64(c.DailyHours)) }

// LunchMinutes is the length of the lunch break.
func (c Config) LunchMinutes() int { return (c.LunchEndHour - c.LunchStartHour) * 60 }

func (c Config) startMinute() int      { return c.StartHour * 60 }
func (c Config) endMinute() int        { return c.EndHour * 60 }
func (c Config) lunchStartMinute() int { return c.LunchStartHour * 60 }
func (c Config) lunchEndMinute() int   { return c.LunchEndHour * 60 }

// In converts t to the configured location, if any.
func (c Config) In(t time.Time) time.Time {
	if c.Location == nil {
		return t
	}
	return t.In(c.Location)
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

var sixty = decimal.NewFromInt(60)

// HoursFromMinutes converts whole minutes to hours rounded half-up to 2 places.
func HoursFromMinutes(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(sixty).Round(2)
}

// MaxZero floors d at zero.
func MaxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// MustParseDecimal parses s, returning zero on malformed input.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
