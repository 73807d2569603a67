package worktime

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used by records and month matching.
const DateLayout = "2006-01-02"

// =============================================================================
// YEAR MONTH - Monthly ledger key
// =============================================================================

type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: month %q must be YYYY-MM", ErrInvalidInput, s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) YearMonth { return YearMonth{Year: t.Year(), Month: t.Month()} }

func (ym YearMonth) String() string { return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month)) }
func (ym YearMonth) IsZero() bool   { return ym.Year == 0 && ym.Month == 0 }

// Start is the first day of the month (UTC midnight).
func (ym YearMonth) Start() time.Time { return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC) }

// End is the first day of the following month, exclusive.
func (ym YearMonth) End() time.Time { return ym.Start().AddDate(0, 1, 0) }

// Days is the number of days in the month.
func (ym YearMonth) Days() int { return ym.End().AddDate(0, 0, -1).Day() }

// Contains matches the "YYYY-MM" prefix of the formatted date.
func (ym YearMonth) Contains(date time.Time) bool {
	return strings.HasPrefix(date.Format(DateLayout), ym.String())
}

func (ym YearMonth) MarshalText() ([]byte, error) { return []byte(ym.String()), nil }

func (ym *YearMonth) UnmarshalText(b []byte) error {
	parsed, err := ParseYearMonth(string(b))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// ParseDate parses a "YYYY-MM-DD" calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, s)
	}
	return t, nil
}
