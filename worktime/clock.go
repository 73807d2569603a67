package worktime

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TIMESTAMP PARSING
// =============================================================================

// Layouts accepted for wall-clock timestamps without a zone.
var timestampLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an RFC3339 timestamp or a zone-less wall-clock
// timestamp. Zone-less input is read in loc (UTC when nil).
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrInvalidRange)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse timestamp %q", ErrInvalidRange, s)
}

// =============================================================================
// CLOCK SPANS - Overtime "HH:MM" inputs
// =============================================================================

// ClockMinutes parses "HH:MM" into minutes since midnight.
func ClockMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ClockSpan returns the hours from start to end, both "HH:MM". An end
// earlier than start is read as crossing midnight. The result is rounded
// to 1 decimal; equal clocks give zero.
func ClockSpan(start, end string) (decimal.Decimal, error) {
	s, err := ClockMinutes(start)
	if err != nil {
		return decimal.Zero, err
	}
	e, err := ClockMinutes(end)
	if err != nil {
		return decimal.Zero, err
	}
	minutes := e - s
	if minutes < 0 {
		minutes += 24 * 60
	}
	return decimal.NewFromInt(int64(minutes)).Div(sixty).Round(1), nil
}
