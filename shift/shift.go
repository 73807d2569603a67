// Package shift implements shift presets, shift records and monthly shift statistics.
package shift

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// SHIFT TYPES
// =============================================================================

type Type string

const (
	TypeMorning   Type = "morning"
	TypeAfternoon Type = "afternoon"
	TypeNight     Type = "night"
	TypeFullDay   Type = "full_day"
	TypeDayOff    Type = "day_off"
	TypeCustom    Type = "custom"
)

// Preset is the default clock window of a shift type.
type Preset struct {
	StartTime string
	EndTime   string
}

var presets = map[Type]Preset{
	TypeMorning:   {StartTime: "08:00", EndTime: "16:00"},
	TypeAfternoon: {StartTime: "12:00", EndTime: "20:00"},
	TypeNight:     {StartTime: "16:00", EndTime: "00:00"},
	TypeFullDay:   {StartTime: "09:00", EndTime: "18:00"},
	TypeDayOff:    {},
}

// AllTypes in display order.
var AllTypes = []Type{TypeMorning, TypeAfternoon, TypeNight, TypeFullDay, TypeDayOff, TypeCustom}

func (t Type) Valid() bool {
	_, ok := presets[t]
	return ok || t == TypeCustom
}

// PresetFor returns the default window for t. Custom shifts have none.
func PresetFor(t Type) (Preset, bool) {
	p, ok := presets[t]
	return p, ok
}

// Resolve returns the clock window for a shift. Explicit times override a
// preset; custom shifts require both. Day off has no window.
func Resolve(t Type, startTime, endTime string) (string, string, error) {
	if !t.Valid() {
		return "", "", fmt.Errorf("%w: unknown shift type %q", worktime.ErrInvalidInput, t)
	}
	if t == TypeDayOff {
		return "", "", nil
	}
	startTime, endTime = strings.TrimSpace(startTime), strings.TrimSpace(endTime)
	if p, ok := presets[t]; ok {
		if startTime == "" {
			startTime = p.StartTime
		}
		if endTime == "" {
			endTime = p.EndTime
		}
	}
	if startTime == "" || endTime == "" {
		return "", "", fmt.Errorf("%w: custom shift needs start and end time", worktime.ErrInvalidInput)
	}
	if _, err := worktime.ClockMinutes(startTime); err != nil {
		return "", "", err
	}
	if _, err := worktime.ClockMinutes(endTime); err != nil {
		return "", "", err
	}
	return startTime, endTime, nil
}

// =============================================================================
// SHIFT RECORD
// =============================================================================

type Shift struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Date         time.Time
	Type         Type
	StartTime    string
	EndTime      string
	Note         string
	CreatedAt    time.Time
}

// Hours is the scheduled span; a night shift ending at 00:00 crosses midnight.
func (s Shift) Hours() decimal.Decimal {
	if s.Type == TypeDayOff || s.StartTime == "" {
		return decimal.Zero
	}
	h, err := worktime.ClockSpan(s.StartTime, s.EndTime)
	if err != nil {
		return decimal.Zero
	}
	return h
}

// =============================================================================
// MONTHLY STATISTICS
// =============================================================================

type EmployeeCount struct {
	EmployeeID   string
	EmployeeName string
	Shifts       int
	Hours        decimal.Decimal
}

type MonthlyStats struct {
	YearMonth      worktime.YearMonth
	Total          int
	ByType         map[Type]int
	ByEmployee     []EmployeeCount
	ScheduledHours decimal.Decimal
}

// Summarize counts the shifts dated in ym. ByEmployee is sorted by shift
// count, highest first, then by employee id.
func Summarize(ym worktime.YearMonth, shifts []Shift) MonthlyStats {
	st := MonthlyStats{YearMonth: ym, ByType: make(map[Type]int), ScheduledHours: decimal.Zero}
	perEmp := make(map[string]*EmployeeCount)

	for _, s := range shifts {
		if !ym.Contains(s.Date) {
			continue
		}
		st.Total++
		st.ByType[s.Type]++
		h := s.Hours()
		st.ScheduledHours = st.ScheduledHours.Add(h)

		ec, ok := perEmp[s.EmployeeID]
		if !ok {
			ec = &EmployeeCount{EmployeeID: s.EmployeeID, EmployeeName: s.EmployeeName, Hours: decimal.Zero}
			perEmp[s.EmployeeID] = ec
		}
		ec.Shifts++
		ec.Hours = ec.Hours.Add(h)
	}

	for _, ec := range perEmp {
		st.ByEmployee = append(st.ByEmployee, *ec)
	}
	sort.Slice(st.ByEmployee, func(i, j int) bool {
		a, b := st.ByEmployee[i], st.ByEmployee[j]
		if a.Shifts != b.Shifts {
			return a.Shifts > b.Shifts
		}
		return a.EmployeeID < b.EmployeeID
	})
	return st
}
