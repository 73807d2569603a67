package overtime

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// TIERS
// =============================================================================

// Tier is one band of a day type's overtime. Hours is the band width; the
// last band of a day type is unbounded and its Hours is ignored.
type Tier struct {
	Hours      decimal.Decimal
	Multiplier decimal.Decimal
}

// TierTable holds the ordered bands for each day type.
type TierTable map[DayType][]Tier

// DefaultTiers: weekday 2h x1.34 then x1.67; rest day 2h x1.34, 6h x1.67,
// then x2.67; holiday flat x2.0.
func DefaultTiers() TierTable {
	d := decimal.RequireFromString
	return TierTable{
		Weekday: {
			{Hours: d("2"), Multiplier: d("1.34")},
			{Multiplier: d("1.67")},
		},
		RestDay: {
			{Hours: d("2"), Multiplier: d("1.34")},
			{Hours: d("6"), Multiplier: d("1.67")},
			{Multiplier: d("2.67")},
		},
		Holiday: {
			{Multiplier: d("2")},
		},
	}
}

func (t TierTable) Validate() error {
	for _, dt := range []DayType{Weekday, RestDay, Holiday} {
		tiers := t[dt]
		if len(tiers) == 0 {
			return fmt.Errorf("%w: no overtime tiers for %s", worktime.ErrInvalidConfig, dt)
		}
		for i, tier := range tiers {
			if !tier.Multiplier.IsPositive() {
				return fmt.Errorf("%w: %s tier %d multiplier must be positive", worktime.ErrInvalidConfig, dt, i+1)
			}
			if i < len(tiers)-1 && !tier.Hours.IsPositive() {
				return fmt.Errorf("%w: %s tier %d needs a positive band width", worktime.ErrInvalidConfig, dt, i+1)
			}
		}
	}
	return nil
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

type TierHours struct {
	Hours      decimal.Decimal
	Multiplier decimal.Decimal
}

type Classification struct {
	Date      time.Time
	StartTime string
	EndTime   string
	DayType   DayType
	Hours     decimal.Decimal
	Tiers     []TierHours
}

// WeightedHours is the sum of tier hours times tier multiplier.
func (c Classification) WeightedHours() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range c.Tiers {
		sum = sum.Add(t.Hours.Mul(t.Multiplier))
	}
	return sum
}

// Pay is the weighted hours at the given hourly base rate.
func (c Classification) Pay(hourlyRate decimal.Decimal) decimal.Decimal {
	return c.WeightedHours().Mul(hourlyRate)
}

// HolidayCalendar promotes listed dates to Holiday.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// Classifier splits overtime into tiers. It holds no mutable state.
type Classifier struct {
	tiers    TierTable
	holidays HolidayCalendar
}

// NewClassifier uses DefaultTiers when tiers is nil. holidays may be nil.
func NewClassifier(tiers TierTable, holidays HolidayCalendar) *Classifier {
	if tiers == nil {
		tiers = DefaultTiers()
	}
	return &Classifier{tiers: tiers, holidays: holidays}
}

// DayType reads the overtime date: Saturday is a rest day, Sunday and
// calendar holidays are holidays, everything else is a weekday.
func (c *Classifier) DayType(date time.Time) DayType {
	if c.holidays != nil && c.holidays.IsHoliday(date) {
		return Holiday
	}
	switch date.Weekday() {
	case time.Saturday:
		return RestDay
	case time.Sunday:
		return Holiday
	default:
		return Weekday
	}
}

// ClassifyHours consumes hours through the day type's tiers, low to high.
func (c *Classifier) ClassifyHours(date time.Time, hours decimal.Decimal) Classification {
	dt := c.DayType(date)
	cl := Classification{Date: date, DayType: dt, Hours: hours}

	remaining := worktime.MaxZero(hours)
	tiers := c.tiers[dt]
	for i, tier := range tiers {
		if !remaining.IsPositive() {
			break
		}
		take := remaining
		if i < len(tiers)-1 {
			take = decimal.Min(remaining, tier.Hours)
		}
		cl.Tiers = append(cl.Tiers, TierHours{Hours: take, Multiplier: tier.Multiplier})
		remaining = remaining.Sub(take)
	}
	return cl
}

// Classify derives hours from HH:MM start and end (crossing midnight when
// end < start) and classifies them.
func (c *Classifier) Classify(date time.Time, startTime, endTime string) (Classification, error) {
	hours, err := worktime.ClockSpan(startTime, endTime)
	if err != nil {
		return Classification{}, err
	}
	if !hours.IsPositive() {
		return Classification{}, fmt.Errorf("%w: %s-%s covers no time", worktime.ErrInvalidRange, startTime, endTime)
	}
	cl := c.ClassifyHours(date, hours)
	cl.StartTime = startTime
	cl.EndTime = endTime
	return cl, nil
}
