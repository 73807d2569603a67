/*
Package factory provides JSON to Go work-rule conversion.

PURPOSE:
  Converts a JSON rules document into a worktime.Config and an
  overtime.TierTable. Payroll and HR can adjust the work window, the
  monthly overtime ceiling and the overtime pay tiers without code changes.

JSON SCHEMA:
  {
    "name": "standard",
    "timezone": "Asia/Taipei",
    "workday": {
      "start_hour": 9,
      "end_hour": 18,
      "lunch_start_hour": 12,
      "lunch_end_hour": 13,
      "daily_hours": 8
    },
    "overtime": {
      "monthly_ceiling": 46,
      "tiers": {
        "weekday": [{"hours": 2, "multiplier": 1.34}, {"multiplier": 1.67}],
        "restday": [{"hours": 2, "multiplier": 1.34}, {"hours": 6, "multiplier": 1.67}, {"multiplier": 2.67}],
        "holiday": [{"multiplier": 2}]
      }
    }
  }

DEFAULTS:
  Every omitted field keeps its value from worktime.DefaultConfig and
  overtime.DefaultTiers. A day type listed under "tiers" replaces the
  default bands of that day type only.

USAGE:
  f := factory.NewRulesFactory()
  rules, err := f.ParseRules(factory.StandardRulesJSON())
  calc := worktime.NewCalculator(rules.Config)
  classifier := overtime.NewClassifier(rules.Tiers, holidays)

SEE ALSO:
  - worktime/config.go: Config and its validation
  - overtime/classifier.go: TierTable
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RulesJSON is the JSON representation of the work rules.
type RulesJSON struct {
	Name     string        `json:"name,omitempty"`
	Timezone string        `json:"timezone,omitempty"`
	Workday  *WorkdayJSON  `json:"workday,omitempty"`
	Overtime *OvertimeJSON `json:"overtime,omitempty"`
}

// WorkdayJSON represents the work window. Nil fields keep their default.
type WorkdayJSON struct {
	StartHour      *int `json:"start_hour,omitempty"`
	EndHour        *int `json:"end_hour,omitempty"`
	LunchStartHour *int `json:"lunch_start_hour,omitempty"`
	LunchEndHour   *int `json:"lunch_end_hour,omitempty"`
	DailyHours     *int `json:"daily_hours,omitempty"`
}

// OvertimeJSON represents the ceiling and the tier table.
type OvertimeJSON struct {
	MonthlyCeiling *decimal.Decimal      `json:"monthly_ceiling,omitempty"`
	Tiers          map[string][]TierJSON `json:"tiers,omitempty"` // weekday, restday, holiday
}

// TierJSON is one overtime band. Hours is omitted on the last band.
type TierJSON struct {
	Hours      *decimal.Decimal `json:"hours,omitempty"`
	Multiplier decimal.Decimal  `json:"multiplier"`
}

// Rules is a parsed and validated rules document.
type Rules struct {
	Name   string
	Config worktime.Config
	Tiers  overtime.TierTable
}

// =============================================================================
// RULES FACTORY
// =============================================================================

// RulesFactory converts JSON rules to Go structs.
type RulesFactory struct{}

// NewRulesFactory creates a new rules factory.
func NewRulesFactory() *RulesFactory {
	return &RulesFactory{}
}

// ParseRules parses a JSON string into validated rules.
func (f *RulesFactory) ParseRules(jsonStr string) (*Rules, error) {
	var rj RulesJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return nil, fmt.Errorf("%w: invalid rules JSON: %v", worktime.ErrInvalidConfig, err)
	}
	return f.FromJSON(rj)
}

// FromJSON converts a RulesJSON over the defaults and validates the result.
func (f *RulesFactory) FromJSON(rj RulesJSON) (*Rules, error) {
	cfg := worktime.DefaultConfig()
	tiers := overtime.DefaultTiers()

	if rj.Timezone != "" {
		loc, err := time.LoadLocation(rj.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown timezone %q", worktime.ErrInvalidConfig, rj.Timezone)
		}
		cfg.Location = loc
	}

	if wd := rj.Workday; wd != nil {
		setInt(&cfg.StartHour, wd.StartHour)
		setInt(&cfg.EndHour, wd.EndHour)
		setInt(&cfg.LunchStartHour, wd.LunchStartHour)
		setInt(&cfg.LunchEndHour, wd.LunchEndHour)
		setInt(&cfg.DailyHours, wd.DailyHours)
	}

	if ot := rj.Overtime; ot != nil {
		if ot.MonthlyCeiling != nil {
			cfg.MonthlyOvertimeCeiling = *ot.MonthlyCeiling
		}
		for name, bands := range ot.Tiers {
			dt, err := parseDayType(name)
			if err != nil {
				return nil, err
			}
			tiers[dt] = parseTiers(bands)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := tiers.Validate(); err != nil {
		return nil, err
	}

	name := rj.Name
	if name == "" {
		name = "custom"
	}
	return &Rules{Name: name, Config: cfg, Tiers: tiers}, nil
}

// ToJSON converts rules back to their JSON representation.
func (f *RulesFactory) ToJSON(r *Rules) RulesJSON {
	cfg := r.Config
	ceiling := cfg.MonthlyOvertimeCeiling

	rj := RulesJSON{
		Name: r.Name,
		Workday: &WorkdayJSON{
			StartHour:      &cfg.StartHour,
			EndHour:        &cfg.EndHour,
			LunchStartHour: &cfg.LunchStartHour,
			LunchEndHour:   &cfg.LunchEndHour,
			DailyHours:     &cfg.DailyHours,
		},
		Overtime: &OvertimeJSON{
			MonthlyCeiling: &ceiling,
			Tiers:          make(map[string][]TierJSON),
		},
	}
	if cfg.Location != nil {
		rj.Timezone = cfg.Location.String()
	}

	for dt, bands := range r.Tiers {
		out := make([]TierJSON, len(bands))
		for i, b := range bands {
			out[i] = TierJSON{Multiplier: b.Multiplier}
			if i < len(bands)-1 {
				h := b.Hours
				out[i].Hours = &h
			}
		}
		rj.Overtime.Tiers[string(dt)] = out
	}
	return rj
}

// LoadRulesFile reads and parses a rules document from disk.
func LoadRulesFile(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return NewRulesFactory().ParseRules(string(data))
}

// =============================================================================
// PRESETS
// =============================================================================

// StandardRulesJSON is the statutory default: 09:00-18:00 with a 12:00-13:00
// lunch, 8 daily hours, a 46 hour monthly overtime ceiling and the default
// overtime tiers.
func StandardRulesJSON() string {
	return `{
  "name": "standard",
  "workday": {
    "start_hour": 9,
    "end_hour": 18,
    "lunch_start_hour": 12,
    "lunch_end_hour": 13,
    "daily_hours": 8
  },
  "overtime": {
    "monthly_ceiling": 46,
    "tiers": {
      "weekday": [{"hours": 2, "multiplier": 1.34}, {"multiplier": 1.67}],
      "restday": [{"hours": 2, "multiplier": 1.34}, {"hours": 6, "multiplier": 1.67}, {"multiplier": 2.67}],
      "holiday": [{"multiplier": 2}]
    }
  }
}`
}

// =============================================================================
// HELPERS
// =============================================================================

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func parseDayType(s string) (overtime.DayType, error) {
	switch overtime.DayType(s) {
	case overtime.Weekday, overtime.RestDay, overtime.Holiday:
		return overtime.DayType(s), nil
	case "rest_day":
		return overtime.RestDay, nil
	default:
		return "", fmt.Errorf("%w: unknown day type %q", worktime.ErrInvalidConfig, s)
	}
}

func parseTiers(bands []TierJSON) []overtime.Tier {
	out := make([]overtime.Tier, len(bands))
	for i, b := range bands {
		out[i] = overtime.Tier{Hours: decimal.Zero, Multiplier: b.Multiplier}
		if b.Hours != nil {
			out[i].Hours = *b.Hours
		}
	}
	return out
}
