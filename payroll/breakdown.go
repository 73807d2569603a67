/*
Package payroll builds the monthly salary breakdown of an employee.

PURPOSE:
  Combines the salary configuration (base, allowances, deductions) with the
  month's approved overtime, classified into weekday, rest-day and holiday
  pay, and the work hours derived from attendance punches.

FORMULA:
  hourly rate = HourlyRate if set, BaseSalary for hourly staff,
                otherwise BaseSalary / 240
  base pay    = BaseSalary (monthly) or hourly rate x work hours (hourly)
  gross       = base pay + allowances + overtime pay
  net         = gross - deductions

  Overtime is paid on Hours - CompensatoryHours of each approved request.

SEE ALSO:
  - overtime/classifier.go: tier split and weighted hours
  - attendance/stats.go: work hours from punches
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/worktime"
)

// StandardMonthlyHours converts a monthly salary to an hourly rate (30 days x 8h).
const StandardMonthlyHours = 240

type SalaryType string

const (
	SalaryMonthly SalaryType = "monthly"
	SalaryHourly  SalaryType = "hourly"
)

// =============================================================================
// SALARY CONFIGURATION
// =============================================================================

type Allowances struct {
	Position         decimal.Decimal
	Meal             decimal.Decimal
	Transport        decimal.Decimal
	AttendanceBonus  decimal.Decimal
	PerformanceBonus decimal.Decimal
	Other            decimal.Decimal
}

func (a Allowances) Total() decimal.Decimal {
	return decimal.Sum(a.Position, a.Meal, a.Transport, a.AttendanceBonus, a.PerformanceBonus, a.Other)
}

type Deductions struct {
	LaborInsurance      decimal.Decimal
	HealthInsurance     decimal.Decimal
	EmploymentInsurance decimal.Decimal
	PensionSelf         decimal.Decimal
	IncomeTax           decimal.Decimal
	WelfareFund         decimal.Decimal
	Dormitory           decimal.Decimal
	GroupInsurance      decimal.Decimal
	Leave               decimal.Decimal
	Other               decimal.Decimal
}

func (d Deductions) Total() decimal.Decimal {
	return decimal.Sum(d.LaborInsurance, d.HealthInsurance, d.EmploymentInsurance, d.PensionSelf,
		d.IncomeTax, d.WelfareFund, d.Dormitory, d.GroupInsurance, d.Leave, d.Other)
}

type SalaryConfig struct {
	EmployeeID string
	Type       SalaryType
	BaseSalary decimal.Decimal
	HourlyRate decimal.Decimal
	Allowances Allowances
	Deductions Deductions
	UpdatedAt  time.Time
}

// BaseHourlyRate is the rate overtime multipliers apply to.
func (c SalaryConfig) BaseHourlyRate() decimal.Decimal {
	switch {
	case c.HourlyRate.IsPositive():
		return c.HourlyRate
	case c.Type == SalaryHourly:
		return c.BaseSalary
	default:
		return c.BaseSalary.Div(decimal.NewFromInt(StandardMonthlyHours))
	}
}

// =============================================================================
// BREAKDOWN
// =============================================================================

type OvertimePay struct {
	WeekdayHours decimal.Decimal
	RestDayHours decimal.Decimal
	HolidayHours decimal.Decimal
	Weekday      decimal.Decimal
	RestDay      decimal.Decimal
	Holiday      decimal.Decimal
}

func (o OvertimePay) Total() decimal.Decimal { return decimal.Sum(o.Weekday, o.RestDay, o.Holiday) }

func (o *OvertimePay) add(c overtime.Classification, rate decimal.Decimal) {
	pay := c.Pay(rate)
	switch c.DayType {
	case overtime.RestDay:
		o.RestDayHours = o.RestDayHours.Add(c.Hours)
		o.RestDay = o.RestDay.Add(pay)
	case overtime.Holiday:
		o.HolidayHours = o.HolidayHours.Add(c.Hours)
		o.Holiday = o.Holiday.Add(pay)
	default:
		o.WeekdayHours = o.WeekdayHours.Add(c.Hours)
		o.Weekday = o.Weekday.Add(pay)
	}
}

func (o OvertimePay) rounded() OvertimePay {
	o.Weekday = o.Weekday.Round(2)
	o.RestDay = o.RestDay.Round(2)
	o.Holiday = o.Holiday.Round(2)
	return o
}

type Breakdown struct {
	EmployeeID        string
	YearMonth         worktime.YearMonth
	SalaryType        SalaryType
	HourlyRate        decimal.Decimal
	WorkHours         decimal.Decimal
	BaseSalary        decimal.Decimal
	Allowances        Allowances
	Overtime          OvertimePay
	CompensatoryHours decimal.Decimal
	Deductions        Deductions
	GrossSalary       decimal.Decimal
	TotalDeductions   decimal.Decimal
	NetSalary         decimal.Decimal
}

// Compute assembles the breakdown from classified overtime and work hours.
// Money amounts are rounded to 2 decimals.
func Compute(cfg SalaryConfig, classified []overtime.Classification, workHours decimal.Decimal) Breakdown {
	rate := cfg.BaseHourlyRate()

	base := cfg.BaseSalary
	if cfg.Type == SalaryHourly {
		base = rate.Mul(workHours)
	}
	base = base.Round(2)

	ot := OvertimePay{
		WeekdayHours: decimal.Zero, RestDayHours: decimal.Zero, HolidayHours: decimal.Zero,
		Weekday: decimal.Zero, RestDay: decimal.Zero, Holiday: decimal.Zero,
	}
	for _, c := range classified {
		ot.add(c, rate)
	}
	ot = ot.rounded()

	gross := base.Add(cfg.Allowances.Total()).Add(ot.Total())
	deductions := cfg.Deductions.Total()

	return Breakdown{
		EmployeeID:        cfg.EmployeeID,
		SalaryType:        cfg.Type,
		HourlyRate:        rate.Round(2),
		WorkHours:         workHours,
		BaseSalary:        base,
		Allowances:        cfg.Allowances,
		Overtime:          ot,
		CompensatoryHours: decimal.Zero,
		Deductions:        cfg.Deductions,
		GrossSalary:       gross,
		TotalDeductions:   deductions,
		NetSalary:         gross.Sub(deductions),
	}
}
