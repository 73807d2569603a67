/*
Package overtime implements overtime classification, the monthly overtime
ledger and the overtime request lifecycle.

PURPOSE:
  Overtime hours are classified by the calendar day they were worked on
  (weekday, rest day, holiday) and split into tiers with escalating pay
  multipliers. Approved requests of a month are summed against the
  statutory ceiling; hours beyond it can only be submitted together with
  an explicit compensatory-hours allocation.

KEY CONCEPTS:
  - Classifier:  day type + tier split + weighted pay (classifier.go)
  - Ledger:      read-only monthly view over stored requests (ledger.go)
  - Service:     two-phase submission and admin review (service.go)

LEDGER AVAILABILITY POLICY:
  When the record source cannot be read, Ledger.CheckLimit reports the
  request as within the limit (Degraded=true) and logs a warning, so a
  transient read failure never blocks an overtime submission. The summary
  view does not degrade; it returns the error.

SEE ALSO:
  - worktime/clock.go: ClockSpan for HH:MM inputs
  - payroll/service.go: feeds approved overtime into the salary breakdown
*/
package overtime

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// DAY TYPE
// =============================================================================

type DayType string

const (
	Weekday DayType = "weekday"
	RestDay DayType = "restday"
	Holiday DayType = "holiday"
)

// =============================================================================
// REQUEST
// =============================================================================

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// NormalizeStatus trims and lower-cases a stored status.
func NormalizeStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

func (s Status) IsApproved() bool { return NormalizeStatus(string(s)) == StatusApproved }
func (s Status) IsPending() bool  { return NormalizeStatus(string(s)) == StatusPending }

// Request is an overtime request. Hours is the worked overtime; the part
// covered by CompensatoryHours is taken as time off instead of pay.
type Request struct {
	ID                string
	EmployeeID        string
	Date              time.Time
	StartTime         string
	EndTime           string
	Hours             decimal.Decimal
	CompensatoryHours decimal.Decimal
	Reason            string
	Status            Status
	ReviewedBy        string
	ReviewComment     string
	ReviewedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PaidHours is Hours minus CompensatoryHours, floored at zero.
func (r Request) PaidHours() decimal.Decimal {
	return worktime.MaxZero(r.Hours.Sub(r.CompensatoryHours))
}

// InMonth matches the "YYYY-MM" prefix of the request date.
func (r Request) InMonth(ym worktime.YearMonth) bool { return ym.Contains(r.Date) }
