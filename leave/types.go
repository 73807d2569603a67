// Package leave implements leave-request validation and the leave request lifecycle.
// Hours come from the worktime calculator; balances are kept in days.
package leave

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// LEAVE TYPES
// =============================================================================

type Type string

const (
	TypeAnnual              Type = "ANNUAL_LEAVE"
	TypeCompTimeOff         Type = "COMP_TIME_OFF"
	TypePersonal            Type = "PERSONAL_LEAVE"
	TypeSick                Type = "SICK_LEAVE"
	TypeHospitalization     Type = "HOSPITALIZATION_LEAVE"
	TypeBereavement         Type = "BEREAVEMENT_LEAVE"
	TypeMarriage            Type = "MARRIAGE_LEAVE"
	TypePaternity           Type = "PATERNITY_LEAVE"
	TypeMaternity           Type = "MATERNITY_LEAVE"
	TypeOfficial            Type = "OFFICIAL_LEAVE"
	TypeWorkInjury          Type = "WORK_INJURY_LEAVE"
	TypeAbsenceWithoutLeave Type = "ABSENCE_WITHOUT_LEAVE"
	TypeNaturalDisaster     Type = "NATURAL_DISASTER_LEAVE"
	TypeFamilyCare          Type = "FAMILY_CARE_LEAVE"
	TypeMenstrual           Type = "MENSTRUAL_LEAVE"
)

// AllTypes lists every leave type in display order.
var AllTypes = []Type{
	TypeAnnual, TypeCompTimeOff, TypePersonal, TypeSick, TypeHospitalization,
	TypeBereavement, TypeMarriage, TypePaternity, TypeMaternity, TypeOfficial,
	TypeWorkInjury, TypeAbsenceWithoutLeave, TypeNaturalDisaster, TypeFamilyCare,
	TypeMenstrual,
}

var labels = map[Type]string{
	TypeAnnual:              "Annual leave",
	TypeCompTimeOff:         "Compensatory time off",
	TypePersonal:            "Personal leave",
	TypeSick:                "Sick leave",
	TypeHospitalization:     "Hospitalization leave",
	TypeBereavement:         "Bereavement leave",
	TypeMarriage:            "Marriage leave",
	TypePaternity:           "Paternity leave",
	TypeMaternity:           "Maternity leave",
	TypeOfficial:            "Official leave",
	TypeWorkInjury:          "Work injury leave",
	TypeAbsenceWithoutLeave: "Absence without leave",
	TypeNaturalDisaster:     "Natural disaster leave",
	TypeFamilyCare:          "Family care leave",
	TypeMenstrual:           "Menstrual leave",
}

func (t Type) Valid() bool    { _, ok := labels[t]; return ok }
func (t Type) Label() string  { return labels[t] }
func (t Type) String() string { return string(t) }

// ParseType accepts the canonical name in any case.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", worktime.ErrUnknownLeaveType, s)
	}
	return t, nil
}

// =============================================================================
// REQUEST
// =============================================================================

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is a stored leave request. Hours is always a positive integer.
type Request struct {
	ID            string
	EmployeeID    string
	Type          Type
	Start         time.Time
	End           time.Time
	Hours         decimal.Decimal
	Days          decimal.Decimal
	Reason        string
	Status        Status
	ReviewedBy    string
	ReviewComment string
	ReviewedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Balances maps leave type to remaining days.
type Balances map[Type]decimal.Decimal

// Remaining returns the remaining days for t. A type without a balance row
// has zero days left.
func (b Balances) Remaining(t Type) decimal.Decimal {
	if d, ok := b[t]; ok {
		return d
	}
	return decimal.Zero
}
