/*
errors.go - Error taxonomy for the work-hour engine

PURPOSE:
  All error types in one place. Domain packages (leave, overtime, payroll)
  return these sentinels, wrapped with context, so callers can branch with
  errors.Is regardless of which package produced them.

ERROR CATEGORIES:
  1. Validation - business-rule violations, returned inside structured
     results so several can be shown at once
  2. Ceiling    - monthly overtime cap, blocking until compensatory hours
     are supplied
  3. Collaborator - record store failures, propagated except by the
     monthly limit check, which fails open

SEE ALSO:
  - leave/validator.go: collects validation issues
  - overtime/ledger.go: fail-open limit check
  - api/handlers.go: HTTP status mapping
*/
package worktime

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is reported when end is not after start or a timestamp
	// cannot be parsed. Calculators surface it as a zero result plus a flag.
	ErrInvalidRange = errors.New("invalid range: end must be after start")

	// ErrNonIntegerHours is returned when a leave request does not resolve
	// to a whole number of hours.
	ErrNonIntegerHours = errors.New("leave hours must be a whole number")

	// ErrDailyCapExceeded is returned when a same-day leave request exceeds
	// the daily hours.
	ErrDailyCapExceeded = errors.New("same-day leave exceeds daily hours")

	// ErrInsufficientBalance is a warning: the request exceeds the remaining
	// leave balance but may still be submitted.
	ErrInsufficientBalance = errors.New("insufficient leave balance")

	// ErrOvertimeCeilingExceeded is returned when approved overtime plus the
	// new request would pass the monthly ceiling.
	ErrOvertimeCeilingExceeded = errors.New("monthly overtime ceiling exceeded")

	// ErrCollaboratorUnavailable wraps failures of the record store.
	ErrCollaboratorUnavailable = errors.New("record store unavailable")

	// ErrNotOnTheHour is returned when a leave start or end has non-zero
	// minutes or seconds.
	ErrNotOnTheHour = errors.New("leave must start and end on the hour")

	ErrUnknownLeaveType    = errors.New("unknown leave type")
	ErrInvalidClockTime    = errors.New("invalid clock time, expected HH:MM")
	ErrInvalidCompensatory = errors.New("invalid compensatory hours")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidConfig       = errors.New("invalid work rules")
	ErrRequestNotFound     = errors.New("request not found")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrSalaryConfigMissing = errors.New("salary configuration not found")

	// ErrInvalidTransition is returned when reviewing a request that is no
	// longer pending.
	ErrInvalidTransition = errors.New("request is not pending")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// CeilingExceededError carries the limit check that blocked a submission.
type CeilingExceededError struct {
	YearMonth    YearMonth
	CurrentHours decimal.Decimal
	NewHours     decimal.Decimal
	TotalAfter   decimal.Decimal
	Exceeded     decimal.Decimal
	Ceiling      decimal.Decimal
}

func (e *CeilingExceededError) Error() string {
	return fmt.Sprintf("monthly overtime ceiling exceeded for %s: %s approved + %s requested = %s (ceiling %s, over by %s)",
		e.YearMonth, e.CurrentHours, e.NewHours, e.TotalAfter, e.Ceiling, e.Exceeded)
}

func (e *CeilingExceededError) Unwrap() error {
	return ErrOvertimeCeilingExceeded
}

// CollaboratorError wraps a record store failure with the operation name.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() []error {
	return []error{ErrCollaboratorUnavailable, e.Err}
}

// Unavailable wraps err as a CollaboratorError, or returns nil.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &CollaboratorError{Op: op, Err: err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrNonIntegerHours) ||
		errors.Is(err, ErrDailyCapExceeded) ||
		errors.Is(err, ErrNotOnTheHour) ||
		errors.Is(err, ErrUnknownLeaveType) ||
		errors.Is(err, ErrInvalidClockTime) ||
		errors.Is(err, ErrInvalidCompensatory) ||
		errors.Is(err, ErrInvalidInput)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRequestNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrSalaryConfigMissing)
}
