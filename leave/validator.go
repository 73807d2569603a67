package leave

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// ISSUES - Structured validation results
// =============================================================================

// Issue codes, stable for API clients.
const (
	CodeUnknownType         = "unknown_leave_type"
	CodeNotOnTheHour        = "not_on_the_hour"
	CodeInvalidRange        = "invalid_range"
	CodeNonIntegerHours     = "non_integer_hours"
	CodeDailyCapExceeded    = "daily_cap_exceeded"
	CodeInsufficientBalance = "insufficient_balance"
	CodeReasonTooShort      = "reason_too_short"
)

// Issue is one validation finding. Non-blocking issues are warnings.
type Issue struct {
	Code     string
	Field    string
	Message  string
	Blocking bool
	Err      error
}

// Validation is the result of validating a leave request. It never carries
// collaborator failures, only business-rule findings.
type Validation struct {
	Hours   decimal.Decimal
	Days    decimal.Decimal
	SameDay bool
	Issues  []Issue
}

// Valid reports whether no blocking issue was found.
func (v Validation) Valid() bool {
	for _, is := range v.Issues {
		if is.Blocking {
			return false
		}
	}
	return true
}

func (v Validation) Errors() []Issue   { return v.filter(true) }
func (v Validation) Warnings() []Issue { return v.filter(false) }

func (v Validation) Has(code string) bool {
	for _, is := range v.Issues {
		if is.Code == code {
			return true
		}
	}
	return false
}

func (v Validation) filter(blocking bool) []Issue {
	var out []Issue
	for _, is := range v.Issues {
		if is.Blocking == blocking {
			out = append(out, is)
		}
	}
	return out
}

// Err returns a *ValidationError for the blocking issues, or nil.
func (v Validation) Err() error {
	if v.Valid() {
		return nil
	}
	return &ValidationError{Issues: v.Errors()}
}

// ValidationError unwraps to the sentinel of every blocking issue.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		msgs = append(msgs, is.Message)
	}
	return "leave request invalid: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Err != nil {
			errs = append(errs, is.Err)
		}
	}
	return errs
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Input is a leave request to validate. Balance is the remaining days for
// Type; nil skips the balance check.
type Input struct {
	Type    Type
	Start   time.Time
	End     time.Time
	Balance *decimal.Decimal
}

type Validator struct {
	cfg  worktime.Config
	calc *worktime.Calculator
}

func NewValidator(cfg worktime.Config) *Validator {
	return &Validator{cfg: cfg, calc: worktime.NewCalculator(cfg)}
}

// Validate collects every applicable issue. Start and end must sit exactly
// on the hour, the computed hours must be a positive whole number not above
// the daily hours on a single day, and a known balance shortfall is reported
// as a warning only.
func (v *Validator) Validate(in Input) Validation {
	var issues []Issue

	if !in.Type.Valid() {
		issues = append(issues, Issue{
			Code: CodeUnknownType, Field: "leave_type", Blocking: true,
			Message: fmt.Sprintf("unknown leave type %q", in.Type),
			Err:     worktime.ErrUnknownLeaveType,
		})
	}
	for _, f := range []struct {
		name string
		t    time.Time
	}{{"start", in.Start}, {"end", in.End}} {
		if !f.t.IsZero() && !worktime.OnTheHour(v.cfg.In(f.t)) {
			issues = append(issues, Issue{
				Code: CodeNotOnTheHour, Field: f.name, Blocking: true,
				Message: fmt.Sprintf("%s time must be on the hour", f.name),
				Err:     worktime.ErrNotOnTheHour,
			})
		}
	}

	res := v.calc.Compute(in.Start, in.End)
	val := Validation{
		Hours:   res.Hours,
		Days:    res.Hours.Div(v.cfg.DailyHoursDecimal()),
		SameDay: res.SameDay,
	}

	if err := CheckHours(res.Hours, res.SameDay, v.cfg.DailyHours); err != nil {
		issues = append(issues, Issue{
			Code: issueCode(err), Field: "hours", Blocking: true,
			Message: err.Error(), Err: err,
		})
	} else if in.Balance != nil && val.Days.GreaterThan(*in.Balance) {
		issues = append(issues, Issue{
			Code: CodeInsufficientBalance, Field: "leave_type",
			Message: fmt.Sprintf("requested %s days, remaining balance %s days", val.Days, in.Balance),
			Err:     worktime.ErrInsufficientBalance,
		})
	}

	val.Issues = issues
	return val
}

// CheckHours applies the hour rules on their own: positive, whole, and at
// most dailyHours when the request stays within one calendar day.
func CheckHours(hours decimal.Decimal, sameDay bool, dailyHours int) error {
	switch {
	case !hours.IsPositive():
		return fmt.Errorf("%w: leave covers no working hours", worktime.ErrInvalidRange)
	case !hours.IsInteger():
		return fmt.Errorf("%w: got %s hours", worktime.ErrNonIntegerHours, hours)
	case sameDay && hours.GreaterThan(decimal.NewFromInt(int64(dailyHours))):
		return fmt.Errorf("%w: %s hours exceeds %d", worktime.ErrDailyCapExceeded, hours, dailyHours)
	}
	return nil
}

func issueCode(err error) string {
	switch {
	case errors.Is(err, worktime.ErrNonIntegerHours):
		return CodeNonIntegerHours
	case errors.Is(err, worktime.ErrDailyCapExceeded):
		return CodeDailyCapExceeded
	default:
		return CodeInvalidRange
	}
}
