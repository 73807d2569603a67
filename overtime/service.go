package overtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// REQUEST SERVICE - Two-phase submission and review
// =============================================================================

// Store persists overtime requests. Get returns nil, nil for an unknown id.
type Store interface {
	RecordSource
	SaveOvertimeRequest(ctx context.Context, r Request) error
	GetOvertimeRequest(ctx context.Context, id string) (*Request, error)
}

type Service struct {
	Store  Store
	Ledger *Ledger
	Logger *slog.Logger
	Clock  func() time.Time
	NewID  func() string
}

func NewService(store Store, cfg worktime.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Store:  store,
		Ledger: NewLedger(store, cfg, logger),
		Logger: logger,
		Clock:  time.Now,
		NewID:  uuid.NewString,
	}
}

// SubmitInput is an employee's overtime application. Hours overrides the
// span computed from StartTime and EndTime. CompensatoryHours is nil in
// phase one and set once the requester has chosen an allocation.
type SubmitInput struct {
	EmployeeID        string
	Date              time.Time
	StartTime         string
	EndTime           string
	Hours             *decimal.Decimal
	Reason            string
	CompensatoryHours *decimal.Decimal
}

// Submit checks the monthly ceiling and stores a pending request. Over the
// ceiling without CompensatoryHours it returns the check together with a
// *worktime.CeilingExceededError so the caller can ask for an allocation
// in [0, check.Exceeded] and resubmit.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Request, LimitCheck, error) {
	hours, err := s.requestedHours(in)
	if err != nil {
		return nil, LimitCheck{}, err
	}

	check := s.Ledger.CheckLimit(ctx, in.EmployeeID, worktime.MonthOf(in.Date), hours)

	comp := decimal.Zero
	switch {
	case in.CompensatoryHours != nil:
		if err := ValidateCompensatory(check, *in.CompensatoryHours); err != nil {
			return nil, check, err
		}
		comp = *in.CompensatoryHours
	case !check.WithinLimit:
		return nil, check, check.Err()
	}

	now := s.Clock()
	req := Request{
		ID:                s.NewID(),
		EmployeeID:        in.EmployeeID,
		Date:              in.Date,
		StartTime:         strings.TrimSpace(in.StartTime),
		EndTime:           strings.TrimSpace(in.EndTime),
		Hours:             hours,
		CompensatoryHours: comp,
		Reason:            strings.TrimSpace(in.Reason),
		Status:            StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.Store.SaveOvertimeRequest(ctx, req); err != nil {
		return nil, check, worktime.Unavailable("save overtime request", err)
	}

	s.Logger.Info("overtime request submitted",
		"request_id", req.ID, "employee_id", req.EmployeeID,
		"hours", hours.String(), "compensatory_hours", comp.String(), "degraded_check", check.Degraded)
	return &req, check, nil
}

func (s *Service) requestedHours(in SubmitInput) (decimal.Decimal, error) {
	switch {
	case strings.TrimSpace(in.EmployeeID) == "":
		return decimal.Zero, fmt.Errorf("%w: employee id required", worktime.ErrInvalidInput)
	case in.Date.IsZero():
		return decimal.Zero, fmt.Errorf("%w: overtime date required", worktime.ErrInvalidInput)
	case strings.TrimSpace(in.Reason) == "":
		return decimal.Zero, fmt.Errorf("%w: reason required", worktime.ErrInvalidInput)
	}

	span, err := worktime.ClockSpan(in.StartTime, in.EndTime)
	if err != nil {
		return decimal.Zero, err
	}
	hours := span
	if in.Hours != nil {
		hours = *in.Hours
	}
	if !hours.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: overtime hours must be positive", worktime.ErrInvalidRange)
	}
	return hours, nil
}

type ReviewInput struct {
	Approve  bool
	Reviewer string
	Comment  string
}

// Review moves a pending request to approved or rejected. Reviewed requests
// are final; a rejected application is re-applied with a new Submit.
func (s *Service) Review(ctx context.Context, id string, in ReviewInput) (*Request, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.Status.IsPending() {
		return nil, fmt.Errorf("%w: overtime request %s is %s", worktime.ErrInvalidTransition, id, req.Status)
	}

	now := s.Clock()
	req.Status = StatusRejected
	if in.Approve {
		req.Status = StatusApproved
	}
	req.ReviewedBy = in.Reviewer
	req.ReviewComment = strings.TrimSpace(in.Comment)
	req.ReviewedAt = &now
	req.UpdatedAt = now

	if err := s.Store.SaveOvertimeRequest(ctx, *req); err != nil {
		return nil, worktime.Unavailable("save overtime request", err)
	}

	s.Logger.Info("overtime request reviewed",
		"request_id", req.ID, "employee_id", req.EmployeeID, "status", string(req.Status))
	return req, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Request, error) {
	req, err := s.Store.GetOvertimeRequest(ctx, id)
	if err != nil {
		return nil, worktime.Unavailable("get overtime request", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: overtime request %s", worktime.ErrRequestNotFound, id)
	}
	return req, nil
}

func (s *Service) List(ctx context.Context, employeeID string, ym worktime.YearMonth) ([]Request, error) {
	reqs, err := s.Store.ListOvertimeRequests(ctx, employeeID, ym)
	if err != nil {
		return nil, worktime.Unavailable("list overtime requests", err)
	}
	return reqs, nil
}
