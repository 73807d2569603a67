package leave

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
// COLLABORATORS
// =============================================================================

// Store persists leave requests. Get returns nil, nil when the id is unknown.
type Store interface {
	SaveLeaveRequest(ctx context.Context, r Request) error
	GetLeaveRequest(ctx context.Context, id string) (*Request, error)
	ListLeaveRequests(ctx context.Context, employeeID string, ym worktime.YearMonth) ([]Request, error)

	// ReviewLeaveRequest stores the reviewed request and adds balanceDelta
	// days to the employee's balance for the request type, atomically.
	ReviewLeaveRequest(ctx context.Context, r Request, balanceDelta decimal.Decimal) error
}

// BalanceStore reads remaining leave balances in days.
type BalanceStore interface {
	LeaveBalances(ctx context.Context, employeeID string) (Balances, error)
}

// =============================================================================
// SERVICE - Submission and review lifecycle
// =============================================================================

type Service struct {
	Store     Store
	Balances  BalanceStore
	Validator *Validator
	Logger    *slog.Logger
	Clock     func() time.Time
	NewID     func() string
}

func NewService(store Store, balances BalanceStore, cfg worktime.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Store:     store,
		Balances:  balances,
		Validator: NewValidator(cfg),
		Logger:    logger,
		Clock:     time.Now,
		NewID:     uuid.NewString,
	}
}

// Check validates a prospective request against the employee's current
// balance. A balance read failure is returned, not assumed away.
func (s *Service) Check(ctx context.Context, employeeID string, t Type, start, end time.Time) (Validation, error) {
	balances, err := s.Balances.LeaveBalances(ctx, employeeID)
	if err != nil {
		return Validation{}, worktime.Unavailable("load leave balances", err)
	}
	remaining := balances.Remaining(t)
	return s.Validator.Validate(Input{Type: t, Start: start, End: end, Balance: &remaining}), nil
}

type SubmitInput struct {
	EmployeeID string
	Type       Type
	Start      time.Time
	End        time.Time
	Reason     string
}

// Submit validates and stores a pending request. Blocking issues return a
// *ValidationError; warnings such as an insufficient balance are returned in
// the Validation alongside the stored request.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Request, Validation, error) {
	if strings.TrimSpace(in.EmployeeID) == "" {
		return nil, Validation{}, fmt.Errorf("%w: employee id required", worktime.ErrInvalidInput)
	}

	val, err := s.Check(ctx, in.EmployeeID, in.Type, in.Start, in.End)
	if err != nil {
		return nil, val, err
	}
	if len([]rune(strings.TrimSpace(in.Reason))) < 2 {
		val.Issues = append(val.Issues, Issue{
			Code: CodeReasonTooShort, Field: "reason", Blocking: true,
			Message: "reason must be at least 2 characters",
			Err:     worktime.ErrInvalidInput,
		})
	}
	if err := val.Err(); err != nil {
		return nil, val, err
	}

	now := s.Clock()
	req := Request{
		ID:         s.NewID(),
		EmployeeID: in.EmployeeID,
		Type:       in.Type,
		Start:      in.Start,
		End:        in.End,
		Hours:      val.Hours,
		Days:       val.Days,
		Reason:     strings.TrimSpace(in.Reason),
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Store.SaveLeaveRequest(ctx, req); err != nil {
		return nil, val, worktime.Unavailable("save leave request", err)
	}

	for _, w := range val.Warnings() {
		s.Logger.Warn("leave request submitted with warning",
			"request_id", req.ID, "employee_id", req.EmployeeID, "code", w.Code)
	}
	return &req, val, nil
}

type ReviewInput struct {
	Approve  bool
	Reviewer string
	Comment  string
}

// Review moves a pending request to approved or rejected. Approval deducts
// the request's days from the balance of its type.
func (s *Service) Review(ctx context.Context, id string, in ReviewInput) (*Request, error) {
	req, err := s.Store.GetLeaveRequest(ctx, id)
	if err != nil {
		return nil, worktime.Unavailable("get leave request", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: leave request %s", worktime.ErrRequestNotFound, id)
	}
	if req.Status != StatusPending {
		return nil, fmt.Errorf("%w: leave request %s is %s", worktime.ErrInvalidTransition, id, req.Status)
	}

	now := s.Clock()
	req.ReviewedBy = in.Reviewer
	req.ReviewComment = strings.TrimSpace(in.Comment)
	req.ReviewedAt = &now
	req.UpdatedAt = now

	delta := decimal.Zero
	if in.Approve {
		req.Status = StatusApproved
		delta = req.Days.Neg()
	} else {
		req.Status = StatusRejected
	}

	if err := s.Store.ReviewLeaveRequest(ctx, *req, delta); err != nil {
		return nil, worktime.Unavailable("review leave request", err)
	}

	s.Logger.Info("leave request reviewed",
		"request_id", req.ID, "employee_id", req.EmployeeID, "status", string(req.Status))
	return req, nil
}

func (s *Service) List(ctx context.Context, employeeID string, ym worktime.YearMonth) ([]Request, error) {
	reqs, err := s.Store.ListLeaveRequests(ctx, employeeID, ym)
	if err != nil {
		return nil, worktime.Unavailable("list leave requests", err)
	}
	return reqs, nil
}

func (s *Service) LeaveBalances(ctx context.Context, employeeID string) (Balances, error) {
	b, err := s.Balances.LeaveBalances(ctx, employeeID)
	if err != nil {
		return nil, worktime.Unavailable("load leave balances", err)
	}
	return b, nil
}
