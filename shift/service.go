package shift

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warp/attendance-engine/worktime"
)

// Store persists shifts. Delete reports whether a row was removed.
type Store interface {
	SaveShift(ctx context.Context, s Shift) error
	ListShifts(ctx context.Context, ym worktime.YearMonth) ([]Shift, error)
	DeleteShift(ctx context.Context, id string) (bool, error)
}

type Service struct {
	Store Store
	Clock func() time.Time
	NewID func() string
}

func NewService(store Store) *Service {
	return &Service{Store: store, Clock: time.Now, NewID: uuid.NewString}
}

type CreateInput struct {
	EmployeeID   string
	EmployeeName string
	Date         time.Time
	Type         Type
	StartTime    string
	EndTime      string
	Note         string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Shift, error) {
	if strings.TrimSpace(in.EmployeeID) == "" || in.Date.IsZero() {
		return nil, fmt.Errorf("%w: employee and date are required", worktime.ErrInvalidInput)
	}
	start, end, err := Resolve(in.Type, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	sh := Shift{
		ID:           s.NewID(),
		EmployeeID:   in.EmployeeID,
		EmployeeName: in.EmployeeName,
		Date:         in.Date,
		Type:         in.Type,
		StartTime:    start,
		EndTime:      end,
		Note:         strings.TrimSpace(in.Note),
		CreatedAt:    s.Clock(),
	}
	if err := s.Store.SaveShift(ctx, sh); err != nil {
		return nil, worktime.Unavailable("save shift", err)
	}
	return &sh, nil
}

func (s *Service) List(ctx context.Context, ym worktime.YearMonth) ([]Shift, error) {
	shifts, err := s.Store.ListShifts(ctx, ym)
	if err != nil {
		return nil, worktime.Unavailable("list shifts", err)
	}
	return shifts, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.Store.DeleteShift(ctx, id)
	if err != nil {
		return worktime.Unavailable("delete shift", err)
	}
	if !ok {
		return fmt.Errorf("%w: shift %s", worktime.ErrRequestNotFound, id)
	}
	return nil
}

func (s *Service) Stats(ctx context.Context, ym worktime.YearMonth) (MonthlyStats, error) {
	shifts, err := s.List(ctx, ym)
	if err != nil {
		return MonthlyStats{}, err
	}
	return Summarize(ym, shifts), nil
}
