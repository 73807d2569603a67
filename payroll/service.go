package payroll

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/worktime"
)

// ConfigSource returns nil, nil when an employee has no salary configuration.
type ConfigSource interface {
	SalaryConfig(ctx context.Context, employeeID string) (*SalaryConfig, error)
}

type Service struct {
	Configs    ConfigSource
	Overtime   overtime.RecordSource
	Attendance attendance.Source
	Classifier *overtime.Classifier
	Rules      worktime.Config
}

func NewService(configs ConfigSource, ot overtime.RecordSource, att attendance.Source, classifier *overtime.Classifier, rules worktime.Config) *Service {
	return &Service{Configs: configs, Overtime: ot, Attendance: att, Classifier: classifier, Rules: rules}
}

// Breakdown loads the salary configuration, overtime requests and attendance
// for ym concurrently, then computes the month's salary breakdown.
func (s *Service) Breakdown(ctx context.Context, employeeID string, ym worktime.YearMonth) (*Breakdown, error) {
	var (
		cfg  *SalaryConfig
		reqs []overtime.Request
		days []attendance.Day
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.Configs.SalaryConfig(gctx, employeeID)
		if err != nil {
			return worktime.Unavailable("load salary config", err)
		}
		cfg = c
		return nil
	})
	g.Go(func() error {
		r, err := s.Overtime.ListOvertimeRequests(gctx, employeeID, ym)
		if err != nil {
			return worktime.Unavailable("list overtime requests", err)
		}
		reqs = r
		return nil
	})
	g.Go(func() error {
		d, err := s.Attendance.ListAttendanceDays(gctx, employeeID, ym)
		if err != nil {
			return worktime.Unavailable("list attendance days", err)
		}
		days = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: employee %s", worktime.ErrSalaryConfigMissing, employeeID)
	}

	var classified []overtime.Classification
	comp := decimal.Zero
	for _, r := range reqs {
		if !r.InMonth(ym) || !r.Status.IsApproved() {
			continue
		}
		comp = comp.Add(r.CompensatoryHours)
		if paid := r.PaidHours(); paid.IsPositive() {
			classified = append(classified, s.Classifier.ClassifyHours(r.Date, paid))
		}
	}

	stats := attendance.Summarize(ym, days, s.Rules)
	b := Compute(*cfg, classified, stats.WorkHours)
	b.EmployeeID = employeeID
	b.YearMonth = ym
	b.CompensatoryHours = comp
	return &b, nil
}
