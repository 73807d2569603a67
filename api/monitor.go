/*
monitor.go - Monthly overtime ceiling monitor

PURPOSE:
  Periodically summarises every employee's approved overtime for the
  current month and records a ceiling alert when it passes the monthly
  ceiling. Submissions are already checked one by one; the monitor catches
  months that went over through approvals, rule changes or a degraded
  check while the record store was unavailable.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Checks once immediately on start, then on every tick
  - One alert per employee and month; later checks refresh its figures
  - A failing summary for one employee is logged and skipped

CONFIGURATION:
  - Interval: how often to check (default: 1 hour)
  - Enabled:  whether the monitor runs (default: true)

USAGE:
  monitor := NewCeilingMonitor(store, handler.Overtime.Ledger, rules, logger)
  monitor.Start()
  // ... later
  monitor.Stop()

SEE ALSO:
  - overtime/ledger.go: Summary
  - overtime_handlers.go: ListCeilingAlerts endpoint
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/store/sqlite"
	"github.com/warp/attendance-engine/worktime"
)

// CeilingMonitor records ceiling alerts in the background.
type CeilingMonitor struct {
	Store    *sqlite.Store
	Ledger   *overtime.Ledger
	Rules    worktime.Config
	Interval time.Duration
	Enabled  bool
	Logger   *slog.Logger
	Clock    func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewCeilingMonitor creates a monitor with a one hour interval.
func NewCeilingMonitor(store *sqlite.Store, ledger *overtime.Ledger, rules worktime.Config, logger *slog.Logger) *CeilingMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CeilingMonitor{
		Store:    store,
		Ledger:   ledger,
		Rules:    rules,
		Interval: time.Hour,
		Enabled:  true,
		Logger:   logger.With("component", "ceiling-monitor"),
		Clock:    time.Now,
	}
}

// Start begins the monitor.
func (m *CeilingMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.Enabled {
		m.Logger.Info("disabled, not starting")
		return
	}
	if m.ticker != nil {
		return
	}

	m.ticker = time.NewTicker(m.Interval)
	m.stop = make(chan struct{})
	m.wg.Add(1)

	go m.run(m.ticker, m.stop)

	m.Logger.Info("started", "interval", m.Interval.String())
}

// Stop stops the monitor and waits for a running check to finish.
func (m *CeilingMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ticker == nil {
		return
	}
	m.ticker.Stop()
	close(m.stop)
	m.wg.Wait()
	m.ticker = nil
	m.Logger.Info("stopped")
}

func (m *CeilingMonitor) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer m.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		cancel()
	}()

	m.check(ctx)
	for {
		select {
		case <-ticker.C:
			m.check(ctx)
		case <-stop:
			return
		}
	}
}

func (m *CeilingMonitor) check(ctx context.Context) {
	ym := worktime.MonthOf(m.Rules.In(m.Clock()))
	if _, err := m.CheckMonth(ctx, ym); err != nil {
		m.Logger.Error("check failed", "month", ym.String(), "error", err)
	}
}

// CheckMonth summarises every employee's overtime in ym and records an
// alert for each one over the ceiling. It returns the number of alerts
// written.
func (m *CeilingMonitor) CheckMonth(ctx context.Context, ym worktime.YearMonth) (int, error) {
	employees, err := m.Store.ListEmployees(ctx)
	if err != nil {
		return 0, worktime.Unavailable("list employees", err)
	}

	alerts := 0
	for _, emp := range employees {
		summary, err := m.Ledger.Summary(ctx, emp.ID, ym)
		if err != nil {
			m.Logger.Warn("summary failed", "employee_id", emp.ID, "month", ym.String(), "error", err)
			continue
		}
		if !summary.Exceeded.IsPositive() {
			continue
		}

		now := m.Clock()
		alert := sqlite.CeilingAlert{
			ID:            uuid.NewString(),
			EmployeeID:    emp.ID,
			YearMonth:     ym,
			ApprovedHours: summary.ApprovedHours,
			Ceiling:       summary.Ceiling,
			Exceeded:      summary.Exceeded,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := m.Store.SaveCeilingAlert(ctx, alert); err != nil {
			m.Logger.Error("failed to save alert", "employee_id", emp.ID, "error", err)
			continue
		}
		alerts++
		m.Logger.Warn("monthly overtime ceiling exceeded",
			"employee_id", emp.ID, "month", ym.String(),
			"approved_hours", summary.ApprovedHours.String(), "exceeded", summary.Exceeded.String())
	}

	if alerts > 0 {
		m.Logger.Info("check completed", "month", ym.String(), "employees", len(employees), "alerts", alerts)
	}
	return alerts, nil
}
