package sqlite

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// CEILING ALERTS
// =============================================================================

// CeilingAlert records that an employee's approved overtime for a month
// passed the monthly ceiling. There is at most one alert per employee and
// month; later checks refresh its figures.
type CeilingAlert struct {
	ID            string
	EmployeeID    string
	YearMonth     worktime.YearMonth
	ApprovedHours decimal.Decimal
	Ceiling       decimal.Decimal
	Exceeded      decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaveCeilingAlert upserts the alert of the employee's month. The ID and
// CreatedAt of an existing alert are kept.
func (s *Store) SaveCeilingAlert(ctx context.Context, a CeilingAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ceiling_alerts (id, employee_id, year_month, approved_hours, ceiling, exceeded, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, year_month) DO UPDATE SET
			approved_hours = excluded.approved_hours,
			ceiling = excluded.ceiling,
			exceeded = excluded.exceeded,
			updated_at = excluded.updated_at
	`,
		a.ID,
		a.EmployeeID,
		a.YearMonth.String(),
		a.ApprovedHours.String(),
		a.Ceiling.String(),
		a.Exceeded.String(),
		formatTime(a.CreatedAt),
		formatTime(a.UpdatedAt),
	)
	return err
}

// ListCeilingAlerts returns the alerts of ym, or of every month when ym is
// zero, most exceeded first.
func (s *Store) ListCeilingAlerts(ctx context.Context, ym worktime.YearMonth) ([]CeilingAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, year_month, approved_hours, ceiling, exceeded, created_at, updated_at
		FROM ceiling_alerts
	`
	var args []any
	if !ym.IsZero() {
		query += " WHERE year_month = ?"
		args = append(args, ym.String())
	}
	query += " ORDER BY year_month DESC, CAST(exceeded AS REAL) DESC, employee_id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CeilingAlert
	for rows.Next() {
		var a CeilingAlert
		var ym, approved, ceiling, exceeded, createdAt, updatedAt string
		if err := rows.Scan(&a.ID, &a.EmployeeID, &ym, &approved, &ceiling, &exceeded, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		a.YearMonth, _ = worktime.ParseYearMonth(ym)
		a.ApprovedHours = parseDecimal(approved)
		a.Ceiling = parseDecimal(ceiling)
		a.Exceeded = parseDecimal(exceeded)
		a.CreatedAt = parseTime(createdAt)
		a.UpdatedAt = parseTime(updatedAt)
		out = append(out, a)
	}
	return out, rows.Err()
}
