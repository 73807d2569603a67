package sqlite

import (
	"context"
	"database/sql"

	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// OVERTIME REQUESTS (overtime.Store interface)
// =============================================================================

const overtimeColumns = `id, employee_id, date, start_time, end_time, hours, compensatory_hours,
	reason, status, reviewed_by, review_comment, reviewed_at, created_at, updated_at`

// SaveOvertimeRequest upserts an overtime request.
func (s *Store) SaveOvertimeRequest(ctx context.Context, r overtime.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO overtime_requests (` + overtimeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			hours = excluded.hours,
			compensatory_hours = excluded.compensatory_hours,
			reason = excluded.reason,
			status = excluded.status,
			reviewed_by = excluded.reviewed_by,
			review_comment = excluded.review_comment,
			reviewed_at = excluded.reviewed_at,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID,
		r.EmployeeID,
		formatDate(r.Date),
		r.StartTime,
		r.EndTime,
		r.Hours.String(),
		r.CompensatoryHours.String(),
		nullString(r.Reason),
		string(r.Status),
		nullString(r.ReviewedBy),
		nullString(r.ReviewComment),
		nullTime(r.ReviewedAt),
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	return err
}

// GetOvertimeRequest retrieves a request by ID. Returns nil, nil when absent.
func (s *Store) GetOvertimeRequest(ctx context.Context, id string) (*overtime.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+overtimeColumns+" FROM overtime_requests WHERE id = ?", id)
	r, err := scanOvertime(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListOvertimeRequests returns an employee's requests dated in ym, by date
// then submission time. Every status is included; the ledger filters.
func (s *Store) ListOvertimeRequests(ctx context.Context, employeeID string, ym worktime.YearMonth) ([]overtime.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listOvertime(ctx, employeeID, ym)
}

func (s *Store) listOvertime(ctx context.Context, employeeID string, ym worktime.YearMonth) ([]overtime.Request, error) {
	return s.queryOvertime(ctx, `
		SELECT `+overtimeColumns+` FROM overtime_requests
		WHERE employee_id = ? AND date LIKE ?
		ORDER BY date ASC, created_at ASC
	`, employeeID, monthPattern(ym))
}

// ListPendingOvertimeRequests returns every pending request, oldest first.
func (s *Store) ListPendingOvertimeRequests(ctx context.Context) ([]overtime.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryOvertime(ctx, `
		SELECT `+overtimeColumns+` FROM overtime_requests
		WHERE status = ?
		ORDER BY created_at ASC
	`, string(overtime.StatusPending))
}

func (s *Store) queryOvertime(ctx context.Context, query string, args ...any) ([]overtime.Request, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []overtime.Request
	for rows.Next() {
		r, err := scanOvertime(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanOvertime(sc scanner) (overtime.Request, error) {
	var r overtime.Request
	var date, hours, comp, status, createdAt, updatedAt string
	var reason, reviewedBy, comment, reviewedAt sql.NullString

	err := sc.Scan(&r.ID, &r.EmployeeID, &date, &r.StartTime, &r.EndTime, &hours, &comp,
		&reason, &status, &reviewedBy, &comment, &reviewedAt, &createdAt, &updatedAt)
	if err != nil {
		return overtime.Request{}, err
	}

	r.Date = parseDate(date)
	r.Hours = parseDecimal(hours)
	r.CompensatoryHours = parseDecimal(comp)
	r.Reason = reason.String
	r.Status = overtime.NormalizeStatus(status)
	r.ReviewedBy = reviewedBy.String
	r.ReviewComment = comment.String
	r.ReviewedAt = parseNullTime(reviewedAt)
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return r, nil
}
