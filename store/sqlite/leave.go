package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/leave"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// LEAVE REQUESTS (leave.Store interface)
// =============================================================================

const leaveColumns = `id, employee_id, leave_type, start_at, end_at, hours, days, reason,
	status, reviewed_by, review_comment, reviewed_at, created_at, updated_at`

// SaveLeaveRequest upserts a leave request. Start and end keep their
// offset so month filters match the local calendar date.
func (s *Store) SaveLeaveRequest(ctx context.Context, r leave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return saveLeave(ctx, s.db, r)
}

func saveLeave(ctx context.Context, db execer, r leave.Request) error {
	query := `
		INSERT INTO leave_requests (` + leaveColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			reviewed_by = excluded.reviewed_by,
			review_comment = excluded.review_comment,
			reviewed_at = excluded.reviewed_at,
			updated_at = excluded.updated_at
	`

	_, err := db.ExecContext(ctx, query,
		r.ID,
		r.EmployeeID,
		string(r.Type),
		r.Start.Format(time.RFC3339),
		r.End.Format(time.RFC3339),
		r.Hours.String(),
		r.Days.String(),
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

// GetLeaveRequest retrieves a request by ID. Returns nil, nil when absent.
func (s *Store) GetLeaveRequest(ctx context.Context, id string) (*leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+leaveColumns+" FROM leave_requests WHERE id = ?", id)
	r, err := scanLeave(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListLeaveRequests returns an employee's requests starting in ym.
func (s *Store) ListLeaveRequests(ctx context.Context, employeeID string, ym worktime.YearMonth) ([]leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLeave(ctx, employeeID, ym)
}

func (s *Store) listLeave(ctx context.Context, employeeID string, ym worktime.YearMonth) ([]leave.Request, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+leaveColumns+` FROM leave_requests
		WHERE employee_id = ? AND start_at LIKE ?
		ORDER BY start_at ASC
	`, employeeID, monthPattern(ym))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []leave.Request
	for rows.Next() {
		r, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReviewLeaveRequest stores the review and applies balanceDelta to the
// balance of the request's type in one transaction.
func (s *Store) ReviewLeaveRequest(ctx context.Context, r leave.Request, balanceDelta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveLeave(ctx, tx, r); err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}

	if !balanceDelta.IsZero() {
		var current string
		err := tx.QueryRowContext(ctx,
			"SELECT days FROM leave_balances WHERE employee_id = ? AND leave_type = ?",
			r.EmployeeID, string(r.Type),
		).Scan(&current)
		if err != nil && err != sql.ErrNoRows {
			return err
		}
		next := parseDecimal(current).Add(balanceDelta)
		if err := setBalance(ctx, tx, r.EmployeeID, r.Type, next); err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
	}

	return tx.Commit()
}

func scanLeave(sc scanner) (leave.Request, error) {
	var r leave.Request
	var typ, start, end, hours, days, status, createdAt, updatedAt string
	var reason, reviewedBy, comment, reviewedAt sql.NullString

	err := sc.Scan(&r.ID, &r.EmployeeID, &typ, &start, &end, &hours, &days, &reason,
		&status, &reviewedBy, &comment, &reviewedAt, &createdAt, &updatedAt)
	if err != nil {
		return leave.Request{}, err
	}

	r.Type = leave.Type(typ)
	r.Start = parseTime(start)
	r.End = parseTime(end)
	r.Hours = parseDecimal(hours)
	r.Days = parseDecimal(days)
	r.Reason = reason.String
	r.Status = leave.Status(status)
	r.ReviewedBy = reviewedBy.String
	r.ReviewComment = comment.String
	r.ReviewedAt = parseNullTime(reviewedAt)
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return r, nil
}

// =============================================================================
// LEAVE BALANCES (leave.BalanceStore interface)
// =============================================================================

// LeaveBalances returns the remaining days per leave type. Types without a
// row are absent from the map.
func (s *Store) LeaveBalances(ctx context.Context, employeeID string) (leave.Balances, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT leave_type, days FROM leave_balances WHERE employee_id = ?", employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(leave.Balances)
	for rows.Next() {
		var typ, days string
		if err := rows.Scan(&typ, &days); err != nil {
			return nil, err
		}
		out[leave.Type(typ)] = parseDecimal(days)
	}
	return out, rows.Err()
}

// SetLeaveBalance sets the remaining days of one leave type.
func (s *Store) SetLeaveBalance(ctx context.Context, employeeID string, t leave.Type, days decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return setBalance(ctx, s.db, employeeID, t, days)
}

func setBalance(ctx context.Context, db execer, employeeID string, t leave.Type, days decimal.Decimal) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO leave_balances (employee_id, leave_type, days, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(employee_id, leave_type) DO UPDATE SET
			days = excluded.days,
			updated_at = excluded.updated_at
	`, employeeID, string(t), days.String(), formatTime(time.Now()))
	return err
}
