package sqlite

import (
	"context"
	"database/sql"

	"github.com/warp/attendance-engine/shift"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// SHIFTS (shift.Store interface)
// =============================================================================

// SaveShift upserts a shift.
func (s *Store) SaveShift(ctx context.Context, sh shift.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (id, employee_id, employee_name, date, shift_type, start_time, end_time, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_name = excluded.employee_name,
			date = excluded.date,
			shift_type = excluded.shift_type,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			note = excluded.note
	`,
		sh.ID,
		sh.EmployeeID,
		nullString(sh.EmployeeName),
		formatDate(sh.Date),
		string(sh.Type),
		nullString(sh.StartTime),
		nullString(sh.EndTime),
		nullString(sh.Note),
		formatTime(sh.CreatedAt),
	)
	return err
}

// ListShifts returns the shifts dated in ym, by date then employee.
func (s *Store) ListShifts(ctx context.Context, ym worktime.YearMonth) ([]shift.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, employee_name, date, shift_type, start_time, end_time, note, created_at
		FROM shifts
		WHERE date LIKE ?
		ORDER BY date ASC, employee_id ASC
	`, monthPattern(ym))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []shift.Shift
	for rows.Next() {
		var sh shift.Shift
		var date, typ, createdAt string
		var name, start, end, note sql.NullString
		if err := rows.Scan(&sh.ID, &sh.EmployeeID, &name, &date, &typ, &start, &end, &note, &createdAt); err != nil {
			return nil, err
		}
		sh.EmployeeName = name.String
		sh.Date = parseDate(date)
		sh.Type = shift.Type(typ)
		sh.StartTime = start.String
		sh.EndTime = end.String
		sh.Note = note.String
		sh.CreatedAt = parseTime(createdAt)
		out = append(out, sh)
	}
	return out, rows.Err()
}

// DeleteShift deletes a shift and reports whether it existed.
func (s *Store) DeleteShift(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM shifts WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
