package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// ATTENDANCE (attendance.Source interface)
// =============================================================================

// SaveAttendanceDay upserts the punch record of one employee and date.
// Overtime and leave sub-records of d are ignored; they are joined from
// their own tables on read.
func (s *Store) SaveAttendanceDay(ctx context.Context, employeeID string, d attendance.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_days (employee_id, date, punch_in, punch_out, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			punch_in = excluded.punch_in,
			punch_out = excluded.punch_out,
			status = excluded.status,
			updated_at = excluded.updated_at
	`,
		employeeID,
		formatDate(d.Date),
		nullTime(d.PunchIn),
		nullTime(d.PunchOut),
		nullString(d.Status),
		formatTime(time.Now()),
	)
	return err
}

// ListAttendanceDays returns one Day per date in ym that has a punch record,
// an overtime request or a leave request.
func (s *Store) ListAttendanceDays(ctx context.Context, employeeID string, ym worktime.YearMonth) ([]attendance.Day, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, punch_in, punch_out, status FROM attendance_days
		WHERE employee_id = ? AND date LIKE ?
		ORDER BY date ASC
	`, employeeID, monthPattern(ym))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var punches []attendance.Day
	for rows.Next() {
		var date string
		var in, out, status sql.NullString
		if err := rows.Scan(&date, &in, &out, &status); err != nil {
			return nil, err
		}
		punches = append(punches, attendance.Day{
			Date:     parseDate(date),
			PunchIn:  parseNullTime(in),
			PunchOut: parseNullTime(out),
			Status:   status.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ot, err := s.listOvertime(ctx, employeeID, ym)
	if err != nil {
		return nil, err
	}
	lv, err := s.listLeave(ctx, employeeID, ym)
	if err != nil {
		return nil, err
	}

	return attendance.Merge(ym, punches, ot, lv), nil
}
