/*
Package sqlite provides a SQLite-backed implementation of the record stores.

PURPOSE:
  Persists everything the calculators read from and the HTTP layer writes
  to: employees, holidays, leave balances and requests, overtime requests,
  daily punch records, shifts, salary configurations and ceiling alerts.

INTERFACES IMPLEMENTED:
  overtime.Store:           Overtime requests (ledger record source)
  overtime.HolidayCalendar: Holiday lookup for day-type classification
  leave.Store:              Leave requests and transactional review
  leave.BalanceStore:       Remaining leave days per type
  attendance.Source:        Punch records joined with overtime and leave
  shift.Store:              Shift schedule
  payroll.ConfigSource:     Salary configurations

KEY TABLES:
  employees:          Employee records
  holidays:           Company holidays (one-off and recurring)
  leave_balances:     Remaining days per employee and leave type
  leave_requests:     Leave applications and their review
  overtime_requests:  Overtime applications and their review
  attendance_days:    One punch record per employee and date
  shifts:             Scheduled shifts
  salary_configs:     Base salary, allowances and deductions (JSON)
  ceiling_alerts:     Months in which approved overtime passed the ceiling

STORAGE FORMATS:
  - Timestamps are RFC3339 text in UTC
  - Calendar dates are "YYYY-MM-DD" text; month filters match on the prefix
  - Decimal amounts are stored as TEXT to keep exact values

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers do not block each other.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := overtime.NewService(store, cfg, logger)

SEE ALSO:
  - store/memory: In-memory implementation for tests
  - attendance/merge.go: Joining punch records with requests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/leave"
	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/payroll"
	"github.com/warp/attendance-engine/shift"
	"github.com/warp/attendance-engine/worktime"
)

// Store implements all record stores using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ overtime.Store           = (*Store)(nil)
	_ overtime.HolidayCalendar = (*Store)(nil)
	_ leave.Store              = (*Store)(nil)
	_ leave.BalanceStore       = (*Store)(nil)
	_ attendance.Source        = (*Store)(nil)
	_ shift.Store              = (*Store)(nil)
	_ payroll.ConfigSource     = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		department TEXT,
		hire_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name);

	CREATE TABLE IF NOT EXISTS leave_balances (
		employee_id TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		days TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, leave_type)
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		hours TEXT NOT NULL,
		days TEXT NOT NULL,
		reason TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		reviewed_by TEXT,
		review_comment TEXT,
		reviewed_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_employee_start
		ON leave_requests(employee_id, start_at);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_status
		ON leave_requests(status);

	CREATE TABLE IF NOT EXISTS overtime_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		hours TEXT NOT NULL,
		compensatory_hours TEXT NOT NULL DEFAULT '0',
		reason TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		reviewed_by TEXT,
		review_comment TEXT,
		reviewed_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Hot path: monthly ledger reads by employee and date prefix
	CREATE INDEX IF NOT EXISTS idx_overtime_requests_employee_date
		ON overtime_requests(employee_id, date);

	CREATE TABLE IF NOT EXISTS attendance_days (
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		punch_in TEXT,
		punch_out TEXT,
		status TEXT,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, date)
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		employee_name TEXT,
		date TEXT NOT NULL,
		shift_type TEXT NOT NULL,
		start_time TEXT,
		end_time TEXT,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_date
		ON shifts(date);

	CREATE TABLE IF NOT EXISTS salary_configs (
		employee_id TEXT PRIMARY KEY,
		salary_type TEXT NOT NULL,
		base_salary TEXT NOT NULL,
		hourly_rate TEXT NOT NULL DEFAULT '0',
		allowances_json TEXT NOT NULL,
		deductions_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ceiling_alerts (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		year_month TEXT NOT NULL,
		approved_hours TEXT NOT NULL,
		ceiling TEXT NOT NULL,
		exceeded TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(employee_id, year_month)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset deletes all data. Used by the demo scenario loader.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"ceiling_alerts", "salary_configs", "shifts", "attendance_days",
		"overtime_requests", "leave_requests", "leave_balances", "holidays", "employees",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// Employee is a stored employee record.
type Employee struct {
	ID         string
	Name       string
	Email      string
	Department string
	HireDate   time.Time
	CreatedAt  time.Time
}

// SaveEmployee upserts an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, email, department, hire_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			department = excluded.department,
			hire_date = excluded.hire_date
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, nullString(emp.Email), nullString(emp.Department),
		formatDate(emp.HireDate),
		formatTime(time.Now()),
	)
	return err
}

// GetEmployee retrieves an employee by ID. Returns nil, nil when absent.
func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, department, hire_date, created_at FROM employees WHERE id = ?", id)
	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, department, hire_date, created_at FROM employees ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func scanEmployee(sc scanner) (Employee, error) {
	var emp Employee
	var email, dept sql.NullString
	var hireDate, createdAt string
	if err := sc.Scan(&emp.ID, &emp.Name, &email, &dept, &hireDate, &createdAt); err != nil {
		return Employee{}, err
	}
	emp.Email = email.String
	emp.Department = dept.String
	emp.HireDate = parseDate(hireDate)
	emp.CreatedAt = parseTime(createdAt)
	return emp, nil
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Holiday is a company holiday. A recurring holiday repeats on the same
// month and day every year.
type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	Recurring bool
}

// SaveHoliday saves a holiday; a second save of the same date and name
// updates the recurring flag.
func (s *Store) SaveHoliday(ctx context.Context, h Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, name) DO UPDATE SET
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID, formatDate(h.Date), h.Name, h.Recurring, formatTime(time.Now()))
	return err
}

// DeleteHoliday deletes a holiday by ID and reports whether it existed.
func (s *Store) DeleteHoliday(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListHolidays returns all holidays ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, name, recurring FROM holidays ORDER BY date ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []Holiday
	for rows.Next() {
		var h Holiday
		var date string
		if err := rows.Scan(&h.ID, &date, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		h.Date = parseDate(date)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// IsHoliday checks if a date is a one-off or recurring holiday. A lookup
// failure reads as "not a holiday".
func (s *Store) IsHoliday(date time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*) FROM holidays
		WHERE (recurring = FALSE AND date = ?)
		   OR (recurring = TRUE AND strftime('%m-%d', date) = ?)
	`

	var count int
	if err := s.db.QueryRow(query, formatDate(date), date.Format("01-02")).Scan(&count); err != nil {
		return false
	}
	return count > 0
}

// =============================================================================
// HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

func formatDate(t time.Time) string { return t.Format(worktime.DateLayout) }

func parseDate(s string) time.Time {
	t, _ := time.Parse(worktime.DateLayout, s)
	return t
}

// parseDecimal reads a TEXT amount; unreadable values become zero.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// monthPattern is the LIKE pattern matching "YYYY-MM-DD" dates of ym.
func monthPattern(ym worktime.YearMonth) string { return ym.String() + "-%" }
