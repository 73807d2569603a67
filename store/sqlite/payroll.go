package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/payroll"
)

// =============================================================================
// SALARY CONFIGURATION (payroll.ConfigSource interface)
// =============================================================================

// allowancesRecord is the allowances_json column layout.
type allowancesRecord struct {
	Position         decimal.Decimal `json:"position"`
	Meal             decimal.Decimal `json:"meal"`
	Transport        decimal.Decimal `json:"transport"`
	AttendanceBonus  decimal.Decimal `json:"attendance_bonus"`
	PerformanceBonus decimal.Decimal `json:"performance_bonus"`
	Other            decimal.Decimal `json:"other"`
}

// deductionsRecord is the deductions_json column layout.
type deductionsRecord struct {
	LaborInsurance      decimal.Decimal `json:"labor_insurance"`
	HealthInsurance     decimal.Decimal `json:"health_insurance"`
	EmploymentInsurance decimal.Decimal `json:"employment_insurance"`
	PensionSelf         decimal.Decimal `json:"pension_self"`
	IncomeTax           decimal.Decimal `json:"income_tax"`
	WelfareFund         decimal.Decimal `json:"welfare_fund"`
	Dormitory           decimal.Decimal `json:"dormitory"`
	GroupInsurance      decimal.Decimal `json:"group_insurance"`
	Leave               decimal.Decimal `json:"leave"`
	Other               decimal.Decimal `json:"other"`
}

// SaveSalaryConfig upserts an employee's salary configuration.
func (s *Store) SaveSalaryConfig(ctx context.Context, c payroll.SalaryConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowances, err := json.Marshal(allowancesRecord(c.Allowances))
	if err != nil {
		return fmt.Errorf("failed to encode allowances: %w", err)
	}
	deductions, err := json.Marshal(deductionsRecord(c.Deductions))
	if err != nil {
		return fmt.Errorf("failed to encode deductions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO salary_configs (employee_id, salary_type, base_salary, hourly_rate,
			allowances_json, deductions_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id) DO UPDATE SET
			salary_type = excluded.salary_type,
			base_salary = excluded.base_salary,
			hourly_rate = excluded.hourly_rate,
			allowances_json = excluded.allowances_json,
			deductions_json = excluded.deductions_json,
			updated_at = excluded.updated_at
	`,
		c.EmployeeID,
		string(c.Type),
		c.BaseSalary.String(),
		c.HourlyRate.String(),
		string(allowances),
		string(deductions),
		formatTime(c.UpdatedAt),
	)
	return err
}

// SalaryConfig returns an employee's salary configuration, or nil, nil.
func (s *Store) SalaryConfig(ctx context.Context, employeeID string) (*payroll.SalaryConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c payroll.SalaryConfig
	var typ, base, rate, allowancesJSON, deductionsJSON, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT employee_id, salary_type, base_salary, hourly_rate, allowances_json, deductions_json, updated_at
		FROM salary_configs WHERE employee_id = ?
	`, employeeID).Scan(&c.EmployeeID, &typ, &base, &rate, &allowancesJSON, &deductionsJSON, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var allowances allowancesRecord
	if err := json.Unmarshal([]byte(allowancesJSON), &allowances); err != nil {
		return nil, fmt.Errorf("failed to decode allowances: %w", err)
	}
	var deductions deductionsRecord
	if err := json.Unmarshal([]byte(deductionsJSON), &deductions); err != nil {
		return nil, fmt.Errorf("failed to decode deductions: %w", err)
	}

	c.Type = payroll.SalaryType(typ)
	c.BaseSalary = parseDecimal(base)
	c.HourlyRate = parseDecimal(rate)
	c.Allowances = payroll.Allowances(allowances)
	c.Deductions = payroll.Deductions(deductions)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}
