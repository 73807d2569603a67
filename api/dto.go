/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

FORMATS:
  - Hours and money are decimal strings ("4.35"); numbers are accepted on input
  - Dates are "2006-01-02", timestamps RFC3339, months "2006-01"

VALIDATION:
  Request types carry `validate` tags checked by go-playground/validator
  in decodeRequest. Business rules stay in the domain packages.

SEE ALSO:
  - handlers.go: decodeRequest, writeJSON
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/leave"
	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/payroll"
	"github.com/warp/attendance-engine/shift"
	"github.com/warp/attendance-engine/store/sqlite"
	"github.com/warp/attendance-engine/worktime"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error      string            `json:"error"`
	Code       string            `json:"code"`
	Details    string            `json:"details,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	Issues     []IssueDTO        `json:"issues,omitempty"`
	LimitCheck *LimitCheckDTO    `json:"limit_check,omitempty"`
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
	HireDate   string `json:"hire_date"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID         string `json:"id" validate:"omitempty,max=64"`
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"omitempty,email"`
	Department string `json:"department" validate:"omitempty,max=100"`
	HireDate   string `json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
}

func toEmployeeDTO(e sqlite.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Department: e.Department,
		HireDate:   e.HireDate.Format(worktime.DateLayout),
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// WORK HOURS
// =============================================================================

// WorkHoursRequest asks for the work-window hours between two timestamps.
// Timestamps are RFC3339 or zone-less "2006-01-02T15:04".
type WorkHoursRequest struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// WorkHoursDTO is the computed result with its per-day breakdown.
type WorkHoursDTO struct {
	Hours         decimal.Decimal `json:"hours"`
	InvalidRange  bool            `json:"invalid_range"`
	SameDay       bool            `json:"same_day"`
	FirstDayHours decimal.Decimal `json:"first_day_hours"`
	FullDays      int             `json:"full_days"`
	FullDayHours  decimal.Decimal `json:"full_day_hours"`
	LastDayHours  decimal.Decimal `json:"last_day_hours"`
}

func toWorkHoursDTO(r worktime.Result) WorkHoursDTO {
	return WorkHoursDTO{
		Hours:         r.Hours,
		InvalidRange:  r.InvalidRange,
		SameDay:       r.SameDay,
		FirstDayHours: r.FirstDayHours,
		FullDays:      r.FullDays,
		FullDayHours:  r.FullDayHours,
		LastDayHours:  r.LastDayHours,
	}
}

// =============================================================================
// LEAVE
// =============================================================================

// LeaveTypeDTO is one entry of the leave type catalogue.
type LeaveTypeDTO struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// ValidateLeaveRequest checks a prospective leave request. With an
// employee id the stored balance is used; otherwise Balance, if given.
type ValidateLeaveRequest struct {
	EmployeeID string           `json:"employee_id"`
	Type       string           `json:"type" validate:"required"`
	Start      string           `json:"start" validate:"required"`
	End        string           `json:"end" validate:"required"`
	Balance    *decimal.Decimal `json:"balance,omitempty"`
}

// IssueDTO is one validation finding.
type IssueDTO struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// LeaveValidationDTO is the result of a leave validation.
type LeaveValidationDTO struct {
	Valid    bool            `json:"valid"`
	Hours    decimal.Decimal `json:"hours"`
	Days     decimal.Decimal `json:"days"`
	SameDay  bool            `json:"same_day"`
	Errors   []IssueDTO      `json:"errors"`
	Warnings []IssueDTO      `json:"warnings"`
}

func toIssueDTOs(issues []leave.Issue) []IssueDTO {
	out := make([]IssueDTO, len(issues))
	for i, is := range issues {
		out[i] = IssueDTO{Code: is.Code, Field: is.Field, Message: is.Message}
	}
	return out
}

func toLeaveValidationDTO(v leave.Validation) LeaveValidationDTO {
	return LeaveValidationDTO{
		Valid:    v.Valid(),
		Hours:    v.Hours,
		Days:     v.Days,
		SameDay:  v.SameDay,
		Errors:   toIssueDTOs(v.Errors()),
		Warnings: toIssueDTOs(v.Warnings()),
	}
}

// SubmitLeaveRequest is an employee's leave application.
type SubmitLeaveRequest struct {
	Type   string `json:"type" validate:"required"`
	Start  string `json:"start" validate:"required"`
	End    string `json:"end" validate:"required"`
	Reason string `json:"reason" validate:"required"`
}

// LeaveRequestDTO represents a stored leave request.
type LeaveRequestDTO struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	Type          string          `json:"type"`
	TypeLabel     string          `json:"type_label"`
	Start         string          `json:"start"`
	End           string          `json:"end"`
	Hours         decimal.Decimal `json:"hours"`
	Days          decimal.Decimal `json:"days"`
	Reason        string          `json:"reason"`
	Status        string          `json:"status"`
	ReviewedBy    string          `json:"reviewed_by,omitempty"`
	ReviewComment string          `json:"review_comment,omitempty"`
	ReviewedAt    *string         `json:"reviewed_at,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

func toLeaveRequestDTO(r leave.Request) LeaveRequestDTO {
	return LeaveRequestDTO{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Type:          string(r.Type),
		TypeLabel:     r.Type.Label(),
		Start:         r.Start.Format(time.RFC3339),
		End:           r.End.Format(time.RFC3339),
		Hours:         r.Hours,
		Days:          r.Days,
		Reason:        r.Reason,
		Status:        string(r.Status),
		ReviewedBy:    r.ReviewedBy,
		ReviewComment: r.ReviewComment,
		ReviewedAt:    timePtr(r.ReviewedAt),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
}

// SubmitLeaveResponse carries the stored request and any warnings.
type SubmitLeaveResponse struct {
	Request  LeaveRequestDTO `json:"request"`
	Warnings []IssueDTO      `json:"warnings"`
}

// ReviewRequest approves or rejects a pending request.
type ReviewRequest struct {
	Reviewer string `json:"reviewer" validate:"required"`
	Comment  string `json:"comment" validate:"max=500"`
}

// LeaveBalancesDTO maps leave type to remaining days.
type LeaveBalancesDTO struct {
	EmployeeID string                     `json:"employee_id"`
	Balances   map[string]decimal.Decimal `json:"balances"`
}

// SetLeaveBalancesRequest sets the remaining days of the listed types.
type SetLeaveBalancesRequest struct {
	Balances map[string]decimal.Decimal `json:"balances" validate:"required,min=1"`
}

// =============================================================================
// OVERTIME
// =============================================================================

// ClassifyOvertimeRequest splits an overtime span into pay tiers. With an
// hourly rate the pay is included.
type ClassifyOvertimeRequest struct {
	Date       string           `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime  string           `json:"start_time" validate:"required"`
	EndTime    string           `json:"end_time" validate:"required"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
}

// TierHoursDTO is the part of an overtime span paid at one multiplier.
type TierHoursDTO struct {
	Hours      decimal.Decimal `json:"hours"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// ClassificationDTO is a classified overtime span.
type ClassificationDTO struct {
	Date          string           `json:"date"`
	StartTime     string           `json:"start_time,omitempty"`
	EndTime       string           `json:"end_time,omitempty"`
	DayType       string           `json:"day_type"`
	Hours         decimal.Decimal  `json:"hours"`
	Tiers         []TierHoursDTO   `json:"tiers"`
	WeightedHours decimal.Decimal  `json:"weighted_hours"`
	Pay           *decimal.Decimal `json:"pay,omitempty"`
}

func toClassificationDTO(c overtime.Classification, rate *decimal.Decimal) ClassificationDTO {
	dto := ClassificationDTO{
		Date:          c.Date.Format(worktime.DateLayout),
		StartTime:     c.StartTime,
		EndTime:       c.EndTime,
		DayType:       string(c.DayType),
		Hours:         c.Hours,
		Tiers:         make([]TierHoursDTO, len(c.Tiers)),
		WeightedHours: c.WeightedHours(),
	}
	for i, t := range c.Tiers {
		dto.Tiers[i] = TierHoursDTO{Hours: t.Hours, Multiplier: t.Multiplier}
	}
	if rate != nil {
		pay := c.Pay(*rate).Round(2)
		dto.Pay = &pay
	}
	return dto
}

// OvertimeRecordDTO is an explicit overtime record for a stateless limit check.
type OvertimeRecordDTO struct {
	Date   string          `json:"date" validate:"required,datetime=2006-01-02"`
	Hours  decimal.Decimal `json:"hours"`
	Status string          `json:"status" validate:"required"`
}

// LimitCheckRequest checks new hours against the ceiling over explicit
// records. Ceiling defaults to the configured one.
type LimitCheckRequest struct {
	Month    string              `json:"month" validate:"required,datetime=2006-01"`
	NewHours decimal.Decimal     `json:"new_hours"`
	Records  []OvertimeRecordDTO `json:"records" validate:"dive"`
	Ceiling  *decimal.Decimal    `json:"ceiling,omitempty"`
}

// LimitCheckDTO is the answer of a monthly ceiling check.
type LimitCheckDTO struct {
	Month        string          `json:"month"`
	CurrentHours decimal.Decimal `json:"current_hours"`
	NewHours     decimal.Decimal `json:"new_hours"`
	TotalAfter   decimal.Decimal `json:"total_after"`
	Exceeded     decimal.Decimal `json:"exceeded"`
	Ceiling      decimal.Decimal `json:"ceiling"`
	WithinLimit  bool            `json:"within_limit"`
	Degraded     bool            `json:"degraded,omitempty"`
}

func toLimitCheckDTO(c overtime.LimitCheck) LimitCheckDTO {
	return LimitCheckDTO{
		Month:        c.YearMonth.String(),
		CurrentHours: c.CurrentHours,
		NewHours:     c.NewHours,
		TotalAfter:   c.TotalAfter,
		Exceeded:     c.Exceeded,
		Ceiling:      c.Ceiling,
		WithinLimit:  c.WithinLimit,
		Degraded:     c.Degraded,
	}
}

// SubmitOvertimeRequest is an employee's overtime application. Hours
// overrides the clock span; CompensatoryHours is the second-phase
// allocation when the ceiling is exceeded.
type SubmitOvertimeRequest struct {
	Date              string           `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime         string           `json:"start_time" validate:"required"`
	EndTime           string           `json:"end_time" validate:"required"`
	Hours             *decimal.Decimal `json:"hours,omitempty"`
	Reason            string           `json:"reason" validate:"required"`
	CompensatoryHours *decimal.Decimal `json:"compensatory_hours,omitempty"`
}

// OvertimeRequestDTO represents a stored overtime request.
type OvertimeRequestDTO struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	Date              string          `json:"date"`
	StartTime         string          `json:"start_time"`
	EndTime           string          `json:"end_time"`
	Hours             decimal.Decimal `json:"hours"`
	CompensatoryHours decimal.Decimal `json:"compensatory_hours"`
	PaidHours         decimal.Decimal `json:"paid_hours"`
	Reason            string          `json:"reason"`
	Status            string          `json:"status"`
	ReviewedBy        string          `json:"reviewed_by,omitempty"`
	ReviewComment     string          `json:"review_comment,omitempty"`
	ReviewedAt        *string         `json:"reviewed_at,omitempty"`
	CreatedAt         string          `json:"created_at"`
}

func toOvertimeRequestDTO(r overtime.Request) OvertimeRequestDTO {
	return OvertimeRequestDTO{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		Date:              r.Date.Format(worktime.DateLayout),
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		Hours:             r.Hours,
		CompensatoryHours: r.CompensatoryHours,
		PaidHours:         r.PaidHours(),
		Reason:            r.Reason,
		Status:            string(r.Status),
		ReviewedBy:        r.ReviewedBy,
		ReviewComment:     r.ReviewComment,
		ReviewedAt:        timePtr(r.ReviewedAt),
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
	}
}

func toOvertimeRequestDTOs(reqs []overtime.Request) []OvertimeRequestDTO {
	out := make([]OvertimeRequestDTO, len(reqs))
	for i, r := range reqs {
		out[i] = toOvertimeRequestDTO(r)
	}
	return out
}

// SubmitOvertimeResponse carries the stored request and its limit check.
type SubmitOvertimeResponse struct {
	Request    OvertimeRequestDTO `json:"request"`
	LimitCheck LimitCheckDTO      `json:"limit_check"`
}

// OvertimeSummaryDTO is an employee's overtime position for a month.
type OvertimeSummaryDTO struct {
	EmployeeID        string          `json:"employee_id"`
	Month             string          `json:"month"`
	Ceiling           decimal.Decimal `json:"ceiling"`
	ApprovedHours     decimal.Decimal `json:"approved_hours"`
	PendingHours      decimal.Decimal `json:"pending_hours"`
	CompensatoryHours decimal.Decimal `json:"compensatory_hours"`
	Remaining         decimal.Decimal `json:"remaining"`
	Exceeded          decimal.Decimal `json:"exceeded"`
	ApprovedCount     int             `json:"approved_count"`
	PendingCount      int             `json:"pending_count"`
	RejectedCount     int             `json:"rejected_count"`
}

func toOvertimeSummaryDTO(s overtime.MonthlySummary) OvertimeSummaryDTO {
	return OvertimeSummaryDTO{
		EmployeeID:        s.EmployeeID,
		Month:             s.YearMonth.String(),
		Ceiling:           s.Ceiling,
		ApprovedHours:     s.ApprovedHours,
		PendingHours:      s.PendingHours,
		CompensatoryHours: s.CompensatoryHours,
		Remaining:         s.Remaining,
		Exceeded:          s.Exceeded,
		ApprovedCount:     s.ApprovedCount,
		PendingCount:      s.PendingCount,
		RejectedCount:     s.RejectedCount,
	}
}

// CeilingAlertDTO represents a recorded ceiling breach.
type CeilingAlertDTO struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	Month         string          `json:"month"`
	ApprovedHours decimal.Decimal `json:"approved_hours"`
	Ceiling       decimal.Decimal `json:"ceiling"`
	Exceeded      decimal.Decimal `json:"exceeded"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

func toCeilingAlertDTO(a sqlite.CeilingAlert) CeilingAlertDTO {
	return CeilingAlertDTO{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		Month:         a.YearMonth.String(),
		ApprovedHours: a.ApprovedHours,
		Ceiling:       a.Ceiling,
		Exceeded:      a.Exceeded,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     a.UpdatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// PutAttendanceRequest records the punches of one day. Punches are
// RFC3339 or zone-less timestamps.
type PutAttendanceRequest struct {
	PunchIn  string `json:"punch_in"`
	PunchOut string `json:"punch_out"`
	Status   string `json:"status" validate:"max=64"`
}

type AttendanceOvertimeDTO struct {
	Hours     decimal.Decimal `json:"hours"`
	StartTime string          `json:"start_time"`
	EndTime   string          `json:"end_time"`
	Status    string          `json:"status"`
}

type AttendanceLeaveDTO struct {
	Type   string          `json:"type"`
	Days   decimal.Decimal `json:"days"`
	Status string          `json:"status"`
}

// AttendanceDayDTO is one calendar day of attendance.
type AttendanceDayDTO struct {
	Date     string                 `json:"date"`
	PunchIn  *string                `json:"punch_in,omitempty"`
	PunchOut *string                `json:"punch_out,omitempty"`
	Status   string                 `json:"status,omitempty"`
	Abnormal bool                   `json:"abnormal"`
	Overtime *AttendanceOvertimeDTO `json:"overtime,omitempty"`
	Leave    *AttendanceLeaveDTO    `json:"leave,omitempty"`
}

func toAttendanceDayDTO(d attendance.Day) AttendanceDayDTO {
	dto := AttendanceDayDTO{
		Date:     d.Date.Format(worktime.DateLayout),
		PunchIn:  timePtr(d.PunchIn),
		PunchOut: timePtr(d.PunchOut),
		Status:   d.Status,
		Abnormal: d.Abnormal(),
	}
	if ot := d.Overtime; ot != nil {
		dto.Overtime = &AttendanceOvertimeDTO{Hours: ot.Hours, StartTime: ot.StartTime, EndTime: ot.EndTime, Status: ot.Status}
	}
	if lv := d.Leave; lv != nil {
		dto.Leave = &AttendanceLeaveDTO{Type: lv.Type, Days: lv.Days, Status: lv.Status}
	}
	return dto
}

// AttendanceStatsDTO is the monthly attendance panel.
type AttendanceStatsDTO struct {
	EmployeeID    string          `json:"employee_id"`
	Month         string          `json:"month"`
	WorkDays      int             `json:"work_days"`
	NormalDays    int             `json:"normal_days"`
	AbnormalDays  int             `json:"abnormal_days"`
	WorkHours     decimal.Decimal `json:"work_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	LeaveDays     decimal.Decimal `json:"leave_days"`
}

// =============================================================================
// SALARY AND PAYROLL
// =============================================================================

// AllowancesDTO mirrors payroll.Allowances.
type AllowancesDTO struct {
	Position         decimal.Decimal `json:"position"`
	Meal             decimal.Decimal `json:"meal"`
	Transport        decimal.Decimal `json:"transport"`
	AttendanceBonus  decimal.Decimal `json:"attendance_bonus"`
	PerformanceBonus decimal.Decimal `json:"performance_bonus"`
	Other            decimal.Decimal `json:"other"`
}

// DeductionsDTO mirrors payroll.Deductions.
type DeductionsDTO struct {
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

// SalaryConfigDTO is an employee's salary configuration, used both ways.
type SalaryConfigDTO struct {
	EmployeeID string          `json:"employee_id,omitempty"`
	SalaryType string          `json:"salary_type" validate:"required,oneof=monthly hourly"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Allowances AllowancesDTO   `json:"allowances"`
	Deductions DeductionsDTO   `json:"deductions"`
	UpdatedAt  string          `json:"updated_at,omitempty"`
}

func toSalaryConfigDTO(c payroll.SalaryConfig) SalaryConfigDTO {
	dto := SalaryConfigDTO{
		EmployeeID: c.EmployeeID,
		SalaryType: string(c.Type),
		BaseSalary: c.BaseSalary,
		HourlyRate: c.HourlyRate,
		Allowances: AllowancesDTO(c.Allowances),
		Deductions: DeductionsDTO(c.Deductions),
	}
	if !c.UpdatedAt.IsZero() {
		dto.UpdatedAt = c.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

func (d SalaryConfigDTO) toDomain(employeeID string, now time.Time) payroll.SalaryConfig {
	return payroll.SalaryConfig{
		EmployeeID: employeeID,
		Type:       payroll.SalaryType(d.SalaryType),
		BaseSalary: d.BaseSalary,
		HourlyRate: d.HourlyRate,
		Allowances: payroll.Allowances(d.Allowances),
		Deductions: payroll.Deductions(d.Deductions),
		UpdatedAt:  now,
	}
}

// OvertimePayDTO is the overtime part of a payroll breakdown.
type OvertimePayDTO struct {
	WeekdayHours decimal.Decimal `json:"weekday_hours"`
	RestDayHours decimal.Decimal `json:"rest_day_hours"`
	HolidayHours decimal.Decimal `json:"holiday_hours"`
	Weekday      decimal.Decimal `json:"weekday"`
	RestDay      decimal.Decimal `json:"rest_day"`
	Holiday      decimal.Decimal `json:"holiday"`
	Total        decimal.Decimal `json:"total"`
}

// PayrollDTO is a monthly salary breakdown.
type PayrollDTO struct {
	EmployeeID        string          `json:"employee_id"`
	Month             string          `json:"month"`
	SalaryType        string          `json:"salary_type"`
	HourlyRate        decimal.Decimal `json:"hourly_rate"`
	WorkHours         decimal.Decimal `json:"work_hours"`
	BaseSalary        decimal.Decimal `json:"base_salary"`
	Allowances        AllowancesDTO   `json:"allowances"`
	AllowancesTotal   decimal.Decimal `json:"allowances_total"`
	Overtime          OvertimePayDTO  `json:"overtime"`
	CompensatoryHours decimal.Decimal `json:"compensatory_hours"`
	Deductions        DeductionsDTO   `json:"deductions"`
	GrossSalary       decimal.Decimal `json:"gross_salary"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	NetSalary         decimal.Decimal `json:"net_salary"`
}

func toPayrollDTO(b payroll.Breakdown) PayrollDTO {
	return PayrollDTO{
		EmployeeID:      b.EmployeeID,
		Month:           b.YearMonth.String(),
		SalaryType:      string(b.SalaryType),
		HourlyRate:      b.HourlyRate.Round(2),
		WorkHours:       b.WorkHours,
		BaseSalary:      b.BaseSalary,
		Allowances:      AllowancesDTO(b.Allowances),
		AllowancesTotal: b.Allowances.Total(),
		Overtime: OvertimePayDTO{
			WeekdayHours: b.Overtime.WeekdayHours,
			RestDayHours: b.Overtime.RestDayHours,
			HolidayHours: b.Overtime.HolidayHours,
			Weekday:      b.Overtime.Weekday,
			RestDay:      b.Overtime.RestDay,
			Holiday:      b.Overtime.Holiday,
			Total:        b.Overtime.Total(),
		},
		CompensatoryHours: b.CompensatoryHours,
		Deductions:        DeductionsDTO(b.Deductions),
		GrossSalary:       b.GrossSalary,
		TotalDeductions:   b.TotalDeductions,
		NetSalary:         b.NetSalary,
	}
}

// =============================================================================
// SHIFTS AND HOLIDAYS
// =============================================================================

// CreateShiftRequest schedules a shift. Preset types fill in missing times.
type CreateShiftRequest struct {
	EmployeeID   string `json:"employee_id" validate:"required"`
	EmployeeName string `json:"employee_name"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Type         string `json:"type" validate:"required"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Note         string `json:"note" validate:"max=500"`
}

// ShiftDTO represents a scheduled shift.
type ShiftDTO struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name,omitempty"`
	Date         string          `json:"date"`
	Type         string          `json:"type"`
	StartTime    string          `json:"start_time,omitempty"`
	EndTime      string          `json:"end_time,omitempty"`
	Hours        decimal.Decimal `json:"hours"`
	Note         string          `json:"note,omitempty"`
}

func toShiftDTO(s shift.Shift) ShiftDTO {
	return ShiftDTO{
		ID:           s.ID,
		EmployeeID:   s.EmployeeID,
		EmployeeName: s.EmployeeName,
		Date:         s.Date.Format(worktime.DateLayout),
		Type:         string(s.Type),
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		Hours:        s.Hours(),
		Note:         s.Note,
	}
}

type EmployeeShiftsDTO struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name,omitempty"`
	Shifts       int             `json:"shifts"`
	Hours        decimal.Decimal `json:"hours"`
}

// ShiftStatsDTO is the monthly schedule summary.
type ShiftStatsDTO struct {
	Month          string              `json:"month"`
	Total          int                 `json:"total"`
	ByType         map[string]int      `json:"by_type"`
	ByEmployee     []EmployeeShiftsDTO `json:"by_employee"`
	ScheduledHours decimal.Decimal     `json:"scheduled_hours"`
}

func toShiftStatsDTO(st shift.MonthlyStats) ShiftStatsDTO {
	dto := ShiftStatsDTO{
		Month:          st.YearMonth.String(),
		Total:          st.Total,
		ByType:         make(map[string]int, len(st.ByType)),
		ByEmployee:     make([]EmployeeShiftsDTO, len(st.ByEmployee)),
		ScheduledHours: st.ScheduledHours,
	}
	for t, n := range st.ByType {
		dto.ByType[string(t)] = n
	}
	for i, ec := range st.ByEmployee {
		dto.ByEmployee[i] = EmployeeShiftsDTO(ec)
	}
	return dto
}

// HolidayDTO represents a company holiday.
type HolidayDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// CreateHolidayRequest is the request to add a holiday.
type CreateHolidayRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Name      string `json:"name" validate:"required,max=200"`
	Recurring bool   `json:"recurring"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

func timePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
