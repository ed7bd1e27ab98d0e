package payroll

import (
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CALCULATION DTOs ==========

type CalculateSalaryRequest struct {
	EmployeeID string          `json:"employee_id"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Strategy   Strategy        `json:"strategy"`
	Deductions decimal.Decimal `json:"deductions"`
	Bonuses    decimal.Decimal `json:"bonuses"`
	Actor      audit.Actor     `json:"-"`
}

func (r *CalculateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if !validator.IsValidMonth(r.Month) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	if r.Strategy == "" {
		r.Strategy = StrategyHourly
	}
	if !r.Strategy.Valid() {
		errs.Add("strategy", "strategy must be one of: hourly, pro_rata")
	}
	if r.Deductions.IsNegative() {
		errs.Add("deductions", "deductions must be non-negative")
	}
	if r.Bonuses.IsNegative() {
		errs.Add("bonuses", "bonuses must be non-negative")
	}
	if validator.IsEmpty(r.Actor.UserID) {
		errs.Add("actor", "actor is required")
	}

	return errs.Err()
}

type UpdateSalaryStatusRequest struct {
	ID     string       `json:"-"`
	Status SalaryStatus `json:"status"`
	Actor  audit.Actor  `json:"-"`
}

func (r *UpdateSalaryStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if !r.Status.Valid() {
		errs.Add("status", "status must be one of: pending, processed, paid")
	}
	if validator.IsEmpty(r.Actor.UserID) {
		errs.Add("actor", "actor is required")
	}

	return errs.Err()
}

type SalaryFilter struct {
	Month  *int          `json:"month,omitempty"`
	Year   *int          `json:"year,omitempty"`
	Status *SalaryStatus `json:"status,omitempty"`
}

func (f *SalaryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != nil && !validator.IsValidMonth(*f.Month) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if f.Year != nil && (*f.Year < 2000 || *f.Year > 2100) {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	if f.Status != nil && !f.Status.Valid() {
		errs.Add("status", "status must be one of: pending, processed, paid")
	}

	return errs.Err()
}

// ========== RESPONSE DTOs ==========

type SalaryRecordResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName *string         `json:"employee_name,omitempty"`
	EmployeeCode *string         `json:"employee_code,omitempty"`
	Department   *string         `json:"department,omitempty"`
	PeriodMonth  int             `json:"period_month"`
	PeriodYear   int             `json:"period_year"`
	Strategy     Strategy        `json:"strategy"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	HourlyRate   decimal.Decimal `json:"hourly_rate"`
	GrossSalary  decimal.Decimal `json:"gross_salary"`
	Deductions   decimal.Decimal `json:"deductions"`
	Bonuses      decimal.Decimal `json:"bonuses"`
	NetSalary    decimal.Decimal `json:"net_salary"`
	Status       SalaryStatus    `json:"status"`
	PaidAt       *string         `json:"paid_at,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

type CalculationResponse struct {
	Record    SalaryRecordResponse `json:"record"`
	Breakdown *ProRataBreakdown    `json:"breakdown,omitempty"`
}

type SalarySummary struct {
	TotalRecords int             `json:"total_records"`
	TotalGross   decimal.Decimal `json:"total_gross"`
	TotalNet     decimal.Decimal `json:"total_net"`
	TotalPaid    int             `json:"total_paid"`
	TotalPending int             `json:"total_pending"`
}

type ListSalaryResponse struct {
	Summary SalarySummary          `json:"summary"`
	Records []SalaryRecordResponse `json:"records"`
}

func ToResponse(r SalaryRecord) SalaryRecordResponse {
	resp := SalaryRecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		EmployeeCode: r.EmployeeCode,
		Department:   r.Department,
		PeriodMonth:  r.PeriodMonth,
		PeriodYear:   r.PeriodYear,
		Strategy:     r.Strategy,
		TotalHours:   r.TotalHours,
		HourlyRate:   r.HourlyRate,
		GrossSalary:  r.GrossSalary,
		Deductions:   r.Deductions,
		Bonuses:      r.Bonuses,
		NetSalary:    r.NetSalary,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
	if r.PaidAt != nil {
		paidAt := r.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}

// Summarize totals a list of records.
func Summarize(records []SalaryRecord) SalarySummary {
	s := SalarySummary{TotalGross: decimal.Zero, TotalNet: decimal.Zero}
	for _, r := range records {
		s.TotalRecords++
		s.TotalGross = s.TotalGross.Add(r.GrossSalary)
		s.TotalNet = s.TotalNet.Add(r.NetSalary)
		switch r.Status {
		case SalaryStatusPaid:
			s.TotalPaid++
		case SalaryStatusPending:
			s.TotalPending++
		}
	}
	return s
}
