package dashboard

import (
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// STATS
// ========================================

type StatsRequest struct {
	Period calendar.Period `json:"period"`
}

func (r *StatsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Period == "" {
		r.Period = calendar.PeriodToday
	}
	switch r.Period {
	case calendar.PeriodToday, calendar.PeriodWeek, calendar.PeriodMonth:
	default:
		errs.Add("period", "period must be one of: today, week, month")
	}

	return errs.Err()
}

type SummaryStats struct {
	TotalEmployees int     `json:"total_employees"`
	PresentToday   int     `json:"present_today"`
	CheckedOut     int     `json:"checked_out"`
	StillPresent   int     `json:"still_present"`
	AbsentToday    int     `json:"absent_today"`
	LateToday      int     `json:"late_today"`
	AttendanceRate float64 `json:"attendance_rate"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type PeriodStats struct {
	Period             calendar.Period `json:"period"`
	DateRange          DateRange       `json:"date_range"`
	WorkingDays        int             `json:"working_days"`
	TotalHoursWorked   float64         `json:"total_hours_worked"`
	AverageHoursPerDay float64         `json:"average_hours_per_day"`
	TotalAttendances   int             `json:"total_attendances"`
}

type DepartmentStats struct {
	Department    string          `json:"department"`
	Count         int             `json:"count"`
	AverageSalary decimal.Decimal `json:"average_salary"`
}

type TodayDetail struct {
	EmployeeID string            `json:"employee_id"`
	CheckIn    string            `json:"check_in"`
	CheckOut   *string           `json:"check_out,omitempty"`
	WorkHours  float64           `json:"work_hours"`
	Status     attendance.Status `json:"status"`
}

type StatsResponse struct {
	Summary     SummaryStats      `json:"summary"`
	PeriodStats PeriodStats       `json:"period_stats"`
	Departments []DepartmentStats `json:"departments"`
	Today       []TodayDetail     `json:"today"`
}

// ========================================
// ATTENDANCE REPORT
// ========================================

type AttendanceReportRequest struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Department *string `json:"department,omitempty"`
}

func (r *AttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if validator.IsEmpty(r.StartDate) {
		errs.Add("start_date", "start_date is required")
	} else if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if validator.IsEmpty(r.EndDate) {
		errs.Add("end_date", "end_date is required")
	} else if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}

	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}

	return errs.Err()
}

type EmployeeInfo struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	Name         string `json:"name"`
	Department   string `json:"department"`
	Position     string `json:"position"`
}

type ReportSummary struct {
	TotalDays      int     `json:"total_days"`
	CompletedDays  int     `json:"completed_days"`
	FullDays       int     `json:"full_days"`
	IncompleteDays int     `json:"incomplete_days"`
	TotalHours     float64 `json:"total_hours"`
	AverageHours   float64 `json:"average_hours"`
}

type DailyRecord struct {
	Date      string    `json:"date"`
	CheckIn   string    `json:"check_in"`
	CheckOut  *string   `json:"check_out,omitempty"`
	WorkHours float64   `json:"work_hours"`
	Status    DayStatus `json:"status"`
	Color     Color     `json:"color"`
}

type EmployeeReport struct {
	Employee     EmployeeInfo  `json:"employee"`
	Summary      ReportSummary `json:"summary"`
	DailyRecords []DailyRecord `json:"daily_records"`
}

type AttendanceReportResponse struct {
	Period DateRange        `json:"period"`
	Report []EmployeeReport `json:"report"`
}

// ========================================
// LIVE STATUS
// ========================================

type LiveEmployeeStatus struct {
	Employee         EmployeeInfo `json:"employee"`
	Status           LiveState    `json:"status"`
	StatusColor      Color        `json:"status_color"`
	CheckInTime      *string      `json:"check_in_time,omitempty"`
	CheckOutTime     *string      `json:"check_out_time,omitempty"`
	CurrentWorkHours float64      `json:"current_work_hours"`
}

type LiveStatusResponse struct {
	Date      string               `json:"date"`
	Timestamp string               `json:"timestamp"`
	Employees []LiveEmployeeStatus `json:"employees"`
}
