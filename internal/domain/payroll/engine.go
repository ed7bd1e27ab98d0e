package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// PeriodAttendance is the part of a month's attendance that drives pay.
type PeriodAttendance struct {
	TotalHours  decimal.Decimal
	PresentDays int
}

// SummarizeAttendance sums work hours and counts completed records. Active
// records do not count toward pay.
func SummarizeAttendance(records []attendance.Attendance) PeriodAttendance {
	sum := PeriodAttendance{TotalHours: decimal.Zero}
	for _, r := range records {
		if r.Status != attendance.StatusCompleted {
			continue
		}
		sum.TotalHours = sum.TotalHours.Add(decimal.NewFromFloat(r.WorkHours))
		sum.PresentDays++
	}
	return sum
}

// Computation is the money side of a salary record.
type Computation struct {
	TotalHours  decimal.Decimal
	HourlyRate  decimal.Decimal
	GrossSalary decimal.Decimal
	Deductions  decimal.Decimal
	Bonuses     decimal.Decimal
	NetSalary   decimal.Decimal
}

// ProRataBreakdown explains a pro-rata computation.
type ProRataBreakdown struct {
	BaseSalary    decimal.Decimal `json:"base_salary"`
	WorkingDays   int             `json:"working_days"`
	PresentDays   int             `json:"present_days"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
	ProRataSalary decimal.Decimal `json:"pro_rata_salary"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	Formula       string          `json:"formula"`
}

// ComputeHourly: gross = total hours x hourly rate.
func ComputeHourly(period PeriodAttendance, hourlyRate, deductions, bonuses decimal.Decimal) Computation {
	hours := period.TotalHours.Round(2)
	gross := hours.Mul(hourlyRate).Round(2)
	return Computation{
		TotalHours:  hours,
		HourlyRate:  hourlyRate,
		GrossSalary: gross,
		Deductions:  deductions,
		Bonuses:     bonuses,
		NetSalary:   Net(gross, deductions, bonuses),
	}
}

// ComputeProRata: gross = (base / working days) x present days.
func ComputeProRata(period PeriodAttendance, baseSalary, hourlyRate decimal.Decimal, workingDays int, deductions, bonuses decimal.Decimal) (Computation, ProRataBreakdown, error) {
	if !baseSalary.IsPositive() {
		return Computation{}, ProRataBreakdown{}, ErrMissingBaseSalary
	}
	if workingDays <= 0 {
		return Computation{}, ProRataBreakdown{}, ErrNoWorkingDays
	}

	dailyRate := baseSalary.Div(decimal.NewFromInt(int64(workingDays)))
	gross := dailyRate.Mul(decimal.NewFromInt(int64(period.PresentDays))).Round(2)
	hours := period.TotalHours.Round(2)

	breakdown := ProRataBreakdown{
		BaseSalary:    baseSalary,
		WorkingDays:   workingDays,
		PresentDays:   period.PresentDays,
		DailyRate:     dailyRate.Round(2),
		ProRataSalary: gross,
		TotalHours:    hours,
		Formula:       fmt.Sprintf("(%s / %d) * %d = %s", baseSalary.String(), workingDays, period.PresentDays, gross.StringFixed(2)),
	}

	return Computation{
		TotalHours:  hours,
		HourlyRate:  hourlyRate,
		GrossSalary: gross,
		Deductions:  deductions,
		Bonuses:     bonuses,
		NetSalary:   Net(gross, deductions, bonuses),
	}, breakdown, nil
}

func Net(gross, deductions, bonuses decimal.Decimal) decimal.Decimal {
	return gross.Sub(deductions).Add(bonuses)
}

// Apply copies a computation onto a record.
func (c Computation) Apply(r *SalaryRecord) {
	r.TotalHours = c.TotalHours
	r.HourlyRate = c.HourlyRate
	r.GrossSalary = c.GrossSalary
	r.Deductions = c.Deductions
	r.Bonuses = c.Bonuses
	r.NetSalary = c.NetSalary
}
