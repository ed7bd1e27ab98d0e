package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

type PayrollServiceImpl struct {
	salaryRepo     payroll.SalaryRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	auditRepo      audit.Repository
	transactor     database.Transactor
	calendar       *calendar.Calendar
	clock          calendar.Clock
}

func NewPayrollService(
	salaryRepo payroll.SalaryRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	auditRepo audit.Repository,
	transactor database.Transactor,
	cal *calendar.Calendar,
	clock calendar.Clock,
) payroll.SalaryService {
	return &PayrollServiceImpl{
		salaryRepo:     salaryRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		auditRepo:      auditRepo,
		transactor:     transactor,
		calendar:       cal,
		clock:          clock,
	}
}

type statusSnapshot struct {
	Status payroll.SalaryStatus `json:"status"`
	PaidAt *time.Time           `json:"paid_at,omitempty"`
}

// CalculateSalary implements payroll.SalaryService.
func (s *PayrollServiceImpl) CalculateSalary(ctx context.Context, req payroll.CalculateSalaryRequest) (payroll.CalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CalculationResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.CalculationResponse{}, err
	}

	first, last := s.calendar.MonthBounds(req.Month, req.Year)
	records, err := s.attendanceRepo.ListByEmployee(ctx, emp.ID, &first, &last)
	if err != nil {
		return payroll.CalculationResponse{}, fmt.Errorf("failed to get attendance for period: %w", err)
	}
	period := payroll.SummarizeAttendance(records)

	var (
		computation payroll.Computation
		breakdown   *payroll.ProRataBreakdown
	)
	switch req.Strategy {
	case payroll.StrategyProRata:
		workingDays := s.calendar.WorkingDaysInMonth(req.Month, req.Year)
		c, b, err := payroll.ComputeProRata(period, emp.BaseSalary, emp.HourlyRate, workingDays, req.Deductions, req.Bonuses)
		if err != nil {
			return payroll.CalculationResponse{}, err
		}
		computation, breakdown = c, &b
	default:
		computation = payroll.ComputeHourly(period, emp.HourlyRate, req.Deductions, req.Bonuses)
	}

	record := payroll.SalaryRecord{
		EmployeeID:  emp.ID,
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		Strategy:    req.Strategy,
	}
	computation.Apply(&record)

	var saved payroll.SalaryRecord
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var previous any
		existing, err := s.salaryRepo.GetByEmployeePeriod(ctx, emp.ID, req.Month, req.Year)
		switch {
		case err == nil:
			if existing.Status == payroll.SalaryStatusPaid {
				return payroll.ErrSalaryAlreadyPaid
			}
			previous = payroll.ToResponse(existing)
		case !errors.Is(err, payroll.ErrSalaryNotFound):
			return fmt.Errorf("failed to get existing salary record: %w", err)
		}

		saved, err = s.salaryRepo.Upsert(ctx, record)
		if err != nil {
			return err
		}

		_, err = s.auditRepo.Create(ctx, audit.Entry{
			Action:           audit.ActionSalaryAdjustment,
			PerformedBy:      req.Actor.UserID,
			TargetEmployeeID: &emp.ID,
			Description:      fmt.Sprintf("salary calculated for %02d/%d using %s strategy", req.Month, req.Year, req.Strategy),
			PreviousValue:    audit.Snapshot(previous),
			NewValue:         audit.Snapshot(payroll.ToResponse(saved)),
			IPAddress:        req.Actor.IPAddress,
			UserAgent:        req.Actor.UserAgent,
		})
		if err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.CalculationResponse{}, err
	}

	slog.Info("Salary calculated",
		"employee_id", emp.ID,
		"period", fmt.Sprintf("%d-%02d", req.Year, req.Month),
		"strategy", req.Strategy,
		"net_salary", saved.NetSalary.StringFixed(2),
	)

	return payroll.CalculationResponse{
		Record:    payroll.ToResponse(saved),
		Breakdown: breakdown,
	}, nil
}

// GetEmployeeSalaries implements payroll.SalaryService.
func (s *PayrollServiceImpl) GetEmployeeSalaries(ctx context.Context, employeeID string) ([]payroll.SalaryRecordResponse, error) {
	if !validator.IsValidUUID(employeeID) {
		return nil, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id must be a valid UUID"}}
	}

	records, err := s.salaryRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary records: %w", err)
	}

	responses := make([]payroll.SalaryRecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, payroll.ToResponse(r))
	}
	return responses, nil
}

// GetCurrentMonthSalary implements payroll.SalaryService.
func (s *PayrollServiceImpl) GetCurrentMonthSalary(ctx context.Context, employeeID string) (*payroll.SalaryRecordResponse, error) {
	if !validator.IsValidUUID(employeeID) {
		return nil, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id must be a valid UUID"}}
	}

	now := s.clock.Now().In(s.calendar.Location())

	record, err := s.salaryRepo.GetByEmployeePeriod(ctx, employeeID, int(now.Month()), now.Year())
	if err != nil {
		if errors.Is(err, payroll.ErrSalaryNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get current month salary: %w", err)
	}

	resp := payroll.ToResponse(record)
	return &resp, nil
}

// ListSalaries implements payroll.SalaryService.
func (s *PayrollServiceImpl) ListSalaries(ctx context.Context, filter payroll.SalaryFilter) (payroll.ListSalaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListSalaryResponse{}, err
	}

	records, err := s.salaryRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListSalaryResponse{}, fmt.Errorf("failed to list salary records: %w", err)
	}

	responses := make([]payroll.SalaryRecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, payroll.ToResponse(r))
	}

	return payroll.ListSalaryResponse{
		Summary: payroll.Summarize(records),
		Records: responses,
	}, nil
}

// UpdateStatus implements payroll.SalaryService.
func (s *PayrollServiceImpl) UpdateStatus(ctx context.Context, req payroll.UpdateSalaryStatusRequest) (payroll.SalaryRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	var updated payroll.SalaryRecord
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.salaryRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		noop, err := payroll.CheckTransition(current.Status, req.Status)
		if err != nil {
			return err
		}
		if noop {
			updated = current
			return nil
		}

		var paidAt *time.Time
		if req.Status == payroll.SalaryStatusPaid {
			now := s.clock.Now()
			paidAt = &now
		}

		updated, err = s.salaryRepo.UpdateStatus(ctx, current.ID, current.Status, req.Status, paidAt)
		if err != nil {
			return err
		}

		_, err = s.auditRepo.Create(ctx, audit.Entry{
			Action:           audit.ActionSalaryStatusChange,
			PerformedBy:      req.Actor.UserID,
			TargetEmployeeID: &updated.EmployeeID,
			Description:      fmt.Sprintf("salary status changed from %s to %s", current.Status, updated.Status),
			PreviousValue:    audit.Snapshot(statusSnapshot{Status: current.Status, PaidAt: current.PaidAt}),
			NewValue:         audit.Snapshot(statusSnapshot{Status: updated.Status, PaidAt: updated.PaidAt}),
			IPAddress:        req.Actor.IPAddress,
			UserAgent:        req.Actor.UserAgent,
		})
		if err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	slog.Info("Salary status updated", "salary_id", updated.ID, "status", updated.Status, "performed_by", req.Actor.UserID)
	return payroll.ToResponse(updated), nil
}
