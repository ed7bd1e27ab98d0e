package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/calendar"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	calendar       *calendar.Calendar
	clock          calendar.Clock
	lateHour       int
}

func NewDashboardService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	cal *calendar.Calendar,
	clock calendar.Clock,
	lateHour int,
) dashboard.DashboardService {
	if lateHour <= 0 {
		lateHour = dashboard.DefaultLateHour
	}
	return &DashboardServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		calendar:       cal,
		clock:          clock,
		lateHour:       lateHour,
	}
}

// GetStats returns headline numbers for today plus totals over the period.
// The four reads are independent and run in parallel.
func (s *DashboardServiceImpl) GetStats(ctx context.Context, req dashboard.StatsRequest) (dashboard.StatsResponse, error) {
	if err := req.Validate(); err != nil {
		return dashboard.StatsResponse{}, err
	}

	now := s.clock.Now()
	today := s.calendar.Today(now)
	start, end := s.calendar.DateRange(req.Period, now)

	workingDays, err := s.calendar.WorkingDaysInRange(start, end)
	if err != nil {
		return dashboard.StatsResponse{}, err
	}

	var (
		totalEmployees int
		todayRecords   []attendance.Attendance
		periodRecords  []attendance.Attendance
		departments    []employee.DepartmentStat
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.employeeRepo.CountActive(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		totalEmployees = count
		return nil
	})

	g.Go(func() error {
		records, err := s.attendanceRepo.ListByDateRange(gCtx, today, today, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		todayRecords = records
		return nil
	})

	g.Go(func() error {
		records, err := s.attendanceRepo.ListByDateRange(gCtx, start, end, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to get period attendance: %w", err)
		}
		periodRecords = records
		return nil
	})

	g.Go(func() error {
		stats, err := s.employeeRepo.DepartmentStats(gCtx)
		if err != nil {
			return fmt.Errorf("failed to get department stats: %w", err)
		}
		departments = stats
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.StatsResponse{}, err
	}

	return dashboard.AggregateStats(dashboard.StatsInput{
		Period: dashboard.PeriodStats{
			Period:      req.Period,
			DateRange:   dashboard.DateRange{Start: start, End: end},
			WorkingDays: workingDays,
		},
		TotalEmployees: totalEmployees,
		Today:          todayRecords,
		PeriodRecords:  periodRecords,
		Departments:    departments,
		Location:       s.calendar.Location(),
		LateHour:       s.lateHour,
	}), nil
}

// GetAttendanceReport implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetAttendanceReport(ctx context.Context, req dashboard.AttendanceReportRequest) (dashboard.AttendanceReportResponse, error) {
	if err := req.Validate(); err != nil {
		return dashboard.AttendanceReportResponse{}, err
	}

	var (
		employees []employee.Employee
		records   []attendance.Attendance
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if req.EmployeeID != nil {
			emp, err := s.employeeRepo.GetByID(gCtx, *req.EmployeeID)
			if err != nil {
				return err
			}
			employees = []employee.Employee{emp}
			return nil
		}
		list, err := s.employeeRepo.ListActive(gCtx, req.Department)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		employees = list
		return nil
	})

	g.Go(func() error {
		list, err := s.attendanceRepo.ListByDateRange(gCtx, req.StartDate, req.EndDate, req.EmployeeID, req.Department)
		if err != nil {
			return fmt.Errorf("failed to get attendance for report: %w", err)
		}
		records = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.AttendanceReportResponse{}, err
	}

	return dashboard.AttendanceReportResponse{
		Period: dashboard.DateRange{Start: req.StartDate, End: req.EndDate},
		Report: dashboard.BuildAttendanceReport(employees, records, s.calendar.Location()),
	}, nil
}

// GetLiveStatus implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetLiveStatus(ctx context.Context) (dashboard.LiveStatusResponse, error) {
	now := s.clock.Now()
	today := s.calendar.Today(now)

	var (
		employees []employee.Employee
		records   []attendance.Attendance
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := s.employeeRepo.ListActive(gCtx, nil)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		employees = list
		return nil
	})

	g.Go(func() error {
		list, err := s.attendanceRepo.ListByDateRange(gCtx, today, today, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		records = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.LiveStatusResponse{}, err
	}

	return dashboard.LiveStatusResponse{
		Date:      today,
		Timestamp: now.In(s.calendar.Location()).Format(time.RFC3339),
		Employees: dashboard.BuildLiveStatus(employees, records, now, s.calendar.Location()),
	}, nil
}
