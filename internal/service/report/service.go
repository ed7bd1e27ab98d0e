package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
)

type ReportServiceImpl struct {
	dashboardService dashboard.DashboardService
	salaryRepo       payroll.SalaryRepository
	employeeRepo     employee.EmployeeRepository
}

func NewReportService(
	dashboardService dashboard.DashboardService,
	salaryRepo payroll.SalaryRepository,
	employeeRepo employee.EmployeeRepository,
) report.ReportService {
	return &ReportServiceImpl{
		dashboardService: dashboardService,
		salaryRepo:       salaryRepo,
		employeeRepo:     employeeRepo,
	}
}

// ExportAttendance renders the attendance report for a date range.
func (s *ReportServiceImpl) ExportAttendance(ctx context.Context, req report.AttendanceExportRequest) (report.Export, error) {
	if err := req.Validate(); err != nil {
		return report.Export{}, err
	}

	data, err := s.dashboardService.GetAttendanceReport(ctx, req.AttendanceReportRequest)
	if err != nil {
		return report.Export{}, err
	}

	var body []byte
	switch req.Format {
	case report.FormatCSV:
		body, err = writeCSV(attendanceHeader, attendanceRows(data.Report))
	case report.FormatPDF:
		body, err = writeAttendancePDF(data.Period, data.Report)
	default:
		return report.Export{}, report.ErrUnsupportedFormat
	}
	if err != nil {
		slog.Error("Failed to render attendance export", "format", req.Format, "error", err)
		return report.Export{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	return report.Export{
		Filename:    req.Filename(),
		ContentType: req.Format.ContentType(),
		Body:        body,
	}, nil
}

// ExportSalaries renders salary records matching the filter.
func (s *ReportServiceImpl) ExportSalaries(ctx context.Context, req report.SalaryExportRequest) (report.Export, error) {
	if err := req.Validate(); err != nil {
		return report.Export{}, err
	}

	records, err := s.salaryRepo.List(ctx, req.SalaryFilter)
	if err != nil {
		return report.Export{}, fmt.Errorf("failed to list salary records: %w", err)
	}

	var body []byte
	switch req.Format {
	case report.FormatCSV:
		body, err = writeCSV(salaryHeader, salaryRows(records))
	case report.FormatXLSX:
		body, err = writeSalaryXLSX(records)
	default:
		return report.Export{}, report.ErrUnsupportedFormat
	}
	if err != nil {
		slog.Error("Failed to render salary export", "format", req.Format, "error", err)
		return report.Export{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	return report.Export{
		Filename:    req.Filename(),
		ContentType: req.Format.ContentType(),
		Body:        body,
	}, nil
}

// ExportEmployees implements report.ReportService.
func (s *ReportServiceImpl) ExportEmployees(ctx context.Context) (report.Export, error) {
	employees, err := s.employeeRepo.ListAll(ctx)
	if err != nil {
		return report.Export{}, fmt.Errorf("failed to list employees: %w", err)
	}

	body, err := writeCSV(employeeHeader, employeeRows(employees))
	if err != nil {
		slog.Error("Failed to render employee export", "error", err)
		return report.Export{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	return report.Export{
		Filename:    "employees.csv",
		ContentType: report.FormatCSV.ContentType(),
		Body:        body,
	}, nil
}

// ImportTemplate implements report.ReportService.
func (s *ReportServiceImpl) ImportTemplate() (report.Export, error) {
	body, err := writeCSV(employee.ImportHeader, [][]string{importExample})
	if err != nil {
		return report.Export{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	return report.Export{
		Filename:    "employee_import_template.csv",
		ContentType: report.FormatCSV.ContentType(),
		Body:        body,
	}, nil
}
