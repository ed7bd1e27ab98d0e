package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	service "github.com/cmlabs-hris/presence-backend-go/internal/service/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeDashboardService struct {
	dashboard.DashboardService
	report dashboard.AttendanceReportResponse
}

func (f *fakeDashboardService) GetAttendanceReport(ctx context.Context, req dashboard.AttendanceReportRequest) (dashboard.AttendanceReportResponse, error) {
	resp := f.report
	resp.Period = dashboard.DateRange{Start: req.StartDate, End: req.EndDate}
	return resp, nil
}

type fakeSalaryRepository struct {
	payroll.SalaryRepository
	records []payroll.SalaryRecord
	filter  payroll.SalaryFilter
}

func (f *fakeSalaryRepository) List(ctx context.Context, filter payroll.SalaryFilter) ([]payroll.SalaryRecord, error) {
	f.filter = filter
	return f.records, nil
}

type fakeEmployeeRepository struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (f *fakeEmployeeRepository) ListAll(ctx context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

func strPtr(s string) *string { return &s }

func attendanceReport() dashboard.AttendanceReportResponse {
	return dashboard.AttendanceReportResponse{
		Report: []dashboard.EmployeeReport{
			{
				Employee: dashboard.EmployeeInfo{EmployeeCode: "EMP001", Name: "Siti Rahma", Department: "Engineering"},
				Summary:  dashboard.ReportSummary{TotalDays: 2, CompletedDays: 1, FullDays: 1, TotalHours: 8.5, AverageHours: 8.5},
				DailyRecords: []dashboard.DailyRecord{
					{
						Date:      "2024-03-04",
						CheckIn:   "2024-03-04T08:00:00+07:00",
						CheckOut:  strPtr("2024-03-04T16:30:00+07:00"),
						WorkHours: 8.5,
						Status:    dashboard.DayFull,
						Color:     dashboard.ColorGreen,
					},
					{
						Date:    "2024-03-05",
						CheckIn: "2024-03-05T08:10:00+07:00",
						Status:  dashboard.DayAbsent,
						Color:   dashboard.ColorGrey,
					},
				},
			},
			{
				Employee: dashboard.EmployeeInfo{EmployeeCode: "EMP002", Name: "Budi", Department: "Finance"},
			},
		},
	}
}

func salaryRecords() []payroll.SalaryRecord {
	paidAt := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	return []payroll.SalaryRecord{
		{
			EmployeeCode: strPtr("EMP001"),
			EmployeeName: strPtr("Siti Rahma"),
			Department:   strPtr("Engineering"),
			PeriodMonth:  3,
			PeriodYear:   2024,
			Strategy:     payroll.StrategyHourly,
			TotalHours:   decimal.NewFromInt(160),
			HourlyRate:   decimal.NewFromInt(15),
			GrossSalary:  decimal.NewFromInt(2400),
			NetSalary:    decimal.NewFromInt(2400),
			Status:       payroll.SalaryStatusPaid,
			PaidAt:       &paidAt,
		},
		{
			EmployeeCode: strPtr("EMP002"),
			EmployeeName: strPtr("Budi"),
			PeriodMonth:  3,
			PeriodYear:   2024,
			Strategy:     payroll.StrategyProRata,
			GrossSalary:  decimal.RequireFromString("2857.14"),
			Deductions:   decimal.NewFromInt(57),
			NetSalary:    decimal.RequireFromString("2800.14"),
			Status:       payroll.SalaryStatusPending,
		},
	}
}

func newService() (report.ReportService, *fakeSalaryRepository) {
	salaries := &fakeSalaryRepository{records: salaryRecords()}
	employees := &fakeEmployeeRepository{employees: []employee.Employee{
		{
			EmployeeCode:   "EMP001",
			FirstName:      "Siti",
			LastName:       "Rahma",
			Email:          "siti@example.com",
			Department:     "Engineering",
			Position:       "Engineer",
			HourlyRate:     decimal.NewFromInt(15),
			BaseSalary:     decimal.NewFromInt(3000),
			FaceDescriptor: []float64{0.1},
			IsActive:       true,
			CreatedAt:      time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC),
		},
		{
			EmployeeCode: "EMP002",
			FirstName:    "Budi",
			Email:        "budi@example.com",
			Department:   "Finance",
			CreatedAt:    time.Date(2024, 1, 5, 3, 0, 0, 0, time.UTC),
		},
	}}
	return service.NewReportService(&fakeDashboardService{report: attendanceReport()}, salaries, employees), salaries
}

func attendanceRequest(format report.Format) report.AttendanceExportRequest {
	return report.AttendanceExportRequest{
		AttendanceReportRequest: dashboard.AttendanceReportRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"},
		Format:                  format,
	}
}

func TestExportAttendance_CSV(t *testing.T) {
	svc, _ := newService()

	export, err := svc.ExportAttendance(context.Background(), attendanceRequest(report.FormatCSV))
	require.NoError(t, err)
	assert.Equal(t, "attendance_2024-03-01_2024-03-31.csv", export.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", export.ContentType)

	rows, err := csv.NewReader(bytes.NewReader(export.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Employee Code", rows[0][0])
	assert.Equal(t, []string{"EMP001", "Siti Rahma", "Engineering", "2024-03-04", "2024-03-04T08:00:00+07:00", "2024-03-04T16:30:00+07:00", "8.50", "full"}, rows[1])
	assert.Equal(t, "", rows[2][5])
	assert.Equal(t, "absent", rows[2][7])
}

func TestExportAttendance_PDF(t *testing.T) {
	svc, _ := newService()

	export, err := svc.ExportAttendance(context.Background(), attendanceRequest(report.FormatPDF))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", export.ContentType)
	assert.True(t, bytes.HasPrefix(export.Body, []byte("%PDF-")))
}

func TestExportAttendance_Validation(t *testing.T) {
	svc, _ := newService()

	_, err := svc.ExportAttendance(context.Background(), attendanceRequest(report.FormatXLSX))
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "format")

	req := attendanceRequest(report.FormatCSV)
	req.StartDate = ""
	_, err = svc.ExportAttendance(context.Background(), req)
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "start_date")
}

func TestExportSalaries_CSV(t *testing.T) {
	svc, salaries := newService()

	month, year := 3, 2024
	export, err := svc.ExportSalaries(context.Background(), report.SalaryExportRequest{
		SalaryFilter: payroll.SalaryFilter{Month: &month, Year: &year},
		Format:       report.FormatCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, "salaries_2024_03.csv", export.Filename)
	require.NotNil(t, salaries.filter.Month)
	assert.Equal(t, 3, *salaries.filter.Month)

	rows, err := csv.NewReader(bytes.NewReader(export.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-03", rows[1][3])
	assert.Equal(t, "2400.00", rows[1][7])
	assert.Equal(t, "2024-04-01T09:00:00Z", rows[1][12])
	assert.Equal(t, "57.00", rows[2][8])
	assert.Equal(t, "", rows[2][12])
}

func TestExportSalaries_XLSX(t *testing.T) {
	svc, _ := newService()

	export, err := svc.ExportSalaries(context.Background(), report.SalaryExportRequest{Format: report.FormatXLSX})
	require.NoError(t, err)
	assert.Equal(t, "salaries.xlsx", export.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(export.Body))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Salaries", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Employee Code", header)

	name, err := f.GetCellValue("Salaries", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Budi", name)

	total, err := f.GetCellValue("Salaries", "K4")
	require.NoError(t, err)
	assert.Equal(t, "5200.14", total)
}

func TestExportSalaries_RejectsPDF(t *testing.T) {
	svc, _ := newService()

	_, err := svc.ExportSalaries(context.Background(), report.SalaryExportRequest{Format: report.FormatPDF})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestExportEmployees(t *testing.T) {
	svc, _ := newService()

	export, err := svc.ExportEmployees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "employees.csv", export.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", export.ContentType)

	rows, err := csv.NewReader(bytes.NewReader(export.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, employee.ImportHeader, rows[0][:len(employee.ImportHeader)])
	assert.Equal(t, []string{
		"EMP001", "Siti", "Rahma", "siti@example.com", "Engineering", "Engineer",
		"15.00", "3000.00", "true", "true", "2024-01-02T03:00:00Z",
	}, rows[1])
	assert.Equal(t, "false", rows[2][8])
	assert.Equal(t, "false", rows[2][9])
}

func TestImportTemplate(t *testing.T) {
	svc, _ := newService()

	export, err := svc.ImportTemplate()
	require.NoError(t, err)
	assert.Equal(t, "employee_import_template.csv", export.Filename)

	rows, err := csv.NewReader(bytes.NewReader(export.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, employee.ImportHeader, rows[0])
	assert.Len(t, rows[1], len(employee.ImportHeader))
}
