package report

import "context"

// ReportService renders attendance and salary data into downloadable files.
type ReportService interface {
	// ExportAttendance supports FormatCSV and FormatPDF
	ExportAttendance(ctx context.Context, req AttendanceExportRequest) (Export, error)

	// ExportSalaries supports FormatCSV and FormatXLSX
	ExportSalaries(ctx context.Context, req SalaryExportRequest) (Export, error)

	// ExportEmployees writes every employee, active or not, as CSV. The file
	// uses the import columns and can be imported again.
	ExportEmployees(ctx context.Context) (Export, error)

	ImportTemplate() (Export, error)
}
