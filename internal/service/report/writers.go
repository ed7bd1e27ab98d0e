package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

var attendanceHeader = []string{
	"Employee Code", "Employee Name", "Department", "Date",
	"Check In", "Check Out", "Work Hours", "Status",
}

var salaryHeader = []string{
	"Employee Code", "Employee Name", "Department", "Period", "Strategy",
	"Total Hours", "Hourly Rate", "Gross Salary", "Deductions", "Bonuses",
	"Net Salary", "Status", "Paid At",
}

var employeeHeader = append(append([]string{}, employee.ImportHeader...), "is_active", "face_registered", "created_at")

// importExample follows employee.ImportHeader.
var importExample = []string{
	"EMP001", "Jean", "Dupont", "jean.dupont@example.com",
	"IT", "Developer", "15.00", "3000.00",
}

func hours(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// attendanceRows flattens a report into one row per daily record.
func attendanceRows(report []dashboard.EmployeeReport) [][]string {
	var rows [][]string
	for _, emp := range report {
		for _, day := range emp.DailyRecords {
			rows = append(rows, []string{
				emp.Employee.EmployeeCode,
				emp.Employee.Name,
				emp.Employee.Department,
				day.Date,
				day.CheckIn,
				deref(day.CheckOut),
				hours(day.WorkHours),
				string(day.Status),
			})
		}
	}
	return rows
}

func salaryRows(records []payroll.SalaryRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		resp := payroll.ToResponse(r)
		rows = append(rows, []string{
			deref(r.EmployeeCode),
			deref(r.EmployeeName),
			deref(r.Department),
			fmt.Sprintf("%d-%02d", r.PeriodYear, r.PeriodMonth),
			string(r.Strategy),
			r.TotalHours.StringFixed(2),
			r.HourlyRate.StringFixed(2),
			r.GrossSalary.StringFixed(2),
			r.Deductions.StringFixed(2),
			r.Bonuses.StringFixed(2),
			r.NetSalary.StringFixed(2),
			string(r.Status),
			deref(resp.PaidAt),
		})
	}
	return rows
}

func employeeRows(employees []employee.Employee) [][]string {
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []string{
			e.EmployeeCode,
			e.FirstName,
			e.LastName,
			e.Email,
			e.Department,
			e.Position,
			e.HourlyRate.StringFixed(2),
			e.BaseSalary.StringFixed(2),
			strconv.FormatBool(e.IsActive),
			strconv.FormatBool(e.HasFaceTemplate()),
			e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ========================================
// PDF
// ========================================

var attendanceColumnWidths = []float64{28, 50, 35, 25, 45, 45, 22, 25}

func writeAttendancePDF(period dashboard.DateRange, report []dashboard.EmployeeReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Attendance Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 8, fmt.Sprintf("Period: %s to %s", period.Start, period.End))
	pdf.Ln(12)

	// Per employee summary
	pdf.SetFont("Arial", "B", 10)
	for i, h := range []string{"Employee", "Days", "Completed", "Full", "Incomplete", "Total Hours", "Avg Hours"} {
		w := 30.0
		if i == 0 {
			w = 70
		}
		pdf.CellFormat(w, 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, emp := range report {
		s := emp.Summary
		pdf.CellFormat(70, 7, fmt.Sprintf("%s (%s)", emp.Employee.Name, emp.Employee.EmployeeCode), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, strconv.Itoa(s.TotalDays), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, strconv.Itoa(s.CompletedDays), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, strconv.Itoa(s.FullDays), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, strconv.Itoa(s.IncompleteDays), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, hours(s.TotalHours), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, hours(s.AverageHours), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(8)

	// Daily records
	pdf.SetFont("Arial", "B", 9)
	for i, h := range attendanceHeader {
		pdf.CellFormat(attendanceColumnWidths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range attendanceRows(report) {
		for i, v := range row {
			pdf.CellFormat(attendanceColumnWidths[i], 7, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ========================================
// XLSX
// ========================================

const salarySheet = "Salaries"

func writeSalaryXLSX(records []payroll.SalaryRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", salarySheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range salaryHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(salarySheet, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(salarySheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for r, row := range salaryRows(records) {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(salarySheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	summary := payroll.Summarize(records)
	totalRow := len(records) + 2
	if err := f.SetCellValue(salarySheet, fmt.Sprintf("A%d", totalRow), "TOTAL"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(salarySheet, fmt.Sprintf("H%d", totalRow), summary.TotalGross.StringFixed(2)); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(salarySheet, fmt.Sprintf("K%d", totalRow), summary.TotalNet.StringFixed(2)); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(salarySheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("M%d", totalRow), headerStyle); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(salarySheet, "A", "C", 20); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(salarySheet, "D", "M", 15); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
