package report

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Export is a rendered file ready to be streamed to the client.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ========================================
// ATTENDANCE EXPORT
// ========================================

type AttendanceExportRequest struct {
	dashboard.AttendanceReportRequest
	Format Format `json:"format"`
}

func (r *AttendanceExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := merge(&errs, r.AttendanceReportRequest.Validate()); err != nil {
		return err
	}
	if r.Format != FormatCSV && r.Format != FormatPDF {
		errs.Add("format", "format must be one of: csv, pdf")
	}

	return errs.Err()
}

func (r AttendanceExportRequest) Filename() string {
	return fmt.Sprintf("attendance_%s_%s.%s", r.StartDate, r.EndDate, r.Format)
}

// ========================================
// SALARY EXPORT
// ========================================

type SalaryExportRequest struct {
	payroll.SalaryFilter
	Format Format `json:"format"`
}

func (r *SalaryExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := merge(&errs, r.SalaryFilter.Validate()); err != nil {
		return err
	}
	if r.Format != FormatCSV && r.Format != FormatXLSX {
		errs.Add("format", "format must be one of: csv, xlsx")
	}

	return errs.Err()
}

func (r SalaryExportRequest) Filename() string {
	name := "salaries"
	if r.Year != nil {
		name += fmt.Sprintf("_%d", *r.Year)
	}
	if r.Month != nil {
		name += fmt.Sprintf("_%02d", *r.Month)
	}
	return name + "." + string(r.Format)
}

// merge folds field errors from an embedded request into errs. Any other
// error is returned as is.
func merge(errs *validator.ValidationErrors, err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	*errs = append(*errs, ve...)
	return nil
}
