package http

import (
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// ExportAttendance handles GET /reports/attendance.{format}
	ExportAttendance(w http.ResponseWriter, r *http.Request)

	// ExportSalaries handles GET /reports/salaries.{format}
	ExportSalaries(w http.ResponseWriter, r *http.Request)

	// ExportEmployees handles GET /employees/export
	ExportEmployees(w http.ResponseWriter, r *http.Request)

	// ImportTemplate handles GET /employees/import/template
	ImportTemplate(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func (h *reportHandlerImpl) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	req := report.AttendanceExportRequest{
		AttendanceReportRequest: attendanceReportRequest(r),
		Format:                  report.Format(chi.URLParam(r, "format")),
	}

	export, err := h.reportService.ExportAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, export.Filename, export.ContentType, export.Body)
}

func (h *reportHandlerImpl) ExportSalaries(w http.ResponseWriter, r *http.Request) {
	filter, err := salaryFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := report.SalaryExportRequest{
		SalaryFilter: filter,
		Format:       report.Format(chi.URLParam(r, "format")),
	}

	export, err := h.reportService.ExportSalaries(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, export.Filename, export.ContentType, export.Body)
}

func (h *reportHandlerImpl) ExportEmployees(w http.ResponseWriter, r *http.Request) {
	export, err := h.reportService.ExportEmployees(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, export.Filename, export.ContentType, export.Body)
}

func (h *reportHandlerImpl) ImportTemplate(w http.ResponseWriter, r *http.Request) {
	export, err := h.reportService.ImportTemplate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, export.Filename, export.ContentType, export.Body)
}
