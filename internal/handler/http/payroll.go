package http

import (
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetEmployeeSalaries(w http.ResponseWriter, r *http.Request)
	GetCurrentMonth(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	salaryService payroll.SalaryService
}

func NewPayrollHandler(salaryService payroll.SalaryService) PayrollHandler {
	return &payrollHandlerImpl{salaryService: salaryService}
}

// salaryFilter reads ?month&year&status.
func salaryFilter(r *http.Request) (payroll.SalaryFilter, error) {
	var filter payroll.SalaryFilter

	month, err := optionalIntQuery(r, "month")
	if err != nil {
		return filter, err
	}
	year, err := optionalIntQuery(r, "year")
	if err != nil {
		return filter, err
	}
	filter.Month = month
	filter.Year = year

	if status := optionalQuery(r, "status"); status != nil {
		s := payroll.SalaryStatus(*status)
		filter.Status = &s
	}
	return filter, nil
}

func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculateSalaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.Actor = actor

	result, err := h.salaryService.CalculateSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary calculated", result)
}

func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter, err := salaryFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.ListSalaries(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetEmployeeSalaries(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if err := authorizeEmployee(r, employeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.GetEmployeeSalaries(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetCurrentMonth(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if err := authorizeEmployee(r, employeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.GetCurrentMonthSalary(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result == nil {
		response.SuccessWithMessage(w, "No salary calculated for the current month", nil)
		return
	}
	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateSalaryStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.Actor = actor

	result, err := h.salaryService.UpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary status updated", result)
}
