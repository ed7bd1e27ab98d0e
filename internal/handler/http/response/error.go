package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrManagerAccessRequired),
		errors.Is(err, auth.ErrAdminAccessRequired),
		errors.Is(err, auth.ErrSelfAccessOnly):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrTooManyRequests):
		TooManyRequests(w, "Rate limit exceeded, please retry later")

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound), errors.Is(err, employee.ErrEmployeeInactive):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeExists):
		Conflict(w, err.Error())

	// Attendance
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrDuplicateCheckIn),
		errors.Is(err, attendance.ErrDuplicateForDate),
		errors.Is(err, attendance.ErrNoActiveCheckIn):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrFaceNotRegistered):
		BadRequest(w, "Face descriptor not registered for this employee", nil)
	case errors.Is(err, attendance.ErrFaceMismatch):
		Forbidden(w, "Face verification failed")
	case errors.Is(err, attendance.ErrCheckOutBeforeCheckIn):
		BadRequest(w, err.Error(), nil)

	// Payroll
	case errors.Is(err, payroll.ErrSalaryNotFound):
		NotFound(w, "Salary record not found")
	case errors.Is(err, payroll.ErrSalaryAlreadyPaid),
		errors.Is(err, payroll.ErrInvalidStatusTransition):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrMissingBaseSalary),
		errors.Is(err, payroll.ErrNoWorkingDays):
		BadRequest(w, err.Error(), nil)

	// Report
	case errors.Is(err, report.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
