package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", validator.ValidationErrors{{Field: "month", Message: "bad"}}, http.StatusUnprocessableEntity},
		{"expired token", auth.ErrTokenExpired, http.StatusUnauthorized},
		{"self access", auth.ErrSelfAccessOnly, http.StatusForbidden},
		{"rate limited", auth.ErrTooManyRequests, http.StatusTooManyRequests},
		{"inactive employee", employee.ErrEmployeeInactive, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", attendance.ErrAttendanceNotFound), http.StatusNotFound},
		{"duplicate check-in", attendance.ErrDuplicateCheckIn, http.StatusConflict},
		{"no active check-in", attendance.ErrNoActiveCheckIn, http.StatusConflict},
		{"face not registered", attendance.ErrFaceNotRegistered, http.StatusBadRequest},
		{"face mismatch", attendance.ErrFaceMismatch, http.StatusForbidden},
		{"paid salary", payroll.ErrSalaryAlreadyPaid, http.StatusConflict},
		{"missing base salary", payroll.ErrMissingBaseSalary, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id must be a valid UUID"}})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "employee_id must be a valid UUID", body.Error.Details["employee_id"])
}

func TestFile(t *testing.T) {
	rec := httptest.NewRecorder()
	File(rec, "salaries.csv", "text/csv; charset=utf-8", []byte("a,b\n"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="salaries.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "a,b\n", rec.Body.String())
}
