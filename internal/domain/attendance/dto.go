package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// ========================================
// CHECK-IN / CHECK-OUT
// ========================================

type CheckInRequest struct {
	EmployeeID     string    `json:"employee_id" validate:"required,uuid"`
	Method         Method    `json:"method" validate:"required,oneof=facial manual"`
	Location       *Location `json:"location,omitempty"`
	FaceDescriptor []float64 `json:"face_descriptor,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	errs := validator.Struct(r)

	if r.Method == MethodFacial && len(r.FaceDescriptor) == 0 {
		errs.Add("face_descriptor", "face_descriptor is required for facial check-in")
	}

	return errs.Err()
}

type CheckOutRequest struct {
	EmployeeID string    `json:"employee_id" validate:"required,uuid"`
	Method     Method    `json:"method" validate:"required,oneof=facial manual"`
	Location   *Location `json:"location,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	return validator.Struct(r).Err()
}

// ========================================
// MANUAL CORRECTION / INSERT (manager)
// ========================================

// ManualCorrectionRequest overwrites the timestamps of an existing record.
// Timestamps are RFC3339.
type ManualCorrectionRequest struct {
	AttendanceID string      `json:"-"`
	CheckIn      *string     `json:"check_in,omitempty"`
	CheckOut     *string     `json:"check_out,omitempty"`
	Reason       string      `json:"reason"`
	Actor        audit.Actor `json:"-"`
}

func (r *ManualCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.AttendanceID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.CheckIn == nil && r.CheckOut == nil {
		errs.Add("check_in", "at least one of check_in or check_out is required")
	}
	if r.CheckIn != nil {
		if _, ok := validator.IsValidDateTime(*r.CheckIn); !ok {
			errs.Add("check_in", "check_in must be an RFC3339 timestamp")
		}
	}
	if r.CheckOut != nil {
		if _, ok := validator.IsValidDateTime(*r.CheckOut); !ok {
			errs.Add("check_out", "check_out must be an RFC3339 timestamp")
		}
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}
	if validator.IsEmpty(r.Actor.UserID) {
		errs.Add("actor", "actor is required")
	}

	if len(errs) == 0 {
		in, out := r.Times()
		if in != nil && out != nil && out.Before(*in) {
			errs.Add("check_out", "check_out must not be before check_in")
		}
	}

	return errs.Err()
}

// Times returns the parsed timestamps. Call after Validate.
func (r *ManualCorrectionRequest) Times() (checkIn, checkOut *time.Time) {
	return parseOptional(r.CheckIn), parseOptional(r.CheckOut)
}

// ManualInsertRequest creates a record for a date with no attendance.
type ManualInsertRequest struct {
	EmployeeID string      `json:"employee_id"`
	Date       string      `json:"date"`
	CheckIn    string      `json:"check_in"`
	CheckOut   *string     `json:"check_out,omitempty"`
	Reason     string      `json:"reason"`
	Actor      audit.Actor `json:"-"`
}

func (r *ManualInsertRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	in, inOK := validator.IsValidDateTime(r.CheckIn)
	if !inOK {
		errs.Add("check_in", "check_in must be an RFC3339 timestamp")
	}
	if r.CheckOut != nil {
		out, ok := validator.IsValidDateTime(*r.CheckOut)
		if !ok {
			errs.Add("check_out", "check_out must be an RFC3339 timestamp")
		} else if inOK && out.Before(in) {
			errs.Add("check_out", "check_out must not be before check_in")
		}
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}
	if validator.IsEmpty(r.Actor.UserID) {
		errs.Add("actor", "actor is required")
	}

	return errs.Err()
}

// Times returns the parsed timestamps. Call after Validate.
func (r *ManualInsertRequest) Times() (checkIn time.Time, checkOut *time.Time) {
	in, _ := validator.IsValidDateTime(r.CheckIn)
	return in, parseOptional(r.CheckOut)
}

func parseOptional(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := validator.IsValidDateTime(*s)
	if !ok {
		return nil
	}
	return &t
}

// ========================================
// QUERIES
// ========================================

type HistoryFilter struct {
	EmployeeID string  `json:"employee_id"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	validateRange(&errs, f.StartDate, f.EndDate)

	return errs.Err()
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Department *string `json:"department,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{string(StatusActive), string(StatusCompleted)}) {
		errs.Add("status", "status must be one of: active, completed")
	}
	validateRange(&errs, f.StartDate, f.EndDate)

	return errs.Err()
}

func validateRange(errs *validator.ValidationErrors, start, end *string) {
	var from, to time.Time
	var fromOK, toOK bool
	if start != nil {
		if from, fromOK = validator.IsValidDate(*start); !fromOK {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if end != nil {
		if to, toOK = validator.IsValidDate(*end); !toOK {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if fromOK && toOK && to.Before(from) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
}

// ========================================
// RESPONSES
// ========================================

type AttendanceResponse struct {
	ID               string    `json:"id"`
	EmployeeID       string    `json:"employee_id"`
	EmployeeName     *string   `json:"employee_name,omitempty"`
	Department       *string   `json:"department,omitempty"`
	Date             string    `json:"date"`
	CheckIn          string    `json:"check_in"`
	CheckOut         *string   `json:"check_out,omitempty"`
	CheckInMethod    Method    `json:"check_in_method"`
	CheckOutMethod   *Method   `json:"check_out_method,omitempty"`
	CheckInLocation  *Location `json:"check_in_location,omitempty"`
	CheckOutLocation *Location `json:"check_out_location,omitempty"`
	WorkHours        float64   `json:"work_hours"`
	Status           Status    `json:"status"`
	CreatedAt        string    `json:"created_at"`
	UpdatedAt        string    `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

func ToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:               a.ID,
		EmployeeID:       a.EmployeeID,
		EmployeeName:     a.EmployeeName,
		Department:       a.Department,
		Date:             a.Date,
		CheckIn:          a.CheckIn.Format(time.RFC3339),
		CheckInMethod:    a.CheckInMethod,
		CheckOutMethod:   a.CheckOutMethod,
		CheckInLocation:  a.CheckInLocation,
		CheckOutLocation: a.CheckOutLocation,
		WorkHours:        a.WorkHours,
		Status:           a.Status,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        a.UpdatedAt.Format(time.RFC3339),
	}
	if a.CheckOut != nil {
		out := a.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &out
	}
	return resp
}

// Showing renders the "Showing x-y of z" pagination label.
func Showing(page, limit, count int, total int64) string {
	if count == 0 {
		return fmt.Sprintf("Showing 0 of %d", total)
	}
	start := (page-1)*limit + 1
	return fmt.Sprintf("Showing %d-%d of %d", start, start+count-1, total)
}
