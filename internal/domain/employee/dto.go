package employee

import (
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// DescriptorLength is the size of a face-api.js face descriptor.
const DescriptorLength = 128

type RegisterFaceRequest struct {
	EmployeeID     string      `json:"-"`
	FaceDescriptor []float64   `json:"face_descriptor"`
	Actor          audit.Actor `json:"-"`
}

func (r *RegisterFaceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if len(r.FaceDescriptor) != DescriptorLength {
		errs.Add("face_descriptor", "face_descriptor must contain 128 values")
	}
	if validator.IsEmpty(r.Actor.UserID) {
		errs.Add("actor", "actor is required")
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	EmployeeCode   string `json:"employee_code"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Department     string `json:"department"`
	Position       string `json:"position"`
	HourlyRate     string `json:"hourly_rate"`
	BaseSalary     string `json:"base_salary"`
	IsActive       bool   `json:"is_active"`
	FaceRegistered bool   `json:"face_registered"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		EmployeeCode:   e.EmployeeCode,
		FullName:       e.FullName(),
		Email:          e.Email,
		Department:     e.Department,
		Position:       e.Position,
		HourlyRate:     e.HourlyRate.StringFixed(2),
		BaseSalary:     e.BaseSalary.StringFixed(2),
		IsActive:       e.IsActive,
		FaceRegistered: e.HasFaceTemplate(),
	}
}

// ========================================
// UPDATE
// ========================================

// UpdateEmployeeRequest changes only the fields that are set.
type UpdateEmployeeRequest struct {
	EmployeeID string           `json:"-"`
	FirstName  *string          `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName   *string          `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email      *string          `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Department *string          `json:"department,omitempty" validate:"omitempty,max=100"`
	Position   *string          `json:"position,omitempty" validate:"omitempty,max=100"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
	BaseSalary *decimal.Decimal `json:"base_salary,omitempty"`
	IsActive   *bool            `json:"is_active,omitempty"`
	Actor      audit.Actor      `json:"-"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	errs := validator.Struct(r)

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if r.FirstName == nil && r.LastName == nil && r.Email == nil && r.Department == nil &&
		r.Position == nil && r.HourlyRate == nil && r.BaseSalary == nil && r.IsActive == nil {
		errs.Add("fields", "at least one field must be provided")
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs.Add("first_name", "first_name cannot be empty")
	}
	if r.Email != nil && validator.IsEmpty(*r.Email) {
		errs.Add("email", "email cannot be empty")
	}
	if r.Department != nil && validator.IsEmpty(*r.Department) {
		errs.Add("department", "department cannot be empty")
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs.Add("hourly_rate", "hourly_rate must be a non-negative number")
	}
	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs.Add("base_salary", "base_salary must be a non-negative number")
	}
	if validator.IsEmpty(r.Actor.UserID) {
		errs.Add("actor", "actor is required")
	}

	return errs.Err()
}

// Apply returns e with the requested changes. Call after Validate.
func (r UpdateEmployeeRequest) Apply(e Employee) Employee {
	if r.FirstName != nil {
		e.FirstName = strings.TrimSpace(*r.FirstName)
	}
	if r.LastName != nil {
		e.LastName = strings.TrimSpace(*r.LastName)
	}
	if r.Email != nil {
		e.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.Department != nil {
		e.Department = strings.TrimSpace(*r.Department)
	}
	if r.Position != nil {
		e.Position = strings.TrimSpace(*r.Position)
	}
	if r.HourlyRate != nil {
		e.HourlyRate = *r.HourlyRate
	}
	if r.BaseSalary != nil {
		e.BaseSalary = *r.BaseSalary
	}
	if r.IsActive != nil {
		e.IsActive = *r.IsActive
	}
	return e
}

type DeactivateEmployeeRequest struct {
	EmployeeID string
	Actor      audit.Actor
}

func (r *DeactivateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if validator.IsEmpty(r.Actor.UserID) {
		errs.Add("actor", "actor is required")
	}

	return errs.Err()
}

// ========================================
// IMPORT
// ========================================

// ImportHeader is the column order of the import template and the employee
// export, so an export can be imported again.
var ImportHeader = []string{
	"employee_code", "first_name", "last_name", "email",
	"department", "position", "hourly_rate", "base_salary",
}

type ImportRequest struct {
	Filename string
	Body     []byte
	Actor    audit.Actor
}

// Extension returns the lower-cased file extension without the dot.
func (r ImportRequest) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(r.Filename), "."))
}

func (r *ImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if ext := r.Extension(); ext != "csv" && ext != "xlsx" {
		errs.Add("file", "file must be a .csv or .xlsx file")
	}
	if len(r.Body) == 0 {
		errs.Add("file", "file is empty")
	}
	if validator.IsEmpty(r.Actor.UserID) {
		errs.Add("actor", "actor is required")
	}

	return errs.Err()
}

// ImportRow is one data line of an import file. Row is 1-based and counts the
// header line, so it matches what a spreadsheet shows.
type ImportRow struct {
	Row          int    `json:"-"`
	EmployeeCode string `json:"employee_code" validate:"required,max=20"`
	FirstName    string `json:"first_name" validate:"required,max=100"`
	LastName     string `json:"last_name" validate:"max=100"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Department   string `json:"department" validate:"required,max=100"`
	Position     string `json:"position" validate:"max=100"`
	HourlyRate   string `json:"hourly_rate"`
	BaseSalary   string `json:"base_salary"`
}

// ToEmployee validates the row and converts it to a new active employee.
func (r ImportRow) ToEmployee() (Employee, error) {
	errs := validator.Struct(r)

	hourlyRate, ok := parseMoney(r.HourlyRate)
	if !ok {
		errs.Add("hourly_rate", "hourly_rate must be a non-negative number")
	}
	baseSalary, ok := parseMoney(r.BaseSalary)
	if !ok {
		errs.Add("base_salary", "base_salary must be a non-negative number")
	}
	if err := errs.Err(); err != nil {
		return Employee{}, err
	}

	return Employee{
		EmployeeCode: r.EmployeeCode,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        strings.ToLower(r.Email),
		Department:   r.Department,
		Position:     r.Position,
		HourlyRate:   hourlyRate,
		BaseSalary:   baseSalary,
		IsActive:     true,
	}, nil
}

// parseMoney treats a blank cell as zero.
func parseMoney(s string) (decimal.Decimal, bool) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

type ImportRowError struct {
	Row          int    `json:"row"`
	EmployeeCode string `json:"employee_code,omitempty"`
	Error        string `json:"error"`
}

type ImportResult struct {
	Created []EmployeeResponse `json:"created"`
	Errors  []ImportRowError   `json:"errors"`
}
