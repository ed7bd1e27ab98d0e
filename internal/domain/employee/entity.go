package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID             string
	EmployeeCode   string
	FirstName      string
	LastName       string
	Email          string
	Department     string
	Position       string
	HourlyRate     decimal.Decimal
	BaseSalary     decimal.Decimal
	FaceDescriptor []float64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (e Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// HasFaceTemplate reports whether a face descriptor has been registered.
func (e Employee) HasFaceTemplate() bool {
	return len(e.FaceDescriptor) > 0
}

// DepartmentStat is headcount and average base salary of active employees.
type DepartmentStat struct {
	Department    string
	Count         int
	AverageSalary decimal.Decimal
}
