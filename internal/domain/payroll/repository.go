package payroll

import (
	"context"
	"time"
)

// SalaryRepository defines data access methods for salary records.
type SalaryRepository interface {
	// Upsert inserts or recomputes the record for (employee, month, year) in a
	// single statement. Paid records are left untouched and ErrSalaryAlreadyPaid
	// is returned.
	Upsert(ctx context.Context, record SalaryRecord) (SalaryRecord, error)

	GetByID(ctx context.Context, id string) (SalaryRecord, error)

	// GetByEmployeePeriod returns ErrSalaryNotFound when no record exists.
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (SalaryRecord, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]SalaryRecord, error)
	List(ctx context.Context, filter SalaryFilter) ([]SalaryRecord, error)

	// UpdateStatus moves a record from `from` to `to`. It fails with
	// ErrInvalidStatusTransition when the stored status is no longer `from`.
	UpdateStatus(ctx context.Context, id string, from, to SalaryStatus, paidAt *time.Time) (SalaryRecord, error)
}
