package attendance

import "context"

// AttendanceRepository defines data access methods for attendance records.
// Dates are local YYYY-MM-DD strings.
type AttendanceRepository interface {
	// Create inserts a record. A second record for the same (employee, date)
	// fails with ErrDuplicateForDate.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*Attendance, error)

	// Complete writes the check-out of a record that is still active.
	// Returns ErrNoActiveCheckIn if the record was already completed.
	Complete(ctx context.Context, attendance Attendance) (Attendance, error)

	// Update overwrites timestamps, hours and status (manual corrections).
	Update(ctx context.Context, attendance Attendance) (Attendance, error)

	ListByEmployee(ctx context.Context, employeeID string, startDate, endDate *string) ([]Attendance, error)
	ListByDateRange(ctx context.Context, startDate, endDate string, employeeID, department *string) ([]Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
}
