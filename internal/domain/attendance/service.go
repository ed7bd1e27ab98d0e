package attendance

import (
	"context"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/audit"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's record for an employee
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's active record
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// ManualCorrection overwrites timestamps of an existing record (manager/admin)
	ManualCorrection(ctx context.Context, req ManualCorrectionRequest) (AttendanceResponse, error)

	// ManualInsert creates a record for a date the employee missed (manager/admin)
	ManualInsert(ctx context.Context, req ManualInsertRequest) (AttendanceResponse, error)

	// GetToday returns nil when the employee has not checked in today
	GetToday(ctx context.Context, employeeID string) (*AttendanceResponse, error)

	GetHistory(ctx context.Context, filter HistoryFilter) ([]AttendanceResponse, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	GetAuditTrail(ctx context.Context, attendanceID string) ([]audit.EntryResponse, error)
}

// Event is published after a successful check-in or check-out.
type Event struct {
	Type       string             `json:"type"`
	Attendance AttendanceResponse `json:"attendance"`
}

const (
	EventCheckIn  = "attendance.check_in"
	EventCheckOut = "attendance.check_out"
)

// EventPublisher receives attendance events for live dashboards.
type EventPublisher interface {
	Publish(topic string, event Event)
}
