package audit

import (
	"context"
	"encoding/json"
	"time"
)

type Action string

const (
	ActionAttendanceCorrection Action = "attendance_correction"
	ActionAttendanceInsert     Action = "attendance_insert"
	ActionSalaryAdjustment     Action = "salary_adjustment"
	ActionSalaryStatusChange   Action = "salary_status_change"
	ActionFaceRegistration     Action = "face_registration"
	ActionEmployeeImport       Action = "employee_import"
	ActionEmployeeUpdate       Action = "employee_update"
	ActionEmployeeDeactivate   Action = "employee_deactivate"
	ActionOther                Action = "other"
)

// Entry is an append-only record of a privileged change.
type Entry struct {
	ID                 string
	Action             Action
	PerformedBy        string
	TargetEmployeeID   *string
	TargetAttendanceID *string
	Description        string
	PreviousValue      json.RawMessage
	NewValue           json.RawMessage
	IPAddress          string
	UserAgent          string
	CreatedAt          time.Time
}

// Actor identifies who performed a change and from where.
type Actor struct {
	UserID     string
	EmployeeID string
	Role       string
	IPAddress  string
	UserAgent  string
}

// Repository only appends and reads. Entries are never updated or deleted.
type Repository interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	ListByAttendance(ctx context.Context, attendanceID string) ([]Entry, error)
	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]Entry, error)
}

type EntryResponse struct {
	ID                 string          `json:"id"`
	Action             Action          `json:"action"`
	PerformedBy        string          `json:"performed_by"`
	TargetEmployeeID   *string         `json:"target_employee_id,omitempty"`
	TargetAttendanceID *string         `json:"target_attendance_id,omitempty"`
	Description        string          `json:"description"`
	PreviousValue      json.RawMessage `json:"previous_value,omitempty"`
	NewValue           json.RawMessage `json:"new_value,omitempty"`
	IPAddress          string          `json:"ip_address,omitempty"`
	UserAgent          string          `json:"user_agent,omitempty"`
	CreatedAt          string          `json:"created_at"`
}

func ToResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:                 e.ID,
		Action:             e.Action,
		PerformedBy:        e.PerformedBy,
		TargetEmployeeID:   e.TargetEmployeeID,
		TargetAttendanceID: e.TargetAttendanceID,
		Description:        e.Description,
		PreviousValue:      e.PreviousValue,
		NewValue:           e.NewValue,
		IPAddress:          e.IPAddress,
		UserAgent:          e.UserAgent,
		CreatedAt:          e.CreatedAt.Format(time.RFC3339),
	}
}

// Snapshot marshals v for PreviousValue/NewValue. Marshal failures yield nil.
func Snapshot(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
