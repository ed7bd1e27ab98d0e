package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
)

const auditColumns = `
	id, action, performed_by, target_employee_id, target_attendance_id, description,
	previous_value, new_value, ip_address, user_agent, created_at`

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepository{db: db}
}

// Create implements audit.Repository.
func (r *auditRepository) Create(ctx context.Context, entry audit.Entry) (audit.Entry, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return audit.Entry{}, err
	}
	entry.ID = id

	query := `
		INSERT INTO audit_logs (
			id, action, performed_by, target_employee_id, target_attendance_id, description,
			previous_value, new_value, ip_address, user_agent
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		entry.ID,
		entry.Action,
		entry.PerformedBy,
		entry.TargetEmployeeID,
		entry.TargetAttendanceID,
		entry.Description,
		entry.PreviousValue,
		entry.NewValue,
		entry.IPAddress,
		entry.UserAgent,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return audit.Entry{}, fmt.Errorf("failed to create audit log: %w", err)
	}

	return entry, nil
}

// ListByAttendance implements audit.Repository.
func (r *auditRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]audit.Entry, error) {
	query := `SELECT ` + auditColumns + `
		FROM audit_logs
		WHERE target_attendance_id = $1
		ORDER BY created_at ASC`

	return r.query(ctx, query, attendanceID)
}

// ListByEmployee implements audit.Repository.
func (r *auditRepository) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + auditColumns + `
		FROM audit_logs
		WHERE target_employee_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	return r.query(ctx, query, employeeID, limit)
}

func (r *auditRepository) query(ctx context.Context, query string, args ...any) ([]audit.Entry, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	entries := make([]audit.Entry, 0)
	for rows.Next() {
		var e audit.Entry
		err := rows.Scan(
			&e.ID, &e.Action, &e.PerformedBy, &e.TargetEmployeeID, &e.TargetAttendanceID, &e.Description,
			&e.PreviousValue, &e.NewValue, &e.IPAddress, &e.UserAgent, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit logs: %w", err)
	}

	return entries, nil
}
