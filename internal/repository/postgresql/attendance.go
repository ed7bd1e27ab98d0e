package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceUniqueDate = "uq_attendances_employee_date"

const attendanceColumns = `
	a.id, a.employee_id, a.date::text, a.check_in, a.check_out,
	a.check_in_method, a.check_out_method,
	a.check_in_latitude, a.check_in_longitude,
	a.check_out_latitude, a.check_out_longitude,
	a.work_hours, a.status, a.created_at, a.updated_at,
	TRIM(e.first_name || ' ' || e.last_name), e.department`

type attendanceRepository struct {
	db *database.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner) (attendance.Attendance, error) {
	var (
		att                      attendance.Attendance
		checkOutMethod           *string
		inLat, inLng             *float64
		outLat, outLng           *float64
		employeeName, department *string
	)
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.CheckIn, &att.CheckOut,
		&att.CheckInMethod, &checkOutMethod,
		&inLat, &inLng,
		&outLat, &outLng,
		&att.WorkHours, &att.Status, &att.CreatedAt, &att.UpdatedAt,
		&employeeName, &department,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if checkOutMethod != nil {
		m := attendance.Method(*checkOutMethod)
		att.CheckOutMethod = &m
	}
	att.CheckInLocation = toLocation(inLat, inLng)
	att.CheckOutLocation = toLocation(outLat, outLng)
	att.EmployeeName = employeeName
	att.Department = department
	return att, nil
}

func toLocation(lat, lng *float64) *attendance.Location {
	if lat == nil || lng == nil {
		return nil
	}
	return &attendance.Location{Latitude: *lat, Longitude: *lng}
}

func fromLocation(loc *attendance.Location) (lat, lng *float64) {
	if loc == nil {
		return nil, nil
	}
	return &loc.Latitude, &loc.Longitude
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if att.ID == "" {
		id, err := newID()
		if err != nil {
			return attendance.Attendance{}, err
		}
		att.ID = id
	}

	inLat, inLng := fromLocation(att.CheckInLocation)
	outLat, outLng := fromLocation(att.CheckOutLocation)

	query := `
		INSERT INTO attendances (
			id, employee_id, date, check_in, check_out,
			check_in_method, check_out_method,
			check_in_latitude, check_in_longitude,
			check_out_latitude, check_out_longitude,
			work_hours, status
		) VALUES (
			$1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID,
		att.EmployeeID,
		att.Date,
		att.CheckIn,
		att.CheckOut,
		att.CheckInMethod,
		att.CheckOutMethod,
		inLat,
		inLng,
		outLat,
		outLng,
		att.WorkHours,
		att.Status,
	).Scan(&att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, attendanceUniqueDate) {
			return attendance.Attendance{}, attendance.ErrDuplicateForDate
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1
		  AND a.date = $2::date
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// Complete implements attendance.AttendanceRepository. Only one of several
// concurrent check-outs can match the status guard.
func (a *attendanceRepository) Complete(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	outLat, outLng := fromLocation(att.CheckOutLocation)

	query := `
		UPDATE attendances
		SET check_out = $1,
			check_out_method = $2,
			check_out_latitude = $3,
			check_out_longitude = $4,
			work_hours = $5,
			status = $6,
			updated_at = $7
		WHERE id = $8
		  AND status = 'active'
		  AND check_out IS NULL
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		att.CheckOut,
		att.CheckOutMethod,
		outLat,
		outLng,
		att.WorkHours,
		att.Status,
		time.Now(),
		att.ID,
	).Scan(&att.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrNoActiveCheckIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to complete attendance: %w", err)
	}

	return att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in = $1,
			check_out = $2,
			check_out_method = $3,
			work_hours = $4,
			status = $5,
			updated_at = $6
		WHERE id = $7
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		att.CheckIn,
		att.CheckOut,
		att.CheckOutMethod,
		att.WorkHours,
		att.Status,
		time.Now(),
		att.ID,
	).Scan(&att.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return att, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, startDate, endDate *string) ([]attendance.Attendance, error) {
	where := "a.employee_id = $1"
	args := []any{employeeID}
	argIdx := 2

	if startDate != nil && *startDate != "" {
		where += fmt.Sprintf(" AND a.date >= $%d::date", argIdx)
		args = append(args, *startDate)
		argIdx++
	}
	if endDate != nil && *endDate != "" {
		where += fmt.Sprintf(" AND a.date <= $%d::date", argIdx)
		args = append(args, *endDate)
	}

	return a.query(ctx, where, "a.date DESC", args)
}

// ListByDateRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDateRange(ctx context.Context, startDate, endDate string, employeeID, department *string) ([]attendance.Attendance, error) {
	where := "a.date >= $1::date AND a.date <= $2::date"
	args := []any{startDate, endDate}
	argIdx := 3

	if employeeID != nil && *employeeID != "" {
		where += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *employeeID)
		argIdx++
	}
	if department != nil && *department != "" {
		where += fmt.Sprintf(" AND e.department = $%d", argIdx)
		args = append(args, *department)
	}

	return a.query(ctx, where, "a.date ASC, a.check_in ASC", args)
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	where := "TRUE"
	args := []any{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		where += fmt.Sprintf(" AND e.department = $%d", argIdx)
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		where += fmt.Sprintf(" AND a.date >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		where += fmt.Sprintf(" AND a.date <= $%d::date", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		where += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := max(filter.Page, 1)
	args = append(args, limit, (page-1)*limit)

	paged := fmt.Sprintf("%s LIMIT $%d OFFSET $%d", "a.date DESC, a.check_in DESC", argIdx, argIdx+1)
	records, err := a.query(ctx, where, paged, args)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (a *attendanceRepository) query(ctx context.Context, where, orderBy string, args []any) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + where + `
		ORDER BY ` + orderBy

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return records, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
