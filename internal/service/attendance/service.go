package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/biometric"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	auditRepo  audit.Repository
	transactor database.Transactor
	verifier   biometric.Verifier
	calendar   *calendar.Calendar
	clock      calendar.Clock
	publisher  attendance.EventPublisher
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	auditRepo audit.Repository,
	transactor database.Transactor,
	verifier biometric.Verifier,
	cal *calendar.Calendar,
	clock calendar.Clock,
	publisher attendance.EventPublisher,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		auditRepo:            auditRepo,
		transactor:           transactor,
		verifier:             verifier,
		calendar:             cal,
		clock:                clock,
		publisher:            publisher,
	}
}

// activeEmployee loads an employee that may record attendance.
func (s *AttendanceServiceImpl) activeEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	if !emp.IsActive {
		return employee.Employee{}, employee.ErrEmployeeInactive
	}
	return emp, nil
}

// onDate rejects a check-in whose local calendar date is not date.
func (s *AttendanceServiceImpl) onDate(checkIn time.Time, date string) error {
	if s.calendar.Format(checkIn) != date {
		return validator.ValidationErrors{{Field: "check_in", Message: "check_in must fall on " + date}}
	}
	return nil
}

func (s *AttendanceServiceImpl) publish(topic string, att attendance.Attendance) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(topic, attendance.Event{Type: topic, Attendance: attendance.ToResponse(att)})
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	today := s.calendar.Today(now)

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrDuplicateCheckIn
	}

	if req.Method == attendance.MethodFacial {
		if !emp.HasFaceTemplate() {
			return attendance.AttendanceResponse{}, attendance.ErrFaceNotRegistered
		}
		ok, err := s.verifier.Verify(emp.FaceDescriptor, req.FaceDescriptor)
		if err != nil {
			slog.Warn("Face verification error", "employee_id", emp.ID, "error", err)
			return attendance.AttendanceResponse{}, attendance.ErrFaceMismatch
		}
		if !ok {
			return attendance.AttendanceResponse{}, attendance.ErrFaceMismatch
		}
	}

	created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
		EmployeeID:      emp.ID,
		Date:            today,
		CheckIn:         now,
		CheckInMethod:   req.Method,
		CheckInLocation: req.Location,
		Status:          attendance.StatusActive,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateForDate) {
			return attendance.AttendanceResponse{}, attendance.ErrDuplicateCheckIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	name := emp.FullName()
	created.EmployeeName = &name
	created.Department = &emp.Department

	slog.Info("Employee checked in", "employee_id", emp.ID, "attendance_id", created.ID, "method", req.Method)
	s.publish(attendance.EventCheckIn, created)

	return attendance.ToResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	today := s.calendar.Today(now)

	rec, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if rec == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoActiveCheckIn
	}

	if err := rec.Complete(now, req.Method, req.Location); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	completed, err := s.AttendanceRepository.Complete(ctx, *rec)
	if err != nil {
		if errors.Is(err, attendance.ErrNoActiveCheckIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to complete attendance: %w", err)
	}

	slog.Info("Employee checked out", "employee_id", req.EmployeeID, "attendance_id", completed.ID, "work_hours", completed.WorkHours)
	s.publish(attendance.EventCheckOut, completed)

	return attendance.ToResponse(completed), nil
}

// ManualCorrection implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ManualCorrection(ctx context.Context, req attendance.ManualCorrectionRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	checkIn, checkOut := req.Times()

	var updated attendance.Attendance
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.AttendanceRepository.GetByID(ctx, req.AttendanceID)
		if err != nil {
			return err
		}
		if checkIn != nil {
			if err := s.onDate(*checkIn, rec.Date); err != nil {
				return err
			}
		}
		previous := rec.Snapshot()

		if err := rec.Correct(checkIn, checkOut); err != nil {
			return err
		}

		updated, err = s.AttendanceRepository.Update(ctx, rec)
		if err != nil {
			return err
		}

		_, err = s.auditRepo.Create(ctx, audit.Entry{
			Action:             audit.ActionAttendanceCorrection,
			PerformedBy:        req.Actor.UserID,
			TargetEmployeeID:   &updated.EmployeeID,
			TargetAttendanceID: &updated.ID,
			Description:        req.Reason,
			PreviousValue:      audit.Snapshot(previous),
			NewValue:           audit.Snapshot(updated.Snapshot()),
			IPAddress:          req.Actor.IPAddress,
			UserAgent:          req.Actor.UserAgent,
		})
		if err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance corrected", "attendance_id", updated.ID, "performed_by", req.Actor.UserID)
	return attendance.ToResponse(updated), nil
}

// ManualInsert implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ManualInsert(ctx context.Context, req attendance.ManualInsertRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	checkIn, checkOut := req.Times()
	if err := s.onDate(checkIn, req.Date); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var created attendance.Attendance
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, req.Date)
		if err != nil {
			return fmt.Errorf("failed to check attendance for date: %w", err)
		}
		if existing != nil {
			return attendance.ErrDuplicateForDate
		}

		rec := attendance.Attendance{
			EmployeeID:    emp.ID,
			Date:          req.Date,
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			CheckInMethod: attendance.MethodManual,
		}
		if checkOut != nil {
			m := attendance.MethodManual
			rec.CheckOutMethod = &m
		}
		rec.Recompute()

		created, err = s.AttendanceRepository.Create(ctx, rec)
		if err != nil {
			return err
		}

		_, err = s.auditRepo.Create(ctx, audit.Entry{
			Action:             audit.ActionAttendanceInsert,
			PerformedBy:        req.Actor.UserID,
			TargetEmployeeID:   &created.EmployeeID,
			TargetAttendanceID: &created.ID,
			Description:        req.Reason,
			NewValue:           audit.Snapshot(created.Snapshot()),
			IPAddress:          req.Actor.IPAddress,
			UserAgent:          req.Actor.UserAgent,
		})
		if err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance inserted manually", "attendance_id", created.ID, "employee_id", created.EmployeeID, "performed_by", req.Actor.UserID)
	return attendance.ToResponse(created), nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, employeeID string) (*attendance.AttendanceResponse, error) {
	if !validator.IsValidUUID(employeeID) {
		return nil, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id must be a valid UUID"}}
	}

	rec, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, s.calendar.Today(s.clock.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if rec == nil {
		return nil, nil
	}

	resp := attendance.ToResponse(*rec)
	return &resp, nil
}

// GetHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetHistory(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := s.AttendanceRepository.ListByEmployee(ctx, filter.EmployeeID, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance history: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.ToResponse(rec))
	}
	return responses, nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.ToResponse(rec))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Showing:     attendance.Showing(filter.Page, filter.Limit, len(records), total),
		Attendances: responses,
	}, nil
}

// GetAuditTrail implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAuditTrail(ctx context.Context, attendanceID string) ([]audit.EntryResponse, error) {
	if !validator.IsValidUUID(attendanceID) {
		return nil, validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}

	if _, err := s.AttendanceRepository.GetByID(ctx, attendanceID); err != nil {
		return nil, err
	}

	entries, err := s.auditRepo.ListByAttendance(ctx, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit trail: %w", err)
	}

	responses := make([]audit.EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, audit.ToResponse(e))
	}
	return responses, nil
}
