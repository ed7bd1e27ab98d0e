package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
	auditRepo  audit.Repository
	transactor database.Transactor
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	auditRepo audit.Repository,
	transactor database.Transactor,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepo,
		auditRepo:          auditRepo,
		transactor:         transactor,
	}
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if !validator.IsValidUUID(id) {
		return employee.EmployeeResponse{}, validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(emp), nil
}

// ListActive implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListActive(ctx context.Context, department *string) ([]employee.EmployeeResponse, error) {
	employees, err := s.EmployeeRepository.ListActive(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.ToResponse(e))
	}
	return responses, nil
}

// RegisterFace implements employee.EmployeeService.
func (s *EmployeeServiceImpl) RegisterFace(ctx context.Context, req employee.RegisterFaceRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var updated employee.Employee
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !emp.IsActive {
			return employee.ErrEmployeeInactive
		}
		hadTemplate := emp.HasFaceTemplate()

		if err := s.EmployeeRepository.UpdateFaceDescriptor(ctx, emp.ID, req.FaceDescriptor); err != nil {
			return err
		}
		emp.FaceDescriptor = req.FaceDescriptor
		updated = emp

		// Descriptors are biometric data and stay out of the audit log.
		_, err = s.auditRepo.Create(ctx, audit.Entry{
			Action:           audit.ActionFaceRegistration,
			PerformedBy:      req.Actor.UserID,
			TargetEmployeeID: &emp.ID,
			Description:      fmt.Sprintf("face template registered for %s", emp.EmployeeCode),
			PreviousValue:    audit.Snapshot(map[string]bool{"face_registered": hadTemplate}),
			NewValue:         audit.Snapshot(map[string]bool{"face_registered": true}),
			IPAddress:        req.Actor.IPAddress,
			UserAgent:        req.Actor.UserAgent,
		})
		if err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Face template registered", "employee_id", updated.ID, "performed_by", req.Actor.UserID)
	return employee.ToResponse(updated), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var updated employee.Employee
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		updated, err = s.EmployeeRepository.Update(ctx, req.Apply(emp))
		if err != nil {
			return err
		}

		_, err = s.auditRepo.Create(ctx, audit.Entry{
			Action:           audit.ActionEmployeeUpdate,
			PerformedBy:      req.Actor.UserID,
			TargetEmployeeID: &emp.ID,
			Description:      fmt.Sprintf("employee %s updated", emp.EmployeeCode),
			PreviousValue:    audit.Snapshot(employee.ToResponse(emp)),
			NewValue:         audit.Snapshot(employee.ToResponse(updated)),
			IPAddress:        req.Actor.IPAddress,
			UserAgent:        req.Actor.UserAgent,
		})
		if err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee updated", "employee_id", updated.ID, "performed_by", req.Actor.UserID)
	return employee.ToResponse(updated), nil
}

// DeactivateEmployee implements employee.EmployeeService. Deactivating an
// inactive employee is a no-op.
func (s *EmployeeServiceImpl) DeactivateEmployee(ctx context.Context, req employee.DeactivateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var result employee.Employee
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if !emp.IsActive {
			result = emp
			return nil
		}

		emp.IsActive = false
		result, err = s.EmployeeRepository.Update(ctx, emp)
		if err != nil {
			return err
		}

		_, err = s.auditRepo.Create(ctx, audit.Entry{
			Action:           audit.ActionEmployeeDeactivate,
			PerformedBy:      req.Actor.UserID,
			TargetEmployeeID: &emp.ID,
			Description:      fmt.Sprintf("employee %s deactivated", emp.EmployeeCode),
			PreviousValue:    audit.Snapshot(map[string]bool{"is_active": true}),
			NewValue:         audit.Snapshot(map[string]bool{"is_active": false}),
			IPAddress:        req.Actor.IPAddress,
			UserAgent:        req.Actor.UserAgent,
		})
		if err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee deactivated", "employee_id", result.ID, "performed_by", req.Actor.UserID)
	return employee.ToResponse(result), nil
}

// ImportEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ImportEmployees(ctx context.Context, req employee.ImportRequest) (employee.ImportResult, error) {
	if err := req.Validate(); err != nil {
		return employee.ImportResult{}, err
	}

	var (
		records [][]string
		err     error
	)
	switch req.Extension() {
	case "xlsx":
		records, err = readXLSX(req.Body)
	default:
		records, err = readCSV(req.Body)
	}
	if err != nil {
		return employee.ImportResult{}, validator.ValidationErrors{{Field: "file", Message: "file could not be read: " + err.Error()}}
	}

	rows, err := parseImportRows(records)
	if err != nil {
		return employee.ImportResult{}, validator.ValidationErrors{{Field: "file", Message: err.Error()}}
	}

	result := employee.ImportResult{
		Created: []employee.EmployeeResponse{},
		Errors:  []employee.ImportRowError{},
	}
	for _, row := range rows {
		created, err := s.importRow(ctx, row, req.Actor)
		if err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) && !errors.Is(err, employee.ErrEmployeeExists) {
				return result, fmt.Errorf("failed to import row %d: %w", row.Row, err)
			}
			result.Errors = append(result.Errors, employee.ImportRowError{
				Row:          row.Row,
				EmployeeCode: row.EmployeeCode,
				Error:        err.Error(),
			})
			continue
		}
		result.Created = append(result.Created, employee.ToResponse(created))
	}

	slog.Info("Employees imported",
		"file", req.Filename,
		"created", len(result.Created),
		"failed", len(result.Errors),
		"performed_by", req.Actor.UserID,
	)
	return result, nil
}

// importRow creates one employee and its audit entry atomically.
func (s *EmployeeServiceImpl) importRow(ctx context.Context, row employee.ImportRow, actor audit.Actor) (employee.Employee, error) {
	emp, err := row.ToEmployee()
	if err != nil {
		return employee.Employee{}, err
	}

	var created employee.Employee
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err = s.EmployeeRepository.Create(ctx, emp)
		if err != nil {
			return err
		}

		_, err = s.auditRepo.Create(ctx, audit.Entry{
			Action:           audit.ActionEmployeeImport,
			PerformedBy:      actor.UserID,
			TargetEmployeeID: &created.ID,
			Description:      fmt.Sprintf("employee %s imported from file row %d", created.EmployeeCode, row.Row),
			NewValue:         audit.Snapshot(employee.ToResponse(created)),
			IPAddress:        actor.IPAddress,
			UserAgent:        actor.UserAgent,
		})
		if err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	return created, err
}
