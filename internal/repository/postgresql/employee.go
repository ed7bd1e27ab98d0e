package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `
	id, employee_code, first_name, last_name, email, department, position,
	hourly_rate, base_salary, face_descriptor, is_active, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Department, &emp.Position,
		&emp.HourlyRate, &emp.BaseSalary, &emp.FaceDescriptor, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id %s: %w", id, err)
	}

	return emp, nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context, department *string) ([]employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE is_active`
	args := []any{}
	if department != nil && *department != "" {
		query += ` AND department = $1`
		args = append(args, *department)
	}
	query += ` ORDER BY first_name, last_name`

	employees, err := e.queryEmployees(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	return employees, nil
}

// ListAll implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListAll(ctx context.Context) ([]employee.Employee, error) {
	employees, err := e.queryEmployees(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY employee_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

func (e *employeeRepositoryImpl) queryEmployees(ctx context.Context, query string, args ...any) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// CountActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CountActive(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, e.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE is_active`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return count, nil
}

// DepartmentStats implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) DepartmentStats(ctx context.Context) ([]employee.DepartmentStat, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT department, COUNT(*), COALESCE(AVG(base_salary), 0)
		FROM employees
		WHERE is_active
		GROUP BY department
		ORDER BY COUNT(*) DESC, department
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query department stats: %w", err)
	}
	defer rows.Close()

	stats := make([]employee.DepartmentStat, 0)
	for rows.Next() {
		var s employee.DepartmentStat
		if err := rows.Scan(&s.Department, &s.Count, &s.AverageSalary); err != nil {
			return nil, fmt.Errorf("failed to scan department stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate department stats: %w", err)
	}

	return stats, nil
}

// UpdateFaceDescriptor implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateFaceDescriptor(ctx context.Context, id string, descriptor []float64) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET face_descriptor = $1, updated_at = NOW()
		WHERE id = $2
	`

	commandTag, err := q.Exec(ctx, query, descriptor, id)
	if err != nil {
		return fmt.Errorf("failed to update face descriptor for employee with id %s: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if emp.ID == "" {
		id, err := newID()
		if err != nil {
			return employee.Employee{}, err
		}
		emp.ID = id
	}

	query := `
		INSERT INTO employees (
			id, employee_code, first_name, last_name, email, department, position,
			hourly_rate, base_salary, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		emp.ID,
		emp.EmployeeCode,
		emp.FirstName,
		emp.LastName,
		emp.Email,
		emp.Department,
		emp.Position,
		emp.HourlyRate,
		emp.BaseSalary,
		emp.IsActive,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "") {
			return employee.Employee{}, employee.ErrEmployeeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee %s: %w", emp.EmployeeCode, err)
	}

	return emp, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET first_name = $2, last_name = $3, email = $4, department = $5, position = $6,
			hourly_rate = $7, base_salary = $8, is_active = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		emp.ID,
		emp.FirstName,
		emp.LastName,
		emp.Email,
		emp.Department,
		emp.Position,
		emp.HourlyRate,
		emp.BaseSalary,
		emp.IsActive,
	).Scan(&emp.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		if isUniqueViolation(err, "") {
			return employee.Employee{}, employee.ErrEmployeeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee with id %s: %w", emp.ID, err)
	}

	return emp, nil
}
