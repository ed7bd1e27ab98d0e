package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const salaryColumns = `
	s.id, s.employee_id, s.period_month, s.period_year, s.strategy,
	s.total_hours, s.hourly_rate, s.gross_salary, s.deductions, s.bonuses, s.net_salary,
	s.status, s.paid_at, s.created_at, s.updated_at,
	TRIM(e.first_name || ' ' || e.last_name), e.employee_code, e.department`

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.SalaryRepository {
	return &payrollRepository{db: db}
}

func scanSalary(row rowScanner) (payroll.SalaryRecord, error) {
	var rec payroll.SalaryRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear, &rec.Strategy,
		&rec.TotalHours, &rec.HourlyRate, &rec.GrossSalary, &rec.Deductions, &rec.Bonuses, &rec.NetSalary,
		&rec.Status, &rec.PaidAt, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode, &rec.Department,
	)
	return rec, err
}

// Upsert implements payroll.SalaryRepository. A recalculation keeps the
// stored status; a paid record does not match the conflict predicate, so no
// row comes back.
func (r *payrollRepository) Upsert(ctx context.Context, record payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return payroll.SalaryRecord{}, err
	}

	query := `
		WITH upserted AS (
			INSERT INTO salary_records (
				id, employee_id, period_month, period_year, strategy,
				total_hours, hourly_rate, gross_salary, deductions, bonuses, net_salary, status
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'pending'
			)
			ON CONFLICT ON CONSTRAINT uq_salary_records_employee_period DO UPDATE
			SET strategy = EXCLUDED.strategy,
				total_hours = EXCLUDED.total_hours,
				hourly_rate = EXCLUDED.hourly_rate,
				gross_salary = EXCLUDED.gross_salary,
				deductions = EXCLUDED.deductions,
				bonuses = EXCLUDED.bonuses,
				net_salary = EXCLUDED.net_salary,
				updated_at = NOW()
			WHERE salary_records.status <> 'paid'
			RETURNING *
		)
		SELECT ` + salaryColumns + `
		FROM upserted s
		JOIN employees e ON e.id = s.employee_id
	`

	saved, err := scanSalary(q.QueryRow(ctx, query,
		id,
		record.EmployeeID,
		record.PeriodMonth,
		record.PeriodYear,
		record.Strategy,
		record.TotalHours,
		record.HourlyRate,
		record.GrossSalary,
		record.Deductions,
		record.Bonuses,
		record.NetSalary,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryRecord{}, payroll.ErrSalaryAlreadyPaid
		}
		return payroll.SalaryRecord{}, fmt.Errorf("failed to upsert salary record: %w", err)
	}

	return saved, nil
}

// GetByID implements payroll.SalaryRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + `
		FROM salary_records s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.id = $1
	`

	rec, err := scanSalary(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryRecord{}, payroll.ErrSalaryNotFound
		}
		return payroll.SalaryRecord{}, fmt.Errorf("failed to get salary record: %w", err)
	}

	return rec, nil
}

// GetByEmployeePeriod implements payroll.SalaryRepository.
func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + `
		FROM salary_records s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.employee_id = $1
		  AND s.period_month = $2
		  AND s.period_year = $3
	`

	rec, err := scanSalary(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryRecord{}, payroll.ErrSalaryNotFound
		}
		return payroll.SalaryRecord{}, fmt.Errorf("failed to get salary record by period: %w", err)
	}

	return rec, nil
}

// ListByEmployee implements payroll.SalaryRepository.
func (r *payrollRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.SalaryRecord, error) {
	return r.query(ctx, "s.employee_id = $1", []any{employeeID})
}

// List implements payroll.SalaryRepository.
func (r *payrollRepository) List(ctx context.Context, filter payroll.SalaryFilter) ([]payroll.SalaryRecord, error) {
	where := "TRUE"
	args := []any{}
	argIdx := 1

	if filter.Month != nil {
		where += fmt.Sprintf(" AND s.period_month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		where += fmt.Sprintf(" AND s.period_year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND s.status = $%d", argIdx)
		args = append(args, *filter.Status)
	}

	return r.query(ctx, where, args)
}

// UpdateStatus implements payroll.SalaryRepository.
func (r *payrollRepository) UpdateStatus(ctx context.Context, id string, from, to payroll.SalaryStatus, paidAt *time.Time) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE salary_records
			SET status = $1,
				paid_at = COALESCE($2, paid_at),
				updated_at = NOW()
			WHERE id = $3
			  AND status = $4
			RETURNING *
		)
		SELECT ` + salaryColumns + `
		FROM updated s
		JOIN employees e ON e.id = s.employee_id
	`

	rec, err := scanSalary(q.QueryRow(ctx, query, to, paidAt, id, from))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryRecord{}, payroll.ErrInvalidStatusTransition
		}
		return payroll.SalaryRecord{}, fmt.Errorf("failed to update salary status: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) query(ctx context.Context, where string, args []any) ([]payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + `
		FROM salary_records s
		JOIN employees e ON e.id = s.employee_id
		WHERE ` + where + `
		ORDER BY s.period_year DESC, s.period_month DESC, e.first_name`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query salary records: %w", err)
	}
	defer rows.Close()

	records := make([]payroll.SalaryRecord, 0)
	for rows.Next() {
		rec, err := scanSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary records: %w", err)
	}

	return records, nil
}
