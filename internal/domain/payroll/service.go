package payroll

import "context"

type SalaryService interface {
	// CalculateSalary computes and stores the record for a month using the
	// requested strategy.
	CalculateSalary(ctx context.Context, req CalculateSalaryRequest) (CalculationResponse, error)

	GetEmployeeSalaries(ctx context.Context, employeeID string) ([]SalaryRecordResponse, error)

	// GetCurrentMonthSalary returns nil when nothing has been calculated yet.
	GetCurrentMonthSalary(ctx context.Context, employeeID string) (*SalaryRecordResponse, error)

	ListSalaries(ctx context.Context, filter SalaryFilter) (ListSalaryResponse, error)
	UpdateStatus(ctx context.Context, req UpdateSalaryStatusRequest) (SalaryRecordResponse, error)
}
