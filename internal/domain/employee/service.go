package employee

import "context"

type EmployeeService interface {
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	ListActive(ctx context.Context, department *string) ([]EmployeeResponse, error)

	// RegisterFace stores the face template used by facial check-in.
	RegisterFace(ctx context.Context, req RegisterFaceRequest) (EmployeeResponse, error)

	// UpdateEmployee changes profile and pay fields. Rate changes apply to
	// salaries calculated afterwards; stored salary records keep their rate.
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeactivateEmployee stops an employee from recording attendance. History
	// and salary records are kept.
	DeactivateEmployee(ctx context.Context, req DeactivateEmployeeRequest) (EmployeeResponse, error)

	// ImportEmployees creates employees from a CSV or XLSX file. Rows are
	// independent: a bad row is reported and the rest are still imported.
	ImportEmployees(ctx context.Context, req ImportRequest) (ImportResult, error)
}
