package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context, department *string) ([]Employee, error)
	ListAll(ctx context.Context) ([]Employee, error)
	CountActive(ctx context.Context) (int, error)
	DepartmentStats(ctx context.Context) ([]DepartmentStat, error)
	UpdateFaceDescriptor(ctx context.Context, id string, descriptor []float64) error

	// Create returns ErrEmployeeExists when the code or email is taken
	Create(ctx context.Context, emp Employee) (Employee, error)

	// Update writes profile, pay and active fields. The face descriptor is
	// only changed through UpdateFaceDescriptor.
	Update(ctx context.Context, emp Employee) (Employee, error)
}
