package payroll

import "errors"

var (
	ErrSalaryNotFound          = errors.New("salary record not found")
	ErrSalaryAlreadyPaid       = errors.New("salary record already paid, cannot recalculate")
	ErrMissingBaseSalary       = errors.New("employee does not have a base salary defined")
	ErrInvalidStatusTransition = errors.New("invalid salary status transition")
	ErrNoWorkingDays           = errors.New("period has no working days")
)
