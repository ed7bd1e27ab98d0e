package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Strategy selects how gross salary is derived.
type Strategy string

const (
	StrategyHourly  Strategy = "hourly"
	StrategyProRata Strategy = "pro_rata"
)

func (s Strategy) Valid() bool {
	return s == StrategyHourly || s == StrategyProRata
}

// SalaryStatus enum
type SalaryStatus string

const (
	SalaryStatusPending   SalaryStatus = "pending"
	SalaryStatusProcessed SalaryStatus = "processed"
	SalaryStatusPaid      SalaryStatus = "paid"
)

var statusRank = map[SalaryStatus]int{
	SalaryStatusPending:   0,
	SalaryStatusProcessed: 1,
	SalaryStatusPaid:      2,
}

func (s SalaryStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CheckTransition allows pending -> processed -> paid, skipping forward is
// allowed. Returns noop=true when from == to.
func CheckTransition(from, to SalaryStatus) (noop bool, err error) {
	if !from.Valid() || !to.Valid() {
		return false, ErrInvalidStatusTransition
	}
	if from == to {
		return true, nil
	}
	if statusRank[to] < statusRank[from] {
		return false, ErrInvalidStatusTransition
	}
	return false, nil
}

// SalaryRecord is the pay computation for one employee and month.
type SalaryRecord struct {
	ID          string
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int
	Strategy    Strategy
	TotalHours  decimal.Decimal
	HourlyRate  decimal.Decimal
	GrossSalary decimal.Decimal
	Deductions  decimal.Decimal
	Bonuses     decimal.Decimal
	NetSalary   decimal.Decimal
	Status      SalaryStatus
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
	Department   *string
}
