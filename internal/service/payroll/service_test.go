package payroll_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	service "github.com/cmlabs-hris/presence-backend-go/internal/service/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSalaryRepository struct {
	records map[string]payroll.SalaryRecord
}

func (f *fakeSalaryRepository) find(employeeID string, month, year int) (payroll.SalaryRecord, bool) {
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.PeriodMonth == month && r.PeriodYear == year {
			return r, true
		}
	}
	return payroll.SalaryRecord{}, false
}

func (f *fakeSalaryRepository) Upsert(ctx context.Context, record payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	existing, ok := f.find(record.EmployeeID, record.PeriodMonth, record.PeriodYear)
	if ok {
		if existing.Status == payroll.SalaryStatusPaid {
			return payroll.SalaryRecord{}, payroll.ErrSalaryAlreadyPaid
		}
		record.ID = existing.ID
		record.Status = existing.Status
		record.CreatedAt = existing.CreatedAt
	} else {
		record.ID = uuid.NewString()
		record.Status = payroll.SalaryStatusPending
		record.CreatedAt = time.Now()
	}
	record.UpdatedAt = time.Now()
	f.records[record.ID] = record
	return record, nil
}

func (f *fakeSalaryRepository) GetByID(ctx context.Context, id string) (payroll.SalaryRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return payroll.SalaryRecord{}, payroll.ErrSalaryNotFound
	}
	return r, nil
}

func (f *fakeSalaryRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.SalaryRecord, error) {
	r, ok := f.find(employeeID, month, year)
	if !ok {
		return payroll.SalaryRecord{}, payroll.ErrSalaryNotFound
	}
	return r, nil
}

func (f *fakeSalaryRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.SalaryRecord, error) {
	var out []payroll.SalaryRecord
	for _, r := range f.records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSalaryRepository) List(ctx context.Context, filter payroll.SalaryFilter) ([]payroll.SalaryRecord, error) {
	var out []payroll.SalaryRecord
	for _, r := range f.records {
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeSalaryRepository) UpdateStatus(ctx context.Context, id string, from, to payroll.SalaryStatus, paidAt *time.Time) (payroll.SalaryRecord, error) {
	r, ok := f.records[id]
	if !ok || r.Status != from {
		return payroll.SalaryRecord{}, payroll.ErrInvalidStatusTransition
	}
	r.Status = to
	if paidAt != nil {
		r.PaidAt = paidAt
	}
	f.records[id] = r
	return r, nil
}

// fakeAttendanceRepository only serves ListByEmployee.
type fakeAttendanceRepository struct {
	attendance.AttendanceRepository
	records []attendance.Attendance
}

func (f *fakeAttendanceRepository) ListByEmployee(ctx context.Context, employeeID string, startDate, endDate *string) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, r := range f.records {
		if r.EmployeeID != employeeID {
			continue
		}
		if startDate != nil && r.Date < *startDate {
			continue
		}
		if endDate != nil && r.Date > *endDate {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakeEmployeeRepository struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeAuditRepository struct {
	audit.Repository
	entries []audit.Entry
}

func (f *fakeAuditRepository) Create(ctx context.Context, entry audit.Entry) (audit.Entry, error) {
	entry.ID = uuid.NewString()
	f.entries = append(f.entries, entry)
	return entry, nil
}

type fakeTransactor struct{ calls int }

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

const (
	hourlyID  = "0190a1b2-0000-7000-8000-000000000001"
	noBaseID  = "0190a1b2-0000-7000-8000-000000000002"
	missingID = "0190a1b2-0000-7000-8000-0000000000ff"
)

var (
	wib     = time.FixedZone("WIB", 7*3600)
	manager = audit.Actor{UserID: "manager-1", Role: "manager"}
)

type fixture struct {
	svc        payroll.SalaryService
	salaries   *fakeSalaryRepository
	employees  *fakeEmployeeRepository
	audits     *fakeAuditRepository
	transactor *fakeTransactor
	now        time.Time
}

// marchAttendance builds twenty completed 8h days in March 2024 plus one
// record still open.
func marchAttendance(employeeID string) []attendance.Attendance {
	var records []attendance.Attendance
	for day := 1; day <= 20; day++ {
		records = append(records, attendance.Attendance{
			EmployeeID: employeeID,
			Date:       fmt.Sprintf("2024-03-%02d", day),
			WorkHours:  8,
			Status:     attendance.StatusCompleted,
		})
	}
	records = append(records, attendance.Attendance{
		EmployeeID: employeeID,
		Date:       "2024-03-21",
		Status:     attendance.StatusActive,
	})
	records = append(records, attendance.Attendance{
		EmployeeID: employeeID,
		Date:       "2024-04-01",
		WorkHours:  8,
		Status:     attendance.StatusCompleted,
	})
	return records
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	employees := &fakeEmployeeRepository{employees: map[string]employee.Employee{
		hourlyID: {
			ID:         hourlyID,
			FirstName:  "Siti",
			HourlyRate: decimal.NewFromInt(15),
			BaseSalary: decimal.NewFromInt(3000),
			IsActive:   true,
		},
		noBaseID: {
			ID:         noBaseID,
			FirstName:  "Budi",
			HourlyRate: decimal.NewFromInt(20),
			IsActive:   true,
		},
	}}
	attendances := &fakeAttendanceRepository{records: append(marchAttendance(hourlyID), marchAttendance(noBaseID)...)}

	f := &fixture{
		salaries:   &fakeSalaryRepository{records: map[string]payroll.SalaryRecord{}},
		employees:  employees,
		audits:     &fakeAuditRepository{},
		transactor: &fakeTransactor{},
		now:        time.Date(2024, 3, 15, 10, 0, 0, 0, wib),
	}
	f.svc = service.NewPayrollService(
		f.salaries,
		attendances,
		employees,
		f.audits,
		f.transactor,
		calendar.New(wib),
		calendar.FixedClock{At: f.now},
	)
	return f
}

func calculate(strategy payroll.Strategy, employeeID string) payroll.CalculateSalaryRequest {
	return payroll.CalculateSalaryRequest{
		EmployeeID: employeeID,
		Month:      3,
		Year:       2024,
		Strategy:   strategy,
		Actor:      manager,
	}
}

func TestCalculateSalary_Hourly(t *testing.T) {
	f := newFixture(t)

	req := calculate(payroll.StrategyHourly, hourlyID)
	req.Deductions = decimal.NewFromInt(100)
	req.Bonuses = decimal.NewFromInt(50)

	resp, err := f.svc.CalculateSalary(context.Background(), req)
	require.NoError(t, err)

	assert.Nil(t, resp.Breakdown)
	assert.True(t, decimal.NewFromInt(160).Equal(resp.Record.TotalHours))
	assert.True(t, decimal.NewFromInt(2400).Equal(resp.Record.GrossSalary))
	assert.True(t, decimal.NewFromInt(2350).Equal(resp.Record.NetSalary))
	assert.Equal(t, payroll.SalaryStatusPending, resp.Record.Status)

	require.Len(t, f.audits.entries, 1)
	entry := f.audits.entries[0]
	assert.Equal(t, audit.ActionSalaryAdjustment, entry.Action)
	assert.Equal(t, "manager-1", entry.PerformedBy)
	assert.Nil(t, entry.PreviousValue)
	assert.NotNil(t, entry.NewValue)
	assert.Equal(t, 1, f.transactor.calls)
}

func TestCalculateSalary_ProRata(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.CalculateSalary(context.Background(), calculate(payroll.StrategyProRata, hourlyID))
	require.NoError(t, err)

	require.NotNil(t, resp.Breakdown)
	assert.Equal(t, 21, resp.Breakdown.WorkingDays)
	assert.Equal(t, 20, resp.Breakdown.PresentDays)
	assert.True(t, decimal.RequireFromString("2857.14").Equal(resp.Record.GrossSalary), resp.Record.GrossSalary.String())
	assert.Equal(t, payroll.StrategyProRata, resp.Record.Strategy)
}

func TestCalculateSalary_SnapshotsHourlyRate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CalculateSalary(ctx, calculate(payroll.StrategyHourly, hourlyID))
	require.NoError(t, err)

	emp := f.employees.employees[hourlyID]
	emp.HourlyRate = decimal.NewFromInt(25)
	f.employees.employees[hourlyID] = emp

	stored, err := f.salaries.GetByID(ctx, first.Record.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(stored.HourlyRate))
	assert.True(t, decimal.NewFromInt(2400).Equal(stored.GrossSalary))

	second, err := f.svc.CalculateSalary(ctx, calculate(payroll.StrategyHourly, hourlyID))
	require.NoError(t, err)
	assert.Equal(t, first.Record.ID, second.Record.ID)
	assert.Len(t, f.salaries.records, 1)

	stored, err = f.salaries.GetByID(ctx, first.Record.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(stored.HourlyRate))
	// 160h x 25
	assert.True(t, decimal.NewFromInt(4000).Equal(stored.GrossSalary))
}

func TestGetCurrentMonthSalary_RejectsMalformedID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetCurrentMonthSalary(context.Background(), "not-a-uuid")
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "employee_id")
}

func TestCalculateSalary_ProRataWithoutBaseSalary(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CalculateSalary(context.Background(), calculate(payroll.StrategyProRata, noBaseID))
	assert.ErrorIs(t, err, payroll.ErrMissingBaseSalary)
	assert.Empty(t, f.salaries.records)
}

func TestCalculateSalary_RecalculateKeepsRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CalculateSalary(ctx, calculate(payroll.StrategyHourly, hourlyID))
	require.NoError(t, err)

	req := calculate(payroll.StrategyHourly, hourlyID)
	req.Bonuses = decimal.NewFromInt(200)
	second, err := f.svc.CalculateSalary(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.Record.ID, second.Record.ID)
	assert.True(t, decimal.NewFromInt(2600).Equal(second.Record.NetSalary))
	assert.Len(t, f.salaries.records, 1)

	require.Len(t, f.audits.entries, 2)
	assert.NotNil(t, f.audits.entries[1].PreviousValue)
}

func TestCalculateSalary_PaidRecordRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.CalculateSalary(ctx, calculate(payroll.StrategyHourly, hourlyID))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, payroll.UpdateSalaryStatusRequest{ID: resp.Record.ID, Status: payroll.SalaryStatusPaid, Actor: manager})
	require.NoError(t, err)

	_, err = f.svc.CalculateSalary(ctx, calculate(payroll.StrategyHourly, hourlyID))
	assert.ErrorIs(t, err, payroll.ErrSalaryAlreadyPaid)
}

func TestCalculateSalary_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CalculateSalary(ctx, calculate(payroll.StrategyHourly, missingID))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	req := calculate(payroll.StrategyHourly, hourlyID)
	req.Month = 13
	_, err = f.svc.CalculateSalary(ctx, req)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "month")
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CalculateSalary(ctx, calculate(payroll.StrategyHourly, hourlyID))
	require.NoError(t, err)
	id := created.Record.ID
	auditsBefore := len(f.audits.entries)

	processed, err := f.svc.UpdateStatus(ctx, payroll.UpdateSalaryStatusRequest{ID: id, Status: payroll.SalaryStatusProcessed, Actor: manager})
	require.NoError(t, err)
	assert.Equal(t, payroll.SalaryStatusProcessed, processed.Status)
	assert.Nil(t, processed.PaidAt)

	again, err := f.svc.UpdateStatus(ctx, payroll.UpdateSalaryStatusRequest{ID: id, Status: payroll.SalaryStatusProcessed, Actor: manager})
	require.NoError(t, err)
	assert.Equal(t, payroll.SalaryStatusProcessed, again.Status)
	assert.Len(t, f.audits.entries, auditsBefore+1)

	paid, err := f.svc.UpdateStatus(ctx, payroll.UpdateSalaryStatusRequest{ID: id, Status: payroll.SalaryStatusPaid, Actor: manager})
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, f.now.Format(time.RFC3339), *paid.PaidAt)

	_, err = f.svc.UpdateStatus(ctx, payroll.UpdateSalaryStatusRequest{ID: id, Status: payroll.SalaryStatusPending, Actor: manager})
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)

	require.Len(t, f.audits.entries, auditsBefore+2)
	last := f.audits.entries[len(f.audits.entries)-1]
	assert.Equal(t, audit.ActionSalaryStatusChange, last.Action)
	assert.JSONEq(t, `{"status":"processed"}`, string(last.PreviousValue))
}

func TestUpdateStatus_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), payroll.UpdateSalaryStatusRequest{ID: missingID, Status: payroll.SalaryStatusPaid, Actor: manager})
	assert.ErrorIs(t, err, payroll.ErrSalaryNotFound)
}

func TestGetCurrentMonthSalary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	none, err := f.svc.GetCurrentMonthSalary(ctx, hourlyID)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = f.svc.CalculateSalary(ctx, calculate(payroll.StrategyHourly, hourlyID))
	require.NoError(t, err)

	current, err := f.svc.GetCurrentMonthSalary(ctx, hourlyID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, 3, current.PeriodMonth)
	assert.Equal(t, 2024, current.PeriodYear)
}

func TestListSalaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CalculateSalary(ctx, calculate(payroll.StrategyHourly, hourlyID))
	require.NoError(t, err)
	_, err = f.svc.CalculateSalary(ctx, calculate(payroll.StrategyHourly, noBaseID))
	require.NoError(t, err)

	list, err := f.svc.ListSalaries(ctx, payroll.SalaryFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Summary.TotalRecords)
	assert.Equal(t, 2, list.Summary.TotalPending)
	// 160h x 15 + 160h x 20
	assert.True(t, decimal.NewFromInt(5600).Equal(list.Summary.TotalGross))

	salaries, err := f.svc.GetEmployeeSalaries(ctx, noBaseID)
	require.NoError(t, err)
	assert.Len(t, salaries, 1)

	_, err = f.svc.GetEmployeeSalaries(ctx, "not-a-uuid")
	assert.Error(t, err)
}
