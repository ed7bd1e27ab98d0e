package postgresql_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	empA = "0190a1b2-0000-7000-8000-000000000001"
	empB = "0190a1b2-0000-7000-8000-000000000002"
)

var testSetup *TestDatabaseSetup

func TestMain(m *testing.M) {
	ctx := context.Background()
	setup, ok, err := NewTestDatabase(ctx)
	if !ok {
		// TEST_DATABASE_URL not set
		os.Exit(0)
	}
	if err != nil {
		panic("Failed to set up test database: " + err.Error())
	}
	testSetup = setup

	code := m.Run()
	setup.Close()
	os.Exit(code)
}

func resetData(t *testing.T) context.Context {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, testSetup.TruncateAllTables(ctx))
	require.NoError(t, testSetup.SeedEmployee(ctx, empA, "EMP001", "Engineering", "15", "3000"))
	require.NoError(t, testSetup.SeedEmployee(ctx, empB, "EMP002", "Finance", "20", "0"))
	return ctx
}

func newAttendance(empID, date string, checkIn time.Time) attendance.Attendance {
	return attendance.Attendance{
		EmployeeID:      empID,
		Date:            date,
		CheckIn:         checkIn,
		CheckInMethod:   attendance.MethodFacial,
		CheckInLocation: &attendance.Location{Latitude: -6.2, Longitude: 106.8},
		Status:          attendance.StatusActive,
	}
}

func TestAttendanceRepository_Lifecycle(t *testing.T) {
	ctx := resetData(t)
	repo := postgresql.NewAttendanceRepository(testSetup.DB)

	checkIn := time.Date(2024, 3, 4, 1, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, newAttendance(empA, "2024-03-04", checkIn))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, newAttendance(empA, "2024-03-04", checkIn.Add(time.Hour)))
	assert.ErrorIs(t, err, attendance.ErrDuplicateForDate)

	found, err := repo.GetByEmployeeAndDate(ctx, empA, "2024-03-04")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "2024-03-04", found.Date)
	require.NotNil(t, found.CheckInLocation)
	assert.Equal(t, -6.2, found.CheckInLocation.Latitude)
	require.NotNil(t, found.Department)
	assert.Equal(t, "Engineering", *found.Department)

	none, err := repo.GetByEmployeeAndDate(ctx, empB, "2024-03-04")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, found.Complete(checkIn.Add(8*time.Hour+30*time.Minute), attendance.MethodFacial, nil))
	completed, err := repo.Complete(ctx, *found)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCompleted, completed.Status)

	_, err = repo.Complete(ctx, *found)
	assert.ErrorIs(t, err, attendance.ErrNoActiveCheckIn)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.5, stored.WorkHours)
	require.NotNil(t, stored.CheckOut)

	_, err = repo.GetByID(ctx, empB)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_Queries(t *testing.T) {
	ctx := resetData(t)
	repo := postgresql.NewAttendanceRepository(testSetup.DB)

	for i, date := range []string{"2024-03-01", "2024-03-04", "2024-03-05"} {
		in := time.Date(2024, 3, 1+i, 1, 0, 0, 0, time.UTC)
		_, err := repo.Create(ctx, newAttendance(empA, date, in))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, newAttendance(empB, "2024-03-04", time.Date(2024, 3, 4, 2, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	start, end := "2024-03-02", "2024-03-31"
	history, err := repo.ListByEmployee(ctx, empA, &start, &end)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2024-03-05", history[0].Date)

	finance := "Finance"
	ranged, err := repo.ListByDateRange(ctx, "2024-03-01", "2024-03-31", nil, &finance)
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, empB, ranged[0].EmployeeID)

	list, total, err := repo.List(ctx, attendance.AttendanceFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, list, 2)
}

func TestEmployeeRepository(t *testing.T) {
	ctx := resetData(t)
	repo := postgresql.NewEmployeeRepository(testSetup.DB)

	emp, err := repo.GetByID(ctx, empA)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", emp.EmployeeCode)
	assert.True(t, decimal.NewFromInt(15).Equal(emp.HourlyRate))
	assert.False(t, emp.HasFaceTemplate())

	_, err = repo.GetByID(ctx, "0190a1b2-0000-7000-8000-0000000000ff")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	descriptor := []float64{0.1, 0.2, 0.3}
	require.NoError(t, repo.UpdateFaceDescriptor(ctx, empA, descriptor))
	emp, err = repo.GetByID(ctx, empA)
	require.NoError(t, err)
	assert.Equal(t, descriptor, emp.FaceDescriptor)

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	eng := "Engineering"
	active, err := repo.ListActive(ctx, &eng)
	require.NoError(t, err)
	require.Len(t, active, 1)

	stats, err := repo.DepartmentStats(ctx)
	require.NoError(t, err)
	assert.Len(t, stats, 2)

	created, err := repo.Create(ctx, employee.Employee{
		EmployeeCode: "EMP900",
		FirstName:    "Dewi",
		Email:        "dewi@example.com",
		Department:   "Finance",
		HourlyRate:   decimal.NewFromInt(12),
		IsActive:     true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = repo.Create(ctx, employee.Employee{
		EmployeeCode: "EMP900",
		FirstName:    "Dewi",
		Email:        "other@example.com",
		Department:   "Finance",
		IsActive:     true,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeExists)

	emp.HourlyRate = decimal.NewFromInt(18)
	emp.IsActive = false
	updated, err := repo.Update(ctx, emp)
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(emp.CreatedAt) || updated.UpdatedAt.Equal(emp.CreatedAt))

	emp, err = repo.GetByID(ctx, empA)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(18).Equal(emp.HourlyRate))
	assert.False(t, emp.IsActive)
	assert.Equal(t, descriptor, emp.FaceDescriptor)

	count, err = repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "EMP001", all[0].EmployeeCode)

	emp.Email = "EMP002@example.com"
	_, err = repo.Update(ctx, emp)
	assert.ErrorIs(t, err, employee.ErrEmployeeExists)

	emp.ID = "0190a1b2-0000-7000-8000-0000000000ff"
	emp.Email = "ghost@example.com"
	_, err = repo.Update(ctx, emp)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPayrollRepository_UpsertAndStatus(t *testing.T) {
	ctx := resetData(t)
	repo := postgresql.NewPayrollRepository(testSetup.DB)

	record := payroll.SalaryRecord{
		EmployeeID:  empA,
		PeriodMonth: 3,
		PeriodYear:  2024,
		Strategy:    payroll.StrategyHourly,
		TotalHours:  decimal.NewFromInt(160),
		HourlyRate:  decimal.NewFromInt(15),
		GrossSalary: decimal.NewFromInt(2400),
		NetSalary:   decimal.NewFromInt(2400),
	}

	first, err := repo.Upsert(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, payroll.SalaryStatusPending, first.Status)

	record.Bonuses = decimal.NewFromInt(100)
	record.NetSalary = decimal.NewFromInt(2500)
	second, err := repo.Upsert(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, decimal.NewFromInt(2500).Equal(second.NetSalary))

	all, err := repo.ListByEmployee(ctx, empA)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	paidAt := time.Now().UTC()
	paid, err := repo.UpdateStatus(ctx, first.ID, payroll.SalaryStatusPending, payroll.SalaryStatusPaid, &paidAt)
	require.NoError(t, err)
	assert.Equal(t, payroll.SalaryStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	_, err = repo.UpdateStatus(ctx, first.ID, payroll.SalaryStatusPending, payroll.SalaryStatusProcessed, nil)
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)

	_, err = repo.Upsert(ctx, record)
	assert.ErrorIs(t, err, payroll.ErrSalaryAlreadyPaid)

	_, err = repo.GetByEmployeePeriod(ctx, empB, 3, 2024)
	assert.ErrorIs(t, err, payroll.ErrSalaryNotFound)

	month := 3
	status := payroll.SalaryStatusPaid
	listed, err := repo.List(ctx, payroll.SalaryFilter{Month: &month, Status: &status})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestAuditRepository_WithinTransaction(t *testing.T) {
	ctx := resetData(t)
	attRepo := postgresql.NewAttendanceRepository(testSetup.DB)
	auditRepo := postgresql.NewAuditRepository(testSetup.DB)
	tx := postgresql.NewTransactor(testSetup.DB)

	att, err := attRepo.Create(ctx, newAttendance(empA, "2024-03-04", time.Date(2024, 3, 4, 1, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	target := att.ID
	entry := audit.Entry{
		Action:             audit.ActionAttendanceCorrection,
		PerformedBy:        "manager-1",
		TargetEmployeeID:   &att.EmployeeID,
		TargetAttendanceID: &target,
		Description:        "fix check-in",
		PreviousValue:      audit.Snapshot(att.Snapshot()),
	}

	errRollback := errors.New("rollback")
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := auditRepo.Create(ctx, entry); err != nil {
			return err
		}
		return errRollback
	})
	assert.ErrorIs(t, err, errRollback)

	entries, err := auditRepo.ListByAttendance(ctx, att.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := auditRepo.Create(ctx, entry)
		return err
	})
	require.NoError(t, err)

	entries, err = auditRepo.ListByAttendance(ctx, att.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "manager-1", entries[0].PerformedBy)
	assert.JSONEq(t, string(entry.PreviousValue), string(entries[0].PreviousValue))
	assert.Nil(t, entries[0].NewValue)

	byEmployee, err := auditRepo.ListByEmployee(ctx, empA, 10)
	require.NoError(t, err)
	assert.Len(t, byEmployee, 1)
}
