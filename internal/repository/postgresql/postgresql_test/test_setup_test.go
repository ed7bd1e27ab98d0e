package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
)

// TestDatabaseSetup holds a connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema.
// ok is false when the variable is unset.
func NewTestDatabase(ctx context.Context) (setup *TestDatabaseSetup, ok bool, err error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, false, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	if err != nil {
		return nil, true, fmt.Errorf("failed to connect to test database: %w", err)
	}

	setup = &TestDatabaseSetup{DB: db}
	if err := setup.migrate(ctx); err != nil {
		db.Close()
		return nil, true, err
	}
	return setup, true, nil
}

func (t *TestDatabaseSetup) migrate(ctx context.Context) error {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "..", "..", "..", "..")

	down, err := os.ReadFile(filepath.Join(root, "migrations", "000001_init.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read down migration: %w", err)
	}
	up, err := os.ReadFile(filepath.Join(root, "migrations", "000001_init.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read up migration: %w", err)
	}

	if _, err := t.DB.Exec(ctx, string(down)); err != nil {
		return fmt.Errorf("failed to apply down migration: %w", err)
	}
	if _, err := t.DB.Exec(ctx, string(up)); err != nil {
		return fmt.Errorf("failed to apply up migration: %w", err)
	}
	return nil
}

// TruncateAllTables removes all rows between tests.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"audit_logs",
		"salary_records",
		"attendances",
		"employees",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// SeedEmployee inserts an active employee.
func (t *TestDatabaseSetup) SeedEmployee(ctx context.Context, id, code, department string, hourlyRate, baseSalary string) error {
	_, err := t.DB.Exec(ctx, `
		INSERT INTO employees (id, employee_code, first_name, last_name, email, department, position, hourly_rate, base_salary)
		VALUES ($1, $2, 'Test', $2, $2 || '@example.com', $3, 'Staff', $4::numeric, $5::numeric)
	`, id, code, department, hourlyRate, baseSalary)
	return err
}

// Close closes the pool.
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
