//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guardia/guardia/internal/platform/db"
)

// pool is shared by every test; TestMain migrates it once.
var pool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	connStr := os.Getenv("TEST_DATABASE_URL")
	cleanup := func() {}
	if connStr == "" {
		var err error
		connStr, cleanup, err = startPostgres(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start postgres: %v\n", err)
			os.Exit(1)
		}
	}

	p, err := db.NewPool(ctx, connStr, 5, 1)
	if err != nil {
		cleanup()
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	if _, err := db.NewMigrator(p, findMigrationsDir()).Up(ctx); err != nil {
		p.Close()
		cleanup()
		fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
		os.Exit(1)
	}

	pool = p
	code := m.Run()
	p.Close()
	cleanup()
	os.Exit(code)
}

// findMigrationsDir locates migrations/ relative to this file.
func findMigrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

// resetTables empties every desk table.
func resetTables(t *testing.T) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `TRUNCATE consultation, patient, staff, resource`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func ptrStr(s string) *string { return &s }
func ptrInt(n int) *int { return &n }
