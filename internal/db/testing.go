package db

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
)

// CreateTestPool connects to TEST_POSTGRESQL_URL and applies migrations from
// TEST_MIGRATIONS_PATH. The test is skipped when no database is configured.
func CreateTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	connString := os.Getenv("TEST_POSTGRESQL_URL")
	if connString == "" {
		t.Skip("TEST_POSTGRESQL_URL is not set")
	}
	migrationsPath := os.Getenv("TEST_MIGRATIONS_PATH")
	if migrationsPath == "" {
		t.Fatal("TEST_MIGRATIONS_PATH must be set.")
	}
	if err := Migrate(connString, migrationsPath, Up); err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		t.Fatalf("Could not connect to the database: %v", err)
	}
	return pool
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), `TRUNCATE "user", password_reset_request RESTART IDENTITY CASCADE`)
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}
