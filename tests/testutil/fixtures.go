package testutil

import (
	"context"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB connects to the database named by DATABASE_URL and applies
// migrations. Tests are skipped when no database is configured.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	migrationsPath := "../../migrations"
	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		migrationsPath = "migrations"
	}

	if err := postgres.RunMigrations(dbURL, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return &TestDB{Pool: pool, t: t}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE entries CASCADE;
		TRUNCATE TABLE transfers CASCADE;
		TRUNCATE TABLE accounts CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateTestAccount creates an account and, when balance is non-zero, books
// the opening balance as a seed entry so the ledger invariants hold.
func (db *TestDB) CreateTestAccount(ctx context.Context, owner, currency string, balance int64) *domain.Account {
	db.t.Helper()

	var account domain.Account

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO accounts (owner, currency, balance)
		VALUES ($1, $2, $3)
		RETURNING id, owner, balance, currency, created_at`,
		owner, currency, balance,
	).Scan(&account.ID, &account.Owner, &account.Balance, &account.Currency, &account.CreatedAt)
	if err != nil {
		db.t.Fatalf("failed to create test account: %v", err)
	}

	if balance != 0 {
		_, err = db.Pool.Exec(ctx,
			`INSERT INTO entries (account_id, amount) VALUES ($1, $2)`,
			account.ID, balance,
		)
		if err != nil {
			db.t.Fatalf("failed to seed opening entry: %v", err)
		}
	}

	return &account
}

// RandomAmount returns a positive amount in [1, max].
func RandomAmount(max int64) int64 {
	return rand.Int63n(max) + 1
}
