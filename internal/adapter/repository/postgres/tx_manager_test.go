package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/bankledger/internal/domain"
)

func newTxPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func TestTxManagerCommit(t *testing.T) {
	pool := newTxPool(t)
	pool.ExpectBegin()
	pool.ExpectCommit()

	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestTxManagerRollback(t *testing.T) {
	pool := newTxPool(t)
	pool.ExpectBegin()
	pool.ExpectRollback()

	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestTxManagerBeginError(t *testing.T) {
	pool := newTxPool(t)
	beginErr := errors.New("pool exhausted")
	pool.ExpectBegin().WillReturnError(beginErr)

	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if tx != nil || !errors.Is(err, beginErr) {
		t.Fatalf("expected begin error, got tx=%v err=%v", tx, err)
	}
}

func TestTxManagerCommitConflictIsRetryable(t *testing.T) {
	pool := newTxPool(t)
	pool.ExpectBegin()
	pool.ExpectCommit().WillReturnError(&pgconn.PgError{Code: "40001"})

	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	err = tx.Commit(context.Background())
	if !errors.Is(err, domain.ErrSerialization) {
		t.Fatalf("expected serialization conflict, got %v", err)
	}
	if !domain.IsRetryable(err) {
		t.Fatalf("expected commit conflict to be retryable")
	}
}
