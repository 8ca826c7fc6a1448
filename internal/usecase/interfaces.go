package usecase

import (
	"context"
	"time"

	"github.com/iho/bankledger/internal/domain"
)

// AccountRepository defines data access for accounts. Create assigns ID and
// CreatedAt from the store.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id int64) (*domain.Account, error)
	// GetByIDsForUpdate locks the account rows in ascending id order; ids must
	// already be sorted.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []int64) ([]*domain.Account, error)
	// AddBalance applies balance += delta in a single locking statement and
	// returns the updated row.
	AddBalance(ctx context.Context, tx Transaction, id, delta int64) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id int64) (*domain.Transfer, error)
	ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Transfer, error)
}

// EntryRepository defines data access for entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Entry, error)
}

// LedgerRepository defines ledger-wide verification queries.
type LedgerRepository interface {
	// EntryTotal returns the sum of all entry amounts. Transfers book a
	// balanced pair, so the total is zero in a consistent ledger.
	EntryTotal(ctx context.Context) (int64, error)
	// BalanceMismatches returns accounts whose balance differs from the sum
	// of their entries.
	BalanceMismatches(ctx context.Context) ([]*domain.BalanceMismatch, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient store conflicts.
type Retrier interface {
	Retry(ctx context.Context, op func() error) error
}

// IdempotencyStore guards duplicate transfer submissions. Reserve claims a
// key for the calling request or returns the response an earlier request
// already stored.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (reserved bool, cached []byte, err error)
	Save(ctx context.Context, key string, response []byte, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}
