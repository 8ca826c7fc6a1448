package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankledger/internal/domain"
)

const (
	entryTotal = `SELECT COALESCE(SUM(amount), 0)::bigint FROM entries`

	balanceMismatches = `
SELECT a.id, a.balance, COALESCE(SUM(e.amount), 0)::bigint AS entry_sum
FROM accounts a
LEFT JOIN entries e ON e.account_id = a.id
GROUP BY a.id, a.balance
HAVING a.balance <> COALESCE(SUM(e.amount), 0)
ORDER BY a.id`
)

// LedgerRepository implements usecase.LedgerRepository with aggregate
// queries over accounts and entries.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// EntryTotal sums every entry amount in the ledger. Zero means transfers
// have conserved money.
func (r *LedgerRepository) EntryTotal(ctx context.Context) (int64, error) {
	var total int64

	if err := r.pool.QueryRow(ctx, entryTotal).Scan(&total); err != nil {
		return 0, mapError(err)
	}

	return total, nil
}

// BalanceMismatches reports accounts whose stored balance disagrees with
// the sum of their entries.
func (r *LedgerRepository) BalanceMismatches(ctx context.Context) ([]*domain.BalanceMismatch, error) {
	rows, err := r.pool.Query(ctx, balanceMismatches)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var mismatches []*domain.BalanceMismatch

	for rows.Next() {
		var m domain.BalanceMismatch
		if err := rows.Scan(&m.AccountID, &m.Balance, &m.EntrySum); err != nil {
			return nil, mapError(err)
		}

		mismatches = append(mismatches, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return mismatches, nil
}
