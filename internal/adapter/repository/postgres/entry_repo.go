package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

const entryColumns = "id, account_id, amount, created_at"

const (
	createEntry = `
INSERT INTO entries (account_id, amount)
VALUES ($1, $2)
RETURNING ` + entryColumns

	listEntriesByAccount = `
SELECT ` + entryColumns + ` FROM entries
WHERE account_id = $1
ORDER BY id
LIMIT $2 OFFSET $3`
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts an entry within tx.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, createEntry, entry.AccountID, entry.Amount)
	if err := scanEntry(row, entry); err != nil {
		return mapError(err)
	}

	return nil
}

// ListByAccount lists entries for one account, oldest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx, listEntriesByAccount, accountID, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []*domain.Entry

	for rows.Next() {
		var entry domain.Entry
		if err := scanEntry(rows, &entry); err != nil {
			return nil, mapError(err)
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return entries, nil
}

func scanEntry(row pgx.Row, entry *domain.Entry) error {
	return row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.Amount,
		&entry.CreatedAt,
	)
}
