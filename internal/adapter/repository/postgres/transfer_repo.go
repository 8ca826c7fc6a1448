package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

const transferColumns = "id, from_account_id, to_account_id, amount, created_at"

const (
	createTransfer = `
INSERT INTO transfers (from_account_id, to_account_id, amount)
VALUES ($1, $2, $3)
RETURNING ` + transferColumns

	getTransferByID = `
SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`

	listTransfersByAccount = `
SELECT ` + transferColumns + ` FROM transfers
WHERE from_account_id = $1 OR to_account_id = $1
ORDER BY id
LIMIT $2 OFFSET $3`
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

// Create inserts a transfer record within tx.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, createTransfer, transfer.FromAccountID, transfer.ToAccountID, transfer.Amount)
	if err := scanTransfer(row, transfer); err != nil {
		return mapError(err)
	}

	return nil
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id int64) (*domain.Transfer, error) {
	var transfer domain.Transfer

	if err := scanTransfer(r.pool.QueryRow(ctx, getTransferByID, id), &transfer); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, mapError(err)
	}

	return &transfer, nil
}

// ListByAccount lists transfers where the account appears on either side.
func (r *TransferRepository) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Transfer, error) {
	rows, err := r.pool.Query(ctx, listTransfersByAccount, accountID, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var transfers []*domain.Transfer

	for rows.Next() {
		var transfer domain.Transfer
		if err := scanTransfer(rows, &transfer); err != nil {
			return nil, mapError(err)
		}

		transfers = append(transfers, &transfer)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return transfers, nil
}

func scanTransfer(row pgx.Row, transfer *domain.Transfer) error {
	return row.Scan(
		&transfer.ID,
		&transfer.FromAccountID,
		&transfer.ToAccountID,
		&transfer.Amount,
		&transfer.CreatedAt,
	)
}
