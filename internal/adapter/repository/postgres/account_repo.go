package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

const accountColumns = "id, owner, balance, currency, created_at"

const (
	createAccount = `
INSERT INTO accounts (owner, currency, balance)
VALUES ($1, $2, $3)
RETURNING ` + accountColumns

	getAccountByID = `
SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	getAccountByIDForUpdate = `
SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	getAccountsByIDsForUpdate = `
SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	addAccountBalance = `
UPDATE accounts SET balance = balance + $2 WHERE id = $1
RETURNING ` + accountColumns

	listAccounts = `
SELECT ` + accountColumns + ` FROM accounts ORDER BY id LIMIT $1 OFFSET $2`
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts an account; the store assigns id and created_at.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	row := r.pool.QueryRow(ctx, createAccount, account.Owner, account.Currency, account.Balance)
	if err := scanAccount(row, account); err != nil {
		return mapError(err)
	}

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	var account domain.Account

	if err := scanAccount(r.pool.QueryRow(ctx, getAccountByID, id), &account); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, mapError(err)
	}

	return &account, nil
}

// GetByIDForUpdate reads an account row while holding a FOR UPDATE lock
// scoped to tx.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var account domain.Account

	if err := scanAccount(pgxTx.QueryRow(ctx, getAccountByIDForUpdate, id), &account); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, mapError(err)
	}

	return &account, nil
}

// GetByIDsForUpdate locks multiple account rows. ORDER BY id makes the lock
// acquisition order canonical no matter how the caller ordered ids.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, getAccountsByIDsForUpdate, ids)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var accounts []*domain.Account

	for rows.Next() {
		var account domain.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, mapError(err)
		}

		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return accounts, nil
}

// AddBalance applies balance += delta in one locking statement and returns
// the updated row.
func (r *AccountRepository) AddBalance(ctx context.Context, tx usecase.Transaction, id, delta int64) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var account domain.Account

	if err := scanAccount(pgxTx.QueryRow(ctx, addAccountBalance, id, delta), &account); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, mapError(err)
	}

	return &account, nil
}

// List lists accounts with pagination, ordered by id.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, listAccounts, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var accounts []*domain.Account

	for rows.Next() {
		var account domain.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, mapError(err)
		}

		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return accounts, nil
}

func scanAccount(row pgx.Row, account *domain.Account) error {
	return row.Scan(
		&account.ID,
		&account.Owner,
		&account.Balance,
		&account.Currency,
		&account.CreatedAt,
	)
}
