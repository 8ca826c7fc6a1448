package usecase

import (
	"context"
	"time"

	"github.com/iho/bankledger/internal/domain"
)

// TransferUseCase is the transfer engine: it moves money between two accounts
// as a single atomic unit of work, safe under concurrent execution from many
// callers and many process instances.
type TransferUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	transferRepo TransferRepository
	entryRepo    EntryRepository
	retrier      Retrier
	lockWait     time.Duration
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transferRepo TransferRepository,
	entryRepo EntryRepository,
	retrier Retrier,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		entryRepo:    entryRepo,
		retrier:      retrier,
		lockWait:     DefaultLockWait,
	}
}

// SetLockWait overrides how long one attempt may wait on row locks.
func (uc *TransferUseCase) SetLockWait(d time.Duration) {
	if d > 0 {
		uc.lockWait = d
	}
}

// CreateTransferInput represents input for creating a transfer.
type CreateTransferInput struct {
	FromAccountID int64
	ToAccountID   int64
	Amount        int64
}

// CreateTransfer moves Amount from one account to another: one transfer row,
// two balancing entries and two balance updates, committed or rolled back as
// a unit. Transient store conflicts are retried a bounded number of times;
// exhaustion surfaces ErrTransferFailed.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.TransferResult, error) {
	// Fail fast before opening any transaction.
	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var result *domain.TransferResult

	err := uc.retrier.Retry(ctx, func() error {
		res, err := uc.execTransfer(ctx, input)
		if err != nil {
			return err
		}

		result = res

		return nil
	})
	if err != nil {
		if domain.IsRetryable(err) {
			// Retries exhausted on a transient conflict.
			return nil, domain.WrapError(domain.KindTransferFailed, "transfer failed after retries", err)
		}

		return nil, err
	}

	return result, nil
}

// execTransfer runs one transfer attempt in its own transaction.
func (uc *TransferUseCase) execTransfer(ctx context.Context, input CreateTransferInput) (*domain.TransferResult, error) {
	// Bound how long one attempt may wait on locks so an abandoned call never
	// holds a transaction open indefinitely.
	attemptCtx, cancel := context.WithTimeout(ctx, uc.lockWait)
	defer cancel()

	tx, err := uc.txManager.Begin(attemptCtx)
	if err != nil {
		return nil, uc.attemptError(ctx, attemptCtx, err)
	}
	// Detached from caller cancellation; a no-op once the commit landed.
	defer tx.Rollback(context.WithoutCancel(ctx))

	res, err := uc.execInTx(attemptCtx, tx, input)
	if err != nil {
		return nil, uc.attemptError(ctx, attemptCtx, err)
	}

	if err := tx.Commit(attemptCtx); err != nil {
		return nil, uc.attemptError(ctx, attemptCtx, err)
	}

	return res, nil
}

func (uc *TransferUseCase) execInTx(ctx context.Context, tx Transaction, input CreateTransferInput) (*domain.TransferResult, error) {
	transfer := &domain.Transfer{
		FromAccountID: input.FromAccountID,
		ToAccountID:   input.ToAccountID,
		Amount:        input.Amount,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, err
	}

	fromEntry := &domain.Entry{AccountID: input.FromAccountID, Amount: -input.Amount}
	if err := uc.entryRepo.Create(ctx, tx, fromEntry); err != nil {
		return nil, err
	}

	toEntry := &domain.Entry{AccountID: input.ToAccountID, Amount: input.Amount}
	if err := uc.entryRepo.Create(ctx, tx, toEntry); err != nil {
		return nil, err
	}

	// Lock both rows in ascending id order regardless of direction. Locking
	// in request order deadlocks when A->B and B->A run concurrently.
	ids := []int64{input.FromAccountID, input.ToAccountID}
	if ids[0] > ids[1] {
		ids[0], ids[1] = ids[1], ids[0]
	}

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	if len(accounts) != 2 {
		return nil, domain.ErrAccountNotFound
	}

	byID := make(map[int64]*domain.Account, 2)
	for _, a := range accounts {
		byID[a.ID] = a
	}

	from := byID[input.FromAccountID]
	to := byID[input.ToAccountID]

	if from == nil || to == nil {
		return nil, domain.ErrAccountNotFound
	}

	if from.Currency != to.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	if err := from.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	fromUpdated, err := uc.accountRepo.AddBalance(ctx, tx, from.ID, -input.Amount)
	if err != nil {
		return nil, err
	}

	toUpdated, err := uc.accountRepo.AddBalance(ctx, tx, to.ID, input.Amount)
	if err != nil {
		return nil, err
	}

	return &domain.TransferResult{
		Transfer:    transfer,
		FromAccount: fromUpdated,
		ToAccount:   toUpdated,
		FromEntry:   fromEntry,
		ToEntry:     toEntry,
	}, nil
}

// attemptError converts an attempt killed by the lock-wait timeout into a
// retryable timeout error. Caller cancellation passes through untouched.
func (uc *TransferUseCase) attemptError(ctx, attemptCtx context.Context, err error) error {
	if attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return domain.WrapError(domain.KindTimeout, "lock wait timed out", err)
	}

	return err
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// ListTransfersByAccountInput represents input for listing transfers.
type ListTransfersByAccountInput struct {
	AccountID int64
	Limit     int
	Offset    int
}

// ListTransfersByAccount lists transfers touching an account, ordered by id
// ascending.
func (uc *TransferUseCase) ListTransfersByAccount(ctx context.Context, input ListTransfersByAccountInput) ([]*domain.Transfer, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultPageLimit
	}

	if input.Limit > MaxPageLimit {
		input.Limit = MaxPageLimit
	}

	return uc.transferRepo.ListByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}
