package usecase_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
	"github.com/iho/bankledger/internal/usecase/mocks"
)

// fakeStore is an in-memory stand-in for the relational store with real
// per-account row locks, staged writes and transactional commit/rollback.
// It lets the engine's concurrency contract be exercised without Postgres:
// a wrong lock order deadlocks here exactly as it would against real rows.
type fakeStore struct {
	mu        sync.Mutex
	accounts  map[int64]*domain.Account
	entries   []domain.Entry
	transfers []domain.Transfer
	rowLocks  map[int64]*sync.Mutex

	nextAccountID  atomic.Int64
	nextEntryID    atomic.Int64
	nextTransferID atomic.Int64

	// fault injection
	conflicts    atomic.Int32 // AddBalance fails with a serialization error while > 0
	entryFailure atomic.Int32 // entry Create fails while > 0
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: make(map[int64]*domain.Account),
		rowLocks: make(map[int64]*sync.Mutex),
	}
}

func (s *fakeStore) seedAccount(owner, currency string, balance int64) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := &domain.Account{
		ID:        s.nextAccountID.Add(1),
		Owner:     owner,
		Currency:  currency,
		Balance:   balance,
		CreatedAt: time.Now().UTC(),
	}
	s.accounts[acc.ID] = acc
	s.rowLocks[acc.ID] = &sync.Mutex{}

	// Book the opening balance as an entry so balance == sum(entries) holds
	// from the start.
	if balance != 0 {
		s.entries = append(s.entries, domain.Entry{
			ID:        s.nextEntryID.Add(1),
			AccountID: acc.ID,
			Amount:    balance,
			CreatedAt: acc.CreatedAt,
		})
	}

	copied := *acc

	return &copied
}

type fakeTx struct {
	store           *fakeStore
	stagedTransfers []*domain.Transfer
	stagedEntries   []*domain.Entry
	stagedDeltas    map[int64]int64
	locked          []int64
	done            bool
}

func (s *fakeStore) Begin(ctx context.Context) (usecase.Transaction, error) {
	return &fakeTx{store: s, stagedDeltas: make(map[int64]int64)}, nil
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.done {
		return errors.New("transaction already finished")
	}

	s := tx.store
	s.mu.Lock()
	for _, tr := range tx.stagedTransfers {
		s.transfers = append(s.transfers, *tr)
	}
	for _, e := range tx.stagedEntries {
		s.entries = append(s.entries, *e)
	}
	for id, delta := range tx.stagedDeltas {
		s.accounts[id].Balance += delta
	}
	s.mu.Unlock()

	tx.release()

	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if tx.done {
		return nil
	}

	tx.release()

	return nil
}

func (tx *fakeTx) release() {
	tx.done = true
	for i := len(tx.locked) - 1; i >= 0; i-- {
		tx.store.rowLocks[tx.locked[i]].Unlock()
	}
	tx.locked = nil
}

// AccountRepository

func (s *fakeStore) Create(ctx context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account.ID = s.nextAccountID.Add(1)
	account.CreatedAt = time.Now().UTC()
	s.accounts[account.ID] = account
	s.rowLocks[account.ID] = &sync.Mutex{}

	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	copied := *acc

	return &copied, nil
}

func (s *fakeStore) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
	accounts, err := s.GetByIDsForUpdate(ctx, tx, []int64{id})
	if err != nil {
		return nil, err
	}

	if len(accounts) != 1 {
		return nil, domain.ErrAccountNotFound
	}

	return accounts[0], nil
}

func (s *fakeStore) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.Account, error) {
	ftx := tx.(*fakeTx)

	var accounts []*domain.Account

	for _, id := range ids {
		s.mu.Lock()
		lock, ok := s.rowLocks[id]
		s.mu.Unlock()

		if !ok {
			continue
		}

		// Blocks like a row lock until the holding transaction finishes.
		lock.Lock()
		ftx.locked = append(ftx.locked, id)

		s.mu.Lock()
		copied := *s.accounts[id]
		s.mu.Unlock()

		copied.Balance += ftx.stagedDeltas[id]
		accounts = append(accounts, &copied)
	}

	return accounts, nil
}

func (s *fakeStore) AddBalance(ctx context.Context, tx usecase.Transaction, id, delta int64) (*domain.Account, error) {
	if s.conflicts.Load() > 0 && s.conflicts.Add(-1) >= 0 {
		return nil, domain.WrapError(domain.KindSerialization, "serialization conflict", errors.New("simulated 40001"))
	}

	ftx := tx.(*fakeTx)

	s.mu.Lock()
	acc, ok := s.accounts[id]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrAccountNotFound
	}
	copied := *acc
	s.mu.Unlock()

	ftx.stagedDeltas[id] += delta
	copied.Balance += ftx.stagedDeltas[id]

	return &copied, nil
}

func (s *fakeStore) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var accounts []*domain.Account
	for _, acc := range s.accounts {
		copied := *acc
		accounts = append(accounts, &copied)
	}

	return accounts, nil
}

// TransferRepository

func (s *fakeStore) CreateTransfer(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if err := s.checkAccounts(transfer.FromAccountID, transfer.ToAccountID); err != nil {
		return err
	}

	transfer.ID = s.nextTransferID.Add(1)
	transfer.CreatedAt = time.Now().UTC()
	tx.(*fakeTx).stagedTransfers = append(tx.(*fakeTx).stagedTransfers, transfer)

	return nil
}

func (s *fakeStore) GetTransferByID(ctx context.Context, id int64) (*domain.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.transfers {
		if s.transfers[i].ID == id {
			copied := s.transfers[i]
			return &copied, nil
		}
	}

	return nil, domain.ErrTransferNotFound
}

func (s *fakeStore) ListTransfersByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var transfers []*domain.Transfer
	for i := range s.transfers {
		if s.transfers[i].FromAccountID == accountID || s.transfers[i].ToAccountID == accountID {
			copied := s.transfers[i]
			transfers = append(transfers, &copied)
		}
	}

	return transfers, nil
}

// EntryRepository

func (s *fakeStore) CreateEntry(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if s.entryFailure.Load() > 0 && s.entryFailure.Add(-1) >= 0 {
		return errors.New("simulated entry insert failure")
	}

	if err := s.checkAccounts(entry.AccountID); err != nil {
		return err
	}

	entry.ID = s.nextEntryID.Add(1)
	entry.CreatedAt = time.Now().UTC()
	tx.(*fakeTx).stagedEntries = append(tx.(*fakeTx).stagedEntries, entry)

	return nil
}

func (s *fakeStore) ListEntriesByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []*domain.Entry
	for i := range s.entries {
		if s.entries[i].AccountID == accountID {
			copied := s.entries[i]
			entries = append(entries, &copied)
		}
	}

	return entries, nil
}

func (s *fakeStore) checkAccounts(ids ...int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, ok := s.accounts[id]; !ok {
			return domain.ErrAccountNotFound
		}
	}

	return nil
}

// snapshot returns committed balances, the entry total per account and row
// counts for invariant checks.
func (s *fakeStore) snapshot() (balances map[int64]int64, entrySums map[int64]int64, transferCount, entryCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balances = make(map[int64]int64)
	for id, acc := range s.accounts {
		balances[id] = acc.Balance
	}

	entrySums = make(map[int64]int64)
	for i := range s.entries {
		entrySums[s.entries[i].AccountID] += s.entries[i].Amount
	}

	return balances, entrySums, len(s.transfers), len(s.entries)
}

type transferAdapter struct{ *fakeStore }

func (a transferAdapter) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	return a.CreateTransfer(ctx, tx, transfer)
}

func (a transferAdapter) GetByID(ctx context.Context, id int64) (*domain.Transfer, error) {
	return a.GetTransferByID(ctx, id)
}

func (a transferAdapter) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Transfer, error) {
	return a.ListTransfersByAccount(ctx, accountID, limit, offset)
}

type entryAdapter struct{ *fakeStore }

func (a entryAdapter) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	return a.CreateEntry(ctx, tx, entry)
}

func (a entryAdapter) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Entry, error) {
	return a.ListEntriesByAccount(ctx, accountID, limit, offset)
}

func newEngine(store *fakeStore) *usecase.TransferUseCase {
	return usecase.NewTransferUseCase(store, store, transferAdapter{store}, entryAdapter{store}, mocks.NewMockRetrier())
}

func checkInvariants(t *testing.T, store *fakeStore, wantTotal int64) {
	t.Helper()

	balances, entrySums, _, _ := store.snapshot()

	var total int64
	for id, balance := range balances {
		total += balance

		if balance != entrySums[id] {
			t.Errorf("account %d: balance %d != entry sum %d", id, balance, entrySums[id])
		}
	}

	if total != wantTotal {
		t.Errorf("conservation violated: total %d, want %d", total, wantTotal)
	}
}

func TestConcurrentTransfersConserveMoney(t *testing.T) {
	store := newFakeStore()
	engine := newEngine(store)

	a := store.seedAccount("alice", "USD", 1000)
	b := store.seedAccount("bob", "USD", 1000)

	rng := rand.New(rand.NewSource(42))
	numTransfers := 40
	amounts := make([]int64, numTransfers)
	for i := range amounts {
		amounts[i] = rng.Int63n(20) + 1
	}

	var (
		wg        sync.WaitGroup
		committed atomic.Int32
	)

	wg.Add(numTransfers)

	for i := range numTransfers {
		go func() {
			defer wg.Done()

			from, to := a.ID, b.ID
			if i%2 == 1 {
				from, to = b.ID, a.ID
			}

			_, err := engine.CreateTransfer(context.Background(), usecase.CreateTransferInput{
				FromAccountID: from,
				ToAccountID:   to,
				Amount:        amounts[i],
			})
			if err == nil {
				committed.Add(1)
			}
		}()
	}

	wg.Wait()

	checkInvariants(t, store, 2000)

	_, _, transferCount, entryCount := store.snapshot()
	if transferCount != int(committed.Load()) {
		t.Errorf("expected %d transfer rows, got %d", committed.Load(), transferCount)
	}

	// Two entries per committed transfer plus the two opening entries.
	if entryCount != 2*int(committed.Load())+2 {
		t.Errorf("expected %d entries, got %d", 2*committed.Load()+2, entryCount)
	}
}

func TestOpposedConcurrentTransfersDoNotDeadlock(t *testing.T) {
	store := newFakeStore()
	engine := newEngine(store)

	a := store.seedAccount("alice", "USD", 500)
	b := store.seedAccount("bob", "USD", 100)

	// A->B and B->A in lockstep: with request-order locking this is the
	// classic circular wait.
	pairs := 10

	var (
		wg       sync.WaitGroup
		failures atomic.Int32
	)

	wg.Add(2 * pairs)

	for range pairs {
		go func() {
			defer wg.Done()

			_, err := engine.CreateTransfer(context.Background(), usecase.CreateTransferInput{
				FromAccountID: a.ID,
				ToAccountID:   b.ID,
				Amount:        10,
			})
			if err != nil {
				failures.Add(1)
			}
		}()

		go func() {
			defer wg.Done()

			_, err := engine.CreateTransfer(context.Background(), usecase.CreateTransferInput{
				FromAccountID: b.ID,
				ToAccountID:   a.ID,
				Amount:        10,
			})
			if err != nil {
				failures.Add(1)
			}
		}()
	}

	wg.Wait()

	if failures.Load() != 0 {
		t.Errorf("expected all opposed transfers to commit, %d failed", failures.Load())
	}

	// Equal opposite flows cancel out.
	balances, _, _, _ := store.snapshot()
	if balances[a.ID] != 500 || balances[b.ID] != 100 {
		t.Errorf("expected balances 500/100, got %d/%d", balances[a.ID], balances[b.ID])
	}

	checkInvariants(t, store, 600)
}

func TestConcurrentTransfersNoLostUpdate(t *testing.T) {
	store := newFakeStore()
	engine := newEngine(store)

	a := store.seedAccount("alice", "USD", 250)
	b := store.seedAccount("bob", "USD", 0)

	numTransfers := 25

	var (
		wg        sync.WaitGroup
		committed atomic.Int32
	)

	wg.Add(numTransfers)

	for range numTransfers {
		go func() {
			defer wg.Done()

			_, err := engine.CreateTransfer(context.Background(), usecase.CreateTransferInput{
				FromAccountID: a.ID,
				ToAccountID:   b.ID,
				Amount:        10,
			})
			if err == nil {
				committed.Add(1)
			}
		}()
	}

	wg.Wait()

	if committed.Load() != int32(numTransfers) {
		t.Fatalf("expected %d commits, got %d", numTransfers, committed.Load())
	}

	balances, _, _, _ := store.snapshot()
	if balances[a.ID] != 0 || balances[b.ID] != 250 {
		t.Errorf("lost update: expected 0/250, got %d/%d", balances[a.ID], balances[b.ID])
	}

	checkInvariants(t, store, 250)
}

func TestFailedTransferLeavesNoTrace(t *testing.T) {
	store := newFakeStore()
	engine := newEngine(store)

	a := store.seedAccount("alice", "USD", 500)
	b := store.seedAccount("bob", "USD", 100)

	store.entryFailure.Store(1)

	_, err := engine.CreateTransfer(context.Background(), usecase.CreateTransferInput{
		FromAccountID: a.ID,
		ToAccountID:   b.ID,
		Amount:        50,
	})
	if err == nil {
		t.Fatal("expected injected failure")
	}

	_, _, transferCount, entryCount := store.snapshot()
	if transferCount != 0 {
		t.Errorf("expected no transfer rows, got %d", transferCount)
	}

	// Only the two opening entries survive.
	if entryCount != 2 {
		t.Errorf("expected 2 entries, got %d", entryCount)
	}

	checkInvariants(t, store, 600)
}

func TestRetriedTransferCommitsExactlyOnce(t *testing.T) {
	store := newFakeStore()
	engine := newEngine(store)

	a := store.seedAccount("alice", "USD", 500)
	b := store.seedAccount("bob", "USD", 100)

	store.conflicts.Store(1)

	result, err := engine.CreateTransfer(context.Background(), usecase.CreateTransferInput{
		FromAccountID: a.ID,
		ToAccountID:   b.ID,
		Amount:        200,
	})
	if err != nil {
		t.Fatalf("expected retried transfer to commit, got %v", err)
	}

	if result.FromAccount.Balance != 300 || result.ToAccount.Balance != 300 {
		t.Errorf("expected balances 300/300, got %d/%d", result.FromAccount.Balance, result.ToAccount.Balance)
	}

	_, _, transferCount, entryCount := store.snapshot()
	if transferCount != 1 {
		t.Errorf("retry must commit exactly one transfer, got %d", transferCount)
	}

	if entryCount != 4 { // 2 opening + 2 transfer entries
		t.Errorf("retry must commit exactly one entry pair, got %d entries", entryCount)
	}

	checkInvariants(t, store, 600)
}
