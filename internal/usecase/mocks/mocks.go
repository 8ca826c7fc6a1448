package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account
	nextID   int64

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id int64) (*domain.Account, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.Account, error)
	AddBalanceFunc        func(ctx context.Context, tx usecase.Transaction, id, delta int64) (*domain.Account, error)
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[int64]*domain.Account)}
}

// Seed inserts an account directly, assigning the next id.
func (m *MockAccountRepository) Seed(owner, currency string, balance int64) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	acc := &domain.Account{
		ID:        m.nextID,
		Owner:     owner,
		Currency:  currency,
		Balance:   balance,
		CreatedAt: time.Now().UTC(),
	}
	m.accounts[acc.ID] = acc

	return acc
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	account.ID = m.nextID
	account.CreatedAt = time.Now().UTC()
	m.accounts[account.ID] = account

	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if acc, ok := m.accounts[id]; ok {
		copied := *acc
		return &copied, nil
	}

	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}

	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			copied := *acc
			accounts = append(accounts, &copied)
		}
	}

	return accounts, nil
}

func (m *MockAccountRepository) AddBalance(ctx context.Context, tx usecase.Transaction, id, delta int64) (*domain.Account, error) {
	if m.AddBalanceFunc != nil {
		return m.AddBalanceFunc(ctx, tx, id, delta)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	acc.Balance += delta
	copied := *acc

	return &copied, nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var accounts []*domain.Account
	for _, acc := range m.accounts {
		copied := *acc
		accounts = append(accounts, &copied)
	}

	return accounts, nil
}

// MockTransferRepository is a mock implementation of TransferRepository.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[int64]*domain.Transfer
	nextID    int64

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error
	GetByIDFunc       func(ctx context.Context, id int64) (*domain.Transfer, error)
	ListByAccountFunc func(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Transfer, error)
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{transfers: make(map[int64]*domain.Transfer)}
}

func (m *MockTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	transfer.ID = m.nextID
	transfer.CreatedAt = time.Now().UTC()
	m.transfers[transfer.ID] = transfer

	return nil
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id int64) (*domain.Transfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if tr, ok := m.transfers[id]; ok {
		return tr, nil
	}

	return nil, domain.ErrTransferNotFound
}

func (m *MockTransferRepository) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Transfer, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var transfers []*domain.Transfer
	for _, tr := range m.transfers {
		if tr.FromAccountID == accountID || tr.ToAccountID == accountID {
			transfers = append(transfers, tr)
		}
	}

	return transfers, nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.Entry
	nextID  int64

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	ListByAccountFunc func(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Entry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	entry.ID = m.nextID
	entry.CreatedAt = time.Now().UTC()
	m.entries = append(m.entries, entry)

	return nil
}

func (m *MockEntryRepository) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Entry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []*domain.Entry
	for _, e := range m.entries {
		if e.AccountID == accountID {
			entries = append(entries, e)
		}
	}

	return entries, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}

	m.Committed = true

	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}

	if !m.Committed {
		m.RolledBack = true
	}

	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu     sync.Mutex
	Begun  int
	LastTx *MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Begun++
	m.LastTx = &MockTransaction{}

	return m.LastTx, nil
}

// MockRetrier retries up to MaxAttempts with no backoff, mirroring the
// postgres retrier's classification.
type MockRetrier struct {
	MaxAttempts int

	RetryFunc func(ctx context.Context, op func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{MaxAttempts: 3}
}

func (m *MockRetrier) Retry(ctx context.Context, op func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, op)
	}

	var err error
	for i := 0; i < m.MaxAttempts; i++ {
		err = op()
		if err == nil || !domain.IsRetryable(err) {
			return err
		}
	}

	return err
}
