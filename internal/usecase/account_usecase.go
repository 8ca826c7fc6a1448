package usecase

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository) *AccountUseCase {
	return &AccountUseCase{accountRepo: accountRepo}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Owner    string
	Currency string
}

// CreateAccount creates an account with a zero balance. The store assigns
// the id and creation time.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if input.Owner == "" {
		return nil, domain.NewError(domain.KindInvalidArgument, "owner is required")
	}

	if input.Currency == "" {
		return nil, domain.NewError(domain.KindInvalidArgument, "currency is required")
	}

	account := &domain.Account{
		Owner:    input.Owner,
		Currency: input.Currency,
		Balance:  0,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultPageLimit
	}

	if input.Limit > MaxPageLimit {
		input.Limit = MaxPageLimit
	}

	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}
