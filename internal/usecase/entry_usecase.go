package usecase

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
)

// EntryUseCase handles entry lookups.
type EntryUseCase struct {
	entryRepo EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{entryRepo: entryRepo}
}

// ListEntriesByAccountInput represents input for listing entries.
type ListEntriesByAccountInput struct {
	AccountID int64
	Limit     int
	Offset    int
}

// ListEntriesByAccount lists an account's entries in insertion order.
func (uc *EntryUseCase) ListEntriesByAccount(ctx context.Context, input ListEntriesByAccountInput) ([]*domain.Entry, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultPageLimit
	}

	if input.Limit > MaxPageLimit {
		input.Limit = MaxPageLimit
	}

	return uc.entryRepo.ListByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}
