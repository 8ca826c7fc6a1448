package usecase

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
)

// LedgerUseCase verifies ledger-wide invariants.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo}
}

// ConsistencyReport is the outcome of a ledger consistency check.
type ConsistencyReport struct {
	Consistent bool
	EntryTotal int64
	Mismatches []*domain.BalanceMismatch
}

// CheckConsistency verifies that every transfer booked a balanced entry pair
// (all entries sum to zero) and that each account's balance equals the sum of
// its entries.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	total, err := uc.ledgerRepo.EntryTotal(ctx)
	if err != nil {
		return nil, err
	}

	mismatches, err := uc.ledgerRepo.BalanceMismatches(ctx)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		Consistent: total == 0 && len(mismatches) == 0,
		EntryTotal: total,
		Mismatches: mismatches,
	}, nil
}
