package domain

import "time"

// Account holds a balance in minor units of a single currency.
// Balance is mutated only by the transfer engine.
type Account struct {
	ID        int64
	Owner     string
	Balance   int64
	Currency  string
	CreatedAt time.Time
}

// ValidateDebit checks that debiting amount would not overdraw the account.
func (a *Account) ValidateDebit(amount int64) error {
	if a.Balance-amount < 0 {
		return ErrInsufficientFunds
	}

	return nil
}
