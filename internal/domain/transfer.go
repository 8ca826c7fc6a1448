package domain

import "time"

// Transfer records one complete money movement between two accounts. It owns
// exactly two entries: -Amount on FromAccountID and +Amount on ToAccountID.
type Transfer struct {
	ID            int64
	FromAccountID int64
	ToAccountID   int64
	Amount        int64
	CreatedAt     time.Time
}

// Validate validates a transfer request.
func (t *Transfer) Validate() error {
	if t.FromAccountID == t.ToAccountID {
		return ErrSameAccount
	}

	if t.Amount <= 0 {
		return ErrInvalidAmount
	}

	return nil
}

// TransferResult is the consistent snapshot of one committed transfer: the
// transfer row, both entries and both post-update accounts, so the caller
// never needs a second read that could race with other transfers.
type TransferResult struct {
	Transfer    *Transfer
	FromAccount *Account
	ToAccount   *Account
	FromEntry   *Entry
	ToEntry     *Entry
}
