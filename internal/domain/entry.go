package domain

import "time"

// Entry is an immutable signed ledger line recording one account's share of
// one transfer. Entries are append-only; the sum of an account's entries
// equals its current balance.
type Entry struct {
	ID        int64
	AccountID int64
	Amount    int64
	CreatedAt time.Time
}
