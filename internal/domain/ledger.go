package domain

// BalanceMismatch reports an account whose balance diverged from the sum of
// its entries.
type BalanceMismatch struct {
	AccountID int64
	Balance   int64
	EntrySum  int64
}
