package dto

import (
	"time"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        int64     `json:"id"`
	Owner     string    `json:"owner"`
	Balance   int64     `json:"balance"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Owner:     a.Owner,
		Balance:   a.Balance,
		Currency:  a.Currency,
		CreatedAt: a.CreatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID            int64     `json:"id"`
	FromAccountID int64     `json:"from_account_id"`
	ToAccountID   int64     `json:"to_account_id"`
	Amount        int64     `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		CreatedAt:     t.CreatedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:        e.ID,
		AccountID: e.AccountID,
		Amount:    e.Amount,
		CreatedAt: e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// TransferResultResponse is the full snapshot returned after a committed
// transfer: the transfer, both entries and both updated accounts.
type TransferResultResponse struct {
	Transfer    *TransferResponse `json:"transfer"`
	FromAccount *AccountResponse  `json:"from_account"`
	ToAccount   *AccountResponse  `json:"to_account"`
	FromEntry   *EntryResponse    `json:"from_entry"`
	ToEntry     *EntryResponse    `json:"to_entry"`
}

// TransferResultFromDomain converts a domain transfer result to response.
func TransferResultFromDomain(res *domain.TransferResult) *TransferResultResponse {
	return &TransferResultResponse{
		Transfer:    TransferFromDomain(res.Transfer),
		FromAccount: AccountFromDomain(res.FromAccount),
		ToAccount:   AccountFromDomain(res.ToAccount),
		FromEntry:   EntryFromDomain(res.FromEntry),
		ToEntry:     EntryFromDomain(res.ToEntry),
	}
}

// BalanceMismatchResponse reports one account whose balance disagrees with
// its entries.
type BalanceMismatchResponse struct {
	AccountID int64 `json:"account_id"`
	Balance   int64 `json:"balance"`
	EntrySum  int64 `json:"entry_sum"`
}

// ConsistencyResponse is the outcome of a ledger consistency check.
type ConsistencyResponse struct {
	Consistent bool                       `json:"consistent"`
	EntryTotal int64                      `json:"entry_total"`
	Mismatches []*BalanceMismatchResponse `json:"mismatches,omitempty"`
}

// ConsistencyFromReport converts a use case report to response.
func ConsistencyFromReport(report *usecase.ConsistencyReport) *ConsistencyResponse {
	resp := &ConsistencyResponse{
		Consistent: report.Consistent,
		EntryTotal: report.EntryTotal,
	}

	for _, m := range report.Mismatches {
		resp.Mismatches = append(resp.Mismatches, &BalanceMismatchResponse{
			AccountID: m.AccountID,
			Balance:   m.Balance,
			EntrySum:  m.EntrySum,
		})
	}

	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
