package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/bankledger/internal/adapter/repository/postgres"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
	"github.com/iho/bankledger/tests/testutil"
)

func TestAccountLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	accountUC := usecase.NewAccountUseCase(postgres.NewAccountRepository(db.Pool))

	account, err := accountUC.CreateAccount(ctx, usecase.CreateAccountInput{
		Owner:    "alice",
		Currency: "USD",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if account.ID == 0 || account.Balance != 0 || account.CreatedAt.IsZero() {
		t.Fatalf("expected store-assigned id and timestamps with zero balance, got %+v", account)
	}

	got, err := accountUC.GetAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Owner != "alice" || got.Currency != "USD" {
		t.Fatalf("unexpected account %+v", got)
	}

	if _, err := accountUC.GetAccount(ctx, account.ID+1000); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	accounts, err := accountUC.ListAccounts(ctx, usecase.ListAccountsInput{Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
}

func TestEntriesRecordTransferHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	from := db.CreateTestAccount(ctx, "alice", "USD", 300)
	to := db.CreateTestAccount(ctx, "bob", "USD", 0)

	transferUC, _ := newTransferEngine(db)
	entryUC := usecase.NewEntryUseCase(postgres.NewEntryRepository(db.Pool))

	for i := 0; i < 3; i++ {
		if _, err := transferUC.CreateTransfer(ctx, usecase.CreateTransferInput{
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        50,
		}); err != nil {
			t.Fatalf("transfer %d failed: %v", i, err)
		}
	}

	entries, err := entryUC.ListEntriesByAccount(ctx, usecase.ListEntriesByAccountInput{
		AccountID: from.ID,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}

	// Seed entry plus three debits, oldest first.
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	var sum int64
	for _, e := range entries {
		sum += e.Amount
	}
	if sum != 150 {
		t.Fatalf("expected entry sum 150, got %d", sum)
	}
}
