package handler

import (
	"context"
	"net/http"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// CheckConsistency reports whether entries balance to zero and every account
// balance matches its entry sum. An inconsistent ledger answers 409.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check consistency", err.Error())
		return
	}

	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.ConsistencyFromReport(report))
}
