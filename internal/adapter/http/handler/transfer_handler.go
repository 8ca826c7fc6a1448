package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	CreateTransfer(ctx context.Context, input usecase.CreateTransferInput) (*domain.TransferResult, error)
	GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error)
	ListTransfersByAccount(ctx context.Context, input usecase.ListTransfersByAccountInput) ([]*domain.Transfer, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Create creates a new transfer and returns the committed snapshot.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	start := time.Now()

	result, err := h.transferUC.CreateTransfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		metrics.TransferErrors.WithLabelValues(domain.KindOf(err).String()).Inc()
		writeError(w, mapDomainError(err), "failed to create transfer", err.Error())

		return
	}

	metrics.TransfersCreated.Inc()
	metrics.TransferDuration.Observe(time.Since(start).Seconds())
	metrics.TransferAmount.Observe(float64(result.Transfer.Amount))

	writeJSON(w, http.StatusCreated, dto.TransferResultFromDomain(result))
}

// Get retrieves a transfer by ID.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transfer ID", err.Error())
		return
	}

	transfer, err := h.transferUC.GetTransfer(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// ListByAccount lists transfers for an account.
func (h *TransferHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", err.Error())
		return
	}

	limit := parseIntQuery(r, "limit", usecase.DefaultPageLimit)
	offset := parseIntQuery(r, "offset", 0)

	transfers, err := h.transferUC.ListTransfersByAccount(r.Context(), usecase.ListTransfersByAccountInput{
		AccountID: accountID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transfers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransfersFromDomain(transfers))
}
