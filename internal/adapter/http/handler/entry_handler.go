package handler

import (
	"context"
	"net/http"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	ListEntriesByAccount(ctx context.Context, input usecase.ListEntriesByAccountInput) ([]*domain.Entry, error)
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// ListByAccount lists entries for an account.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", err.Error())
		return
	}

	limit := parseIntQuery(r, "limit", usecase.DefaultPageLimit)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.entryUC.ListEntriesByAccount(r.Context(), usecase.ListEntriesByAccountInput{
		AccountID: accountID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
