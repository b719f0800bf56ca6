package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
)

// ConsistencyChecker verifies ledger-wide residual invariants.
type ConsistencyChecker interface {
	CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error)
}

// LedgerHandler serves ledger-wide checks.
type LedgerHandler struct {
	ledger ConsistencyChecker
}

func NewLedgerHandler(ledger ConsistencyChecker) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// CheckConsistency answers 200 when every stored residual matches the entry
// balance less its settlements, and 409 with the offending entries otherwise.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledger.CheckConsistency(r.Context())
	switch {
	case errors.Is(err, domain.ErrInconsistentLedger) && report != nil:
		resp := dto.ConsistencyFromDomain(report)
		resp.Error = codeInconsistentLedger
		resp.Message = err.Error()
		writeJSON(w, http.StatusConflict, resp)
	case err != nil:
		respondError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, dto.ConsistencyFromDomain(report))
	}
}
