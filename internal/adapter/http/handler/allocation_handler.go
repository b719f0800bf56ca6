package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
)

// AllocationService runs allocations for stored sessions.
type AllocationService interface {
	Allocate(ctx context.Context, sessionID string) (*domain.AllocationResult, error)
}

// AllocationHandler handles allocation requests.
type AllocationHandler struct {
	allocations AllocationService
}

// NewAllocationHandler creates a new AllocationHandler.
func NewAllocationHandler(allocations AllocationService) *AllocationHandler {
	return &AllocationHandler{allocations: allocations}
}

// Allocate settles the session's credits against its debits and issues payment instructions.
func (h *AllocationHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	result, err := h.allocations.Allocate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AllocationFromDomain(result))
}
