package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

// SessionService is the session workflow used by SessionHandler.
type SessionService interface {
	Load(ctx context.Context, input usecase.LoadSessionInput) (*domain.AllocationSession, error)
	Get(ctx context.Context, sessionID string) (*domain.AllocationSession, error)
	Reload(ctx context.Context, sessionID string) (*domain.AllocationSession, error)
	Discard(ctx context.Context, sessionID string) error
	EditLine(ctx context.Context, sessionID, lineID string, amount decimal.Decimal) (*domain.AllocationLine, error)
	AddEntry(ctx context.Context, sessionID, entryID string) (*domain.AllocationSession, error)
	RemoveLines(ctx context.Context, sessionID string, lineIDs []string) (*domain.AllocationSession, error)
}

// SessionHandler handles allocation session requests.
type SessionHandler struct {
	sessions SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Load opens a session with the party's open items.
func (h *SessionHandler) Load(w http.ResponseWriter, r *http.Request) {
	var req dto.LoadSessionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	session, err := h.sessions.Load(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SessionFromDomain(session))
}

// Get returns a session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// Reload refreshes the session lines from the ledger.
func (h *SessionHandler) Reload(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Reload(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// Discard drops a session without allocating.
func (h *SessionHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Discard(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// EditLine sets the requested amount of one line.
func (h *SessionHandler) EditLine(w http.ResponseWriter, r *http.Request) {
	var req dto.EditLineRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	line, err := h.sessions.EditLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"), *req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LineFromDomain(line))
}

// AddEntry adds an open entry to the session.
func (h *SessionHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.AddEntryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	session, err := h.sessions.AddEntry(r.Context(), chi.URLParam(r, "id"), req.EntryID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// RemoveLines drops lines from the session.
func (h *SessionHandler) RemoveLines(w http.ResponseWriter, r *http.Request) {
	var req dto.RemoveLinesRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	session, err := h.sessions.RemoveLines(r.Context(), chi.URLParam(r, "id"), req.LineIDs)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}
