package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// LineResponse represents an allocation line in API responses.
type LineResponse struct {
	ID                 string              `json:"id"`
	EntryID            string              `json:"entry_id"`
	DocumentName       string              `json:"document_name"`
	DocumentType       domain.DocumentType `json:"document_type"`
	DocumentDate       string              `json:"document_date"`
	Kind               domain.EntryKind    `json:"kind"`
	Currency           string              `json:"currency,omitempty"`
	Balance            decimal.Decimal     `json:"balance"`
	ResidualSettlement decimal.Decimal     `json:"residual_settlement"`
	Requested          decimal.Decimal     `json:"requested"`
}

// LineFromDomain converts a domain line to response.
func LineFromDomain(l *domain.AllocationLine) *LineResponse {
	return &LineResponse{
		ID:                 l.ID,
		EntryID:            l.Entry.ID,
		DocumentName:       l.Entry.DocumentName,
		DocumentType:       l.Entry.DocumentType,
		DocumentDate:       l.Entry.DocumentDate.Format(DateLayout),
		Kind:               l.Kind,
		Currency:           l.Entry.Currency,
		Balance:            l.Entry.Balance,
		ResidualSettlement: l.ResidualSettlement,
		Requested:          l.Requested,
	}
}

// SessionResponse represents an allocation session in API responses.
type SessionResponse struct {
	ID                 string                `json:"id"`
	PartyID            string                `json:"party_id"`
	CompanyID          string                `json:"company_id"`
	JournalID          string                `json:"journal_id"`
	PaymentMethodID    string                `json:"payment_method_id,omitempty"`
	SettlementCurrency string                `json:"settlement_currency"`
	AsOf               string                `json:"as_of"`
	RateMode           domain.RateMode       `json:"rate_mode"`
	FixedRate          *decimal.Decimal      `json:"fixed_rate,omitempty"`
	Mode               domain.AllocationMode `json:"mode"`
	Memo               string                `json:"memo,omitempty"`
	TotalToPay         decimal.Decimal       `json:"total_to_pay"`
	Lines              []*LineResponse       `json:"lines"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// SessionFromDomain converts a domain session to response.
func SessionFromDomain(s *domain.AllocationSession) *SessionResponse {
	resp := &SessionResponse{
		ID:                 s.ID,
		PartyID:            s.PartyID,
		CompanyID:          s.CompanyID,
		JournalID:          s.JournalID,
		PaymentMethodID:    s.PaymentMethodID,
		SettlementCurrency: s.SettlementCurrency,
		AsOf:               s.AsOf.Format(DateLayout),
		RateMode:           s.Conversion.Mode,
		Mode:               s.Mode,
		Memo:               s.Memo,
		TotalToPay:         s.TotalToPay(),
		Lines:              make([]*LineResponse, len(s.Lines)),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
	if s.Conversion.Mode == domain.RateModeFixed {
		rate := s.Conversion.FixedRate
		resp.FixedRate = &rate
	}
	for i, l := range s.Lines {
		resp.Lines[i] = LineFromDomain(l)
	}
	return resp
}

// SettlementResponse represents a partial settlement in API responses.
type SettlementResponse struct {
	ID                   string          `json:"id"`
	DebitEntryID         string          `json:"debit_entry_id"`
	CreditEntryID        string          `json:"credit_entry_id"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency,omitempty"`
	DebitAmountCurrency  decimal.Decimal `json:"debit_amount_currency"`
	CreditAmountCurrency decimal.Decimal `json:"credit_amount_currency"`
}

// PaymentResponse represents a payment instruction in API responses.
type PaymentResponse struct {
	ID              string                  `json:"id"`
	PaymentMethodID string                  `json:"payment_method_id"`
	Direction       domain.PaymentDirection `json:"direction"`
	Amount          decimal.Decimal         `json:"amount"`
	Currency        string                  `json:"currency"`
	Date            string                  `json:"date"`
	Memo            string                  `json:"memo,omitempty"`
	Reference       string                  `json:"reference"`
	EntryIDs        []string                `json:"entry_ids"`
}

// AllocationResponse represents the outcome of an allocation run.
type AllocationResponse struct {
	SessionID   string                     `json:"session_id"`
	Settlements []*SettlementResponse      `json:"settlements"`
	Payments    []*PaymentResponse         `json:"payments"`
	Leftovers   map[string]decimal.Decimal `json:"leftovers"`
}

// AllocationFromDomain converts an allocation result to response.
func AllocationFromDomain(r *domain.AllocationResult) *AllocationResponse {
	resp := &AllocationResponse{
		SessionID:   r.SessionID,
		Settlements: make([]*SettlementResponse, len(r.Settlements)),
		Payments:    make([]*PaymentResponse, len(r.Payments)),
		Leftovers:   r.Leftovers,
	}
	for i, ps := range r.Settlements {
		resp.Settlements[i] = &SettlementResponse{
			ID:                   ps.ID,
			DebitEntryID:         ps.DebitEntryID,
			CreditEntryID:        ps.CreditEntryID,
			Amount:               ps.Amount,
			Currency:             ps.Currency,
			DebitAmountCurrency:  ps.DebitAmountCurrency,
			CreditAmountCurrency: ps.CreditAmountCurrency,
		}
	}
	for i, p := range r.Payments {
		resp.Payments[i] = &PaymentResponse{
			ID:              p.ID,
			PaymentMethodID: p.PaymentMethodID,
			Direction:       p.Direction,
			Amount:          p.Amount,
			Currency:        p.Currency,
			Date:            p.Date.Format(DateLayout),
			Memo:            p.Memo,
			Reference:       p.Reference,
			EntryIDs:        p.EntryIDs,
		}
	}
	return resp
}

// AuditLogResponse represents an audit trail entry in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	Actor        string         `json:"actor"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	RequestID    string         `json:"request_id,omitempty"`
	BeforeState  map[string]any `json:"before_state,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogsFromDomain converts audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			Actor:        l.Actor,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			RequestID:    l.RequestID,
			BeforeState:  l.BeforeState,
			AfterState:   l.AfterState,
			Status:       l.Status,
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// InconsistentEntryResponse is one entry failing the residual check.
type InconsistentEntryResponse struct {
	EntryID  string          `json:"entry_id"`
	Balance  decimal.Decimal `json:"balance"`
	Residual decimal.Decimal `json:"residual"`
	Settled  decimal.Decimal `json:"settled"`
}

// ConsistencyResponse reports the outcome of a ledger consistency check.
type ConsistencyResponse struct {
	Error          string                      `json:"error,omitempty"`
	Message        string                      `json:"message,omitempty"`
	Consistent     bool                        `json:"consistent"`
	OverSettled    int64                       `json:"over_settled"`
	StaleResiduals int64                       `json:"stale_residuals"`
	Samples        []InconsistentEntryResponse `json:"samples,omitempty"`
}

// ConsistencyFromDomain converts a consistency report to response.
func ConsistencyFromDomain(r *domain.ConsistencyReport) *ConsistencyResponse {
	resp := &ConsistencyResponse{
		Consistent:     r.Consistent(),
		OverSettled:    r.OverSettled,
		StaleResiduals: r.StaleResiduals,
	}
	for _, s := range r.Samples {
		resp.Samples = append(resp.Samples, InconsistentEntryResponse{
			EntryID:  s.EntryID,
			Balance:  s.Balance,
			Residual: s.Residual,
			Settled:  s.Settled,
		})
	}
	return resp
}
