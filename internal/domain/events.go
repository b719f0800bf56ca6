package domain

import "time"

// Event types
const (
	EventTypeSettlementCreated   = "settlement.created"
	EventTypePaymentCreated      = "payment.created"
	EventTypeAllocationCompleted = "allocation.completed"
)

// Aggregate types
const (
	AggregateTypeSettlement = "settlement"
	AggregateTypePayment    = "payment"
	AggregateTypeAllocation = "allocation"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NewSettlementCreatedEvent builds the outbox event for a persisted settlement.
func NewSettlementCreatedEvent(id string, ps *PartialSettlement) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   ps.ID,
		AggregateType: AggregateTypeSettlement,
		EventType:     EventTypeSettlementCreated,
		Payload: map[string]any{
			"settlement_id":   ps.ID,
			"debit_entry_id":  ps.DebitEntryID,
			"credit_entry_id": ps.CreditEntryID,
			"amount":          ps.Amount.String(),
			"currency":        ps.Currency,
		},
		CreatedAt: ps.CreatedAt,
	}
}

// NewPaymentCreatedEvent builds the outbox event for a created payment instruction.
func NewPaymentCreatedEvent(id string, p *PaymentInstruction) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   p.ID,
		AggregateType: AggregateTypePayment,
		EventType:     EventTypePaymentCreated,
		Payload: map[string]any{
			"payment_id": p.ID,
			"party_id":   p.PartyID,
			"journal_id": p.JournalID,
			"amount":     p.Amount.String(),
			"currency":   p.Currency,
			"entry_ids":  p.EntryIDs,
		},
		CreatedAt: p.CreatedAt,
	}
}

// NewAllocationCompletedEvent builds the summary event of an allocation run.
func NewAllocationCompletedEvent(id string, session *AllocationSession, result *AllocationResult, at time.Time) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   session.ID,
		AggregateType: AggregateTypeAllocation,
		EventType:     EventTypeAllocationCompleted,
		Payload: map[string]any{
			"session_id":  session.ID,
			"party_id":    session.PartyID,
			"settlements": len(result.Settlements),
			"payments":    len(result.Payments),
		},
		CreatedAt: at,
	}
}
