package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartialSettlement records a portion of a debit entry settled against a credit entry.
// Currency is empty when the two sides do not share an original currency.
type PartialSettlement struct {
	ID                   string          `json:"id"`
	DebitEntryID         string          `json:"debit_entry_id"`
	CreditEntryID        string          `json:"credit_entry_id"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency,omitempty"`
	DebitAmountCurrency  decimal.Decimal `json:"debit_amount_currency"`
	CreditAmountCurrency decimal.Decimal `json:"credit_amount_currency"`
	CreatedAt            time.Time       `json:"created_at"`
}

// PaymentInstruction is a request to pay the remaining amount of one or more debit lines.
// ID stays empty until the payment sink has created it.
type PaymentInstruction struct {
	ID              string           `json:"id"`
	PartyID         string           `json:"party_id"`
	CompanyID       string           `json:"company_id"`
	JournalID       string           `json:"journal_id"`
	PaymentMethodID string           `json:"payment_method_id"`
	Direction       PaymentDirection `json:"direction"`
	Amount          decimal.Decimal  `json:"amount"`
	Currency        string           `json:"currency"`
	Date            time.Time        `json:"date"`
	Memo            string           `json:"memo,omitempty"`
	Reference       string           `json:"reference"`
	EntryIDs        []string         `json:"entry_ids"`
	DocumentIDs     []string         `json:"document_ids"`
	CreatedAt       time.Time        `json:"created_at"`
}

// AllocationResult is the outcome of one allocation run.
type AllocationResult struct {
	SessionID   string                     `json:"session_id"`
	Settlements []*PartialSettlement       `json:"settlements"`
	Payments    []*PaymentInstruction      `json:"payments"`
	Leftovers   map[string]decimal.Decimal `json:"leftovers"`
}
