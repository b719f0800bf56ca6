package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType is the type of the posted document owning a ledger entry.
type DocumentType string

const (
	DocumentTypeCustomerInvoice    DocumentType = "customer_invoice"
	DocumentTypeVendorBill         DocumentType = "vendor_bill"
	DocumentTypeCustomerCreditNote DocumentType = "customer_credit_note"
	DocumentTypeVendorCreditNote   DocumentType = "vendor_credit_note"
	DocumentTypeEntry              DocumentType = "entry"
)

// IsInvoice reports whether the document is an invoice or a bill.
func (t DocumentType) IsInvoice() bool {
	return t == DocumentTypeCustomerInvoice || t == DocumentTypeVendorBill
}

// IsCreditNote reports whether the document is a credit note.
func (t DocumentType) IsCreditNote() bool {
	return t == DocumentTypeCustomerCreditNote || t == DocumentTypeVendorCreditNote
}

// EntryKind classifies an open entry for allocation.
type EntryKind string

const (
	EntryKindInvoice EntryKind = "invoice"
	EntryKindRefund  EntryKind = "refund"
	EntryKindPayment EntryKind = "payment"
	EntryKindCredit  EntryKind = "credit"
	EntryKindGeneric EntryKind = "generic"
)

// IsCredit reports whether entries of this kind provide credit.
func (k EntryKind) IsCredit() bool {
	switch k {
	case EntryKindPayment, EntryKindRefund, EntryKindCredit:
		return true
	}
	return false
}

// LedgerEntry is an unsettled receivable or payable line of a posted document.
// Residuals are absolute values; Balance keeps its sign.
type LedgerEntry struct {
	ID                 string          `json:"id"`
	PartyID            string          `json:"party_id"`
	CompanyID          string          `json:"company_id"`
	DocumentID         string          `json:"document_id"`
	DocumentName       string          `json:"document_name"`
	DocumentType       DocumentType    `json:"document_type"`
	DocumentDate       time.Time       `json:"document_date"`
	Currency           string          `json:"currency,omitempty"`
	Balance            decimal.Decimal `json:"balance"`
	ResidualFunctional decimal.Decimal `json:"residual_functional"`
	ResidualOriginal   decimal.Decimal `json:"residual_original"`
	PaymentID          string          `json:"payment_id,omitempty"`
}

// HasOriginalCurrency reports whether the entry carries an original currency.
func (e *LedgerEntry) HasOriginalCurrency() bool {
	return e.Currency != ""
}

// Classify determines the entry kind. The first matching rule wins:
// payment link, credit note, invoice, balance sign by party role, generic.
func (e *LedgerEntry) Classify(role PartyRole, functional Currency) EntryKind {
	switch {
	case e.PaymentID != "":
		return EntryKindPayment
	case e.DocumentType.IsCreditNote():
		return EntryKindRefund
	case e.DocumentType.IsInvoice():
		return EntryKindInvoice
	case !functional.IsZero(e.Balance):
		negative := e.Balance.IsNegative()
		if role == PartyRoleVendor {
			negative = !negative
		}
		if negative {
			return EntryKindCredit
		}
		return EntryKindInvoice
	}
	return EntryKindGeneric
}

// IsDebit reports whether the entry sits on the debit side for matching.
func (e *LedgerEntry) IsDebit() bool {
	return e.Balance.IsPositive()
}

// EntrySortKey orders open entries by document date, document name, then entry ID.
type EntrySortKey struct {
	Date time.Time
	Name string
	ID   string
}

// SortKey returns the entry's ordering key.
func (e *LedgerEntry) SortKey() EntrySortKey {
	return EntrySortKey{Date: e.DocumentDate, Name: e.DocumentName, ID: e.ID}
}

// Compare returns -1, 0 or +1 comparing k with o.
func (k EntrySortKey) Compare(o EntrySortKey) int {
	if c := k.Date.Compare(o.Date); c != 0 {
		return c
	}
	if c := strings.Compare(k.Name, o.Name); c != 0 {
		return c
	}
	return strings.Compare(k.ID, o.ID)
}
