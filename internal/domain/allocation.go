package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AllocationMode selects how remaining amounts become payment instructions.
type AllocationMode string

const (
	AllocationModeGrouped AllocationMode = "grouped"
	AllocationModePerLine AllocationMode = "per_line"
)

// ParseAllocationMode parses s, defaulting to grouped when empty.
func ParseAllocationMode(s string) (AllocationMode, error) {
	switch AllocationMode(s) {
	case "":
		return AllocationModeGrouped, nil
	case AllocationModeGrouped, AllocationModePerLine:
		return AllocationMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAllocationMode, s)
}

// RateMode selects where conversion rates come from.
type RateMode string

const (
	RateModeMarket RateMode = "market"
	RateModeFixed  RateMode = "fixed"
)

// ParseRateMode parses s, defaulting to market when empty.
func ParseRateMode(s string) (RateMode, error) {
	switch RateMode(s) {
	case "":
		return RateModeMarket, nil
	case RateModeMarket, RateModeFixed:
		return RateMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRateMode, s)
}

// ConversionSettings is the rate configuration of an allocation session.
type ConversionSettings struct {
	Mode      RateMode        `json:"mode"`
	FixedRate decimal.Decimal `json:"fixed_rate"`
}

// Validate checks that a fixed rate is present and positive exactly in fixed mode.
func (s ConversionSettings) Validate() error {
	switch s.Mode {
	case RateModeFixed:
		if !s.FixedRate.IsPositive() {
			return ErrInvalidRate
		}
	case RateModeMarket:
		if !s.FixedRate.IsZero() {
			return fmt.Errorf("%w: fixed rate given in market mode", ErrInvalidRate)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRateMode, s.Mode)
	}
	return nil
}

// AllocationLine is one open entry proposed for allocation with an editable amount.
// Requested stays within [0, ResidualSettlement].
type AllocationLine struct {
	ID                 string          `json:"id"`
	Entry              *LedgerEntry    `json:"entry"`
	Kind               EntryKind       `json:"kind"`
	ResidualSettlement decimal.Decimal `json:"residual_settlement"`
	Requested          decimal.Decimal `json:"requested"`
}

// NewAllocationLine builds a line requesting the full settlement residual.
func NewAllocationLine(id string, entry *LedgerEntry, kind EntryKind, residual decimal.Decimal) *AllocationLine {
	residual = decimal.Max(residual, decimal.Zero)
	return &AllocationLine{
		ID:                 id,
		Entry:              entry,
		Kind:               kind,
		ResidualSettlement: residual,
		Requested:          residual,
	}
}

// IsCredit reports whether the line provides credit.
func (l *AllocationLine) IsCredit() bool {
	return l.Kind.IsCredit()
}

// IsDebit reports whether the line is matched on the debit side.
func (l *AllocationLine) IsDebit() bool {
	return l.Entry.IsDebit()
}

// SetRequested stores a new requested amount against a freshly computed residual.
func (l *AllocationLine) SetRequested(amount, residual decimal.Decimal) {
	l.ResidualSettlement = decimal.Max(residual, decimal.Zero)
	l.Requested = Clamp(amount, l.ResidualSettlement)
}

// Clamp returns amount bounded to [0, residual]. A negative residual counts as zero.
func Clamp(amount, residual decimal.Decimal) decimal.Decimal {
	upper := decimal.Max(residual, decimal.Zero)
	return decimal.Min(decimal.Max(amount, decimal.Zero), upper)
}

// TotalToPay is the sum of requested debit amounts minus the sum of requested credit amounts.
func TotalToPay(lines []*AllocationLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.IsCredit() {
			total = total.Sub(l.Requested)
		} else {
			total = total.Add(l.Requested)
		}
	}
	return total
}

// AllocationSession holds the editable state between loading open items and allocating.
type AllocationSession struct {
	ID                 string             `json:"id"`
	PartyID            string             `json:"party_id"`
	CompanyID          string             `json:"company_id"`
	JournalID          string             `json:"journal_id"`
	PaymentMethodID    string             `json:"payment_method_id,omitempty"`
	SettlementCurrency string             `json:"settlement_currency"`
	AsOf               time.Time          `json:"as_of"`
	Conversion         ConversionSettings `json:"conversion"`
	Mode               AllocationMode     `json:"mode"`
	Memo               string             `json:"memo,omitempty"`
	Lines              []*AllocationLine  `json:"lines"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Line finds a line by ID.
func (s *AllocationSession) Line(id string) (*AllocationLine, error) {
	for _, l := range s.Lines {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrLineNotFound, id)
}

// HasEntry reports whether a line already references the entry.
func (s *AllocationSession) HasEntry(entryID string) bool {
	for _, l := range s.Lines {
		if l.Entry.ID == entryID {
			return true
		}
	}
	return false
}

// RemoveLines drops the lines with the given IDs and returns how many were removed.
func (s *AllocationSession) RemoveLines(ids []string) int {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := s.Lines[:0]
	for _, l := range s.Lines {
		if _, ok := drop[l.ID]; !ok {
			kept = append(kept, l)
		}
	}
	removed := len(s.Lines) - len(kept)
	s.Lines = kept
	return removed
}

// Split separates credit lines from debit lines, keeping order.
func (s *AllocationSession) Split() (debits, credits []*AllocationLine) {
	for _, l := range s.Lines {
		if l.IsCredit() {
			credits = append(credits, l)
		} else {
			debits = append(debits, l)
		}
	}
	return debits, credits
}

// TotalToPay returns the session's net payable amount.
func (s *AllocationSession) TotalToPay() decimal.Decimal {
	return TotalToPay(s.Lines)
}
