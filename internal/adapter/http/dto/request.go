package dto

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

// DateLayout is the wire format of as-of and document dates.
const DateLayout = "2006-01-02"

// LoadSessionRequest represents a request to open an allocation session.
type LoadSessionRequest struct {
	PartyID            string           `json:"party_id"`
	CompanyID          string           `json:"company_id"`
	JournalID          string           `json:"journal_id"`
	PaymentMethodID    string           `json:"payment_method_id,omitempty"`
	SettlementCurrency string           `json:"settlement_currency"`
	AsOf               string           `json:"as_of,omitempty"`
	RateMode           string           `json:"rate_mode,omitempty"`
	FixedRate          *decimal.Decimal `json:"fixed_rate,omitempty"`
	Mode               string           `json:"mode,omitempty"`
	Memo               string           `json:"memo,omitempty"`
}

func positiveRate(value any) error {
	rate, ok := value.(*decimal.Decimal)
	if !ok || rate == nil {
		return nil
	}
	if !rate.IsPositive() {
		return errors.New("must be positive")
	}
	return nil
}

// Validate checks the request shape.
func (r *LoadSessionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PartyID, validation.Required, validation.Length(1, domain.MaxIDLength)),
		validation.Field(&r.CompanyID, validation.Required, validation.Length(1, domain.MaxIDLength)),
		validation.Field(&r.JournalID, validation.Required, validation.Length(1, domain.MaxIDLength)),
		validation.Field(&r.SettlementCurrency, validation.Required, validation.Length(3, 3)),
		validation.Field(&r.AsOf, validation.Date(DateLayout)),
		validation.Field(&r.RateMode, validation.In(string(domain.RateModeMarket), string(domain.RateModeFixed))),
		validation.Field(&r.FixedRate,
			validation.When(r.RateMode == string(domain.RateModeFixed), validation.Required),
			validation.By(positiveRate),
		),
		validation.Field(&r.Mode, validation.In(string(domain.AllocationModeGrouped), string(domain.AllocationModePerLine))),
		validation.Field(&r.Memo, validation.Length(0, domain.MaxMemoLength)),
	)
}

// ToUseCaseInput converts to use case input.
func (r *LoadSessionRequest) ToUseCaseInput() (usecase.LoadSessionInput, error) {
	input := usecase.LoadSessionInput{
		PartyID:            r.PartyID,
		CompanyID:          r.CompanyID,
		JournalID:          r.JournalID,
		PaymentMethodID:    r.PaymentMethodID,
		SettlementCurrency: r.SettlementCurrency,
		RateMode:           domain.RateMode(r.RateMode),
		Mode:               domain.AllocationMode(r.Mode),
		Memo:               r.Memo,
	}

	if r.AsOf != "" {
		asOf, err := time.Parse(DateLayout, r.AsOf)
		if err != nil {
			return usecase.LoadSessionInput{}, fmt.Errorf("invalid as_of: %w", err)
		}
		input.AsOf = asOf
	}
	if r.FixedRate != nil {
		input.FixedRate = *r.FixedRate
	}

	return input, nil
}

// EditLineRequest sets the requested amount of one line.
type EditLineRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// Validate checks the request shape. Any amount is accepted; the session
// clamps it to the line's residual.
func (r *EditLineRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Amount, validation.NotNil),
	)
}

// AddEntryRequest adds an open entry to a session.
type AddEntryRequest struct {
	EntryID string `json:"entry_id"`
}

// Validate checks the request shape.
func (r *AddEntryRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EntryID, validation.Required, validation.By(func(value any) error {
			return domain.ValidateID(value.(string))
		})),
	)
}

// RemoveLinesRequest drops lines from a session.
type RemoveLinesRequest struct {
	LineIDs []string `json:"line_ids"`
}

// Validate checks the request shape.
func (r *RemoveLinesRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.LineIDs, validation.Required, validation.By(func(value any) error {
			return domain.ValidateLineIDs(value.([]string))
		})),
	)
}
