package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/postgres/generated"
)

// RateSource implements usecase.RateSource from the exchange_rates table.
type RateSource struct {
	queries *generated.Queries
}

// NewRateSource creates a new RateSource.
func NewRateSource(db generated.DBTX) *RateSource {
	return &RateSource{queries: generated.New(db)}
}

// Rate returns the latest rate published on or before date.
func (s *RateSource) Rate(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error) {
	rate, err := s.queries.GetLatestRate(ctx, generated.GetLatestRateParams{
		CurrencyCode: strings.ToUpper(currency),
		RateDate:     timeToPgDate(date),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrRateUnavailable
		}

		return decimal.Zero, err
	}

	return numericToDecimal(rate), nil
}
