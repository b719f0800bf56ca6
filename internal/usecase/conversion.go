package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
)

// Conversion describes one functional to target currency conversion.
type Conversion struct {
	Functional domain.Currency
	Target     domain.Currency
	AsOf       time.Time
	Settings   domain.ConversionSettings
}

// Converter converts functional-currency amounts into a target currency.
type Converter struct {
	rates   RateSource
	metrics *metrics.Metrics
}

// NewConverter creates a new Converter.
func NewConverter(rates RateSource, metrics *metrics.Metrics) *Converter {
	return &Converter{
		rates:   rates,
		metrics: metrics,
	}
}

// Convert converts amount and rounds it to the target currency.
// A fixed rate applies whatever the target currency is. In market mode,
// zero and same-currency conversions never consult the rate source.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, conv Conversion) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, nil
	}
	if conv.Settings.Mode != domain.RateModeFixed && conv.Target.Code == conv.Functional.Code {
		return conv.Target.Round(amount), nil
	}

	rate, err := c.rate(ctx, conv)
	if err != nil {
		return decimal.Zero, err
	}

	return conv.Target.Round(amount.Mul(rate)), nil
}

func (c *Converter) rate(ctx context.Context, conv Conversion) (decimal.Decimal, error) {
	switch conv.Settings.Mode {
	case domain.RateModeFixed:
		if !conv.Settings.FixedRate.IsPositive() {
			return decimal.Zero, domain.ErrInvalidRate
		}
		return conv.Settings.FixedRate, nil
	case domain.RateModeMarket, "":
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidRateMode, conv.Settings.Mode)
	}

	rate, err := c.rates.Rate(ctx, conv.Target.Code, conv.AsOf)
	if err != nil {
		c.observe("miss")
		if errors.Is(err, domain.ErrRateUnavailable) {
			return decimal.Zero, fmt.Errorf("%s on %s: %w", conv.Target.Code, conv.AsOf.Format(time.DateOnly), err)
		}
		return decimal.Zero, err
	}
	if !rate.IsPositive() {
		c.observe("invalid")
		return decimal.Zero, fmt.Errorf("%s on %s: %w", conv.Target.Code, conv.AsOf.Format(time.DateOnly), domain.ErrInvalidRate)
	}

	c.observe("hit")
	return rate, nil
}

func (c *Converter) observe(result string) {
	if c.metrics != nil {
		c.metrics.RateLookups.WithLabelValues("market", result).Inc()
	}
}
