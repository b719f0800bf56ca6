package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/usecase"
)

const rateDateLayout = "2006-01-02"

// RateCache wraps a usecase.RateSource with a two-level cache: an in-process
// TinyLFU in front of Redis. Missing rates are never cached. Cache failures
// are logged and the source answers instead.
type RateCache struct {
	source usecase.RateSource
	cache  *cache.Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRateCache creates a RateCache. localSize bounds the in-process cache; zero disables it.
func NewRateCache(source usecase.RateSource, client redis.UniversalClient, ttl time.Duration, localSize int, logger zerolog.Logger) *RateCache {
	opts := &cache.Options{Redis: client}
	if localSize > 0 {
		opts.LocalCache = cache.NewTinyLFU(localSize, time.Minute)
	}
	return &RateCache{
		source: source,
		cache:  cache.New(opts),
		ttl:    ttl,
		logger: logger,
	}
}

func rateKey(currency string, date time.Time) string {
	return fmt.Sprintf("rate:%s:%s", currency, date.Format(rateDateLayout))
}

// Rate returns the cached rate, loading it from the wrapped source on a miss.
func (c *RateCache) Rate(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error) {
	key := rateKey(currency, date)

	var cached string
	err := c.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		rate, perr := decimal.NewFromString(cached)
		if perr == nil {
			return rate, nil
		}
		c.logger.Warn().Err(perr).Str("key", key).Msg("discarding malformed cached rate")
	case !errors.Is(err, cache.ErrCacheMiss):
		c.logger.Warn().Err(err).Str("key", key).Msg("rate cache read failed")
	}

	rate, err := c.source.Rate(ctx, currency, date)
	if err != nil {
		return decimal.Zero, err
	}

	if err := c.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: rate.String(),
		TTL:   c.ttl,
	}); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("rate cache write failed")
	}
	return rate, nil
}

// Invalidate drops the cached rate for currency on date.
func (c *RateCache) Invalidate(ctx context.Context, currency string, date time.Time) error {
	err := c.cache.Delete(ctx, rateKey(currency, date))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}
