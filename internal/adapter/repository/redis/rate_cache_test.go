package redis

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gosettle/internal/domain"
)

type countingRates struct {
	rates map[string]decimal.Decimal
	calls int
}

func (s *countingRates) Rate(_ context.Context, currency string, _ time.Time) (decimal.Decimal, error) {
	s.calls++
	rate, ok := s.rates[currency]
	if !ok {
		return decimal.Zero, domain.ErrRateUnavailable
	}
	return rate, nil
}

func TestRateCache_Rate(t *testing.T) {
	client, mr := newTestRedisClient(t)

	source := &countingRates{rates: map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.9125")}}
	rc := NewRateCache(source, client, time.Hour, 0, zerolog.Nop())
	ctx := context.Background()
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	rate, err := rc.Rate(ctx, "EUR", date)
	require.NoError(t, err)
	assert.Equal(t, "0.9125", rate.String())
	assert.True(t, mr.Exists("rate:EUR:2024-03-05"))

	rate, err = rc.Rate(ctx, "EUR", date)
	require.NoError(t, err)
	assert.Equal(t, "0.9125", rate.String())
	assert.Equal(t, 1, source.calls, "second lookup served from redis")

	_, err = rc.Rate(ctx, "EUR", date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls, "dates are cached separately")
}

func TestRateCache_MissingRateNotCached(t *testing.T) {
	client, mr := newTestRedisClient(t)

	source := &countingRates{rates: map[string]decimal.Decimal{}}
	rc := NewRateCache(source, client, time.Hour, 100, zerolog.Nop())
	ctx := context.Background()
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	_, err := rc.Rate(ctx, "GBP", date)
	assert.ErrorIs(t, err, domain.ErrRateUnavailable)
	assert.False(t, mr.Exists("rate:GBP:2024-03-05"))

	source.rates["GBP"] = decimal.RequireFromString("0.79")
	rate, err := rc.Rate(ctx, "GBP", date)
	require.NoError(t, err)
	assert.Equal(t, "0.79", rate.String())
	assert.Equal(t, 2, source.calls)
}

func TestRateCache_Invalidate(t *testing.T) {
	client, _ := newTestRedisClient(t)

	source := &countingRates{rates: map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.9")}}
	rc := NewRateCache(source, client, time.Hour, 0, zerolog.Nop())
	ctx := context.Background()
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	_, err := rc.Rate(ctx, "EUR", date)
	require.NoError(t, err)
	require.NoError(t, rc.Invalidate(ctx, "EUR", date))
	require.NoError(t, rc.Invalidate(ctx, "EUR", date))

	_, err = rc.Rate(ctx, "EUR", date)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestRateCache_FallsBackToSourceWhenRedisFails(t *testing.T) {
	client, mr := newTestRedisClient(t)
	mr.Close()

	var logs bytes.Buffer
	source := &countingRates{rates: map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.9")}}
	rc := NewRateCache(source, client, time.Hour, 0, zerolog.New(&logs))
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	rate, err := rc.Rate(context.Background(), "EUR", date)
	if err != nil {
		t.Fatalf("expected the source rate, got error %v", err)
	}
	if rate.String() != "0.9" {
		t.Fatalf("expected rate 0.9, got %s", rate)
	}
	if source.calls != 1 {
		t.Fatalf("expected one source call, got %d", source.calls)
	}
	for _, msg := range []string{"rate cache read failed", "rate cache write failed"} {
		if !strings.Contains(logs.String(), msg) {
			t.Errorf("expected %q in logs, got %s", msg, logs.String())
		}
	}
}

func TestRateCache_MalformedEntryReloads(t *testing.T) {
	client, mr := newTestRedisClient(t)

	source := &countingRates{rates: map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.9")}}
	rc := NewRateCache(source, client, time.Hour, 0, zerolog.Nop())
	ctx := context.Background()
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	if _, err := rc.Rate(ctx, "EUR", date); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if err := mr.Set("rate:EUR:2024-03-05", "garbage"); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}

	rate, err := rc.Rate(ctx, "EUR", date)
	if err != nil {
		t.Fatalf("expected the source rate, got error %v", err)
	}
	if rate.String() != "0.9" || source.calls != 2 {
		t.Fatalf("expected a reload from the source, got rate %s after %d calls", rate, source.calls)
	}
}
