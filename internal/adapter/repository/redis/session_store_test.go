package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gosettle/internal/domain"
)

func testSession() *domain.AllocationSession {
	entry := &domain.LedgerEntry{
		ID:                 "d1",
		PartyID:            "party-1",
		CompanyID:          "co-1",
		DocumentName:       "INV/1",
		DocumentType:       domain.DocumentTypeCustomerInvoice,
		DocumentDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Balance:            decimal.RequireFromString("100"),
		ResidualFunctional: decimal.RequireFromString("100"),
		ResidualOriginal:   decimal.RequireFromString("100"),
	}
	line := domain.NewAllocationLine("l1", entry, domain.EntryKindInvoice, decimal.RequireFromString("110.00"))
	line.Requested = decimal.RequireFromString("42.50")

	return &domain.AllocationSession{
		ID:                 "sess-1",
		PartyID:            "party-1",
		CompanyID:          "co-1",
		JournalID:          "bank",
		SettlementCurrency: "EUR",
		AsOf:               time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Conversion: domain.ConversionSettings{
			Mode:      domain.RateModeFixed,
			FixedRate: decimal.RequireFromString("1.1"),
		},
		Mode:  domain.AllocationModePerLine,
		Lines: []*domain.AllocationLine{line},
	}
}

func TestSessionStoreSaveAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession(), time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("session:sess-1"))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)

	assert.Equal(t, domain.AllocationModePerLine, got.Mode)
	assert.True(t, got.Conversion.FixedRate.Equal(decimal.RequireFromString("1.1")))
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "42.5", got.Lines[0].Requested.String())
	assert.Equal(t, "110", got.Lines[0].ResidualSettlement.String())
	assert.True(t, got.Lines[0].IsDebit())
	assert.Equal(t, "INV/1", got.Lines[0].Entry.DocumentName)
}

func TestSessionStoreExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession(), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "sess-1")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}

func TestSessionStoreDelete(t *testing.T) {
	client, _ := newTestRedisClient(t)

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession(), time.Minute))
	require.NoError(t, store.Delete(ctx, "sess-1"))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
