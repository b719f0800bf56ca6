package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/gosettle/internal/domain"
)

func TestOutboxRepositoryCreate(t *testing.T) {
	pool := newMockPool(t)
	now := time.Now().UTC()

	pool.ExpectBegin()
	pool.ExpectQuery("INSERT INTO outbox_events").
		WithArgs("ev-1", "ps-1", domain.AggregateTypeSettlement, domain.EventTypeSettlementCreated,
			pgxmock.AnyArg(), pgxmock.AnyArg(), false).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published",
		}).AddRow("ev-1", "ps-1", "settlement", "settlement.created", []byte(`{}`), now, nil, false))
	pool.ExpectCommit()

	ctx := context.Background()
	tx, err := newTxManagerWithPool(pool).Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	event := domain.NewSettlementCreatedEvent("ev-1", &domain.PartialSettlement{ID: "ps-1", CreatedAt: now})
	if err := NewOutboxRepository(pool).Create(ctx, tx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	assertExpectations(t, pool)
}

func TestOutboxRepositoryGetUnpublished(t *testing.T) {
	pool := newMockPool(t)
	now := time.Now().UTC()

	pool.ExpectQuery("WHERE published = FALSE").
		WithArgs(int32(5)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published",
		}).AddRow("ev-1", "pay-1", "payment", "payment.created", []byte(`{"amount":"40"}`), now, nil, false))

	events, err := NewOutboxRepository(pool).GetUnpublished(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].Payload["amount"] != "40" || events[0].PublishedAt != nil {
		t.Fatalf("unexpected events %+v", events)
	}

	assertExpectations(t, pool)
}

func TestOutboxRepositoryGetUnpublishedBadPayload(t *testing.T) {
	pool := newMockPool(t)

	pool.ExpectQuery("WHERE published = FALSE").
		WithArgs(int32(5)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published",
		}).AddRow("ev-9", "pay-1", "payment", "payment.created", []byte(`{not json`), time.Now(), nil, false))

	_, err := NewOutboxRepository(pool).GetUnpublished(context.Background(), 5)
	if err == nil || !strings.Contains(err.Error(), "ev-9") {
		t.Fatalf("expected decode error naming the event, got %v", err)
	}
}

func TestOutboxRepositoryCreateRejectsForeignTx(t *testing.T) {
	pool := newMockPool(t)

	err := NewOutboxRepository(pool).Create(context.Background(), fakeTx{}, &domain.OutboxEvent{ID: "ev-1"})
	if !errors.Is(err, ErrForeignTransaction) {
		t.Fatalf("expected ErrForeignTransaction, got %v", err)
	}
}

type fakeTx struct{}

func (fakeTx) Commit(context.Context) error   { return nil }
func (fakeTx) Rollback(context.Context) error { return nil }
