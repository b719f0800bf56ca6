package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
)

func testSettlement() *domain.PartialSettlement {
	return &domain.PartialSettlement{
		ID:                   "ps-1",
		DebitEntryID:         "d1",
		CreditEntryID:        "c1",
		Amount:               decimal.RequireFromString("60"),
		Currency:             "EUR",
		DebitAmountCurrency:  decimal.RequireFromString("55"),
		CreditAmountCurrency: decimal.Zero,
		CreatedAt:            time.Now().UTC(),
	}
}

func TestSettlementRepositoryCreate(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectBegin()
	pool.ExpectExec("INSERT INTO partial_settlements").
		WithArgs("ps-1", "d1", "c1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec("UPDATE ledger_entries").
		WithArgs("d1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectExec("UPDATE ledger_entries").
		WithArgs("c1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectCommit()

	ctx := context.Background()
	tx, err := newTxManagerWithPool(pool).Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	repo := NewSettlementRepository(pool)
	if err := repo.CreatePartialSettlements(ctx, tx, []*domain.PartialSettlement{testSettlement()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	assertExpectations(t, pool)
}

func TestSettlementRepositoryCreateMissingEntry(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectBegin()
	pool.ExpectExec("INSERT INTO partial_settlements").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec("UPDATE ledger_entries").
		WithArgs("d1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	pool.ExpectRollback()

	ctx := context.Background()
	tx, err := newTxManagerWithPool(pool).Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	err = NewSettlementRepository(pool).CreatePartialSettlements(ctx, tx, []*domain.PartialSettlement{testSettlement()})
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	_ = tx.Rollback(ctx)

	assertExpectations(t, pool)
}

func TestSettlementRepositoryListByEntry(t *testing.T) {
	pool := newMockPool(t)
	now := time.Now().UTC()
	pool.ExpectQuery("FROM partial_settlements").
		WithArgs("d1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "debit_entry_id", "credit_entry_id", "amount", "currency_code",
			"debit_amount_currency", "credit_amount_currency", "created_at",
		}).AddRow("ps-1", "d1", "c1", "60.00", nil, "0", "0", now))

	got, err := NewSettlementRepository(pool).ListByEntry(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Currency != "" || got[0].Amount.String() != "60" {
		t.Fatalf("unexpected settlements %+v", got)
	}
}
