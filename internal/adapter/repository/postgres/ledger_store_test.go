package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/gosettle/internal/domain"
)

var ledgerEntryColumns = []string{
	"id", "party_id", "company_id", "document_id", "document_name", "document_type", "document_date",
	"currency_code", "balance", "amount_original", "residual_functional", "residual_original", "payment_id", "created_at",
}

func TestLedgerStoreFindOpenEntries(t *testing.T) {
	pool := newMockPool(t)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	pool.ExpectQuery("FROM ledger_entries").
		WithArgs("party-1", "co-1").
		WillReturnRows(pgxmock.NewRows(ledgerEntryColumns).
			AddRow("e1", "party-1", "co-1", "inv-1", "INV/1", "customer_invoice", date,
				nil, "100.00", "0", "100.00", "100.00", nil, date).
			AddRow("e2", "party-1", "co-1", "pay-1", "PAY/1", "entry", date,
				"EUR", "-60.00", "-55.00", "60.00", "55.00", "p-1", date))

	store := NewLedgerStore(pool)
	entries, err := store.FindOpenEntries(context.Background(), "party-1", "co-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if entries[0].Currency != "" || entries[0].PaymentID != "" {
		t.Fatalf("expected NULL columns to map to empty strings, got %+v", entries[0])
	}
	if entries[0].DocumentType != domain.DocumentTypeCustomerInvoice {
		t.Fatalf("unexpected document type %q", entries[0].DocumentType)
	}
	if entries[1].Currency != "EUR" || entries[1].PaymentID != "p-1" {
		t.Fatalf("unexpected entry %+v", entries[1])
	}
	if entries[1].Balance.String() != "-60" || entries[1].ResidualOriginal.String() != "55" {
		t.Fatalf("unexpected amounts %s / %s", entries[1].Balance, entries[1].ResidualOriginal)
	}

	assertExpectations(t, pool)
}

func TestLedgerStoreGetOpenEntryNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM ledger_entries").
		WithArgs("e9", "party-1", "co-1").
		WillReturnError(pgx.ErrNoRows)

	store := NewLedgerStore(pool)
	_, err := store.GetOpenEntry(context.Background(), "party-1", "co-1", "e9")
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestLedgerStoreReadResidualForUpdate(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectBegin()
	pool.ExpectQuery("FOR UPDATE").
		WithArgs("e1").
		WillReturnRows(pgxmock.NewRows([]string{"residual_functional", "residual_original"}).
			AddRow("40.00", "36.50"))
	pool.ExpectRollback()

	ctx := context.Background()
	tx, err := newTxManagerWithPool(pool).Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	store := NewLedgerStore(pool)
	res, err := store.ReadResidualForUpdate(ctx, tx, "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Functional.String() != "40" || res.Original.String() != "36.5" {
		t.Fatalf("unexpected residual %+v", res)
	}

	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	assertExpectations(t, pool)
}

func TestLedgerStoreReadResidualNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("SELECT residual_functional").
		WithArgs("gone").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewLedgerStore(pool).ReadResidual(context.Background(), "gone")
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}
