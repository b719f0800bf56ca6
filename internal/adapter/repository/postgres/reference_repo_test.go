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

func TestJournalRepositoryGetByID(t *testing.T) {
	pool := newMockPool(t)
	now := time.Now()
	pool.ExpectQuery("FROM journals").
		WithArgs("bank").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "company_id", "currency_code", "created_at"}).
			AddRow("bank", "Bank", "co-1", nil, now))
	pool.ExpectQuery("FROM payment_methods").
		WithArgs("bank").
		WillReturnRows(pgxmock.NewRows([]string{"id", "journal_id", "name", "direction", "position"}).
			AddRow("m-in", "bank", "Manual In", "inbound", int32(0)).
			AddRow("m-out", "bank", "Manual Out", "outbound", int32(1)))

	journal, err := NewJournalRepository(pool).GetByID(context.Background(), "bank")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if journal.Currency != "" {
		t.Fatalf("expected no journal currency, got %q", journal.Currency)
	}

	m, err := journal.DefaultMethod(domain.PaymentDirectionOutbound)
	if err != nil || m.ID != "m-out" {
		t.Fatalf("expected m-out, got %+v (%v)", m, err)
	}

	assertExpectations(t, pool)
}

func TestCompanyRepositoryGetByID(t *testing.T) {
	pool := newMockPool(t)
	now := time.Now()
	pool.ExpectQuery("FROM companies").
		WithArgs("co-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "currency_code", "created_at"}).
			AddRow("co-1", "Main", "USD", now))
	pool.ExpectQuery("FROM currencies").
		WithArgs("USD").
		WillReturnRows(pgxmock.NewRows([]string{"code", "name", "rounding", "created_at"}).
			AddRow("USD", "US Dollar", "0.01", now))

	company, err := NewCompanyRepository(pool).GetByID(context.Background(), "co-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if company.Currency.Code != "USD" || company.Currency.Rounding.String() != "0.01" {
		t.Fatalf("unexpected currency %+v", company.Currency)
	}

	assertExpectations(t, pool)
}

func TestReferenceRepositoriesNotFound(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		call    func(pool pgxmock.PgxPoolIface) error
		wantErr error
	}{
		{
			name:  "party",
			table: "FROM parties",
			call: func(pool pgxmock.PgxPoolIface) error {
				_, err := NewPartyRepository(pool).GetByID(context.Background(), "x")
				return err
			},
			wantErr: domain.ErrPartyNotFound,
		},
		{
			name:  "company",
			table: "FROM companies",
			call: func(pool pgxmock.PgxPoolIface) error {
				_, err := NewCompanyRepository(pool).GetByID(context.Background(), "x")
				return err
			},
			wantErr: domain.ErrCompanyNotFound,
		},
		{
			name:  "journal",
			table: "FROM journals",
			call: func(pool pgxmock.PgxPoolIface) error {
				_, err := NewJournalRepository(pool).GetByID(context.Background(), "x")
				return err
			},
			wantErr: domain.ErrJournalNotFound,
		},
		{
			name:  "currency",
			table: "FROM currencies",
			call: func(pool pgxmock.PgxPoolIface) error {
				_, err := NewCurrencyRepository(pool).GetByCode(context.Background(), "xyz")
				return err
			},
			wantErr: domain.ErrCurrencyNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newMockPool(t)
			pool.ExpectQuery(tt.table).WillReturnError(pgx.ErrNoRows)

			if err := tt.call(pool); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCurrencyRepositoryList(t *testing.T) {
	pool := newMockPool(t)
	now := time.Now()
	pool.ExpectQuery("FROM currencies").
		WillReturnRows(pgxmock.NewRows([]string{"code", "name", "rounding", "created_at"}).
			AddRow("EUR", "Euro", "0.01", now).
			AddRow("JPY", "Yen", "1", now))

	got, err := NewCurrencyRepository(pool).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].Code != "JPY" || got[1].Rounding.String() != "1" {
		t.Fatalf("unexpected currencies %+v", got)
	}
}
