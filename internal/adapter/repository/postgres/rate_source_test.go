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

func TestRateSourceRate(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM exchange_rates").
		WithArgs("EUR", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"rate"}).AddRow("0.912345"))

	rate, err := NewRateSource(pool).Rate(context.Background(), "eur", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate.String() != "0.912345" {
		t.Fatalf("expected 0.912345, got %s", rate)
	}

	assertExpectations(t, pool)
}

func TestRateSourceRateUnavailable(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM exchange_rates").
		WithArgs("GBP", pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err := NewRateSource(pool).Rate(context.Background(), "GBP", time.Now())
	if !errors.Is(err, domain.ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}
