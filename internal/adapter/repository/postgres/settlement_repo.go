package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/postgres/generated"
	"github.com/iho/gosettle/internal/usecase"
)

// SettlementRepository implements usecase.SettlementRepository.
type SettlementRepository struct {
	queries *generated.Queries
}

// NewSettlementRepository creates a new SettlementRepository.
func NewSettlementRepository(db generated.DBTX) *SettlementRepository {
	return &SettlementRepository{queries: generated.New(db)}
}

// CreatePartialSettlements inserts the settlements and lowers the residuals of both
// entries of each one. Everything runs inside tx.
func (r *SettlementRepository) CreatePartialSettlements(ctx context.Context, tx usecase.Transaction, settlements []*domain.PartialSettlement) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	for _, ps := range settlements {
		err := queries.CreatePartialSettlement(ctx, generated.CreatePartialSettlementParams{
			ID:                   ps.ID,
			DebitEntryID:         ps.DebitEntryID,
			CreditEntryID:        ps.CreditEntryID,
			Amount:               decimalToNumeric(ps.Amount),
			CurrencyCode:         stringToPgText(ps.Currency),
			DebitAmountCurrency:  decimalToNumeric(ps.DebitAmountCurrency),
			CreditAmountCurrency: decimalToNumeric(ps.CreditAmountCurrency),
			CreatedAt:            timeToPgTimestamptz(ps.CreatedAt),
		})
		if err != nil {
			return fmt.Errorf("insert settlement %s: %w", ps.ID, err)
		}

		if err := applySettlement(ctx, queries, ps, ps.DebitEntryID, ps.DebitAmountCurrency); err != nil {
			return err
		}
		if err := applySettlement(ctx, queries, ps, ps.CreditEntryID, ps.CreditAmountCurrency); err != nil {
			return err
		}
	}

	return nil
}

// applySettlement lowers one entry's residuals. currencyAmount is the settled amount
// in the entry's own currency when it shares the settlement currency.
func applySettlement(ctx context.Context, q *generated.Queries, ps *domain.PartialSettlement, entryID string, currencyAmount decimal.Decimal) error {
	n, err := q.ApplySettlementToEntry(ctx, generated.ApplySettlementToEntryParams{
		ID:             entryID,
		Amount:         decimalToNumeric(ps.Amount),
		CurrencyAmount: decimalToNumeric(currencyAmount),
		CurrencyCode:   stringToPgText(ps.Currency),
	})
	if err != nil {
		return fmt.Errorf("apply settlement %s to entry %s: %w", ps.ID, entryID, err)
	}
	if n == 0 {
		return fmt.Errorf("apply settlement %s: %w: %s", ps.ID, domain.ErrEntryNotFound, entryID)
	}

	return nil
}

// ListByEntry returns the settlements touching an entry, oldest first.
func (r *SettlementRepository) ListByEntry(ctx context.Context, entryID string) ([]*domain.PartialSettlement, error) {
	rows, err := r.queries.ListSettlementsByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	settlements := make([]*domain.PartialSettlement, 0, len(rows))
	for _, row := range rows {
		settlements = append(settlements, &domain.PartialSettlement{
			ID:                   row.ID,
			DebitEntryID:         row.DebitEntryID,
			CreditEntryID:        row.CreditEntryID,
			Amount:               numericToDecimal(row.Amount),
			Currency:             pgTextToString(row.CurrencyCode),
			DebitAmountCurrency:  numericToDecimal(row.DebitAmountCurrency),
			CreditAmountCurrency: numericToDecimal(row.CreditAmountCurrency),
			CreatedAt:            row.CreatedAt.Time,
		})
	}

	return settlements, nil
}
