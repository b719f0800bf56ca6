package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/postgres/generated"
	"github.com/iho/gosettle/internal/usecase"
)

// LedgerStore implements usecase.LedgerStore.
type LedgerStore struct {
	queries *generated.Queries
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(db generated.DBTX) *LedgerStore {
	return &LedgerStore{queries: generated.New(db)}
}

// FindOpenEntries returns the party's entries with a non-zero functional residual.
func (s *LedgerStore) FindOpenEntries(ctx context.Context, partyID, companyID string) ([]*domain.LedgerEntry, error) {
	rows, err := s.queries.FindOpenEntries(ctx, generated.FindOpenEntriesParams{
		PartyID:   partyID,
		CompanyID: companyID,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToLedgerEntry(row))
	}

	return entries, nil
}

// GetOpenEntry returns one open entry of the party.
func (s *LedgerStore) GetOpenEntry(ctx context.Context, partyID, companyID, entryID string) (*domain.LedgerEntry, error) {
	row, err := s.queries.GetOpenEntry(ctx, generated.GetOpenEntryParams{
		ID:        entryID,
		PartyID:   partyID,
		CompanyID: companyID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return rowToLedgerEntry(row), nil
}

// ReadResidual reads the entry's current residual.
func (s *LedgerStore) ReadResidual(ctx context.Context, entryID string) (domain.Residual, error) {
	row, err := s.queries.GetEntryResidual(ctx, entryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Residual{}, domain.ErrEntryNotFound
		}

		return domain.Residual{}, err
	}

	return domain.Residual{
		Functional: numericToDecimal(row.ResidualFunctional),
		Original:   numericToDecimal(row.ResidualOriginal),
	}, nil
}

// ReadResidualForUpdate reads the entry's residual and locks the row until tx ends.
func (s *LedgerStore) ReadResidualForUpdate(ctx context.Context, tx usecase.Transaction, entryID string) (domain.Residual, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return domain.Residual{}, err
	}

	row, err := queries.GetEntryResidualForUpdate(ctx, entryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Residual{}, domain.ErrEntryNotFound
		}

		return domain.Residual{}, err
	}

	return domain.Residual{
		Functional: numericToDecimal(row.ResidualFunctional),
		Original:   numericToDecimal(row.ResidualOriginal),
	}, nil
}

func rowToLedgerEntry(row generated.LedgerEntry) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:                 row.ID,
		PartyID:            row.PartyID,
		CompanyID:          row.CompanyID,
		DocumentID:         row.DocumentID,
		DocumentName:       row.DocumentName,
		DocumentType:       domain.DocumentType(row.DocumentType),
		DocumentDate:       row.DocumentDate.Time,
		Currency:           pgTextToString(row.CurrencyCode),
		Balance:            numericToDecimal(row.Balance),
		ResidualFunctional: numericToDecimal(row.ResidualFunctional),
		ResidualOriginal:   numericToDecimal(row.ResidualOriginal),
		PaymentID:          pgTextToString(row.PaymentID),
	}
}
