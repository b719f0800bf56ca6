package postgres

import (
	"context"
	"fmt"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckConsistency counts entries settled beyond their amount and entries whose
// stored residual differs from their amount less recorded settlements. Offending
// entries are only listed when the counts are non-zero.
func (r *LedgerRepository) CheckConsistency(ctx context.Context, sampleLimit int) (*domain.ConsistencyReport, error) {
	counts, err := r.queries.CheckSettlementConsistency(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.ConsistencyReport{
		OverSettled:    counts.OverSettled,
		StaleResiduals: counts.ResidualMismatch,
	}
	if report.Consistent() || sampleLimit <= 0 {
		return report, nil
	}

	rows, err := r.queries.ListInconsistentEntries(ctx, int32(sampleLimit))
	if err != nil {
		return nil, fmt.Errorf("list inconsistent entries: %w", err)
	}
	report.Samples = make([]domain.InconsistentEntry, 0, len(rows))
	for _, row := range rows {
		report.Samples = append(report.Samples, domain.InconsistentEntry{
			EntryID:  row.ID,
			Balance:  numericToDecimal(row.Balance),
			Residual: numericToDecimal(row.ResidualFunctional),
			Settled:  numericToDecimal(row.Settled),
		})
	}

	return report, nil
}
