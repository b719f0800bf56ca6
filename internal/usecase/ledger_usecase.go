package usecase

import (
	"context"
	"fmt"

	"github.com/iho/gosettle/internal/domain"
)

const defaultConsistencySamples = 20

// LedgerUseCase runs ledger-wide residual checks.
type LedgerUseCase struct {
	ledgerRepo  LedgerRepository
	sampleLimit int
}

// NewLedgerUseCase creates a LedgerUseCase reporting up to sampleLimit
// offending entries; zero or less means the default.
func NewLedgerUseCase(ledgerRepo LedgerRepository, sampleLimit int) *LedgerUseCase {
	if sampleLimit <= 0 {
		sampleLimit = defaultConsistencySamples
	}
	return &LedgerUseCase{ledgerRepo: ledgerRepo, sampleLimit: sampleLimit}
}

// CheckConsistency verifies that no entry is settled beyond its amount and that
// every stored residual equals the entry amount less its settlements. An
// inconsistent ledger returns the report together with domain.ErrInconsistentLedger.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	report, err := uc.ledgerRepo.CheckConsistency(ctx, uc.sampleLimit)
	if err != nil {
		return nil, fmt.Errorf("check ledger consistency: %w", err)
	}
	if report.Consistent() {
		return report, nil
	}

	return report, fmt.Errorf("%w: %d over-settled, %d stale residuals",
		domain.ErrInconsistentLedger, report.OverSettled, report.StaleResiduals)
}
