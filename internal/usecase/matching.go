package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
)

// MatchingEngine pairs a party's debit lines with its credit lines.
type MatchingEngine struct {
	ledger    LedgerStore
	converter *Converter
}

// NewMatchingEngine creates a new MatchingEngine.
func NewMatchingEngine(ledger LedgerStore, converter *Converter) *MatchingEngine {
	return &MatchingEngine{ledger: ledger, converter: converter}
}

// MatchInput is one matching run. Residuals are re-read inside Tx and
// converted with Conversion, so a session loaded earlier never scales
// against a stale residual.
type MatchInput struct {
	Tx          Transaction
	DebitLines  []*domain.AllocationLine
	CreditLines []*domain.AllocationLine
	Context     domain.MatchContext
	Conversion  Conversion
}

// MatchResult holds the settlements to persist and what is left to pay per debit line.
type MatchResult struct {
	Settlements []*domain.PartialSettlement
	Leftovers   map[string]decimal.Decimal
}

// Match builds candidates from fresh residuals and runs the pairing.
// With no debit or no credit lines it returns the requested amounts unchanged.
func (e *MatchingEngine) Match(ctx context.Context, in MatchInput) (*MatchResult, error) {
	if len(in.DebitLines) == 0 || len(in.CreditLines) == 0 {
		return &MatchResult{Leftovers: domain.Leftovers(in.DebitLines, nil, false)}, nil
	}

	lines := make([]*domain.AllocationLine, 0, len(in.DebitLines)+len(in.CreditLines))
	lines = append(lines, in.DebitLines...)
	lines = append(lines, in.CreditLines...)
	slices.SortStableFunc(lines, func(a, b *domain.AllocationLine) int {
		return a.Entry.SortKey().Compare(b.Entry.SortKey())
	})

	candidates := make([]*domain.MatchCandidate, 0, len(lines))
	for _, line := range lines {
		residual, err := e.ledger.ReadResidualForUpdate(ctx, in.Tx, line.Entry.ID)
		if err != nil {
			return nil, fmt.Errorf("read residual of entry %s: %w", line.Entry.ID, err)
		}
		settlementResidual, err := e.converter.Convert(ctx, residual.Functional.Abs(), in.Conversion)
		if err != nil {
			return nil, err
		}
		if c, ok := domain.NewMatchCandidate(line, residual, settlementResidual, in.Context); ok {
			candidates = append(candidates, c)
		}
	}

	settlements := domain.Match(candidates, in.Context)

	return &MatchResult{
		Settlements: settlements,
		Leftovers:   domain.Leftovers(in.DebitLines, candidates, len(settlements) > 0),
	}, nil
}
