package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/iho/gosettle/internal/domain"
)

// Loader fetches a party's open entries and turns them into allocation lines.
type Loader struct {
	ledger    LedgerStore
	converter *Converter
	idGen     IDGenerator
}

// NewLoader creates a new Loader.
func NewLoader(ledger LedgerStore, converter *Converter, idGen IDGenerator) *Loader {
	return &Loader{
		ledger:    ledger,
		converter: converter,
		idGen:     idGen,
	}
}

// LoadInput selects the open items to load.
type LoadInput struct {
	PartyID    string
	CompanyID  string
	Role       domain.PartyRole
	Conversion Conversion
}

// Load returns one line per open entry, ordered by document date, document name
// and entry ID. Entries whose functional residual rounds to zero are skipped.
func (l *Loader) Load(ctx context.Context, in LoadInput) ([]*domain.AllocationLine, error) {
	entries, err := l.ledger.FindOpenEntries(ctx, in.PartyID, in.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("find open entries: %w", err)
	}

	slices.SortStableFunc(entries, func(a, b *domain.LedgerEntry) int {
		return a.SortKey().Compare(b.SortKey())
	})

	lines := make([]*domain.AllocationLine, 0, len(entries))
	for _, entry := range entries {
		line, ok, err := l.BuildLine(ctx, entry, in.Role, in.Conversion)
		if err != nil {
			return nil, err
		}
		if ok {
			lines = append(lines, line)
		}
	}

	return lines, nil
}

// BuildLine classifies one entry and computes its settlement residual.
// It reports false when the entry has nothing left to settle.
func (l *Loader) BuildLine(ctx context.Context, entry *domain.LedgerEntry, role domain.PartyRole, conv Conversion) (*domain.AllocationLine, bool, error) {
	functional := entry.ResidualFunctional.Abs()
	if conv.Functional.IsZero(functional) {
		return nil, false, nil
	}

	entry.ResidualFunctional = functional
	if entry.HasOriginalCurrency() {
		entry.ResidualOriginal = entry.ResidualOriginal.Abs()
	} else {
		entry.ResidualOriginal = functional
	}

	residual, err := l.converter.Convert(ctx, functional, conv)
	if err != nil {
		return nil, false, fmt.Errorf("convert residual of entry %s: %w", entry.ID, err)
	}

	kind := entry.Classify(role, conv.Functional)
	return domain.NewAllocationLine(l.idGen.Generate(), entry, kind, residual), true, nil
}
