package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
)

// Finalizer turns leftover requested amounts into payment instructions.
type Finalizer struct {
	ledger    LedgerStore
	converter *Converter
}

// NewFinalizer creates a new Finalizer.
func NewFinalizer(ledger LedgerStore, converter *Converter) *Finalizer {
	return &Finalizer{
		ledger:    ledger,
		converter: converter,
	}
}

// FinalizeInput lists the debit lines still to pay and how much to pay on each.
type FinalizeInput struct {
	Tx         Transaction
	Lines      []*domain.AllocationLine
	Amounts    map[string]decimal.Decimal
	Mode       domain.AllocationMode
	Conversion Conversion
}

// Finalize clamps every amount to the line's current residual and returns unsaved
// instructions: one per paying line, or a single grouped one.
func (f *Finalizer) Finalize(ctx context.Context, in FinalizeInput) ([]*domain.PaymentInstruction, error) {
	type payable struct {
		line   *domain.AllocationLine
		amount decimal.Decimal
	}

	target := in.Conversion.Target
	payables := make([]payable, 0, len(in.Lines))
	for _, line := range in.Lines {
		requested, ok := in.Amounts[line.ID]
		if !ok {
			requested = line.Requested
		}

		residual, err := f.ledger.ReadResidualForUpdate(ctx, in.Tx, line.Entry.ID)
		if err != nil {
			return nil, fmt.Errorf("read residual of entry %s: %w", line.Entry.ID, err)
		}
		fresh, err := f.converter.Convert(ctx, residual.Functional.Abs(), in.Conversion)
		if err != nil {
			return nil, err
		}

		payables = append(payables, payable{line: line, amount: domain.Clamp(target.Round(requested), fresh)})
	}

	switch in.Mode {
	case domain.AllocationModePerLine:
		var out []*domain.PaymentInstruction
		for _, p := range payables {
			if !p.amount.IsPositive() {
				continue
			}
			out = append(out, &domain.PaymentInstruction{
				Amount:      p.amount,
				Currency:    target.Code,
				EntryIDs:    []string{p.line.Entry.ID},
				DocumentIDs: []string{p.line.Entry.DocumentID},
			})
		}
		if len(out) == 0 {
			return nil, domain.ErrNoPayableAmount
		}
		return out, nil

	case domain.AllocationModeGrouped, "":
		grouped := &domain.PaymentInstruction{
			Amount:   decimal.Zero,
			Currency: target.Code,
		}
		for _, p := range payables {
			grouped.Amount = grouped.Amount.Add(p.amount)
			grouped.EntryIDs = append(grouped.EntryIDs, p.line.Entry.ID)
			grouped.DocumentIDs = append(grouped.DocumentIDs, p.line.Entry.DocumentID)
		}
		if !grouped.Amount.IsPositive() {
			return nil, domain.ErrNoPayableAmount
		}
		return []*domain.PaymentInstruction{grouped}, nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAllocationMode, in.Mode)
}
