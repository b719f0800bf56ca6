package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Residual is the unsettled amount of an entry as currently recorded in the ledger.
type Residual struct {
	Functional decimal.Decimal
	Original   decimal.Decimal
}

// MatchContext carries the rounding units used while matching.
type MatchContext struct {
	Functional Currency
	Settlement Currency
	Currencies map[string]Currency
}

// currency returns the rounding for an original currency code.
// Unknown codes round like the functional currency.
func (mc MatchContext) currency(code string) Currency {
	if c, ok := mc.Currencies[strings.ToUpper(code)]; ok {
		return c
	}
	return mc.Functional
}

// MatchCandidate is the working state of one line during a matching run.
// The ratios are fixed when the candidate is built.
type MatchCandidate struct {
	Line     *AllocationLine
	Currency string
	Debit    bool

	FunctionalRemaining decimal.Decimal
	OriginalRemaining   decimal.Decimal
	RequestedRemaining  decimal.Decimal

	// OriginalRatio is original-currency units per functional unit.
	OriginalRatio decimal.Decimal
	// SettlementRatio is requested settlement units per functional unit.
	SettlementRatio decimal.Decimal
}

// NewMatchCandidate scales the entry's current residual down to the line's
// requested amount. settlementResidual is res converted into the settlement
// currency; the requested amount is clamped to it. It returns false when the
// line has nothing to contribute.
func NewMatchCandidate(line *AllocationLine, res Residual, settlementResidual decimal.Decimal, mc MatchContext) (*MatchCandidate, bool) {
	functional := res.Functional.Abs()
	if mc.Functional.IsZero(functional) {
		return nil, false
	}
	settlementResidual = settlementResidual.Abs()
	if mc.Settlement.IsZero(settlementResidual) {
		return nil, false
	}
	requested := Clamp(mc.Settlement.Round(line.Requested), settlementResidual)
	if !requested.IsPositive() {
		return nil, false
	}

	ratio := requested.DivRound(settlementResidual, 16)
	pool := mc.Functional.Round(functional.Mul(ratio))
	if !pool.IsPositive() {
		return nil, false
	}

	original := pool
	if line.Entry.HasOriginalCurrency() {
		original = mc.currency(line.Entry.Currency).Round(res.Original.Abs().Mul(ratio))
	}

	return &MatchCandidate{
		Line:                line,
		Currency:            line.Entry.Currency,
		Debit:               line.Entry.IsDebit(),
		FunctionalRemaining: pool,
		OriginalRemaining:   original,
		RequestedRemaining:  requested,
		OriginalRatio:       original.DivRound(pool, 16),
		SettlementRatio:     requested.DivRound(pool, 16),
	}, true
}

// consume takes amount functional units from the candidate and returns the
// original-currency amount it represents.
func (c *MatchCandidate) consume(amount decimal.Decimal, mc MatchContext) decimal.Decimal {
	exhausted := amount.Equal(c.FunctionalRemaining)

	original := decimal.Zero
	if c.Currency != "" {
		if exhausted {
			original = c.OriginalRemaining
		} else {
			original = decimal.Min(mc.currency(c.Currency).Round(amount.Mul(c.OriginalRatio)), c.OriginalRemaining)
		}
		c.OriginalRemaining = c.OriginalRemaining.Sub(original)
	}

	c.FunctionalRemaining = c.FunctionalRemaining.Sub(amount)
	if exhausted {
		c.RequestedRemaining = decimal.Zero
	} else {
		reduction := mc.Settlement.Round(amount.Mul(c.SettlementRatio))
		c.RequestedRemaining = decimal.Max(c.RequestedRemaining.Sub(reduction), decimal.Zero)
	}

	return original
}

// Match pairs debit candidates against credit candidates first-in first-out and
// returns the partial settlements in creation order. Candidates are updated in place.
func Match(candidates []*MatchCandidate, mc MatchContext) []*PartialSettlement {
	var debits, credits []*MatchCandidate
	for _, c := range candidates {
		if c.Debit {
			debits = append(debits, c)
		} else {
			credits = append(credits, c)
		}
	}

	var settlements []*PartialSettlement
	for len(debits) > 0 && len(credits) > 0 {
		d, c := debits[0], credits[0]

		amount := mc.Functional.Round(decimal.Min(d.FunctionalRemaining, c.FunctionalRemaining))
		if !amount.IsPositive() {
			break
		}

		debitOriginal := d.consume(amount, mc)
		creditOriginal := c.consume(amount, mc)

		ps := &PartialSettlement{
			DebitEntryID:         d.Line.Entry.ID,
			CreditEntryID:        c.Line.Entry.ID,
			Amount:               amount,
			DebitAmountCurrency:  decimal.Zero,
			CreditAmountCurrency: decimal.Zero,
		}
		switch {
		case d.Currency != "" && c.Currency != "":
			if strings.EqualFold(d.Currency, c.Currency) {
				ps.Currency = d.Currency
				ps.DebitAmountCurrency = debitOriginal
				ps.CreditAmountCurrency = creditOriginal
			}
		case d.Currency != "":
			ps.Currency = d.Currency
			ps.DebitAmountCurrency = debitOriginal
		case c.Currency != "":
			ps.Currency = c.Currency
			ps.CreditAmountCurrency = creditOriginal
		}
		settlements = append(settlements, ps)

		if mc.Functional.IsZero(d.FunctionalRemaining) {
			debits = debits[1:]
		}
		if mc.Functional.IsZero(c.FunctionalRemaining) {
			credits = credits[1:]
		}
	}

	return settlements
}

// Leftovers returns the requested amount still to pay for each debit line.
// Lines that took part in matching report their remaining requested amount;
// the others, or all lines when nothing was settled, keep their requested amount.
func Leftovers(debitLines []*AllocationLine, candidates []*MatchCandidate, settled bool) map[string]decimal.Decimal {
	byLine := make(map[string]*MatchCandidate, len(candidates))
	if settled {
		for _, c := range candidates {
			byLine[c.Line.ID] = c
		}
	}

	leftovers := make(map[string]decimal.Decimal, len(debitLines))
	for _, l := range debitLines {
		if c, ok := byLine[l.ID]; ok {
			leftovers[l.ID] = decimal.Max(c.RequestedRemaining, decimal.Zero)
			continue
		}
		leftovers[l.ID] = l.Requested
	}

	return leftovers
}
