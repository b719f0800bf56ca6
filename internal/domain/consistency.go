package domain

import "github.com/shopspring/decimal"

// InconsistentEntry is a ledger entry whose stored residual disagrees with
// its balance less the settlements recorded against it.
type InconsistentEntry struct {
	EntryID  string
	Balance  decimal.Decimal
	Residual decimal.Decimal
	Settled  decimal.Decimal
}

// ConsistencyReport is the result of a ledger-wide residual check.
// Samples holds at most the requested number of offending entries.
type ConsistencyReport struct {
	OverSettled    int64
	StaleResiduals int64
	Samples        []InconsistentEntry
}

func (r *ConsistencyReport) Consistent() bool {
	return r.OverSettled == 0 && r.StaleResiduals == 0
}
