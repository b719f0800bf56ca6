package domain

import "errors"

var (
	// Conversion errors
	ErrRateUnavailable  = errors.New("no exchange rate available for currency and date")
	ErrInvalidRate      = errors.New("exchange rate must be positive")
	ErrInvalidRateMode  = errors.New("invalid rate mode")
	ErrInvalidCurrency  = errors.New("invalid currency")
	ErrCurrencyNotFound = errors.New("currency not found")

	// Allocation errors
	ErrNoOpenItems              = errors.New("no open items selected")
	ErrNoPayableAmount          = errors.New("no payable amount after clamping")
	ErrIncompatibleJournal      = errors.New("journal has no compatible payment method")
	ErrSettlementCreationFailed = errors.New("settlement creation failed")
	ErrInvalidAllocationMode    = errors.New("invalid allocation mode")
	ErrInvalidAmount            = errors.New("amount must not be negative")

	// Lookup errors
	ErrPartyNotFound   = errors.New("party not found")
	ErrCompanyNotFound = errors.New("company not found")
	ErrJournalNotFound = errors.New("journal not found")
	ErrEntryNotFound   = errors.New("open entry not found")
	ErrSessionNotFound = errors.New("allocation session not found")
	ErrLineNotFound    = errors.New("allocation line not found")

	// Concurrency errors
	ErrPartyLocked = errors.New("party is being allocated by another session")

	ErrInconsistentLedger = errors.New("ledger is inconsistent: settlements do not match entry residuals")
)

// ErrorKind groups domain errors by how a caller should react to them.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalid
	KindNotFound
	KindConflict
	KindUnprocessable
)

type classified struct {
	err  error
	code string
	kind ErrorKind
}

var errorTable = []classified{
	{ErrRateUnavailable, "rate_unavailable", KindUnprocessable},
	{ErrNoOpenItems, "no_open_items", KindUnprocessable},
	{ErrNoPayableAmount, "no_payable_amount", KindUnprocessable},
	{ErrIncompatibleJournal, "incompatible_journal", KindUnprocessable},
	{ErrSettlementCreationFailed, "settlement_creation_failed", KindInternal},
	{ErrPartyLocked, "party_locked", KindConflict},
	{ErrInconsistentLedger, "inconsistent_ledger", KindConflict},

	{ErrSessionNotFound, "session_not_found", KindNotFound},
	{ErrLineNotFound, "line_not_found", KindNotFound},
	{ErrEntryNotFound, "entry_not_found", KindNotFound},
	{ErrPartyNotFound, "party_not_found", KindNotFound},
	{ErrCompanyNotFound, "company_not_found", KindNotFound},
	{ErrJournalNotFound, "journal_not_found", KindNotFound},
	{ErrCurrencyNotFound, "currency_not_found", KindNotFound},

	{ErrInvalidRate, "invalid_rate", KindInvalid},
	{ErrInvalidRateMode, "invalid_rate_mode", KindInvalid},
	{ErrInvalidAllocationMode, "invalid_allocation_mode", KindInvalid},
	{ErrInvalidCurrency, "invalid_currency", KindInvalid},
	{ErrInvalidAmount, "invalid_amount", KindInvalid},
	{ErrMemoTooLong, "memo_too_long", KindInvalid},
	{ErrInvalidIDFormat, "invalid_id_format", KindInvalid},
	{ErrTooManyLineIDs, "too_many_line_ids", KindInvalid},
}

// Classify returns a stable code and kind for err. Unknown errors are
// "internal". The first matching entry wins for errors wrapping several.
func Classify(err error) (string, ErrorKind) {
	for _, c := range errorTable {
		if errors.Is(err, c.err) {
			return c.code, c.kind
		}
	}
	return "internal", KindInternal
}
