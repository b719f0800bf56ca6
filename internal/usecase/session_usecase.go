package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
)

// SessionUseCase manages editable allocation sessions.
type SessionUseCase struct {
	sessions   SessionStore
	ledger     LedgerStore
	loader     *Loader
	converter  *Converter
	scopes     *scopeResolver
	auditRepo  AuditRepository
	idGen      IDGenerator
	sessionTTL time.Duration
	defaults   SessionDefaults
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// SessionDefaults apply when a load request leaves a mode empty.
type SessionDefaults struct {
	Mode     domain.AllocationMode
	RateMode domain.RateMode
}

// SessionDeps groups the collaborators of SessionUseCase.
type SessionDeps struct {
	Sessions   SessionStore
	Ledger     LedgerStore
	Converter  *Converter
	Parties    PartyRepository
	Companies  CompanyRepository
	Journals   JournalRepository
	Currencies CurrencyRepository
	Audit      AuditRepository
	IDGen      IDGenerator
	SessionTTL time.Duration
	Defaults   SessionDefaults
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
}

// NewSessionUseCase creates a new SessionUseCase.
func NewSessionUseCase(deps SessionDeps) *SessionUseCase {
	ttl := deps.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &SessionUseCase{
		sessions:  deps.Sessions,
		ledger:    deps.Ledger,
		loader:    NewLoader(deps.Ledger, deps.Converter, deps.IDGen),
		converter: deps.Converter,
		scopes: &scopeResolver{
			parties:    deps.Parties,
			companies:  deps.Companies,
			journals:   deps.Journals,
			currencies: deps.Currencies,
		},
		auditRepo:  deps.Audit,
		idGen:      deps.IDGen,
		sessionTTL: ttl,
		defaults:   deps.Defaults,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// LoadSessionInput holds input for opening an allocation session.
type LoadSessionInput struct {
	PartyID            string
	CompanyID          string
	JournalID          string
	PaymentMethodID    string
	SettlementCurrency string
	AsOf               time.Time
	RateMode           domain.RateMode
	FixedRate          decimal.Decimal
	Mode               domain.AllocationMode
	Memo               string
}

// Load opens a session holding every open item of the party.
func (uc *SessionUseCase) Load(ctx context.Context, input LoadSessionInput) (*domain.AllocationSession, error) {
	if err := domain.ValidateCurrencyCode(input.SettlementCurrency); err != nil {
		return nil, err
	}
	if err := domain.ValidateMemo(input.Memo); err != nil {
		return nil, err
	}

	if input.RateMode == "" {
		input.RateMode = uc.defaults.RateMode
	}
	if input.Mode == "" {
		input.Mode = uc.defaults.Mode
	}

	rateMode, err := domain.ParseRateMode(string(input.RateMode))
	if err != nil {
		return nil, err
	}
	mode, err := domain.ParseAllocationMode(string(input.Mode))
	if err != nil {
		return nil, err
	}

	conversion := domain.ConversionSettings{Mode: rateMode, FixedRate: input.FixedRate}
	if err := conversion.Validate(); err != nil {
		return nil, err
	}

	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	asOf = asOf.Truncate(24 * time.Hour)

	now := time.Now().UTC()
	session := &domain.AllocationSession{
		ID:                 uc.idGen.Generate(),
		PartyID:            input.PartyID,
		CompanyID:          input.CompanyID,
		JournalID:          input.JournalID,
		PaymentMethodID:    input.PaymentMethodID,
		SettlementCurrency: strings.ToUpper(strings.TrimSpace(input.SettlementCurrency)),
		AsOf:               asOf,
		Conversion:         conversion,
		Mode:               mode,
		Memo:               input.Memo,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uc.reloadLines(ctx, session); err != nil {
		return nil, err
	}

	if err := uc.sessions.Save(ctx, session, uc.sessionTTL); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SessionsLoaded.Inc()
		uc.metrics.SessionLines.Observe(float64(len(session.Lines)))
	}
	uc.audit(ctx, domain.AuditActionSessionLoad, session, nil)

	uc.logger.Info().
		Str("session_id", session.ID).
		Str("party_id", session.PartyID).
		Int("lines", len(session.Lines)).
		Msg("allocation session loaded")

	return session, nil
}

// Reload replaces the session's lines with the party's current open items.
func (uc *SessionUseCase) Reload(ctx context.Context, sessionID string) (*domain.AllocationSession, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	before := domain.JSON{"lines": len(session.Lines)}
	if err := uc.reloadLines(ctx, session); err != nil {
		return nil, err
	}

	if err := uc.save(ctx, session); err != nil {
		return nil, err
	}
	uc.audit(ctx, domain.AuditActionSessionReload, session, before)

	return session, nil
}

// Get returns a stored session.
func (uc *SessionUseCase) Get(ctx context.Context, sessionID string) (*domain.AllocationSession, error) {
	return uc.sessions.Get(ctx, sessionID)
}

// Discard drops a session without allocating.
func (uc *SessionUseCase) Discard(ctx context.Context, sessionID string) error {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	uc.audit(ctx, domain.AuditActionSessionDiscard, session, nil)

	return nil
}

// EditLine sets a line's requested amount, clamped to the entry's current residual.
func (uc *SessionUseCase) EditLine(ctx context.Context, sessionID, lineID string, amount decimal.Decimal) (*domain.AllocationLine, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line, err := session.Line(lineID)
	if err != nil {
		return nil, err
	}

	scope, err := uc.scopes.resolve(ctx, session)
	if err != nil {
		return nil, err
	}

	residual, err := uc.ledger.ReadResidual(ctx, line.Entry.ID)
	if err != nil {
		return nil, err
	}
	fresh, err := uc.converter.Convert(ctx, residual.Functional.Abs(), scope.conversion)
	if err != nil {
		return nil, err
	}

	before := line.Requested
	line.SetRequested(scope.settlement.Round(amount), fresh)

	if err := uc.save(ctx, session); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		outcome := "accepted"
		if !line.Requested.Equal(scope.settlement.Round(amount)) {
			outcome = "clamped"
		}
		uc.metrics.LineEdits.WithLabelValues(outcome).Inc()
	}
	uc.audit(ctx, domain.AuditActionSessionEditLine, session, domain.JSON{
		"line_id": line.ID,
		"before":  before.String(),
	})

	return line, nil
}

// AddEntry adds a single open entry of the session's party as a new line.
// Adding an entry already present returns the session unchanged.
func (uc *SessionUseCase) AddEntry(ctx context.Context, sessionID, entryID string) (*domain.AllocationSession, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.HasEntry(entryID) {
		return session, nil
	}

	scope, err := uc.scopes.resolve(ctx, session)
	if err != nil {
		return nil, err
	}

	entry, err := uc.ledger.GetOpenEntry(ctx, session.PartyID, session.CompanyID, entryID)
	if err != nil {
		return nil, err
	}

	line, ok, err := uc.loader.BuildLine(ctx, entry, scope.party.Role, scope.conversion)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: entry %s has no residual", domain.ErrEntryNotFound, entryID)
	}

	session.Lines = append(session.Lines, line)
	if err := uc.save(ctx, session); err != nil {
		return nil, err
	}
	uc.audit(ctx, domain.AuditActionSessionAddEntry, session, domain.JSON{"entry_id": entryID})

	return session, nil
}

// RemoveLines drops lines from the session.
func (uc *SessionUseCase) RemoveLines(ctx context.Context, sessionID string, lineIDs []string) (*domain.AllocationSession, error) {
	if err := domain.ValidateLineIDs(lineIDs); err != nil {
		return nil, err
	}

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if removed := session.RemoveLines(lineIDs); removed == 0 {
		return session, nil
	}

	if err := uc.save(ctx, session); err != nil {
		return nil, err
	}
	uc.audit(ctx, domain.AuditActionSessionRemoveLine, session, domain.JSON{"line_ids": lineIDs})

	return session, nil
}

func (uc *SessionUseCase) reloadLines(ctx context.Context, session *domain.AllocationSession) error {
	scope, err := uc.scopes.resolve(ctx, session)
	if err != nil {
		return err
	}

	lines, err := uc.loader.Load(ctx, LoadInput{
		PartyID:    session.PartyID,
		CompanyID:  session.CompanyID,
		Role:       scope.party.Role,
		Conversion: scope.conversion,
	})
	if err != nil {
		return err
	}

	session.Lines = lines
	return nil
}

func (uc *SessionUseCase) save(ctx context.Context, session *domain.AllocationSession) error {
	session.UpdatedAt = time.Now().UTC()
	return uc.sessions.Save(ctx, session, uc.sessionTTL)
}

// audit records a session change. Failures are logged, not returned.
func (uc *SessionUseCase) audit(ctx context.Context, action domain.AuditAction, session *domain.AllocationSession, before domain.JSON) {
	if uc.auditRepo == nil {
		return
	}

	log := domain.NewAuditLog(ctx, uc.idGen.Generate(), action, domain.AuditResourceSession, session.ID, time.Now().UTC())
	log.BeforeState = before
	log.AfterState = domain.JSON{
		"lines":        len(session.Lines),
		"total_to_pay": session.TotalToPay().String(),
	}
	if err := uc.auditRepo.Create(ctx, log); err != nil {
		uc.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to write audit log")
		return
	}

	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(log.Action, log.Status).Inc()
	}
}
