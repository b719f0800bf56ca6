package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
)

// AllocationUseCase applies a session's credits to its debits and issues payments
// for what remains, as one atomic unit per party.
type AllocationUseCase struct {
	txManager   TransactionManager
	retrier     Retrier
	locker      PartyLocker
	sessions    SessionStore
	scopes      *scopeResolver
	engine      *MatchingEngine
	finalizer   *Finalizer
	settlements SettlementRepository
	payments    PaymentRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// AllocationDeps groups the collaborators of AllocationUseCase.
type AllocationDeps struct {
	TxManager   TransactionManager
	Retrier     Retrier
	Locker      PartyLocker
	Sessions    SessionStore
	Ledger      LedgerStore
	Converter   *Converter
	Parties     PartyRepository
	Companies   CompanyRepository
	Journals    JournalRepository
	Currencies  CurrencyRepository
	Settlements SettlementRepository
	Payments    PaymentRepository
	Outbox      OutboxRepository
	Audit       AuditRepository
	IDGen       IDGenerator
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
}

// NewAllocationUseCase creates a new AllocationUseCase.
func NewAllocationUseCase(deps AllocationDeps) *AllocationUseCase {
	return &AllocationUseCase{
		txManager: deps.TxManager,
		retrier:   deps.Retrier,
		locker:    deps.Locker,
		sessions:  deps.Sessions,
		scopes: &scopeResolver{
			parties:    deps.Parties,
			companies:  deps.Companies,
			journals:   deps.Journals,
			currencies: deps.Currencies,
		},
		engine:      NewMatchingEngine(deps.Ledger, deps.Converter),
		finalizer:   NewFinalizer(deps.Ledger, deps.Converter),
		settlements: deps.Settlements,
		payments:    deps.Payments,
		outboxRepo:  deps.Outbox,
		auditRepo:   deps.Audit,
		idGen:       deps.IDGen,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
	}
}

// Allocate runs the allocation for a stored session and removes the session on success.
func (uc *AllocationUseCase) Allocate(ctx context.Context, sessionID string) (*domain.AllocationResult, error) {
	start := time.Now()

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := uc.AllocateSession(ctx, session)
	if err != nil {
		uc.recordError(err)
		uc.auditFailure(ctx, session, err)
		return nil, err
	}

	if err := uc.sessions.Delete(ctx, session.ID); err != nil {
		uc.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to delete allocated session")
	}

	if uc.metrics != nil {
		uc.metrics.AllocationsCompleted.WithLabelValues(string(session.Mode)).Inc()
		uc.metrics.AllocationDuration.Observe(time.Since(start).Seconds())
	}

	return result, nil
}

// AllocateSession runs the allocation for an in-memory session.
func (uc *AllocationUseCase) AllocateSession(ctx context.Context, session *domain.AllocationSession) (*domain.AllocationResult, error) {
	debits, credits := session.Split()
	if len(debits) == 0 {
		return nil, domain.ErrNoOpenItems
	}

	scope, err := uc.scopes.resolve(ctx, session)
	if err != nil {
		return nil, err
	}

	token, err := uc.locker.Lock(ctx, session.PartyID)
	if err != nil {
		if errors.Is(err, domain.ErrPartyLocked) && uc.metrics != nil {
			uc.metrics.LockContention.Inc()
		}
		return nil, err
	}
	defer func() {
		if err := uc.locker.Unlock(context.WithoutCancel(ctx), session.PartyID, token); err != nil {
			uc.logger.Warn().Err(err).Str("party_id", session.PartyID).Msg("failed to release party lock")
		}
	}()

	var result *domain.AllocationResult
	err = uc.retrier.Retry(ctx, func() error {
		var runErr error
		result, runErr = uc.run(ctx, session, scope, debits, credits)
		return runErr
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("session_id", session.ID).
		Str("party_id", session.PartyID).
		Int("settlements", len(result.Settlements)).
		Int("payments", len(result.Payments)).
		Str("leftover", leftoverTotal(result.Leftovers).String()).
		Msg("allocation completed")

	return result, nil
}

// run is one attempt of the allocation inside a single transaction.
func (uc *AllocationUseCase) run(
	ctx context.Context,
	session *domain.AllocationSession,
	scope *settlementScope,
	debits, credits []*domain.AllocationLine,
) (*domain.AllocationResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	result := &domain.AllocationResult{SessionID: session.ID}

	matched, err := uc.engine.Match(txCtx, MatchInput{
		Tx:          tx,
		DebitLines:  debits,
		CreditLines: credits,
		Context:     scope.match,
		Conversion:  scope.conversion,
	})
	if err != nil {
		return nil, err
	}
	result.Leftovers = matched.Leftovers

	if len(matched.Settlements) > 0 {
		if err := uc.persistSettlements(txCtx, tx, matched.Settlements, now); err != nil {
			return nil, err
		}
		result.Settlements = matched.Settlements
	}

	// Debits fully covered by credits need no payment.
	remaining := debits
	if len(result.Settlements) > 0 {
		remaining = nil
		for _, line := range debits {
			if left := matched.Leftovers[line.ID]; left.IsPositive() && !scope.settlement.IsZero(left) {
				remaining = append(remaining, line)
			}
		}
	}

	if len(remaining) > 0 || len(result.Settlements) == 0 {
		drafts, err := uc.finalizer.Finalize(txCtx, FinalizeInput{
			Tx:         tx,
			Lines:      remaining,
			Amounts:    matched.Leftovers,
			Mode:       session.Mode,
			Conversion: scope.conversion,
		})
		if err != nil {
			return nil, err
		}

		for _, draft := range drafts {
			if err := uc.createPayment(txCtx, tx, session, scope, draft, now); err != nil {
				return nil, err
			}
		}
		result.Payments = drafts
	}

	if err := uc.outboxRepo.Create(txCtx, tx, domain.NewAllocationCompletedEvent(uc.idGen.Generate(), session, result, now)); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		auditLog := domain.NewAuditLog(ctx, uc.idGen.Generate(), domain.AuditActionAllocate, domain.AuditResourceAllocation, session.ID, now)
		auditLog.BeforeState = domain.Snapshot(session)
		auditLog.AfterState = domain.Snapshot(result)
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementsCreated.Add(float64(len(result.Settlements)))
		for _, ps := range result.Settlements {
			uc.metrics.SettlementAmount.Observe(ps.Amount.InexactFloat64())
		}
		for _, p := range result.Payments {
			uc.metrics.PaymentsCreated.WithLabelValues(string(session.Mode)).Inc()
			uc.metrics.PaymentAmount.Observe(p.Amount.InexactFloat64())
		}
	}

	return result, nil
}

func (uc *AllocationUseCase) persistSettlements(ctx context.Context, tx Transaction, settlements []*domain.PartialSettlement, now time.Time) error {
	for _, ps := range settlements {
		ps.ID = uc.idGen.Generate()
		ps.CreatedAt = now
	}

	if err := uc.settlements.CreatePartialSettlements(ctx, tx, settlements); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSettlementCreationFailed, err)
	}

	for _, ps := range settlements {
		if err := uc.outboxRepo.Create(ctx, tx, domain.NewSettlementCreatedEvent(uc.idGen.Generate(), ps)); err != nil {
			return err
		}
	}

	return nil
}

// createPayment issues one instruction. An empty ID from the sink means creation
// was deferred and the instruction is looked up afterwards.
func (uc *AllocationUseCase) createPayment(
	ctx context.Context,
	tx Transaction,
	session *domain.AllocationSession,
	scope *settlementScope,
	payment *domain.PaymentInstruction,
	now time.Time,
) error {
	payment.PartyID = session.PartyID
	payment.CompanyID = session.CompanyID
	payment.JournalID = scope.journal.ID
	payment.PaymentMethodID = scope.method.ID
	payment.Direction = scope.method.Direction
	payment.Currency = scope.journal.PaymentCurrency(scope.settlement.Code)
	payment.Date = session.AsOf
	payment.Memo = session.Memo
	payment.CreatedAt = now
	payment.Reference = session.ID + ":" + payment.EntryIDs[0]
	if payment.ID == "" {
		payment.ID = uc.idGen.Generate()
	}

	id, err := uc.payments.CreatePayment(ctx, tx, payment)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSettlementCreationFailed, err)
	}
	if id == "" {
		id, err = uc.payments.FindLatestPayment(ctx, tx, payment)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrSettlementCreationFailed, err)
		}
		if id == "" {
			return fmt.Errorf("%w: no payment created for %s %s", domain.ErrSettlementCreationFailed, payment.Amount.StringFixed(2), payment.Currency)
		}
		if uc.metrics != nil {
			uc.metrics.PaymentsDeferred.Inc()
		}
	}
	payment.ID = id

	return uc.outboxRepo.Create(ctx, tx, domain.NewPaymentCreatedEvent(uc.idGen.Generate(), payment))
}

// auditFailure writes a failure row outside the rolled back transaction.
func (uc *AllocationUseCase) auditFailure(ctx context.Context, session *domain.AllocationSession, cause error) {
	if uc.auditRepo == nil {
		return
	}

	auditLog := domain.NewAuditLog(ctx, uc.idGen.Generate(), domain.AuditActionAllocate, domain.AuditResourceAllocation, session.ID, time.Now().UTC()).Fail(cause)
	auditLog.BeforeState = domain.Snapshot(session)
	if err := uc.auditRepo.Create(context.WithoutCancel(ctx), auditLog); err != nil {
		uc.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to write audit log")
	}
}

func (uc *AllocationUseCase) recordError(err error) {
	if uc.metrics == nil {
		return
	}
	code, _ := domain.Classify(err)
	uc.metrics.AllocationErrors.WithLabelValues(code).Inc()
}

// leftoverTotal sums the amounts still payable after matching.
func leftoverTotal(leftovers map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range leftovers {
		total = total.Add(v)
	}
	return total
}
