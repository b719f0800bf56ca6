package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

var (
	usd = domain.Currency{Code: "USD", Rounding: decimal.RequireFromString("0.01")}
	eur = domain.Currency{Code: "EUR", Rounding: decimal.RequireFromString("0.01")}
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

// invoice builds an open customer invoice entry in functional currency.
func invoice(id, amount string, d int) *domain.LedgerEntry {
	a := dec(amount)
	return &domain.LedgerEntry{
		ID:                 id,
		PartyID:            "party-1",
		CompanyID:          "co-1",
		DocumentID:         "doc-" + id,
		DocumentName:       "INV/" + id,
		DocumentType:       domain.DocumentTypeCustomerInvoice,
		DocumentDate:       day(d),
		Balance:            a,
		ResidualFunctional: a,
		ResidualOriginal:   a,
	}
}

// payment builds an open customer payment entry in functional currency.
func payment(id, amount string, d int) *domain.LedgerEntry {
	a := dec(amount)
	return &domain.LedgerEntry{
		ID:                 id,
		PartyID:            "party-1",
		CompanyID:          "co-1",
		DocumentID:         "doc-" + id,
		DocumentName:       "PAY/" + id,
		DocumentType:       domain.DocumentTypeEntry,
		DocumentDate:       day(d),
		Balance:            a.Neg(),
		ResidualFunctional: a,
		ResidualOriginal:   a,
		PaymentID:          "pay-" + id,
	}
}

// memLedger is an in-memory LedgerStore.
type memLedger struct {
	mu      sync.Mutex
	entries map[string]*domain.LedgerEntry
	order   []string
	readErr error
}

func newMemLedger(entries ...*domain.LedgerEntry) *memLedger {
	l := &memLedger{entries: make(map[string]*domain.LedgerEntry)}
	for _, e := range entries {
		l.entries[e.ID] = e
		l.order = append(l.order, e.ID)
	}
	return l
}

func (l *memLedger) FindOpenEntries(ctx context.Context, partyID, companyID string) ([]*domain.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []*domain.LedgerEntry
	for _, id := range l.order {
		e := l.entries[id]
		if e.PartyID == partyID && e.CompanyID == companyID && !e.ResidualFunctional.IsZero() {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (l *memLedger) GetOpenEntry(ctx context.Context, partyID, companyID, entryID string) (*domain.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[entryID]
	if !ok || e.PartyID != partyID || e.CompanyID != companyID || e.ResidualFunctional.IsZero() {
		return nil, domain.ErrEntryNotFound
	}
	c := *e
	return &c, nil
}

func (l *memLedger) ReadResidual(ctx context.Context, entryID string) (domain.Residual, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.readErr != nil {
		return domain.Residual{}, l.readErr
	}
	e, ok := l.entries[entryID]
	if !ok {
		return domain.Residual{}, domain.ErrEntryNotFound
	}
	return domain.Residual{Functional: e.ResidualFunctional, Original: e.ResidualOriginal}, nil
}

func (l *memLedger) ReadResidualForUpdate(ctx context.Context, tx usecase.Transaction, entryID string) (domain.Residual, error) {
	return l.ReadResidual(ctx, entryID)
}

func (l *memLedger) residual(entryID string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries[entryID].ResidualFunctional
}

func (l *memLedger) apply(entryID string, amount, currencyAmount decimal.Decimal, currency string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entries[entryID]
	e.ResidualFunctional = e.ResidualFunctional.Sub(amount)
	switch {
	case e.Currency == "":
		e.ResidualOriginal = e.ResidualOriginal.Sub(amount)
	case strings.EqualFold(e.Currency, currency):
		e.ResidualOriginal = e.ResidualOriginal.Sub(currencyAmount)
	}
}

// memSettlements records settlements and applies them to the ledger.
type memSettlements struct {
	ledger  *memLedger
	created []*domain.PartialSettlement
	err     error
}

func (s *memSettlements) CreatePartialSettlements(ctx context.Context, tx usecase.Transaction, settlements []*domain.PartialSettlement) error {
	if s.err != nil {
		return s.err
	}
	for _, ps := range settlements {
		s.ledger.apply(ps.DebitEntryID, ps.Amount, ps.DebitAmountCurrency, ps.Currency)
		s.ledger.apply(ps.CreditEntryID, ps.Amount, ps.CreditAmountCurrency, ps.Currency)
	}
	s.created = append(s.created, settlements...)
	return nil
}

func (s *memSettlements) ListByEntry(ctx context.Context, entryID string) ([]*domain.PartialSettlement, error) {
	var out []*domain.PartialSettlement
	for _, ps := range s.created {
		if ps.DebitEntryID == entryID || ps.CreditEntryID == entryID {
			out = append(out, ps)
		}
	}
	return out, nil
}

// memPayments records payment instructions.
type memPayments struct {
	created  []*domain.PaymentInstruction
	deferred bool
	latestID string
	err      error
}

func (p *memPayments) CreatePayment(ctx context.Context, tx usecase.Transaction, payment *domain.PaymentInstruction) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.created = append(p.created, payment)
	if p.deferred {
		return "", nil
	}
	return payment.ID, nil
}

func (p *memPayments) FindLatestPayment(ctx context.Context, tx usecase.Transaction, payment *domain.PaymentInstruction) (string, error) {
	return p.latestID, nil
}

// memSessions is an in-memory SessionStore.
type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*domain.AllocationSession
	deleted  []string
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]*domain.AllocationSession)}
}

func (s *memSessions) Save(ctx context.Context, session *domain.AllocationSession, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *memSessions) Get(ctx context.Context, id string) (*domain.AllocationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *memSessions) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	s.deleted = append(s.deleted, id)
	return nil
}

// stubLocker hands out tokens unless told the party is locked.
type stubLocker struct {
	locked   bool
	unlocked int
}

func (l *stubLocker) Lock(ctx context.Context, partyID string) (string, error) {
	if l.locked {
		return "", domain.ErrPartyLocked
	}
	return "token-" + partyID, nil
}

func (l *stubLocker) Unlock(ctx context.Context, partyID, token string) error {
	l.unlocked++
	return nil
}

// onceRetrier runs the operation a single time.
type onceRetrier struct{}

func (onceRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// stubTx counts commits and rollbacks.
type stubTx struct {
	commits   int
	rollbacks int
}

func (t *stubTx) Commit(ctx context.Context) error {
	t.commits++
	return nil
}

func (t *stubTx) Rollback(ctx context.Context) error {
	t.rollbacks++
	return nil
}

type stubTxManager struct {
	tx *stubTx
}

func (m *stubTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	return m.tx, nil
}

// memOutbox collects outbox events.
type memOutbox struct {
	events []*domain.OutboxEvent
}

func (o *memOutbox) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	o.events = append(o.events, event)
	return nil
}

func (o *memOutbox) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	return o.events, nil
}

func (o *memOutbox) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	return nil
}

func (o *memOutbox) DeletePublished(ctx context.Context, before time.Time) error {
	return nil
}

func (o *memOutbox) count(eventType string) int {
	n := 0
	for _, e := range o.events {
		if e.EventType == eventType {
			n++
		}
	}
	return n
}

// memAudit collects audit logs.
type memAudit struct {
	logs []*domain.AuditLog
}

func (a *memAudit) Create(ctx context.Context, log *domain.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func (a *memAudit) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func (a *memAudit) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	return a.logs, nil
}

// directory serves parties, companies, journals and currencies.
type directory struct {
	parties    map[string]*domain.Party
	companies  map[string]*domain.Company
	journals   map[string]*domain.Journal
	currencies map[string]domain.Currency
}

func newDirectory() *directory {
	return &directory{
		parties: map[string]*domain.Party{
			"party-1": {ID: "party-1", Name: "Acme", Role: domain.PartyRoleCustomer},
		},
		companies: map[string]*domain.Company{
			"co-1": {ID: "co-1", Name: "Main", Currency: usd},
		},
		journals: map[string]*domain.Journal{
			"bank": {
				ID:        "bank",
				CompanyID: "co-1",
				Methods: []domain.PaymentMethod{
					{ID: "manual-in", Direction: domain.PaymentDirectionInbound},
					{ID: "manual-out", Direction: domain.PaymentDirectionOutbound},
				},
			},
			"empty": {ID: "empty", CompanyID: "co-1"},
		},
		currencies: map[string]domain.Currency{"USD": usd, "EUR": eur},
	}
}

type partyLookup struct{ d *directory }

func (p partyLookup) GetByID(ctx context.Context, id string) (*domain.Party, error) {
	if party, ok := p.d.parties[id]; ok {
		return party, nil
	}
	return nil, domain.ErrPartyNotFound
}

type companyLookup struct{ d *directory }

func (c companyLookup) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	if company, ok := c.d.companies[id]; ok {
		return company, nil
	}
	return nil, domain.ErrCompanyNotFound
}

type journalLookup struct{ d *directory }

func (j journalLookup) GetByID(ctx context.Context, id string) (*domain.Journal, error) {
	if journal, ok := j.d.journals[id]; ok {
		return journal, nil
	}
	return nil, domain.ErrJournalNotFound
}

type currencyLookup struct{ d *directory }

func (c currencyLookup) GetByCode(ctx context.Context, code string) (domain.Currency, error) {
	if cur, ok := c.d.currencies[strings.ToUpper(code)]; ok {
		return cur, nil
	}
	return domain.Currency{}, domain.ErrCurrencyNotFound
}

func (c currencyLookup) List(ctx context.Context) ([]domain.Currency, error) {
	out := make([]domain.Currency, 0, len(c.d.currencies))
	for _, cur := range c.d.currencies {
		out = append(out, cur)
	}
	return out, nil
}

// seqIDs generates predictable IDs.
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%03d", g.n)
}

// mapRates is a RateSource backed by a map of currency to rate.
type mapRates map[string]decimal.Decimal

func (m mapRates) Rate(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error) {
	if r, ok := m[currency]; ok {
		return r, nil
	}
	return decimal.Zero, domain.ErrRateUnavailable
}
