package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gosettle/internal/domain"
)

// LedgerStore defines read access to open receivable and payable entries.
type LedgerStore interface {
	FindOpenEntries(ctx context.Context, partyID, companyID string) ([]*domain.LedgerEntry, error)
	GetOpenEntry(ctx context.Context, partyID, companyID, entryID string) (*domain.LedgerEntry, error)
	ReadResidual(ctx context.Context, entryID string) (domain.Residual, error)
	ReadResidualForUpdate(ctx context.Context, tx Transaction, entryID string) (domain.Residual, error)
}

// RateSource provides market rates: units of currency per functional unit, as of date.
type RateSource interface {
	Rate(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error)
}

// CurrencyRepository defines data access for currencies.
type CurrencyRepository interface {
	GetByCode(ctx context.Context, code string) (domain.Currency, error)
	List(ctx context.Context) ([]domain.Currency, error)
}

// PartyRepository defines data access for counterparties.
type PartyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Party, error)
}

// CompanyRepository defines data access for companies.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Company, error)
}

// JournalRepository defines data access for payment journals.
type JournalRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Journal, error)
}

// SettlementRepository persists partial settlements and applies them to entry residuals.
// All settlements of a call are written or none are.
type SettlementRepository interface {
	CreatePartialSettlements(ctx context.Context, tx Transaction, settlements []*domain.PartialSettlement) error
	ListByEntry(ctx context.Context, entryID string) ([]*domain.PartialSettlement, error)
}

// PaymentRepository creates payment instructions.
type PaymentRepository interface {
	// CreatePayment returns the new instruction ID, or "" when creation was deferred.
	CreatePayment(ctx context.Context, tx Transaction, payment *domain.PaymentInstruction) (string, error)
	// FindLatestPayment returns the newest instruction for the same party, journal, date and amount.
	FindLatestPayment(ctx context.Context, tx Transaction, payment *domain.PaymentInstruction) (string, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	// CheckConsistency counts offending entries and returns up to sampleLimit of them.
	CheckConsistency(ctx context.Context, sampleLimit int) (*domain.ConsistencyReport, error)
}

// SessionStore keeps allocation sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, session *domain.AllocationSession, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.AllocationSession, error)
	Delete(ctx context.Context, id string) error
}

// PartyLocker serialises allocation runs for the same party.
type PartyLocker interface {
	Lock(ctx context.Context, partyID string) (token string, err error)
	Unlock(ctx context.Context, partyID, token string) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient database failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// Reserve claims key. exists reports a prior request; response is nil while it is still running.
	Reserve(ctx context.Context, key string, ttl time.Duration) (exists bool, response []byte, err error)
	// Complete stores the final response for key.
	Complete(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a reservation so the request can be retried.
	Release(ctx context.Context, key string) error
}
