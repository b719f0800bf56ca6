package integration

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gosettle/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gosettle/internal/adapter/repository/redis"
	"github.com/iho/gosettle/internal/usecase"
	"github.com/iho/gosettle/tests/testutil"
)

type stack struct {
	db         *testutil.TestDB
	outbox     *postgres.OutboxRepository
	sessions   *usecase.SessionUseCase
	allocation *usecase.AllocationUseCase
	ledger     *usecase.LedgerUseCase
}

func newStack(t *testing.T, db *testutil.TestDB) *stack {
	t.Helper()

	pool := db.Pool
	client := testutil.NewTestRedis(t)
	logger := zerolog.Nop()

	ledgerStore := postgres.NewLedgerStore(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	sessionStore := redisRepo.NewSessionStore(client)
	converter := usecase.NewConverter(redisRepo.NewRateCache(postgres.NewRateSource(pool), client, time.Minute, 0, logger), nil)
	idGen := postgres.NewULIDGenerator()

	parties := postgres.NewPartyRepository(pool)
	companies := postgres.NewCompanyRepository(pool)
	journals := postgres.NewJournalRepository(pool)
	currencies := postgres.NewCurrencyRepository(pool)

	return &stack{
		db:     db,
		outbox: outboxRepo,
		sessions: usecase.NewSessionUseCase(usecase.SessionDeps{
			Sessions:   sessionStore,
			Ledger:     ledgerStore,
			Converter:  converter,
			Parties:    parties,
			Companies:  companies,
			Journals:   journals,
			Currencies: currencies,
			Audit:      auditRepo,
			IDGen:      idGen,
			Logger:     logger,
		}),
		allocation: usecase.NewAllocationUseCase(usecase.AllocationDeps{
			TxManager:   postgres.NewTxManager(pool),
			Retrier:     postgres.NewRetrier(logger),
			Locker:      redisRepo.NewPartyLocker(client, 10*time.Second, 5*time.Second),
			Sessions:    sessionStore,
			Ledger:      ledgerStore,
			Converter:   converter,
			Parties:     parties,
			Companies:   companies,
			Journals:    journals,
			Currencies:  currencies,
			Settlements: postgres.NewSettlementRepository(pool),
			Payments:    postgres.NewPaymentRepository(),
			Outbox:      outboxRepo,
			Audit:       auditRepo,
			IDGen:       idGen,
			Logger:      logger,
		}),
		ledger: usecase.NewLedgerUseCase(postgres.NewLedgerRepository(pool), 0),
	}
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func loadInput(s testutil.Scope) usecase.LoadSessionInput {
	return usecase.LoadSessionInput{
		PartyID:            s.PartyID,
		CompanyID:          s.CompanyID,
		JournalID:          s.JournalID,
		SettlementCurrency: "USD",
		AsOf:               day(10),
	}
}
