package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/gosettle/internal/adapter/http"
	"github.com/iho/gosettle/internal/adapter/http/handler"
	"github.com/iho/gosettle/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/gosettle/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gosettle/internal/adapter/repository/redis"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/config"
	"github.com/iho/gosettle/internal/infrastructure/eventpublisher"
	"github.com/iho/gosettle/internal/infrastructure/logger"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
	"github.com/iho/gosettle/internal/infrastructure/postgres"
	"github.com/iho/gosettle/internal/infrastructure/redis"
	"github.com/iho/gosettle/internal/usecase"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply database migrations before serving")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logr := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "gosettle",
	})
	log.Logger = logr

	if err := run(cfg, logr, *migrate); err != nil {
		logr.Fatal().Err(err).Msg("server failed")
	}
}

func run(cfg *config.Config, logr zerolog.Logger, migrate bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if migrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logr); err != nil {
			return err
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	logr.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClientWithConfig(ctx, redis.ClientConfig{
		URL:          cfg.RedisURL,
		PoolSize:     cfg.RedisPoolSize,
		DialTimeout:  cfg.RedisDialTimeout,
		ReadTimeout:  cfg.RedisOpTimeout,
		WriteTimeout: cfg.RedisOpTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	logr.Info().Msg("connected to redis")

	m := metrics.New(prometheus.DefaultRegisterer)

	// Repositories
	txManager := postgresRepo.NewTxManager(pool,
		postgresRepo.WithIsolation(pgx.ReadCommitted),
		postgresRepo.WithLockTimeout(cfg.DatabaseLockTimeout),
	)
	ledgerStore := postgresRepo.NewLedgerStore(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	rates := redisRepo.NewRateCache(postgresRepo.NewRateSource(pool), redisClient, cfg.RateCacheTTL, cfg.RateCacheLocalSize, logr)
	sessions := redisRepo.NewSessionStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	parties := postgresRepo.NewPartyRepository(pool)
	companies := postgresRepo.NewCompanyRepository(pool)
	journals := postgresRepo.NewJournalRepository(pool)
	currencies := postgresRepo.NewCurrencyRepository(pool)

	converter := usecase.NewConverter(rates, m)

	// Use cases
	sessionUC := usecase.NewSessionUseCase(usecase.SessionDeps{
		Sessions:   sessions,
		Ledger:     ledgerStore,
		Converter:  converter,
		Parties:    parties,
		Companies:  companies,
		Journals:   journals,
		Currencies: currencies,
		Audit:      auditRepo,
		IDGen:      idGen,
		SessionTTL: cfg.SessionTTL,
		Defaults:   sessionDefaults(cfg),
		Metrics:    m,
		Logger:     logr,
	})
	allocationUC := usecase.NewAllocationUseCase(usecase.AllocationDeps{
		TxManager:   txManager,
		Retrier:     postgresRepo.NewRetrier(logr),
		Locker:      redisRepo.NewPartyLocker(redisClient, cfg.PartyLockTTL, cfg.PartyLockWait),
		Sessions:    sessions,
		Ledger:      ledgerStore,
		Converter:   converter,
		Parties:     parties,
		Companies:   companies,
		Journals:    journals,
		Currencies:  currencies,
		Settlements: postgresRepo.NewSettlementRepository(pool),
		Payments:    postgresRepo.NewPaymentRepository(),
		Outbox:      outboxRepo,
		Audit:       auditRepo,
		IDGen:       idGen,
		Metrics:     m,
		Logger:      logr,
	})
	ledgerUC := usecase.NewLedgerUseCase(postgresRepo.NewLedgerRepository(pool), cfg.ConsistencySamples)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		SessionHandler:    handler.NewSessionHandler(sessionUC),
		AllocationHandler: handler.NewAllocationHandler(allocationUC),
		LedgerHandler:     handler.NewLedgerHandler(ledgerUC),
		AuditHandler:      handler.NewAuditHandler(auditRepo),
		HealthHandler:     handler.NewHealthHandler(pool, handler.PingFunc(redis.Ping(redisClient))),
		MetricsHandler:    promhttp.Handler(),
		IdempotencyStore:  redisRepo.NewIdempotencyStore(redisClient),
		IdempotencyTTL:    cfg.IdempotencyTTL,
		RateLimiter:       rateLimiter,
		HTTPMetrics:       middleware.NewHTTPMetrics(prometheus.DefaultRegisterer),
		Logger:            logr,
	})

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventSink(cfg, redisClient, logr),
		Metrics:    m,
		Logger:     logr,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})
	go func() {
		if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logr.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	go sweepLimiters(ctx, rateLimiter, time.Minute, 10*time.Minute)

	server := newHTTPServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		logr.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logr.Info().Msg("server stopped")
	return nil
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

func sessionDefaults(cfg *config.Config) usecase.SessionDefaults {
	return usecase.SessionDefaults{
		Mode:     domain.AllocationMode(cfg.DefaultAllocationMode),
		RateMode: domain.RateMode(cfg.DefaultRateMode),
	}
}

func eventSink(cfg *config.Config, client goredis.UniversalClient, logr zerolog.Logger) eventpublisher.Publisher {
	if cfg.EventSink == "log" {
		return eventpublisher.NewLogPublisher(logr)
	}
	return eventpublisher.NewStreamPublisher(client, cfg.EventStream, cfg.EventStreamMaxLen)
}

func sweepLimiters(ctx context.Context, rl *middleware.RateLimiter, every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.CleanupLimiters(maxIdle); n > 0 {
				log.Debug().Int("removed", n).Msg("rate limiters swept")
			}
		}
	}
}
