package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/gosettle/internal/adapter/http/handler"
	"github.com/iho/gosettle/internal/adapter/http/middleware"
	"github.com/iho/gosettle/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SessionHandler    *handler.SessionHandler
	AllocationHandler *handler.AllocationHandler
	LedgerHandler     *handler.LedgerHandler
	AuditHandler      *handler.AuditHandler
	HealthHandler     *handler.HealthHandler
	MetricsHandler    http.Handler
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	RateLimiter       *middleware.RateLimiter
	HTTPMetrics       *middleware.HTTPMetrics
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recovery)
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Actor)
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", cfg.SessionHandler.Load)
			r.Get("/{id}", cfg.SessionHandler.Get)
			r.Delete("/{id}", cfg.SessionHandler.Discard)
			r.Post("/{id}/reload", cfg.SessionHandler.Reload)
			r.Post("/{id}/lines", cfg.SessionHandler.AddEntry)
			r.Delete("/{id}/lines", cfg.SessionHandler.RemoveLines)
			r.Put("/{id}/lines/{lineID}", cfg.SessionHandler.EditLine)
			r.Post("/{id}/allocate", cfg.AllocationHandler.Allocate)
		})

		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
		r.Get("/audit-logs", cfg.AuditHandler.List)
	})

	return r
}
