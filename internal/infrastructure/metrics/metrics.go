package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Session metrics
	SessionsLoaded prometheus.Counter
	SessionLines   prometheus.Histogram
	LineEdits      *prometheus.CounterVec

	// Allocation metrics
	AllocationsCompleted *prometheus.CounterVec
	AllocationDuration   prometheus.Histogram
	AllocationErrors     *prometheus.CounterVec
	LockContention       prometheus.Counter

	// Settlement metrics
	SettlementsCreated prometheus.Counter
	SettlementAmount   prometheus.Histogram

	// Payment metrics
	PaymentsCreated  *prometheus.CounterVec
	PaymentsDeferred prometheus.Counter
	PaymentAmount    prometheus.Histogram

	// Rate metrics
	RateLookups *prometheus.CounterVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates the settlement metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Session metrics
		SessionsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_sessions_loaded_total",
			Help: "Total number of allocation sessions loaded",
		}),
		SessionLines: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gosettle_session_lines",
			Help:    "Number of open items loaded per session",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		}),
		LineEdits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_line_edits_total",
				Help: "Total allocation line edits by outcome",
			},
			[]string{"outcome"},
		),

		// Allocation metrics
		AllocationsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_allocations_completed_total",
				Help: "Total allocation runs completed by mode",
			},
			[]string{"mode"},
		),
		AllocationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gosettle_allocation_duration_seconds",
			Help:    "Duration of allocation runs",
			Buckets: prometheus.DefBuckets,
		}),
		AllocationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_allocation_errors_total",
				Help: "Total number of allocation errors by type",
			},
			[]string{"error_type"},
		),
		LockContention: factory.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_party_lock_contention_total",
			Help: "Total allocation attempts rejected because the party was locked",
		}),

		// Settlement metrics
		SettlementsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_settlements_created_total",
			Help: "Total number of partial settlements created",
		}),
		SettlementAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gosettle_settlement_amount",
			Help:    "Partial settlement amounts in functional currency",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Payment metrics
		PaymentsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_payments_created_total",
				Help: "Total number of payment instructions created by mode",
			},
			[]string{"mode"},
		),
		PaymentsDeferred: factory.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_payments_deferred_total",
			Help: "Total payment instructions resolved through the deferred lookup",
		}),
		PaymentAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gosettle_payment_amount",
			Help:    "Payment instruction amounts in settlement currency",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Rate metrics
		RateLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_rate_lookups_total",
				Help: "Total exchange rate lookups by source and result",
			},
			[]string{"source", "result"},
		),

		// Outbox metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_events_published_total",
				Help: "Total outbox events published by type and result",
			},
			[]string{"event_type", "result"},
		),

		// Audit metrics
		AuditLogsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
