package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	EntriesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_entries_created_total",
			Help: "Total number of ledger entries created",
		},
	)

	PaymentsAppliedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_payments_applied_total",
			Help: "Total number of payments applied to entries",
		},
	)

	PaymentsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_payments_rejected_total",
			Help: "Payments rejected before persistence",
		},
		[]string{"reason"},
	)
)
