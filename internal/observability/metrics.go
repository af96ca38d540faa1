package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assist_request_duration_seconds",
			Help:    "Request duration in seconds by endpoint",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"endpoint", "status"},
	)

	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assist_requests_total",
			Help: "Total number of requests by endpoint",
		},
		[]string{"endpoint", "status"},
	)

	SnapshotRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_snapshot_refreshes_total",
			Help: "Snapshot refresh attempts by outcome",
		},
		[]string{"outcome"},
	)

	SnapshotProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_products",
			Help: "Number of products in the current snapshot",
		},
	)

	SnapshotAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_age_seconds",
			Help: "Age of the current snapshot at last read",
		},
	)

	UpstreamPageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_upstream_page_duration_seconds",
			Help:    "Upstream catalog page fetch duration",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"status"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_hits_total",
			Help: "Response cache hits by kind",
		},
		[]string{"kind"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_misses_total",
			Help: "Response cache misses by kind",
		},
		[]string{"kind"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	ChatIntents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_intents_total",
			Help: "Chat messages classified by intent",
		},
		[]string{"intent", "sentiment"},
	)

	InteractionEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_events_total",
			Help: "Interaction analytics events published by outcome",
		},
		[]string{"type", "status"},
	)

	CatalogChangeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_change_events_total",
			Help: "Catalog change events consumed by outcome",
		},
		[]string{"status"},
	)
)
