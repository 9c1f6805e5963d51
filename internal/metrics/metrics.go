// Package metrics provides Prometheus metrics for the card vault.
// Scrape these at /metrics for dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardvault_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardvault_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Vault Metrics
	CollectionCardsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardvault_cards_total",
			Help: "Total number of cards in the vault",
		},
	)

	CollectionValueUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardvault_collection_value_usd",
			Help: "Total estimated value of the vault in USD",
		},
	)

	VaultMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardvault_vault_mutations_total",
			Help: "Vault mutations by operation",
		},
		[]string{"op"}, // "added", "updated", "deleted", "imported", "cleared"
	)

	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardvault_imports_total",
			Help: "Vault imports by mode",
		},
		[]string{"mode"}, // "merge" or "replace"
	)

	// Scanner Metrics
	IdentifyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardvault_identify_requests_total",
			Help: "Identification requests by result",
		},
		[]string{"result"}, // "backend", "mock", "cached", "error"
	)

	IdentifyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cardvault_identify_duration_seconds",
			Help:    "Time taken to resolve an identification request",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// Market Metrics
	MarketRefreshesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardvault_market_refreshes_total",
			Help: "Total number of market snapshot regenerations",
		},
	)
)
