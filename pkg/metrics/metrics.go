// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CatalogCacheLookups counts cache reads per operation, result is hit or miss.
	CatalogCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "Catalog cache lookups by operation and result",
		},
		[]string{"operation", "result"},
	)

	// CatalogUpstreamRequests counts upstream calls, outcome is ok, status or error.
	CatalogUpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_upstream_requests_total",
			Help: "Upstream catalog requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	CatalogUpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_upstream_duration_seconds",
			Help:    "Upstream catalog request latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	CatalogReconcileFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reconcile_failures_total",
			Help: "Catalog records that could not be persisted after a fetch",
		},
		[]string{"operation"},
	)

	// CacheBackendErrors counts backend faults swallowed by the fail-open store.
	CacheBackendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_backend_errors_total",
			Help: "Cache backend failures treated as misses or skipped writes",
		},
		[]string{"op"},
	)
)
