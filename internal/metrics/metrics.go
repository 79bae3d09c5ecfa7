package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rule layer metrics
var (
	// RuleVerdicts counts rule-layer verdicts by rule name
	RuleVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_rule_verdicts_total",
			Help: "Total verdicts produced by the rule layer by rule",
		},
		[]string{"rule"},
	)

	// AspectOverrides counts aspect overrides applied by rule name
	AspectOverrides = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_aspect_overrides_total",
			Help: "Total aspect-specific score overrides applied by rule",
		},
		[]string{"rule"},
	)

	// AspectsExtracted counts aspect records by strategy and category.
	// Free-text aspects share the "uncategorized" category.
	AspectsExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_aspects_extracted_total",
			Help: "Total aspect records extracted by strategy and category",
		},
		[]string{"strategy", "aspect"},
	)
)

// Scorer metrics
var (
	// ScorerRequests tracks scorer calls by backend and status
	ScorerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_scorer_requests_total",
			Help: "Total scorer calls by backend and status",
		},
		[]string{"backend", "status"},
	)

	// ScorerDuration tracks scorer latency in seconds
	ScorerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reviewlens_scorer_duration_seconds",
			Help:    "Scorer call duration in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"backend"},
	)

	ScoreCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reviewlens_score_cache_hits_total",
			Help: "Total score cache hits",
		},
	)

	ScoreCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reviewlens_score_cache_misses_total",
			Help: "Total score cache misses",
		},
	)
)

// Pipeline metrics
var (
	// BatchItems counts analyzed reviews by status (ok/error)
	BatchItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_batch_items_total",
			Help: "Total analyzed reviews by status",
		},
		[]string{"status"},
	)

	// ResultsStored counts analyses written to a sink by backend and status
	ResultsStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_results_stored_total",
			Help: "Total analyses written to the result store by backend and status",
		},
		[]string{"backend", "status"},
	)

	// DependencyHealthy is 1 when the named dependency passed its last health check
	DependencyHealthy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reviewlens_dependency_healthy",
			Help: "Dependency health from the last probe (1=healthy, 0=unhealthy)",
		},
		[]string{"dependency"},
	)
)
