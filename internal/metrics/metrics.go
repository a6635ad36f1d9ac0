// Package metrics exposes the engine's Prometheus instrumentation.
// Collectors register themselves via promauto at package init and are
// served on /metrics by the standard promhttp handler.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// itemsIngested counts receipt items by upsert outcome.
	itemsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_items_ingested_total",
		Help: "Total number of receipt items processed by outcome",
	}, []string{"action"}) // action: created, updated, skipped, failed

	// matchDecisions counts match classifications by type.
	matchDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_match_decisions_total",
		Help: "Total number of match decisions by match type",
	}, []string{"type"}) // type: exact, fuzzy, semantic, none

	// matchConfidence tracks the distribution of match confidence scores.
	matchConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_match_confidence",
		Help:    "Confidence score distribution for matched items",
		Buckets: []float64{0.5, 0.6, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1},
	})

	// batchSize tracks the distribution of receipt batch sizes.
	batchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_receipt_items_count",
		Help:    "Number of items per ingested receipt",
		Buckets: []float64{1, 5, 10, 20, 50, 100},
	})

	// batchDuration tracks how long one receipt batch takes to apply.
	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_batch_duration_seconds",
		Help:    "Time taken to apply one receipt batch",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})

	// searchDuration tracks cross-store search latency.
	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_search_duration_seconds",
		Help:    "Cross-store search latency by kind",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"kind"}) // kind: compare, products

	// planDuration tracks shopping list planning latency.
	planDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_plan_duration_seconds",
		Help:    "Shopping list planning latency by mode",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"mode"}) // mode: single, split

	// planCoverage tracks how much of each list the best plan covered.
	planCoverage = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_plan_coverage_ratio",
		Help:    "Fraction of list items the winning plan covered",
		Buckets: []float64{0.25, 0.5, 0.8, 0.9, 0.95, 1},
	})
)

// RecordItem counts one upsert outcome.
func RecordItem(action string) {
	itemsIngested.WithLabelValues(action).Inc()
}

// RecordMatch counts one match decision and its confidence.
func RecordMatch(matchType string, confidence float64) {
	matchDecisions.WithLabelValues(matchType).Inc()
	if matchType != "none" {
		matchConfidence.Observe(confidence)
	}
}

// RecordBatch tracks one receipt batch's size and duration.
func RecordBatch(items int, elapsed time.Duration) {
	batchSize.Observe(float64(items))
	batchDuration.Observe(elapsed.Seconds())
}

// RecordSearch tracks one search's latency.
func RecordSearch(kind string, elapsed time.Duration) {
	searchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// RecordPlan tracks one shopping list plan's latency and coverage.
func RecordPlan(mode string, coverage float64, elapsed time.Duration) {
	planDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	planCoverage.Observe(coverage)
}
