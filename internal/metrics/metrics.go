// Package metrics provides the centralized Prometheus metrics registry for
// the pace-bias pipelines.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RacesProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pace_bias",
		Name:      "races_processed_total",
		Help:      "Total number of races replayed by the backtest",
	})
	CardsAugmentedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pace_bias",
		Name:      "cards_augmented_total",
		Help:      "Total number of race cards augmented with pace scores",
	})
	HistoryLookupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pace_bias",
		Name:      "history_lookups_total",
		Help:      "Total number of passage history lookups",
	})
)

// Gauge metrics
var (
	BucketsExported = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pace_bias",
		Name:      "buckets_exported",
		Help:      "Number of buckets written in the latest backtest report",
	}, []string{"report"})
	LastRunTimestamp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pace_bias",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last successful pipeline run",
	}, []string{"pipeline"})
)

// Histogram metrics
var (
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pace_bias",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(RacesProcessedTotal)
		registry.MustRegister(CardsAugmentedTotal)
		registry.MustRegister(HistoryLookupsTotal)

		// Register gauge metrics
		registry.MustRegister(BucketsExported)
		registry.MustRegister(LastRunTimestamp)

		// Register histogram metrics
		registry.MustRegister(BacktestDuration)

		// Register pipeline metrics
		registry.MustRegister(PipelineRunsTotal)
		registry.MustRegister(RecommendationsTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRaceProcessed records a replayed race.
func RecordRaceProcessed() {
	RacesProcessedTotal.Inc()
}

// RecordCardAugmented records an augmented race card.
func RecordCardAugmented() {
	CardsAugmentedTotal.Inc()
}

// RecordHistoryLookup records a passage history lookup.
func RecordHistoryLookup() {
	HistoryLookupsTotal.Inc()
}

// UpdateBucketsExported updates the bucket count for a report.
func UpdateBucketsExported(report string, count float64) {
	BucketsExported.WithLabelValues(report).Set(count)
}

// UpdateLastRunTimestamp updates the last-success gauge for a pipeline.
func UpdateLastRunTimestamp(pipeline string, unixSeconds float64) {
	LastRunTimestamp.WithLabelValues(pipeline).Set(unixSeconds)
}

// RecordBacktestDuration records backtest duration.
func RecordBacktestDuration(durationSeconds float64) {
	BacktestDuration.Observe(durationSeconds)
}
