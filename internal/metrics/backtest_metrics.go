// Package metrics defines pipeline-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline counter vectors
var (
	PipelineRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pace_bias",
		Name:      "pipeline_runs_total",
		Help:      "Total number of pipeline runs by pipeline and status",
	}, []string{"pipeline", "status"})

	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pace_bias",
		Name:      "recommendations_total",
		Help:      "Total number of recommendations emitted by market",
	}, []string{"market"})
)

// RecordPipelineRun records a pipeline run event.
// pipeline should be one of: "pairs_backtest", "trifecta_backtest",
// "style_backtest", "augment_cards", "recommend"
// status should be one of: "success", "failure"
func RecordPipelineRun(pipeline, status string) {
	PipelineRunsTotal.WithLabelValues(pipeline, status).Inc()
}

// RecordRecommendation records an emitted recommendation for a market.
func RecordRecommendation(market string) {
	RecommendationsTotal.WithLabelValues(market).Inc()
}
