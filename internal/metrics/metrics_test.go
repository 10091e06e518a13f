package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordRaceProcessed(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordRaceProcessed()
	})
}

func TestRecordCardAugmented(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordCardAugmented()
	})
}

func TestUpdateBucketsExported(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name   string
		report string
		count  float64
	}{
		{
			name:   "pairs report",
			report: "pairs",
			count:  1296,
		},
		{
			name:   "trifecta report",
			report: "trifecta",
			count:  96,
		},
		{
			name:   "empty report",
			report: "pairs",
			count:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateBucketsExported(tt.report, tt.count)
			})
		})
	}
}

func TestRecordBacktestDuration(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordBacktestDuration(12.5)
	})
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}

func TestPipelineMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordPipelineRun("pairs_backtest", "success")
	})

	assert.NotPanics(t, func() {
		RecordRecommendation("quinella")
	})

	assert.NotPanics(t, func() {
		UpdateLastRunTimestamp("nightly", 1756684800)
	})
}

func BenchmarkRecordRaceProcessed(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordRaceProcessed()
	}
}

func BenchmarkRecordPipelineRun(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordPipelineRun("pairs_backtest", "success")
	}
}
