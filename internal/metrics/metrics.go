package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jewelry_studio",
			Subsystem: "api",
			Name:      "generations_total",
			Help:      "Generation pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	TokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jewelry_studio",
			Subsystem: "api",
			Name:      "model_tokens_total",
			Help:      "Tokens reported by the generative model",
		},
		[]string{"direction"},
	)

	ReferenceResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jewelry_studio",
			Subsystem: "api",
			Name:      "reference_resolutions_total",
			Help:      "Reference page resolutions by outcome",
		},
		[]string{"outcome"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jewelry_studio",
			Subsystem: "api",
			Name:      "generation_duration_seconds",
			Help:      "Wall time of a generation pipeline run",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)
)

// RecordGeneration records a finished pipeline run.
func RecordGeneration(outcome string, durationSec float64) {
	GenerationsTotal.WithLabelValues(outcome).Inc()
	GenerationDuration.Observe(durationSec)
}

// RecordTokens adds the usage telemetry of one model call.
func RecordTokens(input, output int32) {
	if input > 0 {
		TokensTotal.WithLabelValues("input").Add(float64(input))
	}
	if output > 0 {
		TokensTotal.WithLabelValues("output").Add(float64(output))
	}
}

// RecordReference records the outcome of a reference resolution.
func RecordReference(outcome string) {
	ReferenceResolutionsTotal.WithLabelValues(outcome).Inc()
}
