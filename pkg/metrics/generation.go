package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GenerationMetrics records outcomes of text and image generation calls.
type GenerationMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewGenerationMetrics registers the generation metrics on the provided registerer.
func NewGenerationMetrics(reg prometheus.Registerer) *GenerationMetrics {
	if reg == nil {
		return &GenerationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "generation_duration_seconds",
		Help:    "Duration of generation calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind", "provider"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_success",
		Help: "Successful generation calls.",
	}, []string{"kind", "provider"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_failure",
		Help: "Failed generation calls.",
	}, []string{"kind", "provider"})
	reg.MustRegister(duration, success, failure)
	return &GenerationMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration of one call for the kind/provider pair.
func (g *GenerationMetrics) ObserveDuration(kind, provider string, duration time.Duration) {
	if g == nil || g.duration == nil {
		return
	}
	g.duration.WithLabelValues(normalizeLabel(kind), normalizeLabel(provider)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the kind/provider pair.
func (g *GenerationMetrics) IncSuccess(kind, provider string) {
	if g == nil || g.success == nil {
		return
	}
	g.success.WithLabelValues(normalizeLabel(kind), normalizeLabel(provider)).Inc()
}

// IncFailure increments the failure counter for the kind/provider pair.
func (g *GenerationMetrics) IncFailure(kind, provider string) {
	if g == nil || g.failure == nil {
		return
	}
	g.failure.WithLabelValues(normalizeLabel(kind), normalizeLabel(provider)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
