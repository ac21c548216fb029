// Package metric provides injectable Prometheus instrumentation for the
// rewrite pipeline. Components receive a *Recorder by reference; a nil
// Recorder disables recording, so tests and library callers don't need
// a registry.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the pipeline counters.
type Recorder struct {
	tierFallbacks     *prometheus.CounterVec
	parseFailures     prometheus.Counter
	rankFallbacks     prometheus.Counter
	groundingFailures prometheus.Counter
	requestDuration   *prometheus.HistogramVec
}

// NewRecorder creates a Recorder registered against reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		tierFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vibeshift_generation_tier_fallbacks_total",
			Help: "Generation tier attempts that failed and cascaded to the next tier.",
		}, []string{"tier"}),
		parseFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "vibeshift_response_parse_failures_total",
			Help: "Provider responses that could not be parsed as structured JSON.",
		}),
		rankFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "vibeshift_ranking_fallbacks_total",
			Help: "Ranking calls that fell back to the heuristic scorer.",
		}),
		groundingFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "vibeshift_grounding_failures_total",
			Help: "Grounding retrievals that failed and degraded to no grounding.",
		}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vibeshift_http_request_duration_seconds",
			Help:    "HTTP request latency by handler.",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler"}),
	}
}

// TierFallback records a failed generation tier attempt.
func (r *Recorder) TierFallback(tier string) {
	if r == nil {
		return
	}
	r.tierFallbacks.WithLabelValues(tier).Inc()
}

// ParseFailure records an unparsable provider response.
func (r *Recorder) ParseFailure() {
	if r == nil {
		return
	}
	r.parseFailures.Inc()
}

// RankFallback records a fall back to the heuristic scorer.
func (r *Recorder) RankFallback() {
	if r == nil {
		return
	}
	r.rankFallbacks.Inc()
}

// GroundingFailure records a swallowed grounding retrieval error.
func (r *Recorder) GroundingFailure() {
	if r == nil {
		return
	}
	r.groundingFailures.Inc()
}

// ObserveRequest records HTTP request latency for a handler.
func (r *Recorder) ObserveRequest(handler string, seconds float64) {
	if r == nil {
		return
	}
	r.requestDuration.WithLabelValues(handler).Observe(seconds)
}
