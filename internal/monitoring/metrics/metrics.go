// Package metrics defines the engine's prometheus instrumentation.  A nil
// *Metrics is valid and records nothing, so the engine never branches on
// whether instrumentation is wired; library embedders that want metrics pass
// a registerer, everyone else passes nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Inference duration buckets.  On-device inference is sub-millisecond to
// tens of milliseconds; the tail buckets catch pathological inputs.
var durationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1}

// Metrics holds every engine metric.  All collectors are registered on the
// registerer passed to New.
type Metrics struct {
	loadsTotal      *prometheus.CounterVec
	inferenceTotal  *prometheus.CounterVec
	inferenceTime   *prometheus.HistogramVec
	candidateCount  prometheus.Histogram
	annotationCount prometheus.Histogram
	cacheHitsTotal  prometheus.Counter
	cacheMissTotal  prometheus.Counter
}

// New registers the engine metrics on reg and returns the handle.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		loadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "textselect",
			Name:      "model_loads_total",
			Help:      "Model container constructions by outcome (ok, <error_code>).",
		}, []string{"outcome"}),
		inferenceTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "textselect",
			Name:      "inference_total",
			Help:      "Inference calls by operation and result path.",
		}, []string{"operation", "path"}),
		inferenceTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "textselect",
			Name:      "inference_duration_seconds",
			Help:      "Inference wall time by operation.",
			Buckets:   durationBuckets,
		}, []string{"operation"}),
		candidateCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "textselect",
			Name:      "chunk_candidates",
			Help:      "Candidate spans produced per chunking call.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),
		annotationCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "textselect",
			Name:      "annotation_spans",
			Help:      "Annotated spans produced per Annotate call.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),
		cacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "textselect",
			Name:      "classification_cache_hits_total",
			Help:      "Classification LRU cache hits.",
		}),
		cacheMissTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "textselect",
			Name:      "classification_cache_misses_total",
			Help:      "Classification LRU cache misses.",
		}),
	}
	reg.MustRegister(
		m.loadsTotal, m.inferenceTotal, m.inferenceTime,
		m.candidateCount, m.annotationCount,
		m.cacheHitsTotal, m.cacheMissTotal,
	)
	return m
}

// ObserveLoad records a container construction outcome ("ok" or an error
// code name).
func (m *Metrics) ObserveLoad(outcome string) {
	if m == nil {
		return
	}
	m.loadsTotal.WithLabelValues(outcome).Inc()
}

// ObserveInference records one public operation: its name, the result path
// ("model", "hint", "regex", "cache", "echo", "empty"), and duration.
func (m *Metrics) ObserveInference(operation, path string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.inferenceTotal.WithLabelValues(operation, path).Inc()
	m.inferenceTime.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveCandidates records the candidate count of one chunking call.
func (m *Metrics) ObserveCandidates(n int) {
	if m == nil {
		return
	}
	m.candidateCount.Observe(float64(n))
}

// ObserveAnnotations records the span count of one Annotate call.
func (m *Metrics) ObserveAnnotations(n int) {
	if m == nil {
		return
	}
	m.annotationCount.Observe(float64(n))
}

// ObserveCache records a classification cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHitsTotal.Inc()
	} else {
		m.cacheMissTotal.Inc()
	}
}
