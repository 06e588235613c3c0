package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveLoad(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveLoad("ok")
	m.ObserveLoad("ok")
	m.ObserveLoad("ModelImageMalformed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.loadsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loadsTotal.WithLabelValues("ModelImageMalformed")))
}

func TestObserveInference(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveInference("suggest_selection", "model", 2*time.Millisecond)
	m.ObserveInference("suggest_selection", "echo", time.Millisecond)
	m.ObserveInference("classify_text", "regex", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.inferenceTotal.WithLabelValues("suggest_selection", "model")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inferenceTotal.WithLabelValues("suggest_selection", "echo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inferenceTotal.WithLabelValues("classify_text", "regex")))

	count, err := testutil.GatherAndCount(reg, "textselect_inference_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count) // one series per operation
}

func TestObserveCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveCache(true)
	m.ObserveCache(true)
	m.ObserveCache(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheHitsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMissTotal))
}

func TestHistogramsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveCandidates(7)
	m.ObserveAnnotations(3)

	for _, name := range []string{"textselect_chunk_candidates", "textselect_annotation_spans"} {
		count, err := testutil.GatherAndCount(reg, name)
		require.NoError(t, err)
		assert.Equal(t, 1, count, name)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveLoad("ok")
	m.ObserveInference("suggest_selection", "model", time.Millisecond)
	m.ObserveCandidates(1)
	m.ObserveAnnotations(1)
	m.ObserveCache(true)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
