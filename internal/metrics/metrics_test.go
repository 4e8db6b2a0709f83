package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	m := New()

	m.RowsLoaded.Add(4)
	m.ValidationFailures.WithLabelValues("duplicate_data").Inc()
	m.ObservePersist(BackendColumnar, time.Now())
	m.ObserveQuery(BackendRelational, "top_returns", time.Now())

	assert.Equal(t, 4.0, testutil.ToFloat64(m.RowsLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("duplicate_data")))

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["barstore_persist_duration_seconds"])
	assert.True(t, names["barstore_query_duration_seconds"])
}

func TestNilMetrics_NoPanic(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObservePersist(BackendRelational, time.Now())
		m.ObserveQuery(BackendColumnar, "rolling_mean", time.Now())
	})
}
