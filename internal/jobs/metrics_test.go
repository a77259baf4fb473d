package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	require.NoError(t, m.Track("audit_retention").End(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track("audit_retention").End(boom), boom)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("audit_retention", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("audit_retention", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("audit_retention")))
}

func TestAddPruned(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.AddPruned("audit_logs", 12)
	m.AddPruned("audit_logs", 0)
	assert.Equal(t, 12.0, testutil.ToFloat64(m.pruned.WithLabelValues("audit_logs")))
}

func TestNilMetricsTrackerPassesErrorThrough(t *testing.T) {
	var m *Metrics
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track("x").End(boom), boom)
	m.AddPruned("audit_logs", 3)
}
