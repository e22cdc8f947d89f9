package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveRun(t *testing.T) {
	c := NewCollector("wordgraph")

	c.ObserveRun(StatusOK, 5*time.Millisecond)
	c.ObserveRun(StatusOK, 2*time.Millisecond)
	c.ObserveRun(StatusError, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Runs.WithLabelValues(StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Runs.WithLabelValues(StatusError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Runs.WithLabelValues(StatusStale)))
}

func TestCollector_ObserveSnapshot(t *testing.T) {
	c := NewCollector("wordgraph")
	c.ObserveSnapshot(10, 7, 3)

	assert.Equal(t, 10.0, testutil.ToFloat64(c.Nodes))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.Links))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.Clusters))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a := NewCollector("wordgraph")
	b := NewCollector("wordgraph")
	a.ObserveRun(StatusOK, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Runs.WithLabelValues(StatusOK)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Runs.WithLabelValues(StatusOK)))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector("wordgraph")
	c.ObserveRun(StatusOK, time.Millisecond)
	c.ObserveSnapshot(3, 2, 3)

	path := filepath.Join(t.TempDir(), "wordgraph.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `wordgraph_pipeline_runs_total{status="ok"} 1`)
	assert.Contains(t, text, "wordgraph_snapshot_nodes 3")
	assert.Contains(t, text, "wordgraph_pipeline_run_duration_seconds_count 1")
}
