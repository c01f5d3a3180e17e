package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gometrics "github.com/armon/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySnapshot(t *testing.T) {
	r, err := New("triggerhappy")
	require.NoError(t, err)

	r.IncrCounter([]string{"round", "resolved"}, 1)
	r.IncrCounter([]string{"round", "resolved"}, 1)
	r.SetGauge([]string{"rooms", "live"}, 3)
	r.MeasureSince([]string{"round", "duration"}, time.Now().Add(-time.Second))

	rec := httptest.NewRecorder()
	out, err := r.Snapshot(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)

	summary, ok := out.(gometrics.MetricsSummary)
	require.True(t, ok)

	var counted bool
	for _, c := range summary.Counters {
		if c.Name == "triggerhappy.round.resolved" {
			counted = true
			assert.Equal(t, 2, c.Count)
		}
	}
	assert.True(t, counted)

	var gauged bool
	for _, g := range summary.Gauges {
		if g.Name == "triggerhappy.rooms.live" {
			gauged = true
			assert.EqualValues(t, 3, g.Value)
		}
	}
	assert.True(t, gauged)
}
