// Package metrics wires armon/go-metrics to an in-memory sink that the HTTP
// API exposes as JSON.
package metrics

import (
	"net/http"
	"time"

	gometrics "github.com/armon/go-metrics"
)

// Registry satisfies gameroom.Metrics.
type Registry struct {
	*gometrics.Metrics
	sink *gometrics.InmemSink
}

// New keeps one minute of ten second intervals.
func New(serviceName string) (*Registry, error) {
	sink := gometrics.NewInmemSink(10*time.Second, time.Minute)

	cfg := gometrics.DefaultConfig(serviceName)
	cfg.EnableHostname = false
	cfg.EnableRuntimeMetrics = false

	m, err := gometrics.New(cfg, sink)
	if err != nil {
		return nil, err
	}
	return &Registry{Metrics: m, sink: sink}, nil
}

// Snapshot returns the aggregated metrics of the current intervals.
func (r *Registry) Snapshot(w http.ResponseWriter, req *http.Request) (interface{}, error) {
	return r.sink.DisplayMetrics(w, req)
}
