//START OF FILE triggerhappy/internal/services/cluster/health.go
package cluster

import (
	"sort"
	"sync"
)

// CheckFunc returns an error when the checked dependency is unhealthy.
type CheckFunc func() error

// HealthAggregator runs a named set of checks for the /health endpoint.
type HealthAggregator struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
}

func NewHealthAggregator() *HealthAggregator {
	return &HealthAggregator{
		checks: make(map[string]CheckFunc),
	}
}

func (h *HealthAggregator) AddCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

func (h *HealthAggregator) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes every check and returns the failures keyed by check name.
// An empty map means healthy.
func (h *HealthAggregator) Run() map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	failures := make(map[string]string)
	for name, check := range h.checks {
		if err := check(); err != nil {
			failures[name] = err.Error()
		}
	}
	return failures
}

//END OF FILE triggerhappy/internal/services/cluster/health.go
