// Package healthcheck provides a small named-check registry used by the
// readiness endpoint.
package healthcheck

import (
	"context"
	"sync"
	"time"
)

// CheckFunc probes one dependency. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// Result holds the outcome of one check
type Result struct {
	Status   string        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ms"`
}

// Registry holds named dependency checks
type Registry struct {
	mu      sync.RWMutex
	checks  map[string]CheckFunc
	timeout time.Duration
}

// NewRegistry creates a registry with a per-check timeout
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Registry{
		checks:  make(map[string]CheckFunc),
		timeout: timeout,
	}
}

// Register adds a named check, replacing any existing check with that name
func (r *Registry) Register(name string, check CheckFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[name] = check
}

// Run executes all checks concurrently and reports per-check results plus
// an overall healthy flag.
func (r *Registry) Run(ctx context.Context) (map[string]Result, bool) {
	r.mu.RLock()
	checks := make(map[string]CheckFunc, len(r.checks))
	for name, check := range r.checks {
		checks[name] = check
	}
	r.mu.RUnlock()

	results := make(map[string]Result, len(checks))
	var mu sync.Mutex
	var wg sync.WaitGroup
	healthy := true

	for name, check := range checks {
		wg.Add(1)
		go func(name string, check CheckFunc) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			start := time.Now()
			err := check(checkCtx)
			result := Result{
				Status:   "healthy",
				Duration: time.Since(start) / time.Millisecond,
			}
			if err != nil {
				result.Status = "unhealthy"
				result.Error = err.Error()
			}

			mu.Lock()
			results[name] = result
			if err != nil {
				healthy = false
			}
			mu.Unlock()
		}(name, check)
	}

	wg.Wait()
	return results, healthy
}
