package router

import (
	"context"
	"sync"
)

// Config controls router behavior: the process-wide concurrency cap and
// the circuit breaker's trip/cool-off thresholds.
type Config struct {
	MaxConcurrent  int
	CircuitBreaker CircuitBreakerConfig
}

// DefaultConfig mirrors the spec's default concurrency of 5.
func DefaultConfig() Config {
	return Config{MaxConcurrent: 5, CircuitBreaker: DefaultCircuitBreakerConfig()}
}

// Router selects a primary model per item, builds its fallback chain,
// and gates in-flight extraction calls behind a process-wide bounded
// semaphore plus a per-model circuit breaker.
type Router struct {
	cfg     Config
	sem     *semaphore
	breaker *circuitBreaker

	mu        sync.RWMutex
	available map[ModelHandle]bool
}

// NewRouter builds a Router. available reflects, per handle, whether
// credentials are configured and the backend's last known health check
// passed; a handle absent from the map is treated as available.
func NewRouter(cfg Config, available map[ModelHandle]bool) *Router {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 5
	}
	copied := make(map[ModelHandle]bool, len(available))
	for h, ok := range available {
		copied[h] = ok
	}
	return &Router{
		cfg:       cfg,
		sem:       newSemaphore(cfg.MaxConcurrent),
		breaker:   newCircuitBreaker(cfg.CircuitBreaker),
		available: copied,
	}
}

// SetAvailability updates whether a handle's credentials/health allow it
// to be selected, e.g. after a health check or credential rotation.
func (r *Router) SetAvailability(handle ModelHandle, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.available[handle] = ok
}

func (r *Router) isAvailable(handle ModelHandle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ok, known := r.available[handle]
	return !known || ok
}

// FallbackChain returns the ordered chain of model handles to try for an
// item: its tier's preferred primary, then the remaining fixed handles in
// a stable order, filtered to those with credentials/health and whose
// circuit breaker currently allows an attempt.
func (r *Router) FallbackChain(itemNo int) []ModelHandle {
	tier := TierForItem(itemNo)
	primary := preferredPrimary(tier)

	ordered := make([]ModelHandle, 0, len(allHandles))
	ordered = append(ordered, primary)
	for _, h := range allHandles {
		if h != primary {
			ordered = append(ordered, h)
		}
	}

	chain := make([]ModelHandle, 0, len(ordered))
	for _, h := range ordered {
		if r.isAvailable(h) && r.breaker.allow(h) {
			chain = append(chain, h)
		}
	}
	return chain
}

// Acquire blocks until a concurrency slot is free or ctx is cancelled.
// Callers must call Release in a guaranteed-on-exit scope (defer).
func (r *Router) Acquire(ctx context.Context) error {
	return r.sem.acquire(ctx)
}

// Release returns a concurrency slot.
func (r *Router) Release() {
	r.sem.release()
}

// RecordSuccess clears a handle's failure streak.
func (r *Router) RecordSuccess(handle ModelHandle) {
	r.breaker.recordSuccess(handle)
}

// RecordFailure registers a failed attempt against a handle's breaker.
func (r *Router) RecordFailure(handle ModelHandle) {
	r.breaker.recordFailure(handle)
}
