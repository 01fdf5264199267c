package provider

import (
	"sort"
	"sync"
	"time"
)

// AdapterHealth is a point-in-time view of one adapter's delivery record,
// surfaced on the ops API.
type AdapterHealth struct {
	Name string

	// CircuitState is the adapter's circuit breaker state, empty for
	// adapters without one.
	CircuitState string

	Deliveries    uint64
	Failures      uint64
	LastSuccessAt *time.Time
	LastFailureAt *time.Time
	LastError     string
}

// Registry tracks intent-delivery health per adapter. It is constructed
// explicitly and handed to the adapters that report into it; there is no
// process-wide instance.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]*registeredAdapter
}

type registeredAdapter struct {
	circuitState  func() string
	deliveries    uint64
	failures      uint64
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]*registeredAdapter)}
}

// Register adds an adapter. circuitState may be nil for adapters without a
// circuit breaker. All Registry methods are safe on a nil receiver so
// adapters can run unregistered.
func (r *Registry) Register(name string, circuitState func() string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.adapters[name] = &registeredAdapter{circuitState: circuitState}
}

// RecordSuccess records a successful delivery for an adapter.
func (r *Registry) RecordSuccess(name string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.adapters[name]; ok {
		now := time.Now()
		a.deliveries++
		a.lastSuccessAt = &now
	}
}

// RecordFailure records a failed delivery for an adapter.
func (r *Registry) RecordFailure(name string, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.adapters[name]; ok {
		now := time.Now()
		a.deliveries++
		a.failures++
		a.lastFailureAt = &now
		if err != nil {
			a.lastError = err.Error()
		}
	}
}

// Health returns the delivery record of every registered adapter, sorted by
// name.
func (r *Registry) Health() []AdapterHealth {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]AdapterHealth, 0, len(r.adapters))
	for name, a := range r.adapters {
		h := AdapterHealth{
			Name:          name,
			Deliveries:    a.deliveries,
			Failures:      a.failures,
			LastSuccessAt: a.lastSuccessAt,
			LastFailureAt: a.lastFailureAt,
			LastError:     a.lastError,
		}
		if a.circuitState != nil {
			h.CircuitState = a.circuitState()
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
