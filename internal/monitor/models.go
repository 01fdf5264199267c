// Package monitor implements the health-monitoring engine: the per-endpoint
// health records, the prober that performs liveness checks, the pure state
// machine that classifies probe outcomes, and the background loop that
// schedules probes.
package monitor

import (
	"errors"
	"strings"
	"time"
)

// ErrEndpointNotFound is returned when an endpoint is not registered.
var ErrEndpointNotFound = errors.New("endpoint not found")

// ErrInvalidEndpoint is returned when an endpoint identity is empty or malformed.
var ErrInvalidEndpoint = errors.New("invalid endpoint")

// HealthState describes the health classification of a monitored endpoint.
type HealthState string

// Health states. An endpoint starts in StateInitializing and moves between
// the remaining states as probe outcomes are applied.
const (
	StateInitializing    HealthState = "initializing"
	StateHealthy         HealthState = "healthy"
	StateDegraded        HealthState = "degraded"
	StateUnhealthy       HealthState = "unhealthy"
	StateTimeout         HealthState = "timeout"
	StateConnectionError HealthState = "connection_error"
	StateError           HealthState = "error"
)

// IsFailure reports whether s is one of the at-threshold failure states.
func (s HealthState) IsFailure() bool {
	switch s {
	case StateUnhealthy, StateTimeout, StateConnectionError, StateError:
		return true
	}
	return false
}

// Default check configuration values.
const (
	DefaultExpectedStatus   = 200
	DefaultTimeout          = 10 * time.Second
	DefaultPollInterval     = 30 * time.Second
	DefaultFailureThreshold = 3
)

// CheckConfig holds the per-endpoint monitoring configuration.
// It is immutable after registration; re-registering an endpoint replaces it.
type CheckConfig struct {
	ExpectedStatus   int
	Timeout          time.Duration
	PollInterval     time.Duration
	FailureThreshold int
}

// WithDefaults returns a copy of c with zero fields replaced by defaults.
func (c CheckConfig) WithDefaults() CheckConfig {
	if c.ExpectedStatus == 0 {
		c.ExpectedStatus = DefaultExpectedStatus
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = DefaultFailureThreshold
	}
	return c
}

// Endpoint is the health record for one monitored endpoint, keyed by its
// normalized URL. State and counters are mutated only by applying probe
// outcomes through the state machine.
type Endpoint struct {
	URL    string
	Config CheckConfig
	State  HealthState

	// ConsecutiveFailures counts failing probes since the last success.
	ConsecutiveFailures int

	// SuccessCount and FailureCount are lifetime totals used for uptime.
	// They only grow; a full system reset is the sole exception.
	SuccessCount uint64
	FailureCount uint64

	LastProbeAt        *time.Time
	LastResponseTimeMS *float64
	LastError          string

	CreatedAt time.Time
}

// UptimePercent returns the lifetime uptime percentage. ok is false when no
// probe has completed yet, in which case uptime is undefined.
func (e Endpoint) UptimePercent() (float64, bool) {
	total := e.SuccessCount + e.FailureCount
	if total == 0 {
		return 0, false
	}
	return float64(e.SuccessCount) / float64(total) * 100, true
}

// NormalizeURL canonicalizes an endpoint identity. Scheme-less identities are
// prefixed with https://. An empty identity is rejected.
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEndpoint
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}
	return trimmed, nil
}
