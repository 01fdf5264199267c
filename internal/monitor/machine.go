package monitor

import (
	"fmt"
	"time"
)

// Effects lists the side effects the caller must execute after applying a
// probe outcome. RaiseAlert and TriggerFailover are set together when the
// failure threshold is reached, and again on every further failing probe
// while the endpoint stays at or above the threshold (at-least-once
// alerting, deliberately not deduplicated).
type Effects struct {
	RaiseAlert      bool
	TriggerFailover bool
}

// Apply is the state transition function for a single probe outcome. It is
// pure: ep is taken and returned by value, now and the outcome's response
// time are inputs, and no clock, network, or store is touched. Callers
// persist the returned record and execute the returned effects.
//
// Transition rules:
//   - Success resets ConsecutiveFailures, sets StateHealthy, and increments
//     the lifetime success counter.
//   - Any failing outcome increments ConsecutiveFailures and the lifetime
//     failure counter. Below the failure threshold the endpoint is
//     StateDegraded; at or above it, the state is the outcome's terminal
//     failure state and alert plus failover effects are returned.
func Apply(ep Endpoint, out Outcome, now time.Time) (Endpoint, Effects) {
	probedAt := now
	ep.LastProbeAt = &probedAt

	if !out.Failed() {
		ep.State = StateHealthy
		ep.ConsecutiveFailures = 0
		ep.SuccessCount++
		responseTime := out.ResponseTimeMS
		ep.LastResponseTimeMS = &responseTime
		ep.LastError = ""
		return ep, Effects{}
	}

	ep.ConsecutiveFailures++
	ep.FailureCount++

	switch out.Kind {
	case OutcomeUnexpectedStatus:
		// The endpoint responded, so the measured time is still meaningful.
		responseTime := out.ResponseTimeMS
		ep.LastResponseTimeMS = &responseTime
		ep.LastError = fmt.Sprintf("HTTP %d", out.StatusCode)
	case OutcomeTimeout:
		ep.LastError = "Request timeout"
	case OutcomeConnectionFailed:
		ep.LastError = "Connection failed"
	default:
		if out.Err != "" {
			ep.LastError = out.Err
		} else {
			ep.LastError = "Unknown error"
		}
	}

	if ep.ConsecutiveFailures >= ep.Config.FailureThreshold {
		ep.State = terminalState(out.Kind)
		return ep, Effects{RaiseAlert: true, TriggerFailover: true}
	}

	ep.State = StateDegraded
	return ep, Effects{}
}

// terminalState maps a failing outcome kind onto the at-threshold state.
func terminalState(kind OutcomeKind) HealthState {
	switch kind {
	case OutcomeUnexpectedStatus:
		return StateUnhealthy
	case OutcomeTimeout:
		return StateTimeout
	case OutcomeConnectionFailed:
		return StateConnectionError
	default:
		return StateError
	}
}
