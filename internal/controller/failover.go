package controller

import (
	"github.com/google/uuid"

	"github.com/trafficwarden/trafficwarden/internal/monitor"
	"github.com/trafficwarden/trafficwarden/internal/provider"
)

// failoverLocked redirects traffic away from a failed endpoint. The target
// is the first currently-healthy endpoint other than the failed one, in
// sorted identity order; with no healthy candidate the failover is reported
// as unsuccessful and nothing is emitted. The traffic intent itself is
// fire-and-forget. Caller holds e.mu.
func (e *Engine) failoverLocked(failed monitor.Endpoint) bool {
	var target string
	for _, ep := range e.store.List() {
		if ep.URL != failed.URL && ep.State == monitor.StateHealthy {
			target = ep.URL
			break
		}
	}

	if target == "" {
		e.logger.Error().
			Str("endpoint", failed.URL).
			Msg("no healthy endpoint available for failover")
		return false
	}

	e.logger.Info().
		Str("from", failed.URL).
		Str("to", target).
		Msg("failing over traffic to healthy endpoint")

	e.emitTrafficIntent(provider.TrafficIntent{
		IntentID: uuid.New().String(),
		IssuedAt: e.clock.Now().UTC(),
		Source:   failed.URL,
		Target:   target,
		Weight:   100,
		Reason:   provider.ReasonFailover,
	})
	return true
}
