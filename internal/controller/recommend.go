package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/trafficwarden/trafficwarden/internal/monitor"
)

// slowResponseThresholdMS marks a healthy endpoint as slow for advisory
// purposes.
const slowResponseThresholdMS = 2000

// GetRecommendations derives ordered advisory strings from the current
// state. The result is deterministic: the same state always yields the same
// list, and a fully healthy, fully configured system yields the single
// "running optimally" line.
func (e *Engine) GetRecommendations() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	endpoints := e.store.List()
	var recommendations []string

	var unhealthy []string
	for _, ep := range endpoints {
		if ep.State != monitor.StateHealthy && ep.State != monitor.StateInitializing {
			unhealthy = append(unhealthy, ep.URL)
		}
	}
	if len(unhealthy) > 0 {
		shown := unhealthy
		if len(shown) > 2 {
			shown = shown[:2]
		}
		recommendations = append(recommendations, fmt.Sprintf(
			"%d endpoints are unhealthy. Check: %s", len(unhealthy), strings.Join(shown, ", ")))
	}

	if recent := e.alerts.CountSince(e.clock.Now().Add(-time.Hour)); recent > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"%d alerts in the last hour. Check system health.", recent))
	}

	if len(endpoints) < 2 {
		recommendations = append(recommendations,
			"Add more endpoints for redundancy and high availability.")
	}

	if e.traffic.RuleCount() == 0 && len(endpoints) > 1 {
		recommendations = append(recommendations,
			"Configure traffic routing rules for better load distribution.")
	}

	if e.traffic.AutoScaleRuleCount() == 0 {
		recommendations = append(recommendations,
			"Set up auto-scaling to handle traffic spikes automatically.")
	}

	slow := 0
	for _, ep := range endpoints {
		if ep.State == monitor.StateHealthy && ep.LastResponseTimeMS != nil &&
			*ep.LastResponseTimeMS > slowResponseThresholdMS {
			slow++
		}
	}
	if slow > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"%d endpoints have slow response times (>2s).", slow))
	}

	if !e.monitoringActiveLocked() && len(endpoints) > 0 {
		recommendations = append(recommendations,
			"Health monitoring is not active. Check system configuration.")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations,
			"Your traffic management system is running optimally.")
	}
	return recommendations
}
