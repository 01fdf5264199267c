package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/trafficwarden/trafficwarden/internal/monitor"
)

// StatusReport is the result of GetStatus. An empty target produces the
// system summary in System; a non-empty target produces the matching
// endpoints in Matches, with Found false when nothing matched.
type StatusReport struct {
	GeneratedAt time.Time
	Target      string
	Found       bool
	System      *SystemStatus
	Matches     []EndpointDetail
}

// SystemStatus is the overall system summary.
type SystemStatus struct {
	// OverallStatus is healthy only when at least one endpoint is
	// registered and every one of them is healthy; otherwise degraded.
	OverallStatus monitor.HealthState

	TotalEndpoints     int
	HealthyEndpoints   int
	UnhealthyEndpoints int
	MonitoringActive   bool

	// AvgResponseTimeMS is the mean over currently-healthy endpoints with a
	// recorded response time, 0 when none qualify.
	AvgResponseTimeMS float64

	TrafficRules   int
	AutoScaleRules int

	// RecentAlerts counts alerts raised within the last hour.
	RecentAlerts int

	Metrics   MetricsSnapshot
	Endpoints []EndpointSummary
}

// EndpointSummary is the per-endpoint line in the system summary.
type EndpointSummary struct {
	URL            string
	State          monitor.HealthState
	Uptime         string
	ResponseTimeMS *float64
}

// EndpointDetail is the full per-endpoint view returned for target queries.
type EndpointDetail struct {
	URL                 string
	State               monitor.HealthState
	Uptime              string
	ConsecutiveFailures int
	SuccessCount        uint64
	FailureCount        uint64
	LastProbeAt         *time.Time
	LastResponseTimeMS  *float64
	LastError           string
}

// GetStatus reports system or per-endpoint status. An empty target yields
// the system summary; otherwise the target is matched case-insensitively as
// a substring of endpoint identities.
func (e *Engine) GetStatus(target string) StatusReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if target == "" {
		return StatusReport{GeneratedAt: now, System: e.systemStatusLocked(now)}
	}

	var matches []EndpointDetail
	needle := strings.ToLower(target)
	for _, ep := range e.store.List() {
		if !strings.Contains(strings.ToLower(ep.URL), needle) {
			continue
		}
		matches = append(matches, endpointDetail(ep))
	}

	return StatusReport{
		GeneratedAt: now,
		Target:      target,
		Found:       len(matches) > 0,
		Matches:     matches,
	}
}

func (e *Engine) systemStatusLocked(now time.Time) *SystemStatus {
	endpoints := e.store.List()

	healthy := 0
	var responseSum float64
	var responseCount int
	summaries := make([]EndpointSummary, 0, len(endpoints))

	for _, ep := range endpoints {
		if ep.State == monitor.StateHealthy {
			healthy++
			if ep.LastResponseTimeMS != nil {
				responseSum += *ep.LastResponseTimeMS
				responseCount++
			}
		}
		summaries = append(summaries, EndpointSummary{
			URL:            ep.URL,
			State:          ep.State,
			Uptime:         formatUptime(ep),
			ResponseTimeMS: ep.LastResponseTimeMS,
		})
	}

	// Zero endpoints report degraded by convention.
	overall := monitor.StateDegraded
	if len(endpoints) > 0 && healthy == len(endpoints) {
		overall = monitor.StateHealthy
	}

	var avg float64
	if responseCount > 0 {
		avg = responseSum / float64(responseCount)
	}

	return &SystemStatus{
		OverallStatus:      overall,
		TotalEndpoints:     len(endpoints),
		HealthyEndpoints:   healthy,
		UnhealthyEndpoints: len(endpoints) - healthy,
		MonitoringActive:   e.monitoringActiveLocked(),
		AvgResponseTimeMS:  avg,
		TrafficRules:       e.traffic.RuleCount(),
		AutoScaleRules:     e.traffic.AutoScaleRuleCount(),
		RecentAlerts:       e.alerts.CountSince(now.Add(-time.Hour)),
		Metrics:            e.metrics,
		Endpoints:          summaries,
	}
}

func endpointDetail(ep monitor.Endpoint) EndpointDetail {
	return EndpointDetail{
		URL:                 ep.URL,
		State:               ep.State,
		Uptime:              formatUptime(ep),
		ConsecutiveFailures: ep.ConsecutiveFailures,
		SuccessCount:        ep.SuccessCount,
		FailureCount:        ep.FailureCount,
		LastProbeAt:         ep.LastProbeAt,
		LastResponseTimeMS:  ep.LastResponseTimeMS,
		LastError:           ep.LastError,
	}
}

// formatUptime renders lifetime uptime as "NN.N%", or "N/A" before any probe
// has completed.
func formatUptime(ep monitor.Endpoint) string {
	pct, ok := ep.UptimePercent()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", pct)
}
