package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/trafficwarden/trafficwarden/internal/alert"
	"github.com/trafficwarden/trafficwarden/internal/controller"
	"github.com/trafficwarden/trafficwarden/internal/monitor"
	"github.com/trafficwarden/trafficwarden/internal/traffic"
)

// Engine is the controller surface the bridge drives, declared here so
// tests can substitute a fake.
type Engine interface {
	RegisterEndpoint(rawURL string, cfg monitor.CheckConfig) (controller.Registration, error)
	AddTrafficRule(source, target string, weight int, condition string) traffic.Rule
	AddAutoScaleRule(metric string, threshold float64, action string, cooldown time.Duration) (traffic.AutoScaleRule, error)
	GetStatus(target string) controller.StatusReport
	GetRecommendations() []string
	GetAlerts(limit int) []alert.Alert
	ClearAll() controller.ClearResult
}

var _ Engine = (*controller.Engine)(nil)

// HelpText lists the recognized command shapes.
const HelpText = `Available commands:
  check health of <url> every <n> seconds
  route <source> to <target> with <n>% traffic
  scale up when cpu above <n>%
  status of <target>
  show status (system-wide summary)
  show recommendations
  show alerts
  clear (remove every endpoint, rule, and alert)
  help`

// Execute runs a parsed command against the engine and renders the reply a
// person reads back. Multi-line replies join with newlines.
func Execute(eng Engine, cmd Command) (string, error) {
	switch cmd.Kind {
	case KindMonitor:
		reg, err := eng.RegisterEndpoint(cmd.Target, monitor.CheckConfig{PollInterval: cmd.Interval})
		if err != nil {
			return "", fmt.Errorf("configuring health check: %w", err)
		}
		return fmt.Sprintf("Health check configured for %s (interval %s)",
			reg.Endpoint, reg.Config.PollInterval), nil

	case KindRoute:
		rule := eng.AddTrafficRule(cmd.Source, cmd.Target, cmd.Weight, "")
		return fmt.Sprintf("Traffic routing configured: %d%% from %s to %s (rule %d)",
			rule.Weight, rule.SourcePattern, rule.Target, rule.ID), nil

	case KindScale:
		rule, err := eng.AddAutoScaleRule(cmd.Metric, cmd.Threshold, cmd.Action, 0)
		if err != nil {
			return "", fmt.Errorf("configuring auto-scaling: %w", err)
		}
		return fmt.Sprintf("Auto-scaling configured: %s when %s reaches %g%% (rule %d)",
			rule.Action, rule.Metric, rule.Threshold, rule.ID), nil

	case KindStatus:
		return renderStatus(eng.GetStatus(cmd.Target)), nil

	case KindRecommendations:
		return strings.Join(eng.GetRecommendations(), "\n"), nil

	case KindAlerts:
		return renderAlerts(eng.GetAlerts(0)), nil

	case KindHelp:
		return HelpText, nil

	case KindClear:
		res := eng.ClearAll()
		return fmt.Sprintf("All configurations cleared and system reset (%d endpoints, %d traffic rules, %d auto-scale rules, %d alerts removed)",
			res.EndpointsRemoved, res.TrafficRulesRemoved, res.AutoScaleRulesRemoved, res.AlertsRemoved), nil
	}

	return "", fmt.Errorf("unsupported command kind %q", cmd.Kind)
}

func renderStatus(report controller.StatusReport) string {
	if report.System != nil {
		return renderSystemStatus(report.System)
	}
	if !report.Found {
		return fmt.Sprintf("No endpoints found matching %q", report.Target)
	}

	lines := make([]string, 0, len(report.Matches)+1)
	lines = append(lines, fmt.Sprintf("%d endpoint(s) matching %q:", len(report.Matches), report.Target))
	for _, ep := range report.Matches {
		line := fmt.Sprintf("  %s: %s (uptime %s, %d consecutive failures)",
			ep.URL, ep.State, ep.Uptime, ep.ConsecutiveFailures)
		if ep.LastError != "" {
			line += ", last error: " + ep.LastError
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderSystemStatus(s *controller.SystemStatus) string {
	active := "inactive"
	if s.MonitoringActive {
		active = "active"
	}

	lines := []string{
		fmt.Sprintf("System %s: %d/%d endpoints healthy, monitoring %s",
			s.OverallStatus, s.HealthyEndpoints, s.TotalEndpoints, active),
		fmt.Sprintf("Traffic rules: %d, auto-scale rules: %d, alerts in the last hour: %d",
			s.TrafficRules, s.AutoScaleRules, s.RecentAlerts),
	}
	if s.AvgResponseTimeMS > 0 {
		lines = append(lines, fmt.Sprintf("Average response time: %.1fms", s.AvgResponseTimeMS))
	}
	for _, ep := range s.Endpoints {
		lines = append(lines, fmt.Sprintf("  %s: %s (uptime %s)", ep.URL, ep.State, ep.Uptime))
	}
	return strings.Join(lines, "\n")
}

func renderAlerts(alerts []alert.Alert) string {
	if len(alerts) == 0 {
		return "No alerts recorded."
	}

	lines := make([]string, 0, len(alerts)+1)
	lines = append(lines, fmt.Sprintf("%d recent alert(s):", len(alerts)))
	for _, a := range alerts {
		outcome := "failover failed"
		if a.FailoverSucceeded {
			outcome = "failover succeeded"
		}
		lines = append(lines, fmt.Sprintf("  #%d %s %s is %s after %d failures: %s (%s)",
			a.ID, a.Timestamp.Format(time.RFC3339), a.Endpoint, a.State,
			a.ConsecutiveFailures, a.LastError, outcome))
	}
	return strings.Join(lines, "\n")
}
