// Package command interprets free-text operator input. Parse is a pure
// function from one line of text to a structured Command; Execute bridges
// parsed commands onto the engine and renders human-readable replies. The
// API command handler and the interactive console share both.
package command

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates parsed commands.
type Kind string

const (
	KindMonitor         Kind = "monitor"
	KindRoute           Kind = "route"
	KindScale           Kind = "scale"
	KindStatus          Kind = "status"
	KindRecommendations Kind = "recommendations"
	KindAlerts          Kind = "alerts"
	KindHelp            Kind = "help"
	KindClear           Kind = "clear"
)

// ErrUnknownCommand reports input that no pattern family recognized.
var ErrUnknownCommand = errors.New("unknown command")

// Defaults applied when the input omits a value.
const (
	DefaultMonitorInterval = 30 * time.Second
	DefaultRouteWeight     = 100
)

// Command is one parsed operator instruction. Kind selects which of the
// remaining fields carry meaning.
type Command struct {
	Kind Kind

	// Target names an endpoint for monitor commands, the destination for
	// route commands, and an optional identity filter for status commands
	// (empty means the system-wide summary).
	Target string

	// Interval is the poll interval for monitor commands.
	Interval time.Duration

	// Source and Weight complete route commands.
	Source string
	Weight int

	// Metric, Threshold, and Action complete scale commands. Action is
	// "scale_up" or "scale_down".
	Metric    string
	Threshold float64
	Action    string
}

// Pattern families, tried in priority order. Captures are lazy so literal
// separators ("to", "every", "when") bind before the free-text groups.
var (
	monitorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`check health of (.+?) every (\d+) (seconds?|minutes?)`),
		regexp.MustCompile(`monitor (.+?) health every (\d+)`),
		regexp.MustCompile(`health check (.+?) interval (\d+)`),
		regexp.MustCompile(`ping (.+?) every (\d+)`),
		regexp.MustCompile(`watch (.+?) health`),
		regexp.MustCompile(`monitor (.+)`),
	}

	routePatterns = []*regexp.Regexp{
		regexp.MustCompile(`route (.+?) to (.+?) with (\d+)% traffic`),
		regexp.MustCompile(`send (\d+)% of traffic from (.+?) to (.+)`),
		regexp.MustCompile(`redirect (.+?) to (.+?) at (\d+)%`),
		regexp.MustCompile(`balance (\d+)% traffic from (.+?) to (.+)`),
		regexp.MustCompile(`redirect (.+?) to (.+)`),
		regexp.MustCompile(`balance traffic between (.+?) and (.+)`),
		regexp.MustCompile(`failover (.+?) to (.+)`),
	}

	scalePatterns = []*regexp.Regexp{
		regexp.MustCompile(`scale up when cpu above (\d+)%`),
		regexp.MustCompile(`scale down when cpu below (\d+)%`),
		regexp.MustCompile(`auto scale (.+?) when (.+?) above (\d+)`),
		regexp.MustCompile(`increase capacity when (.+?) above (\d+)`),
		regexp.MustCompile(`decrease capacity when (.+?) below (\d+)`),
		regexp.MustCompile(`scale when (.+?) threshold (\d+)`),
	}

	statusPatterns = []*regexp.Regexp{
		regexp.MustCompile(`status of (.+)`),
		regexp.MustCompile(`show health of (.+)`),
		regexp.MustCompile(`check (.+?) status`),
		regexp.MustCompile(`how is (.+?) doing`),
		regexp.MustCompile(`health report for (.+)`),
		regexp.MustCompile(`show (.+?) metrics`),
	}

	systemStatusTerms = []string{
		"show status", "system status", "overall health", "dashboard", "summary",
	}
)

// Parse interprets one line of operator input. Matching is case-insensitive
// and runs the families in priority order: monitor, route, scale, targeted
// status, system status, recommendations, alerts, help, clear. Input that
// nothing recognizes yields ErrUnknownCommand wrapping the echoed text.
func Parse(input string) (Command, error) {
	text := strings.ToLower(strings.TrimSpace(input))

	if cmd, ok := parseMonitor(text); ok {
		return cmd, nil
	}
	if cmd, ok := parseRoute(text); ok {
		return cmd, nil
	}
	if cmd, ok := parseScale(text); ok {
		return cmd, nil
	}
	if cmd, ok := parseStatus(text); ok {
		return cmd, nil
	}

	switch {
	case strings.Contains(text, "recommend"), strings.Contains(text, "suggest"):
		return Command{Kind: KindRecommendations}, nil
	case strings.Contains(text, "alert"):
		return Command{Kind: KindAlerts}, nil
	case strings.Contains(text, "help"):
		return Command{Kind: KindHelp}, nil
	case strings.Contains(text, "clear"), strings.Contains(text, "reset"):
		return Command{Kind: KindClear}, nil
	}

	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, strings.TrimSpace(input))
}

func parseMonitor(text string) (Command, bool) {
	for _, re := range monitorPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		interval := DefaultMonitorInterval
		if len(m) > 2 {
			if n, err := strconv.Atoi(m[2]); err == nil {
				interval = time.Duration(n) * time.Second
				if len(m) > 3 && strings.Contains(m[3], "minute") {
					interval *= 60
				}
			}
		}
		return Command{
			Kind:     KindMonitor,
			Target:   strings.TrimSpace(m[1]),
			Interval: interval,
		}, true
	}
	return Command{}, false
}

func parseRoute(text string) (Command, bool) {
	for _, re := range routePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		groups := m[1:]
		var source, target string
		weight := DefaultRouteWeight
		switch {
		case len(groups) >= 3 && allDigits(groups[2]):
			// route X to Y with N% traffic
			source, target = groups[0], groups[1]
			weight, _ = strconv.Atoi(groups[2])
		case len(groups) >= 3 && allDigits(groups[0]):
			// send N% of traffic from X to Y
			weight, _ = strconv.Atoi(groups[0])
			source, target = groups[1], groups[2]
		default:
			source, target = groups[0], groups[1]
		}

		return Command{
			Kind:   KindRoute,
			Source: strings.TrimSpace(source),
			Target: strings.TrimSpace(target),
			Weight: weight,
		}, true
	}
	return Command{}, false
}

func parseScale(text string) (Command, bool) {
	for _, re := range scalePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		// The numeric threshold is always the final capture.
		threshold, _ := strconv.ParseFloat(m[len(m)-1], 64)

		action := "scale_down"
		if strings.Contains(text, "up") || strings.Contains(text, "increase") {
			action = "scale_up"
		}

		metric := "cpu"
		switch {
		case strings.Contains(text, "memory"):
			metric = "memory"
		case strings.Contains(text, "disk"):
			metric = "disk"
		case strings.Contains(text, "network"):
			metric = "network"
		}

		return Command{
			Kind:      KindScale,
			Metric:    metric,
			Threshold: threshold,
			Action:    action,
		}, true
	}
	return Command{}, false
}

func parseStatus(text string) (Command, bool) {
	for _, re := range statusPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return Command{Kind: KindStatus, Target: strings.TrimSpace(m[1])}, true
		}
	}
	for _, term := range systemStatusTerms {
		if strings.Contains(text, term) {
			return Command{Kind: KindStatus}, true
		}
	}
	return Command{}, false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
