// Package traffic maintains the routing-rule and auto-scale-rule tables.
// Both tables are append-only: rules are never mutated or removed except by
// a full system reset, and rule identity is the 1-based insertion index.
package traffic

import (
	"errors"
	"time"
)

// ErrUnknownMetric is returned for an auto-scale metric outside the known set.
var ErrUnknownMetric = errors.New("unknown auto-scale metric")

// ErrUnknownAction is returned for an auto-scale action outside the known set.
var ErrUnknownAction = errors.New("unknown auto-scale action")

// Metric is a resource metric an auto-scale rule watches.
type Metric string

// Auto-scale metrics.
const (
	MetricCPU     Metric = "cpu"
	MetricMemory  Metric = "memory"
	MetricDisk    Metric = "disk"
	MetricNetwork Metric = "network"
)

// ParseMetric validates and canonicalizes a metric name.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricCPU, MetricMemory, MetricDisk, MetricNetwork:
		return Metric(s), nil
	}
	return "", ErrUnknownMetric
}

// Action is what an auto-scale rule does when its threshold is crossed.
type Action string

// Auto-scale actions.
const (
	ActionScaleUp   Action = "scale_up"
	ActionScaleDown Action = "scale_down"
)

// ParseAction validates and canonicalizes an action name.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionScaleUp, ActionScaleDown:
		return Action(s), nil
	}
	return "", ErrUnknownAction
}

// DefaultWeight is the traffic share applied when a routing rule does not
// specify one.
const DefaultWeight = 100

// DefaultCooldown is recorded on auto-scale rules that do not specify one.
// The core records cooldowns but does not enforce them; enforcement belongs
// to the provider side.
const DefaultCooldown = 300 * time.Second

// Rule is one weighted routing directive. Weight is always within [0,100];
// out-of-range inputs are clamped at creation, never rejected. Condition is
// opaque to the engine.
type Rule struct {
	ID            int
	SourcePattern string
	Target        string
	Weight        int
	Condition     string
	CreatedAt     time.Time
}

// AutoScaleRule describes a scaling trigger derived from a resource metric.
type AutoScaleRule struct {
	ID        int
	Metric    Metric
	Threshold float64
	Action    Action
	Cooldown  time.Duration
	CreatedAt time.Time
}

// ClampWeight forces a traffic weight into [0,100].
func ClampWeight(weight int) int {
	if weight < 0 {
		return 0
	}
	if weight > 100 {
		return 100
	}
	return weight
}
