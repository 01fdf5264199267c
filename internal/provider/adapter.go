// Package provider defines the adapter boundary between the health engine
// and an external traffic platform. The engine emits traffic-adjustment and
// scaling-alarm intents; an Adapter delivers them to whatever sits on the
// other side. The engine behaves identically whichever adapter is plugged
// in, including the no-op one used in simulated mode: adapters are chosen
// explicitly at construction, never discovered at runtime.
package provider

import (
	"context"
	"time"
)

// IntentKind discriminates the payload of an IntentEnvelope.
type IntentKind string

// Intent kinds.
const (
	IntentTrafficWeight IntentKind = "traffic_weight"
	IntentScalingAlarm  IntentKind = "scaling_alarm"
)

// TrafficIntent asks the platform to adjust routing weight toward a target.
// Reason distinguishes operator-created rules from automatic failover.
type TrafficIntent struct {
	IntentID string    `json:"intent_id"`
	IssuedAt time.Time `json:"issued_at"`
	Source   string    `json:"source"`
	Target   string    `json:"target"`
	Weight   int       `json:"weight"`
	Reason   string    `json:"reason"`
}

// Traffic intent reasons.
const (
	ReasonRule     = "rule"
	ReasonFailover = "failover"
)

// AlarmIntent asks the platform to create a scaling alarm for a metric.
type AlarmIntent struct {
	IntentID        string    `json:"intent_id"`
	IssuedAt        time.Time `json:"issued_at"`
	Metric          string    `json:"metric"`
	Threshold       float64   `json:"threshold"`
	Action          string    `json:"action"`
	CooldownSeconds int       `json:"cooldown_seconds"`
}

// IntentEnvelope is the wire form shared by the webhook adapter, the Pub/Sub
// adapter, and the intent worker: exactly one of Traffic or Alarm is set,
// according to Kind.
type IntentEnvelope struct {
	Kind    IntentKind     `json:"kind"`
	Traffic *TrafficIntent `json:"traffic,omitempty"`
	Alarm   *AlarmIntent   `json:"alarm,omitempty"`
}

// Adapter delivers intents to an external platform. Implementations must be
// safe for concurrent use. Delivery failures are returned as errors and are
// the caller's to log; they must never disturb the engine's own state.
type Adapter interface {
	// Name identifies the adapter implementation.
	Name() string

	// ApplyTrafficWeight delivers a traffic-adjustment intent.
	ApplyTrafficWeight(ctx context.Context, intent TrafficIntent) error

	// CreateScalingAlarm delivers a scaling-alarm intent.
	CreateScalingAlarm(ctx context.Context, intent AlarmIntent) error
}
