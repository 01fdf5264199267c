package provider

import (
	"context"

	"github.com/rs/zerolog"
)

// NoopAdapter accepts every intent without delivering it anywhere. It is the
// simulated operating mode: the engine runs the same decision logic and
// records the same state transitions, only the outbound side is inert.
type NoopAdapter struct {
	logger zerolog.Logger
}

var _ Adapter = (*NoopAdapter)(nil)

// NewNoopAdapter creates a no-op adapter.
func NewNoopAdapter(logger zerolog.Logger) *NoopAdapter {
	return &NoopAdapter{logger: logger.With().Str("adapter", "noop").Logger()}
}

// Name identifies the adapter implementation.
func (a *NoopAdapter) Name() string { return "noop" }

// ApplyTrafficWeight logs the intent and discards it.
func (a *NoopAdapter) ApplyTrafficWeight(_ context.Context, intent TrafficIntent) error {
	a.logger.Debug().
		Str("intent_id", intent.IntentID).
		Str("source", intent.Source).
		Str("target", intent.Target).
		Int("weight", intent.Weight).
		Str("reason", intent.Reason).
		Msg("simulated traffic weight change")
	return nil
}

// CreateScalingAlarm logs the intent and discards it.
func (a *NoopAdapter) CreateScalingAlarm(_ context.Context, intent AlarmIntent) error {
	a.logger.Debug().
		Str("intent_id", intent.IntentID).
		Str("metric", intent.Metric).
		Float64("threshold", intent.Threshold).
		Str("action", intent.Action).
		Msg("simulated scaling alarm")
	return nil
}
