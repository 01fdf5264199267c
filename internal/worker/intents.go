// Package worker consumes intent envelopes from the intent bus and executes
// them against a terminal adapter. The API server publishes intents through
// the Pub/Sub provider adapter; this side completes the delivery, keeping
// slow or flaky platforms out of the engine's request path.
package worker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/trafficwarden/trafficwarden/internal/provider"
)

// Disposition is the consume decision for one message.
type Disposition int

const (
	// Ack removes the message: it was executed, or it never can be.
	Ack Disposition = iota

	// Nack requeues the message after a transient delivery failure.
	Nack
)

// Executor runs decoded intent envelopes against the terminal adapter.
type Executor struct {
	adapter provider.Adapter
	logger  zerolog.Logger
}

// NewExecutor creates an executor delivering to the given adapter.
func NewExecutor(adapter provider.Adapter, logger zerolog.Logger) *Executor {
	return &Executor{
		adapter: adapter,
		logger:  logger.With().Str("component", "intent-executor").Logger(),
	}
}

// Execute decodes one envelope and delivers it. Malformed envelopes, unknown
// kinds, and missing payloads are permanent: retrying cannot fix them, so
// they are logged and acked. Only adapter delivery errors yield Nack.
func (e *Executor) Execute(ctx context.Context, data []byte) Disposition {
	var env provider.IntentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		e.logger.Error().Err(err).Msg("failed to parse intent envelope")
		return Ack
	}

	var err error
	switch env.Kind {
	case provider.IntentTrafficWeight:
		if env.Traffic == nil {
			e.logger.Error().Msg("traffic_weight envelope without traffic payload")
			return Ack
		}
		err = e.adapter.ApplyTrafficWeight(ctx, *env.Traffic)
	case provider.IntentScalingAlarm:
		if env.Alarm == nil {
			e.logger.Error().Msg("scaling_alarm envelope without alarm payload")
			return Ack
		}
		err = e.adapter.CreateScalingAlarm(ctx, *env.Alarm)
	default:
		e.logger.Warn().Str("kind", string(env.Kind)).Msg("unknown intent kind")
		return Ack
	}

	if err != nil {
		e.logger.Error().
			Err(err).
			Str("kind", string(env.Kind)).
			Str("intent_id", intentID(env)).
			Str("adapter", e.adapter.Name()).
			Msg("intent delivery failed")
		return Nack
	}

	e.logger.Info().
		Str("kind", string(env.Kind)).
		Str("intent_id", intentID(env)).
		Str("adapter", e.adapter.Name()).
		Msg("intent executed")
	return Ack
}

func intentID(env provider.IntentEnvelope) string {
	switch {
	case env.Traffic != nil:
		return env.Traffic.IntentID
	case env.Alarm != nil:
		return env.Alarm.IntentID
	}
	return ""
}
