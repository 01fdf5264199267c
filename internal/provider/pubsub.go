package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubAdapterConfig holds configuration for the Pub/Sub adapter.
type PubSubAdapterConfig struct {
	ProjectID string
	TopicID   string
	Registry  *Registry
	Metrics   *Metrics
	Logger    zerolog.Logger
}

// PubSubAdapter publishes intent envelopes to a Pub/Sub topic. The intent
// worker (cmd/worker) subscribes on the other side and executes them against
// a terminal adapter, decoupling the engine from slow or flaky platforms.
type PubSubAdapter struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicID   string
	registry  *Registry
	metrics   *Metrics
	logger    zerolog.Logger
}

var _ Adapter = (*PubSubAdapter)(nil)

// NewPubSubAdapter creates a Pub/Sub adapter and registers it for health
// reporting.
func NewPubSubAdapter(ctx context.Context, cfg PubSubAdapterConfig) (*PubSubAdapter, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	cfg.Registry.Register("pubsub", nil)

	return &PubSubAdapter{
		client:    client,
		publisher: client.Publisher(cfg.TopicID),
		topicID:   cfg.TopicID,
		registry:  cfg.Registry,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With().Str("adapter", "pubsub").Logger(),
	}, nil
}

// Name identifies the adapter implementation.
func (a *PubSubAdapter) Name() string { return "pubsub" }

// ApplyTrafficWeight publishes a traffic-adjustment intent.
func (a *PubSubAdapter) ApplyTrafficWeight(ctx context.Context, intent TrafficIntent) error {
	return a.publish(ctx, IntentEnvelope{Kind: IntentTrafficWeight, Traffic: &intent})
}

// CreateScalingAlarm publishes a scaling-alarm intent.
func (a *PubSubAdapter) CreateScalingAlarm(ctx context.Context, intent AlarmIntent) error {
	return a.publish(ctx, IntentEnvelope{Kind: IntentScalingAlarm, Alarm: &intent})
}

// Close stops the publisher and releases the client.
func (a *PubSubAdapter) Close() error {
	a.publisher.Stop()
	return a.client.Close()
}

func (a *PubSubAdapter) publish(ctx context.Context, env IntentEnvelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding %s intent: %w", env.Kind, err)
	}

	start := time.Now()
	result := a.publisher.Publish(ctx, &pubsub.Message{
		Data:       body,
		Attributes: map[string]string{"kind": string(env.Kind)},
	})

	id, err := result.Get(ctx)
	if err != nil {
		a.metrics.RecordDelivery(ctx, "pubsub", env.Kind, time.Since(start).Seconds(), err)
		a.registry.RecordFailure("pubsub", err)
		a.logger.Warn().Err(err).Str("kind", string(env.Kind)).Msg("intent publish failed")
		return fmt.Errorf("publishing %s intent: %w", env.Kind, err)
	}

	a.metrics.RecordDelivery(ctx, "pubsub", env.Kind, time.Since(start).Seconds(), nil)
	a.registry.RecordSuccess("pubsub")
	a.logger.Debug().
		Str("kind", string(env.Kind)).
		Str("message_id", id).
		Str("topic", a.topicID).
		Msg("intent published")
	return nil
}
