package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/trafficwarden/trafficwarden/internal/provider/resilience"
)

// WebhookAdapterConfig holds configuration for the webhook adapter.
type WebhookAdapterConfig struct {
	// URL receives intent envelopes as JSON POST bodies.
	URL string

	// Client is the resilient HTTP client used for delivery. When nil, a
	// client with default retry and circuit breaker settings is created.
	Client *resilience.Client

	Registry *Registry
	Metrics  *Metrics
	Logger   zerolog.Logger
}

// WebhookAdapter delivers intents by POSTing them to an operator-configured
// HTTP endpoint. Deliveries go through a circuit breaker with exponential
// retry, so a struggling receiver degrades to logged failures instead of
// piling up blocked calls.
type WebhookAdapter struct {
	url      string
	client   *resilience.Client
	registry *Registry
	metrics  *Metrics
	logger   zerolog.Logger
}

var _ Adapter = (*WebhookAdapter)(nil)

// NewWebhookAdapter creates a webhook adapter and registers it for health
// reporting.
func NewWebhookAdapter(cfg WebhookAdapterConfig) *WebhookAdapter {
	client := cfg.Client
	if client == nil {
		client = resilience.NewClient(resilience.DefaultClientConfig("webhook"))
	}

	cfg.Registry.Register("webhook", func() string {
		return client.CircuitBreakerState().String()
	})

	return &WebhookAdapter{
		url:      cfg.URL,
		client:   client,
		registry: cfg.Registry,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger.With().Str("adapter", "webhook").Logger(),
	}
}

// Name identifies the adapter implementation.
func (a *WebhookAdapter) Name() string { return "webhook" }

// ApplyTrafficWeight delivers a traffic-adjustment intent.
func (a *WebhookAdapter) ApplyTrafficWeight(ctx context.Context, intent TrafficIntent) error {
	return a.deliver(ctx, IntentEnvelope{Kind: IntentTrafficWeight, Traffic: &intent})
}

// CreateScalingAlarm delivers a scaling-alarm intent.
func (a *WebhookAdapter) CreateScalingAlarm(ctx context.Context, intent AlarmIntent) error {
	return a.deliver(ctx, IntentEnvelope{Kind: IntentScalingAlarm, Alarm: &intent})
}

func (a *WebhookAdapter) deliver(ctx context.Context, env IntentEnvelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding %s intent: %w", env.Kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building %s intent request: %w", env.Kind, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		a.metrics.RecordDelivery(ctx, "webhook", env.Kind, time.Since(start).Seconds(), err)
		a.registry.RecordFailure("webhook", err)
		a.logger.Warn().Err(err).Str("kind", string(env.Kind)).Msg("intent delivery failed")
		return fmt.Errorf("delivering %s intent: %w", env.Kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		err := fmt.Errorf("webhook returned status %d", resp.StatusCode)
		a.metrics.RecordDelivery(ctx, "webhook", env.Kind, time.Since(start).Seconds(), err)
		a.registry.RecordFailure("webhook", err)
		return err
	}

	a.metrics.RecordDelivery(ctx, "webhook", env.Kind, time.Since(start).Seconds(), nil)
	a.registry.RecordSuccess("webhook")
	a.logger.Debug().Str("kind", string(env.Kind)).Msg("intent delivered")
	return nil
}
