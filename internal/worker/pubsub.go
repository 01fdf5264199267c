package worker

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubHandler consumes the intent subscription and feeds each message to
// the executor.
type PubSubHandler struct {
	client       *pubsub.Client
	subscriber   *pubsub.Subscriber
	subscription string
	executor     *Executor
	logger       zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID    string
	Subscription string
	Executor     *Executor
	Logger       zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.Subscription)

	// Intents are small and cheap to execute; keep the outstanding window
	// modest so a crashed worker strands few messages.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.NumGoroutines = 4

	return &PubSubHandler{
		client:       client,
		subscriber:   subscriber,
		subscription: cfg.Subscription,
		executor:     cfg.Executor,
		logger:       cfg.Logger,
	}, nil
}

// Start begins consuming intent messages. It blocks until ctx is cancelled
// or the subscription fails.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscription).
		Msg("starting intent worker")

	err := h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("receiving messages: %w", err)
	}

	return nil
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received intent message")

	disposition := h.executor.Execute(ctx, msg.Data)
	switch disposition {
	case Nack:
		msg.Nack()
	default:
		msg.Ack()
	}

	logger.Debug().
		Dur("duration", time.Since(startTime)).
		Bool("acked", disposition == Ack).
		Msg("intent message consumed")
}
