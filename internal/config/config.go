// Package config loads process configuration from the environment. One
// Config struct is shared by every binary; fields carry defaults in their
// struct tags so a bare environment yields a runnable simulated-mode
// process.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/vrischmann/envconfig"
)

// Provider modes selectable via PROVIDER_MODE.
const (
	ProviderNoop    = "noop"
	ProviderWebhook = "webhook"
	ProviderPubSub  = "pubsub"
)

// Config carries every environment-driven setting for the API server, the
// intent worker, and the CLI.
type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR,default=:8080"`
	LogLevel string `envconfig:"LOG_LEVEL,default=info"`

	// ProviderMode selects the adapter intents are delivered to: noop
	// (simulated), webhook, or pubsub. Never inferred at runtime.
	ProviderMode string `envconfig:"PROVIDER_MODE,default=noop"`
	WebhookURL   string `envconfig:"WEBHOOK_URL,optional"`

	PubSubProjectID      string `envconfig:"PUBSUB_PROJECT_ID,optional"`
	PubSubTopicID        string `envconfig:"PUBSUB_TOPIC_ID,optional"`
	PubSubSubscriptionID string `envconfig:"PUBSUB_SUBSCRIPTION_ID,optional"`

	// OperatorTokenSecret signs operator bearer tokens. Empty disables
	// operator auth entirely.
	OperatorTokenSecret string `envconfig:"OPERATOR_TOKEN_SECRET,optional"`
	RateLimitRPM        int    `envconfig:"RATE_LIMIT_RPM,default=100"`

	TelemetryEnabled bool   `envconfig:"TELEMETRY_ENABLED,default=false"`
	OTLPEndpoint     string `envconfig:"OTLP_ENDPOINT,default=localhost:4317"`
	Environment      string `envconfig:"ENVIRONMENT,default=development"`
	RequireTLS       bool   `envconfig:"REQUIRE_TLS,default=false"`

	MonitorTick      time.Duration `envconfig:"MONITOR_TICK,default=2s"`
	MonitorIdleSleep time.Duration `envconfig:"MONITOR_IDLE_SLEEP,default=5s"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Init(&cfg); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the cross-field constraints struct tags cannot express.
func (c Config) Validate() error {
	switch c.ProviderMode {
	case ProviderNoop:
	case ProviderWebhook:
		if c.WebhookURL == "" {
			return fmt.Errorf("PROVIDER_MODE=webhook requires WEBHOOK_URL")
		}
	case ProviderPubSub:
		if c.PubSubProjectID == "" || c.PubSubTopicID == "" {
			return fmt.Errorf("PROVIDER_MODE=pubsub requires PUBSUB_PROJECT_ID and PUBSUB_TOPIC_ID")
		}
	default:
		return fmt.Errorf("unknown PROVIDER_MODE %q", c.ProviderMode)
	}

	if c.RateLimitRPM <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPM must be positive, got %d", c.RateLimitRPM)
	}
	if c.MonitorTick <= 0 {
		return fmt.Errorf("MONITOR_TICK must be positive, got %s", c.MonitorTick)
	}
	if c.MonitorIdleSleep <= 0 {
		return fmt.Errorf("MONITOR_IDLE_SLEEP must be positive, got %s", c.MonitorIdleSleep)
	}
	return nil
}

// ValidateWorker checks the extra settings the intent worker needs on top
// of Validate. The worker consumes the intent bus, so a subscription is
// required regardless of provider mode, and the terminal adapter cannot
// itself be the bus.
func (c Config) ValidateWorker() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.PubSubProjectID == "" || c.PubSubSubscriptionID == "" {
		return fmt.Errorf("worker requires PUBSUB_PROJECT_ID and PUBSUB_SUBSCRIPTION_ID")
	}
	if c.ProviderMode == ProviderPubSub {
		return fmt.Errorf("worker cannot use PROVIDER_MODE=pubsub: intents would loop back onto the bus")
	}
	return nil
}

// AuthEnabled reports whether operator-token authentication is configured.
func (c Config) AuthEnabled() bool {
	return c.OperatorTokenSecret != ""
}

// Level maps LOG_LEVEL onto a zerolog level. Unknown values fall back to
// info rather than failing startup.
func (c Config) Level() zerolog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}
