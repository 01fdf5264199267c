// Package main provides the entrypoint for the TrafficWarden API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/trafficwarden/trafficwarden/internal/api"
	"github.com/trafficwarden/trafficwarden/internal/api/middleware"
	"github.com/trafficwarden/trafficwarden/internal/auth"
	"github.com/trafficwarden/trafficwarden/internal/config"
	"github.com/trafficwarden/trafficwarden/internal/controller"
	"github.com/trafficwarden/trafficwarden/internal/monitor"
	"github.com/trafficwarden/trafficwarden/internal/provider"
	"github.com/trafficwarden/trafficwarden/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "trafficwarden-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log = log.Level(cfg.Level())

	log.Info().
		Str("build_time", BuildTime).
		Str("provider_mode", cfg.ProviderMode).
		Msg("starting TrafficWarden API")

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.TelemetryEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize HTTP metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	probeMetrics, err := monitor.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize probe metrics")
		os.Exit(1)
	}

	providerMetrics, err := provider.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Initialize the provider adapter. The mode is fixed at startup; the
	// engine never switches adapters at runtime.
	registry := provider.NewRegistry()

	var adapter provider.Adapter
	switch cfg.ProviderMode {
	case config.ProviderWebhook:
		adapter = provider.NewWebhookAdapter(provider.WebhookAdapterConfig{
			URL:      cfg.WebhookURL,
			Registry: registry,
			Metrics:  providerMetrics,
			Logger:   log,
		})
	case config.ProviderPubSub:
		pubsubAdapter, err := provider.NewPubSubAdapter(ctx, provider.PubSubAdapterConfig{
			ProjectID: cfg.PubSubProjectID,
			TopicID:   cfg.PubSubTopicID,
			Registry:  registry,
			Metrics:   providerMetrics,
			Logger:    log,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize pubsub adapter")
			os.Exit(1)
		}
		defer pubsubAdapter.Close()
		adapter = pubsubAdapter
	default:
		registry.Register("noop", nil)
		adapter = provider.NewNoopAdapter(log)
		log.Info().Msg("running in simulated mode - intents are logged, not delivered")
	}

	// Initialize operator token auth
	var tokens *auth.TokenService
	if cfg.AuthEnabled() {
		tokens = auth.NewTokenService(auth.TokenConfig{Secret: cfg.OperatorTokenSecret})
		log.Info().Msg("operator token auth enabled")
	} else {
		log.Warn().Msg("operator token auth disabled - mutating routes are open")
	}

	// Initialize the traffic-control engine
	engine := controller.NewEngine(controller.EngineConfig{
		Adapter:      adapter,
		Logger:       log,
		Tick:         cfg.MonitorTick,
		IdleSleep:    cfg.MonitorIdleSleep,
		ProbeMetrics: probeMetrics,
	})
	log.Info().
		Dur("tick", cfg.MonitorTick).
		Dur("idle_sleep", cfg.MonitorIdleSleep).
		Msg("engine initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:      Version,
		BuildTime:    BuildTime,
		Logger:       log,
		ServiceName:  serviceName,
		Metrics:      httpMetrics,
		Engine:       engine,
		Registry:     registry,
		Tokens:       tokens,
		RateLimitRPM: cfg.RateLimitRPM,
		RequireTLS:   cfg.RequireTLS,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("monitor loop forced to stop")
	}

	log.Info().Msg("server stopped")
}
