// Package main provides the entrypoint for the TrafficWarden intent worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/trafficwarden/trafficwarden/internal/config"
	"github.com/trafficwarden/trafficwarden/internal/provider"
	"github.com/trafficwarden/trafficwarden/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "trafficwarden-worker"

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
	if err := cfg.ValidateWorker(); err != nil {
		log.Fatal().Err(err).Msg("invalid worker configuration")
	}
	log = log.Level(cfg.Level())

	log.Info().
		Str("build_time", BuildTime).
		Str("provider_mode", cfg.ProviderMode).
		Str("subscription", cfg.PubSubSubscriptionID).
		Msg("starting TrafficWarden intent worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providerMetrics, err := provider.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}

	registry := provider.NewRegistry()

	// Terminal adapter for consumed intents. ValidateWorker has already
	// rejected pubsub mode, which would loop intents back onto the bus.
	var adapter provider.Adapter
	switch cfg.ProviderMode {
	case config.ProviderWebhook:
		adapter = provider.NewWebhookAdapter(provider.WebhookAdapterConfig{
			URL:      cfg.WebhookURL,
			Registry: registry,
			Metrics:  providerMetrics,
			Logger:   log,
		})
	default:
		registry.Register("noop", nil)
		adapter = provider.NewNoopAdapter(log)
		log.Info().Msg("running in simulated mode - consumed intents are logged, not delivered")
	}

	executor := worker.NewExecutor(adapter, log)

	handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
		ProjectID:    cfg.PubSubProjectID,
		Subscription: cfg.PubSubSubscriptionID,
		Executor:     executor,
		Logger:       log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize pubsub handler")
	}
	defer handler.Close()

	// Health endpoint for the container platform.
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":%q}`, Version)
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Receive blocks until the signal context is cancelled.
	if err := handler.Start(ctx); err != nil {
		log.Error().Err(err).Msg("worker stopped with error")
	}

	log.Info().Msg("shutting down worker")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
