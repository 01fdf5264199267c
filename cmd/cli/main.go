// Package main provides the TrafficWarden interactive console. It drives the
// same engine as the API server through the natural-language command bridge,
// with the no-op adapter unless a real provider is configured.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/trafficwarden/trafficwarden/internal/auth"
	"github.com/trafficwarden/trafficwarden/internal/command"
	"github.com/trafficwarden/trafficwarden/internal/config"
	"github.com/trafficwarden/trafficwarden/internal/controller"
	"github.com/trafficwarden/trafficwarden/internal/provider"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	mintToken := flag.Bool("mint-token", false, "mint an operator token and exit (requires OPERATOR_TOKEN_SECRET)")
	operator := flag.String("operator", "", "operator name stamped into minted tokens")
	flag.Parse()

	// Logs go to stderr so replies on stdout stay clean.
	log := zerolog.New(os.Stderr).
		With().
		Timestamp().
		Str("service", "trafficwarden-cli").
		Str("version", Version).
		Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log = log.Level(cfg.Level())

	if *mintToken {
		mint(cfg, log, *operator)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, cleanup := newEngine(ctx, cfg, log)
	defer cleanup()

	fmt.Printf("TrafficWarden %s (%s mode). Type 'help' for commands, 'exit' to quit.\n",
		Version, cfg.ProviderMode)

	repl(ctx, engine)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("monitor loop forced to stop")
	}
}

// repl reads commands line by line until exit, quit, EOF, or a signal.
func repl(ctx context.Context, eng command.Engine) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Print("> ")

		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case line, ok := <-lines:
			if !ok {
				fmt.Println()
				return
			}

			input := strings.TrimSpace(line)
			switch input {
			case "":
				continue
			case "exit", "quit":
				return
			}

			cmd, err := command.Parse(input)
			if err != nil {
				fmt.Println(err)
				continue
			}

			reply, err := command.Execute(eng, cmd)
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println(reply)
		}
	}
}

// mint prints a fresh operator token on stdout for use against a server
// sharing the same secret.
func mint(cfg config.Config, log zerolog.Logger, operator string) {
	if !cfg.AuthEnabled() {
		log.Fatal().Msg("minting requires OPERATOR_TOKEN_SECRET")
	}

	tokens := auth.NewTokenService(auth.TokenConfig{Secret: cfg.OperatorTokenSecret})
	token, expiresAt, err := tokens.Generate(operator)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to mint operator token")
	}

	fmt.Println(token)
	log.Info().Time("expires_at", expiresAt).Msg("operator token minted")
}

func newEngine(ctx context.Context, cfg config.Config, log zerolog.Logger) (*controller.Engine, func()) {
	registry := provider.NewRegistry()

	var adapter provider.Adapter
	cleanup := func() {}

	switch cfg.ProviderMode {
	case config.ProviderWebhook:
		adapter = provider.NewWebhookAdapter(provider.WebhookAdapterConfig{
			URL:      cfg.WebhookURL,
			Registry: registry,
			Logger:   log,
		})
	case config.ProviderPubSub:
		pubsubAdapter, err := provider.NewPubSubAdapter(ctx, provider.PubSubAdapterConfig{
			ProjectID: cfg.PubSubProjectID,
			TopicID:   cfg.PubSubTopicID,
			Registry:  registry,
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize pubsub adapter")
		}
		adapter = pubsubAdapter
		cleanup = func() {
			if err := pubsubAdapter.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close pubsub adapter")
			}
		}
	default:
		adapter = provider.NewNoopAdapter(log)
	}

	engine := controller.NewEngine(controller.EngineConfig{
		Adapter:   adapter,
		Logger:    log,
		Tick:      cfg.MonitorTick,
		IdleSleep: cfg.MonitorIdleSleep,
	})
	return engine, cleanup
}
