// Package api provides the HTTP API for TrafficWarden.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/trafficwarden/trafficwarden/internal/api/handler"
	"github.com/trafficwarden/trafficwarden/internal/api/middleware"
	"github.com/trafficwarden/trafficwarden/internal/auth"
	"github.com/trafficwarden/trafficwarden/internal/controller"
	"github.com/trafficwarden/trafficwarden/internal/provider"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// Engine is the traffic-control engine every handler drives.
	Engine *controller.Engine

	// Registry reports provider delivery health; may be nil.
	Registry *provider.Registry

	// Tokens enables operator authentication on mutating routes. A nil
	// service leaves them open (development mode).
	Tokens *auth.TokenService

	// RateLimitRPM caps requests per minute per IP on the /v1 group.
	// Non-positive values fall back to the standard limit.
	RateLimitRPM int

	// RequireTLS rejects plain-HTTP requests arriving through a proxy.
	RequireTLS bool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "trafficwarden-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))         // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))       // Panic recovery
	r.Use(chimiddleware.RealIP)                  // Real IP extraction
	r.Use(middleware.SecurityHeaders)            // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement
	r.Use(middleware.ContentTypeJSON)            // JSON content type
	r.Use(middleware.RequireJSON)                // Reject non-JSON request bodies

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(serviceName, cfg.Version, cfg.BuildTime, cfg.Engine, cfg.Registry)
	endpointHandler := handler.NewEndpointHandler(cfg.Engine)
	trafficHandler := handler.NewTrafficHandler(cfg.Engine)
	statusHandler := handler.NewStatusHandler(cfg.Engine)
	alertHandler := handler.NewAlertHandler(cfg.Engine)
	commandHandler := handler.NewCommandHandler(cfg.Engine)
	systemHandler := handler.NewSystemHandler(cfg.Engine)

	// Operator auth guards mutating routes; pass-through without a token
	// service.
	operatorAuth := middleware.OperatorAuth(cfg.Tokens)

	// Probes and build info stay outside the rate-limited group
	r.Get("/healthz", opsHandler.HealthCheck)
	r.Get("/readyz", opsHandler.ReadinessCheck)
	r.Get("/version", opsHandler.Version)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(middleware.PerMinute(cfg.RateLimitRPM)))

		// Endpoint monitors
		r.Route("/endpoints", func(r chi.Router) {
			r.Get("/", endpointHandler.List)
			r.With(operatorAuth).Post("/", endpointHandler.Create)
			r.With(operatorAuth).Delete("/{endpoint}", endpointHandler.Delete)
		})

		// Routing and scaling rules
		r.With(operatorAuth).Post("/traffic-rules", trafficHandler.CreateTrafficRule)
		r.With(operatorAuth).Post("/autoscale-rules", trafficHandler.CreateAutoScaleRule)

		// Read-only views
		r.Get("/status", statusHandler.GetStatus)
		r.Get("/alerts", alertHandler.ListAlerts)
		r.Get("/recommendations", statusHandler.GetRecommendations)

		// Natural-language command bridge
		r.With(operatorAuth).Post("/commands", commandHandler.Execute)

		// Ops endpoints
		r.Get("/ops/providers", opsHandler.Providers)

		// Full system reset
		r.With(operatorAuth).Delete("/system", systemHandler.Clear)
	})

	return r
}
