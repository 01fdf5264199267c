// Package controller implements the traffic-control engine: the single
// front door through which endpoints are registered, rules are created,
// status is read, and the monitor loop is managed. Every operation works on
// in-memory state under one coarse mutex and returns a structured result;
// only the background probes ever touch the network.
package controller

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/trafficwarden/trafficwarden/internal/alert"
	"github.com/trafficwarden/trafficwarden/internal/monitor"
	"github.com/trafficwarden/trafficwarden/internal/provider"
	"github.com/trafficwarden/trafficwarden/internal/traffic"
)

// DefaultIntentTimeout bounds each fire-and-forget provider call.
const DefaultIntentTimeout = 10 * time.Second

// EngineConfig holds configuration for the engine.
type EngineConfig struct {
	// Store holds the endpoint health records (default: in-memory store).
	Store monitor.Store

	// Traffic holds routing and auto-scale rules (default: empty table).
	Traffic *traffic.Table

	// Alerts is the bounded alert log (default: empty log).
	Alerts *alert.Log

	// Prober performs the liveness checks (default: HTTP prober).
	Prober monitor.Prober

	// Adapter receives traffic and scaling intents (default: no-op adapter,
	// which is the simulated operating mode).
	Adapter provider.Adapter

	// Clock defaults to the real clock; tests inject a fake.
	Clock clockwork.Clock

	Logger zerolog.Logger

	// Tick and IdleSleep override the monitor loop scheduling (defaults
	// per the monitor package).
	Tick      time.Duration
	IdleSleep time.Duration

	// ProbeMetrics carries the optional OpenTelemetry probe instruments.
	ProbeMetrics *monitor.Metrics

	// IntentTimeout bounds each provider delivery (default 10s).
	IntentTimeout time.Duration
}

// Engine coordinates the health store, rule table, alert log, monitor loop,
// and provider adapter. It is an explicit context object: construct one per
// process and hand it to the front ends; there is no package-level instance.
type Engine struct {
	store        monitor.Store
	traffic      *traffic.Table
	alerts       *alert.Log
	prober       monitor.Prober
	adapter      provider.Adapter
	clock        clockwork.Clock
	logger       zerolog.Logger
	probeMetrics *monitor.Metrics

	tick          time.Duration
	idleSleep     time.Duration
	intentTimeout time.Duration

	mu         sync.Mutex
	metrics    MetricsSnapshot
	loop       *monitor.Loop
	loopCancel context.CancelFunc
}

// NewEngine creates an engine. Zero config fields fall back to defaults; the
// monitor loop is not started until the first endpoint registration.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger.With().Str("component", "engine").Logger()

	store := cfg.Store
	if store == nil {
		store = monitor.NewMemoryStore()
	}
	table := cfg.Traffic
	if table == nil {
		table = traffic.NewTable()
	}
	alerts := cfg.Alerts
	if alerts == nil {
		alerts = alert.NewLog()
	}
	prober := cfg.Prober
	if prober == nil {
		prober = monitor.NewHTTPProber(monitor.HTTPProberConfig{Logger: cfg.Logger})
	}
	adapter := cfg.Adapter
	if adapter == nil {
		adapter = provider.NewNoopAdapter(cfg.Logger)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	intentTimeout := cfg.IntentTimeout
	if intentTimeout <= 0 {
		intentTimeout = DefaultIntentTimeout
	}

	return &Engine{
		store:         store,
		traffic:       table,
		alerts:        alerts,
		prober:        prober,
		adapter:       adapter,
		clock:         clock,
		logger:        logger,
		probeMetrics:  cfg.ProbeMetrics,
		tick:          cfg.Tick,
		idleSleep:     cfg.IdleSleep,
		intentTimeout: intentTimeout,
	}
}

// Registration is the result of RegisterEndpoint.
type Registration struct {
	// Endpoint is the normalized identity the monitor is keyed by.
	Endpoint string

	// Config is the applied check configuration, defaults filled in.
	Config monitor.CheckConfig

	MonitoringActive bool
}

// RegisterEndpoint creates or replaces the monitor for an endpoint and
// lazily starts the monitor loop. Registration is idempotent by identity:
// re-registering replaces the configuration and resets the health state to
// initializing, but lifetime success and failure counters carry over.
// Scheme-less identities are normalized by prefixing https://.
func (e *Engine) RegisterEndpoint(rawURL string, cfg monitor.CheckConfig) (Registration, error) {
	url, err := monitor.NormalizeURL(rawURL)
	if err != nil {
		return Registration{}, err
	}
	cfg = cfg.WithDefaults()

	e.mu.Lock()
	defer e.mu.Unlock()

	ep := monitor.Endpoint{
		URL:       url,
		Config:    cfg,
		State:     monitor.StateInitializing,
		CreatedAt: e.clock.Now(),
	}
	if prev, err := e.store.Get(url); err == nil {
		ep.SuccessCount = prev.SuccessCount
		ep.FailureCount = prev.FailureCount
		ep.CreatedAt = prev.CreatedAt
	}
	e.store.Upsert(ep)
	e.metrics.TotalRequests++
	e.ensureMonitoringLocked()

	e.logger.Info().
		Str("endpoint", url).
		Dur("poll_interval", cfg.PollInterval).
		Int("failure_threshold", cfg.FailureThreshold).
		Msg("endpoint registered")

	return Registration{
		Endpoint:         url,
		Config:           cfg,
		MonitoringActive: e.monitoringActiveLocked(),
	}, nil
}

// RemoveEndpoint deletes an endpoint's monitor. Returns
// monitor.ErrEndpointNotFound when the endpoint is not registered.
func (e *Engine) RemoveEndpoint(rawURL string) error {
	url, err := monitor.NormalizeURL(rawURL)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Remove(url); err != nil {
		return err
	}
	e.logger.Info().Str("endpoint", url).Msg("endpoint removed")
	return nil
}

// AddTrafficRule appends a routing rule and emits the matching traffic
// intent to the provider adapter. Weight is clamped into [0,100]; the call
// never fails.
func (e *Engine) AddTrafficRule(source, target string, weight int, condition string) traffic.Rule {
	e.mu.Lock()
	defer e.mu.Unlock()

	rule := e.traffic.AddRule(source, target, weight, condition, e.clock.Now())
	e.metrics.TrafficRulesCreated++

	e.logger.Info().
		Int("rule_id", rule.ID).
		Str("source", rule.SourcePattern).
		Str("target", rule.Target).
		Int("weight", rule.Weight).
		Msg("traffic rule created")

	e.emitTrafficIntent(provider.TrafficIntent{
		IntentID: uuid.New().String(),
		IssuedAt: e.clock.Now().UTC(),
		Source:   rule.SourcePattern,
		Target:   rule.Target,
		Weight:   rule.Weight,
		Reason:   provider.ReasonRule,
	})
	return rule
}

// AddAutoScaleRule validates and appends an auto-scale rule, then emits a
// scaling-alarm intent to the provider adapter. A non-positive cooldown
// falls back to the default.
func (e *Engine) AddAutoScaleRule(metricName string, threshold float64, actionName string, cooldown time.Duration) (traffic.AutoScaleRule, error) {
	metric, err := traffic.ParseMetric(metricName)
	if err != nil {
		return traffic.AutoScaleRule{}, err
	}
	action, err := traffic.ParseAction(actionName)
	if err != nil {
		return traffic.AutoScaleRule{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rule := e.traffic.AddAutoScaleRule(metric, threshold, action, cooldown, e.clock.Now())
	e.metrics.AutoScaleTriggers++

	e.logger.Info().
		Int("rule_id", rule.ID).
		Str("metric", string(rule.Metric)).
		Float64("threshold", rule.Threshold).
		Str("action", string(rule.Action)).
		Msg("auto-scale rule created")

	e.emitAlarmIntent(provider.AlarmIntent{
		IntentID:        uuid.New().String(),
		IssuedAt:        e.clock.Now().UTC(),
		Metric:          string(rule.Metric),
		Threshold:       rule.Threshold,
		Action:          string(rule.Action),
		CooldownSeconds: int(rule.Cooldown / time.Second),
	})
	return rule, nil
}

// GetAlerts returns the most recent alerts, oldest first. A non-positive
// limit returns the default of 10.
func (e *Engine) GetAlerts(limit int) []alert.Alert {
	if limit <= 0 {
		limit = 10
	}
	return e.alerts.Recent(limit)
}

// ClearResult reports what a full reset removed.
type ClearResult struct {
	EndpointsRemoved      int
	TrafficRulesRemoved   int
	AutoScaleRulesRemoved int
	AlertsRemoved         int
}

// ClearAll wipes endpoints, rules, and alerts, and zeroes every metric
// except TotalRequests, which the reset call itself increments. The monitor
// loop keeps running; it idles until the next registration.
func (e *Engine) ClearAll() ClearResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := ClearResult{
		EndpointsRemoved:      e.store.Len(),
		TrafficRulesRemoved:   e.traffic.RuleCount(),
		AutoScaleRulesRemoved: e.traffic.AutoScaleRuleCount(),
		AlertsRemoved:         e.alerts.Len(),
	}

	e.store.Reset()
	e.traffic.Reset()
	e.alerts.Reset()
	e.metrics = MetricsSnapshot{TotalRequests: e.metrics.TotalRequests + 1}

	e.logger.Info().
		Int("endpoints_removed", result.EndpointsRemoved).
		Int("traffic_rules_removed", result.TrafficRulesRemoved).
		Int("autoscale_rules_removed", result.AutoScaleRulesRemoved).
		Int("alerts_removed", result.AlertsRemoved).
		Msg("system configuration cleared")
	return result
}

// MonitoringActive reports whether the monitor loop is running.
func (e *Engine) MonitoringActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.monitoringActiveLocked()
}

// Metrics returns a snapshot of the cumulative counters.
func (e *Engine) Metrics() MetricsSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metrics
}

// Stop shuts the monitor loop down cooperatively and waits for it to exit.
// If ctx expires first, the loop is cancelled outright and ctx's error is
// returned. A later registration starts a fresh loop.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	loop := e.loop
	cancel := e.loopCancel
	e.mu.Unlock()

	if loop == nil {
		return nil
	}
	loop.Stop()

	select {
	case <-loop.Done():
		return nil
	case <-ctx.Done():
		if cancel != nil {
			cancel()
		}
		return ctx.Err()
	}
}

func (e *Engine) monitoringActiveLocked() bool {
	return e.loop != nil && e.loop.Running()
}

// ensureMonitoringLocked starts the monitor loop if none is running. A loop
// that was stopped cannot be restarted, so a stopped one is cancelled and
// replaced. Caller holds e.mu.
func (e *Engine) ensureMonitoringLocked() {
	if e.loop != nil {
		if e.loop.Running() {
			return
		}
		if e.loopCancel != nil {
			e.loopCancel()
		}
	}

	loop := monitor.NewLoop(monitor.LoopConfig{
		Store:     e.store,
		Prober:    e.prober,
		OnOutcome: e.handleOutcome,
		Clock:     e.clock,
		Tick:      e.tick,
		IdleSleep: e.idleSleep,
		Metrics:   e.probeMetrics,
		Logger:    e.logger,
	})
	ctx, cancel := context.WithCancel(context.Background())
	e.loop = loop
	e.loopCancel = cancel
	loop.Start(ctx)
}

// handleOutcome is the monitor loop callback: it runs the state machine on
// one probe outcome, persists the updated record, and executes the returned
// effects. Outcomes for endpoints removed while their probe was in flight
// are dropped.
func (e *Engine) handleOutcome(url string, out monitor.Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ep, err := e.store.Get(url)
	if err != nil {
		return
	}

	updated, effects := monitor.Apply(ep, out, e.clock.Now())
	e.store.Upsert(updated)

	if out.Failed() {
		e.metrics.FailedProbes++
	} else {
		e.metrics.SuccessfulProbes++
	}

	if !effects.RaiseAlert {
		return
	}

	failedOver := false
	if effects.TriggerFailover {
		failedOver = e.failoverLocked(updated)
	}

	a := e.alerts.Append(alert.Alert{
		Timestamp:           e.clock.Now(),
		Endpoint:            updated.URL,
		State:               updated.State,
		ConsecutiveFailures: updated.ConsecutiveFailures,
		LastError:           updated.LastError,
		FailoverSucceeded:   failedOver,
	})

	e.logger.Error().
		Int("alert_id", a.ID).
		Str("endpoint", updated.URL).
		Str("state", string(updated.State)).
		Int("consecutive_failures", updated.ConsecutiveFailures).
		Str("last_error", updated.LastError).
		Bool("failover_succeeded", failedOver).
		Msg("endpoint crossed failure threshold")
}

// emitTrafficIntent delivers a traffic intent to the provider adapter in the
// background. Delivery failures are logged, never propagated: provider
// trouble must not disturb engine state.
func (e *Engine) emitTrafficIntent(intent provider.TrafficIntent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.intentTimeout)
		defer cancel()

		if err := e.adapter.ApplyTrafficWeight(ctx, intent); err != nil {
			e.logger.Warn().
				Err(err).
				Str("intent_id", intent.IntentID).
				Str("adapter", e.adapter.Name()).
				Msg("traffic intent delivery failed")
		}
	}()
}

// emitAlarmIntent delivers a scaling-alarm intent in the background.
func (e *Engine) emitAlarmIntent(intent provider.AlarmIntent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.intentTimeout)
		defer cancel()

		if err := e.adapter.CreateScalingAlarm(ctx, intent); err != nil {
			e.logger.Warn().
				Err(err).
				Str("intent_id", intent.IntentID).
				Str("adapter", e.adapter.Name()).
				Msg("scaling alarm delivery failed")
		}
	}()
}
