package controller_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficwarden/trafficwarden/internal/controller"
	"github.com/trafficwarden/trafficwarden/internal/monitor"
	"github.com/trafficwarden/trafficwarden/internal/provider"
)

const testTick = 2 * time.Second

// scriptedProber returns canned outcomes per endpoint. When gate is non-nil,
// every probe blocks until the gate is closed, letting tests observe state
// while a probe is in flight.
type scriptedProber struct {
	gate    chan struct{}
	outcome func(url string) monitor.Outcome
}

func (p *scriptedProber) Probe(_ context.Context, url string, _ monitor.CheckConfig) monitor.Outcome {
	if p.gate != nil {
		<-p.gate
	}
	return p.outcome(url)
}

func successOutcome(responseMS float64) monitor.Outcome {
	return monitor.Outcome{Kind: monitor.OutcomeSuccess, StatusCode: 200, ResponseTimeMS: responseMS}
}

func connectionFailedOutcome() monitor.Outcome {
	return monitor.Outcome{Kind: monitor.OutcomeConnectionFailed}
}

// recordingAdapter captures emitted intents for assertion.
type recordingAdapter struct {
	trafficCh chan provider.TrafficIntent
	alarmCh   chan provider.AlarmIntent
}

func newRecordingAdapter() *recordingAdapter {
	return &recordingAdapter{
		trafficCh: make(chan provider.TrafficIntent, 16),
		alarmCh:   make(chan provider.AlarmIntent, 16),
	}
}

func (a *recordingAdapter) Name() string { return "recording" }

func (a *recordingAdapter) ApplyTrafficWeight(_ context.Context, intent provider.TrafficIntent) error {
	a.trafficCh <- intent
	return nil
}

func (a *recordingAdapter) CreateScalingAlarm(_ context.Context, intent provider.AlarmIntent) error {
	a.alarmCh <- intent
	return nil
}

func (a *recordingAdapter) awaitTraffic(t *testing.T) provider.TrafficIntent {
	t.Helper()
	select {
	case intent := <-a.trafficCh:
		return intent
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for traffic intent")
		return provider.TrafficIntent{}
	}
}

func (a *recordingAdapter) awaitAlarm(t *testing.T) provider.AlarmIntent {
	t.Helper()
	select {
	case intent := <-a.alarmCh:
		return intent
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for alarm intent")
		return provider.AlarmIntent{}
	}
}

type engineHarness struct {
	clock   *clockwork.FakeClock
	store   *monitor.MemoryStore
	prober  *scriptedProber
	adapter *recordingAdapter
	engine  *controller.Engine
}

// newEngineHarness builds an engine on a fake clock with a scripted prober.
// Tests drive the monitor loop by advancing the clock one tick at a time and
// use BlockUntil to wait for the loop to finish a pass and park again.
func newEngineHarness(t *testing.T, outcome func(url string) monitor.Outcome) *engineHarness {
	t.Helper()

	h := &engineHarness{
		clock:   clockwork.NewFakeClock(),
		store:   monitor.NewMemoryStore(),
		prober:  &scriptedProber{outcome: outcome},
		adapter: newRecordingAdapter(),
	}
	h.engine = controller.NewEngine(controller.EngineConfig{
		Store:     h.store,
		Prober:    h.prober,
		Adapter:   h.adapter,
		Clock:     h.clock,
		Logger:    zerolog.Nop(),
		Tick:      testTick,
		IdleSleep: testTick,
	})

	t.Cleanup(func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_ = h.engine.Stop(ctx)
	})
	return h
}

// register adds an endpoint due every tick, so each advance probes it once.
func (h *engineHarness) register(t *testing.T, url string, threshold int) controller.Registration {
	t.Helper()
	reg, err := h.engine.RegisterEndpoint(url, monitor.CheckConfig{
		PollInterval:     testTick,
		FailureThreshold: threshold,
	})
	require.NoError(t, err)
	return reg
}

// waitParked blocks until the loop has finished its pass and is sleeping on
// the fake clock again.
func (h *engineHarness) waitParked() {
	h.clock.BlockUntil(1)
}

// tickOnce fires the next loop pass and waits for it to complete.
func (h *engineHarness) tickOnce() {
	h.clock.Advance(testTick)
	h.clock.BlockUntil(1)
}

func TestEngine_RegisterEndpoint_NormalizesIdentity(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })

	reg := h.register(t, "api.example.com", 3)
	assert.Equal(t, "https://api.example.com", reg.Endpoint)
	assert.True(t, reg.MonitoringActive)
	assert.Equal(t, 200, reg.Config.ExpectedStatus)
	assert.Equal(t, 10*time.Second, reg.Config.Timeout)
	assert.Equal(t, 3, reg.Config.FailureThreshold)

	h.waitParked()

	ep, err := h.store.Get("https://api.example.com")
	require.NoError(t, err)
	assert.Equal(t, monitor.StateHealthy, ep.State)
	assert.Equal(t, uint64(1), h.engine.Metrics().TotalRequests)
}

func TestEngine_RegisterEndpoint_RejectsEmptyIdentity(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })

	_, err := h.engine.RegisterEndpoint("", monitor.CheckConfig{})
	assert.ErrorIs(t, err, monitor.ErrInvalidEndpoint)

	_, err = h.engine.RegisterEndpoint("   ", monitor.CheckConfig{})
	assert.ErrorIs(t, err, monitor.ErrInvalidEndpoint)

	assert.False(t, h.engine.MonitoringActive())
	assert.Equal(t, uint64(0), h.engine.Metrics().TotalRequests)
}

func TestEngine_ReregisterPreservesLifetimeCounters(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })
	h.prober.gate = make(chan struct{})

	probedAt := time.Now()
	h.store.Upsert(monitor.Endpoint{
		URL:                 "https://api.example.com",
		Config:              monitor.CheckConfig{ExpectedStatus: 200, Timeout: 5 * time.Second, PollInterval: time.Minute, FailureThreshold: 5},
		State:               monitor.StateHealthy,
		SuccessCount:        5,
		FailureCount:        2,
		LastProbeAt:         &probedAt,
		ConsecutiveFailures: 0,
	})

	reg, err := h.engine.RegisterEndpoint("api.example.com", monitor.CheckConfig{
		PollInterval:     testTick,
		FailureThreshold: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Config.FailureThreshold)

	// The first probe of the replaced record is gated, so the reset is
	// observable before any outcome lands.
	ep, err := h.store.Get("https://api.example.com")
	require.NoError(t, err)
	assert.Equal(t, monitor.StateInitializing, ep.State)
	assert.Equal(t, 0, ep.ConsecutiveFailures)
	assert.Nil(t, ep.LastProbeAt)
	assert.Equal(t, uint64(5), ep.SuccessCount, "lifetime successes carry over")
	assert.Equal(t, uint64(2), ep.FailureCount, "lifetime failures carry over")
	assert.Equal(t, 3, ep.Config.FailureThreshold, "config is replaced")

	close(h.prober.gate)
	h.waitParked()

	ep, err = h.store.Get("https://api.example.com")
	require.NoError(t, err)
	assert.Equal(t, monitor.StateHealthy, ep.State)
	assert.Equal(t, uint64(6), ep.SuccessCount)
	assert.Equal(t, uint64(2), ep.FailureCount)
}

func TestEngine_ThresholdCrossing_RaisesSingleAlert(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return connectionFailedOutcome() })

	h.register(t, "api.example.com", 3)
	h.waitParked() // first failure
	h.tickOnce()   // second failure

	ep, err := h.store.Get("https://api.example.com")
	require.NoError(t, err)
	assert.Equal(t, monitor.StateDegraded, ep.State, "below threshold stays degraded")
	assert.Empty(t, h.engine.GetAlerts(10))

	h.tickOnce() // third failure crosses the threshold

	ep, err = h.store.Get("https://api.example.com")
	require.NoError(t, err)
	assert.Equal(t, monitor.StateConnectionError, ep.State)
	assert.Equal(t, 3, ep.ConsecutiveFailures)
	assert.Equal(t, "Connection failed", ep.LastError)

	alerts := h.engine.GetAlerts(10)
	require.Len(t, alerts, 1)
	assert.Equal(t, "https://api.example.com", alerts[0].Endpoint)
	assert.Equal(t, monitor.StateConnectionError, alerts[0].State)
	assert.Equal(t, 3, alerts[0].ConsecutiveFailures)
	assert.Equal(t, "Connection failed", alerts[0].LastError)
	assert.False(t, alerts[0].FailoverSucceeded, "no healthy endpoint to fail over to")

	report := h.engine.GetStatus("api.example")
	require.True(t, report.Found)
	require.Len(t, report.Matches, 1)
	assert.Equal(t, 3, report.Matches[0].ConsecutiveFailures)
	assert.Equal(t, "0.0%", report.Matches[0].Uptime)

	metrics := h.engine.Metrics()
	assert.Equal(t, uint64(3), metrics.FailedProbes)
	assert.Equal(t, uint64(0), metrics.SuccessfulProbes)
}

func TestEngine_FailoverPicksHealthyEndpoint(t *testing.T) {
	h := newEngineHarness(t, func(url string) monitor.Outcome {
		if url == "https://failing.example.com" {
			return connectionFailedOutcome()
		}
		return successOutcome(80)
	})

	h.register(t, "failing.example.com", 3)
	h.register(t, "healthy.example.com", 3)
	h.waitParked()
	h.tickOnce()
	h.tickOnce() // third failing probe

	alerts := h.engine.GetAlerts(10)
	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].FailoverSucceeded)

	intent := h.adapter.awaitTraffic(t)
	assert.Equal(t, "https://failing.example.com", intent.Source)
	assert.Equal(t, "https://healthy.example.com", intent.Target)
	assert.Equal(t, 100, intent.Weight)
	assert.Equal(t, provider.ReasonFailover, intent.Reason)
	assert.NotEmpty(t, intent.IntentID)

	// Exactly one threshold crossing, exactly one intent.
	assert.Empty(t, h.adapter.trafficCh)
}

func TestEngine_ReAlertsWhileOverThreshold(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return connectionFailedOutcome() })

	h.register(t, "api.example.com", 2)
	h.waitParked() // failure 1
	h.tickOnce()   // failure 2, first alert
	h.tickOnce()   // failure 3, re-alert
	h.tickOnce()   // failure 4, re-alert

	alerts := h.engine.GetAlerts(10)
	require.Len(t, alerts, 3)
	assert.Equal(t, 2, alerts[0].ConsecutiveFailures)
	assert.Equal(t, 3, alerts[1].ConsecutiveFailures)
	assert.Equal(t, 4, alerts[2].ConsecutiveFailures)
	assert.Equal(t, uint64(4), h.engine.Metrics().FailedProbes)
}

func TestEngine_RemoveEndpoint(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })

	h.register(t, "api.example.com", 3)
	h.waitParked()

	require.NoError(t, h.engine.RemoveEndpoint("api.example.com"))
	_, err := h.store.Get("https://api.example.com")
	assert.ErrorIs(t, err, monitor.ErrEndpointNotFound)

	assert.ErrorIs(t, h.engine.RemoveEndpoint("api.example.com"), monitor.ErrEndpointNotFound)
}

func TestEngine_RemovalMidProbeDropsOutcome(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return connectionFailedOutcome() })
	h.prober.gate = make(chan struct{})

	h.register(t, "api.example.com", 1)

	// The probe is in flight, blocked on the gate; remove the endpoint
	// underneath it.
	require.NoError(t, h.engine.RemoveEndpoint("api.example.com"))

	close(h.prober.gate)
	h.waitParked()

	assert.Equal(t, 0, h.store.Len())
	assert.Empty(t, h.engine.GetAlerts(10))
	assert.Equal(t, uint64(0), h.engine.Metrics().FailedProbes)
}

func TestEngine_AddTrafficRule_ClampsWeight(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })

	over := h.engine.AddTrafficRule("/api/*", "backend-pool-1", 150, "")
	assert.Equal(t, 1, over.ID)
	assert.Equal(t, 100, over.Weight)

	under := h.engine.AddTrafficRule("/api/*", "backend-pool-2", -5, "")
	assert.Equal(t, 2, under.ID)
	assert.Equal(t, 0, under.Weight)

	first := h.adapter.awaitTraffic(t)
	assert.Equal(t, 100, first.Weight)
	assert.Equal(t, provider.ReasonRule, first.Reason)
	second := h.adapter.awaitTraffic(t)
	assert.Equal(t, 0, second.Weight)

	metrics := h.engine.Metrics()
	assert.Equal(t, uint64(2), metrics.TrafficRulesCreated)
	assert.Equal(t, uint64(0), metrics.TotalRequests, "rule creation is not a registration")
}

func TestEngine_AddAutoScaleRule(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })

	rule, err := h.engine.AddAutoScaleRule("cpu", 85, "scale_up", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, rule.ID)
	assert.Equal(t, 300*time.Second, rule.Cooldown)

	alarm := h.adapter.awaitAlarm(t)
	assert.Equal(t, "cpu", alarm.Metric)
	assert.InDelta(t, 85.0, alarm.Threshold, 0.001)
	assert.Equal(t, "scale_up", alarm.Action)
	assert.Equal(t, 300, alarm.CooldownSeconds)

	assert.Equal(t, uint64(1), h.engine.Metrics().AutoScaleTriggers)
}

func TestEngine_AddAutoScaleRule_RejectsUnknownEnums(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })

	_, err := h.engine.AddAutoScaleRule("gpu", 85, "scale_up", 0)
	assert.Error(t, err)

	_, err = h.engine.AddAutoScaleRule("cpu", 85, "explode", 0)
	assert.Error(t, err)

	assert.Equal(t, uint64(0), h.engine.Metrics().AutoScaleTriggers)
}

func TestEngine_ClearAll_KeepsRequestCount(t *testing.T) {
	h := newEngineHarness(t, func(url string) monitor.Outcome {
		if url == "https://failing.example.com" {
			return connectionFailedOutcome()
		}
		return successOutcome(100)
	})

	h.register(t, "failing.example.com", 1)
	h.register(t, "healthy.example.com", 3)
	h.waitParked()

	h.engine.AddTrafficRule("/api/*", "pool", 50, "")
	_, err := h.engine.AddAutoScaleRule("cpu", 80, "scale_up", 0)
	require.NoError(t, err)

	result := h.engine.ClearAll()
	assert.Equal(t, 2, result.EndpointsRemoved)
	assert.Equal(t, 1, result.TrafficRulesRemoved)
	assert.Equal(t, 1, result.AutoScaleRulesRemoved)
	assert.Equal(t, 1, result.AlertsRemoved)

	metrics := h.engine.Metrics()
	assert.Equal(t, uint64(3), metrics.TotalRequests, "two registrations plus the reset itself")
	assert.Equal(t, uint64(0), metrics.SuccessfulProbes)
	assert.Equal(t, uint64(0), metrics.FailedProbes)
	assert.Equal(t, uint64(0), metrics.TrafficRulesCreated)
	assert.Equal(t, uint64(0), metrics.AutoScaleTriggers)

	report := h.engine.GetStatus("")
	require.NotNil(t, report.System)
	assert.Equal(t, monitor.StateDegraded, report.System.OverallStatus)
	assert.Equal(t, 0, report.System.TotalEndpoints)
	assert.Empty(t, h.engine.GetAlerts(10))

	// The loop survives a reset; it just has nothing to probe.
	assert.True(t, h.engine.MonitoringActive())
}

func TestEngine_GetStatus_SystemSummary(t *testing.T) {
	h := newEngineHarness(t, func(url string) monitor.Outcome {
		switch url {
		case "https://a.example.com":
			return successOutcome(120)
		case "https://b.example.com":
			return successOutcome(80)
		default:
			return connectionFailedOutcome()
		}
	})

	h.register(t, "a.example.com", 3)
	h.register(t, "b.example.com", 3)
	h.register(t, "c.example.com", 3)
	h.waitParked()
	h.tickOnce() // every endpoint has been probed at least once

	report := h.engine.GetStatus("")
	require.NotNil(t, report.System)
	sys := report.System

	assert.Equal(t, monitor.StateDegraded, sys.OverallStatus)
	assert.Equal(t, 3, sys.TotalEndpoints)
	assert.Equal(t, 2, sys.HealthyEndpoints)
	assert.Equal(t, 1, sys.UnhealthyEndpoints)
	assert.True(t, sys.MonitoringActive)
	assert.InDelta(t, 100.0, sys.AvgResponseTimeMS, 0.001, "mean over healthy endpoints only")
	assert.Equal(t, 0, sys.RecentAlerts, "failure threshold not reached yet")

	require.Len(t, sys.Endpoints, 3)
	assert.Equal(t, "https://a.example.com", sys.Endpoints[0].URL)
	assert.Equal(t, "100.0%", sys.Endpoints[0].Uptime)
	assert.Equal(t, "https://c.example.com", sys.Endpoints[2].URL)
	assert.Equal(t, "0.0%", sys.Endpoints[2].Uptime)
}

func TestEngine_GetStatus_AllHealthy(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(90) })

	h.register(t, "a.example.com", 3)
	h.register(t, "b.example.com", 3)
	h.waitParked()
	h.tickOnce()

	report := h.engine.GetStatus("")
	require.NotNil(t, report.System)
	assert.Equal(t, monitor.StateHealthy, report.System.OverallStatus)
	assert.Equal(t, 2, report.System.HealthyEndpoints)
	assert.Equal(t, 0, report.System.UnhealthyEndpoints)
}

func TestEngine_GetStatus_TargetMatching(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })

	h.register(t, "api.example.com", 3)
	h.register(t, "web.example.com", 3)
	h.waitParked()

	report := h.engine.GetStatus("API")
	require.True(t, report.Found, "matching is case-insensitive")
	require.Len(t, report.Matches, 1)
	assert.Equal(t, "https://api.example.com", report.Matches[0].URL)
	assert.Equal(t, monitor.StateHealthy, report.Matches[0].State)
	assert.Equal(t, "100.0%", report.Matches[0].Uptime)

	report = h.engine.GetStatus("example")
	assert.True(t, report.Found)
	assert.Len(t, report.Matches, 2)

	report = h.engine.GetStatus("missing")
	assert.False(t, report.Found)
	assert.Empty(t, report.Matches)
}

func TestEngine_GetStatus_NoEndpoints(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })

	report := h.engine.GetStatus("")
	require.NotNil(t, report.System)
	assert.Equal(t, monitor.StateDegraded, report.System.OverallStatus, "zero endpoints report degraded")
	assert.Equal(t, 0, report.System.TotalEndpoints)
	assert.False(t, report.System.MonitoringActive)
	assert.Zero(t, report.System.AvgResponseTimeMS)
}

func TestEngine_GetRecommendations_FreshSystem(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })

	recs := h.engine.GetRecommendations()
	assert.Equal(t, []string{
		"Add more endpoints for redundancy and high availability.",
		"Set up auto-scaling to handle traffic spikes automatically.",
	}, recs)

	assert.Equal(t, recs, h.engine.GetRecommendations(), "idempotent for unchanged state")
}

func TestEngine_GetRecommendations_OptimalSystem(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(90) })

	h.register(t, "a.example.com", 3)
	h.register(t, "b.example.com", 3)
	h.waitParked()
	h.engine.AddTrafficRule("/api/*", "pool", 50, "")
	_, err := h.engine.AddAutoScaleRule("cpu", 80, "scale_up", 0)
	require.NoError(t, err)

	recs := h.engine.GetRecommendations()
	assert.Equal(t, []string{"Your traffic management system is running optimally."}, recs)
}

func TestEngine_GetRecommendations_UnhealthyEndpoints(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return connectionFailedOutcome() })

	h.register(t, "a.example.com", 1)
	h.register(t, "b.example.com", 1)
	h.register(t, "c.example.com", 1)
	h.waitParked()
	h.tickOnce() // every endpoint has failed at least once

	recs := h.engine.GetRecommendations()
	require.NotEmpty(t, recs)
	assert.Equal(t, "3 endpoints are unhealthy. Check: https://a.example.com, https://b.example.com", recs[0])
	assert.Contains(t, recs[1], "alerts in the last hour")
}

func TestEngine_GetRecommendations_SlowEndpoints(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(2500) })

	h.register(t, "slow.example.com", 3)
	h.waitParked()

	recs := h.engine.GetRecommendations()
	assert.Contains(t, recs, "1 endpoints have slow response times (>2s).")
}

func TestEngine_GetRecommendations_MonitoringInactive(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })

	// Seeded record without a registration: the loop was never started.
	h.store.Upsert(monitor.Endpoint{
		URL:    "https://api.example.com",
		Config: monitor.CheckConfig{}.WithDefaults(),
		State:  monitor.StateHealthy,
	})

	recs := h.engine.GetRecommendations()
	assert.Contains(t, recs, "Health monitoring is not active. Check system configuration.")
}

func TestEngine_GetAlerts_DefaultLimit(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return connectionFailedOutcome() })

	h.register(t, "api.example.com", 1)
	h.waitParked()
	for i := 0; i < 14; i++ {
		h.tickOnce()
	}

	require.Len(t, h.engine.GetAlerts(0), 10, "non-positive limit falls back to 10")
	assert.Len(t, h.engine.GetAlerts(5), 5)
	assert.Len(t, h.engine.GetAlerts(100), 15)
}

func TestEngine_StopAndRestart(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })

	h.register(t, "api.example.com", 3)
	h.waitParked()
	require.True(t, h.engine.MonitoringActive())

	stopErr := make(chan error, 1)
	go func() { stopErr <- h.engine.Stop(context.Background()) }()

	// The stop flag lands before the wake-up so the loop observes it at the
	// next tick boundary.
	require.Eventually(t, func() bool { return !h.engine.MonitoringActive() },
		2*time.Second, 10*time.Millisecond)
	h.clock.Advance(testTick)

	select {
	case err := <-stopErr:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for cooperative stop")
	}
	assert.False(t, h.engine.MonitoringActive())

	// A later registration starts a fresh loop.
	h.register(t, "web.example.com", 3)
	assert.True(t, h.engine.MonitoringActive())
	h.waitParked()
}

func TestEngine_StopTimeoutCancelsLoop(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })

	h.register(t, "api.example.com", 3)
	h.waitParked()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := h.engine.Stop(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, h.engine.MonitoringActive())
}

func TestEngine_StopWithoutStart(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })
	assert.NoError(t, h.engine.Stop(context.Background()))
}

func TestEngine_ConcurrentConfigurationCalls(t *testing.T) {
	h := newEngineHarness(t, func(string) monitor.Outcome { return successOutcome(100) })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.engine.AddTrafficRule("/api/*", "pool", 50, "")
			_, _ = h.engine.AddAutoScaleRule("cpu", 80, "scale_up", 0)
			h.engine.GetStatus("")
			h.engine.GetRecommendations()
		}()
	}
	wg.Wait()

	metrics := h.engine.Metrics()
	assert.Equal(t, uint64(8), metrics.TrafficRulesCreated)
	assert.Equal(t, uint64(8), metrics.AutoScaleTriggers)
	assert.Equal(t, 8, h.engine.GetStatus("").System.TrafficRules)
}
