package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Loop scheduling defaults. The tick is deliberately short and independent of
// per-endpoint poll intervals: a due probe fires at the next tick, so probes
// may run up to one tick late. That slack is the documented scheduling
// resolution of the loop, not a defect.
const (
	DefaultTick      = 2 * time.Second
	DefaultIdleSleep = 5 * time.Second
)

// LoopConfig holds configuration for the monitor loop.
type LoopConfig struct {
	Store  Store
	Prober Prober

	// OnOutcome is invoked synchronously with each probe result, before the
	// next endpoint is probed. The callback owns applying the outcome to the
	// store and executing any resulting effects.
	OnOutcome func(url string, out Outcome)

	// Clock defaults to the real clock; tests inject a fake.
	Clock clockwork.Clock

	// Tick is the pause between scheduling passes (default 2s). IdleSleep is
	// the longer pause used while no endpoints are registered (default 5s).
	Tick      time.Duration
	IdleSleep time.Duration

	Metrics *Metrics
	Logger  zerolog.Logger
}

// Loop is the single background scheduler that probes registered endpoints.
// Each pass snapshots the store, probes every endpoint whose poll interval
// has elapsed, and hands outcomes to the OnOutcome callback one at a time.
//
// Stopping is cooperative: Stop sets a flag that the loop observes at the
// next tick boundary, never mid-probe. Done is closed once the loop goroutine
// has fully exited.
type Loop struct {
	store     Store
	prober    Prober
	onOutcome func(url string, out Outcome)
	clock     clockwork.Clock
	tick      time.Duration
	idleSleep time.Duration
	metrics   *Metrics
	logger    zerolog.Logger

	started  atomic.Bool
	stopping atomic.Bool
	done     chan struct{}
}

// NewLoop creates a monitor loop. Zero config fields fall back to defaults.
func NewLoop(cfg LoopConfig) *Loop {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	tick := cfg.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	idleSleep := cfg.IdleSleep
	if idleSleep <= 0 {
		idleSleep = DefaultIdleSleep
	}
	return &Loop{
		store:     cfg.Store,
		prober:    cfg.Prober,
		onOutcome: cfg.OnOutcome,
		clock:     clock,
		tick:      tick,
		idleSleep: idleSleep,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With().Str("component", "monitor_loop").Logger(),
	}
}

// Start launches the loop goroutine. Only the first call starts anything;
// later calls report false. The loop exits when Stop is called or ctx is
// cancelled.
func (l *Loop) Start(ctx context.Context) bool {
	if !l.started.CompareAndSwap(false, true) {
		return false
	}
	l.done = make(chan struct{})
	go l.run(ctx)
	return true
}

// Stop requests a cooperative shutdown. The loop finishes its current pass
// and exits at the next tick boundary.
func (l *Loop) Stop() {
	l.stopping.Store(true)
}

// Done returns a channel closed once the loop goroutine has exited.
// It returns nil if the loop was never started.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Running reports whether the loop has been started and not yet stopped.
func (l *Loop) Running() bool {
	return l.started.Load() && !l.stopping.Load()
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.done)
	defer l.logger.Info().Msg("monitor loop stopped")
	l.logger.Info().
		Dur("tick", l.tick).
		Dur("idle_sleep", l.idleSleep).
		Msg("monitor loop started")

	for {
		if l.stopping.Load() {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		endpoints := l.store.List()
		if len(endpoints) == 0 {
			if !l.sleep(ctx, l.idleSleep) {
				return
			}
			continue
		}

		now := l.clock.Now()
		for _, ep := range endpoints {
			if !probeDue(ep, now) {
				continue
			}
			l.checkOne(ctx, ep)
		}

		if !l.sleep(ctx, l.tick) {
			return
		}
	}
}

// probeDue reports whether ep's poll interval has elapsed since its last
// probe. Endpoints that were never probed are always due.
func probeDue(ep Endpoint, now time.Time) bool {
	if ep.LastProbeAt == nil {
		return true
	}
	return now.Sub(*ep.LastProbeAt) >= ep.Config.PollInterval
}

// checkOne probes a single endpoint and delivers the outcome. A panic from
// the prober or the callback is contained here so one endpoint cannot abort
// the pass for the others.
func (l *Loop) checkOne(ctx context.Context, ep Endpoint) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().
				Str("endpoint", ep.URL).
				Interface("panic", r).
				Msg("probe panicked, continuing with remaining endpoints")
		}
	}()

	start := l.clock.Now()
	out := l.prober.Probe(ctx, ep.URL, ep.Config)
	l.metrics.RecordProbe(ctx, ep.URL, out.Kind, l.clock.Since(start).Seconds())

	if out.Failed() {
		l.logger.Debug().
			Str("endpoint", ep.URL).
			Str("outcome", string(out.Kind)).
			Int("status", out.StatusCode).
			Msg("probe failed")
	}

	l.onOutcome(ep.URL, out)
}

func (l *Loop) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-l.clock.After(d):
		return true
	}
}
