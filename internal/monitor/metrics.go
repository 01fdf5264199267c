package monitor

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/trafficwarden/trafficwarden/internal/monitor"

// Metrics holds the OpenTelemetry instruments for the monitor loop.
type Metrics struct {
	probeDuration metric.Float64Histogram
	probeTotal    metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with initialized instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	probeDuration, err := meter.Float64Histogram(
		"monitor.probe.duration",
		metric.WithDescription("Duration of endpoint probes in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	probeTotal, err := meter.Int64Counter(
		"monitor.probe.total",
		metric.WithDescription("Total number of endpoint probes"),
		metric.WithUnit("{probe}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		probeDuration: probeDuration,
		probeTotal:    probeTotal,
	}, nil
}

// RecordProbe records one probe result. Safe to call on a nil receiver so
// the loop works without telemetry configured.
func (m *Metrics) RecordProbe(ctx context.Context, endpoint string, kind OutcomeKind, seconds float64) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", string(kind)),
	)
	m.probeDuration.Record(ctx, seconds, attrs)
	m.probeTotal.Add(ctx, 1, attrs)
}
