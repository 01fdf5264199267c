package provider

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/trafficwarden/trafficwarden/internal/provider"

// Metrics holds the OpenTelemetry instruments for intent delivery.
type Metrics struct {
	deliveryDuration metric.Float64Histogram
	deliveryTotal    metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with initialized instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	deliveryDuration, err := meter.Float64Histogram(
		"provider.delivery.duration",
		metric.WithDescription("Duration of intent deliveries in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	deliveryTotal, err := meter.Int64Counter(
		"provider.delivery.total",
		metric.WithDescription("Total number of intent deliveries"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		deliveryDuration: deliveryDuration,
		deliveryTotal:    deliveryTotal,
	}, nil
}

// RecordDelivery records one delivery attempt. Safe to call on a nil receiver
// so adapters work without telemetry configured.
func (m *Metrics) RecordDelivery(ctx context.Context, adapter string, kind IntentKind, seconds float64, err error) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("adapter", adapter),
		attribute.String("kind", string(kind)),
	}
	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}
	opt := metric.WithAttributes(attrs...)
	m.deliveryDuration.Record(ctx, seconds, opt)
	m.deliveryTotal.Add(ctx, 1, opt)
}
