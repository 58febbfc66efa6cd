package observability

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	requestCounter  otelmetric.Int64Counter
	requestDuration otelmetric.Float64Histogram
}

// New wires an OpenTelemetry meter provider to the prometheus exporter, which
// registers with the default prometheus registry served on /metrics.
// On exporter failure it returns an inert value whose Record methods are no-ops.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	return newWithProvider(provider, serviceName), nil
}

func newWithProvider(provider *metric.MeterProvider, serviceName string) *Observability {
	meter := provider.Meter(serviceName)

	requestCounter, _ := meter.Int64Counter(
		"http.requests",
		otelmetric.WithDescription("Number of HTTP requests served"),
	)

	requestDuration, _ := meter.Float64Histogram(
		"http.request.duration",
		otelmetric.WithDescription("HTTP request duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		requestCounter:  requestCounter,
		requestDuration: requestDuration,
	}
}

func (o *Observability) RecordRequest(ctx context.Context, route string, status int) {
	if o == nil || o.requestCounter == nil {
		return
	}
	o.requestCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	))
}

func (o *Observability) RecordRequestDuration(ctx context.Context, route string, duration time.Duration, status int) {
	if o == nil || o.requestDuration == nil {
		return
	}
	o.requestDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
