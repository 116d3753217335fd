package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records pixel metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvent records one handled lifecycle event with its duration
	// and fault status.
	RecordEvent(ctx context.Context, eventName string, duration time.Duration, err error)

	// RecordPush records one data layer push and the resulting queue depth.
	RecordPush(ctx context.Context, event string, queueDepth int)

	// RecordInjection records a container bootstrap attempt.
	RecordInjection(ctx context.Context, injected bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	eventsHandled metric.Int64Counter
	eventLatency  metric.Float64Histogram
	eventFaults   metric.Int64Counter
	pushes        metric.Int64Counter
	queueDepth    metric.Int64Histogram
	injections    metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("gtmkit")

	eventsHandled, err := meter.Int64Counter("gtmkit.events.handled",
		metric.WithDescription("Number of lifecycle events handled"),
	)
	if err != nil {
		return nil, err
	}

	eventLatency, err := meter.Float64Histogram("gtmkit.events.latency_ms",
		metric.WithDescription("Handler latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	eventFaults, err := meter.Int64Counter("gtmkit.events.faults",
		metric.WithDescription("Number of handler faults"),
	)
	if err != nil {
		return nil, err
	}

	pushes, err := meter.Int64Counter("gtmkit.datalayer.pushes",
		metric.WithDescription("Number of records pushed to the data layer"),
	)
	if err != nil {
		return nil, err
	}

	queueDepth, err := meter.Int64Histogram("gtmkit.datalayer.depth",
		metric.WithDescription("Data layer queue depth after each push"),
	)
	if err != nil {
		return nil, err
	}

	injections, err := meter.Int64Counter("gtmkit.container.injections",
		metric.WithDescription("Container bootstrap attempts"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		eventsHandled: eventsHandled,
		eventLatency:  eventLatency,
		eventFaults:   eventFaults,
		pushes:        pushes,
		queueDepth:    queueDepth,
		injections:    injections,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEvent records one handled lifecycle event.
func (m *otelMetrics) RecordEvent(ctx context.Context, eventName string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("event", eventName),
	}

	m.eventsHandled.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.eventLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.eventFaults.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordPush records one data layer push.
func (m *otelMetrics) RecordPush(ctx context.Context, event string, queueDepth int) {
	attrs := []attribute.KeyValue{
		attribute.String("event", event),
	}
	m.pushes.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.queueDepth.Record(ctx, int64(queueDepth), metric.WithAttributes(attrs...))
}

// RecordInjection records a container bootstrap attempt.
func (m *otelMetrics) RecordInjection(ctx context.Context, injected bool) {
	m.injections.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("injected", injected),
	))
}
