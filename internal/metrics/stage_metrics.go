// Package metrics records pipeline stage metrics through OpenTelemetry.
package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "logo-studio/pipeline"

// StageMetrics counts stage calls and failures and records their durations
type StageMetrics struct {
	callsCounter      metric.Int64Counter
	failuresCounter   metric.Int64Counter
	durationHistogram metric.Float64Histogram
	activeGauge       metric.Int64UpDownCounter
}

// NewStageMetrics creates stage instruments on the global meter provider
func NewStageMetrics() (*StageMetrics, error) {
	return NewStageMetricsWithMeter(otel.Meter(meterName))
}

// NewStageMetricsWithMeter creates stage instruments on the given meter
func NewStageMetricsWithMeter(meter metric.Meter) (*StageMetrics, error) {
	calls, err := meter.Int64Counter(
		"logo_studio.stage.calls",
		metric.WithDescription("Total number of pipeline stage invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"logo_studio.stage.failures",
		metric.WithDescription("Total number of failed pipeline stage invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"logo_studio.stage.duration",
		metric.WithDescription("Duration of pipeline stage invocations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter(
		"logo_studio.stage.active",
		metric.WithDescription("Number of stage invocations in flight"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return &StageMetrics{
		callsCounter:      calls,
		failuresCounter:   failures,
		durationHistogram: duration,
		activeGauge:       active,
	}, nil
}

// RecordStart marks a stage invocation as in flight
func (m *StageMetrics) RecordStart(ctx context.Context, stage string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("stage", stage))
	m.callsCounter.Add(ctx, 1, attrs)
	m.activeGauge.Add(ctx, 1, attrs)
}

// RecordFinish records the outcome of a stage invocation. kind is empty on success.
func (m *StageMetrics) RecordFinish(ctx context.Context, stage, kind string, duration time.Duration) {
	if m == nil {
		return
	}
	status := "completed"
	if kind != "" {
		status = "failed"
		m.failuresCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("error.kind", kind),
		))
	}
	m.durationHistogram.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
	m.activeGauge.Add(ctx, -1, metric.WithAttributes(attribute.String("stage", stage)))
}
