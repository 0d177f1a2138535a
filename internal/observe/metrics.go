// Package observe holds the OpenTelemetry instruments recorded by the effect
// pipeline.
//
// Library code takes a [*Metrics] built by [NewMetrics] from any
// [metric.MeterProvider]. [Noop] is the default when no provider is wired;
// tests should use an sdk ManualReader to inspect recorded values.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/cwbudde/regionfx"

// Status attribute values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the pipeline instruments. All fields are safe for
// concurrent use.
type Metrics struct {
	// StepDuration tracks wall time of one decode-process-encode step. Use with
	// attributes effect and status.
	StepDuration metric.Float64Histogram

	// CodecDuration tracks decode and encode latency. Use with attribute op.
	CodecDuration metric.Float64Histogram

	// Steps counts finished steps by effect and status.
	Steps metric.Int64Counter

	// SamplesProcessed counts region samples passed through an effect.
	SamplesProcessed metric.Int64Counter

	// SilentSteps counts steps whose output was silent and left
	// unnormalized.
	SilentSteps metric.Int64Counter
}

var durationBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates all instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.StepDuration, err = m.Float64Histogram("regionfx.step.duration",
		metric.WithDescription("Latency of one effect step including decode and encode."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	if met.CodecDuration, err = m.Float64Histogram("regionfx.codec.duration",
		metric.WithDescription("Latency of audio decode and encode by operation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Steps, err = m.Int64Counter("regionfx.steps",
		metric.WithDescription("Total effect steps by effect and status."),
	); err != nil {
		return nil, err
	}
	if met.SamplesProcessed, err = m.Int64Counter("regionfx.samples.processed",
		metric.WithDescription("Region samples processed by effect."),
	); err != nil {
		return nil, err
	}
	if met.SilentSteps, err = m.Int64Counter("regionfx.steps.silent",
		metric.WithDescription("Steps whose output track was silent."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// Noop returns instruments that record nothing.
func Noop() *Metrics {
	m, err := NewMetrics(noop.NewMeterProvider())
	if err != nil {
		panic("observe: noop metrics: " + err.Error())
	}
	return m
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a package-level instance bound to the global
// provider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordStep records one finished step.
func (m *Metrics) RecordStep(ctx context.Context, effect, status string, seconds float64, samples int) {
	attrs := metric.WithAttributes(
		attribute.String("effect", effect),
		attribute.String("status", status),
	)
	m.StepDuration.Record(ctx, seconds, attrs)
	m.Steps.Add(ctx, 1, attrs)
	if samples > 0 {
		m.SamplesProcessed.Add(ctx, int64(samples), metric.WithAttributes(attribute.String("effect", effect)))
	}
}

// RecordCodec records a decode or encode.
func (m *Metrics) RecordCodec(ctx context.Context, op string, seconds float64) {
	m.CodecDuration.Record(ctx, seconds, metric.WithAttributes(attribute.String("op", op)))
}

// RecordSilent counts a silent output.
func (m *Metrics) RecordSilent(ctx context.Context, effect string) {
	m.SilentSteps.Add(ctx, 1, metric.WithAttributes(attribute.String("effect", effect)))
}
