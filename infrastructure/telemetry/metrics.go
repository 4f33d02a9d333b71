// Package telemetry provides OpenTelemetry metrics for the multistate
// engine.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	executions metric.Int64Counter
	commits    metric.Int64Counter
	rollbacks  metric.Int64Counter
	searches   metric.Int64Counter
	errors     metric.Int64Counter

	// Histograms
	executionDuration metric.Float64Histogram
	searchDuration    metric.Float64Histogram
	pathCost          metric.Float64Histogram

	// Gauges (using UpDownCounter for OpenTelemetry)
	activeStates metric.Int64UpDownCounter

	initOnce sync.Once
	initErr  error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter (default: "github.com/felixgeelhaar/multistate").
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
	// Attributes are default attributes to attach to all metrics.
	Attributes []attribute.KeyValue
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/multistate",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config = DefaultMetricsConfig()
	}

	provider := otel.GetMeterProvider()
	meter := provider.Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{
		meter: meter,
	}

	mp.initOnce.Do(func() {
		mp.initErr = mp.initInstruments()
	})

	return mp
}

// initInstruments initializes all metric instruments.
func (mp *MetricsProvider) initInstruments() error {
	var err error

	// Counters
	mp.executions, err = mp.meter.Int64Counter(
		"multistate.transition.executions",
		metric.WithDescription("Number of transition executions"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return err
	}

	mp.commits, err = mp.meter.Int64Counter(
		"multistate.transition.commits",
		metric.WithDescription("Number of committed transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	mp.rollbacks, err = mp.meter.Int64Counter(
		"multistate.transition.rollbacks",
		metric.WithDescription("Number of rolled back transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	mp.searches, err = mp.meter.Int64Counter(
		"multistate.path.searches",
		metric.WithDescription("Number of pathfinding searches"),
		metric.WithUnit("{search}"),
	)
	if err != nil {
		return err
	}

	mp.errors, err = mp.meter.Int64Counter(
		"multistate.errors",
		metric.WithDescription("Number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	// Histograms
	mp.executionDuration, err = mp.meter.Float64Histogram(
		"multistate.transition.duration",
		metric.WithDescription("Duration of transition executions"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.searchDuration, err = mp.meter.Float64Histogram(
		"multistate.path.duration",
		metric.WithDescription("Duration of pathfinding searches"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.pathCost, err = mp.meter.Float64Histogram(
		"multistate.path.cost",
		metric.WithDescription("Total cost of found paths"),
		metric.WithUnit("{cost}"),
	)
	if err != nil {
		return err
	}

	// Gauges (UpDownCounters)
	mp.activeStates, err = mp.meter.Int64UpDownCounter(
		"multistate.states.active",
		metric.WithDescription("Number of currently active states"),
		metric.WithUnit("{state}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordExecution records a transition execution.
func (mp *MetricsProvider) RecordExecution(ctx context.Context, transitionID string, finalPhase string, committed bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("transition.id", transitionID),
		attribute.String("phase.final", finalPhase),
		attribute.Bool("committed", committed),
	}

	mp.executions.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.executionDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if committed {
		mp.commits.Add(ctx, 1, metric.WithAttributes(attribute.String("transition.id", transitionID)))
	} else {
		mp.rollbacks.Add(ctx, 1, metric.WithAttributes(
			attribute.String("transition.id", transitionID),
			attribute.String("phase.final", finalPhase),
		))
	}
}

// RecordSearch records a pathfinding search.
func (mp *MetricsProvider) RecordSearch(ctx context.Context, targets int, found bool, cost float64, steps int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Int("targets", targets),
		attribute.Bool("found", found),
	}

	mp.searches.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.searchDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if found {
		mp.pathCost.Record(ctx, cost, metric.WithAttributes(attribute.Int("steps", steps)))
	}
}

// RecordError records an error.
func (mp *MetricsProvider) RecordError(ctx context.Context, errorType string, details map[string]string) {
	attrs := []attribute.KeyValue{
		attribute.String("error.type", errorType),
	}
	for k, v := range details {
		attrs = append(attrs, attribute.String(k, v))
	}

	mp.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordActiveDelta adjusts the active state gauge after a committed
// transition. A positive delta means states were activated on balance.
func (mp *MetricsProvider) RecordActiveDelta(ctx context.Context, delta int64) {
	if delta != 0 {
		mp.activeStates.Add(ctx, delta)
	}
}

// NoopMetricsProvider is a no-op metrics provider for testing or when
// metrics are disabled.
type NoopMetricsProvider struct{}

// RecordExecution is a no-op.
func (n *NoopMetricsProvider) RecordExecution(ctx context.Context, transitionID string, finalPhase string, committed bool, duration time.Duration) {
}

// RecordSearch is a no-op.
func (n *NoopMetricsProvider) RecordSearch(ctx context.Context, targets int, found bool, cost float64, steps int, duration time.Duration) {
}

// RecordError is a no-op.
func (n *NoopMetricsProvider) RecordError(ctx context.Context, errorType string, details map[string]string) {
}

// RecordActiveDelta is a no-op.
func (n *NoopMetricsProvider) RecordActiveDelta(ctx context.Context, delta int64) {}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordExecution(ctx context.Context, transitionID string, finalPhase string, committed bool, duration time.Duration)
	RecordSearch(ctx context.Context, targets int, found bool, cost float64, steps int, duration time.Duration)
	RecordError(ctx context.Context, errorType string, details map[string]string)
	RecordActiveDelta(ctx context.Context, delta int64)
}

// Ensure implementations satisfy the interface.
var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = (*NoopMetricsProvider)(nil)
)
