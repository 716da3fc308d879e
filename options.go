package dagtui

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// EngineOption configures the Engine.
type EngineOption func(*engineConfig)

// engineConfig holds configuration for an Engine instance.
type engineConfig struct {
	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter
	idGen  func() string
}

// WithLogger sets a custom logger for the engine.
// If not provided, a default JSON logger writing to stdout is created.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for the engine.
// When set, mutations and recomputation runs are recorded as spans.
func WithTracer(tracer trace.Tracer) EngineOption {
	return func(c *engineConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter for the engine.
// When set, the engine records counters for recomputation runs and the
// field updates they write.
func WithMeter(meter metric.Meter) EngineOption {
	return func(c *engineConfig) {
		c.meter = meter
	}
}

// WithIDGenerator sets the generator used to assign ids to causes and
// outcomes created without an explicit id. The default generates UUIDs.
func WithIDGenerator(gen func() string) EngineOption {
	return func(c *engineConfig) {
		c.idGen = gen
	}
}
