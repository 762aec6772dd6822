package substate

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for engine spans.
const defaultTracerName = "github.com/vango-dev/substate"

// Config configures an Engine.
type Config struct {
	// InitialValue seeds the store. The map is copied; later changes to it
	// do not reach the engine.
	InitialValue Store

	// Logger is the structured logger for the engine.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Registerer receives the engine's Prometheus collectors.
	// If nil, no metrics are collected. Engines sharing a Registerer share
	// their collectors.
	Registerer prometheus.Registerer

	// Namespace is the metrics namespace (default: "substate").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// WholeStoreFanOut makes key updates notify whole-store listeners too,
	// after the key's own listeners. Whole-store updates never notify key
	// listeners.
	WholeStoreFanOut bool

	// Tracer opens the spans of UpdateContext.
	// If nil, the global OpenTelemetry tracer provider is used.
	Tracer trace.Tracer
}

// Option configures an Engine.
type Option func(*Config)

// WithInitialValue seeds the store with initial.
func WithInitialValue(initial Store) Option {
	return func(c *Config) {
		c.InitialValue = initial
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithRegisterer enables metrics on the given Prometheus registerer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registerer = reg
	}
}

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithWholeStoreFanOut makes whole-store listeners see every update.
func WithWholeStoreFanOut() Option {
	return func(c *Config) {
		c.WholeStoreFanOut = true
	}
}

// WithTracer sets the tracer used by UpdateContext.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = tracer
	}
}

// withDefaults fills the unset fields of c.
func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Namespace == "" {
		c.Namespace = "substate"
	}
	if c.Tracer == nil {
		c.Tracer = otel.Tracer(defaultTracerName)
	}
	return c
}
