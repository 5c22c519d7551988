// Package perf measures component init, render and patch phases as
// OpenTelemetry spans. Measurement is off unless enabled, matching
// observer.Config.Performance.
package perf

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "reactor"

// Phase is a measured section of a component's life.
type Phase string

const (
	PhaseInit   Phase = "init"
	PhaseRender Phase = "render"
	PhasePatch  Phase = "patch"
)

type config struct {
	tracerName string
	provider   trace.TracerProvider
}

type Option func(*config)

// WithTracerName sets the tracer name (default: "reactor").
func WithTracerName(name string) Option {
	return func(c *config) {
		c.tracerName = name
	}
}

// WithTracerProvider uses tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		c.provider = tp
	}
}

// Tracer starts phase spans. The zero value and a nil *Tracer measure
// nothing.
type Tracer struct {
	tracer trace.Tracer
}

// New returns a Tracer, or nil when enabled is false.
func New(enabled bool, opts ...Option) *Tracer {
	if !enabled {
		return nil
	}
	cfg := config{tracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.provider == nil {
		return &Tracer{tracer: otel.Tracer(cfg.tracerName)}
	}
	return &Tracer{tracer: cfg.provider.Tracer(cfg.tracerName)}
}

// Enabled reports whether Start records spans.
func (t *Tracer) Enabled() bool {
	return t != nil && t.tracer != nil
}

// Measure ends a span started by Start. A non-nil error marks the span
// failed.
type Measure func(err error)

func noopMeasure(error) {}

// SpanName returns the span name used for a component phase, for example
// "reactor Counter render".
func SpanName(component string, phase Phase) string {
	if component == "" {
		component = "<Anonymous>"
	}
	return fmt.Sprintf("%s %s %s", defaultTracerName, component, phase)
}

// Start opens a span for one phase of the component identified by uid.
func (t *Tracer) Start(ctx context.Context, component string, uid uint64, phase Phase) (context.Context, Measure) {
	if !t.Enabled() {
		return ctx, noopMeasure
	}
	spanCtx, span := t.tracer.Start(ctx, SpanName(component, phase),
		trace.WithAttributes(
			attribute.String("reactor.component", component),
			attribute.Int64("reactor.uid", int64(uid)),
			attribute.String("reactor.phase", string(phase)),
		),
		trace.WithTimestamp(time.Now()),
	)
	return spanCtx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}
