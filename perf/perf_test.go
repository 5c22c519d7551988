package perf_test

import (
	"context"
	"errors"
	"testing"

	"github.com/delaneyj/reactor/perf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordedSpan struct {
	name   string
	status codes.Code
	ended  bool
	errs   []error
}

type recorder struct {
	noop.TracerProvider
	tracerName string
	spans      []*recordedSpan
}

func (r *recorder) Tracer(name string, _ ...trace.TracerOption) trace.Tracer {
	r.tracerName = name
	return &recordingTracer{r: r}
}

type recordingTracer struct {
	noop.Tracer
	r *recorder
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	rs := &recordedSpan{name: name}
	t.r.spans = append(t.r.spans, rs)
	ctx, _ = t.Tracer.Start(ctx, name, opts...)
	return ctx, &recordingSpan{rs: rs}
}

type recordingSpan struct {
	noop.Span
	rs *recordedSpan
}

func (s *recordingSpan) SetStatus(code codes.Code, _ string) {
	s.rs.status = code
}

func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) {
	s.rs.errs = append(s.rs.errs, err)
}

func (s *recordingSpan) End(...trace.SpanEndOption) {
	s.rs.ended = true
}

func TestDisabledTracerMeasuresNothing(t *testing.T) {
	var tr *perf.Tracer
	assert.False(t, tr.Enabled())
	assert.Nil(t, perf.New(false))

	ctx := context.Background()
	got, end := tr.Start(ctx, "Comp", 1, perf.PhaseInit)
	assert.Equal(t, ctx, got)
	assert.NotPanics(t, func() { end(nil) })
}

func TestTracerRecordsPhaseSpans(t *testing.T) {
	rec := &recorder{}
	tr := perf.New(true, perf.WithTracerProvider(rec), perf.WithTracerName("app"))
	require.True(t, tr.Enabled())
	assert.Equal(t, "app", rec.tracerName)

	_, end := tr.Start(context.Background(), "Counter", 7, perf.PhaseRender)
	end(nil)
	boom := errors.New("boom")
	_, end = tr.Start(context.Background(), "", 8, perf.PhasePatch)
	end(boom)

	require.Len(t, rec.spans, 2)
	assert.Equal(t, "reactor Counter render", rec.spans[0].name)
	assert.Equal(t, codes.Ok, rec.spans[0].status)
	assert.True(t, rec.spans[0].ended)

	assert.Equal(t, "reactor <Anonymous> patch", rec.spans[1].name)
	assert.Equal(t, codes.Error, rec.spans[1].status)
	assert.Equal(t, []error{boom}, rec.spans[1].errs)
}
