package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/odvcencio/dispatch/pkg/dispatch"
)

// MetricsMiddleware records dispatch counts and reducer latency.
// Dispatch is serialized by the store, so a single start time suffices.
type MetricsMiddleware[A dispatch.Action] struct {
	start time.Time
}

// NewMetricsMiddleware creates a metrics middleware.
func NewMetricsMiddleware[A dispatch.Action]() *MetricsMiddleware[A] {
	return &MetricsMiddleware[A]{}
}

func (m *MetricsMiddleware[A]) Before(action A) {
	ActionsDispatched.WithLabelValues(action.Name()).Inc()
	m.start = time.Now()
}

func (m *MetricsMiddleware[A]) After(_ A, changed bool) {
	DispatchDuration.Observe(time.Since(m.start).Seconds())
	if changed {
		StateChanges.Inc()
	}
}

// TracingMiddleware opens one span per dispatch.
type TracingMiddleware[A dispatch.Action] struct {
	tracer trace.Tracer
	span   trace.Span
}

// NewTracingMiddleware creates a tracing middleware. A nil tracer uses the
// package tracer from the global provider.
func NewTracingMiddleware[A dispatch.Action](tracer trace.Tracer) *TracingMiddleware[A] {
	if tracer == nil {
		tracer = Tracer()
	}
	return &TracingMiddleware[A]{tracer: tracer}
}

func (m *TracingMiddleware[A]) Before(action A) {
	attrs := []attribute.KeyValue{AttrActionName.String(action.Name())}
	if cat := dispatch.Category(action); cat != "" {
		attrs = append(attrs, AttrActionCategory.String(cat))
	}
	_, m.span = m.tracer.Start(context.Background(), "dispatch "+action.Name(), trace.WithAttributes(attrs...))
}

func (m *TracingMiddleware[A]) After(_ A, changed bool) {
	if m.span == nil {
		return
	}
	m.span.SetAttributes(AttrStateChanged.Bool(changed))
	m.span.SetStatus(codes.Ok, "")
	m.span.End()
	m.span = nil
}
