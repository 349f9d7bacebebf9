package utils

import (
	"github.com/iov-one/custody"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of spans created by Tracing.
const TracerName = "github.com/iov-one/custody"

// Tracing is a decorator that opens a span for every processed
// transaction. Handlers can create child spans from the context.
type Tracing struct {
	tracer trace.Tracer
}

var _ custody.Decorator = Tracing{}

// NewTracing creates a Tracing decorator using the global tracer provider.
func NewTracing() Tracing {
	return NewTracingWith(otel.GetTracerProvider())
}

// NewTracingWith creates a Tracing decorator using given provider.
func NewTracingWith(tp trace.TracerProvider) Tracing {
	return Tracing{tracer: tp.Tracer(TracerName)}
}

// Check wraps the call in a "check" span.
func (t Tracing) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	ctx, span := t.start(ctx, tx, "check")
	defer span.End()
	res, err := next.Check(ctx, store, tx)
	recordResult(span, err)
	return res, err
}

// Deliver wraps the call in a "deliver" span.
func (t Tracing) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	ctx, span := t.start(ctx, tx, "deliver")
	defer span.End()
	res, err := next.Deliver(ctx, store, tx)
	recordResult(span, err)
	return res, err
}

func (t Tracing) start(ctx custody.Context, tx custody.Tx, call string) (custody.Context, trace.Span) {
	path := custody.GetPath(tx)
	attrs := []attribute.KeyValue{
		attribute.String("path", path),
		attribute.String("call", call),
	}
	if h, ok := custody.GetHeight(ctx); ok {
		attrs = append(attrs, attribute.Int64("height", h))
	}
	return t.tracer.Start(ctx, call+" "+path, trace.WithAttributes(attrs...))
}

func recordResult(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
