package utils

import (
	"context"
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	tr := NewTracingWith(tp)
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/payer_cancel"}}

	_, err := tr.Check(context.Background(), store.MemStore(), tx, &weavetest.Handler{})
	require.NoError(t, err)
	_, err = tr.Deliver(context.Background(), store.MemStore(), tx, &weavetest.Handler{DeliverErr: errors.ErrNotFound})
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "check escrow/payer_cancel", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, "deliver escrow/payer_cancel", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
