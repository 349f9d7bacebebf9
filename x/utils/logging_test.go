package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	ctx := custody.WithLogger(context.Background(), log.NewTMLogger(log.NewSyncWriter(&buf)))
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/create"}}

	h := &weavetest.Handler{DeliverResult: custody.DeliverResult{Log: "created"}}
	_, err := NewLogging().Deliver(ctx, store.MemStore(), tx, h)
	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "created")
	assert.Contains(t, out, "request=")
	assert.Contains(t, out, "path=escrow/create")

	buf.Reset()
	h = &weavetest.Handler{CheckErr: errors.ErrUnauthorized}
	_, err = NewLogging().Check(ctx, store.MemStore(), tx, h)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Contains(t, buf.String(), "unauthorized")
}
