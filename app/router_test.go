package app

import (
	"context"
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	good := &weavetest.Handler{}
	bad := &weavetest.Handler{CheckErr: errors.ErrAmount, DeliverErr: errors.ErrAmount}
	r.Handle(&weavetest.Msg{RoutePath: "test/good"}, good)
	r.Handle(&weavetest.Msg{RoutePath: "test/bad"}, bad)

	ctx := context.Background()
	db := store.MemStore()

	cases := map[string]struct {
		tx      *weavetest.Tx
		wantErr *errors.Error
	}{
		"registered path": {
			tx: &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/good"}},
		},
		"handler error": {
			tx:      &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/bad"}},
			wantErr: errors.ErrAmount,
		},
		"unknown path": {
			tx:      &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/missing"}},
			wantErr: errors.ErrNotFound,
		},
		"no message": {
			tx:      &weavetest.Tx{},
			wantErr: errors.ErrMsg,
		},
		"broken transaction": {
			tx:      &weavetest.Tx{Err: errors.ErrInput},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if _, err := r.Check(ctx, db, tc.tx); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			if _, err := r.Deliver(ctx, db, tc.tx); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
		})
	}

	assert.Equal(t, 2, good.CallCount())
	assert.Equal(t, 2, bad.CallCount())
}

func TestRouterRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle(&weavetest.Msg{RoutePath: "escrow/create"}, &weavetest.Handler{})

	require.Panics(t, func() {
		r.Handle(&weavetest.Msg{RoutePath: "escrow/create"}, &weavetest.Handler{})
	}, "duplicated path")
	require.Panics(t, func() {
		r.Handle(&weavetest.Msg{RoutePath: "Escrow Create"}, &weavetest.Handler{})
	}, "invalid path")
	require.Panics(t, func() {
		r.Handle(&weavetest.Msg{RoutePath: "create"}, &weavetest.Handler{})
	}, "missing extension")
}
