package app

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

func TestBaseAppTransactions(t *testing.T) {
	decoder := func(raw []byte) (custody.Tx, error) {
		switch string(raw) {
		case "panic":
			panic("cannot parse")
		case "broken":
			return nil, errors.Wrap(errors.ErrInput, "broken tx")
		}
		return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/" + string(raw)}}, nil
	}

	cases := map[string]struct {
		raw        string
		handler    *weavetest.Handler
		wantCode   uint32
		wantStored bool
	}{
		"success": {
			raw: "ok",
			handler: &weavetest.Handler{
				DeliverResult: custody.DeliverResult{Data: []byte("result")},
				WriteKey:      []byte("written"),
				WriteValue:    []byte("yes"),
			},
			wantStored: true,
		},
		"handler failure": {
			raw:      "fail",
			handler:  &weavetest.Handler{CheckErr: errors.ErrAmount, DeliverErr: errors.ErrAmount},
			wantCode: errors.ErrAmount.ABCICode(),
		},
		"decoder failure": {
			raw:      "broken",
			handler:  &weavetest.Handler{},
			wantCode: errors.ErrInput.ABCICode(),
		},
		"decoder panic": {
			raw:      "panic",
			handler:  &weavetest.Handler{},
			wantCode: errors.ErrPanic.ABCICode(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			store, cleanup := newStoreApp(t)
			defer cleanup()
			base := NewBaseApp(store, decoder, tc.handler, true)

			cres := base.CheckTx([]byte(tc.raw))
			assert.Equal(t, tc.wantCode, cres.Code, cres.Log)

			dres := base.DeliverTx([]byte(tc.raw))
			assert.Equal(t, tc.wantCode, dres.Code, dres.Log)
			if tc.wantCode == 0 {
				assert.Equal(t, []byte("result"), dres.Data)
				assert.Equal(t, 1, tc.handler.DeliverCallCount())
			} else if tc.raw != "fail" {
				assert.Equal(t, 0, tc.handler.CallCount())
			}

			base.Commit()
			res := base.Query(abci.RequestQuery{Path: "/", Data: []byte("written")})
			require.Equal(t, uint32(0), res.Code, res.Log)
			var values ResultSet
			require.NoError(t, values.Unmarshal(res.Value))
			if tc.wantStored {
				assert.Equal(t, [][]byte{[]byte("yes")}, values.Results)
			} else {
				assert.Empty(t, values.Results)
			}
		})
	}
}
