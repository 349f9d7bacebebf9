package escrow

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/weavetest"
	"github.com/iov-one/custody/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	payer := weavetest.RandomAddr(t)
	receiver := weavetest.RandomAddr(t)
	owner := weavetest.RandomAddr(t)

	genesis := `{
		"conf": {
			"escrow": {
				"metadata": {"schema": 1},
				"owner": "` + owner.String() + `",
				"allow_zero_amount": true
			}
		},
		"escrow": [
			{
				"payer": "` + payer.String() + `",
				"receiver": "` + receiver.String() + `",
				"amount": {"whole": 3, "ticker": "IOV"}
			}
		]
	}`
	var opts custody.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	ctrl := cash.NewController(cash.NewBucket())
	require.NoError(t, (&Initializer{Minter: ctrl}).FromGenesis(opts, db))

	conf, err := loadConf(db)
	require.NoError(t, err)
	assert.True(t, conf.AllowZeroAmount)
	assert.Equal(t, owner, conf.Owner)

	machine := NewMachine(NewCashLedger(ctrl))
	esc, err := machine.Get(db, receiver, payer)
	require.NoError(t, err)
	assert.Equal(t, Deposited, esc.State)
	assert.Equal(t, uint32(MaxNonce), esc.Nonce)

	held, err := machine.Custodied(db, esc)
	require.NoError(t, err)
	assert.True(t, coin.Coins{coin.NewCoinp(3, 0, "IOV")}.Equals(held))
}

func TestGenesisErrors(t *testing.T) {
	addr := weavetest.RandomAddr(t).String()

	cases := map[string]struct {
		genesis string
		minter  cash.Controller
		wantErr *errors.Error
	}{
		"nothing to load": {
			genesis: `{}`,
		},
		"no minter": {
			genesis: `{"escrow": [{"payer": "` + addr + `", "receiver": "` + addr + `", "amount": {"whole": 1, "ticker": "IOV"}}]}`,
			wantErr: errors.ErrState,
		},
		"zero amount not allowed": {
			genesis: `{"escrow": [{"payer": "` + addr + `", "receiver": "` + addr + `", "amount": {"ticker": "IOV"}}]}`,
			minter:  cash.NewController(cash.NewBucket()),
			wantErr: errors.ErrAmount,
		},
		"duplicated pair": {
			genesis: `{"escrow": [
				{"payer": "` + addr + `", "receiver": "` + addr + `", "amount": {"whole": 1, "ticker": "IOV"}},
				{"payer": "` + addr + `", "receiver": "` + addr + `", "amount": {"whole": 1, "ticker": "IOV"}}
			]}`,
			minter:  cash.NewController(cash.NewBucket()),
			wantErr: errors.ErrDuplicate,
		},
		"invalid configuration": {
			genesis: `{"conf": {"escrow": {"metadata": {"schema": 1}}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts custody.Options
			require.NoError(t, json.Unmarshal([]byte(tc.genesis), &opts))
			err := (&Initializer{Minter: tc.minter}).FromGenesis(opts, store.MemStore())
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
		})
	}
}
