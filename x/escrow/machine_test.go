package escrow

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/weavetest"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db       store.CacheableKVStore
	cash     cash.Controller
	machine  Machine
	payer    custody.Address
	receiver custody.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:       store.MemStore(),
		cash:     cash.NewController(cash.NewBucket()),
		payer:    weavetest.NewCondition().Address(),
		receiver: weavetest.NewCondition().Address(),
	}
	f.machine = NewMachine(NewCashLedger(f.cash))
	require.NoError(t, f.cash.CoinMint(f.db, f.payer, coin.NewCoin(100, 0, "IOV")))
	return f
}

func (f *fixture) balance(t *testing.T, addr custody.Address) coin.Coins {
	t.Helper()
	cs, err := NewCashLedger(f.cash).Balance(f.db, addr)
	require.NoError(t, err)
	return cs
}

func (f *fixture) asPayer() x.Permissions    { return x.NewPermissions(f.payer) }
func (f *fixture) asReceiver() x.Permissions { return x.NewPermissions(f.receiver) }

func (f *fixture) create(t *testing.T, amount coin.Coin) *Escrow {
	t.Helper()
	esc, err := f.machine.Initialize(f.db, f.asPayer(), f.payer, f.receiver, amount)
	require.NoError(t, err)
	return esc
}

func TestInitialize(t *testing.T) {
	f := newFixture(t)
	amount := coin.NewCoin(10, 0, "IOV")

	esc := f.create(t, amount)
	assert.Equal(t, Deposited, esc.State)
	assert.Equal(t, uint32(MaxNonce), esc.Nonce)
	assert.Equal(t, CustodyCondition(f.receiver, f.payer, MaxNonce).Address(), esc.Custody)

	assert.True(t, coin.Coins{&amount}.Equals(f.balance(t, esc.Custody)))
	assert.True(t, coin.Coins{coin.NewCoinp(90, 0, "IOV")}.Equals(f.balance(t, f.payer)))

	got, err := f.machine.Get(f.db, f.receiver, f.payer)
	require.NoError(t, err)
	assert.Equal(t, esc, got)
}

func TestCancelRefundsPayer(t *testing.T) {
	f := newFixture(t)
	esc := f.create(t, coin.NewCoin(10, 0, "IOV"))

	refunded, err := f.machine.PayerCancel(f.db, f.asPayer(), f.payer, f.receiver, esc.Nonce)
	require.NoError(t, err)
	assert.True(t, coin.Coins{coin.NewCoinp(10, 0, "IOV")}.Equals(refunded))

	assert.True(t, coin.Coins{coin.NewCoinp(100, 0, "IOV")}.Equals(f.balance(t, f.payer)))
	assert.True(t, f.balance(t, esc.Custody).IsEmpty())

	_, err = f.machine.Get(f.db, f.receiver, f.payer)
	assert.True(t, ErrAccountNotInitialized.Is(err))
}

func TestCancelAfterReceiverConfirm(t *testing.T) {
	f := newFixture(t)
	esc := f.create(t, coin.NewCoin(10, 0, "IOV"))

	_, err := f.machine.ReceiverConfirm(f.db, f.asReceiver(), f.receiver, f.payer, esc.Nonce)
	require.NoError(t, err)

	_, err = f.machine.PayerCancel(f.db, f.asPayer(), f.payer, f.receiver, esc.Nonce)
	assert.True(t, ErrReceiverAlreadyConfirmed.Is(err), "got %+v", err)

	got, err := f.machine.Get(f.db, f.receiver, f.payer)
	require.NoError(t, err)
	assert.Equal(t, ReceiverConfirmed, got.State)
	assert.True(t, coin.Coins{coin.NewCoinp(10, 0, "IOV")}.Equals(f.balance(t, esc.Custody)))
}

func TestFullRelease(t *testing.T) {
	f := newFixture(t)
	esc := f.create(t, coin.NewCoin(7, 500, "IOV"))

	confirmed, err := f.machine.ReceiverConfirm(f.db, f.asReceiver(), f.receiver, f.payer, esc.Nonce)
	require.NoError(t, err)
	assert.Equal(t, ReceiverConfirmed, confirmed.State)

	released, err := f.machine.PayerConfirm(f.db, f.asPayer(), f.payer, f.receiver, esc.Nonce)
	require.NoError(t, err)
	want := coin.Coins{coin.NewCoinp(7, 500, "IOV")}
	assert.True(t, want.Equals(released))
	assert.True(t, want.Equals(f.balance(t, f.receiver)))
	assert.True(t, f.balance(t, esc.Custody).IsEmpty())

	_, err = f.machine.Get(f.db, f.receiver, f.payer)
	assert.True(t, ErrAccountNotInitialized.Is(err))
}

func TestPayerConfirmBeforeReceiver(t *testing.T) {
	f := newFixture(t)
	esc := f.create(t, coin.NewCoin(10, 0, "IOV"))

	_, err := f.machine.PayerConfirm(f.db, f.asPayer(), f.payer, f.receiver, esc.Nonce)
	assert.True(t, ErrReceiverNotYetConfirmed.Is(err), "got %+v", err)

	got, err := f.machine.Get(f.db, f.receiver, f.payer)
	require.NoError(t, err)
	assert.Equal(t, esc, got)
}

func TestDoubleReceiverConfirm(t *testing.T) {
	f := newFixture(t)
	esc := f.create(t, coin.NewCoin(10, 0, "IOV"))

	_, err := f.machine.ReceiverConfirm(f.db, f.asReceiver(), f.receiver, f.payer, esc.Nonce)
	require.NoError(t, err)
	_, err = f.machine.ReceiverConfirm(f.db, f.asReceiver(), f.receiver, f.payer, esc.Nonce)
	assert.True(t, ErrAwaitingPayerConfirmation.Is(err), "got %+v", err)
}

func TestMissingEscrow(t *testing.T) {
	f := newFixture(t)

	cases := map[string]struct {
		run     func() error
		wantErr *errors.Error
	}{
		"payer cancel": {
			run: func() error {
				_, err := f.machine.PayerCancel(f.db, f.asPayer(), f.payer, f.receiver, MaxNonce)
				return err
			},
			wantErr: ErrAccountNotInitialized,
		},
		"receiver confirm": {
			run: func() error {
				_, err := f.machine.ReceiverConfirm(f.db, f.asReceiver(), f.receiver, f.payer, MaxNonce)
				return err
			},
			wantErr: ErrAccountNotInitialized,
		},
		"payer confirm": {
			run: func() error {
				_, err := f.machine.PayerConfirm(f.db, f.asPayer(), f.payer, f.receiver, MaxNonce)
				return err
			},
			wantErr: ErrReceiverNotYetConfirmed,
		},
		"get": {
			run: func() error {
				_, err := f.machine.Get(f.db, f.receiver, f.payer)
				return err
			},
			wantErr: ErrAccountNotInitialized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.run(); !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestDuplicateInitialize(t *testing.T) {
	f := newFixture(t)
	esc := f.create(t, coin.NewCoin(10, 0, "IOV"))

	_, err := f.machine.Initialize(f.db, f.asPayer(), f.payer, f.receiver, coin.NewCoin(20, 0, "IOV"))
	assert.True(t, errors.ErrDuplicate.Is(err), "got %+v", err)

	assert.True(t, coin.Coins{coin.NewCoinp(10, 0, "IOV")}.Equals(f.balance(t, esc.Custody)))
	assert.True(t, coin.Coins{coin.NewCoinp(90, 0, "IOV")}.Equals(f.balance(t, f.payer)))
	// No other custody slot was funded.
	assert.True(t, f.balance(t, CustodyCondition(f.receiver, f.payer, MaxNonce-1).Address()).IsEmpty())
}

func TestUnauthorized(t *testing.T) {
	f := newFixture(t)

	_, err := f.machine.Initialize(f.db, f.asReceiver(), f.payer, f.receiver, coin.NewCoin(10, 0, "IOV"))
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	esc := f.create(t, coin.NewCoin(10, 0, "IOV"))

	_, err = f.machine.PayerCancel(f.db, f.asReceiver(), f.payer, f.receiver, esc.Nonce)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	_, err = f.machine.ReceiverConfirm(f.db, f.asPayer(), f.receiver, f.payer, esc.Nonce)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	_, err = f.machine.ReceiverConfirm(f.db, f.asReceiver(), f.receiver, f.payer, esc.Nonce)
	require.NoError(t, err)
	_, err = f.machine.PayerConfirm(f.db, f.asReceiver(), f.payer, f.receiver, esc.Nonce)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	// Nothing moved.
	assert.True(t, coin.Coins{coin.NewCoinp(10, 0, "IOV")}.Equals(f.balance(t, esc.Custody)))
}

func TestNonceMismatch(t *testing.T) {
	f := newFixture(t)
	esc := f.create(t, coin.NewCoin(10, 0, "IOV"))

	for _, nonce := range []uint32{0, esc.Nonce - 1, 256, 1 << 20} {
		_, err := f.machine.PayerCancel(f.db, f.asPayer(), f.payer, f.receiver, nonce)
		assert.True(t, ErrNonceMismatch.Is(err), "nonce %d: got %+v", nonce, err)

		_, err = f.machine.ReceiverConfirm(f.db, f.asReceiver(), f.receiver, f.payer, nonce)
		assert.True(t, ErrNonceMismatch.Is(err), "nonce %d: got %+v", nonce, err)
	}

	got, err := f.machine.Get(f.db, f.receiver, f.payer)
	require.NoError(t, err)
	assert.Equal(t, Deposited, got.State)
}

func TestCorruptedRecord(t *testing.T) {
	f := newFixture(t)
	key := append([]byte("esc:"), PairKey(f.receiver, f.payer)...)
	require.NoError(t, f.db.Set(key, []byte{0xff, 0xff, 0xff}))

	_, err := f.machine.Get(f.db, f.receiver, f.payer)
	assert.True(t, ErrInvalidAccountData.Is(err), "got %+v", err)

	_, err = f.machine.PayerCancel(f.db, f.asPayer(), f.payer, f.receiver, MaxNonce)
	assert.True(t, ErrInvalidAccountData.Is(err), "got %+v", err)

	_, err = f.machine.ReceiverConfirm(f.db, f.asReceiver(), f.receiver, f.payer, MaxNonce)
	assert.True(t, ErrInvalidAccountData.Is(err), "got %+v", err)
}

func TestStoredStateOutOfRange(t *testing.T) {
	cases := map[string]struct {
		state              State
		wantCancelErr      *errors.Error
		wantRecvConfirmErr *errors.Error
		wantPayConfirmErr  *errors.Error
	}{
		"unknown state": {
			state:              7,
			wantCancelErr:      ErrInvalidAccountData,
			wantRecvConfirmErr: ErrInvalidAccountData,
			wantPayConfirmErr:  ErrReceiverNotYetConfirmed,
		},
		"uninitialized state": {
			state:              Uninitialized,
			wantCancelErr:      ErrAccountNotInitialized,
			wantRecvConfirmErr: ErrAccountNotInitialized,
			wantPayConfirmErr:  ErrReceiverNotYetConfirmed,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			esc := &Escrow{
				Metadata: &custody.Metadata{Schema: 1},
				Payer:    f.payer,
				Receiver: f.receiver,
				Nonce:    MaxNonce,
				State:    tc.state,
				Amount:   coin.NewCoinp(10, 0, "IOV"),
				Custody:  CustodyCondition(f.receiver, f.payer, MaxNonce).Address(),
			}
			raw, err := esc.Marshal()
			require.NoError(t, err)
			// Written around the bucket, which refuses to store such a record.
			key := append([]byte("esc:"), PairKey(f.receiver, f.payer)...)
			require.NoError(t, f.db.Set(key, raw))

			_, err = f.machine.PayerCancel(f.db, f.asPayer(), f.payer, f.receiver, MaxNonce)
			assert.True(t, tc.wantCancelErr.Is(err), "cancel: got %+v", err)

			_, err = f.machine.ReceiverConfirm(f.db, f.asReceiver(), f.receiver, f.payer, MaxNonce)
			assert.True(t, tc.wantRecvConfirmErr.Is(err), "receiver confirm: got %+v", err)

			_, err = f.machine.PayerConfirm(f.db, f.asPayer(), f.payer, f.receiver, MaxNonce)
			assert.True(t, tc.wantPayConfirmErr.Is(err), "payer confirm: got %+v", err)

			// The record is left untouched.
			stored, err := f.db.Get(key)
			require.NoError(t, err)
			assert.Equal(t, raw, stored)
		})
	}
}

func TestLedgerFailureLeavesNoRecord(t *testing.T) {
	f := newFixture(t)

	// The payer holds only 100 IOV.
	_, err := f.machine.Initialize(f.db, f.asPayer(), f.payer, f.receiver, coin.NewCoin(500, 0, "IOV"))
	assert.True(t, errors.ErrAmount.Is(err), "got %+v", err)

	_, err = f.machine.Get(f.db, f.receiver, f.payer)
	assert.True(t, ErrAccountNotInitialized.Is(err), "got %+v", err)
	assert.True(t, coin.Coins{coin.NewCoinp(100, 0, "IOV")}.Equals(f.balance(t, f.payer)))
}

func TestReleaseFailureKeepsRecord(t *testing.T) {
	f := newFixture(t)
	esc := f.create(t, coin.NewCoin(10, 0, "IOV"))
	_, err := f.machine.ReceiverConfirm(f.db, f.asReceiver(), f.receiver, f.payer, esc.Nonce)
	require.NoError(t, err)

	broken := NewMachine(&failingLedger{Ledger: NewCashLedger(f.cash), err: errors.ErrDatabase})
	_, err = broken.PayerConfirm(f.db, f.asPayer(), f.payer, f.receiver, esc.Nonce)
	assert.True(t, errors.ErrDatabase.Is(err), "got %+v", err)

	got, err := f.machine.Get(f.db, f.receiver, f.payer)
	require.NoError(t, err)
	assert.Equal(t, ReceiverConfirmed, got.State)
	assert.True(t, coin.Coins{coin.NewCoinp(10, 0, "IOV")}.Equals(f.balance(t, esc.Custody)))
}

func TestZeroAmount(t *testing.T) {
	f := newFixture(t)
	zero := coin.NewCoin(0, 0, "IOV")

	_, err := f.machine.Initialize(f.db, f.asPayer(), f.payer, f.receiver, zero)
	assert.True(t, errors.ErrAmount.Is(err), "got %+v", err)

	conf := &Configuration{
		Metadata:        &custody.Metadata{Schema: 1},
		Owner:           weavetest.NewCondition().Address(),
		AllowZeroAmount: true,
	}
	require.NoError(t, gconf.Save(f.db, confPkg, conf))

	esc := f.create(t, zero)
	assert.Equal(t, uint32(MaxNonce), esc.Nonce)
	assert.True(t, f.balance(t, esc.Custody).IsEmpty())

	refunded, err := f.machine.PayerCancel(f.db, f.asPayer(), f.payer, f.receiver, esc.Nonce)
	require.NoError(t, err)
	assert.True(t, refunded.IsEmpty())
}

func TestPrefundedCustodySlot(t *testing.T) {
	f := newFixture(t)
	squatted := CustodyCondition(f.receiver, f.payer, MaxNonce).Address()
	require.NoError(t, f.cash.CoinMint(f.db, squatted, coin.NewCoin(1, 0, "IOV")))

	nonce, addr, err := f.machine.FindCustodyAddress(f.db, f.receiver, f.payer)
	require.NoError(t, err)
	assert.Equal(t, uint8(MaxNonce-1), nonce)
	assert.Equal(t, CustodyCondition(f.receiver, f.payer, MaxNonce-1).Address(), addr)

	esc := f.create(t, coin.NewCoin(10, 0, "IOV"))
	assert.Equal(t, uint32(MaxNonce-1), esc.Nonce)

	// The old slot cannot be used to address the escrow.
	_, err = f.machine.PayerCancel(f.db, f.asPayer(), f.payer, f.receiver, MaxNonce)
	assert.True(t, ErrNonceMismatch.Is(err), "got %+v", err)

	refunded, err := f.machine.PayerCancel(f.db, f.asPayer(), f.payer, f.receiver, esc.Nonce)
	require.NoError(t, err)
	assert.True(t, coin.Coins{coin.NewCoinp(10, 0, "IOV")}.Equals(refunded))
	assert.True(t, coin.Coins{coin.NewCoinp(1, 0, "IOV")}.Equals(f.balance(t, squatted)))
}

func TestIndependentPairs(t *testing.T) {
	f := newFixture(t)
	other := weavetest.NewCondition().Address()

	a := f.create(t, coin.NewCoin(10, 0, "IOV"))
	b, err := f.machine.Initialize(f.db, f.asPayer(), f.payer, other, coin.NewCoin(20, 0, "IOV"))
	require.NoError(t, err)
	assert.False(t, a.Custody.Equals(b.Custody))

	_, err = f.machine.PayerCancel(f.db, f.asPayer(), f.payer, f.receiver, a.Nonce)
	require.NoError(t, err)

	got, err := f.machine.Get(f.db, other, f.payer)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

// failingLedger fails every release and refund after moving nothing.
type failingLedger struct {
	Ledger
	err error
}

func (l *failingLedger) Release(custody.KVStore, custody.Address, custody.Address) (coin.Coins, error) {
	return nil, l.err
}

func (l *failingLedger) Refund(custody.KVStore, custody.Address, custody.Address) (coin.Coins, error) {
	return nil, l.err
}
