package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
)

// Ledger moves value in and out of custody addresses. Errors returned by
// the ledger are passed to the caller unchanged.
type Ledger interface {
	// Balance returns the funds held by the address. An address that
	// never held funds has an empty balance.
	Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Coins, error)
	// Deposit moves amount from the payer into custody.
	Deposit(db custody.KVStore, from, holder custody.Address, amount coin.Coin) error
	// Release moves the whole custody balance to the receiver.
	Release(db custody.KVStore, holder, to custody.Address) (coin.Coins, error)
	// Refund moves the whole custody balance back to the payer.
	Refund(db custody.KVStore, holder, to custody.Address) (coin.Coins, error)
}

// NewCashLedger returns a ledger backed by the cash extension.
func NewCashLedger(ctrl cash.Controller) Ledger {
	return cashLedger{ctrl: ctrl}
}

type cashLedger struct {
	ctrl cash.Controller
}

func (l cashLedger) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Coins, error) {
	cs, err := l.ctrl.Balance(db, addr)
	if errors.ErrNotFound.Is(err) {
		return coin.Coins{}, nil
	}
	return cs, err
}

func (l cashLedger) Deposit(db custody.KVStore, from, to custody.Address, amount coin.Coin) error {
	if amount.IsZero() {
		return nil
	}
	return l.ctrl.MoveCoins(db, from, to, amount)
}

func (l cashLedger) Release(db custody.KVStore, from, to custody.Address) (coin.Coins, error) {
	return l.moveAll(db, from, to)
}

func (l cashLedger) Refund(db custody.KVStore, from, to custody.Address) (coin.Coins, error) {
	return l.moveAll(db, from, to)
}

func (l cashLedger) moveAll(db custody.KVStore, from, to custody.Address) (coin.Coins, error) {
	available, err := l.Balance(db, from)
	if err != nil {
		return nil, err
	}
	for _, c := range available {
		if err := l.ctrl.MoveCoins(db, from, to, *c); err != nil {
			return nil, err
		}
	}
	return available, nil
}
