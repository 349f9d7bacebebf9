package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/x/cash"
)

const optKey = "escrow"

// GenesisEscrow describes an escrow that exists from the first block. The
// deposit is minted directly into custody.
type GenesisEscrow struct {
	Payer    custody.Address `json:"payer"`
	Receiver custody.Address `json:"receiver"`
	Amount   coin.Coin       `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct {
	Minter cash.Controller
}

var _ custody.Initializer = (*Initializer)(nil)

// FromGenesis stores the optional configuration and all genesis escrows.
func (i *Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, confPkg, &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init config")
	}

	var escrows []GenesisEscrow
	if err := opts.ReadOptions(optKey, &escrows); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(escrows) == 0 {
		return nil
	}
	if i.Minter == nil {
		return errors.Wrap(errors.ErrState, "minter required to fund genesis escrows")
	}

	machine := NewMachine(NewCashLedger(i.Minter))
	bucket := NewBucket()
	for n, g := range escrows {
		if err := g.Payer.Validate(); err != nil {
			return errors.Wrapf(err, "escrow %d: payer", n)
		}
		if err := g.Receiver.Validate(); err != nil {
			return errors.Wrapf(err, "escrow %d: receiver", n)
		}
		if err := validateAmount(g.Amount, conf.AllowZeroAmount); err != nil {
			return errors.Wrapf(err, "escrow %d", n)
		}
		nonce, addr, err := machine.FindCustodyAddress(db, g.Receiver, g.Payer)
		if err != nil {
			return errors.Wrapf(err, "escrow %d", n)
		}
		if !g.Amount.IsZero() {
			if err := i.Minter.CoinMint(db, addr, g.Amount); err != nil {
				return errors.Wrapf(err, "escrow %d: mint", n)
			}
		}
		esc := &Escrow{
			Metadata: &custody.Metadata{Schema: 1},
			Payer:    g.Payer,
			Receiver: g.Receiver,
			Nonce:    uint32(nonce),
			State:    Deposited,
			Amount:   g.Amount.Clone(),
			Custody:  addr,
		}
		if err := bucket.Insert(db, PairKey(g.Receiver, g.Payer), esc); err != nil {
			return errors.Wrapf(err, "escrow %d", n)
		}
	}
	return nil
}
