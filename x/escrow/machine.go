package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x"
)

// Machine is the escrow state machine. It can be used directly or through
// the message handlers.
type Machine struct {
	bucket orm.ModelBucket
	ledger Ledger
}

// NewMachine returns a state machine moving funds through given ledger.
func NewMachine(ledger Ledger) Machine {
	return Machine{
		bucket: NewBucket(),
		ledger: ledger,
	}
}

// Get returns the escrow of the pair. It returns ErrAccountNotInitialized
// if there is none.
func (m Machine) Get(db custody.ReadOnlyKVStore, receiver, payer custody.Address) (*Escrow, error) {
	esc, err := m.load(db, receiver, payer)
	if err != nil {
		return nil, err
	}
	if esc == nil {
		return nil, errors.Wrap(ErrAccountNotInitialized, "no escrow for the pair")
	}
	return esc, nil
}

// Custodied returns the funds currently held for the escrow.
func (m Machine) Custodied(db custody.ReadOnlyKVStore, esc *Escrow) (coin.Coins, error) {
	return m.ledger.Balance(db, esc.Custody)
}

// FindCustodyAddress returns the greatest nonce whose custody address
// holds no funds, together with that address.
func (m Machine) FindCustodyAddress(db custody.ReadOnlyKVStore, receiver, payer custody.Address) (uint8, custody.Address, error) {
	for n := MaxNonce; n >= 0; n-- {
		nonce := uint8(n)
		addr := CustodyCondition(receiver, payer, nonce).Address()
		balance, err := m.ledger.Balance(db, addr)
		if err != nil {
			return 0, nil, errors.Wrap(err, "custody balance")
		}
		if balance.IsEmpty() {
			return nonce, addr, nil
		}
	}
	return 0, nil, errors.Wrap(errors.ErrState, "no free custody address")
}

// Initialize creates the escrow of the pair and moves amount from the
// payer into custody. The payer must be granted by perms.
func (m Machine) Initialize(db custody.KVStore, perms x.Permissions, payer, receiver custody.Address, amount coin.Coin) (*Escrow, error) {
	if err := payer.Validate(); err != nil {
		return nil, errors.Wrap(err, "payer")
	}
	if err := receiver.Validate(); err != nil {
		return nil, errors.Wrap(err, "receiver")
	}
	if !perms.Has(payer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer must authorize the deposit")
	}

	var esc *Escrow
	err := atomically(db, func(db custody.KVStore) error {
		conf, err := loadConf(db)
		if err != nil {
			return err
		}
		if err := validateAmount(amount, conf.AllowZeroAmount); err != nil {
			return err
		}

		key := PairKey(receiver, payer)
		// Insert rejects duplicates too, this fails before the nonce search
		switch err := m.bucket.Has(db, key); {
		case err == nil:
			return errors.Wrap(errors.ErrDuplicate, "escrow for the pair already exists")
		case !errors.ErrNotFound.Is(err):
			return err
		}

		nonce, addr, err := m.FindCustodyAddress(db, receiver, payer)
		if err != nil {
			return err
		}
		if err := m.ledger.Deposit(db, payer, addr, amount); err != nil {
			return err
		}
		esc = &Escrow{
			Metadata: &custody.Metadata{Schema: 1},
			Payer:    payer,
			Receiver: receiver,
			Nonce:    uint32(nonce),
			State:    Deposited,
			Amount:   amount.Clone(),
			Custody:  addr,
		}
		if err := m.bucket.Insert(db, key, esc); err != nil {
			return errors.Wrap(err, "cannot store escrow")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return esc, nil
}

// PayerCancel destroys a Deposited escrow and refunds the payer.
func (m Machine) PayerCancel(db custody.KVStore, perms x.Permissions, payer, receiver custody.Address, nonce uint32) (coin.Coins, error) {
	var refunded coin.Coins
	err := atomically(db, func(db custody.KVStore) error {
		esc, err := m.CanPayerCancel(db, perms, payer, receiver, nonce)
		if err != nil {
			return err
		}
		refunded, err = m.close(db, esc, esc.Payer, m.ledger.Refund)
		return err
	})
	if err != nil {
		return nil, err
	}
	return refunded, nil
}

// CanPayerCancel runs every check of PayerCancel without changing the
// state and returns the escrow that would be cancelled.
func (m Machine) CanPayerCancel(db custody.ReadOnlyKVStore, perms x.Permissions, payer, receiver custody.Address, nonce uint32) (*Escrow, error) {
	esc, err := m.prepare(db, perms, receiver, payer, nonce, payer, ErrAccountNotInitialized)
	if err != nil {
		return nil, err
	}
	switch esc.State {
	case Deposited:
		return esc, nil
	case ReceiverConfirmed:
		return nil, errors.Wrap(ErrReceiverAlreadyConfirmed, "cannot cancel")
	default:
		return nil, errors.Wrapf(ErrInvalidAccountData, "unknown %s", esc.State)
	}
}

// ReceiverConfirm moves a Deposited escrow into the ReceiverConfirmed
// state. No funds are moved.
func (m Machine) ReceiverConfirm(db custody.KVStore, perms x.Permissions, receiver, payer custody.Address, nonce uint32) (*Escrow, error) {
	var esc *Escrow
	err := atomically(db, func(db custody.KVStore) error {
		var err error
		esc, err = m.CanReceiverConfirm(db, perms, receiver, payer, nonce)
		if err != nil {
			return err
		}
		esc.State = ReceiverConfirmed
		if err := m.bucket.Put(db, PairKey(receiver, payer), esc); err != nil {
			return errors.Wrap(err, "cannot store escrow")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return esc, nil
}

// CanReceiverConfirm runs every check of ReceiverConfirm without changing
// the state.
func (m Machine) CanReceiverConfirm(db custody.ReadOnlyKVStore, perms x.Permissions, receiver, payer custody.Address, nonce uint32) (*Escrow, error) {
	esc, err := m.prepare(db, perms, receiver, payer, nonce, receiver, ErrAccountNotInitialized)
	if err != nil {
		return nil, err
	}
	switch esc.State {
	case Deposited:
		return esc, nil
	case ReceiverConfirmed:
		return nil, errors.Wrap(ErrAwaitingPayerConfirmation, "already confirmed by receiver")
	default:
		return nil, errors.Wrapf(ErrInvalidAccountData, "unknown %s", esc.State)
	}
}

// PayerConfirm destroys a ReceiverConfirmed escrow and releases the funds
// to the receiver. Any other state, including a missing escrow, fails with
// ErrReceiverNotYetConfirmed.
func (m Machine) PayerConfirm(db custody.KVStore, perms x.Permissions, payer, receiver custody.Address, nonce uint32) (coin.Coins, error) {
	var released coin.Coins
	err := atomically(db, func(db custody.KVStore) error {
		esc, err := m.CanPayerConfirm(db, perms, payer, receiver, nonce)
		if err != nil {
			return err
		}
		released, err = m.close(db, esc, esc.Receiver, m.ledger.Release)
		return err
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}

// CanPayerConfirm runs every check of PayerConfirm without changing the
// state.
func (m Machine) CanPayerConfirm(db custody.ReadOnlyKVStore, perms x.Permissions, payer, receiver custody.Address, nonce uint32) (*Escrow, error) {
	esc, err := m.prepare(db, perms, receiver, payer, nonce, payer, ErrReceiverNotYetConfirmed)
	if err != nil {
		return nil, err
	}
	if esc.State != ReceiverConfirmed {
		return nil, errors.Wrapf(ErrReceiverNotYetConfirmed, "escrow is %s", esc.State)
	}
	return esc, nil
}

// prepare loads the escrow and runs the checks shared by all operations
// following the creation: presence, nonce and authorization, in that
// order. A missing escrow fails with the absent error.
func (m Machine) prepare(
	db custody.ReadOnlyKVStore,
	perms x.Permissions,
	receiver, payer custody.Address,
	nonce uint32,
	signer custody.Address,
	absent *errors.Error,
) (*Escrow, error) {
	esc, err := m.load(db, receiver, payer)
	if err != nil {
		return nil, err
	}
	if esc == nil || esc.State == Uninitialized {
		return nil, errors.Wrap(absent, "no escrow for the pair")
	}
	if nonce > MaxNonce || nonce != esc.Nonce ||
		!CustodyCondition(receiver, payer, uint8(nonce)).Address().Equals(esc.Custody) {
		return nil, errors.Wrapf(ErrNonceMismatch, "nonce %d", nonce)
	}
	if !perms.Has(signer) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s must authorize", signer)
	}
	return esc, nil
}

// load returns the escrow of the pair or nil. A stored record that cannot
// be decoded is reported as ErrInvalidAccountData.
func (m Machine) load(db custody.ReadOnlyKVStore, receiver, payer custody.Address) (*Escrow, error) {
	var esc Escrow
	switch err := m.bucket.One(db, PairKey(receiver, payer), &esc); {
	case err == nil:
		return &esc, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case errors.ErrModel.Is(err):
		return nil, errors.Wrap(ErrInvalidAccountData, err.Error())
	default:
		return nil, err
	}
}

type moveAll func(db custody.KVStore, holder, to custody.Address) (coin.Coins, error)

// close destroys the record and moves the whole custody balance to the
// beneficiary.
func (m Machine) close(db custody.KVStore, esc *Escrow, beneficiary custody.Address, move moveAll) (coin.Coins, error) {
	if err := m.bucket.Delete(db, PairKey(esc.Receiver, esc.Payer)); err != nil {
		return nil, errors.Wrap(err, "cannot delete escrow")
	}
	moved, err := move(db, esc.Custody, beneficiary)
	if err != nil {
		return nil, err
	}
	return moved, nil
}

func validateAmount(amount coin.Coin, allowZero bool) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if amount.IsPositive() || (allowZero && amount.IsZero()) {
		return nil
	}
	return errors.Wrapf(errors.ErrAmount, "amount must be positive: %s", amount)
}

// atomically runs fn on a cache of db, which is written only when fn
// succeeds. Stores without cache support are used directly.
func atomically(db custody.KVStore, fn func(custody.KVStore) error) error {
	cstore, ok := db.(custody.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
