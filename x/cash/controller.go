package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// Controller is the functionality needed by other extensions to manage
// funds. Access to wallets should go through it.
type Controller interface {
	// Balance returns all coins held by the address. It fails with
	// ErrNotFound if the address never held any funds.
	Balance(custody.ReadOnlyKVStore, custody.Address) (coin.Coins, error)

	// MoveCoins moves the given amount from src to dest. If src doesn't
	// exist, or doesn't have sufficient coins, it fails.
	MoveCoins(db custody.KVStore, src, dest custody.Address, amount coin.Coin) error

	// CoinMint adds the given amount to the destination wallet.
	CoinMint(db custody.KVStore, dest custody.Address, amount coin.Coin) error
}

// BaseController is a simple implementation of the Controller. Empty
// wallets are removed from the store.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on given bucket.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns a copy of the wallet coins.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Coins, error) {
	var set Set
	if err := c.bucket.One(db, addr, &set); err != nil {
		return nil, errors.Wrapf(err, "wallet %s", addr)
	}
	return set.Wallet().Clone(), nil
}

// MoveCoins moves the given amount from src to dest.
func (c BaseController) MoveCoins(db custody.KVStore, src, dest custody.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount: %s", amount)
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}

	var sender Set
	switch err := c.bucket.One(db, src, &sender); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
	default:
		return errors.Wrap(err, "cannot load sender wallet")
	}
	if !sender.Wallet().Contains(amount) {
		return errors.Wrap(errors.ErrAmount, "insufficient funds")
	}
	if src.Equals(dest) {
		return nil
	}

	remaining, err := sender.Wallet().Subtract(amount)
	if err != nil {
		return errors.Wrap(err, "subtract")
	}
	if err := c.save(db, src, remaining); err != nil {
		return errors.Wrap(err, "save sender")
	}
	return c.add(db, dest, amount)
}

// CoinMint adds the given amount of coins to the destination address. It
// fails if the result would overflow the wallet.
func (c BaseController) CoinMint(db custody.KVStore, dest custody.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	return c.add(db, dest, amount)
}

func (c BaseController) add(db custody.KVStore, dest custody.Address, amount coin.Coin) error {
	var recipient Set
	if err := c.bucket.One(db, dest, &recipient); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "cannot load recipient wallet")
	}
	total, err := recipient.Wallet().Add(amount)
	if err != nil {
		return errors.Wrap(err, "add")
	}
	if err := c.save(db, dest, total); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

// save stores the wallet or deletes it if there are no coins left.
func (c BaseController) save(db custody.KVStore, addr custody.Address, coins coin.Coins) error {
	if coins.IsEmpty() {
		err := c.bucket.Delete(db, addr)
		if errors.ErrNotFound.Is(err) {
			return nil
		}
		return err
	}
	return c.bucket.Put(db, addr, &Set{
		Metadata: &custody.Metadata{Schema: 1},
		Coins:    coins,
	})
}
