package sigs

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// NextNonce returns the next numeric nonce value that should be used during
// a transaction signing. If the signer is not yet known, nonce counting
// starts with zero.
func NextNonce(db custody.ReadOnlyKVStore, signer custody.Address) (int64, error) {
	var user UserData
	switch err := NewBucket().One(db, signer, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket one")
	}
}
