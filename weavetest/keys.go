package weavetest

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
)

// NewKey returns a fresh random ed25519 signer.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a fresh random key.
func NewCondition() custody.Condition {
	return NewKey().PublicKey().Condition()
}
