package escrow

import "github.com/iov-one/custody/errors"

// Escrow errors use codes 1020 ~ 1029.
var (
	ErrAccountNotInitialized     = errors.Register(1020, "account state has not been initialized yet")
	ErrReceiverNotYetConfirmed   = errors.Register(1021, "receiver has not yet confirmed their side of the escrow")
	ErrReceiverAlreadyConfirmed  = errors.Register(1022, "receiver has already confirmed their side of the process")
	ErrAwaitingPayerConfirmation = errors.Register(1023, "awaiting payer confirmation")
	ErrInvalidAccountData        = errors.Register(1024, "invalid account data")
	ErrNonceMismatch             = errors.Register(1025, "nonce does not match the escrow custody")
)
