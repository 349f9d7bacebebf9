package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/x"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	createCost          int64 = 300
	payerCancelCost     int64 = 100
	receiverConfirmCost int64 = 50
	payerConfirmCost    int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, ledger Ledger) {
	machine := NewMachine(ledger)
	r.Handle(&CreateMsg{}, CreateHandler{auth: auth, machine: machine})
	r.Handle(&PayerCancelMsg{}, PayerCancelHandler{auth: auth, machine: machine})
	r.Handle(&ReceiverConfirmMsg{}, ReceiverConfirmHandler{auth: auth, machine: machine})
	r.Handle(&PayerConfirmMsg{}, PayerConfirmHandler{auth: auth, machine: machine})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler(confPkg, &Configuration{}, auth))
}

// RegisterQuery will register this bucket as "/escrows" together with the
// "/escrows/payer" and "/escrows/receiver" indexes.
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// CreateHandler deposits funds into a new pair escrow.
type CreateHandler struct {
	auth    x.Authenticator
	machine Machine
}

var _ custody.Handler = CreateHandler{}

// Check only verifies the message and its signature. Balances are checked
// on deliver.
func (h CreateHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Payer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
	}
	return &custody.CheckResult{GasAllocated: createCost}, nil
}

// Deliver creates the escrow. The result data is the escrow key followed by
// the custody nonce byte.
func (h CreateHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	esc, err := h.machine.Initialize(db, x.PermissionsFrom(ctx, h.auth), msg.Payer, msg.Receiver, *msg.Amount)
	if err != nil {
		return nil, err
	}
	key := PairKey(esc.Receiver, esc.Payer)
	custody.GetLogger(ctx).Info("escrow created",
		"escrow", custody.Address(key), "nonce", esc.Nonce, "amount", esc.Amount.String())

	data := make([]byte, 0, len(key)+1)
	data = append(data, key...)
	data = append(data, byte(esc.Nonce))
	return &custody.DeliverResult{
		Data: data,
		Log:  "escrow created",
		Tags: tags(pathCreate, esc),
	}, nil
}

// validate loads the message and applies the payer default.
func (h CreateHandler) validate(ctx custody.Context, tx custody.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if len(msg.Payer) == 0 {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "no signer to pay the deposit")
		}
		msg.Payer = signer.Address()
	}
	return &msg, nil
}

// PayerCancelHandler refunds a Deposited escrow.
type PayerCancelHandler struct {
	auth    x.Authenticator
	machine Machine
}

var _ custody.Handler = PayerCancelHandler{}

// Check runs every precondition of the cancel against the current state.
func (h PayerCancelHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: payerCancelCost}, nil
}

func (h PayerCancelHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	refunded, err := h.machine.PayerCancel(db, x.PermissionsFrom(ctx, h.auth), msg.Payer, msg.Receiver, msg.Nonce)
	if err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Info("escrow cancelled", "payer", msg.Payer, "refunded", refunded)
	return &custody.DeliverResult{
		Data: PairKey(msg.Receiver, msg.Payer),
		Log:  "escrow cancelled",
		Tags: tags(pathPayerCancel, esc),
	}, nil
}

func (h PayerCancelHandler) validate(ctx custody.Context, db custody.ReadOnlyKVStore, tx custody.Tx) (*PayerCancelMsg, *Escrow, error) {
	var msg PayerCancelMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	esc, err := h.machine.CanPayerCancel(db, x.PermissionsFrom(ctx, h.auth), msg.Payer, msg.Receiver, msg.Nonce)
	if err != nil {
		return nil, nil, err
	}
	return &msg, esc, nil
}

// ReceiverConfirmHandler records the receiver confirmation.
type ReceiverConfirmHandler struct {
	auth    x.Authenticator
	machine Machine
}

var _ custody.Handler = ReceiverConfirmHandler{}

func (h ReceiverConfirmHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: receiverConfirmCost}, nil
}

func (h ReceiverConfirmHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	esc, err := h.machine.ReceiverConfirm(db, x.PermissionsFrom(ctx, h.auth), msg.Receiver, msg.Payer, msg.Nonce)
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{
		Data: PairKey(msg.Receiver, msg.Payer),
		Log:  "receiver confirmed",
		Tags: tags(pathReceiverConfirm, esc),
	}, nil
}

func (h ReceiverConfirmHandler) validate(ctx custody.Context, db custody.ReadOnlyKVStore, tx custody.Tx) (*ReceiverConfirmMsg, error) {
	var msg ReceiverConfirmMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.machine.CanReceiverConfirm(db, x.PermissionsFrom(ctx, h.auth), msg.Receiver, msg.Payer, msg.Nonce); err != nil {
		return nil, err
	}
	return &msg, nil
}

// PayerConfirmHandler releases the funds to the receiver.
type PayerConfirmHandler struct {
	auth    x.Authenticator
	machine Machine
}

var _ custody.Handler = PayerConfirmHandler{}

func (h PayerConfirmHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: payerConfirmCost}, nil
}

func (h PayerConfirmHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	released, err := h.machine.PayerConfirm(db, x.PermissionsFrom(ctx, h.auth), msg.Payer, msg.Receiver, msg.Nonce)
	if err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Info("escrow released", "receiver", msg.Receiver, "released", released)
	return &custody.DeliverResult{
		Data: PairKey(msg.Receiver, msg.Payer),
		Log:  "escrow released",
		Tags: tags(pathPayerConfirm, esc),
	}, nil
}

func (h PayerConfirmHandler) validate(ctx custody.Context, db custody.ReadOnlyKVStore, tx custody.Tx) (*PayerConfirmMsg, *Escrow, error) {
	var msg PayerConfirmMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	esc, err := h.machine.CanPayerConfirm(db, x.PermissionsFrom(ctx, h.auth), msg.Payer, msg.Receiver, msg.Nonce)
	if err != nil {
		return nil, nil, err
	}
	return &msg, esc, nil
}

// tags returns the indexed transaction tags, so that the history can be
// searched by party.
func tags(action string, esc *Escrow) []common.KVPair {
	res := []common.KVPair{{Key: []byte("action"), Value: []byte(action)}}
	if esc == nil {
		return res
	}
	return append(res,
		common.KVPair{Key: []byte("escrow.payer"), Value: []byte(esc.Payer.String())},
		common.KVPair{Key: []byte("escrow.receiver"), Value: []byte(esc.Receiver.String())},
	)
}
