package escrow

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// MaxNonce is the greatest custody nonce. Nonces are searched from MaxNonce
// downward.
const MaxNonce = 255

// State of an escrow. Only Deposited and ReceiverConfirmed are ever
// persisted.
type State int32

const (
	Uninitialized     State = 0
	Deposited         State = 1
	ReceiverConfirmed State = 2
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Deposited:
		return "deposited"
	case ReceiverConfirmed:
		return "receiver_confirmed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Escrow is the record of a single pair escrow.
type Escrow struct {
	Metadata *custody.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Payer    custody.Address   `protobuf:"bytes,2,opt,name=payer,proto3,casttype=github.com/iov-one/custody.Address" json:"payer,omitempty"`
	Receiver custody.Address   `protobuf:"bytes,3,opt,name=receiver,proto3,casttype=github.com/iov-one/custody.Address" json:"receiver,omitempty"`
	Nonce    uint32            `protobuf:"varint,4,opt,name=nonce,proto3" json:"nonce,omitempty"`
	State    State             `protobuf:"varint,5,opt,name=state,proto3,casttype=State" json:"state,omitempty"`
	// Amount is the deposited value. The custodied value is the ledger
	// balance of the Custody address.
	Amount  *coin.Coin      `protobuf:"bytes,6,opt,name=amount,proto3" json:"amount,omitempty"`
	Custody custody.Address `protobuf:"bytes,7,opt,name=custody,proto3,casttype=github.com/iov-one/custody.Address" json:"custody,omitempty"`
}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", e.Metadata.Validate())
	errs = errors.AppendField(errs, "Payer", e.Payer.Validate())
	errs = errors.AppendField(errs, "Receiver", e.Receiver.Validate())
	if e.Nonce > MaxNonce {
		errs = errors.AppendField(errs, "Nonce", errors.Wrapf(errors.ErrInput, "greater than %d", MaxNonce))
	}
	if e.State != Deposited && e.State != ReceiverConfirmed {
		errs = errors.AppendField(errs, "State", errors.Wrapf(errors.ErrState, "cannot persist %s", e.State))
	}
	switch {
	case e.Amount == nil:
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "required"))
	case !e.Amount.IsNonNegative():
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "negative"))
	default:
		errs = errors.AppendField(errs, "Amount", e.Amount.Validate())
	}
	errs = errors.AppendField(errs, "Custody", e.Custody.Validate())
	return errs
}

func (e *Escrow) Marshal() ([]byte, error) { return proto.Marshal((*escrowWire)(e)) }

func (e *Escrow) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*escrowWire)(e)) }

type escrowWire Escrow

func (e *escrowWire) Reset()         { *e = escrowWire{} }
func (e *escrowWire) String() string { return proto.CompactTextString(e) }
func (*escrowWire) ProtoMessage()    {}

// PairCondition identifies the escrow of a (receiver, payer) pair.
func PairCondition(receiver, payer custody.Address) custody.Condition {
	data := make([]byte, 0, len(receiver)+len(payer))
	data = append(data, receiver...)
	data = append(data, payer...)
	return custody.NewCondition("escrow", "pair", data)
}

// PairKey returns the key the escrow of a (receiver, payer) pair is stored
// under.
func PairKey(receiver, payer custody.Address) []byte {
	return PairCondition(receiver, payer).Address()
}

// CustodyCondition returns the condition controlling the custody address of
// a pair escrow created with given nonce.
func CustodyCondition(receiver, payer custody.Address, nonce uint8) custody.Condition {
	data := make([]byte, 0, len(receiver)+len(payer)+1)
	data = append(data, receiver...)
	data = append(data, payer...)
	data = append(data, nonce)
	return custody.NewCondition("escrow", "custody", data)
}

// NewBucket returns a bucket storing escrows by their pair key, indexed by
// both parties.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("esc", &Escrow{},
		orm.WithIndex("payer", payerIndex, false),
		orm.WithIndex("receiver", receiverIndex, false),
	)
}

func payerIndex(m orm.Model) ([]byte, error) {
	esc, err := asEscrow(m)
	if err != nil {
		return nil, err
	}
	return esc.Payer, nil
}

func receiverIndex(m orm.Model) ([]byte, error) {
	esc, err := asEscrow(m)
	if err != nil {
		return nil, err
	}
	return esc.Receiver, nil
}

func asEscrow(m orm.Model) (*Escrow, error) {
	if m == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	esc, ok := m.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "can only take index of Escrow, got %T", m)
	}
	return esc, nil
}
