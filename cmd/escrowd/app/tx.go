package escrowd

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
)

// Tx is the transaction processed by escrowd. It carries signatures and
// exactly one message.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`

	CashSendMsg                  *cash.SendMsg                  `protobuf:"bytes,51,opt,name=cash_send_msg,json=cashSendMsg,proto3" json:"cash_send_msg,omitempty"`
	EscrowCreateMsg              *escrow.CreateMsg              `protobuf:"bytes,52,opt,name=escrow_create_msg,json=escrowCreateMsg,proto3" json:"escrow_create_msg,omitempty"`
	EscrowPayerCancelMsg         *escrow.PayerCancelMsg         `protobuf:"bytes,53,opt,name=escrow_payer_cancel_msg,json=escrowPayerCancelMsg,proto3" json:"escrow_payer_cancel_msg,omitempty"`
	EscrowReceiverConfirmMsg     *escrow.ReceiverConfirmMsg     `protobuf:"bytes,54,opt,name=escrow_receiver_confirm_msg,json=escrowReceiverConfirmMsg,proto3" json:"escrow_receiver_confirm_msg,omitempty"`
	EscrowPayerConfirmMsg        *escrow.PayerConfirmMsg        `protobuf:"bytes,55,opt,name=escrow_payer_confirm_msg,json=escrowPayerConfirmMsg,proto3" json:"escrow_payer_confirm_msg,omitempty"`
	EscrowUpdateConfigurationMsg *escrow.UpdateConfigurationMsg `protobuf:"bytes,56,opt,name=escrow_update_configuration_msg,json=escrowUpdateConfigurationMsg,proto3" json:"escrow_update_configuration_msg,omitempty"`
}

var _ custody.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (custody.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return tx, nil
}

// NewTx returns an unsigned transaction carrying given message.
func NewTx(msg custody.Msg) (*Tx, error) {
	var tx Tx
	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.CashSendMsg = m
	case *escrow.CreateMsg:
		tx.EscrowCreateMsg = m
	case *escrow.PayerCancelMsg:
		tx.EscrowPayerCancelMsg = m
	case *escrow.ReceiverConfirmMsg:
		tx.EscrowReceiverConfirmMsg = m
	case *escrow.PayerConfirmMsg:
		tx.EscrowPayerConfirmMsg = m
	case *escrow.UpdateConfigurationMsg:
		tx.EscrowUpdateConfigurationMsg = m
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "unsupported message %T", msg)
	}
	return &tx, nil
}

// GetMsg returns the single message carried by the transaction.
func (tx *Tx) GetMsg() (custody.Msg, error) {
	var found []custody.Msg
	if tx.CashSendMsg != nil {
		found = append(found, tx.CashSendMsg)
	}
	if tx.EscrowCreateMsg != nil {
		found = append(found, tx.EscrowCreateMsg)
	}
	if tx.EscrowPayerCancelMsg != nil {
		found = append(found, tx.EscrowPayerCancelMsg)
	}
	if tx.EscrowReceiverConfirmMsg != nil {
		found = append(found, tx.EscrowReceiverConfirmMsg)
	}
	if tx.EscrowPayerConfirmMsg != nil {
		found = append(found, tx.EscrowPayerConfirmMsg)
	}
	if tx.EscrowUpdateConfigurationMsg != nil {
		found = append(found, tx.EscrowUpdateConfigurationMsg)
	}

	switch len(found) {
	case 0:
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	case 1:
		return found[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "transaction carries %d messages", len(found))
	}
}

// GetSignatures returns the signatures of all signers.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are not part of the
// signed data.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	cpy := *tx
	cpy.Signatures = nil
	return cpy.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) { return proto.Marshal((*txWire)(tx)) }

func (tx *Tx) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*txWire)(tx)) }

type txWire Tx

func (tx *txWire) Reset()         { *tx = txWire{} }
func (tx *txWire) String() string { return proto.CompactTextString(tx) }
func (*txWire) ProtoMessage()     {}
