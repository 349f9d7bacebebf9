package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
)

const (
	pathCreate              = "escrow/create"
	pathPayerCancel         = "escrow/payer_cancel"
	pathReceiverConfirm     = "escrow/receiver_confirm"
	pathPayerConfirm        = "escrow/payer_confirm"
	pathUpdateConfiguration = "escrow/update_configuration"
)

var (
	_ custody.Msg = (*CreateMsg)(nil)
	_ custody.Msg = (*PayerCancelMsg)(nil)
	_ custody.Msg = (*ReceiverConfirmMsg)(nil)
	_ custody.Msg = (*PayerConfirmMsg)(nil)
	_ custody.Msg = (*UpdateConfigurationMsg)(nil)
)

// CreateMsg deposits Amount for the Receiver. When Payer is empty, the main
// signer of the transaction pays.
type CreateMsg struct {
	Metadata *custody.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Payer    custody.Address   `protobuf:"bytes,2,opt,name=payer,proto3,casttype=github.com/iov-one/custody.Address" json:"payer,omitempty"`
	Receiver custody.Address   `protobuf:"bytes,3,opt,name=receiver,proto3,casttype=github.com/iov-one/custody.Address" json:"receiver,omitempty"`
	Amount   *coin.Coin        `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (CreateMsg) Path() string {
	return pathCreate
}

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if len(m.Payer) != 0 {
		errs = errors.AppendField(errs, "Payer", m.Payer.Validate())
	}
	errs = errors.AppendField(errs, "Receiver", m.Receiver.Validate())
	if m.Amount == nil {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "required"))
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
		if !m.Amount.IsNonNegative() {
			errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "negative"))
		}
	}
	return errs
}

func (m *CreateMsg) Marshal() ([]byte, error) { return proto.Marshal((*createMsgWire)(m)) }

func (m *CreateMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*createMsgWire)(m)) }

type createMsgWire CreateMsg

func (m *createMsgWire) Reset()         { *m = createMsgWire{} }
func (m *createMsgWire) String() string { return proto.CompactTextString(m) }
func (*createMsgWire) ProtoMessage()    {}

// PayerCancelMsg closes a Deposited escrow and refunds the payer.
type PayerCancelMsg struct {
	Metadata *custody.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Payer    custody.Address   `protobuf:"bytes,2,opt,name=payer,proto3,casttype=github.com/iov-one/custody.Address" json:"payer,omitempty"`
	Receiver custody.Address   `protobuf:"bytes,3,opt,name=receiver,proto3,casttype=github.com/iov-one/custody.Address" json:"receiver,omitempty"`
	Nonce    uint32            `protobuf:"varint,4,opt,name=nonce,proto3" json:"nonce,omitempty"`
}

func (PayerCancelMsg) Path() string {
	return pathPayerCancel
}

func (m *PayerCancelMsg) Validate() error {
	return validateParties(m.Metadata, m.Payer, m.Receiver, m.Nonce)
}

func (m *PayerCancelMsg) Marshal() ([]byte, error) { return proto.Marshal((*payerCancelMsgWire)(m)) }

func (m *PayerCancelMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*payerCancelMsgWire)(m))
}

type payerCancelMsgWire PayerCancelMsg

func (m *payerCancelMsgWire) Reset()         { *m = payerCancelMsgWire{} }
func (m *payerCancelMsgWire) String() string { return proto.CompactTextString(m) }
func (*payerCancelMsgWire) ProtoMessage()    {}

// ReceiverConfirmMsg is sent by the receiver once the service was rendered.
type ReceiverConfirmMsg struct {
	Metadata *custody.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Receiver custody.Address   `protobuf:"bytes,2,opt,name=receiver,proto3,casttype=github.com/iov-one/custody.Address" json:"receiver,omitempty"`
	Payer    custody.Address   `protobuf:"bytes,3,opt,name=payer,proto3,casttype=github.com/iov-one/custody.Address" json:"payer,omitempty"`
	Nonce    uint32            `protobuf:"varint,4,opt,name=nonce,proto3" json:"nonce,omitempty"`
}

func (ReceiverConfirmMsg) Path() string {
	return pathReceiverConfirm
}

func (m *ReceiverConfirmMsg) Validate() error {
	return validateParties(m.Metadata, m.Payer, m.Receiver, m.Nonce)
}

func (m *ReceiverConfirmMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*receiverConfirmMsgWire)(m))
}

func (m *ReceiverConfirmMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*receiverConfirmMsgWire)(m))
}

type receiverConfirmMsgWire ReceiverConfirmMsg

func (m *receiverConfirmMsgWire) Reset()         { *m = receiverConfirmMsgWire{} }
func (m *receiverConfirmMsgWire) String() string { return proto.CompactTextString(m) }
func (*receiverConfirmMsgWire) ProtoMessage()    {}

// PayerConfirmMsg releases the funds of a ReceiverConfirmed escrow.
type PayerConfirmMsg struct {
	Metadata *custody.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Payer    custody.Address   `protobuf:"bytes,2,opt,name=payer,proto3,casttype=github.com/iov-one/custody.Address" json:"payer,omitempty"`
	Receiver custody.Address   `protobuf:"bytes,3,opt,name=receiver,proto3,casttype=github.com/iov-one/custody.Address" json:"receiver,omitempty"`
	Nonce    uint32            `protobuf:"varint,4,opt,name=nonce,proto3" json:"nonce,omitempty"`
}

func (PayerConfirmMsg) Path() string {
	return pathPayerConfirm
}

func (m *PayerConfirmMsg) Validate() error {
	return validateParties(m.Metadata, m.Payer, m.Receiver, m.Nonce)
}

func (m *PayerConfirmMsg) Marshal() ([]byte, error) { return proto.Marshal((*payerConfirmMsgWire)(m)) }

func (m *PayerConfirmMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*payerConfirmMsgWire)(m))
}

type payerConfirmMsgWire PayerConfirmMsg

func (m *payerConfirmMsgWire) Reset()         { *m = payerConfirmMsgWire{} }
func (m *payerConfirmMsgWire) String() string { return proto.CompactTextString(m) }
func (*payerConfirmMsgWire) ProtoMessage()    {}

// validateParties checks the fields shared by all messages addressing an
// existing escrow.
func validateParties(meta *custody.Metadata, payer, receiver custody.Address, nonce uint32) error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", meta.Validate())
	errs = errors.AppendField(errs, "Payer", payer.Validate())
	errs = errors.AppendField(errs, "Receiver", receiver.Validate())
	if nonce > MaxNonce {
		errs = errors.AppendField(errs, "Nonce", errors.Wrapf(errors.ErrInput, "greater than %d", MaxNonce))
	}
	return errs
}

// UpdateConfigurationMsg patches the escrow configuration. Zero value fields
// of the patch are ignored.
type UpdateConfigurationMsg struct {
	Metadata *custody.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Patch    *Configuration    `protobuf:"bytes,2,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfiguration
}

func (m *UpdateConfigurationMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Patch == nil {
		return errors.AppendField(errs, "Patch", errors.Wrap(errors.ErrEmpty, "required"))
	}
	if len(m.Patch.Owner) != 0 {
		errs = errors.AppendField(errs, "Patch.Owner", m.Patch.Owner.Validate())
	}
	return errs
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*updateConfigurationMsgWire)(m))
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*updateConfigurationMsgWire)(m))
}

type updateConfigurationMsgWire UpdateConfigurationMsg

func (m *updateConfigurationMsgWire) Reset()         { *m = updateConfigurationMsgWire{} }
func (m *updateConfigurationMsgWire) String() string { return proto.CompactTextString(m) }
func (*updateConfigurationMsgWire) ProtoMessage()    {}
