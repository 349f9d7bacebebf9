package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
)

const maxMemoSize int = 128

// SendMsg moves coins from the source to the destination wallet.
type SendMsg struct {
	Metadata    *custody.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Source      custody.Address   `protobuf:"bytes,2,opt,name=source,proto3,casttype=github.com/iov-one/custody.Address" json:"source,omitempty"`
	Destination custody.Address   `protobuf:"bytes,3,opt,name=destination,proto3,casttype=github.com/iov-one/custody.Address" json:"destination,omitempty"`
	Amount      *coin.Coin        `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string            `protobuf:"bytes,5,opt,name=memo,proto3" json:"memo,omitempty"`
}

var _ custody.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Metadata", s.Metadata.Validate())
	if coin.IsEmpty(s.Amount) || !s.Amount.IsPositive() {
		err = errors.AppendField(err, "Amount", errors.Wrap(errors.ErrAmount, "non-positive"))
	} else {
		err = errors.AppendField(err, "Amount", s.Amount.Validate())
	}
	err = errors.AppendField(err, "Source", s.Source.Validate())
	err = errors.AppendField(err, "Destination", s.Destination.Validate())
	if len(s.Memo) > maxMemoSize {
		err = errors.AppendField(err, "Memo", errors.Wrap(errors.ErrInput, "too long"))
	}
	return err
}

func (s *SendMsg) Marshal() ([]byte, error) { return proto.Marshal((*sendMsgWire)(s)) }

func (s *SendMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*sendMsgWire)(s)) }

type sendMsgWire SendMsg

func (s *sendMsgWire) Reset()         { *s = sendMsgWire{} }
func (s *sendMsgWire) String() string { return proto.CompactTextString(s) }
func (*sendMsgWire) ProtoMessage()    {}
