package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/errors"
)

// holding is a minimal model used to test buckets and indexes.
type holding struct {
	Owner  []byte `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	Amount int64  `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (h *holding) Validate() error {
	if len(h.Owner) == 0 {
		return errors.Wrap(errors.ErrEmpty, "owner")
	}
	if h.Amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative")
	}
	return nil
}

func (h *holding) Marshal() ([]byte, error) { return proto.Marshal((*holdingWire)(h)) }

func (h *holding) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*holdingWire)(h)) }

type holdingWire holding

func (h *holdingWire) Reset()         { *h = holdingWire{} }
func (h *holdingWire) String() string { return proto.CompactTextString(h) }
func (*holdingWire) ProtoMessage()    {}

type other struct{ holding }

func ownerIndexer(m Model) ([]byte, error) {
	h, ok := m.(*holding)
	if !ok {
		return nil, errors.WithType(errors.ErrType, m)
	}
	return h.Owner, nil
}
