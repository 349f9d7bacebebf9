package custody

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/errors"
)

// Metadata is carried by every persisted model and every message. It
// declares the schema version the data was written with.
type Metadata struct {
	Schema uint32 `protobuf:"varint,1,opt,name=schema,proto3" json:"schema,omitempty"`
}

// Validate returns an error if the metadata is not usable.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema != 1 {
		return errors.Wrapf(errors.ErrSchema, "unsupported schema version %d", m.Schema)
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.Model interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

func (m *Metadata) Marshal() ([]byte, error) { return proto.Marshal((*metadataWire)(m)) }

func (m *Metadata) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*metadataWire)(m)) }

type metadataWire Metadata

func (m *metadataWire) Reset()         { *m = metadataWire{} }
func (m *metadataWire) String() string { return proto.CompactTextString(m) }
func (*metadataWire) ProtoMessage()    {}
