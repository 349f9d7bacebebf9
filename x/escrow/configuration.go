package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const confPkg = "escrow"

// Configuration is the on-chain configuration of the escrow extension.
type Configuration struct {
	Metadata *custody.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Owner is allowed to update the configuration.
	Owner custody.Address `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/custody.Address" json:"owner,omitempty"`
	// AllowZeroAmount permits creating escrows that hold no funds.
	AllowZeroAmount bool `protobuf:"varint,3,opt,name=allow_zero_amount,json=allowZeroAmount,proto3" json:"allow_zero_amount,omitempty"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	return errs
}

func (c *Configuration) GetOwner() custody.Address {
	return c.Owner
}

func (c *Configuration) Marshal() ([]byte, error) { return proto.Marshal((*configurationWire)(c)) }

func (c *Configuration) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*configurationWire)(c))
}

type configurationWire Configuration

func (c *configurationWire) Reset()         { *c = configurationWire{} }
func (c *configurationWire) String() string { return proto.CompactTextString(c) }
func (*configurationWire) ProtoMessage()    {}

// loadConf returns the stored configuration. Without one, zero amounts are
// rejected.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, confPkg, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		return &Configuration{}, nil
	default:
		return nil, errors.Wrap(err, "load configuration")
	}
}
