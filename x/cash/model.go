package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Set is the wallet content: all coins owned by a single address.
type Set struct {
	Metadata *custody.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Coins    []*coin.Coin      `protobuf:"bytes,2,rep,name=coins,proto3" json:"coins,omitempty"`
}

var _ orm.Model = (*Set)(nil)

// Validate requires that all coins are in alphabetical order and positive.
func (s *Set) Validate() error {
	if err := s.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return coin.Coins(s.Coins).Validate()
}

// Wallet returns the coins held, as a normalized set.
func (s *Set) Wallet() coin.Coins {
	return coin.Coins(s.Coins)
}

// NewSet creates a wallet content holding given coins.
func NewSet(coins ...coin.Coin) (*Set, error) {
	cs, err := coin.CombineCoins(coins...)
	if err != nil {
		return nil, err
	}
	return &Set{
		Metadata: &custody.Metadata{Schema: 1},
		Coins:    cs,
	}, nil
}

func (s *Set) Marshal() ([]byte, error) { return proto.Marshal((*setWire)(s)) }

func (s *Set) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*setWire)(s)) }

type setWire Set

func (s *setWire) Reset()         { *s = setWire{} }
func (s *setWire) String() string { return proto.CompactTextString(s) }
func (*setWire) ProtoMessage()    {}

// NewBucket returns a bucket storing wallets by their owner address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Set{})
}
