package crypto

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions we get from signatures
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() custody.Condition
	Address() custody.Address
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is a serializable ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// PrivateKey is a serializable ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Signature is a serializable ed25519 signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

var _ PubKey = (*PublicKey)(nil)

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || sig == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a condition. The condition is
// granted to every transaction carrying a valid signature of this key.
func (p *PublicKey) Condition() custody.Condition {
	return custody.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the address controlled by this key.
func (p *PublicKey) Address() custody.Address {
	return p.Condition().Address()
}

// Validate makes sure the key has the ed25519 size.
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrInput, "invalid ed25519 public key")
	}
	return nil
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid ed25519 private key")
	}
	return &Signature{Ed25519: ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}

func (p *PublicKey) Marshal() ([]byte, error) { return proto.Marshal((*publicKeyWire)(p)) }

func (p *PublicKey) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*publicKeyWire)(p)) }

func (p *PrivateKey) Marshal() ([]byte, error) { return proto.Marshal((*privateKeyWire)(p)) }

func (p *PrivateKey) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*privateKeyWire)(p)) }

func (s *Signature) Marshal() ([]byte, error) { return proto.Marshal((*signatureWire)(s)) }

func (s *Signature) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*signatureWire)(s)) }

type publicKeyWire PublicKey

func (p *publicKeyWire) Reset()         { *p = publicKeyWire{} }
func (p *publicKeyWire) String() string { return proto.CompactTextString(p) }
func (*publicKeyWire) ProtoMessage()    {}

type privateKeyWire PrivateKey

func (p *privateKeyWire) Reset()         { *p = privateKeyWire{} }
func (p *privateKeyWire) String() string { return proto.CompactTextString(p) }
func (*privateKeyWire) ProtoMessage()    {}

type signatureWire Signature

func (s *signatureWire) Reset()         { *s = signatureWire{} }
func (s *signatureWire) String() string { return proto.CompactTextString(s) }
func (*signatureWire) ProtoMessage()    {}
