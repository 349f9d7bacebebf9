package weavetest

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Tx carries a single message. A set Err is returned by GetMsg instead.
type Tx struct {
	Msg custody.Msg
	Err error
}

var _ custody.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (custody.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

// Marshal returns the serialized message. The transaction has no binary
// form of its own.
func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "no message")
	}
	return tx.Msg.Marshal()
}

func (tx *Tx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "test transaction cannot be decoded")
}

// Msg is a message routed by RoutePath. Its binary form is Serialized. A set
// Err fails validation and serialization.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ custody.Msg = (*Msg)(nil)

func (m *Msg) Path() string    { return m.RoutePath }
func (m *Msg) Validate() error { return m.Err }

func (m *Msg) Marshal() ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Serialized, nil
}

func (m *Msg) Unmarshal(raw []byte) error {
	if m.Err != nil {
		return m.Err
	}
	m.Serialized = raw
	return nil
}
