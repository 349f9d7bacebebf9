package sigs

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/weavetest"
)

// stdTx is a signed transaction used in tests.
type stdTx struct {
	weavetest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*stdTx)(nil)
var _ custody.Tx = (*stdTx)(nil)

func newStdTx(payload []byte) *stdTx {
	msg := &weavetest.Msg{RoutePath: "test/mock", Serialized: payload}
	return &stdTx{Tx: weavetest.Tx{Msg: msg}}
}

func (tx *stdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *stdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// sigCheckHandler stores the seen signers on each call
type sigCheckHandler struct {
	Signers []custody.Condition
}

var _ custody.Handler = (*sigCheckHandler)(nil)

func (s *sigCheckHandler) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &custody.CheckResult{}, nil
}

func (s *sigCheckHandler) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &custody.DeliverResult{}, nil
}
