package weavetest

import "github.com/iov-one/custody"

// Handler is a mock implementation of the custody.Handler interface.
//
// Set CheckErr or DeliverErr to force error response. Each method call is
// counted. When WriteKey is set, the handler writes WriteValue under that key
// before returning.
type Handler struct {
	CheckResult   custody.CheckResult
	CheckErr      error
	DeliverResult custody.DeliverResult
	DeliverErr    error

	WriteKey   []byte
	WriteValue []byte

	checks, delivers int
}

var _ custody.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	h.checks++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	h.delivers++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db custody.KVStore) error {
	if h.WriteKey == nil {
		return nil
	}
	return db.Set(h.WriteKey, h.WriteValue)
}

func (h *Handler) CheckCallCount() int   { return h.checks }
func (h *Handler) DeliverCallCount() int { return h.delivers }
func (h *Handler) CallCount() int        { return h.checks + h.delivers }

// PanicHandler panics with given value on every call.
type PanicHandler struct {
	Value interface{}
}

var _ custody.Handler = PanicHandler{}

func (p PanicHandler) Check(custody.Context, custody.KVStore, custody.Tx) (*custody.CheckResult, error) {
	panic(p.Value)
}

func (p PanicHandler) Deliver(custody.Context, custody.KVStore, custody.Tx) (*custody.DeliverResult, error) {
	panic(p.Value)
}
