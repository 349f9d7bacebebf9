package utils

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Recovery converts a panic anywhere down the stack into an ErrPanic
// failure of the transaction. The panic is logged with the message path.
type Recovery struct{}

var _ custody.Decorator = Recovery{}

// NewRecovery returns the decorator. It should be the first in the chain.
func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (res *custody.CheckResult, err error) {
	defer recoverTx(ctx, tx, &err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (res *custody.DeliverResult, err error) {
	defer recoverTx(ctx, tx, &err)
	return next.Deliver(ctx, db, tx)
}

// recoverTx must be deferred directly, recover has no effect otherwise.
func recoverTx(ctx custody.Context, tx custody.Tx, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	custody.GetLogger(ctx).Error("Transaction panic",
		"path", custody.GetPath(tx),
		"panic", r)
}
