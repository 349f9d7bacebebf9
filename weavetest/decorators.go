package weavetest

import "github.com/iov-one/custody"

// Decorator counts its calls and passes through to the next handler unless
// an error is configured for the call kind.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	checks, delivers int
}

var _ custody.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	if d.checks++; d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	if d.delivers++; d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// CheckCallCount is the number of Check calls so far.
func (d *Decorator) CheckCallCount() int { return d.checks }

// DeliverCallCount is the number of Deliver calls so far.
func (d *Decorator) DeliverCallCount() int { return d.delivers }

// CallCount is the number of Check and Deliver calls so far.
func (d *Decorator) CallCount() int { return d.checks + d.delivers }

// Decorate binds d to h, the way the application decorator chain does.
func Decorate(h custody.Handler, d custody.Decorator) custody.Handler {
	return decorated{next: h, d: d}
}

type decorated struct {
	next custody.Handler
	d    custody.Decorator
}

func (x decorated) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return x.d.Check(ctx, db, tx, x.next)
}

func (x decorated) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	return x.d.Deliver(ctx, db, tx, x.next)
}
