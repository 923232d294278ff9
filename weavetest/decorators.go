package weavetest

import "github.com/iov-one/sigswap"

// Decorator counts its calls and passes them to the next handler, unless
// CheckErr or DeliverErr is set. Then that error is returned and the next
// handler is not called.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	checks     int
	deliveries int
}

var _ sigswap.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx, next sigswap.Checker) (*sigswap.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx, next sigswap.Deliverer) (*sigswap.DeliverResult, error) {
	d.deliveries++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int { return d.checks }

func (d *Decorator) DeliverCallCount() int { return d.deliveries }

func (d *Decorator) CallCount() int { return d.checks + d.deliveries }

// Decorate wraps h with d.
func Decorate(h sigswap.Handler, d sigswap.Decorator) sigswap.Handler {
	return decorated{next: h, dec: d}
}

type decorated struct {
	next sigswap.Handler
	dec  sigswap.Decorator
}

func (d decorated) Check(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (*sigswap.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (*sigswap.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}
