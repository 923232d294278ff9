package app

import (
	"reflect"

	"github.com/iov-one/sigswap"
)

// Decorators is an ordered list of decorators waiting for the handler
// they wrap. The first decorator runs first.
type Decorators struct {
	chain []sigswap.Decorator
}

// ChainDecorators starts a stack. Nil decorators are skipped, which lets a
// caller leave out an optional step:
//
//	handler := app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//		utils.NewSavepoint().OnDeliver(),
//	).WithHandler(router)
func ChainDecorators(chain ...sigswap.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a stack with chain appended. The receiver is not
// modified.
func (d Decorators) Chain(chain ...sigswap.Decorator) Decorators {
	out := Decorators{chain: append([]sigswap.Decorator(nil), d.chain...)}
	for _, dec := range chain {
		if !isNilDecorator(dec) {
			out.chain = append(out.chain, dec)
		}
	}
	return out
}

func isNilDecorator(dec sigswap.Decorator) bool {
	if dec == nil {
		return true
	}
	v := reflect.ValueOf(dec)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack with h and returns the resulting handler.
func (d Decorators) WithHandler(h sigswap.Handler) sigswap.Handler {
	for i := len(d.chain); i > 0; i-- {
		h = link{dec: d.chain[i-1], next: h}
	}
	return h
}

// link binds one decorator to the handler below it.
type link struct {
	dec  sigswap.Decorator
	next sigswap.Handler
}

var _ sigswap.Handler = link{}

func (l link) Check(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (*sigswap.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (*sigswap.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
