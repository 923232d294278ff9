package utils

import (
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
)

// Recovery converts a panic raised further down the stack into an
// ErrPanic result, so a single bad transaction cannot halt the node.
type Recovery struct{}

var _ sigswap.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx, next sigswap.Checker) (res *sigswap.CheckResult, err error) {
	defer errors.Recover(&err)
	res, err = next.Check(ctx, db, tx)
	return res, err
}

func (Recovery) Deliver(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx, next sigswap.Deliverer) (res *sigswap.DeliverResult, err error) {
	defer errors.Recover(&err)
	res, err = next.Deliver(ctx, db, tx)
	return res, err
}
