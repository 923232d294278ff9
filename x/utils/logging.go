package utils

import (
	"time"

	"github.com/iov-one/sigswap"
)

// Logging writes one log line per processed transaction. Failures are
// logged as errors. Successful checks go to debug, successful deliveries
// to info.
type Logging struct{}

var _ sigswap.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx, next sigswap.Checker) (*sigswap.CheckResult, error) {
	began := time.Now()
	res, err := next.Check(ctx, db, tx)
	var text string
	if res != nil {
		text = res.Log
	}
	report(ctx, tx, began, text, err, true)
	return res, err
}

func (Logging) Deliver(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx, next sigswap.Deliverer) (*sigswap.DeliverResult, error) {
	began := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var text string
	if res != nil {
		text = res.Log
	}
	report(ctx, tx, began, text, err, false)
	return res, err
}

// report logs even an empty text, as path and duration are worth keeping.
func report(ctx sigswap.Context, tx sigswap.Tx, began time.Time, text string, err error, quiet bool) {
	logger := sigswap.GetLogger(ctx).With(
		"path", sigswap.GetPath(tx),
		"duration", time.Since(began)/time.Microsecond,
	)
	if err != nil {
		logger.Error(text, "err", err)
		return
	}
	if quiet {
		logger.Debug(text)
		return
	}
	logger.Info(text)
}
