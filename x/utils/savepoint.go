package utils

import (
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
)

// Savepoint runs the rest of the stack on a cache of the store. The cache
// is written back on success and dropped on failure, so a failed
// transaction leaves no state behind. It is off for both check and
// deliver until enabled with OnCheck or OnDeliver.
type Savepoint struct {
	check   bool
	deliver bool
}

var _ sigswap.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck enables the savepoint for CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.check = true
	return s
}

// OnDeliver enables the savepoint for DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.deliver = true
	return s
}

func (s Savepoint) Check(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx, next sigswap.Checker) (*sigswap.CheckResult, error) {
	var res *sigswap.CheckResult
	err := atomically(db, s.check, func(kv sigswap.KVStore) error {
		var err error
		res, err = next.Check(ctx, kv, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx, next sigswap.Deliverer) (*sigswap.DeliverResult, error) {
	var res *sigswap.DeliverResult
	err := atomically(db, s.deliver, func(kv sigswap.KVStore) error {
		var err error
		res, err = next.Deliver(ctx, kv, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// atomically calls fn on a cache of db when enabled and db supports it,
// and on db itself otherwise.
func atomically(db sigswap.KVStore, enabled bool, fn func(sigswap.KVStore) error) error {
	cacheable, ok := db.(sigswap.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "flush savepoint")
	}
	return nil
}
