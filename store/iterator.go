package store

import (
	"bytes"
)

// side tells which of the merged iterators holds the next key.
type side int

const (
	sideNone side = iota
	sideCache
	sideParent
	sideBoth
)

// cacheIterator merges the cached entries of a layer with the iterator of
// its parent. Cached entries shadow the parent and deleted entries hide
// the parent value under the same key.
type cacheIterator struct {
	pending []entry
	pos     int
	parent  Iterator
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(pending []entry, parent Iterator) (*cacheIterator, error) {
	it := &cacheIterator{pending: pending, parent: parent}
	if err := it.skipTombstones(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

func (it *cacheIterator) Valid() bool {
	return it.next() != sideNone
}

// Next moves past the current key. It panics when the iterator is not
// valid.
func (it *cacheIterator) Next() error {
	if err := it.step(it.next()); err != nil {
		return err
	}
	return it.skipTombstones()
}

func (it *cacheIterator) Key() []byte {
	switch it.next() {
	case sideCache, sideBoth:
		return it.pending[it.pos].key
	case sideParent:
		return it.parent.Key()
	}
	panic("iterator exhausted")
}

func (it *cacheIterator) Value() []byte {
	switch it.next() {
	case sideCache, sideBoth:
		return it.pending[it.pos].value
	case sideParent:
		return it.parent.Value()
	}
	panic("iterator exhausted")
}

func (it *cacheIterator) Close() {
	it.parent.Close()
	it.pending = nil
}

func (it *cacheIterator) step(s side) error {
	switch s {
	case sideCache:
		it.pos++
		return nil
	case sideParent:
		return it.parent.Next()
	case sideBoth:
		it.pos++
		return it.parent.Next()
	}
	panic("iterator exhausted")
}

// skipTombstones steps over deleted cache entries and the parent keys
// they hide.
func (it *cacheIterator) skipTombstones() error {
	for {
		s := it.next()
		if s != sideCache && s != sideBoth {
			return nil
		}
		if !it.pending[it.pos].deleted {
			return nil
		}
		if err := it.step(s); err != nil {
			return err
		}
	}
}

// next returns the side holding the lowest remaining key.
func (it *cacheIterator) next() side {
	haveCache := it.pos < len(it.pending)
	haveParent := it.parent.Valid()
	if !haveCache {
		if haveParent {
			return sideParent
		}
		return sideNone
	}
	if !haveParent {
		return sideCache
	}
	c := bytes.Compare(it.pending[it.pos].key, it.parent.Key())
	if c < 0 {
		return sideCache
	}
	if c > 0 {
		return sideParent
	}
	return sideBoth
}
