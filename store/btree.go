package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/sigswap/errors"
)

// DefaultFreeListSize is the number of released nodes kept for reuse.
const DefaultFreeListSize = btree.DefaultFreeListSize

// btreeDegree is the degree of every cache tree.
const btreeDegree = 2

// MemStore returns a store kept entirely in memory. Nothing survives the
// process.
func MemStore() CacheableKVStore {
	var empty EmptyKVStore
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// BTreeCacheWrap keeps pending writes in an ordered tree in front of a
// read only parent. Writes are recorded in batch too and reach the
// parent on Write.
type BTreeCacheWrap struct {
	tree   *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	batch  Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap wraps parent. All writes go to batch. A nil free list
// allocates a new one; pass an existing list to share released nodes
// between layers.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:   btree.NewWithFreeList(btreeDegree, free),
		free:   free,
		parent: parent,
		batch:  batch,
	}
}

// CacheWrap stacks another in-memory layer on top of this one.
func (c BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(c, c.NewBatch(), c.free)
}

// NewBatch returns a batch writing into this cache.
func (c BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(c)
}

// Write flushes the batch to the parent and empties the cache.
func (c BTreeCacheWrap) Write() error {
	err := c.batch.Write()
	c.Discard()
	return err
}

// Discard drops every pending write. Nodes go back to the free list.
func (c BTreeCacheWrap) Discard() {
	for c.tree.Len() > 0 {
		c.tree.DeleteMin()
	}
}

func (c BTreeCacheWrap) Set(key, value []byte) error {
	c.tree.ReplaceOrInsert(entry{key: key, value: value})
	return c.batch.Set(key, value)
}

func (c BTreeCacheWrap) Delete(key []byte) error {
	c.tree.ReplaceOrInsert(entry{key: key, deleted: true})
	return c.batch.Delete(key)
}

// lookup returns the cached entry for key. found is false when the key
// was never touched in this layer.
func (c BTreeCacheWrap) lookup(key []byte) (e entry, found bool, err error) {
	item := c.tree.Get(entry{key: key})
	if item == nil {
		return entry{}, false, nil
	}
	e, ok := item.(entry)
	if !ok {
		return entry{}, false, errors.Wrapf(errors.ErrDatabase, "unexpected cache item %T", item)
	}
	return e, true, nil
}

func (c BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, found, err := c.lookup(key)
	switch {
	case err != nil:
		return nil, err
	case !found:
		return c.parent.Get(key)
	case e.deleted:
		return nil, nil
	}
	return e.value, nil
}

func (c BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, found, err := c.lookup(key)
	switch {
	case err != nil:
		return false, err
	case !found:
		return c.parent.Has(key)
	}
	return !e.deleted, nil
}

// Iterator walks [start, end) in ascending order, merging this layer with
// the parent. A nil bound is open.
func (c BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	below, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	var pending []entry
	visit := func(i btree.Item) bool {
		pending = append(pending, i.(entry))
		return true
	}
	switch {
	case start != nil && end != nil:
		c.tree.AscendRange(entry{key: start}, entry{key: end}, visit)
	case start != nil:
		c.tree.AscendGreaterOrEqual(entry{key: start}, visit)
	case end != nil:
		c.tree.AscendLessThan(entry{key: end}, visit)
	default:
		c.tree.Ascend(visit)
	}
	return newCacheIterator(pending, below)
}

// entry is a single write kept in the cache tree. A deleted entry hides
// the value of the parent.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
