package store

import (
	"testing"

	"github.com/iov-one/sigswap/weavetest/assert"
)

// TestSuite runs the same behavioural checks against any KVStore
// implementation. Every backend package calls it from its own tests with a
// constructor for the store under test.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store together with a cleanup
// function that releases its resources.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite that tests stores created with given constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet does basic sanity checks on our cache
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	AssertGetHas(t, base, k, v, true)

	// writes in a cache are only visible there until written
	cache := base.CacheWrap()
	AssertGetHas(t, cache, k, v, true)
	k2, v2 := []byte("LA"), []byte("Dodgers")
	assert.Nil(t, cache.Set(k2, v2))
	AssertGetHas(t, cache, k2, v2, true)
	AssertGetHas(t, base, k2, nil, false)

	assert.Nil(t, cache.Write())
	AssertGetHas(t, base, k, v, true)
	AssertGetHas(t, base, k2, v2, true)

	// a discarded cache leaves no trace
	k3, v3 := []byte("Bayern"), []byte("Munich")
	discarded := base.CacheWrap()
	assert.Nil(t, discarded.Set(k3, v3))
	discarded.Discard()
	AssertGetHas(t, base, k3, nil, false)

	// deletes are propagated as well
	deleting := base.CacheWrap()
	assert.Nil(t, deleting.Delete(k))
	AssertGetHas(t, deleting, k, nil, false)
	AssertGetHas(t, base, k, v, true)
	assert.Nil(t, deleting.Write())
	AssertGetHas(t, base, k, nil, false)
	AssertGetHas(t, base, k2, v2, true)
}

// CacheConflicts checks that we can handle
// overwriting values and deleting underlying values
func (s *TestSuite) CacheConflicts(t *testing.T) {
	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model // Key is what we query, Value is what we expect
		childQueries  []Model // Key is what we query, Value is what we expect
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp([]byte("a"), []byte("1")), SetOp([]byte("b"), []byte("2"))},
			childOps:      []Op{SetOp([]byte("a"), []byte("11")), SetOp([]byte("c"), []byte("7")), DelOp([]byte("b"))},
			parentQueries: []Model{Pair([]byte("a"), []byte("1")), Pair([]byte("b"), []byte("2")), Pair([]byte("c"), nil)},
			childQueries:  []Model{Pair([]byte("a"), []byte("11")), Pair([]byte("b"), nil), Pair([]byte("c"), []byte("7"))},
		},
		"set then delete in the child": {
			parentOps:     []Op{SetOp([]byte("x"), []byte("1"))},
			childOps:      []Op{SetOp([]byte("y"), []byte("2")), DelOp([]byte("y")), DelOp([]byte("x"))},
			parentQueries: []Model{Pair([]byte("x"), []byte("1")), Pair([]byte("y"), nil)},
			childQueries:  []Model{Pair([]byte("x"), nil), Pair([]byte("y"), nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			for _, q := range tc.parentQueries {
				AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			// writing the child makes the parent look like the child
			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// Iteration checks ascending range queries over a cache layered on top
// of written data.
func (s *TestSuite) Iteration(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for _, op := range []Op{
		SetOp([]byte("k1"), []byte("one")),
		SetOp([]byte("k3"), []byte("three")),
		SetOp([]byte("k5"), []byte("five")),
		SetOp([]byte("z"), []byte("outside")),
	} {
		assert.Nil(t, op.Apply(base))
	}

	cache := base.CacheWrap()
	assert.Nil(t, cache.Set([]byte("k2"), []byte("two")))
	assert.Nil(t, cache.Set([]byte("k3"), []byte("THREE")))
	assert.Nil(t, cache.Delete([]byte("k5")))

	want := []Model{
		Pair([]byte("k1"), []byte("one")),
		Pair([]byte("k2"), []byte("two")),
		Pair([]byte("k3"), []byte("THREE")),
	}
	AssertIterates(t, cache, []byte("k"), PrefixEnd([]byte("k")), want)

	// the base layer is not affected until written
	AssertIterates(t, base, []byte("k"), PrefixEnd([]byte("k")), []Model{
		Pair([]byte("k1"), []byte("one")),
		Pair([]byte("k3"), []byte("three")),
		Pair([]byte("k5"), []byte("five")),
	})

	assert.Nil(t, cache.Write())
	AssertIterates(t, base, []byte("k"), PrefixEnd([]byte("k")), want)
}

// AssertGetHas ensures that both Get and Has return the expected values.
func AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.EqualBytes(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// AssertIterates ensures that iterating over given range returns exactly the
// expected models in order.
func AssertIterates(t testing.TB, kv ReadOnlyKVStore, start, end []byte, want []Model) {
	t.Helper()
	it, err := kv.Iterator(start, end)
	assert.Nil(t, err)
	defer it.Close()

	var got []Model
	for ; it.Valid(); assert.Nil(t, it.Next()) {
		got = append(got, Pair(it.Key(), it.Value()))
	}
	assert.Equal(t, len(want), len(got))
	for i := range want {
		assert.EqualBytes(t, want[i].Key, got[i].Key)
		assert.EqualBytes(t, want[i].Value, got[i].Value)
	}
}
