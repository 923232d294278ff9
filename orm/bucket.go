/*
Package orm stores typed records in the key value store.

A Bucket owns every key starting with its name and a colon, and holds
records of a single type. Buckets also answer queries, by exact key or by
key prefix, once registered with a query router.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/store"
)

var validBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is the untyped building block. Extensions embed it in a wrapper
// that converts objects to their own model type.
type Bucket struct {
	name   string
	prefix []byte
	proto  Cloneable
}

var _ sigswap.QueryHandler = Bucket{}

// NewBucket returns a bucket holding records shaped like proto. The name
// must be 3 to 10 characters of [a-z_], it panics otherwise.
func NewBucket(name string, proto Cloneable) Bucket {
	if !validBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{
		name:   name,
		prefix: []byte(name + ":"),
		proto:  proto,
	}
}

func (b Bucket) Name() string {
	return b.name
}

// Register exposes the bucket under "/"+path, or under its own name when
// path is empty.
func (b Bucket) Register(path string, r sigswap.QueryRouter) {
	if path == "" {
		path = b.name
	}
	r.Register("/"+path, b)
}

// Query returns the record stored under data, or with the prefix
// modifier every record whose key starts with data. Returned keys include
// the bucket prefix.
func (b Bucket) Query(db sigswap.ReadOnlyKVStore, mod string, data []byte) ([]sigswap.Model, error) {
	switch mod {
	case sigswap.KeyQueryMod:
		return queryKey(db, b.DBKey(data))
	case sigswap.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	}
	return nil, errors.Wrapf(errors.ErrInput, "query modifier %q", mod)
}

// DBKey returns key with the bucket prefix. The result never shares
// memory with the prefix or key.
func (b Bucket) DBKey(key []byte) []byte {
	full := make([]byte, 0, len(b.prefix)+len(key))
	full = append(full, b.prefix...)
	return append(full, key...)
}

// Get returns the object under key, or nil when there is none.
func (b Bucket) Get(db sigswap.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	return b.Parse(key, raw)
}

func (b Bucket) Has(db sigswap.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Parse builds an object from a key without prefix and its stored value.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "%s: %s", b.name, err)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates obj and writes it under its key.
func (b Bucket) Save(db sigswap.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

func (b Bucket) Delete(db sigswap.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}

func queryKey(db sigswap.ReadOnlyKVStore, key []byte) ([]sigswap.Model, error) {
	raw, err := db.Get(key)
	if err != nil || raw == nil {
		return nil, err
	}
	return []sigswap.Model{sigswap.Pair(key, raw)}, nil
}

func queryPrefix(db sigswap.ReadOnlyKVStore, prefix []byte) ([]sigswap.Model, error) {
	it, err := db.Iterator(prefix, store.PrefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(it)
}

// ConsumeIterator reads every remaining entry and closes it.
func ConsumeIterator(it sigswap.Iterator) ([]sigswap.Model, error) {
	defer it.Close()
	var models []sigswap.Model
	for it.Valid() {
		models = append(models, sigswap.Pair(it.Key(), it.Value()))
		if err := it.Next(); err != nil {
			return nil, err
		}
	}
	return models, nil
}
