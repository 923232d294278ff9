package orm

import (
	"github.com/iov-one/sigswap"
)

// Validater checks that a value is fit to be written.
type Validater interface {
	Validate() error
}

// Model is a value that a bucket can serialize and validate.
type Model interface {
	sigswap.Persistent
	Validater
}

// Keyed exposes the key an object lives under, without the bucket prefix.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable produces an empty object of the same kind, ready to be
// loaded from the store. Buckets hold one as their prototype.
type Cloneable interface {
	Clone() Object
}

// Object pairs a key with its value. Validate must fail for an object
// that is missing either, or whose value is inconsistent.
type Object interface {
	Keyed
	Cloneable
	Validater
	Value() Model
}

// Reader loads objects by key.
type Reader interface {
	Get(db sigswap.ReadOnlyKVStore, key []byte) (Object, error)
}
