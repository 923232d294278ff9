package store

import "github.com/iov-one/sigswap"

// Aliases of the root storage contracts, so store code and its callers
// can use the short names.
type (
	ReadOnlyKVStore  = sigswap.ReadOnlyKVStore
	SetDeleter       = sigswap.SetDeleter
	KVStore          = sigswap.KVStore
	Batch            = sigswap.Batch
	Iterator         = sigswap.Iterator
	CacheableKVStore = sigswap.CacheableKVStore
	KVCacheWrap      = sigswap.KVCacheWrap
	CommitKVStore    = sigswap.CommitKVStore
	CommitID         = sigswap.CommitID
	Model            = sigswap.Model
)

// Pair builds a Model.
var Pair = sigswap.Pair
