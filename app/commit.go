package app

import (
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
)

// CommitStore keeps the committed root store together with the two
// scratch layers the ABCI connections write to: one for DeliverTx and one
// for CheckTx. Commit flushes the first and drops the second.
type CommitStore struct {
	root    sigswap.CommitKVStore
	deliver sigswap.KVCacheWrap
	check   sigswap.KVCacheWrap
}

// NewCommitStore opens the latest version of root. It panics when root
// cannot be loaded, as the node cannot start without its state.
func NewCommitStore(root sigswap.CommitKVStore) *CommitStore {
	if err := root.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{root: root}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.root.CacheWrap()
	cs.check = cs.root.CacheWrap()
}

// CommitInfo returns the version and hash of the last commit.
func (cs *CommitStore) CommitInfo() (sigswap.CommitID, error) {
	return cs.root.LatestVersion()
}

// Commit persists everything delivered since the last commit. Pending
// check state is dropped, so the mempool is checked against the new
// state.
func (cs *CommitStore) Commit() (sigswap.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return sigswap.CommitID{}, errors.Wrap(err, "flush deliver state")
	}
	cs.check.Discard()
	id, err := cs.root.Commit()
	if err != nil {
		return id, err
	}
	cs.reset()
	return id, nil
}

// DeliverStore is written by DeliverTx, InitChain included.
func (cs *CommitStore) DeliverStore() sigswap.CacheableKVStore {
	return cs.deliver
}

// CheckStore is written by CheckTx.
func (cs *CommitStore) CheckStore() sigswap.CacheableKVStore {
	return cs.check
}

// QueryStore reads the last committed state.
func (cs *CommitStore) QueryStore() sigswap.ReadOnlyKVStore {
	return cs.root.CacheWrap()
}

// chainIDKey lives under the "_sw:" prefix, which no bucket can use.
const chainIDKey = "_sw:chainID"

// mustLoadChainID returns the stored chain id, or "" before InitChain.
func mustLoadChainID(db sigswap.ReadOnlyKVStore) string {
	raw, err := db.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	return string(raw)
}

// saveChainID writes the chain id. It can be written only once.
func saveChainID(db sigswap.KVStore, chainID string) error {
	if !sigswap.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	key := []byte(chainIDKey)
	switch has, err := db.Has(key); {
	case err != nil:
		return errors.Wrap(err, "read chain id")
	case has:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis only")
	}
	if err := db.Set(key, []byte(chainID)); err != nil {
		return errors.Wrap(err, "write chain id")
	}
	return nil
}
