/*
Package bolt provides a CommitKVStore persisted in a single bbolt file.

Changes are staged in memory and applied in one bolt transaction on Commit.
The application hash of a version is a keccak digest chaining the previous
hash with every change applied in that version, so two nodes that process
the same blocks compute the same hash.
*/
package bolt

import (
	"bytes"
	"encoding/binary"
	"sync"
	"time"

	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/store"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/sha3"
)

var (
	stateBucket = []byte("state")
	metaBucket  = []byte("meta")

	versionKey = []byte("version")
	hashKey    = []byte("hash")
)

// CommitStore keeps the committed state in a bolt database.
type CommitStore struct {
	db *bolt.DB

	mu      sync.Mutex
	id      store.CommitID
	pending *opRecorder
	staging store.BTreeCacheWrap
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore opens (or creates) the database file at given path.
func NewCommitStore(path string) (*CommitStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %s", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(stateBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s := &CommitStore{db: db}
	s.resetStaging()
	return s, nil
}

// Close releases the database file.
func (s *CommitStore) Close() error {
	return s.db.Close()
}

func (s *CommitStore) resetStaging() {
	s.pending = &opRecorder{}
	s.staging = store.NewBTreeCacheWrap(reader{db: s.db}, s.pending, nil)
}

// Get returns the value at last committed state
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	return reader{db: s.db}.Get(key)
}

// CacheWrap returns a cache on top of all changes staged since the last
// commit. Writing it stages its changes for the next Commit.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staging.CacheWrap()
}

// Adapter exposes the staging area directly.
func (s *CommitStore) Adapter() store.CacheableKVStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staging
}

// Commit applies all staged changes in a single bolt transaction and
// stores the new version together with its hash.
func (s *CommitStore) Commit() (store.CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ops := s.pending.ops
	next := store.CommitID{
		Version: s.id.Version + 1,
		Hash:    chainHash(s.id.Hash, ops),
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		state := tx.Bucket(stateBucket)
		for _, op := range ops {
			if op.IsSetOp() {
				if err := state.Put(op.Key(), op.Value()); err != nil {
					return err
				}
			} else if err := state.Delete(op.Key()); err != nil {
				return err
			}
		}
		meta := tx.Bucket(metaBucket)
		var ver [8]byte
		binary.BigEndian.PutUint64(ver[:], uint64(next.Version))
		if err := meta.Put(versionKey, ver[:]); err != nil {
			return err
		}
		return meta.Put(hashKey, next.Hash)
	})
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.id = next
	s.staging.Discard()
	s.resetStaging()
	return next, nil
}

// LoadLatestVersion reads the last committed version and drops anything
// staged and not committed.
func (s *CommitStore) LoadLatestVersion() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id store.CommitID
	err := s.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(metaBucket)
		if raw := meta.Get(versionKey); len(raw) == 8 {
			id.Version = int64(binary.BigEndian.Uint64(raw))
		}
		id.Hash = copyBytes(meta.Get(hashKey))
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.id = id
	s.resetStaging()
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, nil
}

// chainHash computes keccak256(prev || op...) where each op is encoded as
// a kind byte followed by length prefixed key and value.
func chainHash(prev []byte, ops []store.Op) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(prev)
	var lenBuf [binary.MaxVarintLen64]byte
	for _, op := range ops {
		if op.IsSetOp() {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
		n := binary.PutUvarint(lenBuf[:], uint64(len(op.Key())))
		h.Write(lenBuf[:n])
		h.Write(op.Key())
		n = binary.PutUvarint(lenBuf[:], uint64(len(op.Value())))
		h.Write(lenBuf[:n])
		h.Write(op.Value())
	}
	return h.Sum(nil)
}

// opRecorder is the batch of the staging area. It only remembers the
// operations, Commit applies them.
type opRecorder struct {
	ops []store.Op
}

var _ store.Batch = (*opRecorder)(nil)

func (r *opRecorder) Set(key, value []byte) error {
	r.ops = append(r.ops, store.SetOp(copyBytes(key), copyBytes(value)))
	return nil
}

func (r *opRecorder) Delete(key []byte) error {
	r.ops = append(r.ops, store.DelOp(copyBytes(key)))
	return nil
}

// Write is a noop, the recorded operations are applied by Commit.
func (r *opRecorder) Write() error {
	return nil
}

// reader gives read access to the committed state.
type reader struct {
	db *bolt.DB
}

var _ store.ReadOnlyKVStore = reader{}

func (r reader) Get(key []byte) ([]byte, error) {
	var val []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		val = copyBytes(tx.Bucket(stateBucket).Get(key))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return val, nil
}

func (r reader) Has(key []byte) (bool, error) {
	val, err := r.Get(key)
	return val != nil, err
}

// Iterator loads all entries of the range within a single read
// transaction.
func (r reader) Iterator(start, end []byte) (store.Iterator, error) {
	var res []store.Model
	err := r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(stateBucket).Cursor()
		var k, v []byte
		if start == nil {
			k, v = c.First()
		} else {
			k, v = c.Seek(start)
		}
		for ; k != nil; k, v = c.Next() {
			if end != nil && bytes.Compare(k, end) >= 0 {
				break
			}
			res = append(res, store.Pair(copyBytes(k), copyBytes(v)))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.NewSliceIterator(res), nil
}

// copyBytes is required because bolt values are only valid for the
// lifetime of a transaction.
func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
