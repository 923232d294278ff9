package sigs

import (
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// UserData is the authentication state of a single address.
type UserData struct {
	Sequence uint64
}

var _ orm.Model = (*UserData)(nil)

func (u UserData) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(&u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, u)
}

func (u *UserData) Validate() error {
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected uint64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	if u.Sequence == math.MaxUint64 {
		return errors.Wrap(errors.ErrOverflow, "sequence")
	}
	u.Sequence++
	return nil
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(UserData))),
	}
}

// GetOrCreate returns the user data of the address, a fresh one with zero
// sequence if the address was never seen.
func (b Bucket) GetOrCreate(db sigswap.ReadOnlyKVStore, addr common.Address) (*UserData, error) {
	obj, err := b.Get(db, addr.Bytes())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return new(UserData), nil
	}
	user, ok := obj.Value().(*UserData)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return user, nil
}

// SaveUser stores the user data of the address.
func (b Bucket) SaveUser(db sigswap.KVStore, addr common.Address, user *UserData) error {
	return b.Save(db, orm.NewSimpleObj(addr.Bytes(), user))
}
