package aswap

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/orm"
)

// BucketName is where we store the swaps
const BucketName = "swaps"

// Swap is the escrow record of a single swap identifier.
type Swap struct {
	Initiator      common.Address
	Participant    common.Address
	TokenContract  common.Address
	Value          *uint256.Int
	RefundDeadline uint64
}

var _ orm.Model = (*Swap)(nil)

func (s Swap) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(&s)
}

func (s *Swap) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, s)
}

// Validate ensures only active swaps are stored.
func (s *Swap) Validate() error {
	if !s.IsActive() {
		return errors.Wrap(errors.ErrModel, "initiator")
	}
	if sigswap.IsZeroAddress(s.Participant) {
		return errors.Wrap(errors.ErrModel, "participant")
	}
	if s.Value == nil {
		return errors.Wrap(errors.ErrModel, "value")
	}
	return nil
}

// IsActive returns true if the swap holds funds in escrow.
func (s *Swap) IsActive() bool {
	return !sigswap.IsZeroAddress(s.Initiator)
}

// emptySwap is what is observed for an identifier that is not in use.
func emptySwap() *Swap {
	return &Swap{Value: new(uint256.Int)}
}

// Registry keeps the swap records, keyed by the swap identifier.
//
// Registry is a type-safe wrapper around orm.Bucket
type Registry struct {
	orm.Bucket
}

// NewRegistry initializes a Registry with default name.
func NewRegistry() Registry {
	return Registry{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Swap))),
	}
}

// Get returns the swap stored under the identifier. A zero swap is returned
// when no swap is active for the identifier.
func (r Registry) Get(db sigswap.ReadOnlyKVStore, id common.Address) (*Swap, error) {
	obj, err := r.Bucket.Get(db, id.Bytes())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return emptySwap(), nil
	}
	swap, ok := obj.Value().(*Swap)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return swap, nil
}

// Put stores the swap under the identifier.
func (r Registry) Put(db sigswap.KVStore, id common.Address, swap *Swap) error {
	return r.Save(db, orm.NewSimpleObj(id.Bytes(), swap))
}

// Clear removes the swap stored under the identifier.
func (r Registry) Clear(db sigswap.KVStore, id common.Address) error {
	return r.Delete(db, id.Bytes())
}
