package erc20

import (
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/orm"
)

var (
	isTokenSymbol = regexp.MustCompile(`^[A-Z0-9]{2,10}$`).MatchString
)

const maxTokenNameLength = 64

// Token describes a registered token contract.
type Token struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply *uint256.Int
}

var _ orm.Model = (*Token)(nil)

func (t Token) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(&t)
}

func (t *Token) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, t)
}

// Validate checks the token metadata.
func (t *Token) Validate() error {
	if t.Name == "" || len(t.Name) > maxTokenNameLength {
		return errors.Wrapf(errors.ErrModel, "invalid token name %q", t.Name)
	}
	if !isTokenSymbol(t.Symbol) {
		return errors.Wrapf(errors.ErrModel, "invalid token symbol %q", t.Symbol)
	}
	if t.TotalSupply == nil {
		return errors.Wrap(errors.ErrModel, "missing total supply")
	}
	return nil
}

// Amount is a token quantity stored as a balance or as an allowance.
type Amount struct {
	Value *uint256.Int
}

var _ orm.Model = (*Amount)(nil)

func (a Amount) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(&a)
}

func (a *Amount) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, a)
}

func (a *Amount) Validate() error {
	if a.Value == nil {
		return errors.Wrap(errors.ErrAmount, "missing value")
	}
	return nil
}

const (
	TokenBucketName     = "tokens"
	BalanceBucketName   = "balances"
	AllowanceBucketName = "allowances"
)

// TokenBucket is a type-safe wrapper around orm.Bucket, keyed by the
// token contract address.
type TokenBucket struct {
	orm.Bucket
}

// NewTokenBucket initializes a TokenBucket with default name.
func NewTokenBucket() TokenBucket {
	return TokenBucket{
		Bucket: orm.NewBucket(TokenBucketName, orm.NewSimpleObj(nil, new(Token))),
	}
}

// GetToken returns the token registered under the given address or nil.
func (b TokenBucket) GetToken(db sigswap.ReadOnlyKVStore, addr common.Address) (*Token, error) {
	obj, err := b.Get(db, addr.Bytes())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	tok, ok := obj.Value().(*Token)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return tok, nil
}

// SaveToken writes the token under the given address.
func (b TokenBucket) SaveToken(db sigswap.KVStore, addr common.Address, t *Token) error {
	return b.Save(db, orm.NewSimpleObj(addr.Bytes(), t))
}

// AmountBucket stores amounts under composite address keys.
type AmountBucket struct {
	orm.Bucket
}

// NewBalanceBucket returns a bucket of balances keyed by token and owner.
func NewBalanceBucket() AmountBucket {
	return AmountBucket{
		Bucket: orm.NewBucket(BalanceBucketName, orm.NewSimpleObj(nil, new(Amount))),
	}
}

// NewAllowanceBucket returns a bucket of allowances keyed by token,
// owner and spender.
func NewAllowanceBucket() AmountBucket {
	return AmountBucket{
		Bucket: orm.NewBucket(AllowanceBucketName, orm.NewSimpleObj(nil, new(Amount))),
	}
}

// GetAmount returns the stored amount, or zero if nothing was stored.
func (b AmountBucket) GetAmount(db sigswap.ReadOnlyKVStore, key []byte) (*uint256.Int, error) {
	obj, err := b.Get(db, key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return new(uint256.Int), nil
	}
	a, ok := obj.Value().(*Amount)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return a.Value, nil
}

// SetAmount stores the amount under the key. Zero amounts are removed.
func (b AmountBucket) SetAmount(db sigswap.KVStore, key []byte, value *uint256.Int) error {
	if value.IsZero() {
		return b.Delete(db, key)
	}
	return b.Save(db, orm.NewSimpleObj(key, &Amount{Value: value}))
}

// BalanceKey is the key under which the balance of owner is stored.
func BalanceKey(token, owner common.Address) []byte {
	key := make([]byte, 0, 2*common.AddressLength)
	key = append(key, token.Bytes()...)
	return append(key, owner.Bytes()...)
}

// AllowanceKey is the key under which the amount spender may move on behalf
// of owner is stored.
func AllowanceKey(token, owner, spender common.Address) []byte {
	return append(BalanceKey(token, owner), spender.Bytes()...)
}
