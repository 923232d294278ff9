package erc20

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
)

// Controller is the functionality needed by the erc20 handlers and by
// other extensions that move tokens.
type Controller interface {
	BalanceOf(db sigswap.ReadOnlyKVStore, token, owner common.Address) (*uint256.Int, error)
	Allowance(db sigswap.ReadOnlyKVStore, token, owner, spender common.Address) (*uint256.Int, error)
	Transfer(db sigswap.KVStore, token, from, to common.Address, amount *uint256.Int) error
	TransferFrom(db sigswap.KVStore, token, spender, from, to common.Address, amount *uint256.Int) error
	Approve(db sigswap.KVStore, token, owner, spender common.Address, amount *uint256.Int) error
}

// BaseController is a simple implementation of Controller backed by the
// erc20 buckets.
type BaseController struct {
	tokens     TokenBucket
	balances   AmountBucket
	allowances AmountBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default buckets.
func NewController() BaseController {
	return BaseController{
		tokens:     NewTokenBucket(),
		balances:   NewBalanceBucket(),
		allowances: NewAllowanceBucket(),
	}
}

// Token returns the token registered at the given contract address.
func (c BaseController) Token(db sigswap.ReadOnlyKVStore, token common.Address) (*Token, error) {
	t, err := c.tokens.GetToken(db, token)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "token %s", token.Hex())
	}
	return t, nil
}

// RegisterToken creates a new token with zero supply.
func (c BaseController) RegisterToken(db sigswap.KVStore, token common.Address, name, symbol string, decimals uint8) error {
	if sigswap.IsZeroAddress(token) {
		return errors.Wrap(errors.ErrInput, "zero token address")
	}
	exists, err := c.tokens.Has(db, token.Bytes())
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(errors.ErrDuplicate, "token %s", token.Hex())
	}
	t := Token{
		Name:        name,
		Symbol:      symbol,
		Decimals:    decimals,
		TotalSupply: new(uint256.Int),
	}
	return c.tokens.SaveToken(db, token, &t)
}

// Mint creates amount new units of token and credits them to the
// recipient.
func (c BaseController) Mint(db sigswap.KVStore, token, to common.Address, amount *uint256.Int) error {
	t, err := c.Token(db, token)
	if err != nil {
		return err
	}
	supply, overflow := new(uint256.Int).AddOverflow(t.TotalSupply, amount)
	if overflow {
		return errors.Wrap(errors.ErrOverflow, "total supply")
	}
	if err := c.credit(db, token, to, amount); err != nil {
		return err
	}
	t.TotalSupply = supply
	return c.tokens.SaveToken(db, token, t)
}

// BalanceOf returns the amount of token held by owner.
func (c BaseController) BalanceOf(db sigswap.ReadOnlyKVStore, token, owner common.Address) (*uint256.Int, error) {
	if _, err := c.Token(db, token); err != nil {
		return nil, err
	}
	return c.balances.GetAmount(db, BalanceKey(token, owner))
}

// Allowance returns the amount of token spender may move on behalf of
// owner.
func (c BaseController) Allowance(db sigswap.ReadOnlyKVStore, token, owner, spender common.Address) (*uint256.Int, error) {
	if _, err := c.Token(db, token); err != nil {
		return nil, err
	}
	return c.allowances.GetAmount(db, AllowanceKey(token, owner, spender))
}

// Approve sets the allowance of spender over the tokens of owner,
// replacing any previous value.
func (c BaseController) Approve(db sigswap.KVStore, token, owner, spender common.Address, amount *uint256.Int) error {
	if _, err := c.Token(db, token); err != nil {
		return err
	}
	if sigswap.IsZeroAddress(spender) {
		return errors.Wrap(errors.ErrInput, "approve to the zero address")
	}
	return c.allowances.SetAmount(db, AllowanceKey(token, owner, spender), amount)
}

// Transfer moves amount of token from one owner to another. Zero value
// transfers are allowed.
func (c BaseController) Transfer(db sigswap.KVStore, token, from, to common.Address, amount *uint256.Int) error {
	if _, err := c.Token(db, token); err != nil {
		return err
	}
	if sigswap.IsZeroAddress(to) {
		return errors.Wrap(errors.ErrInput, "transfer to the zero address")
	}
	if err := c.debit(db, token, from, amount); err != nil {
		return err
	}
	return c.credit(db, token, to, amount)
}

// TransferFrom moves amount of token from one owner to another, consuming
// the allowance the owner granted to the spender.
func (c BaseController) TransferFrom(db sigswap.KVStore, token, spender, from, to common.Address, amount *uint256.Int) error {
	allowance, err := c.Allowance(db, token, from, spender)
	if err != nil {
		return err
	}
	if allowance.Lt(amount) {
		return errors.Wrapf(errors.ErrUnauthorized, "allowance %s is below %s", allowance.Dec(), amount.Dec())
	}
	rest := new(uint256.Int).Sub(allowance, amount)
	if err := c.allowances.SetAmount(db, AllowanceKey(token, from, spender), rest); err != nil {
		return err
	}
	return c.Transfer(db, token, from, to, amount)
}

func (c BaseController) debit(db sigswap.KVStore, token, owner common.Address, amount *uint256.Int) error {
	key := BalanceKey(token, owner)
	balance, err := c.balances.GetAmount(db, key)
	if err != nil {
		return err
	}
	if balance.Lt(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %s is below %s", balance.Dec(), amount.Dec())
	}
	return c.balances.SetAmount(db, key, new(uint256.Int).Sub(balance, amount))
}

func (c BaseController) credit(db sigswap.KVStore, token, owner common.Address, amount *uint256.Int) error {
	key := BalanceKey(token, owner)
	balance, err := c.balances.GetAmount(db, key)
	if err != nil {
		return err
	}
	total, overflow := new(uint256.Int).AddOverflow(balance, amount)
	if overflow {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	return c.balances.SetAmount(db, key, total)
}
