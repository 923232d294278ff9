package erc20

import (
	"strings"

	"github.com/holiman/uint256"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
)

const optKey = "erc20"

// GenesisToken registers a token at the given contract address.
type GenesisToken struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// GenesisBalance mints Amount of Token to Owner.
type GenesisBalance struct {
	Token  string `json:"token"`
	Owner  string `json:"owner"`
	Amount string `json:"amount"`
}

// GenesisAllowance grants Spender the right to move Amount of Token owned
// by Owner.
type GenesisAllowance struct {
	Token   string `json:"token"`
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

// Genesis is the content of the "erc20" genesis section. Addresses may use
// any format accepted by sigswap.ParseAddress.
type Genesis struct {
	Tokens     []GenesisToken     `json:"tokens"`
	Balances   []GenesisBalance   `json:"balances"`
	Allowances []GenesisAllowance `json:"allowances"`
}

// Initializer fulfils the InitStater interface to load data from
// the genesis file
type Initializer struct{}

var _ sigswap.Initializer = Initializer{}

// FromGenesis will parse initial tokens and balances from genesis
// and save them to the database
func (Initializer) FromGenesis(opts sigswap.Options, kv sigswap.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	ctrl := NewController()
	for i, t := range gen.Tokens {
		addr, err := sigswap.ParseAddress(t.Address)
		if err != nil {
			return errors.Wrapf(err, "token %d", i)
		}
		if err := ctrl.RegisterToken(kv, addr, t.Name, t.Symbol, t.Decimals); err != nil {
			return errors.Wrapf(err, "token %d", i)
		}
	}
	for i, b := range gen.Balances {
		token, err := sigswap.ParseAddress(b.Token)
		if err != nil {
			return errors.Wrapf(err, "balance %d token", i)
		}
		owner, err := sigswap.ParseAddress(b.Owner)
		if err != nil {
			return errors.Wrapf(err, "balance %d owner", i)
		}
		amount, err := ParseAmount(b.Amount)
		if err != nil {
			return errors.Wrapf(err, "balance %d", i)
		}
		if err := ctrl.Mint(kv, token, owner, amount); err != nil {
			return errors.Wrapf(err, "balance %d", i)
		}
	}
	for i, a := range gen.Allowances {
		token, err := sigswap.ParseAddress(a.Token)
		if err != nil {
			return errors.Wrapf(err, "allowance %d token", i)
		}
		owner, err := sigswap.ParseAddress(a.Owner)
		if err != nil {
			return errors.Wrapf(err, "allowance %d owner", i)
		}
		spender, err := sigswap.ParseAddress(a.Spender)
		if err != nil {
			return errors.Wrapf(err, "allowance %d spender", i)
		}
		amount, err := ParseAmount(a.Amount)
		if err != nil {
			return errors.Wrapf(err, "allowance %d", i)
		}
		if err := ctrl.Approve(kv, token, owner, spender, amount); err != nil {
			return errors.Wrapf(err, "allowance %d", i)
		}
	}
	return nil
}

// ParseAmount reads a token amount written in decimal or as a 0x prefixed
// hex number.
func ParseAmount(s string) (*uint256.Int, error) {
	var (
		v   *uint256.Int
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = uint256.FromHex(s)
	} else {
		v, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrAmount, "cannot parse %q: %s", s, err)
	}
	return v, nil
}
