package aswap

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/gconf"
)

const packageName = "aswap"

// Configuration of the aswap extension, stored with gconf.
type Configuration struct {
	// EscrowAddress is the account holding the tokens of all active swaps.
	EscrowAddress common.Address `json:"escrow_address"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c Configuration) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(&c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, c)
}

func (c Configuration) Validate() error {
	if sigswap.IsZeroAddress(c.EscrowAddress) {
		return errors.Wrap(errors.ErrInput, "escrow address")
	}
	return nil
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// Initializer fulfils the InitStater interface to load the configuration
// from the genesis file
type Initializer struct{}

var _ sigswap.Initializer = Initializer{}

// FromGenesis stores the configuration found in the genesis "conf"
// section.
func (Initializer) FromGenesis(opts sigswap.Options, kv sigswap.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(kv, opts, packageName, &conf)
}
