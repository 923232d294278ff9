package sigswapd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/commands/server"
	"github.com/iov-one/sigswap/crypto"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/x/aswap"
	"github.com/iov-one/sigswap/x/erc20"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	defaultSymbol = "DEV"
	// DevSupply is the number of base units minted to the dev account,
	// one million tokens with 18 decimals.
	DevSupply = "1000000000000000000000000"
)

var isSymbol = regexp.MustCompile(`^[A-Z0-9]{2,10}$`).MatchString

// DevTokenAddress returns the contract address of the token created by
// GenInitOptions for the given symbol.
func DevTokenAddress(symbol string) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte("token:" + symbol))[12:])
}

// DevEscrowAddress is the account holding the tokens of active swaps in
// a chain initialized by GenInitOptions.
func DevEscrowAddress() common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte("escrow"))[12:])
}

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode
//
// You can set the token symbol and the owner address as arguments.
// Without an owner a new key is generated and its secret printed out.
func GenInitOptions(args []string) (json.RawMessage, error) {
	symbol := defaultSymbol
	if len(args) > 0 {
		symbol = args[0]
		if !isSymbol(symbol) {
			return nil, errors.Wrapf(errors.ErrInput, "invalid symbol %s", symbol)
		}
	}

	var owner common.Address
	if len(args) > 1 {
		addr, err := sigswap.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		owner = addr
	} else {
		// if no address provided, auto-generate one
		// and print out the secret
		key, err := crypto.GenerateKey()
		if err != nil {
			return nil, err
		}
		owner = crypto.AddressOf(key)
		fmt.Println("secret:", crypto.PrivateKeyToHex(key))
	}

	token := DevTokenAddress(symbol).Hex()
	state := map[string]interface{}{
		"erc20": erc20.Genesis{
			Tokens: []erc20.GenesisToken{
				{Address: token, Name: symbol + " development token", Symbol: symbol, Decimals: 18},
			},
			Balances: []erc20.GenesisBalance{
				{Token: token, Owner: owner.Hex(), Amount: DevSupply},
			},
		},
		"conf": map[string]interface{}{
			"aswap": aswap.Configuration{EscrowAddress: DevEscrowAddress()},
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, opts server.StartOptions) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "sigswap.db")
	}

	kv, err := CommitKVStore(dbPath, opts.Store)
	if err != nil {
		return nil, err
	}
	application := Application(kv, opts.Debug)
	application.WithLogger(logger)
	return application, nil
}
