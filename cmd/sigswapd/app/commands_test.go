package sigswapd

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/crypto"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/store"
	"github.com/iov-one/sigswap/x/aswap"
	"github.com/iov-one/sigswap/x/erc20"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseOutput reads the "name: value" lines printed by a command.
func parseOutput(t *testing.T, out string) map[string]string {
	t.Helper()
	values := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		chunks := strings.SplitN(line, ": ", 2)
		require.Len(t, chunks, 2, line)
		values[chunks[0]] = chunks[1]
	}
	return values
}

func TestKeygen(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, KeygenCmd(&out, nil))

	values := parseOutput(t, out.String())
	key, err := crypto.PrivateKeyFromHex(values["secret"])
	require.NoError(t, err)
	assert.Equal(t, crypto.AddressOf(key).Hex(), values["swap_id"])

	err = KeygenCmd(&out, []string{"extra"})
	assert.True(t, errors.ErrInput.Is(err))
}

func TestSign(t *testing.T) {
	swap := aswap.Swap{
		Participant:    common.HexToAddress("0x2000000000000000000000000000000000000002"),
		Initiator:      common.HexToAddress("0x1000000000000000000000000000000000000001"),
		TokenContract:  DevTokenAddress("DEV"),
		RefundDeadline: 1333,
	}

	var out bytes.Buffer
	err := SignCmd(&out, []string{
		"-secret", "0x59cf604a0581191f30605dac02eee2e363b82bc8fb2bcc6aa3eaf11fa6315441",
		"-participant", swap.Participant.Hex(),
		"-initiator", swap.Initiator.Hex(),
		"-token", swap.TokenContract.Hex(),
		"-deadline", "1333",
	})
	require.NoError(t, err)

	values := parseOutput(t, out.String())
	id := common.HexToAddress("0xc05955ecdc22E027f2094Fe8F8266B5a88270d56")
	assert.Equal(t, id.Hex(), values["swap_id"])

	var sig crypto.Signature
	copy(sig.R[:], hexutil.MustDecode(values["r"]))
	copy(sig.S[:], hexutil.MustDecode(values["s"]))
	v, err := strconv.Atoi(values["v"])
	require.NoError(t, err)
	sig.V = byte(v)

	signer, err := aswap.RedeemSigner(id, &swap, sig)
	require.NoError(t, err)
	assert.Equal(t, id, signer)
}

func TestSignErrors(t *testing.T) {
	cases := map[string][]string{
		"missing secret":  {"-participant", "0x2000000000000000000000000000000000000002"},
		"bad participant": {"-secret", "0x59cf604a0581191f30605dac02eee2e363b82bc8fb2bcc6aa3eaf11fa6315441", "-participant", "nope"},
		"unknown flag":    {"-value", "10"},
	}
	for testName, args := range cases {
		t.Run(testName, func(t *testing.T) {
			var out bytes.Buffer
			err := SignCmd(&out, args)
			assert.True(t, errors.ErrInput.Is(err), "got %+v", err)
		})
	}
}

func TestGenInitOptions(t *testing.T) {
	owner := common.HexToAddress("0x3000000000000000000000000000000000000003")
	raw, err := GenInitOptions([]string{"SWP", owner.Hex()})
	require.NoError(t, err)

	var opts sigswap.Options
	require.NoError(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	require.NoError(t, Initializers().FromGenesis(opts, db))

	ctrl := erc20.NewController()
	token, err := ctrl.Token(db, DevTokenAddress("SWP"))
	require.NoError(t, err)
	assert.Equal(t, "SWP", token.Symbol)
	assert.Equal(t, DevSupply, token.TotalSupply.Dec())

	balance, err := ctrl.BalanceOf(db, DevTokenAddress("SWP"), owner)
	require.NoError(t, err)
	assert.Equal(t, DevSupply, balance.Dec())

	_, err = GenInitOptions([]string{"bad symbol"})
	assert.True(t, errors.ErrInput.Is(err))
	_, err = GenInitOptions([]string{"SWP", "not an address"})
	assert.True(t, errors.ErrInput.Is(err))
}
