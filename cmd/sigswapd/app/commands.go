package sigswapd

import (
	"flag"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/crypto"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/x/aswap"
)

// KeygenCmd creates a new swap secret and prints it together with the
// swap identifier derived from it.
func KeygenCmd(out io.Writer, args []string) error {
	if len(args) != 0 {
		return errors.Wrap(errors.ErrInput, "keygen takes no arguments")
	}
	key, err := crypto.GenerateKey()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "secret: %s\n", crypto.PrivateKeyToHex(key))
	fmt.Fprintf(out, "swap_id: %s\n", crypto.AddressOf(key).Hex())
	return nil
}

// SignCmd prints the r, s and v values that redeem a swap. The swap is
// described by flags, the identifier is derived from the secret.
func SignCmd(out io.Writer, args []string) error {
	var (
		secret, participant, initiator, token string
		deadline                              uint64
	)
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&secret, "secret", "", "hex encoded swap secret")
	fs.StringVar(&participant, "participant", "", "address of the swap participant")
	fs.StringVar(&initiator, "initiator", "", "address of the swap initiator")
	fs.StringVar(&token, "token", "", "address of the token contract")
	fs.Uint64Var(&deadline, "deadline", 0, "refund deadline block height")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	key, err := crypto.PrivateKeyFromHex(secret)
	if err != nil {
		return errors.Wrap(err, "secret")
	}
	swap := aswap.Swap{RefundDeadline: deadline}
	if swap.Participant, err = sigswap.ParseAddress(participant); err != nil {
		return errors.Wrap(err, "participant")
	}
	if swap.Initiator, err = sigswap.ParseAddress(initiator); err != nil {
		return errors.Wrap(err, "initiator")
	}
	if swap.TokenContract, err = sigswap.ParseAddress(token); err != nil {
		return errors.Wrap(err, "token")
	}

	id := crypto.AddressOf(key)
	sig, err := aswap.SignSwap(key, id, &swap)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "swap_id: %s\n", id.Hex())
	fmt.Fprintf(out, "r: %s\n", hexutil.Encode(sig.R[:]))
	fmt.Fprintf(out, "s: %s\n", hexutil.Encode(sig.S[:]))
	fmt.Fprintf(out, "v: %d\n", sig.V)
	return nil
}
