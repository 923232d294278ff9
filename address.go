package sigswap

import (
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common"
	"github.com/iov-one/sigswap/errors"
)

// AddressHRP is the human readable part used when printing addresses in
// bech32 format.
const AddressHRP = "swap"

// ParseAddress decodes an address from its human readable form. Hex is the
// default format (with or without the 0x prefix). A "bech32:" or "hex:"
// prefix selects the format explicitly.
func ParseAddress(enc string) (common.Address, error) {
	format := "hex"
	if chunks := strings.SplitN(enc, ":", 2); len(chunks) == 2 {
		format, enc = chunks[0], chunks[1]
	}

	switch format {
	case "hex":
		if !common.IsHexAddress(enc) {
			return common.Address{}, errors.Wrapf(errors.ErrInput, "invalid hex address %q", enc)
		}
		return common.HexToAddress(enc), nil
	case "bech32":
		_, payload, err := bech32.Decode(enc)
		if err != nil {
			return common.Address{}, errors.Wrapf(errors.ErrInput, "deserialize bech32: %s", err)
		}
		raw, err := bech32.ConvertBits(payload, 5, 8, false)
		if err != nil {
			return common.Address{}, errors.Wrapf(errors.ErrInput, "convert bits: %s", err)
		}
		if len(raw) != common.AddressLength {
			return common.Address{}, errors.Wrapf(errors.ErrInput, "address must be %d bytes, got %d", common.AddressLength, len(raw))
		}
		return common.BytesToAddress(raw), nil
	default:
		return common.Address{}, errors.Wrapf(errors.ErrType, "unknown format %q", format)
	}
}

// Bech32Address returns the bech32 representation of the address using
// AddressHRP.
func Bech32Address(addr common.Address) (string, error) {
	payload, err := bech32.ConvertBits(addr.Bytes(), 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	enc, err := bech32.Encode(AddressHRP, payload)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return enc, nil
}

// IsZeroAddress returns true for the all zero address, which never
// represents an account.
func IsZeroAddress(addr common.Address) bool {
	return addr == common.Address{}
}
