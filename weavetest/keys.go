package weavetest

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iov-one/sigswap/crypto"
)

// NewKey returns a fresh secp256k1 key together with its address.
func NewKey(t testing.TB) (*ecdsa.PrivateKey, common.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("cannot generate key: %s", err)
	}
	return key, crypto.AddressOf(key)
}

// KeyFromHex parses a hex encoded secret and returns it with its address.
func KeyFromHex(t testing.TB, secret string) (*ecdsa.PrivateKey, common.Address) {
	t.Helper()
	key, err := crypto.PrivateKeyFromHex(secret)
	if err != nil {
		t.Fatalf("cannot parse %q key: %s", secret, err)
	}
	return key, crypto.AddressOf(key)
}

// RandomAddr returns the address of a fresh random key.
func RandomAddr(t testing.TB) common.Address {
	t.Helper()
	_, addr := NewKey(t)
	return addr
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encoded string) common.Address {
	t.Helper()
	if !common.IsHexAddress(encoded) {
		t.Fatalf("cannot parse %q address", encoded)
	}
	return common.HexToAddress(encoded)
}
