package crypto

import (
	"golang.org/x/crypto/sha3"
)

// Keccak256 returns the legacy (pre SHA-3 standard) keccak256 digest of
// the concatenated data, as used by Ethereum.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash works like Keccak256 but returns a fixed size array.
func Keccak256Hash(data ...[]byte) (h [32]byte) {
	copy(h[:], Keccak256(data...))
	return h
}
