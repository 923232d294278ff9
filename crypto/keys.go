package crypto

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/iov-one/sigswap/errors"
)

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return key, nil
}

// PrivateKeyFromHex parses a hex encoded secret, with or without the 0x
// prefix.
func PrivateKeyFromHex(secret string) (*ecdsa.PrivateKey, error) {
	key, err := ethcrypto.HexToECDSA(strings.TrimPrefix(secret, "0x"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return key, nil
}

// PrivateKeyToHex serializes the secret as 0x prefixed hex.
func PrivateKeyToHex(key *ecdsa.PrivateKey) string {
	return "0x" + common.Bytes2Hex(ethcrypto.FromECDSA(key))
}

// AddressOf returns the Ethereum address of the key. For a swap this is
// the identifier committing to the secret.
func AddressOf(key *ecdsa.PrivateKey) common.Address {
	return ethcrypto.PubkeyToAddress(key.PublicKey)
}

// Sign signs the 32 byte hash directly. The recovery bit is returned in
// the Ethereum form (27 or 28).
func Sign(hash [32]byte, key *ecdsa.PrivateKey) (Signature, error) {
	raw, err := ethcrypto.Sign(hash[:], key)
	if err != nil {
		return Signature{}, errors.Wrap(errors.ErrSignature, err.Error())
	}
	sig, err := SignatureFromBytes(raw)
	if err != nil {
		return Signature{}, err
	}
	sig.V += 27
	return sig, nil
}

// SignPersonal signs the digest the way a wallet personal-sign operation
// does.
func SignPersonal(digest [32]byte, key *ecdsa.PrivateKey) (Signature, error) {
	return Sign(PersonalMessageHash(digest), key)
}
