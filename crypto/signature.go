package crypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	"github.com/iov-one/sigswap/errors"
)

// SignatureLength is the length of a serialized R || S || V signature.
const SignatureLength = 65

// personalMessagePrefix is prepended to a 32 byte digest before it is
// signed with a personal-sign operation.
const personalMessagePrefix = "\x19Ethereum Signed Message:\n32"

// Signature is a recoverable secp256k1 signature. V is the recovery bit,
// either in its raw form (0 or 1) or in the Ethereum form (27 or 28).
type Signature struct {
	R [32]byte
	S [32]byte
	V byte
}

// SignatureFromBytes parses a 65 byte R || S || V signature.
func SignatureFromBytes(raw []byte) (Signature, error) {
	var sig Signature
	if len(raw) != SignatureLength {
		return sig, errors.Wrapf(errors.ErrSignature, "want %d bytes, got %d", SignatureLength, len(raw))
	}
	copy(sig.R[:], raw[:32])
	copy(sig.S[:], raw[32:64])
	sig.V = raw[64]
	return sig, nil
}

// Bytes serializes the signature as R || S || V.
func (s Signature) Bytes() []byte {
	raw := make([]byte, 0, SignatureLength)
	raw = append(raw, s.R[:]...)
	raw = append(raw, s.S[:]...)
	return append(raw, s.V)
}

func (s Signature) String() string {
	return fmt.Sprintf("%X", s.Bytes())
}

// recoveryID returns the recovery bit normalized to 0 or 1.
func (s Signature) recoveryID() (byte, error) {
	switch s.V {
	case 0, 1:
		return s.V, nil
	case 27, 28:
		return s.V - 27, nil
	default:
		return 0, errors.Wrapf(errors.ErrSignature, "invalid recovery bit %d", s.V)
	}
}

// PersonalMessageHash returns the digest that a wallet signs when asked to
// personal-sign the given 32 byte digest.
func PersonalMessageHash(digest [32]byte) [32]byte {
	return Keccak256Hash([]byte(personalMessagePrefix), digest[:])
}

// RecoverAddress returns the address of the key that signed the hash. The
// zero address is never returned without an error.
func RecoverAddress(hash [32]byte, sig Signature) (common.Address, error) {
	recid, err := sig.recoveryID()
	if err != nil {
		return common.Address{}, err
	}

	// Compact form expected by the recovery is V || R || S, with V offset
	// by 27 for uncompressed keys.
	compact := make([]byte, 0, SignatureLength)
	compact = append(compact, 27+recid)
	compact = append(compact, sig.R[:]...)
	compact = append(compact, sig.S[:]...)

	pub, _, err := ecdsa.RecoverCompact(compact, hash[:])
	if err != nil {
		return common.Address{}, errors.Wrap(errors.ErrSignature, err.Error())
	}
	// Drop the 0x04 prefix of the uncompressed encoding.
	raw := pub.SerializeUncompressed()[1:]
	addr := common.BytesToAddress(Keccak256(raw)[12:])
	if addr == (common.Address{}) {
		return common.Address{}, errors.Wrap(errors.ErrSignature, "zero signer")
	}
	return addr, nil
}
