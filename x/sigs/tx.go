package sigs

import "github.com/iov-one/sigswap/crypto"

// SignedTx represents a transaction that carries the signature of the
// account that authorized it, which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	GetSignBytes() ([]byte, error)

	// GetSequence returns the nonce of the signer this transaction was
	// signed with.
	GetSequence() uint64

	// GetSignature returns the signature of the signer or nil for an
	// unsigned transaction.
	GetSignature() *crypto.Signature
}
