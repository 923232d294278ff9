package sigs

import (
	"crypto/ecdsa"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/crypto"
	"github.com/iov-one/sigswap/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignature checks the signature of the tx and increments the
// sequence of the signer in the store.
//
// The zero address is returned for an unsigned tx.
func VerifyTxSignature(db sigswap.KVStore, tx SignedTx, chainID string) (common.Address, error) {
	sig := tx.GetSignature()
	if sig == nil {
		return common.Address{}, nil
	}
	bz, err := tx.GetSignBytes()
	if err != nil {
		return common.Address{}, err
	}
	return VerifySignature(db, *sig, bz, chainID, tx.GetSequence())
}

// VerifySignature checks one signature against signbytes,
// check chain and updates state in the store
func VerifySignature(db sigswap.KVStore, sig crypto.Signature, signBytes []byte, chainID string, seq uint64) (common.Address, error) {
	toSign, err := BuildSignBytes(signBytes, chainID, seq)
	if err != nil {
		return common.Address{}, err
	}
	signer, err := crypto.RecoverAddress(crypto.PersonalMessageHash(toSign), sig)
	if err != nil {
		return common.Address{}, errors.Wrap(errors.ErrUnauthorized, err.Error())
	}

	bucket := NewBucket()
	user, err := bucket.GetOrCreate(db, signer)
	if err != nil {
		return common.Address{}, err
	}
	if err := user.CheckAndIncrementSequence(seq); err != nil {
		return common.Address{}, err
	}
	if err := bucket.SaveUser(db, signer, user); err != nil {
		return common.Address{}, err
	}
	return signer, nil
}

/*
BuildSignBytes combines all info on the actual tx before signing

We use the following format:

version | len(chainID) | chainID      | nonce              | signBytes
4bytes  | uint8        | ascii string | uint64 (bigendian) | serialized transaction

This is then hashed with keccak256 and signed as an Ethereum personal
message, so any wallet can authorize a transaction.
*/
func BuildSignBytes(signBytes []byte, chainID string, seq uint64) ([32]byte, error) {
	if !sigswap.IsValidChainID(chainID) {
		return [32]byte{}, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	// encode nonce as 8 byte, big-endian
	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, seq)

	return crypto.Keccak256Hash(
		SignCodeV1,
		[]byte{uint8(len(chainID))},
		[]byte(chainID),
		nonce,
		signBytes,
	), nil
}

// SignTx creates a signature for the given tx
func SignTx(key *ecdsa.PrivateKey, tx SignedTx, chainID string, seq uint64) (*crypto.Signature, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	toSign, err := BuildSignBytes(signBytes, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.SignPersonal(toSign, key)
	if err != nil {
		return nil, err
	}
	return &sig, nil
}

// NextSequence returns the sequence the next tx of the address must be
// signed with.
func NextSequence(db sigswap.ReadOnlyKVStore, addr common.Address) (uint64, error) {
	user, err := NewBucket().GetOrCreate(db, addr)
	if err != nil {
		return 0, err
	}
	return user.Sequence, nil
}
