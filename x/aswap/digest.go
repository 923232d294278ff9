package aswap

import (
	"crypto/ecdsa"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iov-one/sigswap/crypto"
)

// SwapDigest returns the hash of the swap fields that the owner of the
// swap identifier key signs to allow the redeem. The fields are packed
// without padding, except for the deadline that is written as a big endian
// 256 bit number.
func SwapDigest(id common.Address, swap *Swap) [32]byte {
	var deadline [32]byte
	binary.BigEndian.PutUint64(deadline[24:], swap.RefundDeadline)

	return crypto.Keccak256Hash(
		id.Bytes(),
		swap.Participant.Bytes(),
		swap.Initiator.Bytes(),
		deadline[:],
		swap.TokenContract.Bytes(),
	)
}

// SignSwap produces the redeem signature for the swap, the way a wallet
// signs SwapDigest as a personal message.
func SignSwap(key *ecdsa.PrivateKey, id common.Address, swap *Swap) (crypto.Signature, error) {
	return crypto.SignPersonal(SwapDigest(id, swap), key)
}

// RedeemSigner returns the address that signed the swap redeem.
func RedeemSigner(id common.Address, swap *Swap, sig crypto.Signature) (common.Address, error) {
	return crypto.RecoverAddress(crypto.PersonalMessageHash(SwapDigest(id, swap)), sig)
}
