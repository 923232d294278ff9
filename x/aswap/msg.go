package aswap

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/crypto"
	"github.com/iov-one/sigswap/errors"
)

const (
	pathInitiateMsg = "aswap/initiate"
	pathRedeemMsg   = "aswap/redeem"
	pathRefundMsg   = "aswap/refund"
)

// InitiateMsg locks Value of TokenContract owned by the caller in escrow
// under SwapID.
type InitiateMsg struct {
	SwapID         common.Address
	Participant    common.Address
	TokenContract  common.Address
	Value          *uint256.Int
	RefundDeadline uint64
}

var _ sigswap.Msg = (*InitiateMsg)(nil)

func (InitiateMsg) Path() string {
	return pathInitiateMsg
}

func (m InitiateMsg) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(&m)
}

func (m *InitiateMsg) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, m)
}

func (m InitiateMsg) Validate() error {
	if sigswap.IsZeroAddress(m.Participant) {
		return ErrInvalidParticipant
	}
	if sigswap.IsZeroAddress(m.SwapID) {
		return errors.Wrap(errors.ErrMsg, "swap id")
	}
	if sigswap.IsZeroAddress(m.TokenContract) {
		return errors.Wrap(errors.ErrMsg, "token contract")
	}
	if m.Value == nil {
		return errors.Wrap(errors.ErrAmount, "missing value")
	}
	return nil
}

// RedeemMsg releases the swap to its participant. R, S and V are the
// signature of the swap digest made with the swap identifier key.
type RedeemMsg struct {
	SwapID common.Address
	R      [32]byte
	S      [32]byte
	V      uint8
}

var _ sigswap.Msg = (*RedeemMsg)(nil)

func (RedeemMsg) Path() string {
	return pathRedeemMsg
}

func (m RedeemMsg) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(&m)
}

func (m *RedeemMsg) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, m)
}

// Validate is a noop. Everything a redeem carries can only be checked
// against the stored swap.
func (m RedeemMsg) Validate() error {
	return nil
}

// Signature returns the redeem signature.
func (m RedeemMsg) Signature() crypto.Signature {
	return crypto.Signature{R: m.R, S: m.S, V: m.V}
}

// RefundMsg returns the swap to its initiator.
type RefundMsg struct {
	SwapID common.Address
}

var _ sigswap.Msg = (*RefundMsg)(nil)

func (RefundMsg) Path() string {
	return pathRefundMsg
}

func (m RefundMsg) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(&m)
}

func (m *RefundMsg) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, m)
}

func (m RefundMsg) Validate() error {
	return nil
}
