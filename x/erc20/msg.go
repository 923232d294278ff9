package erc20

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
)

const (
	pathTransferMsg = "erc20/transfer"
	pathApproveMsg  = "erc20/approve"
)

// TransferMsg moves tokens from the caller to the recipient.
type TransferMsg struct {
	Token  common.Address
	To     common.Address
	Amount *uint256.Int
}

var _ sigswap.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m TransferMsg) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(&m)
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, m)
}

func (m TransferMsg) Validate() error {
	if sigswap.IsZeroAddress(m.Token) {
		return errors.Wrap(errors.ErrMsg, "token")
	}
	if sigswap.IsZeroAddress(m.To) {
		return errors.Wrap(errors.ErrMsg, "recipient")
	}
	if m.Amount == nil {
		return errors.Wrap(errors.ErrAmount, "missing amount")
	}
	return nil
}

// ApproveMsg allows the spender to move up to the amount of tokens owned
// by the caller.
type ApproveMsg struct {
	Token   common.Address
	Spender common.Address
	Amount  *uint256.Int
}

var _ sigswap.Msg = (*ApproveMsg)(nil)

func (ApproveMsg) Path() string {
	return pathApproveMsg
}

func (m ApproveMsg) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(&m)
}

func (m *ApproveMsg) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, m)
}

func (m ApproveMsg) Validate() error {
	if sigswap.IsZeroAddress(m.Token) {
		return errors.Wrap(errors.ErrMsg, "token")
	}
	if sigswap.IsZeroAddress(m.Spender) {
		return errors.Wrap(errors.ErrMsg, "spender")
	}
	if m.Amount == nil {
		return errors.Wrap(errors.ErrAmount, "missing amount")
	}
	return nil
}
