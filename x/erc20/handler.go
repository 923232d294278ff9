package erc20

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/x"
)

const (
	transferCost int64 = 100
	approveCost  int64 = 50
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r sigswap.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&TransferMsg{}, NewTransferHandler(auth, control))
	r.Handle(&ApproveMsg{}, NewApproveHandler(auth, control))
}

// RegisterQuery will register the tokens, balances and allowances
// buckets under their own names.
func RegisterQuery(qr sigswap.QueryRouter) {
	NewTokenBucket().Register("", qr)
	NewBalanceBucket().Register("", qr)
	NewAllowanceBucket().Register("", qr)
}

// TransferHandler will handle sending tokens
type TransferHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ sigswap.Handler = TransferHandler{}

// NewTransferHandler creates a handler for TransferMsg
func NewTransferHandler(auth x.Authenticator, control Controller) TransferHandler {
	return TransferHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h TransferHandler) Check(ctx sigswap.Context, store sigswap.KVStore, tx sigswap.Tx) (*sigswap.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &sigswap.CheckResult{GasAllocated: transferCost}, nil
}

// Deliver moves the tokens from the caller to the recipient if
// all preconditions are met
func (h TransferHandler) Deliver(ctx sigswap.Context, store sigswap.KVStore, tx sigswap.Tx) (*sigswap.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(store, msg.Token, caller, msg.To, msg.Amount); err != nil {
		return nil, err
	}
	return &sigswap.DeliverResult{}, nil
}

func (h TransferHandler) validate(ctx sigswap.Context, tx sigswap.Tx) (*TransferMsg, common.Address, error) {
	var msg TransferMsg
	if err := sigswap.LoadMsg(tx, &msg); err != nil {
		return nil, common.Address{}, errors.Wrap(err, "load msg")
	}
	caller, err := x.MustCaller(ctx, h.auth)
	if err != nil {
		return nil, common.Address{}, err
	}
	return &msg, caller, nil
}

// ApproveHandler will handle setting allowances
type ApproveHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ sigswap.Handler = ApproveHandler{}

// NewApproveHandler creates a handler for ApproveMsg
func NewApproveHandler(auth x.Authenticator, control Controller) ApproveHandler {
	return ApproveHandler{
		auth:    auth,
		control: control,
	}
}

func (h ApproveHandler) Check(ctx sigswap.Context, store sigswap.KVStore, tx sigswap.Tx) (*sigswap.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &sigswap.CheckResult{GasAllocated: approveCost}, nil
}

func (h ApproveHandler) Deliver(ctx sigswap.Context, store sigswap.KVStore, tx sigswap.Tx) (*sigswap.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Approve(store, msg.Token, caller, msg.Spender, msg.Amount); err != nil {
		return nil, err
	}
	return &sigswap.DeliverResult{}, nil
}

func (h ApproveHandler) validate(ctx sigswap.Context, tx sigswap.Tx) (*ApproveMsg, common.Address, error) {
	var msg ApproveMsg
	if err := sigswap.LoadMsg(tx, &msg); err != nil {
		return nil, common.Address{}, errors.Wrap(err, "load msg")
	}
	caller, err := x.MustCaller(ctx, h.auth)
	if err != nil {
		return nil, common.Address{}, err
	}
	return &msg, caller, nil
}
