package aswap

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/x"
	tmcommon "github.com/tendermint/tendermint/libs/common"
)

const (
	// pay swap cost up-front
	initiateSwapCost int64 = 300
	redeemSwapCost   int64 = 0
	refundSwapCost   int64 = 0
)

// TokenLedger is the token functionality the escrow relies on. Tokens are
// pulled into escrow with TransferFrom, the escrow account acting as the
// spender, and pushed out with Transfer.
type TokenLedger interface {
	BalanceOf(db sigswap.ReadOnlyKVStore, token, owner common.Address) (*uint256.Int, error)
	Allowance(db sigswap.ReadOnlyKVStore, token, owner, spender common.Address) (*uint256.Int, error)
	TransferFrom(db sigswap.KVStore, token, spender, from, to common.Address, amount *uint256.Int) error
	Transfer(db sigswap.KVStore, token, from, to common.Address, amount *uint256.Int) error
}

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r sigswap.Registry, auth x.Authenticator, ledger TokenLedger) {
	registry := NewRegistry()

	r.Handle(&InitiateMsg{}, NewInitiateHandler(auth, registry, ledger))
	r.Handle(&RedeemMsg{}, NewRedeemHandler(auth, registry, ledger))
	r.Handle(&RefundMsg{}, NewRefundHandler(auth, registry, ledger))
}

// RegisterQuery will register the swap registry as "/swaps"
func RegisterQuery(qr sigswap.QueryRouter) {
	NewRegistry().Register("swaps", qr)
}

// GetSwapDetails returns the swap stored under the identifier, or a zero
// swap if the identifier is not in use.
func GetSwapDetails(db sigswap.ReadOnlyKVStore, id common.Address) (*Swap, error) {
	return NewRegistry().Get(db, id)
}

//---- initiate

// InitiateHandler locks tokens in escrow
type InitiateHandler struct {
	auth     x.Authenticator
	registry Registry
	ledger   TokenLedger
}

var _ sigswap.Handler = InitiateHandler{}

// NewInitiateHandler creates a handler for InitiateMsg
func NewInitiateHandler(auth x.Authenticator, registry Registry, ledger TokenLedger) InitiateHandler {
	return InitiateHandler{auth: auth, registry: registry, ledger: ledger}
}

// Check does the validation and sets the cost of the transaction
func (h InitiateHandler) Check(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (*sigswap.CheckResult, error) {
	msg, caller, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// the transfer would fail on deliver
	allowance, err := h.ledger.Allowance(db, msg.TokenContract, caller, conf.EscrowAddress)
	if err != nil {
		return nil, err
	}
	if allowance.Lt(msg.Value) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "escrow allowance %s is below %s", allowance.Dec(), msg.Value.Dec())
	}
	balance, err := h.ledger.BalanceOf(db, msg.TokenContract, caller)
	if err != nil {
		return nil, err
	}
	if balance.Lt(msg.Value) {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "balance %s is below %s", balance.Dec(), msg.Value.Dec())
	}

	return &sigswap.CheckResult{GasAllocated: initiateSwapCost}, nil
}

// Deliver stores the swap and moves the tokens from the caller to the
// escrow account.
func (h InitiateHandler) Deliver(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (*sigswap.DeliverResult, error) {
	msg, caller, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	swap := &Swap{
		Initiator:      caller,
		Participant:    msg.Participant,
		TokenContract:  msg.TokenContract,
		Value:          msg.Value,
		RefundDeadline: msg.RefundDeadline,
	}
	if err := h.registry.Put(db, msg.SwapID, swap); err != nil {
		return nil, errors.Wrap(err, "store swap")
	}
	if err := h.ledger.TransferFrom(db, swap.TokenContract, conf.EscrowAddress, caller, conf.EscrowAddress, swap.Value); err != nil {
		return nil, errors.Wrap(err, "lock tokens")
	}

	sigswap.GetLogger(ctx).Info("swap initiated",
		"swap", msg.SwapID.Hex(),
		"initiator", caller.Hex(),
		"participant", swap.Participant.Hex(),
		"value", swap.Value.Dec(),
		"deadline", swap.RefundDeadline)

	res := &sigswap.DeliverResult{
		Data: msg.SwapID.Bytes(),
		Tags: swapTags(msg.SwapID, swap),
	}
	return res, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h InitiateHandler) validate(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (*InitiateMsg, common.Address, *Configuration, error) {
	var msg InitiateMsg
	if err := sigswap.LoadMsg(tx, &msg); err != nil {
		return nil, common.Address{}, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.MustCaller(ctx, h.auth)
	if err != nil {
		return nil, common.Address{}, nil, err
	}

	height, err := blockHeight(ctx)
	if err != nil {
		return nil, common.Address{}, nil, err
	}
	if msg.RefundDeadline <= height {
		return nil, common.Address{}, nil, errors.Wrapf(ErrDeadlineAlreadyPassed, "deadline %d, height %d", msg.RefundDeadline, height)
	}

	swap, err := h.registry.Get(db, msg.SwapID)
	if err != nil {
		return nil, common.Address{}, nil, err
	}
	if swap.IsActive() {
		return nil, common.Address{}, nil, errors.Wrap(ErrSwapAlreadyActive, msg.SwapID.Hex())
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, common.Address{}, nil, err
	}
	return &msg, caller, conf, nil
}

//---- redeem

// RedeemHandler releases the escrow to the participant.
type RedeemHandler struct {
	auth     x.Authenticator
	registry Registry
	ledger   TokenLedger
}

var _ sigswap.Handler = RedeemHandler{}

// NewRedeemHandler creates a handler for RedeemMsg
func NewRedeemHandler(auth x.Authenticator, registry Registry, ledger TokenLedger) RedeemHandler {
	return RedeemHandler{auth: auth, registry: registry, ledger: ledger}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h RedeemHandler) Check(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (*sigswap.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &sigswap.CheckResult{GasAllocated: redeemSwapCost}, nil
}

// Deliver removes the swap and moves the tokens from the escrow account to
// the participant.
func (h RedeemHandler) Deliver(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (*sigswap.DeliverResult, error) {
	id, swap, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}

	// the swap is gone before any token moves
	if err := h.registry.Clear(db, id); err != nil {
		return nil, errors.Wrap(err, "clear swap")
	}
	if err := h.ledger.Transfer(db, swap.TokenContract, conf.EscrowAddress, swap.Participant, swap.Value); err != nil {
		return nil, errors.Wrap(err, "release tokens")
	}

	sigswap.GetLogger(ctx).Info("swap redeemed",
		"swap", id.Hex(),
		"participant", swap.Participant.Hex(),
		"value", swap.Value.Dec())

	return &sigswap.DeliverResult{Tags: swapTags(id, swap)}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h RedeemHandler) validate(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (common.Address, *Swap, error) {
	var msg RedeemMsg
	if err := sigswap.LoadMsg(tx, &msg); err != nil {
		return common.Address{}, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.MustCaller(ctx, h.auth)
	if err != nil {
		return common.Address{}, nil, err
	}

	swap, err := h.registry.Get(db, msg.SwapID)
	if err != nil {
		return common.Address{}, nil, err
	}
	// a swap that is not active has no participant
	if swap.Participant != caller {
		return common.Address{}, nil, errors.Wrapf(ErrInvalidCaller, "%s is not the participant", caller.Hex())
	}

	signer, err := RedeemSigner(msg.SwapID, swap, msg.Signature())
	if err != nil {
		return common.Address{}, nil, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	if signer != msg.SwapID {
		return common.Address{}, nil, errors.Wrapf(ErrInvalidSignature, "signed by %s", signer.Hex())
	}
	return msg.SwapID, swap, nil
}

//---- refund

// RefundHandler returns the escrow to the initiator once the deadline was
// reached.
type RefundHandler struct {
	auth     x.Authenticator
	registry Registry
	ledger   TokenLedger
}

var _ sigswap.Handler = RefundHandler{}

// NewRefundHandler creates a handler for RefundMsg
func NewRefundHandler(auth x.Authenticator, registry Registry, ledger TokenLedger) RefundHandler {
	return RefundHandler{auth: auth, registry: registry, ledger: ledger}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h RefundHandler) Check(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (*sigswap.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &sigswap.CheckResult{GasAllocated: refundSwapCost}, nil
}

// Deliver removes the swap and moves the tokens from the escrow account
// back to the initiator.
func (h RefundHandler) Deliver(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (*sigswap.DeliverResult, error) {
	id, swap, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}

	if err := h.registry.Clear(db, id); err != nil {
		return nil, errors.Wrap(err, "clear swap")
	}
	if err := h.ledger.Transfer(db, swap.TokenContract, conf.EscrowAddress, swap.Initiator, swap.Value); err != nil {
		return nil, errors.Wrap(err, "return tokens")
	}

	sigswap.GetLogger(ctx).Info("swap refunded",
		"swap", id.Hex(),
		"initiator", swap.Initiator.Hex(),
		"value", swap.Value.Dec())

	return &sigswap.DeliverResult{Tags: swapTags(id, swap)}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h RefundHandler) validate(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (common.Address, *Swap, error) {
	var msg RefundMsg
	if err := sigswap.LoadMsg(tx, &msg); err != nil {
		return common.Address{}, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.MustCaller(ctx, h.auth)
	if err != nil {
		return common.Address{}, nil, err
	}

	swap, err := h.registry.Get(db, msg.SwapID)
	if err != nil {
		return common.Address{}, nil, err
	}
	if swap.Initiator != caller {
		return common.Address{}, nil, errors.Wrapf(ErrInvalidCaller, "%s is not the initiator", caller.Hex())
	}

	height, err := blockHeight(ctx)
	if err != nil {
		return common.Address{}, nil, err
	}
	if height < swap.RefundDeadline {
		return common.Address{}, nil, errors.Wrapf(ErrDeadlineNotReached, "deadline %d, height %d", swap.RefundDeadline, height)
	}
	return msg.SwapID, swap, nil
}

func blockHeight(ctx sigswap.Context) (uint64, error) {
	height, ok := sigswap.GetHeight(ctx)
	if !ok || height < 0 {
		return 0, errors.Wrap(errors.ErrState, "block height not present")
	}
	return uint64(height), nil
}

func swapTags(id common.Address, swap *Swap) []tmcommon.KVPair {
	return []tmcommon.KVPair{
		{Key: []byte("swap"), Value: []byte(id.Hex())},
		{Key: []byte("token"), Value: []byte(swap.TokenContract.Hex())},
	}
}
