package aswap

import (
	"context"
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/gconf"
	"github.com/iov-one/sigswap/store"
	"github.com/iov-one/sigswap/weavetest"
	"github.com/iov-one/sigswap/weavetest/assert"
	"github.com/iov-one/sigswap/x/erc20"
	"github.com/iov-one/sigswap/x/utils"
)

const (
	swapSecret  = "0x59cf604a0581191f30605dac02eee2e363b82bc8fb2bcc6aa3eaf11fa6315441"
	otherSecret = "f26b34783a5f8b16b11bde493c37989afba93562379b04db544518eb07555943"

	startHeight = 1000
	deadline    = startHeight + 333
)

var (
	token       = common.HexToAddress("0x1000000000000000000000000000000000000001")
	participant = common.HexToAddress("0x2000000000000000000000000000000000000002")
	initiator   = common.HexToAddress("0x3000000000000000000000000000000000000003")
	escrow      = common.HexToAddress("0x4000000000000000000000000000000000000004")
	stranger    = common.HexToAddress("0x5000000000000000000000000000000000000005")
)

// fixture is a ledger with initiator holding 1000 tokens, 600 of which the
// escrow may spend.
type fixture struct {
	db       store.CacheableKVStore
	ledger   erc20.BaseController
	auth     *weavetest.CtxAuth
	initiate sigswap.Handler
	redeem   sigswap.Handler
	refund   sigswap.Handler
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	db := store.MemStore()
	ledger := erc20.NewController()
	assert.Nil(t, ledger.RegisterToken(db, token, "Swap Token", "SWP", 18))
	assert.Nil(t, ledger.Mint(db, token, initiator, uint256.NewInt(1000)))
	assert.Nil(t, ledger.Approve(db, token, initiator, escrow, uint256.NewInt(600)))
	assert.Nil(t, gconf.Save(db, packageName, &Configuration{EscrowAddress: escrow}))

	auth := &weavetest.CtxAuth{Key: "caller"}
	registry := NewRegistry()
	savepoint := utils.NewSavepoint().OnDeliver()
	return &fixture{
		db:       db,
		ledger:   ledger,
		auth:     auth,
		initiate: weavetest.Decorate(NewInitiateHandler(auth, registry, ledger), savepoint),
		redeem:   weavetest.Decorate(NewRedeemHandler(auth, registry, ledger), savepoint),
		refund:   weavetest.Decorate(NewRefundHandler(auth, registry, ledger), savepoint),
	}
}

func (f *fixture) ctx(caller common.Address, height int64) sigswap.Context {
	ctx := sigswap.WithHeight(context.Background(), height)
	return f.auth.SetCaller(ctx, caller)
}

func (f *fixture) balance(t testing.TB, owner common.Address) uint64 {
	t.Helper()
	b, err := f.ledger.BalanceOf(f.db, token, owner)
	assert.Nil(t, err)
	return b.Uint64()
}

func (f *fixture) swap(t testing.TB, id common.Address) *Swap {
	t.Helper()
	s, err := GetSwapDetails(f.db, id)
	assert.Nil(t, err)
	return s
}

// lock initiates the default swap of 500 tokens under the id.
func (f *fixture) lock(t testing.TB, id common.Address) {
	t.Helper()
	msg := &InitiateMsg{
		SwapID:         id,
		Participant:    participant,
		TokenContract:  token,
		Value:          uint256.NewInt(500),
		RefundDeadline: deadline,
	}
	_, err := f.initiate.Deliver(f.ctx(initiator, startHeight), f.db, &weavetest.Tx{Msg: msg})
	assert.Nil(t, err)
}

func redeemMsg(t testing.TB, key *ecdsa.PrivateKey, id common.Address) *RedeemMsg {
	t.Helper()
	swap := &Swap{
		Initiator:      initiator,
		Participant:    participant,
		TokenContract:  token,
		RefundDeadline: deadline,
	}
	sig, err := SignSwap(key, id, swap)
	assert.Nil(t, err)
	return &RedeemMsg{SwapID: id, R: sig.R, S: sig.S, V: sig.V}
}

func TestInitiate(t *testing.T) {
	_, swapID := weavetest.KeyFromHex(t, swapSecret)

	cases := map[string]struct {
		caller  common.Address
		height  int64
		msg     *InitiateMsg
		prepare func(t testing.TB, f *fixture)
		wantErr *errors.Error
	}{
		"lock tokens": {
			caller: initiator,
			height: startHeight,
			msg:    &InitiateMsg{SwapID: swapID, Participant: participant, TokenContract: token, Value: uint256.NewInt(500), RefundDeadline: deadline},
		},
		"zero participant": {
			caller:  initiator,
			height:  startHeight,
			msg:     &InitiateMsg{SwapID: swapID, TokenContract: token, Value: uint256.NewInt(500), RefundDeadline: deadline},
			wantErr: ErrInvalidParticipant,
		},
		"deadline is the current height": {
			caller:  initiator,
			height:  deadline,
			msg:     &InitiateMsg{SwapID: swapID, Participant: participant, TokenContract: token, Value: uint256.NewInt(500), RefundDeadline: deadline},
			wantErr: ErrDeadlineAlreadyPassed,
		},
		"deadline in the past": {
			caller:  initiator,
			height:  deadline + 1,
			msg:     &InitiateMsg{SwapID: swapID, Participant: participant, TokenContract: token, Value: uint256.NewInt(500), RefundDeadline: deadline},
			wantErr: ErrDeadlineAlreadyPassed,
		},
		"swap already active": {
			caller:  initiator,
			height:  startHeight,
			msg:     &InitiateMsg{SwapID: swapID, Participant: participant, TokenContract: token, Value: uint256.NewInt(50), RefundDeadline: deadline},
			prepare: func(t testing.TB, f *fixture) { f.lock(t, swapID) },
			wantErr: ErrSwapAlreadyActive,
		},
		"allowance too low": {
			caller:  initiator,
			height:  startHeight,
			msg:     &InitiateMsg{SwapID: swapID, Participant: participant, TokenContract: token, Value: uint256.NewInt(601), RefundDeadline: deadline},
			wantErr: errors.ErrUnauthorized,
		},
		"no funds": {
			caller: stranger,
			height: startHeight,
			msg:    &InitiateMsg{SwapID: swapID, Participant: participant, TokenContract: token, Value: uint256.NewInt(1), RefundDeadline: deadline},
			prepare: func(t testing.TB, f *fixture) {
				assert.Nil(t, f.ledger.Approve(f.db, token, stranger, escrow, uint256.NewInt(1)))
			},
			wantErr: errors.ErrInsufficientAmount,
		},
		"unknown token": {
			caller:  initiator,
			height:  startHeight,
			msg:     &InitiateMsg{SwapID: swapID, Participant: participant, TokenContract: stranger, Value: uint256.NewInt(1), RefundDeadline: deadline},
			wantErr: errors.ErrNotFound,
		},
		"not authenticated": {
			height:  startHeight,
			msg:     &InitiateMsg{SwapID: swapID, Participant: participant, TokenContract: token, Value: uint256.NewInt(500), RefundDeadline: deadline},
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			if tc.prepare != nil {
				tc.prepare(t, f)
			}
			before := f.swap(t, swapID)
			escrowBefore := f.balance(t, escrow)

			ctx := f.ctx(tc.caller, tc.height)
			tx := &weavetest.Tx{Msg: tc.msg}

			_, err := f.initiate.Check(ctx, f.db.CacheWrap(), tx)
			assert.IsErr(t, tc.wantErr, err)
			_, err = f.initiate.Deliver(ctx, f.db, tx)
			assert.IsErr(t, tc.wantErr, err)

			if tc.wantErr != nil {
				// nothing changed
				assert.Equal(t, before, f.swap(t, swapID))
				assert.Equal(t, escrowBefore, f.balance(t, escrow))
				return
			}

			swap := f.swap(t, swapID)
			assert.Equal(t, true, swap.IsActive())
			assert.Equal(t, tc.caller, swap.Initiator)
			assert.Equal(t, tc.msg.Participant, swap.Participant)
			assert.Equal(t, tc.msg.TokenContract, swap.TokenContract)
			assert.Equal(t, tc.msg.RefundDeadline, swap.RefundDeadline)
			assert.Equal(t, tc.msg.Value.Uint64(), swap.Value.Uint64())
			assert.Equal(t, escrowBefore+tc.msg.Value.Uint64(), f.balance(t, escrow))
		})
	}
}

func TestRedeem(t *testing.T) {
	swapKey, swapID := weavetest.KeyFromHex(t, swapSecret)
	otherKey, _ := weavetest.KeyFromHex(t, otherSecret)

	rawBit := redeemMsg(t, swapKey, swapID)
	rawBit.V -= 27

	corrupted := redeemMsg(t, swapKey, swapID)
	corrupted.V = 5

	cases := map[string]struct {
		caller  common.Address
		height  int64
		msg     *RedeemMsg
		lock    bool
		wantErr *errors.Error
	}{
		"participant redeems": {
			caller: participant,
			height: startHeight + 1,
			msg:    redeemMsg(t, swapKey, swapID),
			lock:   true,
		},
		"recovery bit without offset": {
			caller: participant,
			height: startHeight + 1,
			msg:    rawBit,
			lock:   true,
		},
		"redeem after the deadline": {
			caller: participant,
			height: deadline + 100,
			msg:    redeemMsg(t, swapKey, swapID),
			lock:   true,
		},
		"signed by another key": {
			caller:  participant,
			height:  startHeight + 1,
			msg:     redeemMsg(t, otherKey, swapID),
			lock:    true,
			wantErr: ErrInvalidSignature,
		},
		"broken recovery bit": {
			caller:  participant,
			height:  startHeight + 1,
			msg:     corrupted,
			lock:    true,
			wantErr: ErrInvalidSignature,
		},
		"zero signature": {
			caller:  participant,
			height:  startHeight + 1,
			msg:     &RedeemMsg{SwapID: swapID, V: 27},
			lock:    true,
			wantErr: ErrInvalidSignature,
		},
		"initiator cannot redeem": {
			caller:  initiator,
			height:  startHeight + 1,
			msg:     redeemMsg(t, swapKey, swapID),
			lock:    true,
			wantErr: ErrInvalidCaller,
		},
		"stranger with a valid signature": {
			caller:  stranger,
			height:  startHeight + 1,
			msg:     redeemMsg(t, swapKey, swapID),
			lock:    true,
			wantErr: ErrInvalidCaller,
		},
		"swap never existed": {
			caller:  participant,
			height:  startHeight + 1,
			msg:     redeemMsg(t, swapKey, swapID),
			wantErr: ErrInvalidCaller,
		},
		"not authenticated": {
			height:  startHeight + 1,
			msg:     redeemMsg(t, swapKey, swapID),
			lock:    true,
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			if tc.lock {
				f.lock(t, swapID)
			}
			before := f.swap(t, swapID)
			escrowBefore := f.balance(t, escrow)

			ctx := f.ctx(tc.caller, tc.height)
			tx := &weavetest.Tx{Msg: tc.msg}

			_, err := f.redeem.Check(ctx, f.db.CacheWrap(), tx)
			assert.IsErr(t, tc.wantErr, err)
			_, err = f.redeem.Deliver(ctx, f.db, tx)
			assert.IsErr(t, tc.wantErr, err)

			if tc.wantErr != nil {
				assert.Equal(t, before, f.swap(t, swapID))
				assert.Equal(t, escrowBefore, f.balance(t, escrow))
				assert.Equal(t, uint64(0), f.balance(t, participant))
				return
			}

			assert.Equal(t, emptySwap(), f.swap(t, swapID))
			assert.Equal(t, uint64(0), f.balance(t, escrow))
			assert.Equal(t, uint64(500), f.balance(t, participant))
			assert.Equal(t, uint64(500), f.balance(t, initiator))

			// the same redeem cannot settle twice
			_, err = f.redeem.Deliver(ctx, f.db, tx)
			assert.IsErr(t, ErrInvalidCaller, err)
			assert.Equal(t, uint64(500), f.balance(t, participant))
		})
	}
}

func TestRefund(t *testing.T) {
	_, swapID := weavetest.KeyFromHex(t, swapSecret)

	cases := map[string]struct {
		caller  common.Address
		height  int64
		lock    bool
		wantErr *errors.Error
	}{
		"refund at the deadline": {
			caller: initiator,
			height: deadline,
			lock:   true,
		},
		"refund after the deadline": {
			caller: initiator,
			height: deadline + 1000,
			lock:   true,
		},
		"before the deadline": {
			caller:  initiator,
			height:  deadline - 1,
			lock:    true,
			wantErr: ErrDeadlineNotReached,
		},
		"participant cannot refund": {
			caller:  participant,
			height:  deadline,
			lock:    true,
			wantErr: ErrInvalidCaller,
		},
		"swap never existed": {
			caller:  initiator,
			height:  deadline,
			wantErr: ErrInvalidCaller,
		},
		"not authenticated": {
			height:  deadline,
			lock:    true,
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			if tc.lock {
				f.lock(t, swapID)
			}
			before := f.swap(t, swapID)
			initiatorBefore := f.balance(t, initiator)

			ctx := f.ctx(tc.caller, tc.height)
			tx := &weavetest.Tx{Msg: &RefundMsg{SwapID: swapID}}

			_, err := f.refund.Check(ctx, f.db.CacheWrap(), tx)
			assert.IsErr(t, tc.wantErr, err)
			_, err = f.refund.Deliver(ctx, f.db, tx)
			assert.IsErr(t, tc.wantErr, err)

			if tc.wantErr != nil {
				assert.Equal(t, before, f.swap(t, swapID))
				assert.Equal(t, initiatorBefore, f.balance(t, initiator))
				return
			}

			assert.Equal(t, emptySwap(), f.swap(t, swapID))
			assert.Equal(t, uint64(0), f.balance(t, escrow))
			assert.Equal(t, uint64(1000), f.balance(t, initiator))

			// the same refund cannot settle twice
			_, err = f.refund.Deliver(ctx, f.db, tx)
			assert.IsErr(t, ErrInvalidCaller, err)
			assert.Equal(t, uint64(1000), f.balance(t, initiator))
		})
	}
}

func TestRedeemAndRefundAreExclusive(t *testing.T) {
	swapKey, swapID := weavetest.KeyFromHex(t, swapSecret)

	f := newFixture(t)
	f.lock(t, swapID)

	redeem := &weavetest.Tx{Msg: redeemMsg(t, swapKey, swapID)}
	refund := &weavetest.Tx{Msg: &RefundMsg{SwapID: swapID}}

	_, err := f.redeem.Deliver(f.ctx(participant, deadline), f.db, redeem)
	assert.Nil(t, err)
	_, err = f.refund.Deliver(f.ctx(initiator, deadline), f.db, refund)
	assert.IsErr(t, ErrInvalidCaller, err)

	assert.Equal(t, uint64(500), f.balance(t, participant))
	assert.Equal(t, uint64(500), f.balance(t, initiator))
}

func TestSwapIdentifierReuse(t *testing.T) {
	_, swapID := weavetest.KeyFromHex(t, swapSecret)

	f := newFixture(t)
	f.lock(t, swapID)

	_, err := f.refund.Deliver(f.ctx(initiator, deadline), f.db, &weavetest.Tx{Msg: &RefundMsg{SwapID: swapID}})
	assert.Nil(t, err)

	// the escrow may spend the 100 tokens left of the allowance
	msg := &InitiateMsg{
		SwapID:         swapID,
		Participant:    stranger,
		TokenContract:  token,
		Value:          uint256.NewInt(100),
		RefundDeadline: deadline + 10,
	}
	_, err = f.initiate.Deliver(f.ctx(initiator, deadline), f.db, &weavetest.Tx{Msg: msg})
	assert.Nil(t, err)
	assert.Equal(t, stranger, f.swap(t, swapID).Participant)
	assert.Equal(t, uint64(100), f.balance(t, escrow))
}

func TestMissingConfiguration(t *testing.T) {
	_, swapID := weavetest.KeyFromHex(t, swapSecret)

	db := store.MemStore()
	ledger := erc20.NewController()
	auth := &weavetest.Auth{Signer: initiator}
	h := NewInitiateHandler(auth, NewRegistry(), ledger)

	msg := &InitiateMsg{SwapID: swapID, Participant: participant, TokenContract: token, Value: uint256.NewInt(1), RefundDeadline: deadline}
	ctx := sigswap.WithHeight(context.Background(), startHeight)
	_, err := h.Deliver(ctx, db, &weavetest.Tx{Msg: msg})
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestMissingHeight(t *testing.T) {
	_, swapID := weavetest.KeyFromHex(t, swapSecret)

	f := newFixture(t)
	msg := &InitiateMsg{SwapID: swapID, Participant: participant, TokenContract: token, Value: uint256.NewInt(1), RefundDeadline: deadline}
	ctx := f.auth.SetCaller(context.Background(), initiator)
	_, err := f.initiate.Deliver(ctx, f.db, &weavetest.Tx{Msg: msg})
	assert.IsErr(t, errors.ErrState, err)
}

func TestQuerySwaps(t *testing.T) {
	_, swapID := weavetest.KeyFromHex(t, swapSecret)

	f := newFixture(t)
	f.lock(t, swapID)

	qr := sigswap.NewQueryRouter()
	RegisterQuery(qr)
	res, err := qr.Handler("/swaps").Query(f.db, sigswap.KeyQueryMod, swapID.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))

	var swap Swap
	assert.Nil(t, swap.Unmarshal(res[0].Value))
	assert.Equal(t, initiator, swap.Initiator)
	assert.Equal(t, uint64(500), swap.Value.Uint64())

	res, err = qr.Handler("/swaps").Query(f.db, sigswap.KeyQueryMod, stranger.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))
}
