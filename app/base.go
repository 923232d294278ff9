package app

import (
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a StoreApp that also processes transactions. Every
// transaction is decoded and passed to a single handler, usually a
// decorator chain ending in a router.
type BaseApp struct {
	*StoreApp
	decoder sigswap.TxDecoder
	handler sigswap.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns the application. With debug set, failed
// transactions report their full error including internal ones.
func NewBaseApp(store *StoreApp, decoder sigswap.TxDecoder, handler sigswap.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: store, decoder: decoder, handler: handler, debug: debug}
}

func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decode(raw)
	if err != nil {
		return sigswap.CheckTxError(err, b.debug)
	}
	ctx := b.txContext("check_tx", tx)
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return sigswap.CheckOrError(res, err, b.debug)
}

func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(raw)
	if err != nil {
		return sigswap.DeliverTxError(err, b.debug)
	}
	ctx := b.txContext("deliver_tx", tx)
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return sigswap.DeliverOrError(res, err, b.debug)
}

func (b BaseApp) txContext(call string, tx sigswap.Tx) sigswap.Context {
	return sigswap.WithLogInfo(b.BlockContext(), "call", call, "path", sigswap.GetPath(tx))
}

// decode turns a decoder panic on malformed input into an error.
func (b BaseApp) decode(raw []byte) (tx sigswap.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(raw)
	return tx, err
}
