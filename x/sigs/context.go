package sigs

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigner contextKey = iota
)

// withSigner is a private method, as only this module
// can add a signer
func withSigner(ctx sigswap.Context, signer common.Address) sigswap.Context {
	return context.WithValue(ctx, contextKeySigner, signer)
}

// Authenticate gets/sets permissions on the given context key
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// Caller returns who signed the current Context.
func (a Authenticate) Caller(ctx sigswap.Context) (common.Address, bool) {
	// (val, ok) form to return zero instead of panic if unset
	val, ok := ctx.Value(contextKeySigner).(common.Address)
	return val, ok
}
