package weavetest

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iov-one/sigswap"
)

// Auth is a mock implementing x.Authenticator interface.
//
// It always authenticates the Signer. A zero Signer means that nobody is
// authenticated.
type Auth struct {
	Signer common.Address
}

func (a *Auth) Caller(sigswap.Context) (common.Address, bool) {
	return a.Signer, !sigswap.IsZeroAddress(a.Signer)
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve the caller.
type CtxAuth struct {
	// Key used to set and retrieve the caller from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetCaller(ctx sigswap.Context, caller common.Address) sigswap.Context {
	return context.WithValue(ctx, a.Key, caller)
}

func (a *CtxAuth) Caller(ctx sigswap.Context) (common.Address, bool) {
	val := ctx.Value(a.Key)
	if val == nil {
		return common.Address{}, false
	}
	addr, ok := val.(common.Address)
	if !ok {
		panic(fmt.Sprintf("instead of common.Address got %T", val))
	}
	return addr, true
}
