package x

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// Caller returns the address that authorized the current
	// transaction. ok is false if nobody did.
	Caller(sigswap.Context) (addr common.Address, ok bool)
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// Caller returns the caller of the first Authenticator that knows one.
func (m MultiAuth) Caller(ctx sigswap.Context) (common.Address, bool) {
	for _, impl := range m.impls {
		if addr, ok := impl.Caller(ctx); ok {
			return addr, true
		}
	}
	return common.Address{}, false
}

// MustCaller returns the caller of the transaction or ErrUnauthorized when
// the transaction was not authenticated.
func MustCaller(ctx sigswap.Context, auth Authenticator) (common.Address, error) {
	addr, ok := auth.Caller(ctx)
	if !ok || sigswap.IsZeroAddress(addr) {
		return common.Address{}, errors.Wrap(errors.ErrUnauthorized, "no caller")
	}
	return addr, nil
}
