/*
Package sigs authenticates transactions. A signed transaction carries a
personal-sign signature over its chain id, its sequence and its message.
The decorator recovers the signer, bumps the signer's sequence so the
transaction cannot be replayed, and hands the signer to the handlers as
the caller.
*/
package sigs

import (
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
)

// signatureVerifyCost is charged in CheckTx for every recovered signer.
const signatureVerifyCost = 500

// RegisterQuery exposes the sequence records under "/auth".
func RegisterQuery(qr sigswap.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signature of every transaction and records the
// signer in the context.
type Decorator struct {
	optional bool
}

var _ sigswap.Decorator = Decorator{}

// NewDecorator rejects unsigned transactions.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs lets unsigned transactions through without a caller.
// Handlers then reject whatever needs one.
func (d Decorator) AllowMissingSigs() Decorator {
	d.optional = true
	return d
}

func (d Decorator) Check(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx, next sigswap.Checker) (*sigswap.CheckResult, error) {
	ctx, signed, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if signed {
		res.GasPayment += signatureVerifyCost
	}
	return res, nil
}

func (d Decorator) Deliver(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx, next sigswap.Deliverer) (*sigswap.DeliverResult, error) {
	ctx, _, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

// authenticate returns ctx with the signer set. signed is false for an
// unsigned transaction let through by AllowMissingSigs.
func (d Decorator) authenticate(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (_ sigswap.Context, signed bool, err error) {
	unsigned := func() (sigswap.Context, bool, error) {
		if d.optional {
			return ctx, false, nil
		}
		return nil, false, errors.Wrap(errors.ErrUnauthorized, "transaction is not signed")
	}

	stx, ok := tx.(SignedTx)
	if !ok {
		return unsigned()
	}
	signer, err := VerifyTxSignature(db, stx, sigswap.GetChainID(ctx))
	if err != nil {
		return nil, false, errors.Wrap(err, "verify signature")
	}
	if sigswap.IsZeroAddress(signer) {
		return unsigned()
	}
	return withSigner(ctx, signer), true, nil
}
