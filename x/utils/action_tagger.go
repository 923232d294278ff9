package utils

import (
	"github.com/iov-one/sigswap"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key under which ActionTagger records the message
// path. Clients subscribe with a query like "action='aswap/redeem'".
const ActionKey = "action"

// ActionTagger tags every successfully delivered transaction with the
// path of its message.
type ActionTagger struct{}

var _ sigswap.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx, next sigswap.Checker) (*sigswap.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver fails without dispatching when the message cannot be read.
func (ActionTagger) Deliver(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx, next sigswap.Deliverer) (*sigswap.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	tag := common.KVPair{Key: []byte(ActionKey), Value: []byte(msg.Path())}
	res.Tags = append(res.Tags, tag)
	return res, nil
}
