package utils

import (
	"context"
	"testing"

	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/store"
	"github.com/iov-one/sigswap/weavetest"
	"github.com/iov-one/sigswap/weavetest/assert"
)

func TestActionTagger(t *testing.T) {
	ctx := context.Background()
	msg := &weavetest.Msg{RoutePath: "aswap/redeem"}

	cases := map[string]struct {
		handler *weavetest.Handler
		tx      *weavetest.Tx
		wantErr *errors.Error
		tags    int
	}{
		"success is tagged": {
			handler: &weavetest.Handler{},
			tx:      &weavetest.Tx{Msg: msg},
			tags:    1,
		},
		"handler failure": {
			handler: &weavetest.Handler{DeliverErr: errors.ErrUnauthorized},
			tx:      &weavetest.Tx{Msg: msg},
			wantErr: errors.ErrUnauthorized,
		},
		"broken transaction is not dispatched": {
			handler: &weavetest.Handler{},
			tx:      &weavetest.Tx{Err: errors.ErrMsg},
			wantErr: errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			h := weavetest.Decorate(tc.handler, NewActionTagger())
			res, err := h.Deliver(ctx, store.MemStore(), tc.tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.tags, len(res.Tags))
			assert.Equal(t, ActionKey, string(res.Tags[0].Key))
			assert.Equal(t, "aswap/redeem", string(res.Tags[0].Value))
		})
	}
}
