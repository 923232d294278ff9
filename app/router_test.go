package app

import (
	"context"
	"testing"

	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/weavetest"
	"github.com/iov-one/sigswap/weavetest/assert"
)

func TestRouter(t *testing.T) {
	var (
		good = &weavetest.Handler{}
		bad  = &weavetest.Handler{
			CheckErr:   errors.ErrUnauthorized,
			DeliverErr: errors.ErrUnauthorized,
		}
	)

	r := NewRouter()
	r.Handle(&weavetest.Msg{RoutePath: "test/good"}, good)
	r.Handle(&weavetest.Msg{RoutePath: "test/bad"}, bad)

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle(&weavetest.Msg{RoutePath: "test/good"}, good) })
	assert.Panics(t, func() { r.Handle(&weavetest.Msg{RoutePath: "l:7"}, good) })

	ctx := context.Background()
	goodTx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/good"}}
	_, err := r.Check(ctx, nil, goodTx)
	assert.Nil(t, err)
	_, err = r.Deliver(ctx, nil, goodTx)
	assert.Nil(t, err)
	assert.Equal(t, 2, good.CallCount())

	badTx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/bad"}}
	_, err = r.Deliver(ctx, nil, badTx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 1, bad.CallCount())

	missingTx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/missing"}}
	_, err = r.Check(ctx, nil, missingTx)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Deliver(ctx, nil, missingTx)
	assert.IsErr(t, errors.ErrNotFound, err)

	brokenTx := &weavetest.Tx{Err: errors.ErrMsg}
	_, err = r.Deliver(ctx, nil, brokenTx)
	assert.IsErr(t, errors.ErrMsg, err)

	assert.Equal(t, 2, good.CallCount())
	assert.Equal(t, 1, bad.CallCount())
}

func TestRouterTxDecoder(t *testing.T) {
	r := NewRouter()
	r.Handle(&weavetest.Msg{RoutePath: "test/good"}, &weavetest.Handler{})
	decode := r.TxDecoder()

	tx, err := NewTx(&weavetest.Msg{RoutePath: "test/good", Serialized: []byte("payload")})
	assert.Nil(t, err)
	raw, err := tx.Marshal()
	assert.Nil(t, err)

	decoded, err := decode(raw)
	assert.Nil(t, err)
	msg, err := decoded.GetMsg()
	assert.Nil(t, err)
	assert.EqualBytes(t, []byte("payload"), msg.(*weavetest.Msg).Serialized)

	unknown, err := NewTx(&weavetest.Msg{RoutePath: "test/unknown"})
	assert.Nil(t, err)
	raw, err = unknown.Marshal()
	assert.Nil(t, err)
	_, err = decode(raw)
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = decode([]byte("not rlp"))
	assert.IsErr(t, errors.ErrInput, err)

	_, err = r.DecodeMsg("test/good", []byte("raw"))
	assert.Nil(t, err)
	_, err = r.DecodeMsg("test/unknown", []byte("raw"))
	assert.IsErr(t, errors.ErrNotFound, err)
}
