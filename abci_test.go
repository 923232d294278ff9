package sigswap

import (
	"testing"

	"github.com/iov-one/sigswap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

func TestDeliverOrError(t *testing.T) {
	res := &DeliverResult{
		Data: []byte("swap"),
		Log:  "done",
		Tags: []common.KVPair{{Key: []byte("action"), Value: []byte("redeem")}},
	}
	abciRes := DeliverOrError(res, nil, false)
	assert.Equal(t, uint32(0), abciRes.Code)
	assert.Equal(t, res.Tags, abciRes.Tags)

	back, err := ParseDeliverOrError(abciRes)
	require.NoError(t, err)
	assert.Equal(t, res, back)

	failed := DeliverOrError(nil, errors.Wrap(errors.ErrNotFound, "no swap"), false)
	assert.Equal(t, uint32(3), failed.Code)
	assert.Contains(t, failed.Log, "no swap")

	_, err = ParseDeliverOrError(failed)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestCheckOrError(t *testing.T) {
	res := NewCheck(42, "looks good")
	abciRes := CheckOrError(res, nil, false)
	assert.Equal(t, int64(42), abciRes.GasWanted)

	back, err := ParseCheckOrError(abciRes)
	require.NoError(t, err)
	assert.Equal(t, res.GasAllocated, back.GasAllocated)

	internal := CheckOrError(nil, assert.AnError, false)
	assert.Equal(t, uint32(1), internal.Code)
	assert.NotContains(t, internal.Log, assert.AnError.Error())
}
