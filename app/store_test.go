package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/store/iavl"
	"github.com/iov-one/sigswap/weavetest"
	"github.com/iov-one/sigswap/weavetest/assert"
	abci "github.com/tendermint/tendermint/abci/types"
)

// greetingInit writes the "greeting" genesis option under the "greeting"
// key.
type greetingInit struct{}

func (greetingInit) FromGenesis(opts sigswap.Options, kv sigswap.KVStore) error {
	var greeting string
	if err := opts.ReadOptions("greeting", &greeting); err != nil {
		return err
	}
	return kv.Set([]byte("greeting"), []byte(greeting))
}

// keyQuery returns the value stored under the queried key.
type keyQuery struct{}

func (keyQuery) Query(db sigswap.ReadOnlyKVStore, mod string, data []byte) ([]sigswap.Model, error) {
	if mod != "" {
		return nil, errors.Wrapf(errors.ErrInput, "unknown modifier %q", mod)
	}
	val, err := db.Get(data)
	if err != nil || val == nil {
		return nil, err
	}
	return []sigswap.Model{sigswap.Pair(data, val)}, nil
}

func newTestStoreApp() *StoreApp {
	qr := sigswap.NewQueryRouter()
	qr.Register("/keys", keyQuery{})
	return NewStoreApp("test", iavl.NewMemCommitStore(), qr, context.Background()).
		WithInit(greetingInit{})
}

func TestStoreAppGenesis(t *testing.T) {
	s := newTestStoreApp()
	assert.Equal(t, "", s.GetChainID())

	appState, err := json.Marshal(map[string]string{"greeting": "hello"})
	assert.Nil(t, err)
	s.InitChain(abci.RequestInitChain{ChainId: "test-chain-1", AppStateBytes: appState})
	assert.Equal(t, "test-chain-1", s.GetChainID())
	assert.Equal(t, "test-chain-1", sigswap.GetChainID(s.BlockContext()))

	// genesis can be loaded only once
	assert.Panics(t, func() {
		s.InitChain(abci.RequestInitChain{ChainId: "test-chain-2", AppStateBytes: appState})
	})

	// nothing is visible before the commit
	res := s.Query(abci.RequestQuery{Path: "/keys", Data: []byte("greeting")})
	assert.Equal(t, uint32(0), res.Code)
	var values ResultSet
	assert.Nil(t, values.Unmarshal(res.Value))
	assert.Equal(t, 0, len(values.Results))

	commit := s.Commit()
	assert.Equal(t, true, len(commit.Data) > 0)

	info := s.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.EqualBytes(t, commit.Data, info.LastBlockAppHash)
	assert.Equal(t, "test", info.Data)

	res = s.Query(abci.RequestQuery{Path: "/keys", Data: []byte("greeting")})
	assert.Equal(t, uint32(0), res.Code)
	assert.Equal(t, int64(1), res.Height)
	var keys ResultSet
	assert.Nil(t, keys.Unmarshal(res.Key))
	assert.Nil(t, values.Unmarshal(res.Value))
	models, err := JoinResults(&keys, &values)
	assert.Nil(t, err)
	assert.Equal(t, []sigswap.Model{sigswap.Pair([]byte("greeting"), []byte("hello"))}, models)

	var greeting pingMsg
	assert.Nil(t, UnmarshalOneResult(res.Value, &greeting))
	assert.Equal(t, "hello", greeting.Text)
}

func TestStoreAppQueryErrors(t *testing.T) {
	s := newTestStoreApp()

	res := s.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	res = s.Query(abci.RequestQuery{Path: "/keys?prefix", Data: []byte("greeting")})
	assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)
}

func TestStoreAppRequiresAppState(t *testing.T) {
	s := newTestStoreApp()
	assert.Panics(t, func() {
		s.InitChain(abci.RequestInitChain{ChainId: "test-chain-1"})
	})
	assert.Panics(t, func() {
		s.InitChain(abci.RequestInitChain{ChainId: "bad", AppStateBytes: []byte(`{}`)})
	})
}

func TestStoreAppBeginBlock(t *testing.T) {
	s := newTestStoreApp()
	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 7, ChainID: "test-chain-1"}})

	height, ok := sigswap.GetHeight(s.BlockContext())
	assert.Equal(t, true, ok)
	assert.Equal(t, int64(7), height)
	header, ok := sigswap.GetHeader(s.BlockContext())
	assert.Equal(t, true, ok)
	assert.Equal(t, "test-chain-1", header.ChainID)
}

// pingMsg is a message with a fixed path, so that it can be decoded by
// the router.
type pingMsg struct {
	Text string
}

func (pingMsg) Path() string                  { return "test/ping" }
func (m pingMsg) Marshal() ([]byte, error)    { return []byte(m.Text), nil }
func (m *pingMsg) Unmarshal(raw []byte) error { m.Text = string(raw); return nil }
func (pingMsg) Validate() error               { return nil }

func TestBaseAppDispatch(t *testing.T) {
	h := &weavetest.Handler{
		CheckResult:   sigswap.CheckResult{GasAllocated: 10},
		DeliverResult: sigswap.DeliverResult{Data: []byte("done")},
	}
	r := NewRouter()
	r.Handle(&pingMsg{}, h)

	s := newTestStoreApp()
	base := NewBaseApp(s, r.TxDecoder(), r, false)

	tx, err := NewTx(&pingMsg{Text: "ping"})
	assert.Nil(t, err)
	raw, err := tx.Marshal()
	assert.Nil(t, err)

	check := base.CheckTx(raw)
	assert.Equal(t, uint32(0), check.Code)
	assert.Equal(t, int64(10), check.GasWanted)

	deliver := base.DeliverTx(raw)
	assert.Equal(t, uint32(0), deliver.Code)
	assert.EqualBytes(t, []byte("done"), deliver.Data)

	bad := base.DeliverTx([]byte("garbage"))
	assert.Equal(t, errors.ErrInput.ABCICode(), bad.Code)
	assert.Equal(t, 2, h.CallCount())
}
