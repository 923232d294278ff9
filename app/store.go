package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the state related half of abci.Application: the
// handshake, genesis, block boundaries, commits and queries. BaseApp adds
// the transaction half.
//
// The ABCI calls that carry no user input (Info, InitChain, BeginBlock,
// EndBlock, Commit) panic on failure. Tendermint cannot continue past
// them anyway.
type StoreApp struct {
	logger log.Logger
	// name is reported by Info.
	name        string
	store       *CommitStore
	initializer sigswap.Initializer
	queryRouter sigswap.QueryRouter

	// chainID is empty until InitChain stores it.
	chainID string

	// baseContext holds what is fixed for the life of the process.
	baseContext sigswap.Context
	// blockContext adds the header and height of the current block.
	blockContext sigswap.Context
}

// NewStoreApp opens the state in store. It panics if the state cannot be
// read.
func NewStoreApp(name string, store sigswap.CommitKVStore, queryRouter sigswap.QueryRouter, baseContext sigswap.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	if s.chainID = mustLoadChainID(s.DeliverStore()); s.chainID != "" {
		s.baseContext = sigswap.WithChainID(s.baseContext, s.chainID)
	}
	last, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = sigswap.WithHeight(s.baseContext, last.Version)
	return s
}

func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the genesis initializer run by InitChain.
func (s *StoreApp) WithInit(init sigswap.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger replaces the logger of the app and its contexts.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseContext = sigswap.WithLogger(s.baseContext, logger)
	if s.blockContext != nil {
		s.blockContext = sigswap.WithLogger(s.blockContext, logger)
	}
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext is the context of the block in progress.
func (s *StoreApp) BlockContext() sigswap.Context {
	return s.blockContext
}

func (s *StoreApp) DeliverStore() sigswap.CacheableKVStore {
	return s.store.DeliverStore()
}

func (s *StoreApp) CheckStore() sigswap.CacheableKVStore {
	return s.store.CheckStore()
}

// loadGenesis stores the chain id and hands the app_state to the
// initializer. It runs once, when the chain is created.
func (s *StoreApp) loadGenesis(appState []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %s", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "genesis has no app_state, run the init command first")
	}
	var opts sigswap.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := s.storeChainID(chainID); err != nil {
		return err
	}
	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, s.DeliverStore())
}

func (s *StoreApp) storeChainID(chainID string) error {
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = sigswap.WithChainID(s.baseContext, chainID)
	s.blockContext = sigswap.WithChainID(s.blockContext, chainID)
	return nil
}

// Info reports the last committed block so tendermint can replay what
// the app has not seen.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	last, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("handshake", "height", last.Version, "hash", fmt.Sprintf("%X", last.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          sigswap.Version(),
		LastBlockHeight:  last.Version,
		LastBlockAppHash: last.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := sigswap.WithHeader(s.baseContext, req.Header)
	s.blockContext = sigswap.WithHeight(ctx, req.Header.GetHeight())
	return abci.ResponseBeginBlock{}
}

// EndBlock leaves the validator set unchanged.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("committed", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// Query reads the last committed state. The path names a query handler,
// optionally followed by a modifier, as in "/swaps" or "/balances?prefix".
// Height and Prove are ignored. Key and Value of the response are
// serialized ResultSets of equal length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	h := s.queryRouter.Handler(path)
	if h == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "no query handler for %q", req.Path))
	}
	last, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	models, err := h.Query(s.store.QueryStore(), mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	keys, err := ResultsFromKeys(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	values, err := ResultsFromValues(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	return abci.ResponseQuery{Height: last.Version, Key: keys, Value: values}
}

// splitPath separates the modifier after "?" from the path.
func splitPath(full string) (path, mod string) {
	if i := strings.IndexByte(full, '?'); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

// queryError reports the full error, internal ones included.
func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, true)
	return abci.ResponseQuery{Code: code, Log: log}
}
