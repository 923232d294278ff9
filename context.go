package sigswap

import (
	"context"
	"fmt"
	"regexp"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Context carries the block data and the logger through the stack.
type Context = context.Context

type ctxKey int

const (
	headerKey ctxKey = iota
	heightKey
	chainIDKey
	loggerKey
)

var (
	// DefaultLogger is returned by GetLogger when no logger was set.
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID accepts 6 to 20 characters of [a-zA-Z0-9_-].
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// setOnce stores val under key. The block values may be set only once per
// context.
func setOnce(ctx Context, key ctxKey, val interface{}, name string) Context {
	if ctx.Value(key) != nil {
		panic(name + " already set")
	}
	return context.WithValue(ctx, key, val)
}

// WithHeader stores the header of the current block. It panics if a
// header is already set.
func WithHeader(ctx Context, header abci.Header) Context {
	return setOnce(ctx, headerKey, header, "header")
}

func GetHeader(ctx Context) (abci.Header, bool) {
	h, ok := ctx.Value(headerKey).(abci.Header)
	return h, ok
}

// WithHeight stores the height of the current block. It panics if a
// height is already set.
func WithHeight(ctx Context, height int64) Context {
	return setOnce(ctx, heightKey, height, "height")
}

func GetHeight(ctx Context) (int64, bool) {
	h, ok := ctx.Value(heightKey).(int64)
	return h, ok
}

// MustGetHeight panics when the height is missing. Deadlines cannot be
// checked without it.
func MustGetHeight(ctx Context) int64 {
	h, ok := GetHeight(ctx)
	if !ok {
		panic("no block height in context")
	}
	return h
}

// WithChainID stores the chain id. It panics for an invalid id or when
// one is already set.
func WithChainID(ctx Context, chainID string) Context {
	if !IsValidChainID(chainID) {
		panic(fmt.Sprintf("invalid chain id %q", chainID))
	}
	return setOnce(ctx, chainIDKey, chainID, "chain id")
}

// GetChainID panics when no chain id was set, which only happens before
// InitChain.
func GetChainID(ctx Context) string {
	id, ok := ctx.Value(chainIDKey).(string)
	if !ok {
		panic("no chain id in context")
	}
	return id
}

func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns DefaultLogger when none was set.
func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return l
	}
	return DefaultLogger
}

// WithLogInfo adds key value pairs to every later log line.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}
