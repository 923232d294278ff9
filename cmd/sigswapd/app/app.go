/*
Package sigswapd links together all the various components
to construct the sigswapd app.
*/
package sigswapd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/app"
	"github.com/iov-one/sigswap/commands/server"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/store/bolt"
	"github.com/iov-one/sigswap/store/iavl"
	"github.com/iov-one/sigswap/x"
	"github.com/iov-one/sigswap/x/aswap"
	"github.com/iov-one/sigswap/x/erc20"
	"github.com/iov-one/sigswap/x/sigs"
	"github.com/iov-one/sigswap/x/utils"
)

// Name is returned by abci.Info.
const Name = "sigswapd"

// Authenticator returns the typical authentication,
// just using Ethereum signatures
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// TokenControl returns a controller for the token ledger
func TokenControl() erc20.Controller {
	return erc20.NewController()
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// Router returns a router dispatching to the token and swap
// handlers
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	ledger := TokenControl()
	erc20.RegisterRoutes(r, authFn, ledger)
	aswap.RegisterRoutes(r, authFn, ledger)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/tokens", "/balances", "/allowances",
// "/swaps" and "/auth"
func QueryRouter() sigswap.QueryRouter {
	r := sigswap.NewQueryRouter()
	r.RegisterAll(
		erc20.RegisterQuery,
		aswap.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// Initializers returns the initializers of every extension
// that reads the genesis file.
func Initializers() sigswap.Initializer {
	return app.ChainInitializers(
		erc20.Initializer{},
		aswap.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. The router is returned as well, as it is the tx decoder.
func Stack() (sigswap.Handler, *app.Router) {
	r := Router(Authenticator())
	return Chain().WithHandler(r), r
}

// Application constructs a basic ABCI application with
// the given commit store.
func Application(kv sigswap.CommitKVStore, debug bool) app.BaseApp {
	stack, router := Stack()
	store := app.NewStoreApp(Name, kv, QueryRouter(), context.Background()).
		WithInit(Initializers())
	return app.NewBaseApp(store, router.TxDecoder(), stack, debug)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path, using the given backend.
// An empty path creates an in memory store.
func CommitKVStore(dbPath, backend string) (sigswap.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", path)
	}

	switch backend {
	case server.StoreBolt:
		kv, err := bolt.NewCommitStore(path)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case server.StoreIAVL, "":
		// Some external calls accidentally add a ".db", which is now removed
		path = strings.TrimSuffix(path, filepath.Ext(path))

		// Split the database name into it's components (dir, name)
		dir := filepath.Dir(path)
		name := filepath.Base(path)
		return iavl.NewCommitStore(dir, name), nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown store %q", backend)
	}
}
