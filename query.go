package sigswap

import (
	"fmt"
	"strings"
)

// Query modifiers, given after a "?" in the query path.
const (
	// KeyQueryMod returns the single entry stored under the queried key.
	KeyQueryMod = ""
	// PrefixQueryMod returns every entry whose key starts with the
	// queried bytes.
	PrefixQueryMod = "prefix"
)

// Model is a single key/value entry returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns the model of the given entry.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers queries for a single path, reading the last
// committed state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the query handlers of an extension to the router.
type QueryRegister func(QueryRouter)

// QueryRouter dispatches ABCI queries to handlers by path. Paths start
// with a slash, for example "/swaps".
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns a router without routes.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register function with this router.
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, register := range qr {
		register(r)
	}
}

// Register binds h to path. It panics for a malformed path or when the
// path is already taken.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if !strings.HasPrefix(path, "/") || strings.Contains(path, "?") {
		panic(fmt.Sprintf("invalid query path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q registered twice", path))
	}
	r.routes[path] = h
}

// Handler returns the handler bound to path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
