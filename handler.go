package sigswap

import (
	"encoding/json"
)

// Checker validates a transaction without executing it. CheckTx runs it
// against the mempool state.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction against the block state.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Handler processes the messages it is registered for, for example a
// swap redeem.
type Handler interface {
	Checker
	Deliverer
}

// Decorator runs around the next handler in the stack. Authentication,
// savepoints and logging are decorators.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to messages. Taking a message value rather than
// a path ties the registration to the package that declares the message.
type Registry interface {
	Handle(Msg, Handler)
}

// Options is the app_state section of the genesis file, one raw JSON
// document per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the document stored under key into obj. A missing
// key leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, obj)
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
