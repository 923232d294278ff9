package app

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Router also knows the message type registered for every path, so it
// can decode transaction payloads.
type Router struct {
	routes map[string]sigswap.Handler
	protos map[string]reflect.Type
}

var _ sigswap.Registry = (*Router)(nil)
var _ sigswap.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]sigswap.Handler, 10),
		protos: make(map[string]reflect.Type, 10),
	}
}

// Handle adds a new Handler for the given message type.
// panics if another Handler was already registered
func (r *Router) Handle(msg sigswap.Msg, h sigswap.Handler) {
	path := msg.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	typ := reflect.TypeOf(msg)
	if typ.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("message %T must be registered as a pointer", msg))
	}
	r.routes[path] = h
	r.protos[path] = typ.Elem()
}

// handler returns the registered Handler for this path.
func (r *Router) handler(path string) (sigswap.Handler, error) {
	h, ok := r.routes[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", path)
	}
	return h, nil
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx sigswap.Context, store sigswap.KVStore, tx sigswap.Tx) (*sigswap.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	h, err := r.handler(msg.Path())
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx sigswap.Context, store sigswap.KVStore, tx sigswap.Tx) (*sigswap.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	h, err := r.handler(msg.Path())
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, store, tx)
}

// DecodeMsg returns the message registered under the path, decoded from
// its serialized form.
func (r *Router) DecodeMsg(path string, payload []byte) (sigswap.Msg, error) {
	typ, ok := r.protos[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no message for path %q", path)
	}
	msg := reflect.New(typ).Interface().(sigswap.Msg)
	if err := msg.Unmarshal(payload); err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "decode %s: %s", path, err)
	}
	return msg, nil
}

// TxDecoder returns a decoder of Tx envelopes, with the messages the router
// knows about.
func (r *Router) TxDecoder() sigswap.TxDecoder {
	return func(raw []byte) (sigswap.Tx, error) {
		var tx Tx
		if err := tx.Unmarshal(raw); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		msg, err := r.DecodeMsg(tx.Kind, tx.Payload)
		if err != nil {
			return nil, err
		}
		tx.msg = msg
		return &tx, nil
	}
}
