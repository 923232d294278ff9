package weavetest

import "github.com/iov-one/sigswap"

// Handler is a mock implementation of the sigswap.Handler interface.
// Every call is counted. The configured result or error is returned.
// When Key is set, the handler writes Key/Value to the store before
// returning, so savepoint behaviour can be tested.
type Handler struct {
	checkCall   int
	CheckResult sigswap.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult sigswap.DeliverResult
	DeliverErr    error

	Key   []byte
	Value []byte

	// Panic if set is raised by every call.
	Panic interface{}
}

var _ sigswap.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (*sigswap.CheckResult, error) {
	h.checkCall++
	if err := h.act(db); err != nil {
		return nil, err
	}
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx sigswap.Context, db sigswap.KVStore, tx sigswap.Tx) (*sigswap.DeliverResult, error) {
	h.deliverCall++
	if err := h.act(db); err != nil {
		return nil, err
	}
	res := h.DeliverResult
	return &res, h.DeliverErr
}

func (h *Handler) act(db sigswap.KVStore) error {
	if h.Panic != nil {
		panic(h.Panic)
	}
	if h.Key != nil {
		return db.Set(h.Key, h.Value)
	}
	return nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
