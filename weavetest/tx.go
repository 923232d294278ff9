package weavetest

import "github.com/iov-one/sigswap"

// Tx carries Msg, or fails with Err. It cannot be serialized.
type Tx struct {
	Msg sigswap.Msg
	Err error
}

var _ sigswap.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (sigswap.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("weavetest.Tx cannot be marshaled")
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("weavetest.Tx cannot be unmarshaled")
}

// Msg routes to RoutePath. Its serialized form is Serialized as is. When
// Err is set, every method but Path returns it.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ sigswap.Msg = (*Msg)(nil)

func (m *Msg) Path() string { return m.RoutePath }

func (m *Msg) Validate() error { return m.Err }

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}
