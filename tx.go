package sigswap

import (
	"reflect"

	"github.com/iov-one/sigswap/errors"
)

// Marshaller serializes itself. It may validate before doing so.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can be written and read back. Unmarshal almost always needs
// a pointer receiver, which is why it is split from Marshaller.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a request for a single state transition. Authentication data
// lives in the Tx that carries it.
type Msg interface {
	Persistent

	// Path selects the handler, for example "aswap/redeem". It matches
	// [0-9A-Za-z_\-/]+ and several types may share one.
	Path() string

	// Validate runs the stateless checks.
	Validate() error
}

// Tx is what a client submits: a message plus whatever the decorators
// need, such as a signature and sequence.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// TxDecoder parses the raw bytes of a transaction.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the message in tx, or "(missing)".
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg copies the message of tx into destination, which must point to
// the concrete message type, and validates it.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "read message")
	case msg == nil:
		return errors.Wrap(errors.ErrMsg, "no message")
	}

	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrapf(errors.ErrType, "destination %T is not a pointer", destination)
	}
	src := reflect.Indirect(reflect.ValueOf(msg))
	if !src.Type().AssignableTo(dst.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "message %T does not fit %T", msg, destination)
	}
	dst.Elem().Set(src)

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "validate message")
	}
	return nil
}
