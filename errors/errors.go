package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all extensions. Codes below 1000 belong to this
// package, extensions register their own codes in separate ranges.
var (
	// ErrUnauthorized is returned when the caller has no right to
	// perform the requested operation.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned for a message that cannot be handled.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned for an entity that cannot be persisted.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when a unique key is already in use.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned when the code reaches a branch that a
	// correct wiring of the application never reaches.
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a required value is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an entity is in the wrong state for
	// the requested operation.
	ErrState = Register(10, "invalid state")

	// ErrType is returned for a value of an unexpected type or format.
	ErrType = Register(11, "invalid type")

	// ErrInsufficientAmount is returned when a balance or an
	// allowance does not cover the requested amount.
	ErrInsufficientAmount = Register(12, "insufficient amount")

	// ErrAmount is returned for a malformed or missing amount.
	ErrAmount = Register(13, "invalid amount")

	// ErrInput is returned for malformed input.
	ErrInput = Register(14, "invalid input")

	// ErrExpired is returned for an entity past its deadline.
	ErrExpired = Register(15, "expired")

	// ErrOverflow is returned when a result does not fit its type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned on a storage failure.
	ErrDatabase = Register(17, "database")

	// ErrSignature is returned for a signature that cannot be
	// decoded or recovered.
	ErrSignature = Register(18, "invalid signature")

	// ErrPanic marks a recovered panic. Redact hides it outside of
	// debug mode.
	ErrPanic = Register(111222, "panic")
)

// registry holds every registered root error by code. Code 1 is
// reserved for errors that do not carry a code.
var registry = map[uint32]*Error{
	internalABCICode: nil,
}

// Register declares a new root error. It panics if the code is taken, so
// it must only be called while the program initializes, usually from a
// package level var block.
func Register(code uint32, description string) *Error {
	if prev, ok := registry[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, prev.Error()))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// ABCIError maps a code and log received from a node back to an error.
// A code of a registered error gives an error that matches it with Is.
//
// Only clients need this. Inside the application use the registered
// errors directly.
func ABCIError(code uint32, log string) error {
	if root := registry[code]; root != nil {
		return Wrap(root, log)
	}
	return Wrap(&Error{code: code, desc: "unknown"}, log)
}

// Error is a root error. Every error returned to a client must have one
// in its chain, it defines the ABCI code of the response.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode returns the code used in ABCI responses.
func (e Error) ABCICode() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is a shortcut for Wrapf(e, format, args...).
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrapf(e, format, args...)
}

// Is returns true if err is this root error or wraps it.
//
// A nil *Error matches only a nil error, including a nil pointer stored
// in the error interface.
func (e *Error) Is(err error) bool {
	if e == nil {
		if err == nil {
			return true
		}
		v := reflect.ValueOf(err)
		return v.Kind() == reflect.Ptr && v.IsNil()
	}
	found := false
	walk(err, func(cur error) bool {
		found = cur == error(e)
		return found
	})
	return found
}

// Wrap adds a description to err. A stack trace is recorded the first
// time an error is wrapped. Wrap returns nil for a nil err.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithType wraps err with the name of the type of obj.
func WithType(err error, obj interface{}) error {
	return Wrapf(err, "%T", obj)
}

// Recover turns a panic into an ErrPanic assigned to err. It must be
// called with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

// Cause and Unwrap expose the parent to both pkg/errors and the standard
// library helpers.
func (e *wrappedError) Cause() error  { return e.parent }
func (e *wrappedError) Unwrap() error { return e.parent }

// Format prints the chain of descriptions. The %+v verb also prints the
// stack trace recorded by the innermost wrap.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		fmt.Fprintf(s, "%s: %+v", e.msg, e.parent)
	case verb == 'q':
		fmt.Fprintf(s, "%q", e.Error())
	default:
		fmt.Fprint(s, e.Error())
	}
}

type causer interface {
	Cause() error
}

// walk calls fn with err and every error it wraps, until fn returns true
// or the chain ends.
func walk(err error, fn func(error) bool) {
	for err != nil {
		if fn(err) {
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stack trace found in the chain of err.
func stackTrace(err error) errors.StackTrace {
	var st errors.StackTrace
	walk(err, func(cur error) bool {
		if t, ok := cur.(stackTracer); ok {
			st = t.StackTrace()
			return true
		}
		return false
	})
	return st
}
