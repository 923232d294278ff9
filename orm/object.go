package orm

import (
	"reflect"

	"github.com/iov-one/sigswap/errors"
)

// SimpleObj is the default Object. Type safe buckets wrap it and convert
// Value to their own model.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte { return o.key }

func (o *SimpleObj) SetKey(key []byte) { o.key = key }

func (o SimpleObj) Value() Model { return o.value }

// Validate requires a key and a value and then validates the value.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Wrap(errors.ErrEmpty, "object key")
	case o.value == nil:
		return errors.Wrap(errors.ErrEmpty, "object value")
	}
	return o.value.Validate()
}

// Clone returns an object with a copy of the key and a zero value of the
// same concrete type. The value must be a pointer.
func (o *SimpleObj) Clone() Object {
	elem := reflect.TypeOf(o.value).Elem()
	clone := &SimpleObj{value: reflect.New(elem).Interface().(Model)}
	if len(o.key) != 0 {
		clone.key = append([]byte(nil), o.key...)
	}
	return clone
}
