package jsonvalue

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
)

// Decode parses text with encoding/json and returns it as a Value.
//
// Codec errors are returned unchanged. The result is not validated: a reviver
// can return anything the model admits, including nil at the root, and that is
// what Decode returns. Use Validate when the result must be checked.
func Decode(text string, opts ...DecodeOption) (Value, error) {
	o := &decodeOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var native any
	if err := json.Unmarshal([]byte(text), &native); err != nil {
		return nil, err
	}
	v, err := Of(native)
	if err != nil {
		return nil, err
	}
	if o.reviver == nil {
		return v, nil
	}
	return revive(o.reviver, "", v), nil
}

// revive walks v depth first so that children are revived before parents.
func revive(fn ReviverFunc, key string, v Value) Value {
	switch x := v.(type) {
	case Array:
		for i, elem := range x {
			x[i] = revive(fn, strconv.Itoa(i), elem)
		}
	case Object:
		for _, k := range x.Keys() {
			revived := revive(fn, k, x[k])
			if revived == nil {
				delete(x, k)
				continue
			}
			x[k] = revived
		}
	}
	return fn(key, v)
}

// Encode writes v as JSON text.
//
// Object keys are written in sorted order unless an allow list fixes the
// order. Absent object members are omitted and absent array elements are
// written as null; an absent root is ErrAbsent. Non-finite numbers are
// written as null.
func Encode(v Value, opts ...EncodeOption) (string, error) {
	o := &encodeOptions{}
	for _, opt := range opts {
		opt(o)
	}

	e := newEncodeState(o)
	if err := e.marshalRoot(v); err != nil {
		return "", err
	}
	if o.indent == "" {
		return e.String(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, e.Bytes(), "", o.indent); err != nil {
		return "", err
	}
	return out.String(), nil
}

// From converts an arbitrary Go value into a Value. T is classified first, so
// functions, opaque structs and other non-JSON types are rejected before the
// value is encoded. When T is an interface the dynamic type is classified.
func From[T any](v T) (Value, error) {
	rv := reflect.ValueOf(&v).Elem()
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, &ShapeError{Type: rv.Type(), Reason: ErrAbsent}
		}
		rv = rv.Elem()
	}
	t := rv.Type()
	if _, err := Classify(t); err != nil {
		return nil, err
	}
	if isVariant(t) {
		return rv.Interface().(Value), nil
	}

	// Marshal through a pointer so pointer-receiver marshalers run.
	if !rv.CanAddr() {
		p := reflect.New(t)
		p.Elem().Set(rv)
		rv = p.Elem()
	}
	b, err := json.Marshal(rv.Addr().Interface())
	if err != nil {
		return nil, err
	}
	return Decode(string(b))
}
