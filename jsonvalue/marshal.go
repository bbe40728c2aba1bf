package jsonvalue

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
)

// encodeState writes a Value tree. Escaping and number formatting are left to
// encoding/json and strconv; this only walks the tree.
type encodeState struct {
	bytes.Buffer
	replacer ReplacerFunc
	allow    []string
	scratch  bytes.Buffer
	str      *json.Encoder
}

func newEncodeState(o *encodeOptions) *encodeState {
	e := &encodeState{}
	if o != nil {
		e.replacer = o.replacer
		e.allow = o.allow
	}
	e.str = json.NewEncoder(&e.scratch)
	e.str.SetEscapeHTML(false)
	return e
}

// marshalRoot applies the replacer to the root and writes it. A root that is
// (or becomes) absent is an error, there is no text for it.
func (e *encodeState) marshalRoot(v Value) error {
	if e.replacer != nil {
		v = e.replacer("", v)
	}
	if v == nil {
		return ErrAbsent
	}
	return e.value(v)
}

func (e *encodeState) value(v Value) error {
	switch x := v.(type) {
	case nil, Null:
		e.WriteString("null")
	case Bool:
		e.WriteString(strconv.FormatBool(bool(x)))
	case Number:
		return e.number(x)
	case String:
		return e.string(string(x))
	case Array:
		return e.array(x)
	case Object:
		return e.object(x)
	default:
		return &ShapeError{Type: reflect.TypeOf(v), Reason: ErrOpaque, Detail: "embeds a Value variant"}
	}
	return nil
}

func (e *encodeState) number(n Number) error {
	if !isFinite(n) {
		e.WriteString("null")
		return nil
	}
	if n == 0 {
		e.WriteByte('0')
		return nil
	}
	b, err := json.Marshal(float64(n))
	if err != nil {
		return err
	}
	e.Write(b)
	return nil
}

func (e *encodeState) string(s string) error {
	e.scratch.Reset()
	if err := e.str.Encode(s); err != nil {
		return err
	}
	e.Write(bytes.TrimSuffix(e.scratch.Bytes(), []byte{'\n'}))
	return nil
}

func (e *encodeState) array(a Array) error {
	e.WriteByte('[')
	for i, elem := range a {
		if i > 0 {
			e.WriteByte(',')
		}
		if e.replacer != nil {
			elem = e.replacer(strconv.Itoa(i), elem)
		}
		// Absent elements keep their slot.
		if err := e.value(elem); err != nil {
			return err
		}
	}
	e.WriteByte(']')
	return nil
}

func (e *encodeState) object(o Object) error {
	keys := e.allow
	if keys == nil {
		keys = o.Keys()
	}
	e.WriteByte('{')
	first := true
	for _, k := range keys {
		elem, ok := o[k]
		if !ok {
			continue
		}
		if e.replacer != nil {
			elem = e.replacer(k, elem)
		}
		// Absent members are omitted.
		if elem == nil {
			continue
		}
		if !first {
			e.WriteByte(',')
		}
		first = false
		if err := e.string(k); err != nil {
			return err
		}
		e.WriteByte(':')
		if err := e.value(elem); err != nil {
			return err
		}
	}
	e.WriteByte('}')
	return nil
}

func marshalValue(v Value) ([]byte, error) {
	e := newEncodeState(nil)
	if err := e.value(v); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// MarshalJSON implements json.Marshaler
func (n Null) MarshalJSON() ([]byte, error) { return marshalValue(n) }

// MarshalJSON implements json.Marshaler
func (b Bool) MarshalJSON() ([]byte, error) { return marshalValue(b) }

// MarshalJSON implements json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) { return marshalValue(n) }

// MarshalJSON implements json.Marshaler
func (s String) MarshalJSON() ([]byte, error) { return marshalValue(s) }

// MarshalJSON implements json.Marshaler
func (a Array) MarshalJSON() ([]byte, error) { return marshalValue(a) }

// MarshalJSON implements json.Marshaler
func (o Object) MarshalJSON() ([]byte, error) { return marshalValue(o) }

// UnmarshalJSON implements json.Unmarshaler. The text must hold an array.
func (a *Array) UnmarshalJSON(data []byte) error {
	v, err := Decode(string(data))
	if err != nil {
		return err
	}
	if _, isNull := v.(Null); isNull {
		return nil
	}
	arr, ok := v.(Array)
	if !ok {
		return &json.UnmarshalTypeError{Value: string(v.Kind()), Type: typeOfArray}
	}
	*a = arr
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. The text must hold an object.
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := Decode(string(data))
	if err != nil {
		return err
	}
	if _, isNull := v.(Null); isNull {
		return nil
	}
	obj, ok := v.(Object)
	if !ok {
		return &json.UnmarshalTypeError{Value: string(v.Kind()), Type: typeOfObject}
	}
	*o = obj
	return nil
}
