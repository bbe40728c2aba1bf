// Package jsonvalue provides a closed set of Go types for JSON-compatible data
// and a thin decode/encode façade over encoding/json restricted to those types.
package jsonvalue

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind names the variant a Value holds.
type Kind string

const (
	NullKind   = Kind("null")
	BoolKind   = Kind("bool")
	NumberKind = Kind("number")
	StringKind = Kind("string")
	ArrayKind  = Kind("array")
	ObjectKind = Kind("object")
)

// Value is any data legal under the JSON model. The set of implementations is
// closed: only Null, Bool, Number, String, Array and Object are values.
//
// A struct that embeds one of those types also satisfies the interface, since
// the marker method is promoted. Such types are not values: Classify and From
// reject them with ErrOpaque, Validate reports them and Encode fails on them.
//
// The nil interface is the absent marker. It is not a Value; see Validate.
type Value interface {
	Kind() Kind
	jsonValue()
}

// Primitive is the subset of Value that is neither an Array nor an Object.
type Primitive interface {
	Value
	primitive()
}

// Null is the JSON null marker.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number. Like the host codec it is a float64, so integers
// beyond 2^53 lose precision.
type Number float64

// String is a JSON string.
type String string

// Array is an ordered sequence of Values.
type Array []Value

// Object is a keyed collection of Values. Integer keys are stored in their
// decimal form, see IndexKey.
type Object map[string]Value

func (Null) Kind() Kind   { return NullKind }
func (Bool) Kind() Kind   { return BoolKind }
func (Number) Kind() Kind { return NumberKind }
func (String) Kind() Kind { return StringKind }
func (Array) Kind() Kind  { return ArrayKind }
func (Object) Kind() Kind { return ObjectKind }

func (Null) jsonValue()   {}
func (Bool) jsonValue()   {}
func (Number) jsonValue() {}
func (String) jsonValue() {}
func (Array) jsonValue()  {}
func (Object) jsonValue() {}

func (Null) primitive()   {}
func (Bool) primitive()   {}
func (Number) primitive() {}
func (String) primitive() {}

var (
	True  = Bool(true)
	False = Bool(false)
)

// NewArray returns an Array holding vals in order.
func NewArray(vals ...Value) Array {
	a := make(Array, 0, len(vals))
	return append(a, vals...)
}

// NewObject returns an empty Object.
func NewObject() Object {
	return Object{}
}

// IndexKey converts a non-negative integer key to the textual key it occupies
// in an Object.
func IndexKey(n uint64) string {
	return strconv.FormatUint(n, 10)
}

// Keys returns the object's keys in sorted order, the order Encode writes them.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Of converts a tree of native Go values, as produced by decoding into an any,
// into a Value. Values already in the model are returned as they are.
func Of(native any) (Value, error) {
	return of(native, "")
}

func of(native any, path string) (Value, error) {
	switch v := native.(type) {
	case nil:
		return Null{}, nil
	case Null, Bool, Number, String, Array, Object:
		return native.(Value), nil
	case Value:
		return nil, &ShapeError{Path: path, Reason: ErrOpaque, Detail: fmt.Sprintf("%T embeds a Value variant", v)}
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case float64:
		return Number(v), nil
	case float32:
		return Number(v), nil
	case int:
		return Number(v), nil
	case int8:
		return Number(v), nil
	case int16:
		return Number(v), nil
	case int32:
		return Number(v), nil
	case int64:
		return Number(v), nil
	case uint:
		return Number(v), nil
	case uint8:
		return Number(v), nil
	case uint16:
		return Number(v), nil
	case uint32:
		return Number(v), nil
	case uint64:
		return Number(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, &ShapeError{Path: path, Reason: ErrUnsupported, Detail: fmt.Sprintf("number %q: %v", string(v), err)}
		}
		return Number(f), nil
	case []any:
		arr := make(Array, len(v))
		for i, elem := range v {
			conv, err := of(elem, joinPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			arr[i] = conv
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(v))
		for key, elem := range v {
			conv, err := of(elem, joinPath(path, key))
			if err != nil {
				return nil, err
			}
			obj[key] = conv
		}
		return obj, nil
	default:
		return nil, &ShapeError{Path: path, Reason: ErrUnsupported, Detail: fmt.Sprintf("native type %T", native)}
	}
}

// Native converts a Value back into the plain Go representation encoding/json
// produces when decoding into an any. Absent entries map to nil.
func Native(v Value) any {
	switch x := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(x)
	case Number:
		return float64(x)
	case String:
		return string(x)
	case Array:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = Native(elem)
		}
		return out
	case Object:
		out := make(map[string]any, len(x))
		for k, elem := range x {
			if elem == nil {
				continue
			}
			out[k] = Native(elem)
		}
		return out
	}
	return nil
}

func isFinite(n Number) bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
