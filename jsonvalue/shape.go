package jsonvalue

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Shape is the set of JSON variants a Go type can take when encoded.
type Shape uint8

const (
	ShapePrimitive Shape = 1 << iota
	ShapeSequence
	ShapeMapping

	// ShapeAny is the full Value union.
	ShapeAny = ShapePrimitive | ShapeSequence | ShapeMapping
)

func (s Shape) String() string {
	if s == ShapeAny {
		return "value"
	}
	var parts []string
	if s&ShapePrimitive != 0 {
		parts = append(parts, "primitive")
	}
	if s&ShapeSequence != 0 {
		parts = append(parts, "sequence")
	}
	if s&ShapeMapping != 0 {
		parts = append(parts, "mapping")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

var (
	typeOfValue         = reflect.TypeFor[Value]()
	typeOfPrimitive     = reflect.TypeFor[Primitive]()
	typeOfNull          = reflect.TypeFor[Null]()
	typeOfBool          = reflect.TypeFor[Bool]()
	typeOfNumber        = reflect.TypeFor[Number]()
	typeOfString        = reflect.TypeFor[String]()
	typeOfArray         = reflect.TypeFor[Array]()
	typeOfObject        = reflect.TypeFor[Object]()
	typeOfOptional      = reflect.TypeFor[optionalMarker]()
	typeOfMarshaler     = reflect.TypeFor[json.Marshaler]()
	typeOfTextMarshaler = reflect.TypeFor[encoding.TextMarshaler]()
)

type shapeResult struct {
	shape Shape
	err   error
}

// shapeCache maps reflect.Type to shapeResult.
var shapeCache sync.Map

// Classify reports the variants values of type t can take, or a *ShapeError
// explaining why t is not a JSON value. Only the type is inspected.
//
// Go types map onto the model as follows: booleans, strings and numeric kinds
// are primitives; pointers add null; arrays are sequences and structs are
// mappings. Slices and maps keyed by strings or unsigned integers are
// sequences and mappings that may also be null, since encoding/json writes
// a nil slice or map as null; use Array, Object or a fixed-length array for
// a strict sequence or mapping. Functions, channels, complex numbers,
// unconstrained interfaces, structs with unexported state, types embedding
// a Value variant and Optional outside an omitzero field are rejected. Types
// that implement json.Marshaler compute their encoding on read and may be
// any variant.
func Classify(t reflect.Type) (Shape, error) {
	if t == nil {
		return 0, &ShapeError{Reason: ErrAbsent}
	}
	if cached, ok := shapeCache.Load(t); ok {
		r := cached.(shapeResult)
		return r.shape, r.err
	}
	c := &classifier{seen: make(map[reflect.Type]Shape)}
	s, err := c.classify(t, "")
	shapeCache.Store(t, shapeResult{shape: s, err: err})
	return s, err
}

// Require classifies T and checks that every variant it can take is in want.
func Require[T any](want Shape) error {
	t := reflect.TypeFor[T]()
	s, err := Classify(t)
	if err != nil {
		return err
	}
	if s&^want != 0 {
		return &ShapeError{Type: t, Reason: ErrRefinement, Detail: fmt.Sprintf("%s is not %s", s, want)}
	}
	return nil
}

// IsValue reports whether T is representable as a JSON value.
func IsValue[T any]() bool {
	return Require[T](ShapeAny) == nil
}

// IsPrimitive reports whether T always encodes as a primitive.
func IsPrimitive[T any]() bool {
	return Require[T](ShapePrimitive) == nil
}

// IsSequence reports whether T always encodes as an array.
func IsSequence[T any]() bool {
	return Require[T](ShapeSequence) == nil
}

// IsMapping reports whether T always encodes as an object.
func IsMapping[T any]() bool {
	return Require[T](ShapeMapping) == nil
}

type classifier struct {
	// seen holds composite types currently being classified so recursive
	// types terminate.
	seen map[reflect.Type]Shape
}

func (c *classifier) fail(t reflect.Type, path string, reason error, detail string) error {
	return &ShapeError{Type: t, Path: path, Reason: reason, Detail: detail}
}

func (c *classifier) classify(t reflect.Type, path string) (Shape, error) {
	if s, ok := c.seen[t]; ok {
		return s, nil
	}

	switch {
	case t.Implements(typeOfOptional):
		return 0, c.fail(t, path, ErrAbsent, "Optional is only allowed as an omitzero struct field")
	case t == typeOfValue:
		return ShapeAny, nil
	case t == typeOfPrimitive:
		return ShapePrimitive, nil
	}

	if t.Kind() == reflect.Pointer {
		c.seen[t] = ShapePrimitive
		s, err := c.classify(t.Elem(), path)
		delete(c.seen, t)
		if err != nil {
			return 0, err
		}
		return s | ShapePrimitive, nil
	}

	if t.Kind() != reflect.Interface {
		switch {
		case t.Implements(typeOfValue):
			switch t {
			case typeOfNull, typeOfBool, typeOfNumber, typeOfString:
				return ShapePrimitive, nil
			case typeOfArray:
				return ShapeSequence, nil
			case typeOfObject:
				return ShapeMapping, nil
			}
			// The marker method was promoted from an embedded variant.
			return 0, c.fail(t, path, ErrOpaque, "embeds a Value variant")
		case implements(t, typeOfMarshaler):
			return ShapeAny, nil
		case implements(t, typeOfTextMarshaler):
			return ShapePrimitive, nil
		}
	}

	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return ShapePrimitive, nil
	case reflect.Func:
		return 0, c.fail(t, path, ErrCallable, "")
	case reflect.Interface:
		return 0, c.fail(t, path, ErrUnconstrained, "")
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && !implements(t.Elem(), typeOfMarshaler) && !implements(t.Elem(), typeOfTextMarshaler) {
			// Byte slices are written as base64 text.
			return ShapePrimitive, nil
		}
		// A nil slice is written as null.
		return nullable(c.sequence(t, path))
	case reflect.Array:
		return c.sequence(t, path)
	case reflect.Map:
		return nullable(c.mapping(t, path))
	case reflect.Struct:
		return c.structure(t, path)
	}
	return 0, c.fail(t, path, ErrUnsupported, t.Kind().String())
}

func (c *classifier) sequence(t reflect.Type, path string) (Shape, error) {
	c.seen[t] = ShapeSequence
	defer delete(c.seen, t)
	if _, err := c.classify(t.Elem(), path+"[]"); err != nil {
		return 0, err
	}
	return ShapeSequence, nil
}

func (c *classifier) mapping(t reflect.Type, path string) (Shape, error) {
	key := t.Key()
	switch {
	case key.Kind() == reflect.String:
	case implements(key, typeOfTextMarshaler):
	default:
		switch key.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		default:
			return 0, c.fail(t, path, ErrKeyType, "key type "+key.String())
		}
	}

	c.seen[t] = ShapeMapping
	defer delete(c.seen, t)
	if _, err := c.classify(t.Elem(), path+"{}"); err != nil {
		return 0, err
	}
	return ShapeMapping, nil
}

func (c *classifier) structure(t reflect.Type, path string) (Shape, error) {
	c.seen[t] = ShapeMapping
	defer delete(c.seen, t)
	if err := c.fields(t, path); err != nil {
		return 0, err
	}
	return ShapeMapping, nil
}

// fields checks the members encoding/json would write for struct t. Embedded
// structs without a tag name are promoted into the parent.
func (c *classifier) fields(t reflect.Type, path string) error {
	if name, ok := hiddenField(t); ok {
		return c.fail(t, path, ErrOpaque, "unexported field "+name)
	}

	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && !implements(ft, typeOfMarshaler) {
				if _, cycle := c.seen[ft]; cycle {
					continue
				}
				c.seen[ft] = ShapeMapping
				err := c.fields(ft, path)
				delete(c.seen, ft)
				if err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fpath := joinPath(path, name)

		if f.Type.Kind() != reflect.Pointer && f.Type.Implements(typeOfOptional) {
			if !hasOption(opts, "omitzero") {
				return c.fail(f.Type, fpath, ErrAbsent, "required member may be absent, tag it omitzero")
			}
			if _, err := c.classify(f.Type.Field(0).Type, fpath); err != nil {
				return err
			}
			continue
		}
		if _, err := c.classify(f.Type, fpath); err != nil {
			return err
		}
	}
	return nil
}

// hiddenField returns the first member encoding/json would silently drop,
// which makes the struct's encoding lose state.
func hiddenField(t reflect.Type) (string, bool) {
	for i := range t.NumField() {
		f := t.Field(i)
		if f.IsExported() {
			continue
		}
		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				continue
			}
		}
		return f.Name, true
	}
	return "", false
}

// isVariant reports whether t is one of the six Value types.
func isVariant(t reflect.Type) bool {
	switch t {
	case typeOfNull, typeOfBool, typeOfNumber, typeOfString, typeOfArray, typeOfObject:
		return true
	}
	return false
}

func nullable(s Shape, err error) (Shape, error) {
	if err != nil {
		return 0, err
	}
	return s | ShapePrimitive, nil
}

func implements(t, iface reflect.Type) bool {
	return t.Implements(iface) || (t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(iface))
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}
