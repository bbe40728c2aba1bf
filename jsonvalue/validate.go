package jsonvalue

import (
	"strconv"
	"strings"
)

// Validate checks that v holds no absent entries and no non-finite numbers
// anywhere. Decode never calls it; it is the explicit check for values that
// crossed an unchecked boundary such as a reviver.
func Validate(v Value) error {
	return validate(v, "")
}

func validate(v Value, pointer string) error {
	switch x := v.(type) {
	case nil:
		return &ValidationError{Pointer: pointer, Reason: ErrAbsent}
	case Null, Bool, String:
	case Number:
		if !isFinite(x) {
			return &ValidationError{Pointer: pointer, Reason: ErrNonFinite}
		}
	case Array:
		for i, elem := range x {
			if err := validate(elem, pointer+"/"+strconv.Itoa(i)); err != nil {
				return err
			}
		}
	case Object:
		for _, k := range x.Keys() {
			if err := validate(x[k], pointer+"/"+escapePointer(k)); err != nil {
				return err
			}
		}
	default:
		return &ValidationError{Pointer: pointer, Reason: ErrOpaque}
	}
	return nil
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(key string) string {
	return pointerEscaper.Replace(key)
}
