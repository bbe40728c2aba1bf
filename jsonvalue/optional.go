package jsonvalue

import "encoding/json"

// Optional marks a struct member that may be absent. It is only admitted as a
// field tagged omitzero, so that an unset Optional drops the key instead of
// producing a value:
//
//	type Profile struct {
//		Nickname jsonvalue.Optional[string] `json:"nickname,omitzero"`
//	}
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an unset Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the held value and whether it is set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsZero reports whether o is unset. encoding/json consults it for omitzero.
func (o Optional[T]) IsZero() bool {
	return !o.set
}

// MarshalJSON implements json.Marshaler. An unset Optional has no encoding.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return nil, ErrAbsent
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value, o.set = v, true
	return nil
}

// optionalMarker lets the classifier recognise any instantiation of Optional.
type optionalMarker interface {
	optional()
}

func (Optional[T]) optional() {}
