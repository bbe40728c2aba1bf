package jsonvalue

import (
	"errors"
	"fmt"
	"reflect"
)

// Reasons a type or value falls outside the JSON model.
var (
	ErrAbsent        = errors.New("value is absent")
	ErrCallable      = errors.New("callable members are not JSON values")
	ErrOpaque        = errors.New("type carries hidden state")
	ErrKeyType       = errors.New("object keys must be strings or non-negative integers")
	ErrUnconstrained = errors.New("interface type is not constrained to JSON values")
	ErrUnsupported   = errors.New("type has no JSON representation")
	ErrNonFinite     = errors.New("number is not finite")
	ErrRefinement    = errors.New("type does not satisfy the requested refinement")
)

// ShapeError reports why a Go type (or native value) is not a JSON value.
type ShapeError struct {
	Type   reflect.Type
	Path   string
	Reason error
	Detail string
}

// Error implements error interface
func (e *ShapeError) Error() string {
	msg := e.Reason.Error()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	if e.Type != nil {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Path != "" {
		return fmt.Sprintf("jsonvalue: at %s: %s", e.Path, msg)
	}
	return "jsonvalue: " + msg
}

// Unwrap returns the reason sentinel
func (e *ShapeError) Unwrap() error {
	return e.Reason
}

// ValidationError reports the first invalid position found by Validate.
type ValidationError struct {
	// Pointer is an RFC 6901 JSON pointer to the offending position.
	Pointer string
	Reason  error
}

// Error implements error interface
func (e *ValidationError) Error() string {
	ptr := e.Pointer
	if ptr == "" {
		ptr = "/"
	}
	return fmt.Sprintf("jsonvalue: invalid value at %s: %v", ptr, e.Reason)
}

// Unwrap returns the reason sentinel
func (e *ValidationError) Unwrap() error {
	return e.Reason
}
