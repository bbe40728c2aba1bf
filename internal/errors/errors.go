package errors

import (
	"errors"
	"fmt"

	"github.com/mcncl/jsontyped/jsonvalue"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput      ErrorType = "input"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeTransform  ErrorType = "transform"
	ErrorTypeEncode     ErrorType = "encode"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeOutput     ErrorType = "output"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newAppError(errType ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return newAppError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return newAppError(ErrorTypeParsing, message, err)
}

// NewValidationError creates a new error for values outside the JSON model
func NewValidationError(message string, err error) *AppError {
	return newAppError(ErrorTypeValidation, message, err)
}

// NewTransformError creates a new error related to key rewriting
func NewTransformError(message string, err error) *AppError {
	return newAppError(ErrorTypeTransform, message, err)
}

// NewEncodeError creates a new error related to writing JSON text
func NewEncodeError(message string, err error) *AppError {
	return newAppError(ErrorTypeEncode, message, err)
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return newAppError(ErrorTypeConfig, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newAppError(ErrorTypeOutput, message, err)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeValidation:
			return withCause("Validation error", appErr)
		case ErrorTypeTransform:
			return withCause("Transform error", appErr)
		case ErrorTypeEncode:
			return fmt.Sprintf("Encoding error: %s", appErr.Message)
		case ErrorTypeConfig:
			return withCause("Configuration error", appErr)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON value."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, jsonvalue.ErrAbsent) {
		return "Error: The value contains an absent entry. Absent entries have no JSON form."
	}
	if errors.Is(err, jsonvalue.ErrNonFinite) {
		return "Error: The value contains a non-finite number. JSON numbers must be finite."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}

// withCause renders errors whose cause is worth showing to the user, such as
// the pointer of an invalid value or the offending config setting.
func withCause(prefix string, appErr *AppError) string {
	if appErr.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, appErr.Message, appErr.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, appErr.Message)
}
