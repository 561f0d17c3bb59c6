package diagram

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrParse indicates malformed JSON or text on import.
	ErrParse = errors.New("parse error")

	// ErrValidation indicates a field that fails the shape rules of an operation.
	ErrValidation = errors.New("validation error")

	// ErrUnknownEntityType indicates a type tag outside the six entity variants.
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrNotFound indicates a lookup by id that matched nothing.
	ErrNotFound = errors.New("not found")
)

// ParseError reports input that could not be decoded. The model is never
// modified when a ParseError is returned.
type ParseError struct {
	Format string // "json", "structurizr", ...
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	prefix := ErrParse.Error()
	if e.Format != "" {
		prefix = e.Format + " " + prefix
	}
	if e.Msg == "" {
		return prefix
	}
	return fmt.Sprintf("%s: %s", prefix, e.Msg)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}

// ValidationError reports a rejected field value.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Msg)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// UnknownEntityTypeError is returned when an operation receives a type tag
// it does not know. It signals a caller bug rather than bad user data.
type UnknownEntityTypeError struct {
	Type string
}

func (e *UnknownEntityTypeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownEntityType.Error(), quote(e.Type))
}

func (e *UnknownEntityTypeError) Unwrap() error { return ErrUnknownEntityType }

func quote(s string) string { return strconv.Quote(s) }
