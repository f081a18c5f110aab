package variant

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	ErrUnknownDiscriminant  = errors.New("unknown discriminant")
	ErrNoMatchingVariant    = errors.New("no matching variant")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrDepthExceeded        = errors.New("max depth exceeded")
)

// UnknownDiscriminantError reports a discriminant or enumeration string
// outside the declared closed set.
type UnknownDiscriminantError struct {
	Path  Path   // object holding the field
	Field string // field carrying the value
	Value string
	Known []string
}

func (e *UnknownDiscriminantError) Error() string {
	return fmt.Sprintf("unknown %s %q at %s (known: %s)",
		e.Field, e.Value, e.Path.Field(e.Field), strings.Join(e.Known, ", "))
}

func (e *UnknownDiscriminantError) Is(target error) bool { return target == ErrUnknownDiscriminant }

// NoMatchingVariantError reports that none of an untagged schema's candidates
// accepted the input. Causes holds one error per candidate, in attempt order.
type NoMatchingVariantError struct {
	Path      Path
	Type      string
	Attempted []string
	Causes    []error
}

func (e *NoMatchingVariantError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no %s variant matched at %s (tried: %s)", e.Type, e.Path, strings.Join(e.Attempted, ", "))
	for i, cause := range e.Causes {
		if i < len(e.Attempted) {
			fmt.Fprintf(&b, "; %s: %v", e.Attempted[i], cause)
		}
	}
	return b.String()
}

func (e *NoMatchingVariantError) Is(target error) bool { return target == ErrNoMatchingVariant }

// MissingRequiredFieldError reports a required field absent from an object.
type MissingRequiredFieldError struct {
	Path  Path
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field %q at %s", e.Field, e.Path)
}

func (e *MissingRequiredFieldError) Is(target error) bool { return target == ErrMissingRequiredField }

// TypeMismatchError reports a value present with the wrong JSON shape.
type TypeMismatchError struct {
	Path     Path
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch at %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// DepthExceededError reports input nested deeper than MaxDepth.
type DepthExceededError struct {
	Path  Path
	Limit int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("nesting exceeds max depth %d at %s", e.Limit, e.Path)
}

func (e *DepthExceededError) Is(target error) bool { return target == ErrDepthExceeded }

func mismatch(path Path, expected string, actual any) error {
	return &TypeMismatchError{Path: path, Expected: expected, Actual: kindOf(actual)}
}

// PathOf returns the location carried by the first decode error in err's
// chain.
func PathOf(err error) (Path, bool) {
	var (
		unknown *UnknownDiscriminantError
		nomatch *NoMatchingVariantError
		missing *MissingRequiredFieldError
		typed   *TypeMismatchError
		depth   *DepthExceededError
	)
	switch {
	case errors.As(err, &unknown):
		return unknown.Path, true
	case errors.As(err, &nomatch):
		return nomatch.Path, true
	case errors.As(err, &missing):
		return missing.Path, true
	case errors.As(err, &typed):
		return typed.Path, true
	case errors.As(err, &depth):
		return depth.Path, true
	}
	return nil, false
}
