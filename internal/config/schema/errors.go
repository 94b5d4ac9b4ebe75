package schema

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a validation failure.
type ErrorKind int

const (
	// NotATable means the configuration root is not a table.
	NotATable ErrorKind = iota + 1

	// UnknownOption means a key is absent from the schema.
	UnknownOption

	// TypeMismatch means a value's kind is not accepted by its descriptor.
	TypeMismatch
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case NotATable:
		return "not a table"
	case UnknownOption:
		return "unknown option"
	case TypeMismatch:
		return "type mismatch"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinel errors matched by ValidationError.Is.
var (
	ErrNotATable     = errors.New("configuration is not a table")
	ErrUnknownOption = errors.New("unknown option")
	ErrTypeMismatch  = errors.New("type mismatch")
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Path is the dot-separated option path ("font.size"). Empty for
	// NotATable.
	Path string

	// Expected describes the accepted kinds.
	Expected string

	// Got is the kind that was found.
	Got string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch e.Kind {
	case NotATable:
		return fmt.Sprintf("options must be a table, got %s", e.Got)
	case UnknownOption:
		return fmt.Sprintf("unknown option %q", e.Path)
	case TypeMismatch:
		return fmt.Sprintf("option %q: expected %s, got %s", e.Path, e.Expected, e.Got)
	default:
		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
}

// Is matches the package sentinels.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrNotATable:
		return e.Kind == NotATable
	case ErrUnknownOption:
		return e.Kind == UnknownOption
	case ErrTypeMismatch:
		return e.Kind == TypeMismatch
	}
	return false
}

// NewNotATableError creates the error for a non-table root.
func NewNotATableError(got string) *ValidationError {
	return &ValidationError{Kind: NotATable, Expected: "table", Got: got}
}

// NewUnknownOptionError creates the error for a key missing from the schema.
func NewUnknownOptionError(path string) *ValidationError {
	return &ValidationError{Kind: UnknownOption, Path: path}
}

// NewTypeError creates a validation error for type mismatch.
func NewTypeError(path, expected, got string) *ValidationError {
	return &ValidationError{Kind: TypeMismatch, Path: path, Expected: expected, Got: got}
}
