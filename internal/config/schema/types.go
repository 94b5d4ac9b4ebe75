package schema

import (
	"strings"

	"github.com/dshills/shutter/internal/config/value"
)

// Type is a set of accepted value kinds.
type Type uint8

// Scalar kinds an option may accept. Combine them with | for unions.
const (
	TypeString Type = 1 << iota
	TypeBoolean
	TypeNumber
	TypeList
	TypeFunction
)

var typeNames = []struct {
	t    Type
	name string
}{
	{TypeString, "string"},
	{TypeBoolean, "boolean"},
	{TypeNumber, "number"},
	{TypeList, "list"},
	{TypeFunction, "function"},
}

// Has reports whether t accepts every kind in other.
func (t Type) Has(other Type) bool {
	return other != 0 && t&other == other
}

// String returns the union in declaration order, e.g. "string|function".
func (t Type) String() string {
	var names []string
	for _, tn := range typeNames {
		if t&tn.t != 0 {
			names = append(names, tn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// typeOf maps a value kind onto the schema type set. Tables and nil have
// no scalar type and never match a leaf descriptor.
func typeOf(v value.Value) Type {
	switch v.Kind() {
	case value.KindString:
		return TypeString
	case value.KindBool:
		return TypeBoolean
	case value.KindNumber:
		return TypeNumber
	case value.KindList:
		return TypeList
	case value.KindFunc:
		return TypeFunction
	default:
		return 0
	}
}

// Convenience constructors for common option shapes.

// String creates a string option.
func String(name string) *Option {
	return &Option{Name: name, Type: TypeString}
}

// Boolean creates a boolean option.
func Boolean(name string) *Option {
	return &Option{Name: name, Type: TypeBoolean}
}

// Number creates a number option.
func Number(name string) *Option {
	return &Option{Name: name, Type: TypeNumber}
}

// Union creates an option accepting any of the given kinds.
func Union(name string, t Type) *Option {
	return &Option{Name: name, Type: t}
}

// Record creates a nested option whose value must be a table of fields.
func Record(name string, fields ...*Option) *Option {
	return &Option{Name: name, Fields: fields}
}
