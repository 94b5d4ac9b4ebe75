// Package value provides the ordered configuration tree shared by the
// loaders, the schema validator and the argument compiler.
//
// A Value is a tagged union over the shapes a configuration leaf can take:
// string, boolean, number, list, nested table, or a deferred Provider that
// computes its value at compile time. Tables preserve insertion order so
// that every traversal of the same configuration yields the same flags.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the shape held by a Value.
type Kind uint8

const (
	// KindNil is the zero Value.
	KindNil Kind = iota
	// KindString holds a string.
	KindString
	// KindBool holds a boolean.
	KindBool
	// KindNumber holds a float64.
	KindNumber
	// KindList holds an ordered sequence of values.
	KindList
	// KindTable holds a nested ordered table.
	KindTable
	// KindFunc holds a deferred Provider.
	KindFunc
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	case KindTable:
		return "table"
	case KindFunc:
		return "function"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Value is an immutable configuration value.
type Value struct {
	kind  Kind
	str   string
	num   float64
	b     bool
	list  []Value
	table *Table
	fn    Provider
}

// Nil returns the zero Value.
func Nil() Value { return Value{} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a number.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Int wraps an integer as a number.
func Int(n int) Value { return Number(float64(n)) }

// List wraps a sequence of values.
func List(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

// Strings builds a list of string values.
func Strings(items ...string) Value {
	vals := make([]Value, len(items))
	for i, s := range items {
		vals[i] = String(s)
	}
	return Value{kind: KindList, list: vals}
}

// FromTable wraps a table. A nil table yields an empty one.
func FromTable(t *Table) Value {
	if t == nil {
		t = NewTable()
	}
	return Value{kind: KindTable, table: t}
}

// Func wraps a deferred value.
func Func(p Provider) Value {
	if p == nil {
		return Value{}
	}
	return Value{kind: KindFunc, fn: p}
}

// Kind returns the shape of v.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v holds nothing.
func (v Value) IsNil() bool { return v.kind == KindNil }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number held by v.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsList returns a copy of the list held by v.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	cp := make([]Value, len(v.list))
	copy(cp, v.list)
	return cp, true
}

// Len returns the number of list items or table entries.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindTable:
		return v.table.Len()
	default:
		return 0
	}
}

// AsTable returns the table held by v.
func (v Value) AsTable() (*Table, bool) { return v.table, v.kind == KindTable }

// AsProvider returns the provider held by v.
func (v Value) AsProvider() (Provider, bool) { return v.fn, v.kind == KindFunc }

// Text renders a scalar as a command-line argument. Numbers use the
// shortest representation ("20", "1.5"), lists are joined with commas.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return FormatNumber(v.num)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.Text()
		}
		return strings.Join(parts, ",")
	case KindTable:
		return "<table>"
	case KindFunc:
		return "<function>"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.kind == KindString {
		return strconv.Quote(v.str)
	}
	return v.Text()
}

// FormatNumber formats n without trailing zeros.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Clone returns a deep copy of v. Providers are shared.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = item.Clone()
		}
		return Value{kind: KindList, list: items}
	case KindTable:
		return Value{kind: KindTable, table: v.table.Clone()}
	default:
		return v
	}
}

// Equal reports whether a and b hold the same data. Tables compare in
// order; functions are equal only when they share a provider.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindString:
		return a.str == b.str
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num == b.num
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case KindTable:
		if a.table.Len() != b.table.Len() {
			return false
		}
		bk := b.table.Keys()
		i := 0
		for k, av := range a.table.All() {
			if bk[i] != k {
				return false
			}
			bv, _ := b.table.Get(k)
			if !Equal(av, bv) {
				return false
			}
			i++
		}
		return true
	case KindFunc:
		return sameProvider(a.fn, b.fn)
	default:
		return false
	}
}

func sameProvider(a, b Provider) bool {
	defer func() { _ = recover() }()
	return a == b
}
