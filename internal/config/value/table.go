package value

import (
	"iter"
	"strings"
)

// Table is an insertion-ordered map from option names to values.
//
// Tables are built by loaders and then treated as read-only once they have
// been validated. Table is not safe for concurrent mutation.
type Table struct {
	keys []string
	vals map[string]Value
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{vals: make(map[string]Value)}
}

// TableOf builds a table from alternating key/value pairs.
// It panics on an odd argument count or a non-string key.
func TableOf(pairs ...any) *Table {
	if len(pairs)%2 != 0 {
		panic("value.TableOf: odd number of arguments")
	}
	t := NewTable()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic("value.TableOf: key must be a string")
		}
		t.Set(key, Of(pairs[i+1]))
	}
	return t
}

// Of converts common Go values into a Value.
// Unsupported types become Nil.
func Of(v any) Value {
	switch val := v.(type) {
	case nil:
		return Nil()
	case Value:
		return val
	case string:
		return String(val)
	case bool:
		return Bool(val)
	case int:
		return Int(val)
	case int64:
		return Number(float64(val))
	case float64:
		return Number(val)
	case []string:
		return Strings(val...)
	case []Value:
		return List(val...)
	case *Table:
		return FromTable(val)
	case Provider:
		return Func(val)
	default:
		return Nil()
	}
}

// Set stores v under key. Replacing an existing key keeps its position.
func (t *Table) Set(key string, v Value) {
	if _, exists := t.vals[key]; !exists {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = v
}

// Get returns the value stored under key.
func (t *Table) Get(key string) (Value, bool) {
	if t == nil {
		return Value{}, false
	}
	v, ok := t.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Delete removes key from the table.
func (t *Table) Delete(key string) {
	if _, ok := t.vals[key]; !ok {
		return
	}
	delete(t.vals, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// All iterates the entries in insertion order.
func (t *Table) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if t == nil {
			return
		}
		for _, k := range t.keys {
			if !yield(k, t.vals[k]) {
				return
			}
		}
	}
}

// Lookup resolves a dot-separated path such as "font.size".
func (t *Table) Lookup(path string) (Value, bool) {
	parts := strings.Split(path, ".")
	cur := t
	for i, part := range parts {
		v, ok := cur.Get(part)
		if !ok {
			return Value{}, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.AsTable()
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return Value{}, false
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable()
	if t == nil {
		return out
	}
	for _, k := range t.keys {
		out.Set(k, t.vals[k].Clone())
	}
	return out
}

// Merge returns a new table holding base overlaid with over.
// Values from over win on collision; when both sides hold tables they are
// merged recursively. Keys keep the position they first appeared at,
// base first.
func Merge(base, over *Table) *Table {
	out := base.Clone()
	for k, ov := range over.All() {
		if bv, ok := out.Get(k); ok {
			bt, bIsTable := bv.AsTable()
			ot, oIsTable := ov.AsTable()
			if bIsTable && oIsTable {
				out.Set(k, FromTable(Merge(bt, ot)))
				continue
			}
		}
		out.Set(k, ov.Clone())
	}
	return out
}
