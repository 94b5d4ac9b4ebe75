package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/shutter/internal/config/value"
)

// Bridge converts between Lua values and configuration values.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a new Bridge for the given Lua state.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// ToValue converts a Lua value into a configuration value.
//
// Tables whose entries are exactly 1..n become lists; any other table
// becomes an ordered table and must only use string keys. Functions become
// providers bound to this bridge's state.
func (b *Bridge) ToValue(lv lua.LValue) (value.Value, error) {
	return b.toValue(lv, make(map[*lua.LTable]bool))
}

func (b *Bridge) toValue(lv lua.LValue, visited map[*lua.LTable]bool) (value.Value, error) {
	if lv == nil {
		return value.Nil(), nil
	}

	switch v := lv.(type) {
	case *lua.LNilType:
		return value.Nil(), nil
	case lua.LBool:
		return value.Bool(bool(v)), nil
	case lua.LNumber:
		return value.Number(float64(v)), nil
	case lua.LString:
		return value.String(string(v)), nil
	case *lua.LFunction:
		return value.Func(&FuncProvider{L: b.L, Fn: v}), nil
	case *lua.LTable:
		if visited[v] {
			return value.Nil(), ErrCircularTable
		}
		visited[v] = true
		defer delete(visited, v)
		return b.tableToValue(v, visited)
	default:
		return value.Nil(), fmt.Errorf("%w: %s", ErrUnsupportedValue, lv.Type())
	}
}

func (b *Bridge) tableToValue(t *lua.LTable, visited map[*lua.LTable]bool) (value.Value, error) {
	if n := t.Len(); n > 0 && countEntries(t) == n {
		items := make([]value.Value, n)
		for i := 1; i <= n; i++ {
			v, err := b.toValue(t.RawGetInt(i), visited)
			if err != nil {
				return value.Nil(), fmt.Errorf("[%d]: %w", i, err)
			}
			items[i-1] = v
		}
		return value.List(items...), nil
	}

	out := value.NewTable()
	// Next walks the hash part in insertion order, unlike ForEach.
	for k, lv := t.Next(lua.LNil); k != lua.LNil; k, lv = t.Next(k) {
		key, ok := k.(lua.LString)
		if !ok {
			return value.Nil(), fmt.Errorf("table key %s: keys must be strings", k.String())
		}
		v, err := b.toValue(lv, visited)
		if err != nil {
			return value.Nil(), fmt.Errorf("%s: %w", string(key), err)
		}
		out.Set(string(key), v)
	}
	return value.FromTable(out), nil
}

func countEntries(t *lua.LTable) int {
	n := 0
	for k, _ := t.Next(lua.LNil); k != lua.LNil; k, _ = t.Next(k) {
		n++
	}
	return n
}

// ToLua converts a configuration value into a Lua value.
// Providers that did not originate from Lua become LNil.
func (b *Bridge) ToLua(v value.Value) lua.LValue {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		return lua.LString(s)
	case value.KindBool:
		x, _ := v.AsBool()
		return lua.LBool(x)
	case value.KindNumber:
		n, _ := v.AsNumber()
		return lua.LNumber(n)
	case value.KindList:
		items, _ := v.AsList()
		t := b.L.NewTable()
		for i, item := range items {
			t.RawSetInt(i+1, b.ToLua(item))
		}
		return t
	case value.KindTable:
		tbl, _ := v.AsTable()
		t := b.L.NewTable()
		for k, item := range tbl.All() {
			t.RawSetString(k, b.ToLua(item))
		}
		return t
	case value.KindFunc:
		p, _ := v.AsProvider()
		if fp, ok := p.(*FuncProvider); ok {
			return fp.Fn
		}
		return lua.LNil
	default:
		return lua.LNil
	}
}

// StringSlice converts a Lua array of strings into a Go slice. Non-string
// entries are converted with tostring semantics.
func (b *Bridge) StringSlice(lv lua.LValue) []string {
	t, ok := lv.(*lua.LTable)
	if !ok {
		return nil
	}
	out := make([]string, 0, t.Len())
	for i := 1; i <= t.Len(); i++ {
		out = append(out, lua.LVAsString(t.RawGetInt(i)))
	}
	return out
}

// FuncProvider resolves an option by calling a Lua function.
//
// The function receives one table argument describing the invocation
// ({args = {...}, line1 = n, line2 = n, range = bool, path = s,
// filetype = s}) and returns the option value.
type FuncProvider struct {
	L  *lua.LState
	Fn *lua.LFunction
}

// Resolve implements value.Provider.
func (p *FuncProvider) Resolve(ctx value.Context) (value.Value, error) {
	L := p.L
	arg := L.NewTable()
	args := L.NewTable()
	for i, a := range ctx.Args {
		args.RawSetInt(i+1, lua.LString(a))
	}
	arg.RawSetString("args", args)
	arg.RawSetString("line1", lua.LNumber(ctx.Line1))
	arg.RawSetString("line2", lua.LNumber(ctx.Line2))
	arg.RawSetString("range", lua.LBool(ctx.Range))
	arg.RawSetString("path", lua.LString(ctx.Path))
	arg.RawSetString("filetype", lua.LString(ctx.FileType))

	if err := L.CallByParam(lua.P{Fn: p.Fn, NRet: 1, Protect: true}, arg); err != nil {
		return value.Nil(), fmt.Errorf("lua option function: %w", err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	v, err := NewBridge(L).ToValue(ret)
	if err != nil {
		return value.Nil(), err
	}
	if v.Kind() == value.KindFunc || v.Kind() == value.KindTable {
		return value.Nil(), fmt.Errorf("lua option function returned a %s", v.Kind())
	}
	return v, nil
}
