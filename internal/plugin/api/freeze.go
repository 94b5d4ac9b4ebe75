package api

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/shutter/internal/config/value"
	plua "github.com/dshills/shutter/internal/plugin/lua"
	"github.com/dshills/shutter/internal/selection"
)

// luaSource names configurations installed from scripts.
const luaSource = "lua"

// FreezeModule implements the freeze API module: setup, run and complete.
type FreezeModule struct {
	ctx *Context
}

// NewFreezeModule creates a new freeze module.
func NewFreezeModule(ctx *Context) *FreezeModule {
	return &FreezeModule{ctx: ctx}
}

// Name returns the module name.
func (m *FreezeModule) Name() string {
	return "freeze"
}

// Register registers the module into the Lua state.
func (m *FreezeModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "setup", L.NewFunction(m.setup))
	L.SetField(mod, "run", L.NewFunction(m.run))
	L.SetField(mod, "complete", L.NewFunction(m.complete))
	L.SetField(mod, "config", L.NewFunction(m.config))

	L.SetGlobal(m.Name(), mod)
	return nil
}

// setup(opts)
// Validates opts and makes them the configuration. Functions become
// options resolved at run time. A nil opts installs the defaults.
func (m *FreezeModule) setup(L *lua.LState) int {
	lv := L.Get(1)
	if lv == lua.LNil {
		lv = L.NewTable()
	}

	raw, err := plua.NewBridge(L).ToValue(lv)
	if err != nil {
		L.RaiseError("setup: %v", err)
		return 0
	}
	if m.ctx.Configs == nil {
		L.RaiseError("setup: no configuration manager")
		return 0
	}
	if _, err := m.ctx.Configs.Set(raw, luaSource); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// run{line1 = n, line2 = n, range = n|bool, args = {...}} -> path|nil, output
// Renders the buffer or the range. The first result is the written image
// path, nil when the renderer reported anything else.
func (m *FreezeModule) run(L *lua.LState) int {
	opts := L.OptTable(1, L.NewTable())
	if m.ctx.Buffer == nil || m.ctx.Session == nil {
		L.RaiseError("run: no buffer")
		return 0
	}

	desc := descriptorFrom(L, opts)
	ctx := L.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := m.ctx.Session.Start(ctx, m.ctx.Buffer, desc)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}

	if report.Success() {
		L.Push(lua.LString(report.Written))
	} else {
		L.Push(lua.LNil)
	}
	L.Push(lua.LString(report.Result.Output))
	return 2
}

// descriptorFrom reads a command-style options table. A range count of 0
// or false means the whole buffer.
func descriptorFrom(L *lua.LState, opts *lua.LTable) selection.Descriptor {
	args := plua.NewBridge(L).StringSlice(opts.RawGetString("args"))

	explicit := false
	switch r := opts.RawGetString("range").(type) {
	case lua.LBool:
		explicit = bool(r)
	case lua.LNumber:
		explicit = r > 0
	}
	if !explicit {
		return selection.Whole(args...)
	}

	line1 := int(lua.LVAsNumber(opts.RawGetString("line1")))
	line2 := int(lua.LVAsNumber(opts.RawGetString("line2")))
	if line2 == 0 {
		line2 = line1
	}
	return selection.Lines(line1, line2, args...)
}

// complete(prefix) -> {string}
// Returns the sorted option names starting with prefix.
func (m *FreezeModule) complete(L *lua.LState) int {
	prefix := L.OptString(1, "")

	tbl := L.NewTable()
	if m.ctx.Session != nil {
		for i, name := range m.ctx.Session.Complete(prefix) {
			tbl.RawSetInt(i+1, lua.LString(name))
		}
	}
	L.Push(tbl)
	return 1
}

// config() -> table
// Returns the current configuration, defaults included.
func (m *FreezeModule) config(L *lua.LState) int {
	if m.ctx.Configs == nil {
		L.Push(L.NewTable())
		return 1
	}
	t := m.ctx.Configs.Current().Table()
	L.Push(plua.NewBridge(L).ToLua(value.FromTable(t)))
	return 1
}
