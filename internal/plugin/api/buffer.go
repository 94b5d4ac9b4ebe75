package api

import (
	lua "github.com/yuin/gopher-lua"
)

// BufferModule implements the buf API module.
type BufferModule struct {
	ctx *Context
}

// NewBufferModule creates a new buffer module.
func NewBufferModule(ctx *Context) *BufferModule {
	return &BufferModule{ctx: ctx}
}

// Name returns the module name.
func (m *BufferModule) Name() string {
	return "buf"
}

// Register registers the module into the Lua state.
func (m *BufferModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "text", L.NewFunction(m.text))
	L.SetField(mod, "line", L.NewFunction(m.line))
	L.SetField(mod, "lines", L.NewFunction(m.lines))
	L.SetField(mod, "line_count", L.NewFunction(m.lineCount))
	L.SetField(mod, "path", L.NewFunction(m.path))
	L.SetField(mod, "filetype", L.NewFunction(m.filetype))
	L.SetField(mod, "mark", L.NewFunction(m.mark))
	L.SetField(mod, "set_mark", L.NewFunction(m.setMark))

	L.SetGlobal(m.Name(), mod)
	return nil
}

// text() -> string
// Returns the full buffer text.
func (m *BufferModule) text(L *lua.LState) int {
	if m.ctx.Buffer == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(m.ctx.Buffer.Text()))
	return 1
}

// line(n) -> string
// Returns the text of a specific line (1-indexed).
func (m *BufferModule) line(L *lua.LState) int {
	n := L.CheckInt(1)
	if m.ctx.Buffer == nil {
		L.Push(lua.LString(""))
		return 1
	}

	text, err := m.ctx.Buffer.Line(n - 1)
	if err != nil {
		L.RaiseError("line: %v", err)
		return 0
	}
	L.Push(lua.LString(text))
	return 1
}

// lines(first, last) -> {string}
// Returns the 1-indexed inclusive line range; last defaults to the end.
func (m *BufferModule) lines(L *lua.LState) int {
	first := L.OptInt(1, 1)
	last := L.OptInt(2, -1)

	tbl := L.NewTable()
	if m.ctx.Buffer != nil {
		for i, s := range m.ctx.Buffer.Lines(first-1, last) {
			tbl.RawSetInt(i+1, lua.LString(s))
		}
	}
	L.Push(tbl)
	return 1
}

// line_count() -> number
// Returns the total number of lines.
func (m *BufferModule) lineCount(L *lua.LState) int {
	if m.ctx.Buffer == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(m.ctx.Buffer.LineCount()))
	return 1
}

// path() -> string
// Returns the file backing the buffer.
func (m *BufferModule) path(L *lua.LState) int {
	if m.ctx.Buffer == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(m.ctx.Buffer.Path()))
	return 1
}

// filetype() -> string
// Returns the buffer's file type.
func (m *BufferModule) filetype(L *lua.LState) int {
	if m.ctx.Buffer == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(m.ctx.Buffer.FileType()))
	return 1
}

// mark(name) -> number
// Returns the 1-indexed line of a mark, 0 when unset.
func (m *BufferModule) mark(L *lua.LState) int {
	name := L.CheckString(1)
	if m.ctx.Buffer == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(m.ctx.Buffer.Mark(name)))
	return 1
}

// set_mark(name, line)
// Places a mark on a 1-indexed line; 0 clears it.
func (m *BufferModule) setMark(L *lua.LState) int {
	name := L.CheckString(1)
	line := L.CheckInt(2)
	if m.ctx.Buffer == nil {
		L.RaiseError("set_mark: no buffer")
		return 0
	}
	if err := m.ctx.Buffer.SetMark(name, line); err != nil {
		L.RaiseError("set_mark: %v", err)
	}
	return 0
}
