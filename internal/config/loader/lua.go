package loader

import (
	"time"

	luart "github.com/dshills/shutter/internal/plugin/lua"

	"github.com/dshills/shutter/internal/config/value"
)

// LuaLoader loads configuration from a Lua chunk that returns a table:
//
//	return {
//	    theme = "dracula",
//	    output = function(ctx) return ctx.filetype .. ".png" end,
//	}
//
// The state used to evaluate the chunk stays alive as long as any function
// option it produced is referenced.
type LuaLoader struct {
	timeout time.Duration
}

// NewLuaLoader creates a new Lua loader.
func NewLuaLoader() *LuaLoader {
	return &LuaLoader{timeout: luart.DefaultExecutionTimeout}
}

// Parse implements Loader.
func (l *LuaLoader) Parse(source string, data []byte) (value.Value, error) {
	state, err := luart.NewState(luart.WithExecutionTimeout(l.timeout))
	if err != nil {
		return value.Nil(), err
	}

	ret, err := state.Eval(source, string(data))
	if err != nil {
		_ = state.Close()
		return value.Nil(), &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	v, err := state.Bridge().ToValue(ret)
	if err != nil {
		_ = state.Close()
		return value.Nil(), &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return v, nil
}
