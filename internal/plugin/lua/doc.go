// Package lua provides the Lua runtime used for configuration and editor
// scripting.
//
// This package wraps the gopher-lua library to provide:
//   - Sandboxed Lua state management
//   - Conversion between Lua values and the ordered configuration tree
//   - Lua functions as deferred option values
//
// # State
//
// The State type manages a Lua runtime with a restricted standard library:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(2 * time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer state.Close()
//
//	ret, err := state.Eval("config.lua", `return { theme = "dracula" }`)
//
// # Bridge
//
// The Bridge converts Lua values into configuration values. Table entries
// keep their insertion order, array-shaped tables become lists, and Lua
// functions become providers that are called back when the argument
// compiler needs their value:
//
//	v, err := state.Bridge().ToValue(ret)
//
// Providers call into the state without taking its lock, so they must be
// resolved on the goroutine that owns the state.
package lua
