package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// openSafeLibraries opens the libraries configuration scripts need:
// base, table, string and math. io, os, debug and package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// blockedGlobals load code from outside the state.
var blockedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
}

// installSandbox strips globals that reach outside the state.
func installSandbox(L *lua.LState) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}
