// Package api provides the Lua modules exposed to shutter scripts.
//
// Each module implements the Module interface and installs one global
// table into a Lua state:
//
//	type Module interface {
//	    Name() string
//	    Register(L *lua.LState) error
//	}
//
// Modules are collected in a Registry and injected together. DefaultRegistry
// installs the two modules scripts rely on:
//
//   - freeze: setup, run, complete and config, backed by a ConfigProvider
//     and a SessionProvider.
//   - buf: the lines, path, file type and marks of the buffer being
//     rendered, backed by a BufferProvider.
//
// The Context struct carries the providers:
//
//	ctx := &api.Context{
//	    Buffer:  buf,     // BufferProvider
//	    Configs: manager, // ConfigProvider
//	    Session: session, // SessionProvider
//	}
//	err := api.DefaultRegistry(ctx).InjectAll(L)
//
// A nil provider leaves the module installed; functions that need it raise
// a Lua error, and complete returns an empty list.
package api
