// Package plugin hosts Lua scripts that configure and drive renders.
//
// A Host owns one sandboxed Lua state (see package lua) with two modules
// installed as globals:
//
//   - freeze: setup(opts) validates and installs a configuration,
//     run{line1=, line2=, range=, args={...}} renders the host buffer,
//     complete(prefix) lists option names and config() returns the
//     current configuration.
//   - buf: read access to the host buffer plus mark and set_mark.
//
// Example script:
//
//	freeze.setup({
//	    theme = "dracula",
//	    output = function(ctx) return ctx.path .. ".png" end,
//	})
//	buf.set_mark("h", 12)
//	local path = freeze.run({ range = 2, line1 = 10, line2 = 20 })
//
// Lua functions in setup become options resolved when the command line is
// compiled. They run on the goroutine that runs the script, so a Host must
// not be shared between goroutines while a script runs.
package plugin
