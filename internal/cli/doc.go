// Package cli implements the shutter command line.
//
// NewRootCommand builds a cobra command tree. The root command renders a
// file, or a line range of it, by running freeze with arguments compiled
// from the configuration:
//
//	shutter --range 10:20 --mark 12 main.go theme=nord open
//
// Subcommands:
//
//   - check: validate the configuration and print the compiled command.
//   - options: list option names, optionally filtered by a glob.
//   - schema: print the option set as JSON Schema.
//   - config: print the current configuration, or one option of it.
//   - watch: render again whenever the file or the configuration changes.
//   - script: run a Lua script with the freeze and buf modules bound.
//
// The tool's own settings (config path, log level and format, timeout,
// renderer environment and render limit) come from persistent flags or
// SHUTTER_* environment variables through viper. Without --config the
// first config file in the user configuration directory is used.
package cli
