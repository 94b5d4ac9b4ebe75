// Package config provides the validated renderer configuration and the
// manager that loads, reloads and publishes it.
//
// A Config is immutable once built. It holds the user's options merged over
// the mandatory defaults ({command = "freeze"}) in the order they were
// written, which is also the order the compiled flags follow.
//
// # Sub-packages
//
//   - value: ordered configuration trees and deferred values
//   - schema: the option set and its validator
//   - loader: Lua, TOML, YAML and JSON configuration files
//   - watcher: file watching for live reload
//   - notify: change notification and observer pattern
//
// # Basic Usage
//
//	m := config.NewManager(config.WithPath("~/.config/shutter/config.lua"))
//	if err := m.Load(ctx); err != nil {
//	    return err
//	}
//	cfg := m.Current()
//
// # Live Reload
//
// Watch reloads the file whenever it changes. A file that fails to parse or
// validate is reported to subscribers as a rejected change and the previous
// configuration stays in effect.
//
//	sub := m.Subscribe(func(c notify.Change) { ... })
//	defer sub.Unsubscribe()
//	go m.Watch(ctx)
//
// # Invocation Overrides
//
// Trailing key=value tokens of an invocation can override options for that
// invocation only:
//
//	over, err := config.ParseOverrides(schema.Freeze(), []string{"theme=nord", "font.size=14"})
//	cfg, err = cfg.With(over)
package config
