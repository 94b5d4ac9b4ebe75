package api

import (
	"context"
	"fmt"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/shutter/internal/app"
	"github.com/dshills/shutter/internal/config"
	"github.com/dshills/shutter/internal/config/value"
	"github.com/dshills/shutter/internal/selection"
)

// Module represents a Lua API module that can be registered into a state.
type Module interface {
	// Name returns the module name, which is also its global name in Lua.
	Name() string

	// Register registers the module functions into the Lua state.
	Register(L *lua.LState) error
}

// Registry manages API modules and their registration.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry creates a new API registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]Module),
	}
}

// Register adds a module to the registry.
func (r *Registry) Register(mod Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}

	r.modules[mod.Name()] = mod
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mod, ok := r.modules[name]
	return mod, ok
}

// List returns the sorted names of all registered modules.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InjectAll registers every module into the Lua state, in name order.
func (r *Registry) InjectAll(L *lua.LState) error {
	for _, name := range r.List() {
		mod, _ := r.Get(name)
		if err := mod.Register(L); err != nil {
			return fmt.Errorf("register module %q: %w", name, err)
		}
	}
	return nil
}

// Context holds the host objects the modules operate on.
type Context struct {
	// Buffer is the text scripts render and mark.
	Buffer BufferProvider

	// Configs receives the options passed to setup.
	Configs ConfigProvider

	// Session runs invocations.
	Session SessionProvider
}

// BufferProvider defines the buffer operations exposed to scripts.
// *buffer.Buffer satisfies it.
type BufferProvider interface {
	app.Buffer

	// Text returns the full buffer text.
	Text() string

	// Line returns the 0-based line n.
	Line(n int) (string, error)

	// LineCount returns the total number of lines.
	LineCount() int

	// SetMark places a named mark on a 1-based line; 0 clears it.
	SetMark(name string, line int) error
}

// ConfigProvider validates and installs configurations.
// *config.Manager satisfies it.
type ConfigProvider interface {
	Set(raw value.Value, source string) (*config.Config, error)
	Current() *config.Config
}

// SessionProvider runs and completes invocations.
// *app.Session satisfies it.
type SessionProvider interface {
	Start(ctx context.Context, buf app.Buffer, desc selection.Descriptor) (*app.Report, error)
	Complete(prefix string) []string
}

// DefaultRegistry returns a registry holding the freeze and buf modules
// bound to ctx.
func DefaultRegistry(ctx *Context) *Registry {
	r := NewRegistry()
	_ = r.Register(NewFreezeModule(ctx))
	_ = r.Register(NewBufferModule(ctx))
	return r
}
