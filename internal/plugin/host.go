package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/shutter/internal/plugin/api"
	plua "github.com/dshills/shutter/internal/plugin/lua"
)

// Host owns one Lua state with the freeze and buf modules installed.
type Host struct {
	mu sync.Mutex

	state    *plua.State
	registry *api.Registry

	executionTimeout time.Duration
	modules          []api.Module
	closed           bool
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithHostExecutionTimeout sets the execution timeout for each script.
// Zero disables it; scripts that call freeze.run usually want that.
func WithHostExecutionTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		h.executionTimeout = d
	}
}

// WithModule registers an extra module alongside the defaults.
func WithModule(m api.Module) HostOption {
	return func(h *Host) {
		h.modules = append(h.modules, m)
	}
}

// NewHost creates a host whose modules act on ctx.
func NewHost(ctx *api.Context, opts ...HostOption) (*Host, error) {
	h := &Host{
		executionTimeout: plua.DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.registry = api.DefaultRegistry(ctx)
	for _, m := range h.modules {
		if err := h.registry.Register(m); err != nil {
			return nil, err
		}
	}

	state, err := plua.NewState(plua.WithExecutionTimeout(h.executionTimeout))
	if err != nil {
		return nil, fmt.Errorf("create lua state: %w", err)
	}
	if err := h.registry.InjectAll(state.L); err != nil {
		_ = state.Close()
		return nil, err
	}
	h.state = state
	return h, nil
}

// Modules returns the names of the installed modules.
func (h *Host) Modules() []string {
	return h.registry.List()
}

// DoString runs a chunk.
func (h *Host) DoString(code string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	return h.state.DoString(code)
}

// DoFile runs the script at path.
func (h *Host) DoFile(path string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	if _, err := h.state.Eval("@"+filepath.Base(path), string(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// GetGlobal returns a global variable.
func (h *Host) GetGlobal(name string) lua.LValue {
	return h.state.GetGlobal(name)
}

// Close releases the Lua state.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return h.state.Close()
}

func (h *Host) checkOpen() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return plua.ErrStateClosed
	}
	return nil
}
