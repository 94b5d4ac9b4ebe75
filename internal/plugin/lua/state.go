package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single chunk evaluation.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps gopher-lua with a sandbox and a bridge to configuration values.
//
// IMPORTANT: gopher-lua's LState is not goroutine-safe. The mutex protects
// the entry points below against concurrent use from Go code; callbacks into
// Lua made while a chunk is running (providers, module functions) run on the
// calling goroutine without taking it.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	bridge           *Bridge
	closed           bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the execution timeout for chunk evaluation.
// Zero disables the timeout.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	openSafeLibraries(L)
	installSandbox(L)

	state.L = L
	state.bridge = NewBridge(L)
	return state, nil
}

// Bridge returns the value bridge bound to this state.
func (s *State) Bridge() *Bridge {
	return s.bridge
}

// DoString executes a Lua string.
// Execution is synchronous - the call blocks until completion or error.
func (s *State) DoString(code string) error {
	_, err := s.Eval("<string>", code)
	return err
}

// Eval compiles and runs a chunk, returning its first return value
// (LNil when the chunk returns nothing).
func (s *State) Eval(name, code string) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}

	fn, err := s.L.Load(strings.NewReader(code), name)
	if err != nil {
		return lua.LNil, err
	}

	if s.executionTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.executionTimeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	var ret lua.LValue = lua.LNil
	err = s.doWithRecovery(func() error {
		s.L.Push(fn)
		if err := s.L.PCall(0, 1, nil); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	if err != nil {
		if ctxErr := s.L.Context(); ctxErr != nil && errors.Is(ctxErr.Err(), context.DeadlineExceeded) {
			return lua.LNil, fmt.Errorf("%s: %w", name, ErrExecutionTimeout)
		}
		return lua.LNil, err
	}
	return ret, nil
}

// doWithRecovery executes a function with panic recovery.
func (s *State) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// RegisterModule registers a global table with the given functions.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) *lua.LTable {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	s.L.SetGlobal(name, mod)
	return mod
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.L.Close()
	s.closed = true
	return nil
}
