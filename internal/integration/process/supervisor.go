package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Supervisor manages child processes with lifecycle tracking and cleanup.
//
// Supervisor is safe for concurrent use.
type Supervisor struct {
	mu        sync.RWMutex
	processes map[string]*Process

	// shutdown signals that the supervisor is shutting down
	shutdown chan struct{}

	// closed indicates the supervisor has been shut down
	closed atomic.Bool

	// maxProcesses limits the number of concurrent processes (0 = unlimited)
	maxProcesses int

	// onProcessExit is called when a process exits
	onProcessExit func(p *Process)

	// env is appended to the inherited environment of every process.
	env []string
}

// SupervisorOption configures a Supervisor instance.
type SupervisorOption func(*Supervisor)

// WithMaxProcesses sets the maximum number of concurrent processes.
// A value of 0 (default) means unlimited.
func WithMaxProcesses(max int) SupervisorOption {
	return func(s *Supervisor) {
		s.maxProcesses = max
	}
}

// WithProcessExitCallback sets a callback for when processes exit.
func WithProcessExitCallback(fn func(p *Process)) SupervisorOption {
	return func(s *Supervisor) {
		s.onProcessExit = fn
	}
}

// WithEnv adds KEY=VALUE entries to the environment of every process.
func WithEnv(env ...string) SupervisorOption {
	return func(s *Supervisor) {
		s.env = append(s.env, env...)
	}
}

// NewSupervisor creates a new process supervisor.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		processes: make(map[string]*Process),
		shutdown:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// waitDelay bounds how long Wait keeps copying output after a kill.
const waitDelay = time.Second

// Result is the outcome of a completed Run.
type Result struct {
	// ID identifies the process in logs.
	ID string

	// Output is stdout and stderr, interleaved as written.
	Output string

	// ExitCode is the process exit status, -1 when it was killed.
	ExitCode int

	// Duration is how long the process ran.
	Duration time.Duration
}

// Run starts argv[0] with the remaining arguments, writes stdin to it and
// waits for it to exit. A non-zero exit is not an error: the caller reads
// the outcome from Result.Output. Errors are returned when the program
// cannot be started, or when ctx ends first, in which case the process is
// killed and the partial output is still returned.
func (s *Supervisor) Run(ctx context.Context, name string, argv []string, stdin string) (Result, error) {
	if len(argv) == 0 || argv[0] == "" {
		return Result{}, ErrEmptyCommand
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(stdin)
	out := &syncBuffer{}
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.WaitDelay = waitDelay

	proc, err := s.start(uuid.New().String(), name, cmd, out)
	if err != nil {
		return Result{}, err
	}

	select {
	case <-proc.Done():
	case <-ctx.Done():
		_ = proc.Kill()
		<-proc.Done()
		return proc.result(), fmt.Errorf("process: %s: %w", name, ctx.Err())
	}
	return proc.result(), nil
}

// Start starts a process without waiting for it. Output is discarded.
// The process is tracked until it exits and is killed on Shutdown.
func (s *Supervisor) Start(name string, argv []string) (*Process, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrEmptyCommand
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return s.start(uuid.New().String(), name, cmd, nil)
}

func (p *Process) result() Result {
	return Result{
		ID:       p.ID,
		Output:   p.Output(),
		ExitCode: p.ExitCode(),
		Duration: p.Runtime(),
	}
}

func (s *Supervisor) start(id, name string, cmd *exec.Cmd, out *syncBuffer) (*Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check shutdown state under lock to prevent race
	if s.closed.Load() {
		return nil, ErrSupervisorShutdown
	}

	if s.maxProcesses > 0 && len(s.processes) >= s.maxProcesses {
		return nil, fmt.Errorf("process limit reached: %d", s.maxProcesses)
	}

	if len(s.env) > 0 {
		cmd.Env = append(cmd.Environ(), s.env...)
	}

	proc := NewProcess(id, name, cmd)
	proc.output = out

	// Start the process before tracking (so we don't track failed starts)
	if err := proc.start(); err != nil {
		return nil, err
	}

	s.processes[id] = proc

	go s.monitorProcess(proc)

	return proc, nil
}

// monitorProcess watches for process exit and cleans up.
func (s *Supervisor) monitorProcess(proc *Process) {
	<-proc.Done()

	if s.onProcessExit != nil {
		func() {
			defer func() { _ = recover() }()
			s.onProcessExit(proc)
		}()
	}

	s.mu.Lock()
	delete(s.processes, proc.ID)
	s.mu.Unlock()
}

// Get returns a process by ID.
// Returns nil if the process is not found.
func (s *Supervisor) Get(id string) *Process {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processes[id]
}

// List returns all managed processes.
func (s *Supervisor) List() []*Process {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Process, 0, len(s.processes))
	for _, p := range s.processes {
		result = append(result, p)
	}
	return result
}

// Count returns the number of managed processes.
func (s *Supervisor) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.processes)
}

// Kill kills a process by ID.
// Returns ErrProcessNotFound if the process doesn't exist.
func (s *Supervisor) Kill(id string) error {
	proc := s.Get(id)
	if proc == nil {
		return ErrProcessNotFound
	}
	if !proc.IsRunning() {
		return nil
	}
	return proc.Kill()
}

// Shutdown gracefully shuts down all processes.
//
// It first sends SIGTERM to all processes and waits up to timeout
// for them to exit. Any processes still running after the timeout
// are killed.
func (s *Supervisor) Shutdown(timeout time.Duration) {
	if s.closed.Swap(true) {
		return
	}

	close(s.shutdown)

	procs := s.List()
	if len(procs) == 0 {
		return
	}

	for _, p := range procs {
		if p.IsRunning() {
			_ = p.Terminate()
		}
	}

	done := make(chan struct{})
	go func() {
		for _, p := range procs {
			<-p.Done()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		for _, p := range procs {
			if p.IsRunning() {
				_ = p.Kill()
			}
		}
		<-done
	}

	s.waitForCleanup()
}

// waitForCleanup waits for all processes to be removed from the map.
func (s *Supervisor) waitForCleanup() {
	for s.Count() > 0 {
		time.Sleep(time.Millisecond)
	}
}

// IsShuttingDown returns true if the supervisor is shutting down.
func (s *Supervisor) IsShuttingDown() bool {
	return s.closed.Load()
}

// Sentinel errors.
var (
	// ErrProcessNotFound is returned when a process ID is not found.
	ErrProcessNotFound = errors.New("process not found")

	// ErrSupervisorShutdown is returned when the supervisor is shutting down.
	ErrSupervisorShutdown = errors.New("supervisor is shutting down")
)
