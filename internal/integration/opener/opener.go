// Package opener opens files with the desktop's default application.
package opener

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/dshills/shutter/internal/integration/process"
)

// ErrUnsupportedPlatform is returned when no open command is known.
var ErrUnsupportedPlatform = errors.New("no open command for this platform")

// Starter launches a process without waiting for it.
type Starter interface {
	Start(name string, argv []string) (*process.Process, error)
}

// Opener opens paths with the system handler.
type Opener struct {
	starter Starter
	command []string
}

// Option configures an Opener.
type Option func(*Opener)

// WithCommand replaces the platform command. The path is appended to it.
func WithCommand(argv ...string) Option {
	return func(o *Opener) {
		o.command = argv
	}
}

// New creates an Opener that launches through starter.
func New(starter Starter, opts ...Option) *Opener {
	o := &Opener{
		starter: starter,
		command: CommandFor(runtime.GOOS),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CommandFor returns the open command for a GOOS value, or nil.
func CommandFor(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"cmd", "/c", "start", ""}
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return []string{"xdg-open"}
	default:
		return nil
	}
}

// Open launches the handler for path and returns without waiting.
func (o *Opener) Open(path string) error {
	if len(o.command) == 0 {
		return ErrUnsupportedPlatform
	}
	argv := append(append([]string{}, o.command...), path)
	if _, err := o.starter.Start("open", argv); err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	return nil
}
