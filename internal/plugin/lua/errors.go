package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrCircularTable is returned when a table contains itself.
	ErrCircularTable = errors.New("lua table contains a reference to itself")

	// ErrUnsupportedValue is returned for Lua values with no configuration
	// equivalent (userdata, threads, channels).
	ErrUnsupportedValue = errors.New("unsupported lua value")
)
