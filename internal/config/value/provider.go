package value

// Context is handed to a Provider when the compiler resolves a deferred
// option. It carries everything known about the invocation at compile time.
type Context struct {
	// Args are the free-form key=value tokens of the invocation.
	Args []string

	// Line1 and Line2 are the 1-based inclusive bounds of the selection.
	Line1 int
	Line2 int

	// Range reports whether the invocation carried an explicit range.
	Range bool

	// Path is the file backing the buffer, if any.
	Path string

	// FileType is the buffer's file type.
	FileType string
}

// Provider computes an option value at compile time, such as an output
// path derived from the current file.
type Provider interface {
	Resolve(ctx Context) (Value, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx Context) (Value, error)

// Resolve calls f.
func (f ProviderFunc) Resolve(ctx Context) (Value, error) {
	return f(ctx)
}

// Static returns a Provider that always yields v.
func Static(v Value) Provider {
	return ProviderFunc(func(Context) (Value, error) { return v, nil })
}
