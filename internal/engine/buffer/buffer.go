package buffer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrLineOutOfRange = errors.New("line out of range")
	ErrInvalidMark    = errors.New("invalid mark name")
)

// ToEnd is the end line meaning "through the last line".
const ToEnd = -1

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer is a line-oriented text buffer.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	lines      []string
	lineEnding LineEnding
	path       string
	fileType   string
	marks      map[string]int
}

// NewBuffer creates a new empty buffer. An empty buffer has one empty line,
// as in an editor.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []string{""},
		lineEnding: LineEndingLF,
		marks:      make(map[string]int),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.fileType == "" && b.path != "" {
		b.fileType = DetectFileType(b.path)
	}
	return b
}

// NewBufferFromString creates a buffer with initial content. The line
// ending style is detected from the text unless set by an option.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	opts = append([]Option{WithLineEnding(DetectLineEnding(s))}, opts...)
	b := NewBuffer(opts...)
	b.lines = splitLines(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// Load reads the file at path into a new buffer.
func Load(path string, opts ...Option) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	opts = append([]Option{WithPath(path)}, opts...)
	return NewBufferFromString(string(data), opts...), nil
}

// splitLines splits text into lines on any line ending. A single trailing
// line ending does not start a new line.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// Read Operations

// Text returns the full buffer content using the buffer's line ending.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, b.lineEnding.Sequence())
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// Line returns the 0-based line n.
func (b *Buffer) Line(n int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n < 0 || n >= len(b.lines) {
		return "", fmt.Errorf("%w: %d", ErrLineOutOfRange, n)
	}
	return b.lines[n], nil
}

// Lines returns the lines in the 0-based half-open range [start, end).
// An end of ToEnd means through the last line. Out-of-range bounds are
// clamped, so the result may be empty but never fails.
func (b *Buffer) Lines(start, end int) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := len(b.lines)
	if end == ToEnd || end > n {
		end = n
	}
	if start < 0 {
		start = 0
	}
	if start >= end {
		return []string{}
	}
	out := make([]string, end-start)
	copy(out, b.lines[start:end])
	return out
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// Path returns the file backing the buffer, or "".
func (b *Buffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// FileType returns the buffer's file type, or "".
func (b *Buffer) FileType() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fileType
}

// Mark returns the 1-based line of a named mark, or 0 when unset.
func (b *Buffer) Mark(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.marks[name]
}

// Write Operations

// SetFileType changes the buffer's file type.
func (b *Buffer) SetFileType(ft string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fileType = ft
}

// SetMark places a named mark on a 1-based line. A line of 0 clears it.
func (b *Buffer) SetMark(name string, line int) error {
	if name == "" {
		return ErrInvalidMark
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if line == 0 {
		delete(b.marks, name)
		return nil
	}
	if line < 0 || line > len(b.lines) {
		return fmt.Errorf("%w: mark %s at %d", ErrLineOutOfRange, name, line)
	}
	b.marks[name] = line
	return nil
}

// SetText replaces the buffer content. Marks past the new end are dropped.
func (b *Buffer) SetText(s string) {
	lines := splitLines(s)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = lines
	for name, line := range b.marks {
		if line > len(lines) {
			delete(b.marks, name)
		}
	}
}

// Reload re-reads the backing file.
func (b *Buffer) Reload() error {
	path := b.Path()
	if path == "" {
		return errors.New("buffer has no backing file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reloading %s: %w", path, err)
	}
	b.SetText(string(data))
	return nil
}
