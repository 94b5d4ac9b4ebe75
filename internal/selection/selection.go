// Package selection turns an invocation's line range into the slice of the
// buffer that is rendered and the line, if any, that is highlighted.
package selection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// HighlightMark is the buffer mark whose line is highlighted in the image.
const HighlightMark = "h"

// ToEnd is the Span end meaning "through the last line".
const ToEnd = -1

// ErrInvalidRange is returned for malformed or inverted ranges.
var ErrInvalidRange = errors.New("invalid range")

// Source is the buffer a selection is resolved against.
type Source interface {
	// Lines returns the 0-based half-open range [start, end); an end of
	// ToEnd means through the last line.
	Lines(start, end int) []string
	// Mark returns the 1-based line of a named mark, or 0 when unset.
	Mark(name string) int
}

// Descriptor describes one invocation as the editor reports it.
// Descriptor is an immutable value type.
type Descriptor struct {
	// Line1 and Line2 are the 1-based inclusive bounds of the range.
	Line1 int
	Line2 int

	// Range reports whether the invocation carried an explicit range.
	// Without one the whole buffer is used and Line1/Line2 are ignored.
	Range bool

	// Args are the free-form tokens that followed the command.
	Args []string
}

// Whole returns a descriptor covering the whole buffer.
func Whole(args ...string) Descriptor {
	return Descriptor{Line1: 1, Line2: 1, Args: args}
}

// Lines returns a descriptor for the 1-based inclusive range [line1, line2].
func Lines(line1, line2 int, args ...string) Descriptor {
	return Descriptor{Line1: line1, Line2: line2, Range: true, Args: args}
}

// Validate checks the range bounds of an explicit range.
func (d Descriptor) Validate() error {
	if !d.Range {
		return nil
	}
	if d.Line1 < 1 || d.Line2 < d.Line1 {
		return fmt.Errorf("%w: %d,%d", ErrInvalidRange, d.Line1, d.Line2)
	}
	return nil
}

// String returns the range in ex notation, "%" for the whole buffer.
func (d Descriptor) String() string {
	if !d.Range {
		return "%"
	}
	return fmt.Sprintf("%d,%d", d.Line1, d.Line2)
}

// ParseRange parses "N" or "N:M" (also "N,M") into an explicit range.
// An empty string yields the whole buffer.
func ParseRange(s string) (Descriptor, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "%" {
		return Whole(), nil
	}

	first, second, found := strings.Cut(s, ":")
	if !found {
		first, second, found = strings.Cut(s, ",")
	}
	if !found {
		second = first
	}

	l1, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	l2, err := strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}

	d := Lines(l1, l2)
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// Span is a resolved selection in 0-based buffer lines.
type Span struct {
	// Start is the first line, End the exclusive end or ToEnd.
	Start int
	End   int

	// Highlight is the line to highlight relative to Start. It is only
	// meaningful when HasHighlight is set.
	Highlight    int
	HasHighlight bool
}

// Resolve converts a descriptor into a Span against src.
//
// Without an explicit range the span is the whole buffer. With one, the
// 1-based inclusive [Line1, Line2] becomes [Line1-1, Line2). The highlight
// mark is honored when it is set and either the whole buffer is used or it
// falls inside the range.
func Resolve(src Source, d Descriptor) Span {
	span := Span{Start: 0, End: ToEnd}
	if d.Range {
		span = Span{Start: d.Line1 - 1, End: d.Line2}
	}

	mark := src.Mark(HighlightMark)
	if mark > 0 && (!d.Range || (mark >= d.Line1 && mark <= d.Line2)) {
		span.Highlight = mark - span.Start
		span.HasHighlight = true
	}
	return span
}

// Text returns the lines covered by span.
func Text(src Source, span Span) []string {
	return src.Lines(span.Start, span.End)
}
