package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the line ending used when the buffer is joined back
// into text.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithPath sets the file backing the buffer. Unless a file type is set
// explicitly, it is detected from the path.
func WithPath(path string) Option {
	return func(b *Buffer) {
		b.path = path
	}
}

// WithFileType sets the buffer's file type, overriding detection.
func WithFileType(ft string) Option {
	return func(b *Buffer) {
		b.fileType = ft
	}
}

// DetectLineEnding returns a LineEnding based on the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n':
			crlfCount++
			i++
		case text[i] == '\r':
			crCount++
		case text[i] == '\n':
			lfCount++
		}
	}

	switch {
	case crlfCount > 0 && crlfCount >= lfCount && crlfCount >= crCount:
		return LineEndingCRLF
	case crCount > 0 && crCount >= lfCount:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}
