// Package buffer holds the text a screenshot is taken from.
//
// A Buffer is a list of lines plus the metadata an invocation needs: the
// backing path, a file type used for syntax highlighting, and named marks
// such as "h" that point at a line to highlight. Line numbers in the API
// are 0-based unless a method says otherwise; marks use 1-based line
// numbers so that 0 can mean "unset".
package buffer
