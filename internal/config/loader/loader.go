// Package loader reads renderer configuration from files.
//
// Every loader produces an ordered value tree so that the compiled flags
// follow the order options were written in. Supported formats are Lua
// (a chunk returning a table), TOML, YAML and JSON; the format is picked
// from the file extension.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/shutter/internal/config/value"
)

// Format identifies a configuration file syntax.
type Format int

const (
	// FormatUnknown is returned for unrecognized extensions.
	FormatUnknown Format = iota
	FormatLua
	FormatTOML
	FormatYAML
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatLua:
		return "lua"
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ErrUnsupportedFormat is returned for files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

// DetectFormat picks the format from a file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lua":
		return FormatLua
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// Loader is the interface for configuration loaders.
type Loader interface {
	// Parse converts raw file contents into a value tree. The source
	// names the input in error messages.
	Parse(source string, data []byte) (value.Value, error)
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// ForFormat returns the loader for a format.
func ForFormat(f Format) (Loader, error) {
	switch f {
	case FormatLua:
		return NewLuaLoader(), nil
	case FormatTOML:
		return NewTOMLLoader(), nil
	case FormatYAML:
		return NewYAMLLoader(), nil
	case FormatJSON:
		return NewJSONLoader(), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Load reads and parses the file at path from the OS file system.
func Load(path string) (value.Value, error) {
	return LoadFS(DefaultFS(), path)
}

// LoadFS reads and parses the file at path from fsys.
func LoadFS(fsys FileSystem, path string) (value.Value, error) {
	l, err := ForFormat(DetectFormat(path))
	if err != nil {
		return value.Nil(), fmt.Errorf("%s: %w", path, err)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return value.Nil(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	return l.Parse(path, data)
}

// configNames are tried, in order, by Locate.
var configNames = []string{"config.lua", "config.toml", "config.yaml", "config.yml", "config.json"}

// Locate returns the first config file present in dir, or "" when there
// is none.
func Locate(fsys FileSystem, dir string) string {
	for _, name := range configNames {
		p := filepath.Join(dir, name)
		if info, err := fsys.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
