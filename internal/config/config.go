package config

import (
	"time"

	"github.com/dshills/shutter/internal/config/schema"
	"github.com/dshills/shutter/internal/config/value"
)

// Config is a validated renderer configuration. It is immutable and safe to
// share between goroutines; methods that derive a new configuration return
// a copy.
type Config struct {
	table    *value.Table
	schema   *schema.Schema
	source   string
	loadedAt time.Time
}

// New validates raw against the freeze option set.
func New(raw value.Value) (*Config, error) {
	return NewWithSchema(schema.Freeze(), raw, "")
}

// Default returns the configuration holding only the mandatory defaults.
func Default() *Config {
	s := schema.Freeze()
	return &Config{table: s.Defaults(), schema: s, loadedAt: time.Now()}
}

// NewWithSchema validates raw against s. Source names where raw came from
// and is reported by Source.
func NewWithSchema(s *schema.Schema, raw value.Value, source string) (*Config, error) {
	tbl, err := s.Validate(raw)
	if err != nil {
		return nil, err
	}
	return &Config{table: tbl, schema: s, source: source, loadedAt: time.Now()}, nil
}

// Table returns a copy of the merged option table.
func (c *Config) Table() *value.Table {
	return c.table.Clone()
}

// Schema returns the schema the configuration was validated against.
func (c *Config) Schema() *schema.Schema {
	return c.schema
}

// Source returns the file the configuration was loaded from, if any.
func (c *Config) Source() string {
	return c.source
}

// LoadedAt returns when the configuration was built.
func (c *Config) LoadedAt() time.Time {
	return c.loadedAt
}

// Get returns the value at a dotted option path.
func (c *Config) Get(path string) (value.Value, bool) {
	return c.table.Lookup(path)
}

// Command returns the renderer executable.
func (c *Config) Command() string {
	if v, ok := c.table.Get("command"); ok {
		if s, ok := v.AsString(); ok && s != "" {
			return s
		}
	}
	return schema.DefaultCommand
}

// Language returns the configured language and whether the option is
// set. An empty string that was set explicitly still counts.
func (c *Config) Language() (string, bool) {
	if v, ok := c.table.Get("language"); ok {
		if s, ok := v.AsString(); ok {
			return s, true
		}
	}
	return "", false
}

// Open reports whether the generated image should be opened.
func (c *Config) Open() bool {
	if v, ok := c.table.Get("open"); ok {
		b, _ := v.AsBool()
		return b
	}
	return false
}

// With returns a configuration with over merged on top. The overrides are
// validated on their own first so that their errors name the override, then
// merged with the same force semantics used for the defaults.
func (c *Config) With(over *value.Table) (*Config, error) {
	if over == nil || over.Len() == 0 {
		return c, nil
	}
	for key, v := range over.All() {
		opt, ok := c.schema.Lookup(key)
		if !ok {
			return nil, schema.NewUnknownOptionError(key)
		}
		if opt.Required {
			return nil, &OverrideError{Token: key, Err: ErrInvalidOverride}
		}
		if err := c.schema.ValidatePath(key, v); err != nil {
			return nil, err
		}
	}
	return &Config{
		table:    value.Merge(c.table, over),
		schema:   c.schema,
		source:   c.source,
		loadedAt: c.loadedAt,
	}, nil
}
