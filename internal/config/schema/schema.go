// Package schema declares the shape of the options the renderer accepts and
// validates user configuration against it.
//
// A schema is an ordered list of options. Each option is either a leaf that
// accepts a set of kinds (string, boolean, number, list, function) or a
// record of leaf fields such as font.size. Exactly one option, command, is
// mandatory and carries a default; every other option is optional.
package schema

import (
	"sort"

	"github.com/dshills/shutter/internal/config/value"
)

// Option describes one configuration key.
type Option struct {
	// Name is the key as written in configuration.
	Name string

	// Description documents the option.
	Description string

	// Type is the set of accepted kinds for a leaf option.
	Type Type

	// Items restricts list elements. Zero accepts any scalar.
	Items Type

	// Fields makes the option a nested record.
	Fields []*Option

	// Required marks the option as mandatory.
	Required bool

	// Default is merged under user configuration. Only required options
	// carry one.
	Default value.Value
}

// IsRecord reports whether the option is a nested record.
func (o *Option) IsRecord() bool {
	return len(o.Fields) > 0
}

// Field returns the sub-option with the given name.
func (o *Option) Field(name string) (*Option, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Describe sets the description.
func (o *Option) Describe(desc string) *Option {
	o.Description = desc
	return o
}

// WithItems restricts list elements to the given kinds.
func (o *Option) WithItems(t Type) *Option {
	o.Items = t
	return o
}

// MarkRequired marks the option mandatory with a default value.
func (o *Option) MarkRequired(def value.Value) *Option {
	o.Required = true
	o.Default = def
	return o
}

// Schema is an immutable, ordered set of options.
type Schema struct {
	options []*Option
	index   map[string]*Option
}

// New creates a schema from options in declaration order.
func New(options ...*Option) *Schema {
	s := &Schema{
		options: options,
		index:   make(map[string]*Option, len(options)),
	}
	for _, opt := range options {
		s.index[opt.Name] = opt
	}
	return s
}

// Lookup returns the option with the given name.
func (s *Schema) Lookup(name string) (*Option, bool) {
	opt, ok := s.index[name]
	return opt, ok
}

// LookupPath resolves "font.size" style paths to a leaf option.
func (s *Schema) LookupPath(path string) (*Option, bool) {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			parent, ok := s.Lookup(path[:i])
			if !ok || !parent.IsRecord() {
				return nil, false
			}
			return parent.Field(path[i+1:])
		}
	}
	return s.Lookup(path)
}

// Options returns the options in declaration order.
func (s *Schema) Options() []*Option {
	out := make([]*Option, len(s.options))
	copy(out, s.options)
	return out
}

// Names returns the sorted names of the optional options, the set offered
// for completion.
func (s *Schema) Names() []string {
	var names []string
	for _, opt := range s.options {
		if opt.Required {
			continue
		}
		names = append(names, opt.Name)
	}
	sort.Strings(names)
	return names
}

// Defaults returns a fresh table with the default of every required option.
func (s *Schema) Defaults() *value.Table {
	t := value.NewTable()
	for _, opt := range s.options {
		if opt.Required && !opt.Default.IsNil() {
			t.Set(opt.Name, opt.Default)
		}
	}
	return t
}
