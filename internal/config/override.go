package config

import (
	"strconv"
	"strings"

	"github.com/dshills/shutter/internal/config/schema"
	"github.com/dshills/shutter/internal/config/value"
)

// ParseOverrides collects the key=value tokens whose key names an option of
// s into a table suitable for Config.With. Dotted keys reach record fields
// ("font.size=14"). Tokens naming no option, bare words such as "open", and
// the keys command and language are left alone; language is resolved
// separately by the caller.
func ParseOverrides(s *schema.Schema, args []string) (*value.Table, error) {
	over := value.NewTable()
	for _, tok := range args {
		key, raw, ok := strings.Cut(tok, "=")
		if !ok || key == "" {
			continue
		}
		if key == "command" || key == "language" {
			continue
		}

		opt, ok := s.LookupPath(key)
		if !ok {
			continue
		}
		if opt.IsRecord() {
			return nil, &OverrideError{Token: tok, Err: schema.NewTypeError(key, "table", "string")}
		}

		v := Coerce(opt, raw)
		if err := s.ValidatePath(key, v); err != nil {
			return nil, &OverrideError{Token: tok, Err: err}
		}

		parent, field, nested := strings.Cut(key, ".")
		if !nested {
			over.Set(key, v)
			continue
		}
		sub := value.NewTable()
		if existing, ok := over.Get(parent); ok {
			if t, ok := existing.AsTable(); ok {
				sub = t
			}
		}
		sub.Set(field, v)
		over.Set(parent, value.FromTable(sub))
	}
	return over, nil
}

// Coerce converts a command-line string into the value an option most
// likely wants: booleans for true/false, numbers when parseable, comma
// lists for list options (a single value is a one-item list), and strings
// otherwise.
func Coerce(opt *schema.Option, raw string) value.Value {
	if opt.Type.Has(schema.TypeBoolean) {
		if b, err := strconv.ParseBool(raw); err == nil {
			return value.Bool(b)
		}
	}
	if opt.Type.Has(schema.TypeNumber) {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return value.Number(n)
		}
	}
	if opt.Type.Has(schema.TypeList) {
		return value.Strings(strings.Split(raw, ",")...)
	}
	return value.String(raw)
}
