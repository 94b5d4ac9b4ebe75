package schema

import (
	"fmt"

	"github.com/dshills/shutter/internal/config/value"
)

// Validate checks raw against the schema and returns raw merged over the
// schema defaults.
//
// Only keys present in raw are checked; defaults are trusted. A nested
// record must be a table whose keys are all declared fields, so an unknown
// sub-key reports UnknownOption with its dotted path. Validation stops at
// the first failure and never coerces values, with one exception: an empty
// table given to an option that takes lists is an empty list, since Lua
// cannot tell the two apart.
//
// A non-empty list at the root is a table keyed 1..n to a Lua script, so it
// reports UnknownOption for key "1".
func (s *Schema) Validate(raw value.Value) (*value.Table, error) {
	if n := raw.Len(); raw.Kind() == value.KindList && n > 0 {
		return nil, NewUnknownOptionError("1")
	}
	tbl, ok := raw.AsTable()
	if !ok {
		return nil, NewNotATableError(raw.Kind().String())
	}

	out := value.NewTable()
	for key, v := range tbl.All() {
		opt, ok := s.Lookup(key)
		if !ok {
			return nil, NewUnknownOptionError(key)
		}
		checked, err := validateOption(key, opt, v)
		if err != nil {
			return nil, err
		}
		out.Set(key, checked)
	}

	return value.Merge(s.Defaults(), out), nil
}

// ValidatePath checks a single value against the option at path.
func (s *Schema) ValidatePath(path string, v value.Value) error {
	opt, ok := s.LookupPath(path)
	if !ok {
		return NewUnknownOptionError(path)
	}
	_, err := validateOption(path, opt, v)
	return err
}

func validateOption(path string, opt *Option, v value.Value) (value.Value, error) {
	if opt.IsRecord() {
		return validateRecord(path, opt, v)
	}
	return validateLeaf(path, opt, v)
}

func validateRecord(path string, opt *Option, v value.Value) (value.Value, error) {
	tbl, ok := v.AsTable()
	if !ok {
		return value.Nil(), NewTypeError(path, "table", v.Kind().String())
	}
	out := value.NewTable()
	for key, sub := range tbl.All() {
		subPath := path + "." + key
		field, ok := opt.Field(key)
		if !ok {
			return value.Nil(), NewUnknownOptionError(subPath)
		}
		checked, err := validateLeaf(subPath, field, sub)
		if err != nil {
			return value.Nil(), err
		}
		out.Set(key, checked)
	}
	return value.FromTable(out), nil
}

func validateLeaf(path string, opt *Option, v value.Value) (value.Value, error) {
	if t, ok := v.AsTable(); ok && t.Len() == 0 && opt.Type.Has(TypeList) {
		v = value.List()
	}
	if !opt.Type.Has(typeOf(v)) {
		return value.Nil(), NewTypeError(path, opt.Type.String(), v.Kind().String())
	}
	if v.Kind() != value.KindList || opt.Items == 0 {
		return v, nil
	}
	items, _ := v.AsList()
	for i, item := range items {
		if !opt.Items.Has(typeOf(item)) {
			return value.Nil(), NewTypeError(fmt.Sprintf("%s[%d]", path, i+1), opt.Items.String(), item.Kind().String())
		}
	}
	return v, nil
}
