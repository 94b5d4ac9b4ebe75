package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// JSONSchema exports the option set as a JSON Schema document so editors
// can offer completion for file based configuration. Function-valued
// options are only expressible from Lua and export as their other kinds.
func (s *Schema) JSONSchema() *jsonschema.Schema {
	root := &jsonschema.Schema{
		Version:              jsonschema.Version,
		Title:                "shutter configuration",
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}

	for _, opt := range s.options {
		root.Properties.Set(opt.Name, optionSchema(opt))
	}
	return root
}

// MarshalJSONSchema renders JSONSchema as indented JSON.
func (s *Schema) MarshalJSONSchema() ([]byte, error) {
	return json.MarshalIndent(s.JSONSchema(), "", "  ")
}

func optionSchema(opt *Option) *jsonschema.Schema {
	if opt.IsRecord() {
		rec := &jsonschema.Schema{
			Type:                 "object",
			Description:          opt.Description,
			Properties:           jsonschema.NewProperties(),
			AdditionalProperties: jsonschema.FalseSchema,
		}
		for _, f := range opt.Fields {
			rec.Properties.Set(f.Name, optionSchema(f))
		}
		return rec
	}

	alts := typeSchemas(opt.Type, opt.Items)
	var out *jsonschema.Schema
	if len(alts) == 1 {
		out = alts[0]
	} else {
		out = &jsonschema.Schema{AnyOf: alts}
	}
	out.Description = opt.Description
	if !opt.Default.IsNil() {
		out.Default = opt.Default.Text()
	}
	return out
}

func typeSchemas(t, items Type) []*jsonschema.Schema {
	var out []*jsonschema.Schema
	if t&TypeString != 0 {
		out = append(out, &jsonschema.Schema{Type: "string"})
	}
	if t&TypeBoolean != 0 {
		out = append(out, &jsonschema.Schema{Type: "boolean"})
	}
	if t&TypeNumber != 0 {
		out = append(out, &jsonschema.Schema{Type: "number"})
	}
	if t&TypeList != 0 {
		arr := &jsonschema.Schema{Type: "array"}
		if items != 0 {
			elems := typeSchemas(items, 0)
			if len(elems) == 1 {
				arr.Items = elems[0]
			} else {
				arr.Items = &jsonschema.Schema{AnyOf: elems}
			}
		}
		out = append(out, arr)
	}
	return out
}
