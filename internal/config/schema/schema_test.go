package schema

import (
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestFreeze_OnlyCommandRequired(t *testing.T) {
	var required []string
	for _, opt := range Freeze().Options() {
		if opt.Required {
			required = append(required, opt.Name)
		}
	}
	if len(required) != 1 || required[0] != "command" {
		t.Errorf("required options = %v, want [command]", required)
	}
}

func TestSchema_Names(t *testing.T) {
	names := Freeze().Names()

	want := []string{
		"background", "border", "config", "font", "language", "line_height",
		"margin", "open", "output", "padding", "shadow", "show_line_numbers",
		"theme", "window",
	}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v\nwant %v", names, want)
	}
}

func TestSchema_LookupPath(t *testing.T) {
	s := Freeze()

	if opt, ok := s.LookupPath("border.color"); !ok || opt.Type != TypeString {
		t.Errorf("border.color = %v, %v", opt, ok)
	}
	if _, ok := s.LookupPath("window.x"); ok {
		t.Error("window is not a record")
	}
	if opt, ok := s.LookupPath("theme"); !ok || opt.Name != "theme" {
		t.Errorf("theme = %v, %v", opt, ok)
	}
}

func TestType_String(t *testing.T) {
	tests := []struct {
		t    Type
		want string
	}{
		{TypeString, "string"},
		{TypeString | TypeFunction, "string|function"},
		{TypeList | TypeString, "string|list"},
		{0, "none"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", uint8(tt.t), got, tt.want)
		}
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		err  *ValidationError
		want string
	}{
		{NewNotATableError("string"), "options must be a table, got string"},
		{NewUnknownOptionError("colour"), `unknown option "colour"`},
		{NewTypeError("font.size", "number", "string"), `option "font.size": expected number, got string`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestJSONSchema(t *testing.T) {
	data, err := Freeze().MarshalJSONSchema()
	if err != nil {
		t.Fatalf("MarshalJSONSchema: %v", err)
	}
	doc := gjson.ParseBytes(data)

	if got := doc.Get("properties.theme.type").String(); got != "string" {
		t.Errorf("theme type = %q", got)
	}
	if got := doc.Get("properties.font.properties.size.type").String(); got != "number" {
		t.Errorf("font.size type = %q", got)
	}
	if got := doc.Get("properties.command.default").String(); got != "freeze" {
		t.Errorf("command default = %q", got)
	}
	if n := len(doc.Get("properties.padding.anyOf").Array()); n != 2 {
		t.Errorf("padding anyOf has %d entries, want 2", n)
	}
	if doc.Get("additionalProperties").Bool() {
		t.Error("additionalProperties should be false")
	}

	// properties keep declaration order
	var keys []string
	doc.Get("properties").ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	if len(keys) == 0 || keys[0] != "command" || keys[len(keys)-1] != "border" {
		t.Errorf("property order = %v", keys)
	}
}
