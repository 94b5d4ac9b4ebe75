package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/shutter/internal/config/loader"
	"github.com/dshills/shutter/internal/config/schema"
	"github.com/dshills/shutter/internal/config/value"
)

func TestNew_MergesDefaultsFirst(t *testing.T) {
	cfg, err := New(value.FromTable(value.TableOf("output", "foo.png", "show_line_numbers", true)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := strings.Join(cfg.Table().Keys(), ","); got != "command,output,show_line_numbers" {
		t.Errorf("keys = %s", got)
	}
	if cfg.Command() != "freeze" {
		t.Errorf("Command() = %q", cfg.Command())
	}
	if cfg.Open() {
		t.Error("Open() = true without open option")
	}
}

func TestNew_UserCommandWins(t *testing.T) {
	cfg, err := New(value.FromTable(value.TableOf("command", "/opt/bin/freeze", "open", true, "language", "lua")))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Command() != "/opt/bin/freeze" {
		t.Errorf("Command() = %q", cfg.Command())
	}
	if !cfg.Open() {
		t.Error("Open() = false")
	}
	if lang, ok := cfg.Language(); !ok || lang != "lua" {
		t.Errorf("Language() = %q, %v", lang, ok)
	}
}

func TestNew_EmptyListFromEveryFormat(t *testing.T) {
	tests := []struct {
		source string
		data   string
	}{
		{"c.lua", "return { padding = {}, margin = {} }"},
		{"c.toml", "padding = []\nmargin = []\n"},
		{"c.yaml", "padding: []\nmargin: []\n"},
		{"c.json", `{"padding": [], "margin": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			l, err := loader.ForFormat(loader.DetectFormat(tt.source))
			if err != nil {
				t.Fatalf("ForFormat() error = %v", err)
			}
			raw, err := l.Parse(tt.source, []byte(tt.data))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			cfg, err := New(raw)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			for _, key := range []string{"padding", "margin"} {
				v, _ := cfg.Get(key)
				if v.Kind() != value.KindList || v.Len() != 0 {
					t.Errorf("%s = %v (%v), want empty list", key, v, v.Kind())
				}
			}
		})
	}
}

func TestConfig_EmptyLanguageIsSet(t *testing.T) {
	cfg, err := New(value.FromTable(value.TableOf("language", "")))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if lang, ok := cfg.Language(); !ok || lang != "" {
		t.Errorf("Language() = %q, %v, want \"\", true", lang, ok)
	}
	if _, ok := Default().Language(); ok {
		t.Error("Default().Language() reports set")
	}
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  value.Value
		want error
	}{
		{"not a table", value.String("dracula"), schema.ErrNotATable},
		{"unknown key", value.FromTable(value.TableOf("colour", "red")), schema.ErrUnknownOption},
		{"bad type", value.FromTable(value.TableOf("window", "yes")), schema.ErrTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.raw); !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Table().Len() != 1 || cfg.Command() != schema.DefaultCommand {
		t.Errorf("Default() = %v", cfg.Table().Keys())
	}
}

func TestConfig_TableIsCopy(t *testing.T) {
	cfg := Default()
	cfg.Table().Set("theme", value.String("x"))
	if _, ok := cfg.Get("theme"); ok {
		t.Error("mutating Table() leaked into the config")
	}
}

func TestConfig_With(t *testing.T) {
	base, err := New(value.FromTable(value.TableOf(
		"theme", "dracula",
		"font", value.TableOf("size", 12, "family", "Mono"),
	)))
	if err != nil {
		t.Fatal(err)
	}

	over, err := ParseOverrides(base.Schema(), []string{"font.size=16", "window=true", "theme=nord", "open", "unknown=1", "language=go"})
	if err != nil {
		t.Fatalf("ParseOverrides() error = %v", err)
	}
	cfg, err := base.With(over)
	if err != nil {
		t.Fatalf("With() error = %v", err)
	}

	if got := strings.Join(cfg.Table().Keys(), ","); got != "command,theme,font,window" {
		t.Errorf("keys = %s", got)
	}
	for path, want := range map[string]string{
		"theme":       "nord",
		"font.size":   "16",
		"font.family": "Mono",
		"window":      "true",
	} {
		if v, _ := cfg.Get(path); v.Text() != want {
			t.Errorf("%s = %q, want %q", path, v.Text(), want)
		}
	}
	if _, ok := cfg.Get("language"); ok {
		t.Error("language should not be applied as an override")
	}

	// The base configuration is untouched.
	if v, _ := base.Get("theme"); v.Text() != "dracula" {
		t.Errorf("base theme = %q", v.Text())
	}
}

func TestConfig_WithEmpty(t *testing.T) {
	cfg := Default()
	got, err := cfg.With(value.NewTable())
	if err != nil || got != cfg {
		t.Errorf("With(empty) = %p, %v; want same config", got, err)
	}
}

func TestConfig_WithRejectsCommand(t *testing.T) {
	cfg := Default()
	_, err := cfg.With(value.TableOf("command", "rm"))
	if !errors.Is(err, ErrInvalidOverride) {
		t.Errorf("With(command) error = %v", err)
	}
}

func TestParseOverrides(t *testing.T) {
	s := schema.Freeze()

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, over *value.Table)
	}{
		{
			name: "number coercion",
			args: []string{"line_height=1.5"},
			check: func(t *testing.T, over *value.Table) {
				v, _ := over.Get("line_height")
				if n, ok := v.AsNumber(); !ok || n != 1.5 {
					t.Errorf("line_height = %v", v)
				}
			},
		},
		{
			name: "list coercion",
			args: []string{"padding=20,40"},
			check: func(t *testing.T, over *value.Table) {
				v, _ := over.Get("padding")
				if v.Kind() != value.KindList || v.Text() != "20,40" {
					t.Errorf("padding = %v", v)
				}
			},
		},
		{
			name: "single padding is a one-item list",
			args: []string{"padding=20"},
			check: func(t *testing.T, over *value.Table) {
				v, _ := over.Get("padding")
				if v.Kind() != value.KindList || v.Len() != 1 || v.Text() != "20" {
					t.Errorf("padding = %v (%v)", v, v.Kind())
				}
			},
		},
		{
			name: "two fields of one record",
			args: []string{"shadow.x=1", "shadow.y=2"},
			check: func(t *testing.T, over *value.Table) {
				if v, _ := over.Lookup("shadow.y"); v.Text() != "2" {
					t.Errorf("shadow.y = %v", v)
				}
				if v, _ := over.Lookup("shadow.x"); v.Text() != "1" {
					t.Errorf("shadow.x = %v", v)
				}
			},
		},
		{
			name: "ignored tokens",
			args: []string{"open", "command=rm", "language=go", "=x", "nope=1"},
			check: func(t *testing.T, over *value.Table) {
				if over.Len() != 0 {
					t.Errorf("over = %v", over.Keys())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			over, err := ParseOverrides(s, tt.args)
			if err != nil {
				t.Fatalf("ParseOverrides() error = %v", err)
			}
			tt.check(t, over)
		})
	}
}

func TestParseOverrides_Errors(t *testing.T) {
	s := schema.Freeze()

	for _, args := range [][]string{
		{"window=maybe"},
		{"font.size=big"},
		{"font=Mono"},
	} {
		_, err := ParseOverrides(s, args)
		var oerr *OverrideError
		if !errors.As(err, &oerr) {
			t.Errorf("%v: error = %v, want *OverrideError", args, err)
			continue
		}
		if !errors.Is(err, schema.ErrTypeMismatch) {
			t.Errorf("%v: error = %v, want type mismatch", args, err)
		}
		if oerr.Token != args[0] {
			t.Errorf("Token = %q", oerr.Token)
		}
	}
}
