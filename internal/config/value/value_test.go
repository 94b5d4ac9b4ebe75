package value

import (
	"testing"
)

func TestValue_Text(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"string", String("foo.png"), "foo.png"},
		{"integer number", Int(20), "20"},
		{"fraction", Number(1.5), "1.5"},
		{"bool", Bool(true), "true"},
		{"list", List(Int(1), String("2"), Number(3)), "1,2,3"},
		{"nil", Nil(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if KindBool.String() != "boolean" {
		t.Errorf("KindBool = %q", KindBool.String())
	}
	if KindFunc.String() != "function" {
		t.Errorf("KindFunc = %q", KindFunc.String())
	}
}

func TestTable_InsertionOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Set("output", String("a.png"))
	tbl.Set("window", Bool(true))
	tbl.Set("theme", String("dracula"))
	tbl.Set("output", String("b.png"))

	keys := tbl.Keys()
	want := []string{"output", "window", "theme"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	v, _ := tbl.Get("output")
	if s, _ := v.AsString(); s != "b.png" {
		t.Errorf("output = %q, want b.png", s)
	}
}

func TestTable_Delete(t *testing.T) {
	tbl := TableOf("a", 1, "b", 2, "c", 3)
	tbl.Delete("b")
	tbl.Delete("missing")

	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if keys := tbl.Keys(); keys[0] != "a" || keys[1] != "c" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestTable_Lookup(t *testing.T) {
	tbl := TableOf("font", TableOf("size", 14, "family", "Iosevka"))

	v, ok := tbl.Lookup("font.size")
	if !ok {
		t.Fatal("Lookup(font.size) not found")
	}
	if n, _ := v.AsNumber(); n != 14 {
		t.Errorf("font.size = %v, want 14", n)
	}

	if _, ok := tbl.Lookup("font.size.x"); ok {
		t.Error("Lookup through a scalar should fail")
	}
	if _, ok := tbl.Lookup("shadow.blur"); ok {
		t.Error("Lookup of missing table should fail")
	}
}

func TestMerge_Force(t *testing.T) {
	base := TableOf("command", "freeze", "font", TableOf("size", 12, "family", "Mono"))
	over := TableOf("font", TableOf("size", 20), "command", "freeze-dev", "theme", "nord")

	merged := Merge(base, over)

	keys := merged.Keys()
	want := []string{"command", "font", "theme"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}

	if v, _ := merged.Lookup("command"); v.Text() != "freeze-dev" {
		t.Errorf("command = %q, want freeze-dev", v.Text())
	}
	if v, _ := merged.Lookup("font.size"); v.Text() != "20" {
		t.Errorf("font.size = %q, want 20", v.Text())
	}
	if v, _ := merged.Lookup("font.family"); v.Text() != "Mono" {
		t.Errorf("font.family = %q, want Mono", v.Text())
	}

	// inputs are untouched
	if v, _ := base.Lookup("font.size"); v.Text() != "12" {
		t.Errorf("base mutated: font.size = %q", v.Text())
	}
}

func TestMerge_ScalarReplacesTable(t *testing.T) {
	base := TableOf("font", TableOf("size", 12))
	over := TableOf("font", "big")

	merged := Merge(base, over)
	v, _ := merged.Get("font")
	if v.Kind() != KindString {
		t.Errorf("font kind = %v, want string", v.Kind())
	}
}

func TestProviderFunc(t *testing.T) {
	p := ProviderFunc(func(ctx Context) (Value, error) {
		return String(ctx.FileType + ".png"), nil
	})

	v := Func(p)
	got, ok := v.AsProvider()
	if !ok {
		t.Fatal("AsProvider() failed")
	}
	res, err := got.Resolve(Context{FileType: "go"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Text() != "go.png" {
		t.Errorf("Resolve = %q, want go.png", res.Text())
	}

	if Func(nil).Kind() != KindNil {
		t.Error("Func(nil) should be nil")
	}
}

func TestValue_CloneIsDeep(t *testing.T) {
	inner := TableOf("size", 12)
	v := FromTable(TableOf("font", inner))
	c := v.Clone()

	inner.Set("size", Int(99))

	ct, _ := c.AsTable()
	if got, _ := ct.Lookup("font.size"); got.Text() != "12" {
		t.Errorf("clone shares nested table: %s", got.Text())
	}
}

func TestEqual(t *testing.T) {
	a := FromTable(TableOf("theme", "x", "padding", Strings("1", "2"), "font", TableOf("size", 12)))
	b := FromTable(TableOf("theme", "x", "padding", Strings("1", "2"), "font", TableOf("size", 12)))
	if !Equal(a, b) {
		t.Error("identical tables should be equal")
	}

	c := FromTable(TableOf("padding", Strings("1", "2"), "theme", "x", "font", TableOf("size", 12)))
	if Equal(a, c) {
		t.Error("tables with different key order should differ")
	}
	if Equal(String("1"), Int(1)) {
		t.Error("string and number should differ")
	}
	if !Equal(Nil(), Nil()) {
		t.Error("nil should equal nil")
	}

	p := &fixedProvider{v: String("x")}
	if !Equal(Func(p), Func(p)) {
		t.Error("same provider should be equal")
	}
	if Equal(Func(p), Func(&fixedProvider{v: String("x")})) {
		t.Error("distinct providers should differ")
	}
	// Function-backed providers are not comparable.
	if Equal(Func(Static(Nil())), Func(Static(Nil()))) {
		t.Error("func providers should never compare equal")
	}
}

type fixedProvider struct{ v Value }

func (p *fixedProvider) Resolve(Context) (Value, error) { return p.v, nil }
