package schema

import (
	"sync"

	"github.com/dshills/shutter/internal/config/value"
)

// DefaultCommand is the renderer executable used when none is configured.
const DefaultCommand = "freeze"

var (
	freezeOnce   sync.Once
	freezeSchema *Schema
)

// Freeze returns the option set understood by the freeze renderer.
// The schema is built once and shared; it must not be modified.
func Freeze() *Schema {
	freezeOnce.Do(func() {
		freezeSchema = New(
			String("command").
				MarkRequired(value.String(DefaultCommand)).
				Describe("renderer executable"),
			Boolean("open").
				Describe("open the generated image after a successful run"),
			String("config").
				Describe("base renderer configuration (base, full, user or a path)"),
			Union("output", TypeString|TypeFunction).
				Describe("output file, or a function returning one"),
			Boolean("window").
				Describe("draw window controls"),
			Union("padding", TypeString|TypeList).WithItems(TypeString|TypeNumber).
				Describe("padding as CSS-style values"),
			Union("margin", TypeString|TypeList).WithItems(TypeString|TypeNumber).
				Describe("margin as CSS-style values"),
			String("background").
				Describe("background color"),
			String("theme").
				Describe("syntax highlighting theme"),
			String("language").
				Describe("language override for highlighting"),
			Boolean("show_line_numbers").
				Describe("render line numbers"),
			Number("line_height").
				Describe("line height relative to font size"),
			Record("font",
				Number("size"),
				String("family"),
				Boolean("ligatures"),
			).Describe("font settings"),
			Record("shadow",
				Number("blur"),
				Number("x"),
				Number("y"),
			).Describe("drop shadow settings"),
			Record("border",
				Number("radius"),
				Number("width"),
				String("color"),
			).Describe("window border settings"),
		)
	})
	return freezeSchema
}
