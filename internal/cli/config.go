package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"golang.org/x/term"

	"github.com/dshills/shutter/internal/app"
	"github.com/dshills/shutter/internal/config/value"
)

// functionPlaceholder stands in for function options, which have no JSON
// form until they are resolved.
const functionPlaceholder = "<function>"

func newConfigCommand(sessionOpts []app.SessionOption) *cobra.Command {
	return &cobra.Command{
		Use:   "config [PATH]",
		Short: "Print the effective configuration as JSON",
		Long: `Print the effective configuration, defaults included, as JSON.
PATH selects part of it with gjson syntax, for example font.size.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := newEnv(cmd, sessionOpts)
			if err != nil {
				return err
			}
			defer e.close()

			doc, err := tableJSON(e.configs.Current().Table())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				res := gjson.GetBytes(doc, args[0])
				if !res.Exists() {
					return fmt.Errorf("no option at %q", args[0])
				}
				doc = []byte(res.Raw)
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
}

// tableJSON encodes t as a JSON object, keeping key order.
func tableJSON(t *value.Table) ([]byte, error) {
	return setTable([]byte(`{}`), "", t)
}

func setTable(doc []byte, prefix string, t *value.Table) ([]byte, error) {
	var err error
	for key, v := range t.All() {
		path := prefix + key
		if sub, ok := v.AsTable(); ok {
			if doc, err = sjson.SetRawBytes(doc, path, []byte(`{}`)); err != nil {
				return nil, err
			}
			if doc, err = setTable(doc, path+".", sub); err != nil {
				return nil, err
			}
			continue
		}
		if doc, err = sjson.SetBytes(doc, path, jsonValue(v)); err != nil {
			return nil, fmt.Errorf("encode %s: %w", path, err)
		}
	}
	return doc, nil
}

func jsonValue(v value.Value) any {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		return s
	case value.KindBool:
		b, _ := v.AsBool()
		return b
	case value.KindNumber:
		n, _ := v.AsNumber()
		return n
	case value.KindList:
		items, _ := v.AsList()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = jsonValue(item)
		}
		return out
	case value.KindFunc:
		return functionPlaceholder
	default:
		return nil
	}
}

// writeJSON pretty-prints doc, in color when w is a terminal.
func writeJSON(w io.Writer, doc []byte) error {
	doc = pretty.Pretty(doc)
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		doc = pretty.Color(doc, nil)
	}
	_, err := w.Write(doc)
	return err
}
