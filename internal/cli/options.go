package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tidwall/match"

	"github.com/dshills/shutter/internal/config/schema"
)

func newOptionsCommand() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "options [PATTERN]",
		Short: "List configuration options, optionally filtered by a glob pattern",
		Example: `  shutter options
  shutter options 'font*' --long`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}
			return listOptions(cmd.OutOrStdout(), schema.Freeze(), pattern, long)
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "include nested fields, types and descriptions")
	return cmd
}

// listOptions writes the options whose name matches pattern. The short form
// is the completion list; the long form documents every field.
func listOptions(w io.Writer, s *schema.Schema, pattern string, long bool) error {
	if !long {
		for _, name := range s.Names() {
			if match.Match(name, pattern) {
				fmt.Fprintln(w, name)
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, opt := range s.Options() {
		if !match.Match(opt.Name, pattern) {
			continue
		}
		writeOption(tw, opt.Name, opt)
		for _, field := range opt.Fields {
			writeOption(tw, opt.Name+"."+field.Name, field)
		}
	}
	return tw.Flush()
}

func writeOption(w io.Writer, name string, opt *schema.Option) {
	typ := "record"
	if !opt.IsRecord() {
		typ = opt.Type.String()
	}
	if opt.Required {
		typ += " (required)"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\n", name, typ, opt.Description)
}
