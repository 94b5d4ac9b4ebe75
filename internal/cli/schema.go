package cli

import (
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/dshills/shutter/internal/config/schema"
)

func newSchemaCommand() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the configuration JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := schema.Freeze().MarshalJSONSchema()
			if err != nil {
				return err
			}
			if compact {
				data = append(pretty.Ugly(data), '\n')
			} else {
				data = pretty.Pretty(data)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print on one line")
	return cmd
}
