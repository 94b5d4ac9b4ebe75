package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/shutter/internal/app"
	"github.com/dshills/shutter/internal/engine/buffer"
	"github.com/dshills/shutter/internal/selection"
)

func newCheckCommand(sessionOpts []app.SessionOption) *cobra.Command {
	return &cobra.Command{
		Use:   "check [key=value ...]",
		Short: "Validate the configuration and print the compiled command",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := newEnv(cmd, sessionOpts)
			if err != nil {
				return err
			}
			defer e.close()

			inv, err := e.session.Prepare(buffer.NewBuffer(), selection.Whole(args...))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config:  %s\n", sourceName(e.configs.Current()))
			fmt.Fprintf(out, "command: %s\n", strings.Join(inv.Argv, " "))
			return nil
		},
	}
}
