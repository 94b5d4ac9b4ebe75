package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/shutter/internal/app"
	"github.com/dshills/shutter/internal/plugin"
	"github.com/dshills/shutter/internal/plugin/api"
)

func newScriptCommand(sessionOpts []app.SessionOption) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "script SCRIPT FILE",
		Short: "Run a Lua script with the freeze and buf modules bound to FILE",
		Long: `Run a Lua script against FILE. The script sees two globals:
freeze (setup, run, complete, config) and buf (the file's lines and marks).
The --timeout flag limits the whole script.`,
		Example: `  shutter script render.lua main.go`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := newEnv(cmd, sessionOpts)
			if err != nil {
				return err
			}
			defer e.close()

			buf, _, err := openBuffer(cmd, args[1], nil, opts)
			if err != nil {
				return err
			}

			host, err := plugin.NewHost(
				&api.Context{Buffer: buf, Configs: e.configs, Session: e.session},
				plugin.WithHostExecutionTimeout(e.settings.Timeout),
			)
			if err != nil {
				return err
			}
			defer host.Close()
			return host.DoFile(args[0])
		},
	}
	cmd.Flags().IntVarP(&opts.Mark, "mark", "m", 0, "line to highlight (1-based)")
	cmd.Flags().StringVar(&opts.FileType, "filetype", "", "file type used as the default language")
	return cmd
}
