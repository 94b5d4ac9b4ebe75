package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/shutter/internal/app"
	"github.com/dshills/shutter/internal/config"
	"github.com/dshills/shutter/internal/config/schema"
	"github.com/dshills/shutter/internal/engine/buffer"
	"github.com/dshills/shutter/internal/selection"
)

// ErrNotWritten is returned when the renderer ran but reported no image.
var ErrNotWritten = errors.New("renderer did not write an image")

// renderOptions are the flags shared by commands that render a file.
type renderOptions struct {
	Range    string
	Mark     int
	FileType string
}

func addRenderFlags(flags *pflag.FlagSet, opts *renderOptions) {
	flags.StringVarP(&opts.Range, "range", "r", "", "lines to render, N or N:M (1-based, inclusive)")
	flags.IntVarP(&opts.Mark, "mark", "m", 0, "line to highlight (1-based)")
	flags.StringVar(&opts.FileType, "filetype", "", "file type used as the default language")
}

// NewRootCommand builds the shutter command tree. Session options are
// applied to every session the commands create.
func NewRootCommand(sessionOpts ...app.SessionOption) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "shutter [flags] FILE [key=value|open ...]",
		Short: "Render source code to an image with freeze",
		Long: `Render a file, or a line range of it, to an image by running the freeze
command with arguments compiled from the configuration.

Arguments after FILE override configuration options for this render
(theme=nord, font.size=14, window=true). A bare "open" opens the image
once it is written.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeOverrides,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := newEnv(cmd, sessionOpts)
			if err != nil {
				return err
			}
			defer e.close()
			return runRender(cmd, e, opts, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "", "configuration file (lua, toml, yaml or json)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: auto, console, json")
	pf.Duration("timeout", 0, "limit for one render, 0 for none")
	pf.StringArray("env", nil, "KEY=VALUE added to the renderer environment (repeatable)")
	pf.Int("max-renders", 0, "limit on concurrent renderer processes, 0 for none")
	addRenderFlags(cmd.Flags(), &opts)

	cmd.AddCommand(
		newCheckCommand(sessionOpts),
		newOptionsCommand(),
		newSchemaCommand(),
		newConfigCommand(sessionOpts),
		newWatchCommand(sessionOpts),
		newScriptCommand(sessionOpts),
	)
	return cmd
}

// env is what a command needs to render: settings, logger, configuration
// and a session over them.
type env struct {
	settings Settings
	logger   *app.Logger
	configs  *config.Manager
	session  *app.Session
}

func newEnv(cmd *cobra.Command, sessionOpts []app.SessionOption, managerOpts ...config.ManagerOption) (*env, error) {
	v, err := newViper(cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}
	settings := loadSettings(v)
	logger := settings.logger(cmd.ErrOrStderr())
	app.SetLogger(logger)

	managerOpts = append([]config.ManagerOption{config.WithPath(settings.resolveConfigPath())}, managerOpts...)
	configs := config.NewManager(managerOpts...)
	if err := configs.Load(cmd.Context()); err != nil {
		configs.Close()
		return nil, err
	}
	logger.Debug("configuration from %s", sourceName(configs.Current()))

	opts := []app.SessionOption{
		app.WithLogger(logger),
		app.WithNotifier(consoleNotifier{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}),
		app.WithSupervisorOptions(settings.supervisorOptions()...),
	}
	opts = append(opts, sessionOpts...)

	return &env{
		settings: settings,
		logger:   logger,
		configs:  configs,
		session:  app.NewSession(configs, opts...),
	}, nil
}

func (e *env) close() {
	e.session.Close()
	e.configs.Close()
}

// renderContext bounds one render by the configured timeout.
func (e *env) renderContext(parent context.Context) (context.Context, context.CancelFunc) {
	if e.settings.Timeout > 0 {
		return context.WithTimeout(parent, e.settings.Timeout)
	}
	return context.WithCancel(parent)
}

func sourceName(cfg *config.Config) string {
	if cfg.Source() == "" {
		return "(defaults)"
	}
	return cfg.Source()
}

// consoleNotifier prints written paths to out and warnings to err.
type consoleNotifier struct {
	out io.Writer
	err io.Writer
}

func (n consoleNotifier) Notify(notice app.Notice) {
	msg := strings.TrimRight(notice.Message, "\r\n")
	if notice.Level == app.NoticeWarn {
		fmt.Fprintln(n.err, msg)
		return
	}
	fmt.Fprintln(n.out, msg)
}

// openBuffer loads FILE, or standard input for "-", and builds the
// descriptor for the remaining arguments.
func openBuffer(cmd *cobra.Command, path string, args []string, opts renderOptions) (*buffer.Buffer, selection.Descriptor, error) {
	var bopts []buffer.Option
	if opts.FileType != "" {
		bopts = append(bopts, buffer.WithFileType(opts.FileType))
	}

	var (
		buf *buffer.Buffer
		err error
	)
	if path == "-" {
		buf, err = buffer.NewBufferFromReader(cmd.InOrStdin(), bopts...)
	} else {
		buf, err = buffer.Load(path, bopts...)
	}
	if err != nil {
		return nil, selection.Descriptor{}, err
	}

	desc, err := selection.ParseRange(opts.Range)
	if err != nil {
		return nil, selection.Descriptor{}, err
	}
	desc.Args = args

	if opts.Mark != 0 {
		if err := buf.SetMark(selection.HighlightMark, opts.Mark); err != nil {
			return nil, selection.Descriptor{}, err
		}
	}
	return buf, desc, nil
}

func runRender(cmd *cobra.Command, e *env, opts renderOptions, args []string) error {
	buf, desc, err := openBuffer(cmd, args[0], args[1:], opts)
	if err != nil {
		return err
	}

	ctx, cancel := e.renderContext(cmd.Context())
	defer cancel()

	report, err := e.session.Start(ctx, buf, desc)
	if err != nil {
		return err
	}
	if !report.Success() {
		return ErrNotWritten
	}
	return nil
}

// completeOverrides offers option names as key= tokens after FILE.
func completeOverrides(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	var out []string
	for _, name := range schema.Freeze().Names() {
		if strings.HasPrefix(name, toComplete) {
			out = append(out, name+"=")
		}
	}
	if strings.HasPrefix("open", toComplete) {
		out = append(out, "open")
	}
	return out, cobra.ShellCompDirectiveNoSpace
}
