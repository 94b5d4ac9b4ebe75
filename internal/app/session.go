package app

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/shutter/internal/compiler"
	"github.com/dshills/shutter/internal/config"
	"github.com/dshills/shutter/internal/config/value"
	"github.com/dshills/shutter/internal/integration/opener"
	"github.com/dshills/shutter/internal/integration/process"
	"github.com/dshills/shutter/internal/selection"
)

// wroteMarker is what the renderer prints when it has written an image.
// The path follows it after one separator character.
const wroteMarker = "WROTE"

// openToken is the bare invocation argument that opens the image.
const openToken = "open"

// Buffer is the text an invocation renders.
type Buffer interface {
	selection.Source
	Path() string
	FileType() string
}

// ConfigSource provides the configuration current at invocation time.
type ConfigSource interface {
	Current() *config.Config
}

// Runner runs the renderer to completion.
type Runner interface {
	Run(ctx context.Context, name string, argv []string, stdin string) (process.Result, error)
}

// Opener opens a written image.
type Opener interface {
	Open(path string) error
}

// Invocation is one compiled render, ready to run.
type Invocation struct {
	// ID tags the invocation in logs and notices.
	ID string

	// Config is the configuration with invocation overrides applied.
	Config *config.Config

	// Argv is the full renderer command line.
	Argv []string

	// Stdin is the selected text fed to the renderer.
	Stdin string

	// Span is the resolved selection.
	Span selection.Span

	// Language is the value passed with --language.
	Language string

	// Open reports whether the image is opened after it is written.
	Open bool
}

// Report is the outcome of a renderer run.
type Report struct {
	*Invocation

	// Result is the renderer's process result.
	Result process.Result

	// Written is the image path the renderer reported, or "".
	Written string

	// Opened reports whether the image was handed to the opener.
	Opened bool
}

// Success reports whether the renderer wrote an image.
func (r *Report) Success() bool {
	return r != nil && r.Written != ""
}

// Session runs invocations against the current configuration.
//
// Session is safe for concurrent use; invocations share nothing but the
// immutable configuration.
type Session struct {
	configs  ConfigSource
	runner   Runner
	opener   Opener
	notifier Notifier
	logger   *Logger
	metrics  *Metrics

	supervisor     *process.Supervisor
	supervisorOpts []process.SupervisorOption
	closed         atomic.Bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRunner sets the renderer runner.
func WithRunner(r Runner) SessionOption {
	return func(s *Session) {
		s.runner = r
	}
}

// WithOpener sets the image opener.
func WithOpener(o Opener) SessionOption {
	return func(s *Session) {
		s.opener = o
	}
}

// WithNotifier sets where notices are delivered.
func WithNotifier(n Notifier) SessionOption {
	return func(s *Session) {
		s.notifier = n
	}
}

// WithLogger sets the session logger.
func WithLogger(l *Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// WithMetrics sets the metrics tracker.
func WithMetrics(m *Metrics) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithSupervisorOptions configures the supervisor the session runs the
// renderer under. It has no effect together with WithRunner.
func WithSupervisorOptions(opts ...process.SupervisorOption) SessionOption {
	return func(s *Session) {
		s.supervisorOpts = append(s.supervisorOpts, opts...)
	}
}

// NewSession creates a session reading configuration from configs. Without
// a runner, renders run under a process supervisor owned by the session.
// Without an opener, images open through a separate supervisor that Close
// leaves alone, so viewers outlive the session.
func NewSession(configs ConfigSource, opts ...SessionOption) *Session {
	s := &Session{configs: configs}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = GetLogger()
	}
	s.logger = s.logger.WithComponent("session")

	if s.runner == nil {
		opts := append([]process.SupervisorOption{process.WithProcessExitCallback(s.logExit)}, s.supervisorOpts...)
		s.supervisor = process.NewSupervisor(opts...)
		s.runner = s.supervisor
	}
	if s.opener == nil {
		s.opener = opener.New(process.NewSupervisor())
	}
	if s.notifier == nil {
		s.notifier = LogNotifier{Logger: s.logger}
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	return s
}

func (s *Session) logExit(p *process.Process) {
	s.logger.Debug("%s %s exited with %d after %s", p.Name, p.ID, p.ExitCode(), p.Runtime())
}

// Metrics returns the session metrics.
func (s *Session) Metrics() *Metrics {
	return s.metrics
}

// Complete returns the sorted option names starting with prefix. The
// command option is never offered.
func (s *Session) Complete(prefix string) []string {
	var out []string
	for _, name := range s.configs.Current().Schema().Names() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

// Prepare compiles an invocation without running it.
func (s *Session) Prepare(buf Buffer, desc selection.Descriptor) (inv *Invocation, err error) {
	if buf == nil {
		return nil, ErrNoBuffer
	}
	if err := desc.Validate(); err != nil {
		return nil, NewOperationError("prepare", buf.Path(), err)
	}

	defer func() {
		if r := recover(); r != nil {
			inv = nil
			err = NewOperationError("prepare", buf.Path(), NewRecoveredPanicError(r, string(debug.Stack())))
		}
	}()

	cfg := s.configs.Current()
	over, err := config.ParseOverrides(cfg.Schema(), desc.Args)
	if err != nil {
		return nil, NewOperationError("prepare", buf.Path(), err)
	}
	if cfg, err = cfg.With(over); err != nil {
		return nil, NewOperationError("prepare", buf.Path(), err)
	}

	ctx := value.Context{
		Args:     desc.Args,
		Line1:    desc.Line1,
		Line2:    desc.Line2,
		Range:    desc.Range,
		Path:     buf.Path(),
		FileType: buf.FileType(),
	}
	argv, err := compiler.Compile(cfg.Table(), ctx)
	if err != nil {
		return nil, NewOperationError("prepare", buf.Path(), err)
	}

	span := selection.Resolve(buf, desc)
	if span.HasHighlight {
		argv = compiler.AppendLines(argv, span.Highlight)
	}
	configured, set := cfg.Language()
	language := resolveLanguage(desc.Args, configured, set, buf.FileType())
	argv = compiler.AppendLanguage(argv, language)

	return &Invocation{
		ID:       uuid.New().String(),
		Config:   cfg,
		Argv:     argv,
		Stdin:    strings.Join(selection.Text(buf, span), "\n"),
		Span:     span,
		Language: language,
		Open:     cfg.Open() || hasToken(desc.Args, openToken),
	}, nil
}

// resolveLanguage picks the explicit language= argument, then the
// configured language, then the buffer's file type. The last language=
// argument wins, as with other overrides. A configured language that is
// set to "" is still used.
func resolveLanguage(args []string, configured string, set bool, fileType string) string {
	explicit, found := "", false
	for _, tok := range args {
		if key, val, ok := strings.Cut(tok, "="); ok && key == "language" {
			explicit, found = val, true
		}
	}
	switch {
	case found:
		return explicit
	case set:
		return configured
	default:
		return fileType
	}
}

func hasToken(args []string, token string) bool {
	for _, a := range args {
		if a == token {
			return true
		}
	}
	return false
}

// Start compiles and runs one invocation and reports the outcome through
// the notifier. Renderer output without the success marker is a warning,
// not an error. A failed open returns the report along with the error.
func (s *Session) Start(ctx context.Context, buf Buffer, desc selection.Descriptor) (*Report, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}

	inv, err := s.Prepare(buf, desc)
	if err != nil {
		s.metrics.RecordFailed()
		s.logger.Error("%v", err)
		return nil, err
	}
	s.metrics.RecordInvocation()

	log := s.logger.WithField("invocation", inv.ID)
	log.Debug("running %s", strings.Join(inv.Argv, " "))

	res, err := s.runner.Run(ctx, "render", inv.Argv, inv.Stdin)
	s.metrics.RecordRun(res.Duration)
	if err != nil {
		s.metrics.RecordFailed()
		log.Error("render failed: %v", err)
		return nil, NewOperationError("render", buf.Path(), err)
	}

	report := &Report{Invocation: inv, Result: res}
	if !strings.Contains(res.Output, wroteMarker) {
		s.metrics.RecordWarned()
		s.notifier.Notify(Notice{ID: inv.ID, Level: NoticeWarn, Message: res.Output})
		return report, nil
	}

	s.metrics.RecordWritten()
	report.Written = writtenPath(res.Output)
	s.notifier.Notify(Notice{ID: inv.ID, Level: NoticeInfo, Message: report.Written})
	log.WithField("duration", res.Duration.Round(time.Millisecond).String()).Info("wrote %s", report.Written)

	if inv.Open && report.Written != "" {
		if err := s.opener.Open(report.Written); err != nil {
			s.notifier.Notify(Notice{ID: inv.ID, Level: NoticeWarn, Message: err.Error()})
			return report, NewOperationError("open", report.Written, err)
		}
		report.Opened = true
	}
	return report, nil
}

// writtenPath extracts the image path from renderer output: everything
// after the first six characters, without the trailing line ending.
func writtenPath(output string) string {
	if len(output) <= len(wroteMarker)+1 {
		return ""
	}
	return strings.TrimRight(output[len(wroteMarker)+1:], "\r\n")
}

// Close stops processes the session started. Further Start calls fail.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	if s.supervisor != nil {
		s.supervisor.Shutdown(time.Second)
	}
}

// String describes the invocation for logs.
func (inv *Invocation) String() string {
	return fmt.Sprintf("%s %s", inv.ID, strings.Join(inv.Argv, " "))
}
