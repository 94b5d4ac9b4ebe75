package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/shutter/internal/config/loader"
	"github.com/dshills/shutter/internal/config/notify"
	"github.com/dshills/shutter/internal/config/schema"
	"github.com/dshills/shutter/internal/config/value"
	"github.com/dshills/shutter/internal/config/watcher"
)

// Manager owns the current configuration. Readers call Current, which never
// blocks; loads and reloads build a new Config and swap it in atomically.
type Manager struct {
	mu sync.Mutex

	path     string
	fsys     loader.FileSystem
	schema   *schema.Schema
	debounce time.Duration
	async    int

	current  atomic.Pointer[Config]
	notifier *notify.Notifier

	closed bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithPath sets the configuration file. An empty path means defaults only.
func WithPath(path string) ManagerOption {
	return func(m *Manager) {
		m.path = path
	}
}

// WithSchema replaces the freeze option set.
func WithSchema(s *schema.Schema) ManagerOption {
	return func(m *Manager) {
		if s != nil {
			m.schema = s
		}
	}
}

// WithFileSystem sets the file system configuration is read from.
func WithFileSystem(fsys loader.FileSystem) ManagerOption {
	return func(m *Manager) {
		if fsys != nil {
			m.fsys = fsys
		}
	}
}

// WithDebounce sets how long Watch waits for writes to settle.
func WithDebounce(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.debounce = d
	}
}

// WithAsyncNotify delivers changes to subscribers from a separate goroutine,
// buffering up to size changes. Close delivers what is still buffered.
func WithAsyncNotify(size int) ManagerOption {
	return func(m *Manager) {
		m.async = size
	}
}

// NewManager creates a manager. Nothing is read until Load.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		fsys:     loader.DefaultFS(),
		schema:   schema.Freeze(),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.notifier = notify.New(notify.WithAsync(m.async))
	return m
}

// Path returns the configuration file path.
func (m *Manager) Path() string {
	return m.path
}

// Load reads and validates the configuration file. A missing file, or no
// path at all, installs the defaults. On error nothing is installed.
func (m *Manager) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg, err := m.read()
	if err != nil {
		return err
	}
	m.install(cfg, notify.ChangeReload)
	return nil
}

// Reload re-reads the configuration file. An invalid file is reported to
// subscribers as ChangeRejected and the current configuration is kept.
func (m *Manager) Reload() error {
	cfg, err := m.read()
	if err != nil {
		m.notifier.NotifyRejected(m.path, err)
		return err
	}
	m.install(cfg, notify.ChangeReload)
	return nil
}

// Set validates raw and installs it, as done by freeze.setup from a script.
// On error the current configuration is kept.
func (m *Manager) Set(raw value.Value, source string) (*Config, error) {
	cfg, err := NewWithSchema(m.schema, raw, source)
	if err != nil {
		return nil, err
	}
	m.install(cfg, notify.ChangeReload)
	return cfg, nil
}

// Current returns the installed configuration, or the defaults when
// nothing has been loaded yet.
func (m *Manager) Current() *Config {
	if cfg := m.current.Load(); cfg != nil {
		return cfg
	}
	return &Config{table: m.schema.Defaults(), schema: m.schema, loadedAt: time.Now()}
}

// Loaded reports whether a configuration has been installed.
func (m *Manager) Loaded() bool {
	return m.current.Load() != nil
}

// Subscribe registers an observer for every configuration change.
func (m *Manager) Subscribe(observer notify.Observer) *notify.Subscription {
	return m.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for one option and its fields.
func (m *Manager) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return m.notifier.SubscribePath(path, observer)
}

// Watch reloads the configuration whenever the file changes, until ctx is
// done. Load should be called first.
func (m *Manager) Watch(ctx context.Context) error {
	if m.path == "" {
		<-ctx.Done()
		return nil
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	m.mu.Unlock()

	w, err := watcher.New(
		watcher.WithDebounce(m.debounce),
		watcher.WithErrorHandler(func(err error) {
			m.notifier.NotifyRejected(m.path, err)
		}),
	)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Stop()

	if err := w.Watch(m.path); err != nil {
		return fmt.Errorf("watching %s: %w", m.path, err)
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		_ = m.Reload()
	})
	w.Start()

	<-ctx.Done()
	return nil
}

// Close releases the notifier. The current configuration stays readable.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.notifier.Close()
}

func (m *Manager) read() (*Config, error) {
	if m.path == "" {
		return &Config{table: m.schema.Defaults(), schema: m.schema, loadedAt: time.Now()}, nil
	}

	raw, err := loader.LoadFS(m.fsys, m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{table: m.schema.Defaults(), schema: m.schema, source: m.path, loadedAt: time.Now()}, nil
	}
	if err != nil {
		return nil, err
	}
	// An empty file is an empty configuration.
	if raw.IsNil() {
		raw = value.FromTable(value.NewTable())
	}

	cfg, err := NewWithSchema(m.schema, raw, m.path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.path, err)
	}
	return cfg, nil
}

func (m *Manager) install(cfg *Config, ct notify.ChangeType) {
	old := m.current.Swap(cfg)

	var oldTable *value.Table
	if old != nil {
		oldTable = old.table
	}
	batch := m.notifier.NewBatch()
	batch.Diff(oldTable, cfg.table, cfg.source)
	batch.Commit()
	m.notifier.Notify(notify.Change{Type: ct, Source: cfg.source})
}
