package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dshills/shutter/internal/config/notify"
	"github.com/dshills/shutter/internal/config/schema"
	"github.com/dshills/shutter/internal/config/value"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestManager_NoPathUsesDefaults(t *testing.T) {
	m := NewManager()
	defer m.Close()

	if m.Loaded() {
		t.Error("Loaded() = true before Load")
	}
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !m.Loaded() {
		t.Error("Loaded() = false after Load")
	}
	if m.Current().Command() != "freeze" {
		t.Errorf("Command() = %q", m.Current().Command())
	}
}

func TestManager_MissingFileUsesDefaults(t *testing.T) {
	m := NewManager(WithPath(filepath.Join(t.TempDir(), "config.lua")))
	defer m.Close()

	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Current().Table().Len() != 1 {
		t.Errorf("keys = %v", m.Current().Table().Keys())
	}
}

func TestManager_LoadFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"config.lua":  `return { theme = "nord", window = true }`,
		"config.toml": "theme = \"nord\"\nwindow = true\n",
		"config.yaml": "theme: nord\nwindow: true\n",
		"config.json": `{"theme": "nord", "window": true}`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		writeFile(t, path, content)

		m := NewManager(WithPath(path))
		if err := m.Load(context.Background()); err != nil {
			t.Fatalf("%s: Load() error = %v", name, err)
		}
		cfg := m.Current()
		if v, _ := cfg.Get("theme"); v.Text() != "nord" {
			t.Errorf("%s: theme = %q", name, v.Text())
		}
		if cfg.Source() != path {
			t.Errorf("%s: Source() = %q", name, cfg.Source())
		}
		m.Close()
	}
}

func TestManager_LoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "colour = \"red\"\n")

	m := NewManager(WithPath(path))
	defer m.Close()

	err := m.Load(context.Background())
	if !errors.Is(err, schema.ErrUnknownOption) {
		t.Fatalf("Load() error = %v, want unknown option", err)
	}
	if m.Loaded() {
		t.Error("invalid config was installed")
	}
}

func TestManager_ReloadKeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"theme": "nord"}`)

	m := NewManager(WithPath(path))
	defer m.Close()
	if err := m.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	var rejected []notify.Change
	m.Subscribe(func(c notify.Change) {
		if c.Type == notify.ChangeRejected {
			rejected = append(rejected, c)
		}
	})

	writeFile(t, path, `{"theme": 3}`)
	if err := m.Reload(); !errors.Is(err, schema.ErrTypeMismatch) {
		t.Fatalf("Reload() error = %v", err)
	}
	if v, _ := m.Current().Get("theme"); v.Text() != "nord" {
		t.Errorf("theme = %q after rejected reload", v.Text())
	}
	if len(rejected) != 1 || rejected[0].Source != path {
		t.Errorf("rejected = %+v", rejected)
	}
}

func TestManager_SetNotifiesDiff(t *testing.T) {
	m := NewManager()
	defer m.Close()
	if err := m.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	var paths []string
	m.SubscribePath("font", func(c notify.Change) {
		paths = append(paths, c.Type.String()+":"+c.Path)
	})

	if _, err := m.Set(value.FromTable(value.TableOf("font", value.TableOf("size", 14))), "setup"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if len(paths) != 2 || paths[0] != "set:font" || paths[1] != "reload:" {
		t.Errorf("paths = %v", paths)
	}

	if _, err := m.Set(value.String("x"), "setup"); !errors.Is(err, schema.ErrNotATable) {
		t.Errorf("Set(string) error = %v", err)
	}
	if v, _ := m.Current().Get("font.size"); v.Text() != "14" {
		t.Errorf("font.size = %q after failed Set", v.Text())
	}
}

func TestManager_AsyncNotify(t *testing.T) {
	m := NewManager(WithAsyncNotify(4))

	changes := make(chan notify.Change, 8)
	m.SubscribePath("theme", func(c notify.Change) { changes <- c })

	if _, err := m.Set(value.FromTable(value.TableOf("theme", "nord")), "setup"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	m.Close()

	var got []string
	for len(changes) > 0 {
		c := <-changes
		got = append(got, c.Type.String()+":"+c.Path)
	}
	if len(got) != 2 || got[0] != "set:theme" || got[1] != "reload:" {
		t.Errorf("changes = %v", got)
	}
}

func TestManager_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "theme: nord\n")

	m := NewManager(WithPath(path), WithDebounce(20*time.Millisecond))
	defer m.Close()
	if err := m.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan struct{}, 1)
	var once sync.Once
	m.Subscribe(func(c notify.Change) {
		if c.Type == notify.ChangeReload {
			once.Do(func() { close(reloaded) })
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "theme: dracula\n")

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}
	if v, _ := m.Current().Get("theme"); v.Text() != "dracula" {
		t.Errorf("theme = %q after reload", v.Text())
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}
