package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/shutter/internal/app"
	"github.com/dshills/shutter/internal/config"
	"github.com/dshills/shutter/internal/engine/buffer"
	"github.com/dshills/shutter/internal/integration/process"
	"github.com/dshills/shutter/internal/plugin/api"
	plua "github.com/dshills/shutter/internal/plugin/lua"
)

type echoRunner struct{ argv []string }

func (r *echoRunner) Run(_ context.Context, _ string, argv []string, _ string) (process.Result, error) {
	r.argv = argv
	return process.Result{Output: "WROTE shot.png"}, nil
}

type nopOpener struct{}

func (nopOpener) Open(string) error { return nil }

type tagModule struct{}

func (tagModule) Name() string { return "tag" }

func (tagModule) Register(L *lua.LState) error {
	L.SetGlobal("tag", lua.LString("extra"))
	return nil
}

func newTestHost(t *testing.T, opts ...HostOption) (*Host, *echoRunner, *config.Manager) {
	t.Helper()
	mgr := config.NewManager()
	t.Cleanup(mgr.Close)
	runner := &echoRunner{}
	session := app.NewSession(mgr,
		app.WithRunner(runner),
		app.WithOpener(nopOpener{}),
		app.WithNotifier(&app.Recorder{}),
		app.WithLogger(app.NullLogger),
	)
	buf := buffer.NewBufferFromString("fn main() {}\n", buffer.WithPath("main.rs"))

	h, err := NewHost(&api.Context{Buffer: buf, Configs: mgr, Session: session}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h, runner, mgr
}

func TestHost_Modules(t *testing.T) {
	h, _, _ := newTestHost(t, WithModule(tagModule{}))
	assert.Equal(t, []string{"buf", "freeze", "tag"}, h.Modules())
	assert.Equal(t, lua.LString("extra"), h.GetGlobal("tag"))
}

func TestHost_DuplicateModule(t *testing.T) {
	_, err := NewHost(&api.Context{}, WithModule(api.NewBufferModule(&api.Context{})))
	assert.Error(t, err)
}

func TestHost_DoFile(t *testing.T) {
	h, runner, mgr := newTestHost(t, WithHostExecutionTimeout(0))

	script := filepath.Join(t.TempDir(), "shot.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
		freeze.setup({ theme = "nord", window = true })
		written = freeze.run({ args = { "language=rust2021" } })
	`), 0o644))

	require.NoError(t, h.DoFile(script))
	assert.Equal(t, []string{"freeze", "--theme", "nord", "--window", "--language", "rust2021"}, runner.argv)
	assert.Equal(t, lua.LString("shot.png"), h.GetGlobal("written"))
	assert.Equal(t, "lua", mgr.Current().Source())
}

func TestHost_DoFileErrors(t *testing.T) {
	h, _, _ := newTestHost(t)

	err := h.DoFile(filepath.Join(t.TempDir(), "missing.lua"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.lua")
	require.NoError(t, os.WriteFile(bad, []byte(`freeze.setup({ nope = true })`), 0o644))
	err = h.DoFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown option "nope"`)
}

func TestHost_Timeout(t *testing.T) {
	h, _, _ := newTestHost(t, WithHostExecutionTimeout(50*time.Millisecond))
	err := h.DoString(`while true do end`)
	assert.ErrorIs(t, err, plua.ErrExecutionTimeout)
}

func TestHost_Sandbox(t *testing.T) {
	h, _, _ := newTestHost(t)
	require.NoError(t, h.DoString(`has_os = os ~= nil; has_io = io ~= nil`))
	assert.Equal(t, lua.LFalse, h.GetGlobal("has_os"))
	assert.Equal(t, lua.LFalse, h.GetGlobal("has_io"))
}

func TestHost_Close(t *testing.T) {
	h, _, _ := newTestHost(t)
	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	assert.ErrorIs(t, h.DoString(`x = 1`), plua.ErrStateClosed)
}
