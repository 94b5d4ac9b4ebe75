package opener

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/shutter/internal/integration/process"
)

type recordingStarter struct {
	argv []string
	err  error
}

func (r *recordingStarter) Start(name string, argv []string) (*process.Process, error) {
	r.argv = argv
	return nil, r.err
}

func TestCommandFor(t *testing.T) {
	assert.Equal(t, []string{"open"}, CommandFor("darwin"))
	assert.Equal(t, []string{"xdg-open"}, CommandFor("linux"))
	assert.Equal(t, []string{"cmd", "/c", "start", ""}, CommandFor("windows"))
	assert.Nil(t, CommandFor("plan9"))
}

func TestOpener_Open(t *testing.T) {
	rec := &recordingStarter{}
	o := New(rec, WithCommand("viewer", "--new"))

	require.NoError(t, o.Open("/tmp/shot.png"))
	assert.Equal(t, []string{"viewer", "--new", "/tmp/shot.png"}, rec.argv)

	// The configured command is not modified between calls.
	require.NoError(t, o.Open("/tmp/other.png"))
	assert.Equal(t, []string{"viewer", "--new", "/tmp/other.png"}, rec.argv)
}

func TestOpener_Errors(t *testing.T) {
	boom := errors.New("boom")
	o := New(&recordingStarter{err: boom}, WithCommand("viewer"))
	assert.ErrorIs(t, o.Open("x.png"), boom)

	o = New(&recordingStarter{}, WithCommand())
	assert.ErrorIs(t, o.Open("x.png"), ErrUnsupportedPlatform)
}

func TestOpener_WithSupervisor(t *testing.T) {
	s := process.NewSupervisor()
	defer s.Shutdown(time.Second)

	o := New(s, WithCommand("true"))
	require.NoError(t, o.Open("ignored.png"))
}
