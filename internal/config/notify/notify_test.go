package notify

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/shutter/internal/config/value"
)

func TestNew_WithAsync(t *testing.T) {
	n := New(WithAsync(100))
	defer n.Close()
	if !n.async {
		t.Error("expected async = true")
	}
}

func TestChangeType_String(t *testing.T) {
	tests := []struct {
		ct   ChangeType
		want string
	}{
		{ChangeSet, "set"},
		{ChangeDelete, "delete"},
		{ChangeReload, "reload"},
		{ChangeRejected, "rejected"},
		{ChangeType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("ChangeType(%d).String() = %q, want %q", int(tt.ct), got, tt.want)
		}
	}
}

func TestNotifier_Subscribe(t *testing.T) {
	n := New()
	defer n.Close()

	var received atomic.Int32
	sub := n.Subscribe(func(change Change) {
		received.Add(1)
	})

	n.Notify(Change{Path: "theme", Type: ChangeSet})
	if received.Load() != 1 {
		t.Fatalf("received = %d, want 1", received.Load())
	}

	sub.Unsubscribe()
	n.Notify(Change{Path: "theme", Type: ChangeSet})
	if received.Load() != 1 {
		t.Error("observer called after Unsubscribe")
	}
}

func TestNotifier_SubscribePath(t *testing.T) {
	n := New()
	defer n.Close()

	var got []string
	n.SubscribePath("font", func(change Change) {
		got = append(got, change.Type.String()+":"+change.Path)
	})

	n.Notify(Change{Path: "font.size", Type: ChangeSet})
	n.Notify(Change{Path: "font", Type: ChangeDelete})
	n.Notify(Change{Path: "fontfamily", Type: ChangeSet})
	n.Notify(Change{Path: "theme", Type: ChangeSet})
	n.NotifyReload("config.lua")

	want := []string{"set:font.size", "delete:font", "reload:"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNotifier_Rejected(t *testing.T) {
	n := New()
	defer n.Close()

	boom := errors.New("boom")
	var seen Change
	n.Subscribe(func(c Change) { seen = c })
	n.NotifyRejected("config.toml", boom)

	if seen.Type != ChangeRejected || !errors.Is(seen.Err, boom) || seen.Source != "config.toml" {
		t.Errorf("change = %+v", seen)
	}
}

func TestNotifier_Async(t *testing.T) {
	n := New(WithAsync(10))

	var mu sync.Mutex
	count := 0
	n.Subscribe(func(Change) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	for i := 0; i < 5; i++ {
		n.NotifyReload("x")
	}
	n.Close()

	mu.Lock()
	defer mu.Unlock()
	if count != 5 {
		t.Errorf("count = %d, want 5 after Close drains", count)
	}

	// Notify after Close is a no-op.
	done := make(chan struct{})
	go func() {
		n.NotifyReload("late")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked after Close")
	}
}

func TestIsParentPath(t *testing.T) {
	tests := []struct {
		parent, child string
		want          bool
	}{
		{"font", "font.size", true},
		{"", "font", true},
		{"font", "font", false},
		{"font", "fonts.size", false},
		{"font.size", "font", false},
	}
	for _, tt := range tests {
		if got := isParentPath(tt.parent, tt.child); got != tt.want {
			t.Errorf("isParentPath(%q, %q) = %v, want %v", tt.parent, tt.child, got, tt.want)
		}
	}
}

func TestBatch_Diff(t *testing.T) {
	n := New()
	defer n.Close()

	var got []string
	n.Subscribe(func(c Change) {
		got = append(got, c.Type.String()+":"+c.Path)
	})

	old := value.TableOf("theme", "nord", "window", true, "font", value.TableOf("size", 12, "family", "Mono"))
	new := value.TableOf("theme", "dracula", "font", value.TableOf("size", 12, "ligatures", false), "output", "a.png")

	b := n.NewBatch()
	b.Diff(old, new, "config.lua")
	if b.Len() != 5 {
		t.Fatalf("batch len = %d, want 5", b.Len())
	}
	b.Commit()

	sort.Strings(got)
	want := []string{"delete:font.family", "delete:window", "set:font.ligatures", "set:output", "set:theme"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBatch_DiffFromNothing(t *testing.T) {
	n := New()
	defer n.Close()

	b := n.NewBatch()
	b.Diff(nil, value.TableOf("command", "freeze", "theme", "x"), "")
	if b.Len() != 2 {
		t.Errorf("batch len = %d, want 2", b.Len())
	}
	b.Discard()
	if b.Len() != 0 {
		t.Error("Discard did not clear the batch")
	}
}
