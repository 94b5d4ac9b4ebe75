package app

import "sync"

// NoticeLevel is the severity of a user-facing notice.
type NoticeLevel int

const (
	// NoticeInfo reports a successful render.
	NoticeInfo NoticeLevel = iota
	// NoticeWarn reports renderer output that was not a success.
	NoticeWarn
)

// String returns the level name.
func (l NoticeLevel) String() string {
	if l == NoticeWarn {
		return "warn"
	}
	return "info"
}

// Notice is a message for the user about one invocation.
type Notice struct {
	// ID is the invocation the notice belongs to.
	ID      string
	Level   NoticeLevel
	Message string
}

// Notifier delivers notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notice)

// Notify calls f.
func (f NotifierFunc) Notify(n Notice) { f(n) }

// LogNotifier writes notices to a logger.
type LogNotifier struct {
	Logger *Logger
}

// Notify logs the notice at its level.
func (ln LogNotifier) Notify(n Notice) {
	l := ln.Logger
	if l == nil {
		l = GetLogger()
	}
	l = l.WithField("invocation", n.ID)
	if n.Level == NoticeWarn {
		l.Warn("%s", n.Message)
		return
	}
	l.Info("%s", n.Message)
}

// Recorder collects notices in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify records n.
func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}
