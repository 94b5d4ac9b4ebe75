// Package notify provides change notification for configuration updates.
//
// Observers subscribe either to every change or to an option path such as
// "font"; a path subscription also receives changes to nested options like
// "font.size". Reload and rejection events carry no path and reach every
// observer.
package notify

import (
	"sync"

	"github.com/dshills/shutter/internal/config/value"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeSet indicates an option was added or its value changed.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates an option was removed.
	ChangeDelete

	// ChangeReload indicates a new configuration was installed.
	ChangeReload

	// ChangeRejected indicates a candidate configuration failed to load
	// or validate and the previous one was kept.
	ChangeRejected
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	case ChangeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Change represents a configuration change event.
type Change struct {
	// Path is the dotted option path. Empty for reload and reject events.
	Path string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous value (Nil for additions).
	OldValue value.Value

	// NewValue is the new value (Nil for deletes).
	NewValue value.Value

	// Source identifies where the change came from, usually a file path.
	Source string

	// Err is set for ChangeRejected.
	Err error
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	path     string
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages configuration change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	globalObservers map[uint64]Observer
	pathObservers   map[string]map[uint64]Observer
	nextID          uint64

	async  bool
	buffer chan Change
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAsync enables asynchronous notification delivery.
func WithAsync(bufferSize int) Option {
	return func(n *Notifier) {
		if bufferSize > 0 {
			n.async = true
			n.buffer = make(chan Change, bufferSize)
		}
	}
}

// New creates a new Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		globalObservers: make(map[uint64]Observer),
		pathObservers:   make(map[string]map[uint64]Observer),
		done:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.async {
		n.wg.Add(1)
		go n.processAsync()
	}

	return n
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.globalObservers[id] = observer

	return &Subscription{id: id, notifier: n}
}

// SubscribePath registers an observer for changes to an option path and
// everything below it.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++

	if n.pathObservers[path] == nil {
		n.pathObservers[path] = make(map[uint64]Observer)
	}
	n.pathObservers[path][id] = observer

	return &Subscription{id: id, path: path, notifier: n}
}

// Notify sends a change notification to all relevant observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	n.mu.RUnlock()

	if n.async {
		select {
		case n.buffer <- change:
		case <-n.done:
		}
		return
	}

	n.deliverChange(change)
}

// NotifyReload is a convenience method for reload events.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{Type: ChangeReload, Source: source})
}

// NotifyRejected is a convenience method for rejected reloads.
func (n *Notifier) NotifyRejected(source string, err error) {
	n.Notify(Change{Type: ChangeRejected, Source: source, Err: err})
}

// Close shuts down the notifier. It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()

	close(n.done)
	n.wg.Wait()
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.globalObservers, id)

	for path, observers := range n.pathObservers {
		delete(observers, id)
		if len(observers) == 0 {
			delete(n.pathObservers, path)
		}
	}
}

// deliverChange sends a change to all matching observers.
func (n *Notifier) deliverChange(change Change) {
	n.mu.RLock()

	var observers []Observer
	for _, obs := range n.globalObservers {
		observers = append(observers, obs)
	}

	if change.Path != "" {
		for path, pathObs := range n.pathObservers {
			if path == change.Path || isParentPath(path, change.Path) {
				for _, obs := range pathObs {
					observers = append(observers, obs)
				}
			}
		}
	} else {
		for _, pathObs := range n.pathObservers {
			for _, obs := range pathObs {
				observers = append(observers, obs)
			}
		}
	}

	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(change)
	}
}

func (n *Notifier) processAsync() {
	defer n.wg.Done()

	for {
		select {
		case change := <-n.buffer:
			n.deliverChange(change)
		case <-n.done:
			// Drain remaining buffered changes
			for {
				select {
				case change := <-n.buffer:
					n.deliverChange(change)
				default:
					return
				}
			}
		}
	}
}

// isParentPath checks if parent is a parent path of child.
// e.g., "font" is parent of "font.size".
func isParentPath(parent, child string) bool {
	if parent == "" {
		return true
	}
	return len(child) > len(parent) && child[:len(parent)] == parent && child[len(parent)] == '.'
}

// Batch collects multiple changes and delivers them as a group.
type Batch struct {
	notifier *Notifier
	changes  []Change
	mu       sync.Mutex
}

// NewBatch creates a new batch for collecting changes.
func (n *Notifier) NewBatch() *Batch {
	return &Batch{notifier: n}
}

// Add adds a change to the batch.
func (b *Batch) Add(change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = append(b.changes, change)
}

// Commit sends all batched changes to observers.
func (b *Batch) Commit() {
	b.mu.Lock()
	changes := b.changes
	b.changes = nil
	b.mu.Unlock()

	for _, change := range changes {
		b.notifier.Notify(change)
	}
}

// Discard clears the batch without sending notifications.
func (b *Batch) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = nil
}

// Len returns the number of pending changes.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.changes)
}

// Diff appends to the batch one change per option path that differs
// between old and new. Either table may be nil.
func (b *Batch) Diff(old, new *value.Table, source string) {
	diffTables("", old, new, source, b)
}

func diffTables(prefix string, old, new *value.Table, source string, b *Batch) {
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}

	if old != nil {
		for k, ov := range old.All() {
			nv, ok := lookup(new, k)
			if !ok {
				b.Add(Change{Path: join(k), Type: ChangeDelete, OldValue: ov, NewValue: value.Nil(), Source: source})
				continue
			}
			ot, oIsTable := ov.AsTable()
			nt, nIsTable := nv.AsTable()
			if oIsTable && nIsTable {
				diffTables(join(k), ot, nt, source, b)
				continue
			}
			if !value.Equal(ov, nv) {
				b.Add(Change{Path: join(k), Type: ChangeSet, OldValue: ov, NewValue: nv, Source: source})
			}
		}
	}
	if new != nil {
		for k, nv := range new.All() {
			if _, ok := lookup(old, k); !ok {
				b.Add(Change{Path: join(k), Type: ChangeSet, OldValue: value.Nil(), NewValue: nv, Source: source})
			}
		}
	}
}

func lookup(t *value.Table, key string) (value.Value, bool) {
	if t == nil {
		return value.Nil(), false
	}
	return t.Get(key)
}
