package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts invocations and renderer timing.
type Metrics struct {
	invocations atomic.Uint64
	written     atomic.Uint64
	warned      atomic.Uint64
	failed      atomic.Uint64

	runCount   atomic.Uint64
	runTotalNs atomic.Int64
	runMinNs   atomic.Int64
	runMaxNs   atomic.Int64
	lastRunNs  atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	m.runMinNs.Store(1<<63 - 1)
	return m
}

// RecordInvocation counts an invocation that reached the compiler.
func (m *Metrics) RecordInvocation() {
	m.invocations.Add(1)
}

// RecordWritten counts a renderer run that reported a written image.
func (m *Metrics) RecordWritten() {
	m.written.Add(1)
}

// RecordWarned counts a renderer run that reported anything else.
func (m *Metrics) RecordWarned() {
	m.warned.Add(1)
}

// RecordFailed counts an invocation that ended in an error.
func (m *Metrics) RecordFailed() {
	m.failed.Add(1)
}

// RecordRun records how long the renderer ran.
func (m *Metrics) RecordRun(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.runCount.Add(1)
	m.runTotalNs.Add(ns)
	m.lastRunNs.Store(ns)

	for {
		old := m.runMinNs.Load()
		if ns >= old {
			break
		}
		if m.runMinNs.CompareAndSwap(old, ns) {
			break
		}
	}

	for {
		old := m.runMaxNs.Load()
		if ns <= old {
			break
		}
		if m.runMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	runCount := m.runCount.Load()

	var avgRunNs int64
	if runCount > 0 {
		avgRunNs = m.runTotalNs.Load() / int64(runCount)
	}

	minRunNs := m.runMinNs.Load()
	if minRunNs == 1<<63-1 {
		minRunNs = 0
	}

	return MetricsSnapshot{
		Uptime:      time.Since(m.startTime),
		Invocations: m.invocations.Load(),
		Written:     m.written.Load(),
		Warned:      m.warned.Load(),
		Failed:      m.failed.Load(),
		RunCount:    runCount,
		AvgRunNs:    avgRunNs,
		MinRunNs:    minRunNs,
		MaxRunNs:    m.runMaxNs.Load(),
		LastRunNs:   m.lastRunNs.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.invocations.Store(0)
	m.written.Store(0)
	m.warned.Store(0)
	m.failed.Store(0)
	m.runCount.Store(0)
	m.runTotalNs.Store(0)
	m.runMinNs.Store(1<<63 - 1)
	m.runMaxNs.Store(0)
	m.lastRunNs.Store(0)
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Uptime      time.Duration
	Invocations uint64
	Written     uint64
	Warned      uint64
	Failed      uint64
	RunCount    uint64
	AvgRunNs    int64
	MinRunNs    int64
	MaxRunNs    int64
	LastRunNs   int64
}

// SuccessRate returns the share of renderer runs that wrote an image.
func (s MetricsSnapshot) SuccessRate() float64 {
	if s.RunCount == 0 {
		return 0
	}
	return float64(s.Written) / float64(s.RunCount)
}

// AvgRun returns the mean renderer run time.
func (s MetricsSnapshot) AvgRun() time.Duration {
	return time.Duration(s.AvgRunNs)
}
