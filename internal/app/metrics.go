package app

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/wimgen/internal/pack"
)

// Metrics tracks pack activity across a run or a watch session.
type Metrics struct {
	mu sync.RWMutex

	packs    atomic.Uint64
	failures atomic.Uint64
	bytes    atomic.Uint64
	totalNs  atomic.Int64

	lastDuration map[pack.Stage]time.Duration
	lastError    map[pack.Stage]error

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		lastDuration: make(map[pack.Stage]time.Duration),
		lastError:    make(map[pack.Stage]error),
		startTime:    time.Now(),
	}
}

// RecordPack records one stage attempt. size is the number of bytes written
// and is ignored when err is non-nil.
func (m *Metrics) RecordPack(stage pack.Stage, d time.Duration, size int, err error) {
	m.packs.Add(1)
	m.totalNs.Add(d.Nanoseconds())
	if err != nil {
		m.failures.Add(1)
	} else {
		m.bytes.Add(uint64(size))
	}

	m.mu.Lock()
	m.lastDuration[stage] = d
	m.lastError[stage] = err
	m.mu.Unlock()
}

// LastError returns the error of the most recent attempt of stage.
func (m *Metrics) LastError(stage pack.Stage) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError[stage]
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Packs        uint64
	Failures     uint64
	BytesWritten uint64
	TotalTime    time.Duration
	Uptime       time.Duration
	LastDuration map[pack.Stage]time.Duration
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	last := make(map[pack.Stage]time.Duration, len(m.lastDuration))
	for k, v := range m.lastDuration {
		last[k] = v
	}
	m.mu.RUnlock()

	return MetricsSnapshot{
		Packs:        m.packs.Load(),
		Failures:     m.failures.Load(),
		BytesWritten: m.bytes.Load(),
		TotalTime:    time.Duration(m.totalNs.Load()),
		Uptime:       time.Since(m.startTime),
		LastDuration: last,
	}
}
