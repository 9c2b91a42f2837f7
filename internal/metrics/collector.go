// Package metrics provides in-memory runtime statistics for an analysis pass.
package metrics

import (
	"math"
	"sort"
	"sync"
	"time"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	TotalTimeUs int64   `json:"total_time_us"`
	AvgTimeUs   float64 `json:"avg_time_us"`
	MinTimeUs   int64   `json:"min_time_us"`
	MaxTimeUs   int64   `json:"max_time_us"`
}

// Snapshot represents the collected statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64            `json:"uptime_seconds"`
	Tokenize      *OperationSnapshot `json:"tokenize,omitempty"`
	Resolve       *OperationSnapshot `json:"resolve,omitempty"`
	Ingest        *OperationSnapshot `json:"ingest,omitempty"`
	LexiconLoad   *OperationSnapshot `json:"lexicon_load,omitempty"`
	Counters      map[string]int64   `json:"counters"`
}

// Operation names for the collector.
const (
	OpTokenize    = "tokenize"
	OpResolve     = "resolve"
	OpIngest      = "ingest"
	OpLexiconLoad = "lexicon_load"
)

// Counter names for the collector.
const (
	CounterUtterances = "utterances"
	CounterDefaulted  = "defaulted"
	CounterUnresolved = "unresolved"
	CounterEmotions   = "emotions"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe, and a nil *Collector discards everything.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
	counters  map[string]int64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
		counters:  make(map[string]int64),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// Time records the time elapsed since start for an operation.
// Typical use is defer c.Time(metrics.OpIngest, time.Now()).
func (c *Collector) Time(op string, start time.Time) {
	c.RecordTiming(op, time.Since(start))
}

// Add increments a counter by n.
func (c *Collector) Add(counter string, n int64) {
	if c == nil || n == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[counter] += n
}

// Counter returns the current value of a counter.
func (c *Collector) Counter(counter string) int64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counters[counter]
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}

	return &OperationSnapshot{
		Count:       m.Count,
		TotalTimeUs: m.TotalTime.Microseconds(),
		AvgTimeUs:   float64(m.TotalTime.Microseconds()) / float64(m.Count),
		MinTimeUs:   m.MinTime.Microseconds(),
		MaxTimeUs:   m.MaxTime.Microseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{Counters: map[string]int64{}}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	counters := make(map[string]int64, len(c.counters))
	for k, v := range c.counters {
		counters[k] = v
	}

	return Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Tokenize:      snapshotOp(c.ops[OpTokenize]),
		Resolve:       snapshotOp(c.ops[OpResolve]),
		Ingest:        snapshotOp(c.ops[OpIngest]),
		LexiconLoad:   snapshotOp(c.ops[OpLexiconLoad]),
		Counters:      counters,
	}
}

// CounterNames returns the names of all counters in sorted order.
func (s Snapshot) CounterNames() []string {
	names := make([]string, 0, len(s.Counters))
	for k := range s.Counters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
