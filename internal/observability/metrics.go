package observability

import (
	"strconv"
	"sync"
	"time"
)

type routeStat struct {
	count    int64
	totalDur time.Duration
}

// Metrics keeps in-process request and error counters keyed by route.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]*routeStat
	errors   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]*routeStat),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts a completed request and accumulates its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := method + " " + path + " " + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	stat, ok := m.requests[key]
	if !ok {
		stat = &routeStat{}
		m.requests[key] = stat
	}
	stat.count++
	stat.totalDur += duration
}

// RecordError counts a failed request by error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[method+" "+path+" "+code]++
}

// RequestSnapshot is a point-in-time view of one route's counters.
type RequestSnapshot struct {
	Key        string
	Count      int64
	AvgLatency time.Duration
}

// Snapshot returns per-route request counts with average latency, for health
// and debug endpoints.
func (m *Metrics) Snapshot() []RequestSnapshot {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RequestSnapshot, 0, len(m.requests))
	for key, stat := range m.requests {
		snap := RequestSnapshot{Key: key, Count: stat.count}
		if stat.count > 0 {
			snap.AvgLatency = stat.totalDur / time.Duration(stat.count)
		}
		out = append(out, snap)
	}
	return out
}
