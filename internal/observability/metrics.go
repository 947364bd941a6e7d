package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	startedAt    time.Time
	requestCount map[string]int64
	errorCount   map[string]int64
	totalLatency time.Duration
	requests     int64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	UptimeSeconds    int64          `json:"uptime_seconds"`
	TotalRequests    int64          `json:"total_requests"`
	AverageLatencyMS float64        `json:"average_latency_ms"`
	Requests         []CounterEntry `json:"requests"`
	Errors           []CounterEntry `json:"errors"`
}

// CounterEntry is one labelled counter.
type CounterEntry struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		startedAt:    time.Now(),
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requests++
	m.totalLatency += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := method + " " + path + " " + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot copies the current counters, sorted by key.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{Requests: []CounterEntry{}, Errors: []CounterEntry{}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MetricsSnapshot{
		UptimeSeconds: int64(time.Since(m.startedAt).Seconds()),
		TotalRequests: m.requests,
		Requests:      sortedEntries(m.requestCount),
		Errors:        sortedEntries(m.errorCount),
	}
	if m.requests > 0 {
		avg := m.totalLatency / time.Duration(m.requests)
		snap.AverageLatencyMS = float64(avg.Microseconds()) / 1000
	}
	return snap
}

func sortedEntries(counts map[string]int64) []CounterEntry {
	entries := make([]CounterEntry, 0, len(counts))
	for key, count := range counts {
		entries = append(entries, CounterEntry{Key: key, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

func pathKey(path, method string, status int) string {
	return method + " " + path + " " + strconv.Itoa(status)
}
