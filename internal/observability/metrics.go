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
	started      time.Time
	requestCount map[string]int64
	errorCount   map[string]int64
	emailCount   map[string]int64
	latencyTotal time.Duration
	requests     int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	UptimeSeconds    int64            `json:"uptime_seconds"`
	TotalRequests    int64            `json:"total_requests"`
	AverageLatencyMs float64          `json:"average_latency_ms"`
	Requests         map[string]int64 `json:"requests"`
	Errors           map[string]int64 `json:"errors"`
	Emails           map[string]int64 `json:"emails"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		started:      time.Now(),
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		emailCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requests++
	m.latencyTotal += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := pathKey(path, method, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordEmail counts an outbound email attempt by kind and outcome.
func (m *Metrics) RecordEmail(kind string, success bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if success {
		outcome = "sent"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emailCount[kind+"|"+outcome]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds: int64(time.Since(m.started).Seconds()),
		TotalRequests: m.requests,
		Requests:      copyCounts(m.requestCount),
		Errors:        copyCounts(m.errorCount),
		Emails:        copyCounts(m.emailCount),
	}
	if m.requests > 0 {
		snap.AverageLatencyMs = float64(m.latencyTotal.Microseconds()) / float64(m.requests) / 1000
	}
	return snap
}

// TopErrors returns the error keys ordered by count, highest first.
func (s Snapshot) TopErrors(n int) []string {
	keys := make([]string, 0, len(s.Errors))
	for k := range s.Errors {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if s.Errors[keys[i]] == s.Errors[keys[j]] {
			return keys[i] < keys[j]
		}
		return s.Errors[keys[i]] > s.Errors[keys[j]]
	})
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func copyCounts(src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func pathKey(path, method, suffix string) string {
	return path + "|" + method + "|" + suffix
}
