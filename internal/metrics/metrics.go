package metrics

import (
	"sync"
	"time"
)

// Metrics aggregates dispatch outcomes, per-target selections and health
// transitions.
type Metrics struct {
	mutex        sync.RWMutex
	succeeded    int64
	failed       map[string]int64
	selections   map[string]int64
	healthStatus map[string]bool
	healthFlips  map[string]int64
	startTime    time.Time
}

// Snapshot is a point-in-time JSON view of the collected metrics.
type Snapshot struct {
	TotalDispatches int64            `json:"total_dispatches"`
	Succeeded       int64            `json:"succeeded"`
	FailedByReason  map[string]int64 `json:"failed_by_reason"`
	Selections      map[string]int64 `json:"selections"`
	HealthStatus    map[string]bool  `json:"health_status"`
	HealthFlips     map[string]int64 `json:"health_flips"`
	Strategy        string           `json:"strategy"`
	Uptime          time.Duration    `json:"uptime"`
}

// NewMetrics creates an empty metrics store.
func NewMetrics() *Metrics {
	return &Metrics{
		failed:       make(map[string]int64),
		selections:   make(map[string]int64),
		healthStatus: make(map[string]bool),
		healthFlips:  make(map[string]int64),
		startTime:    time.Now(),
	}
}

// RecordSuccess counts one handled dispatch.
func (m *Metrics) RecordSuccess() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.succeeded++
}

// RecordFailure counts one failed dispatch under the given reason.
func (m *Metrics) RecordFailure(reason string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.failed[reason]++
}

// RecordSelection counts one strategy selection of the given target.
func (m *Metrics) RecordSelection(target string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.selections[target]++
}

// UpdateHealthStatus records the latest observed health of a target and
// counts the transition.
func (m *Metrics) UpdateHealthStatus(target string, healthy bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.healthStatus[target] = healthy
	m.healthFlips[target]++
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot(strategy string) Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Succeeded:      m.succeeded,
		FailedByReason: make(map[string]int64, len(m.failed)),
		Selections:     make(map[string]int64, len(m.selections)),
		HealthStatus:   make(map[string]bool, len(m.healthStatus)),
		HealthFlips:    make(map[string]int64, len(m.healthFlips)),
		Strategy:       strategy,
		Uptime:         time.Since(m.startTime),
	}

	snap.TotalDispatches = m.succeeded
	for reason, count := range m.failed {
		snap.FailedByReason[reason] = count
		snap.TotalDispatches += count
	}
	for target, count := range m.selections {
		snap.Selections[target] = count
	}
	for target, healthy := range m.healthStatus {
		snap.HealthStatus[target] = healthy
	}
	for target, flips := range m.healthFlips {
		snap.HealthFlips[target] = flips
	}

	return snap
}
