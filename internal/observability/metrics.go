package observability

import (
	"sync"
	"time"
)

// JobRunStats captures counters for one recurring job.
type JobRunStats struct {
	Runs           int64         `json:"runs"`
	Failures       int64         `json:"failures"`
	RecordsTouched int64         `json:"records_touched"`
	LastDuration   time.Duration `json:"last_duration_ns"`
}

// JobMetrics provides in-memory per-job counters for the ops endpoint.
type JobMetrics struct {
	mu   sync.Mutex
	jobs map[string]JobRunStats
}

// NewJobMetrics initializes metrics storage.
func NewJobMetrics() *JobMetrics {
	return &JobMetrics{
		jobs: make(map[string]JobRunStats),
	}
}

// RecordRun records the outcome of one job execution.
func (m *JobMetrics) RecordRun(job string, duration time.Duration, records int, failed bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := m.jobs[job]
	stats.Runs++
	if failed {
		stats.Failures++
	}
	stats.RecordsTouched += int64(records)
	stats.LastDuration = duration
	m.jobs[job] = stats
}

// Snapshot returns a copy of all per-job counters.
func (m *JobMetrics) Snapshot() map[string]JobRunStats {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]JobRunStats, len(m.jobs))
	for name, stats := range m.jobs {
		out[name] = stats
	}
	return out
}
