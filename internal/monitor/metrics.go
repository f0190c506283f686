// Package monitor implements the C7 Extraction Monitor: a scoped
// measurement wrapper around each extraction call, aggregated into
// rolling ExtractionMetrics.
package monitor

import (
	"sync"
	"time"

	"github.com/spherical-ai/fdd-pipeline/internal/router"
	"github.com/spherical-ai/fdd-pipeline/internal/store"
)

// Outcome is one completed extraction attempt's measurement.
type Outcome struct {
	FDDID         string
	ItemNo        int
	Model         *router.ModelHandle
	Status        store.ExtractionStatus
	TokenEstimate int
	Elapsed       time.Duration
}

type modelStats struct {
	calls        int
	successes    int
	totalElapsed time.Duration
}

// ExtractionMetrics aggregates extraction outcomes behind a mutex, the
// same guarded-struct shape the teacher uses for its in-process cache.
type ExtractionMetrics struct {
	mu sync.Mutex

	totalCalls   int
	successCount int
	failedCount  int
	skippedCount int
	totalElapsed time.Duration
	totalTokens  int
	byModel      map[router.ModelHandle]*modelStats
}

// NewExtractionMetrics builds an empty metrics aggregator.
func NewExtractionMetrics() *ExtractionMetrics {
	return &ExtractionMetrics{byModel: make(map[router.ModelHandle]*modelStats)}
}

// Record folds one outcome into the running aggregate.
func (m *ExtractionMetrics) Record(o Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCalls++
	m.totalElapsed += o.Elapsed
	m.totalTokens += o.TokenEstimate

	switch o.Status {
	case store.StatusSuccess:
		m.successCount++
	case store.StatusFailed:
		m.failedCount++
	case store.StatusSkipped:
		m.skippedCount++
	}

	if o.Model == nil {
		return
	}
	stats, ok := m.byModel[*o.Model]
	if !ok {
		stats = &modelStats{}
		m.byModel[*o.Model] = stats
	}
	stats.calls++
	stats.totalElapsed += o.Elapsed
	if o.Status == store.StatusSuccess {
		stats.successes++
	}
}

// MeanLatency returns the rolling mean elapsed time across all recorded
// calls, or zero if nothing has been recorded yet.
func (m *ExtractionMetrics) MeanLatency() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.totalCalls == 0 {
		return 0
	}
	return m.totalElapsed / time.Duration(m.totalCalls)
}

// ModelSnapshot is one model handle's aggregate within a Snapshot.
type ModelSnapshot struct {
	Handle        router.ModelHandle `json:"handle"`
	Calls         int                 `json:"calls"`
	Successes     int                 `json:"successes"`
	MeanLatencyMS int64               `json:"mean_latency_ms"`
}

// Snapshot is a JSON-serializable view of the aggregate metrics,
// suitable for the Redis snapshot cache or a session_summary response.
type Snapshot struct {
	TotalCalls          int             `json:"total_calls"`
	SuccessCount        int             `json:"success_count"`
	FailedCount         int             `json:"failed_count"`
	SkippedCount        int             `json:"skipped_count"`
	MeanLatencyMS       int64           `json:"mean_latency_ms"`
	TotalTokensEstimate int             `json:"total_tokens_estimate"`
	ByModel             []ModelSnapshot `json:"by_model"`
}

// Snapshot returns the current aggregate as a value safe to serialize
// or hand to another goroutine.
func (m *ExtractionMetrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	var mean time.Duration
	if m.totalCalls > 0 {
		mean = m.totalElapsed / time.Duration(m.totalCalls)
	}

	byModel := make([]ModelSnapshot, 0, len(m.byModel))
	for handle, stats := range m.byModel {
		var modelMean time.Duration
		if stats.calls > 0 {
			modelMean = stats.totalElapsed / time.Duration(stats.calls)
		}
		byModel = append(byModel, ModelSnapshot{
			Handle:        handle,
			Calls:         stats.calls,
			Successes:     stats.successes,
			MeanLatencyMS: modelMean.Milliseconds(),
		})
	}

	return Snapshot{
		TotalCalls:          m.totalCalls,
		SuccessCount:        m.successCount,
		FailedCount:         m.failedCount,
		SkippedCount:        m.skippedCount,
		MeanLatencyMS:       mean.Milliseconds(),
		TotalTokensEstimate: m.totalTokens,
		ByModel:             byModel,
	}
}

// SessionSummary is an alias for Snapshot used by C8 at the end of a run.
func (m *ExtractionMetrics) SessionSummary() Snapshot {
	return m.Snapshot()
}
