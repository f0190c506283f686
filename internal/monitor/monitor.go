package monitor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spherical-ai/fdd-pipeline/internal/observability"
	"github.com/spherical-ai/fdd-pipeline/internal/router"
	"github.com/spherical-ai/fdd-pipeline/internal/store"
)

// charsPerToken is the token estimate applied to every measured
// extraction: char_count / 4 (§4.7). Usage reported by a backend is not
// carried into Extraction, so it is never used in place of the estimate.
const charsPerToken = 4

// Extraction mirrors the subset of extract.Result the monitor needs to
// measure, kept narrow so this package does not import internal/extract.
type Extraction struct {
	ModelUsed  *router.ModelHandle
	Status     store.ExtractionStatus
	RawContent string
	Err        error
}

// SnapshotCache is the narrow interface the monitor needs from a cache
// backend, matching the teacher's cache.Client Get/Set/Close shape.
type SnapshotCache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

const snapshotTTL = 5 * time.Minute

// Monitor wraps each extraction call in a scoped measurement and
// aggregates the result into ExtractionMetrics, optionally mirroring a
// JSON snapshot into a configured cache for multi-process sharing.
type Monitor struct {
	metrics *ExtractionMetrics
	logger  *observability.Logger
	cache   SnapshotCache
}

// NewMonitor builds a Monitor. cache may be nil, in which case the
// monitor runs purely in-process.
func NewMonitor(logger *observability.Logger, cache SnapshotCache) *Monitor {
	return &Monitor{metrics: NewExtractionMetrics(), logger: logger, cache: cache}
}

// Metrics returns the underlying aggregate, e.g. for C8's session summary.
func (m *Monitor) Metrics() *ExtractionMetrics { return m.metrics }

// Measure runs fn, timing it and recording the result against fddID and
// itemNo. The Extraction returned by fn is passed through unchanged.
func (m *Monitor) Measure(ctx context.Context, fddID string, itemNo int, fn func() Extraction) Extraction {
	start := time.Now()
	result := fn()
	elapsed := time.Since(start)

	m.metrics.Record(Outcome{
		FDDID:         fddID,
		ItemNo:        itemNo,
		Model:         result.ModelUsed,
		Status:        result.Status,
		TokenEstimate: len(result.RawContent) / charsPerToken,
		Elapsed:       elapsed,
	})

	m.logger.With().Str("fdd_id", fddID).Int("item_no", itemNo).Logger().
		Debug().Str("status", string(result.Status)).Dur("elapsed", elapsed).Msg("extraction measured")

	m.publishSnapshot(ctx, fddID)
	return result
}

func (m *Monitor) publishSnapshot(ctx context.Context, fddID string) {
	if m.cache == nil {
		return
	}
	data, err := json.Marshal(m.metrics.Snapshot())
	if err != nil {
		return
	}
	if err := m.cache.Set(ctx, "fdd-pipeline:metrics:"+fddID, data, snapshotTTL); err != nil {
		m.logger.Warn().Err(err).Msg("failed to publish metrics snapshot to cache")
	}
}
