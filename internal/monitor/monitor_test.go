package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/fdd-pipeline/internal/observability"
	"github.com/spherical-ai/fdd-pipeline/internal/router"
	"github.com/spherical-ai/fdd-pipeline/internal/store"
)

func TestExtractionMetrics_RecordAggregatesByStatus(t *testing.T) {
	m := NewExtractionMetrics()
	local := router.HandleLocal
	m.Record(Outcome{Status: store.StatusSuccess, Model: &local, Elapsed: 10 * time.Millisecond, TokenEstimate: 5})
	m.Record(Outcome{Status: store.StatusFailed, Elapsed: 20 * time.Millisecond})
	m.Record(Outcome{Status: store.StatusSkipped})

	snap := m.Snapshot()
	assert.Equal(t, 3, snap.TotalCalls)
	assert.Equal(t, 1, snap.SuccessCount)
	assert.Equal(t, 1, snap.FailedCount)
	assert.Equal(t, 1, snap.SkippedCount)
	assert.Equal(t, 5, snap.TotalTokensEstimate)
	require.Len(t, snap.ByModel, 1)
	assert.Equal(t, router.HandleLocal, snap.ByModel[0].Handle)
}

func TestExtractionMetrics_MeanLatency(t *testing.T) {
	m := NewExtractionMetrics()
	m.Record(Outcome{Status: store.StatusSuccess, Elapsed: 10 * time.Millisecond})
	m.Record(Outcome{Status: store.StatusSuccess, Elapsed: 30 * time.Millisecond})
	assert.Equal(t, 20*time.Millisecond, m.MeanLatency())
}

func TestExtractionMetrics_MeanLatencyZeroWhenEmpty(t *testing.T) {
	m := NewExtractionMetrics()
	assert.Equal(t, time.Duration(0), m.MeanLatency())
}

type fakeCache struct {
	sets []string
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.sets = append(f.sets, key)
	return nil
}
func (f *fakeCache) Close() error { return nil }

func TestMonitor_MeasureRecordsAndPublishesSnapshot(t *testing.T) {
	cache := &fakeCache{}
	mon := NewMonitor(observability.Default(), cache)

	local := router.HandleLocal
	result := mon.Measure(context.Background(), "fdd-1", 5, func() Extraction {
		return Extraction{ModelUsed: &local, Status: store.StatusSuccess, RawContent: "0123456789"}
	})

	assert.Equal(t, store.StatusSuccess, result.Status)
	assert.Equal(t, 1, mon.Metrics().Snapshot().TotalCalls)
	require.Len(t, cache.sets, 1)
	assert.Contains(t, cache.sets[0], "fdd-1")
}

func TestMonitor_MeasureWithoutCacheDoesNotPanic(t *testing.T) {
	mon := NewMonitor(observability.Default(), nil)
	result := mon.Measure(context.Background(), "fdd-1", 5, func() Extraction {
		return Extraction{Status: store.StatusSkipped}
	})
	assert.Equal(t, store.StatusSkipped, result.Status)
}
