package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/fdd-pipeline/internal/extract"
	"github.com/spherical-ai/fdd-pipeline/internal/monitor"
	"github.com/spherical-ai/fdd-pipeline/internal/observability"
	"github.com/spherical-ai/fdd-pipeline/internal/prompt"
	"github.com/spherical-ai/fdd-pipeline/internal/router"
	"github.com/spherical-ai/fdd-pipeline/internal/segment"
	"github.com/spherical-ai/fdd-pipeline/internal/store"
)

func TestFinalStatus_AllSucceededIsCompleted(t *testing.T) {
	sections := []SectionOutcome{{Status: store.StatusSuccess}, {Status: store.StatusSuccess}}
	assert.Equal(t, store.FDDCompleted, finalStatus(sections))
}

func TestFinalStatus_SomeFailedIsPartial(t *testing.T) {
	sections := []SectionOutcome{{Status: store.StatusSuccess}, {Status: store.StatusFailed}}
	assert.Equal(t, store.FDDPartial, finalStatus(sections))
}

func TestFinalStatus_NoneSucceededIsFailed(t *testing.T) {
	sections := []SectionOutcome{{Status: store.StatusFailed}, {Status: store.StatusFailed}}
	assert.Equal(t, store.FDDFailed, finalStatus(sections))
}

func TestFinalStatus_EmptyIsCompleted(t *testing.T) {
	assert.Equal(t, store.FDDCompleted, finalStatus(nil))
}

func TestFinalStatus_SkippedDoesNotCountAgainstCompletion(t *testing.T) {
	sections := []SectionOutcome{{Status: store.StatusSuccess}, {Status: store.StatusSkipped}}
	assert.Equal(t, store.FDDCompleted, finalStatus(sections))
}

func TestFilterTargets_DropsItemsWithoutSchema(t *testing.T) {
	artifacts := []segment.Artifact{{ItemNo: 1}, {ItemNo: 5}, {ItemNo: 20}}
	filtered := filterTargets(artifacts, nil)
	var itemNos []int
	for _, a := range filtered {
		itemNos = append(itemNos, a.ItemNo)
	}
	assert.ElementsMatch(t, []int{5, 20}, itemNos)
}

func TestFilterTargets_RestrictsToExplicitTargetList(t *testing.T) {
	artifacts := []segment.Artifact{{ItemNo: 5}, {ItemNo: 6}, {ItemNo: 20}}
	filtered := filterTargets(artifacts, []int{5})
	assert.Len(t, filtered, 1)
	assert.Equal(t, 5, filtered[0].ItemNo)
}

// TestRunExtractions_CancelledContextMarksQueuedItemsCancelled exercises a
// run whose context is cancelled while sections are still sitting in the
// work queue: every worker must observe ctx.Err() after dequeuing each item
// and mark it cancelled rather than attempting extraction.
func TestRunExtractions_CancelledContextMarksQueuedItemsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mem := store.NewMemorySectionStore()
	req := Request{FDDID: "fdd-1"}
	require.NoError(t, mem.UpsertFDD(ctx, store.FDDRecord{ID: req.FDDID, ProcessingStatus: store.FDDProcessing}))

	targets := make([]segment.Artifact, 0, 5)
	for i := 1; i <= 5; i++ {
		targets = append(targets, segment.Artifact{ItemNo: i})
		require.NoError(t, mem.UpsertArtifact(ctx, store.SectionRecord{FDDID: req.FDDID, ItemNo: i, ExtractionStatus: store.StatusPending}))
	}

	cat, err := prompt.LoadCatalog(t.TempDir())
	require.NoError(t, err)
	eng := extract.NewEngine(observability.Default(), cat, router.NewRouter(router.DefaultConfig(), nil), nil)
	mon := monitor.NewMonitor(observability.Default(), nil)

	c := NewCoordinator(observability.Default(), nil, nil, mem, eng, mon)

	results := c.runExtractions(ctx, req, targets)
	require.Len(t, results, len(targets))

	for _, r := range results {
		assert.Equal(t, store.StatusCancelled, r.Status)
		assert.Error(t, r.Err)
	}
}
