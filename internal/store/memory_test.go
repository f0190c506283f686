package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySectionStore_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySectionStore()

	record := SectionRecord{FDDID: "fdd-1", ItemNo: 5, ItemName: "Initial Fees", StartPage: 10, EndPage: 12}
	require.NoError(t, s.UpsertArtifact(ctx, record))
	require.NoError(t, s.UpsertArtifact(ctx, record))

	records, err := s.GetByFDD(ctx, "fdd-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, StatusPending, records[0].ExtractionStatus)
}

func TestMemorySectionStore_UpdateStatusIncrementsAttempts(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySectionStore()
	require.NoError(t, s.UpsertArtifact(ctx, SectionRecord{FDDID: "fdd-1", ItemNo: 5}))

	model := "local"
	require.NoError(t, s.UpdateStatus(ctx, "fdd-1", 5, StatusProcessing, &model, nil, nil))
	require.NoError(t, s.UpdateStatus(ctx, "fdd-1", 5, StatusSuccess, &model, nil, nil))

	records, err := s.GetByFDD(ctx, "fdd-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, StatusSuccess, records[0].ExtractionStatus)
	assert.Equal(t, 2, records[0].ExtractionAttempts)
}

func TestMemorySectionStore_UpdateStatusUnknownSectionFails(t *testing.T) {
	s := NewMemorySectionStore()
	err := s.UpdateStatus(context.Background(), "missing", 5, StatusSuccess, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySectionStore_FDDLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySectionStore()

	require.NoError(t, s.UpsertFDD(ctx, FDDRecord{ID: "fdd-1", TotalPages: 100, ProcessingStatus: FDDPending}))
	require.NoError(t, s.UpdateFDDStatus(ctx, "fdd-1", FDDCompleted, nil))

	fdd, err := s.GetFDD(ctx, "fdd-1")
	require.NoError(t, err)
	assert.Equal(t, FDDCompleted, fdd.ProcessingStatus)
}
