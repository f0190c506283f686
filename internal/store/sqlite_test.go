package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteSectionStore {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLiteSectionStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSectionStore_UpsertArtifactIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	record := SectionRecord{FDDID: "fdd-1", ItemNo: 7, ItemName: "Estimated Initial Investment", StartPage: 20, EndPage: 23, QualityScore: 0.9}
	require.NoError(t, s.UpsertArtifact(ctx, record))
	record.QualityScore = 0.95
	require.NoError(t, s.UpsertArtifact(ctx, record))

	records, err := s.GetByFDD(ctx, "fdd-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 0.95, records[0].QualityScore, 0.0001)
}

func TestSQLiteSectionStore_UpdateStatusUnknownSectionFails(t *testing.T) {
	s := newTestSQLiteStore(t)
	err := s.UpdateStatus(context.Background(), "missing", 5, StatusSuccess, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteSectionStore_FDDRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	name := "Acme Franchising"
	require.NoError(t, s.UpsertFDD(ctx, FDDRecord{ID: "fdd-1", FranchiseName: &name, TotalPages: 200, ProcessingStatus: FDDPending}))

	fdd, err := s.GetFDD(ctx, "fdd-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Franchising", *fdd.FranchiseName)
	assert.Equal(t, FDDPending, fdd.ProcessingStatus)
}
