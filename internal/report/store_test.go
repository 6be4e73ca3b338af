// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

func sampleReport(runID string) *types.AcquisitionReport {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &types.AcquisitionReport{
		RunID:              runID,
		ClassID:            "utility_bill",
		RequestedAt:        now.Add(-time.Minute),
		CompletedAt:        now,
		State:              types.StateCompleted,
		SearchErrors:       []string{"pattern c: exhausted retries"},
		TotalDiscovered:    3,
		TotalDownloaded:    2,
		TotalValidatedPass: 1,
		TotalValidatedFail: 1,
		PerDocument: []types.DocumentRecord{
			{
				Document: types.DiscoveredDocument{
					ID: "doc-aaa", SourceURL: "https://example.com/a.pdf", ClassID: "utility_bill",
					Title: "Sample Bill", FileTypeHint: "pdf", DiscoveredAt: now.Add(-50 * time.Second),
				},
				Download: &types.DownloadOutcome{
					DocumentID: "doc-aaa", Status: types.DownloadSucceeded,
					LocalPath: "/data/raw_docs/utility_bill/doc-aaa.pdf", ByteSize: 2048, AttemptCount: 1,
				},
				Verdict: &types.ValidationVerdict{DocumentID: "doc-aaa", Passed: true},
			},
			{
				Document: types.DiscoveredDocument{
					ID: "doc-bbb", SourceURL: "https://example.com/b.pdf", ClassID: "utility_bill",
					FileTypeHint: "pdf", DiscoveredAt: now.Add(-40 * time.Second),
				},
				Download: &types.DownloadOutcome{
					DocumentID: "doc-bbb", Status: types.DownloadSucceeded,
					LocalPath: "/data/raw_docs/utility_bill/doc-bbb.pdf", ByteSize: 10, AttemptCount: 2,
				},
				Verdict: &types.ValidationVerdict{
					DocumentID: "doc-bbb", Passed: false,
					FailedRules: []types.RuleFailure{
						{Rule: "keywords", Reason: "none of the 8 class keywords found in artifact text"},
						{Rule: "filetype", Reason: "declared pdf but content signature does not match"},
					},
				},
			},
			{
				Document: types.DiscoveredDocument{
					ID: "doc-ccc", SourceURL: "https://example.com/c.exe", ClassID: "utility_bill",
					FileTypeHint: "exe", DiscoveredAt: now.Add(-30 * time.Second),
				},
				Download: &types.DownloadOutcome{
					DocumentID: "doc-ccc", Status: types.DownloadSkipped,
					Error: `file type "exe" not accepted for class utility_bill`,
				},
			},
		},
	}
}

func TestStore_SaveAndGetRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	original := sampleReport("run-1")
	require.NoError(t, store.Save(context.Background(), original))

	loaded, err := store.Get(context.Background(), "run-1")
	require.NoError(t, err)

	assert.Equal(t, original.RunID, loaded.RunID)
	assert.Equal(t, original.ClassID, loaded.ClassID)
	assert.Equal(t, original.State, loaded.State)
	assert.True(t, original.RequestedAt.Equal(loaded.RequestedAt))
	assert.True(t, original.CompletedAt.Equal(loaded.CompletedAt))
	assert.Equal(t, original.SearchErrors, loaded.SearchErrors)
	assert.Equal(t, original.TotalDiscovered, loaded.TotalDiscovered)
	assert.Equal(t, original.TotalDownloaded, loaded.TotalDownloaded)
	assert.Equal(t, original.TotalValidatedPass, loaded.TotalValidatedPass)
	assert.Equal(t, original.TotalValidatedFail, loaded.TotalValidatedFail)
	require.Len(t, loaded.PerDocument, 3)

	passing := loaded.Record("doc-aaa")
	require.NotNil(t, passing)
	assert.Equal(t, "Sample Bill", passing.Document.Title)
	require.NotNil(t, passing.Download)
	assert.Equal(t, types.DownloadSucceeded, passing.Download.Status)
	assert.Equal(t, int64(2048), passing.Download.ByteSize)
	require.NotNil(t, passing.Verdict)
	assert.True(t, passing.Verdict.Passed)
	assert.Empty(t, passing.Verdict.FailedRules)

	failing := loaded.Record("doc-bbb")
	require.NotNil(t, failing)
	require.NotNil(t, failing.Verdict)
	assert.False(t, failing.Verdict.Passed)
	require.Len(t, failing.Verdict.FailedRules, 2)
	assert.Equal(t, "keywords", failing.Verdict.FailedRules[0].Rule)

	skipped := loaded.Record("doc-ccc")
	require.NotNil(t, skipped)
	require.NotNil(t, skipped.Download)
	assert.Equal(t, types.DownloadSkipped, skipped.Download.Status)
	assert.Contains(t, skipped.Download.Error, "not accepted")
	assert.Nil(t, skipped.Verdict, "skipped downloads carry no verdict")
}

func TestStore_ListMostRecentFirst(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	older := sampleReport("run-old")
	older.RequestedAt = time.Now().UTC().Add(-2 * time.Hour)
	newer := sampleReport("run-new")

	require.NoError(t, store.Save(context.Background(), older))
	require.NoError(t, store.Save(context.Background(), newer))

	runs, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].RunID)
	assert.Equal(t, "run-old", runs[1].RunID)
	assert.Equal(t, 3, runs[0].TotalDiscovered)
	assert.Equal(t, types.StateCompleted, runs[0].State)
}

func TestStore_GetUnknownRun(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(context.Background(), "run-missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStore_DuplicateRunIDRejected(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(context.Background(), sampleReport("run-1")))
	assert.Error(t, store.Save(context.Background(), sampleReport("run-1")))
}

func TestStore_ReopensExistingDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), sampleReport("run-1")))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
