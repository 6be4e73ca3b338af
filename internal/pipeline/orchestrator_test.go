// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Courage-7/DocumentScrapper/internal/discover"
	"github.com/Courage-7/DocumentScrapper/internal/logger"
	"github.com/Courage-7/DocumentScrapper/internal/validate"
	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

type fakeDiscoverer struct {
	discovery discover.Discovery
	err       error
	gotClass  types.DocumentClass
}

func (f *fakeDiscoverer) Discover(_ context.Context, class types.DocumentClass) (discover.Discovery, error) {
	f.gotClass = class
	return f.discovery, f.err
}

type fakeDownloader struct {
	outcomes map[string]types.DownloadOutcome
	called   bool
}

func (f *fakeDownloader) FetchAll(_ context.Context, _ types.DocumentClass, docs []types.DiscoveredDocument) map[string]types.DownloadOutcome {
	f.called = true
	return f.outcomes
}

type fakeVerdicter struct {
	verdicts      map[string]types.ValidationVerdict
	gotCandidates []validate.Candidate
}

func (f *fakeVerdicter) ValidateAll(_ context.Context, _ types.DocumentClass, candidates []validate.Candidate) map[string]types.ValidationVerdict {
	f.gotCandidates = candidates
	return f.verdicts
}

func doc(id string) types.DiscoveredDocument {
	return types.DiscoveredDocument{ID: id, SourceURL: "https://example.com/" + id, ClassID: "test_class", FileTypeHint: "pdf"}
}

func succeeded(id string) types.DownloadOutcome {
	return types.DownloadOutcome{DocumentID: id, Status: types.DownloadSucceeded, LocalPath: "/tmp/" + id, ByteSize: 10, AttemptCount: 1}
}

func TestRun_CompletedRunPairsOutcomesAndVerdicts(t *testing.T) {
	d := &fakeDiscoverer{discovery: discover.Discovery{
		Documents: []types.DiscoveredDocument{doc("doc-1"), doc("doc-2"), doc("doc-3")},
	}}
	dl := &fakeDownloader{outcomes: map[string]types.DownloadOutcome{
		"doc-1": succeeded("doc-1"),
		"doc-2": succeeded("doc-2"),
		"doc-3": {DocumentID: "doc-3", Status: types.DownloadFailed, Error: "HTTP 503", AttemptCount: 3},
	}}
	v := &fakeVerdicter{verdicts: map[string]types.ValidationVerdict{
		"doc-1": {DocumentID: "doc-1", Passed: true},
		"doc-2": {DocumentID: "doc-2", Passed: false, FailedRules: []types.RuleFailure{{Rule: "size", Reason: "empty"}}},
	}}

	o := New(d, dl, v, logger.NewNop())
	report, err := o.Run(context.Background(), types.DocumentClass{ID: "test_class"}, RunOptions{})

	require.NoError(t, err)
	assert.Equal(t, types.StateCompleted, report.State)
	assert.True(t, report.State.Terminal())
	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.CompletedAt.IsZero())

	assert.Equal(t, 3, report.TotalDiscovered)
	assert.Equal(t, 2, report.TotalDownloaded)
	assert.Equal(t, 1, report.TotalValidatedPass)
	assert.Equal(t, 1, report.TotalValidatedFail)

	// Every discovered document carries an outcome.
	require.Len(t, report.PerDocument, 3)
	for _, rec := range report.PerDocument {
		require.NotNil(t, rec.Download, "no outcome for %s", rec.Document.ID)
	}

	// Verdicts exist exactly for succeeded downloads.
	assert.NotNil(t, report.Record("doc-1").Verdict)
	assert.NotNil(t, report.Record("doc-2").Verdict)
	assert.Nil(t, report.Record("doc-3").Verdict)

	// Only succeeded downloads were offered for validation.
	require.Len(t, v.gotCandidates, 2)
}

func TestRun_ZeroDiscoveryCompletesWithoutDownloading(t *testing.T) {
	d := &fakeDiscoverer{}
	dl := &fakeDownloader{}
	v := &fakeVerdicter{}

	o := New(d, dl, v, logger.NewNop())
	report, err := o.Run(context.Background(), types.DocumentClass{ID: "test_class"}, RunOptions{})

	require.NoError(t, err)
	assert.Equal(t, types.StateCompleted, report.State)
	assert.Zero(t, report.TotalDiscovered)
	assert.False(t, dl.called)
}

func TestRun_FatalDiscoveryAborts(t *testing.T) {
	cause := errors.New("search API auth failed: HTTP 401")
	d := &fakeDiscoverer{
		discovery: discover.Discovery{PatternErrors: []string{"pattern a: HTTP 401"}},
		err:       cause,
	}
	dl := &fakeDownloader{}

	o := New(d, dl, &fakeVerdicter{}, logger.NewNop())
	report, err := o.Run(context.Background(), types.DocumentClass{ID: "test_class"}, RunOptions{})

	require.ErrorIs(t, err, ErrRunAborted)
	require.ErrorIs(t, err, cause)
	require.NotNil(t, report)
	assert.Equal(t, types.StateAborted, report.State)
	assert.Equal(t, cause.Error(), report.AbortReason)
	assert.Equal(t, []string{"pattern a: HTTP 401"}, report.SearchErrors)
	assert.False(t, dl.called)
	assert.False(t, report.CompletedAt.IsZero())
}

func TestRun_LimitOverrideReplacesClassLimit(t *testing.T) {
	d := &fakeDiscoverer{}
	o := New(d, &fakeDownloader{}, &fakeVerdicter{}, logger.NewNop())

	class := types.DocumentClass{ID: "test_class", Limit: 10}
	_, err := o.Run(context.Background(), class, RunOptions{LimitOverride: 3})

	require.NoError(t, err)
	assert.Equal(t, 3, d.gotClass.Limit)
}

func TestRun_ZeroOverrideKeepsClassLimit(t *testing.T) {
	d := &fakeDiscoverer{}
	o := New(d, &fakeDownloader{}, &fakeVerdicter{}, logger.NewNop())

	_, err := o.Run(context.Background(), types.DocumentClass{ID: "test_class", Limit: 10}, RunOptions{})

	require.NoError(t, err)
	assert.Equal(t, 10, d.gotClass.Limit)
}

func TestRun_CancelledContextAbortsWithPartialReport(t *testing.T) {
	d := &fakeDiscoverer{discovery: discover.Discovery{
		Documents: []types.DiscoveredDocument{doc("doc-1"), doc("doc-2")},
	}}
	dl := &fakeDownloader{outcomes: map[string]types.DownloadOutcome{
		"doc-1": succeeded("doc-1"),
		"doc-2": {DocumentID: "doc-2", Status: types.DownloadSkipped, Error: "run cancelled"},
	}}
	v := &fakeVerdicter{verdicts: map[string]types.ValidationVerdict{
		"doc-1": {DocumentID: "doc-1", Passed: true},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := New(d, dl, v, logger.NewNop())
	report, err := o.Run(ctx, types.DocumentClass{ID: "test_class"}, RunOptions{})

	require.ErrorIs(t, err, ErrRunAborted)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, types.StateAborted, report.State)
	assert.NotEmpty(t, report.AbortReason)

	// Work resolved before the abort is preserved.
	assert.Equal(t, 2, report.TotalDiscovered)
	assert.Equal(t, 1, report.TotalDownloaded)
	assert.Equal(t, 1, report.TotalValidatedPass)
	assert.NotNil(t, report.Record("doc-1").Verdict)
}

func TestRun_SearchNotesSurviveSuccessfulRuns(t *testing.T) {
	d := &fakeDiscoverer{discovery: discover.Discovery{
		Documents:     []types.DiscoveredDocument{doc("doc-1")},
		PatternErrors: []string{"pattern b: exhausted retries"},
	}}
	dl := &fakeDownloader{outcomes: map[string]types.DownloadOutcome{"doc-1": succeeded("doc-1")}}
	v := &fakeVerdicter{verdicts: map[string]types.ValidationVerdict{"doc-1": {DocumentID: "doc-1", Passed: true}}}

	o := New(d, dl, v, logger.NewNop())
	report, err := o.Run(context.Background(), types.DocumentClass{ID: "test_class"}, RunOptions{})

	require.NoError(t, err)
	assert.Equal(t, types.StateCompleted, report.State)
	assert.Equal(t, []string{"pattern b: exhausted retries"}, report.SearchErrors)
}
