// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Courage-7/DocumentScrapper/internal/logger"
	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

// storedArtifact writes data to a temp file and returns the matching
// document and succeeded outcome.
func storedArtifact(t *testing.T, name, fileType string, data []byte) (types.DiscoveredDocument, types.DownloadOutcome) {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	doc := types.DiscoveredDocument{ID: "doc-" + name, FileTypeHint: fileType}
	outcome := types.DownloadOutcome{
		DocumentID: doc.ID,
		Status:     types.DownloadSucceeded,
		LocalPath:  p,
		ByteSize:   int64(len(data)),
	}
	return doc, outcome
}

func newTestEngine() *Engine {
	return NewEngine(NewRegistry(), types.ValidationConfig{}, logger.NewNop())
}

func TestValidate_DefaultChainPasses(t *testing.T) {
	doc, outcome := storedArtifact(t, "a.pdf", "pdf", []byte("%PDF-1.4 commercial register extract for Acme GmbH"))
	class := types.DocumentClass{ID: "commercial_register", Keywords: []string{"register"}}

	verdict := newTestEngine().Validate(doc, outcome, class)

	assert.True(t, verdict.Passed)
	assert.Empty(t, verdict.FailedRules)
	assert.Equal(t, doc.ID, verdict.DocumentID)
}

func TestValidate_AccumulatesEveryFailure(t *testing.T) {
	// Empty pdf: fails the size minimum, the keyword check, and the
	// signature check. All three must be reported, in chain order.
	doc, outcome := storedArtifact(t, "a.pdf", "pdf", nil)
	class := types.DocumentClass{ID: "commercial_register", Keywords: []string{"register"}}

	verdict := newTestEngine().Validate(doc, outcome, class)

	require.False(t, verdict.Passed)
	require.Len(t, verdict.FailedRules, 3)
	assert.Equal(t, KindSize, verdict.FailedRules[0].Rule)
	assert.Equal(t, KindKeywords, verdict.FailedRules[1].Rule)
	assert.Equal(t, KindFileType, verdict.FailedRules[2].Rule)
	for _, f := range verdict.FailedRules {
		assert.NotEmpty(t, f.Reason)
	}
}

func TestValidate_ExplicitChainOverridesDefault(t *testing.T) {
	// Only the size rule runs, so the bogus signature goes unchecked.
	doc, outcome := storedArtifact(t, "a.pdf", "pdf", []byte("not a pdf at all"))
	class := types.DocumentClass{
		ID:             "test_class",
		ValidatorChain: []types.ValidatorSpec{{Kind: KindSize}},
	}

	verdict := newTestEngine().Validate(doc, outcome, class)

	assert.True(t, verdict.Passed)
}

func TestValidate_UnknownKindIsFailedRule(t *testing.T) {
	doc, outcome := storedArtifact(t, "a.pdf", "pdf", []byte("%PDF-1.4"))
	class := types.DocumentClass{
		ID: "test_class",
		ValidatorChain: []types.ValidatorSpec{
			{Kind: "no_such_kind"},
			{Kind: KindSize},
		},
	}

	verdict := newTestEngine().Validate(doc, outcome, class)

	require.False(t, verdict.Passed)
	require.Len(t, verdict.FailedRules, 1)
	assert.Equal(t, "no_such_kind", verdict.FailedRules[0].Rule)
	assert.Contains(t, verdict.FailedRules[0].Reason, "unknown validator kind")
}

type panicValidator struct{}

func (panicValidator) Name() string                                 { return "panicky" }
func (panicValidator) Evaluate(Artifact, types.DocumentClass) error { panic("kaboom") }

func TestValidate_PanickingValidatorIsFailedRule(t *testing.T) {
	registry := NewRegistry()
	registry.Register("panicky", func(types.ValidatorSpec, types.ValidationConfig) (Validator, error) {
		return panicValidator{}, nil
	})
	e := NewEngine(registry, types.ValidationConfig{}, logger.NewNop())

	doc, outcome := storedArtifact(t, "a.pdf", "pdf", []byte("%PDF-1.4"))
	class := types.DocumentClass{
		ID: "test_class",
		ValidatorChain: []types.ValidatorSpec{
			{Kind: "panicky"},
			{Kind: KindSize},
		},
	}

	verdict := e.Validate(doc, outcome, class)

	require.False(t, verdict.Passed)
	require.Len(t, verdict.FailedRules, 1)
	assert.Equal(t, "panicky", verdict.FailedRules[0].Rule)
	assert.Contains(t, verdict.FailedRules[0].Reason, "validator panicked")
}

func TestValidate_UnreadableArtifactFails(t *testing.T) {
	doc := types.DiscoveredDocument{ID: "doc-gone", FileTypeHint: "pdf"}
	outcome := types.DownloadOutcome{
		DocumentID: doc.ID,
		Status:     types.DownloadSucceeded,
		LocalPath:  filepath.Join(t.TempDir(), "missing.pdf"),
	}

	verdict := newTestEngine().Validate(doc, outcome, types.DocumentClass{ID: "test_class"})

	require.False(t, verdict.Passed)
	require.Len(t, verdict.FailedRules, 1)
	assert.Equal(t, "artifact", verdict.FailedRules[0].Rule)
}

func TestValidateAll_VerdictPerCandidate(t *testing.T) {
	class := types.DocumentClass{ID: "test_class"}
	var candidates []Candidate
	for i := 0; i < 5; i++ {
		data := []byte("%PDF-1.4 content")
		if i%2 == 1 {
			data = nil // fails the size minimum
		}
		doc, outcome := storedArtifact(t, fmt.Sprintf("a%d.pdf", i), "pdf", data)
		candidates = append(candidates, Candidate{Document: doc, Outcome: outcome})
	}

	verdicts := newTestEngine().ValidateAll(context.Background(), class, candidates)

	require.Len(t, verdicts, 5)
	var pass, fail int
	for _, cand := range candidates {
		v, ok := verdicts[cand.Document.ID]
		require.True(t, ok, "missing verdict for %s", cand.Document.ID)
		if v.Passed {
			pass++
		} else {
			fail++
		}
	}
	assert.Equal(t, 3, pass)
	assert.Equal(t, 2, fail)
}

func TestValidateAll_RunsEvenAfterCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc, outcome := storedArtifact(t, "a.pdf", "pdf", []byte("%PDF-1.4 content"))
	verdicts := newTestEngine().ValidateAll(ctx, types.DocumentClass{ID: "test_class"},
		[]Candidate{{Document: doc, Outcome: outcome}})

	require.Len(t, verdicts, 1)
	assert.True(t, verdicts[doc.ID].Passed)
}
