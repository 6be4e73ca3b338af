// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"context"
	"fmt"
	"sync"

	"github.com/Courage-7/DocumentScrapper/internal/logger"
	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

const defaultParallelism = 2

// defaultChain applies when a class configures no validator chain.
var defaultChain = []types.ValidatorSpec{
	{Kind: KindSize},
	{Kind: KindKeywords},
	{Kind: KindFileType},
}

// Engine runs validator chains against downloaded artifacts. Every validator
// in the chain executes even after one fails, so a verdict accumulates all
// failure reasons.
type Engine struct {
	registry *Registry
	cfg      types.ValidationConfig
	log      logger.Interface
}

// NewEngine builds an engine over the given registry.
func NewEngine(registry *Registry, cfg types.ValidationConfig, log logger.Interface) *Engine {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = defaultParallelism
	}
	return &Engine{registry: registry, cfg: cfg, log: log}
}

// Validate runs the class's chain against one succeeded download outcome.
// A validator that errors or panics contributes a failed rule with a
// diagnostic reason rather than aborting the chain.
func (e *Engine) Validate(doc types.DiscoveredDocument, outcome types.DownloadOutcome, class types.DocumentClass) types.ValidationVerdict {
	verdict := types.ValidationVerdict{DocumentID: doc.ID}

	art, err := LoadArtifact(doc, outcome)
	if err != nil {
		verdict.FailedRules = append(verdict.FailedRules, types.RuleFailure{
			Rule:   "artifact",
			Reason: err.Error(),
		})
		return verdict
	}

	chain := class.ValidatorChain
	if len(chain) == 0 {
		chain = defaultChain
	}

	for _, spec := range chain {
		v, buildErr := e.registry.Build(spec, e.cfg)
		if buildErr != nil {
			verdict.FailedRules = append(verdict.FailedRules, types.RuleFailure{
				Rule:   spec.Kind,
				Reason: buildErr.Error(),
			})
			continue
		}
		if evalErr := safeEvaluate(v, art, class); evalErr != nil {
			verdict.FailedRules = append(verdict.FailedRules, types.RuleFailure{
				Rule:   v.Name(),
				Reason: evalErr.Error(),
			})
		}
	}

	verdict.Passed = len(verdict.FailedRules) == 0
	e.log.Debug("artifact validated",
		"document_id", doc.ID, "passed", verdict.Passed, "failed_rules", len(verdict.FailedRules))
	return verdict
}

// Candidate pairs a document with its succeeded download outcome for batch
// validation.
type Candidate struct {
	Document types.DiscoveredDocument
	Outcome  types.DownloadOutcome
}

// ValidateAll validates candidates under the engine's bounded parallelism
// and returns one verdict per candidate, keyed by document ID. Verdict order
// is independent across documents; only the per-document chain order is fixed.
func (e *Engine) ValidateAll(ctx context.Context, class types.DocumentClass, candidates []Candidate) map[string]types.ValidationVerdict {
	verdicts := make(map[string]types.ValidationVerdict, len(candidates))
	if len(candidates) == 0 {
		return verdicts
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, e.cfg.Parallelism)
	)
	for _, cand := range candidates {
		wg.Add(1)
		go func(cand Candidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				// A cancelled run still gets verdicts so counts stay
				// consistent with downloads already completed.
				e.log.Debug("validating after cancellation", "document_id", cand.Document.ID)
			}
			v := e.Validate(cand.Document, cand.Outcome, class)

			mu.Lock()
			verdicts[cand.Document.ID] = v
			mu.Unlock()
		}(cand)
	}
	wg.Wait()
	return verdicts
}

// safeEvaluate shields the chain from panicking validators.
func safeEvaluate(v Validator, art Artifact, class types.DocumentClass) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validator panicked: %v", r)
		}
	}()
	return v.Evaluate(art, class)
}
