// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives one acquisition run through its stages:
// discovery, download, validation, report assembly.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Courage-7/DocumentScrapper/internal/discover"
	"github.com/Courage-7/DocumentScrapper/internal/logger"
	"github.com/Courage-7/DocumentScrapper/internal/validate"
	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

// ErrRunAborted signals the run reached the aborted state. The returned
// report still carries every outcome resolved before the abort.
var ErrRunAborted = errors.New("run aborted")

// Discoverer is the search gateway contract the orchestrator drives.
type Discoverer interface {
	Discover(ctx context.Context, class types.DocumentClass) (discover.Discovery, error)
}

// Downloader is the download coordinator contract.
type Downloader interface {
	FetchAll(ctx context.Context, class types.DocumentClass, docs []types.DiscoveredDocument) map[string]types.DownloadOutcome
}

// Verdicter is the validation engine contract.
type Verdicter interface {
	ValidateAll(ctx context.Context, class types.DocumentClass, candidates []validate.Candidate) map[string]types.ValidationVerdict
}

// RunOptions are the per-invocation overrides the API/CLI layer may supply.
type RunOptions struct {
	// LimitOverride, when positive, replaces the class's configured limit.
	LimitOverride int

	// Deadline, when positive, bounds the whole run.
	Deadline time.Duration
}

// Orchestrator coordinates the stages for one document class at a time.
// Data flows strictly downstream; no stage calls back into an earlier one.
type Orchestrator struct {
	discoverer Discoverer
	downloader Downloader
	verdicter  Verdicter
	log        logger.Interface
}

// New wires an orchestrator from its stage implementations.
func New(d Discoverer, dl Downloader, v Verdicter, log logger.Interface) *Orchestrator {
	return &Orchestrator{discoverer: d, downloader: dl, verdicter: v, log: log}
}

// Run executes the full pipeline for class and returns the finalized report.
// Individual document failures never abort the run. The error is non-nil
// only when the run aborts (cancellation, or a fatal search error with zero
// documents discovered); even then the partial report is returned.
func (o *Orchestrator) Run(ctx context.Context, class types.DocumentClass, opts RunOptions) (*types.AcquisitionReport, error) {
	if opts.LimitOverride > 0 {
		class.Limit = opts.LimitOverride
	}
	if opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Deadline)
		defer cancel()
	}

	report := &types.AcquisitionReport{
		RunID:       uuid.NewString(),
		ClassID:     class.ID,
		RequestedAt: time.Now().UTC(),
		State:       types.StateDiscovering,
	}
	o.log.Info("acquisition run started",
		"run_id", report.RunID, "class_id", class.ID, "limit", class.Limit)

	discovery, err := o.discoverer.Discover(ctx, class)
	report.SearchErrors = discovery.PatternErrors
	report.TotalDiscovered = len(discovery.Documents)
	for _, doc := range discovery.Documents {
		report.PerDocument = append(report.PerDocument, types.DocumentRecord{Document: doc})
	}
	if err != nil {
		return o.abort(report, err)
	}
	if report.TotalDiscovered == 0 {
		o.log.Info("no documents discovered", "run_id", report.RunID, "class_id", class.ID)
		return o.complete(report), nil
	}

	report.State = types.StateDownloading
	outcomes := o.downloader.FetchAll(ctx, class, discovery.Documents)

	var candidates []validate.Candidate
	for i := range report.PerDocument {
		rec := &report.PerDocument[i]
		outcome, ok := outcomes[rec.Document.ID]
		if !ok {
			continue
		}
		rec.Download = &outcome
		if outcome.Status == types.DownloadSucceeded {
			report.TotalDownloaded++
			candidates = append(candidates, validate.Candidate{Document: rec.Document, Outcome: outcome})
		}
	}

	report.State = types.StateValidating
	verdicts := o.verdicter.ValidateAll(ctx, class, candidates)
	for i := range report.PerDocument {
		rec := &report.PerDocument[i]
		verdict, ok := verdicts[rec.Document.ID]
		if !ok {
			continue
		}
		rec.Verdict = &verdict
		if verdict.Passed {
			report.TotalValidatedPass++
		} else {
			report.TotalValidatedFail++
		}
	}

	// Expired deadlines and external cancellation finalize as aborted, with
	// every outcome resolved so far preserved.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return o.abort(report, ctxErr)
	}
	return o.complete(report), nil
}

func (o *Orchestrator) complete(report *types.AcquisitionReport) *types.AcquisitionReport {
	report.State = types.StateCompleted
	report.CompletedAt = time.Now().UTC()
	o.log.Info("acquisition run completed",
		"run_id", report.RunID,
		"class_id", report.ClassID,
		"discovered", report.TotalDiscovered,
		"downloaded", report.TotalDownloaded,
		"validated_pass", report.TotalValidatedPass,
		"validated_fail", report.TotalValidatedFail,
	)
	return report
}

func (o *Orchestrator) abort(report *types.AcquisitionReport, cause error) (*types.AcquisitionReport, error) {
	report.State = types.StateAborted
	report.AbortReason = cause.Error()
	report.CompletedAt = time.Now().UTC()
	o.log.Warn("acquisition run aborted",
		"run_id", report.RunID,
		"class_id", report.ClassID,
		"reason", cause.Error(),
		"discovered", report.TotalDiscovered,
		"downloaded", report.TotalDownloaded,
	)
	return report, errors.Join(ErrRunAborted, cause)
}
