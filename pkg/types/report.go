// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DownloadStatus is the terminal state of one fetch attempt sequence.
type DownloadStatus string

const (
	DownloadSucceeded DownloadStatus = "succeeded"
	DownloadFailed    DownloadStatus = "failed"
	DownloadSkipped   DownloadStatus = "skipped"
)

// DownloadOutcome records the result of fetching one discovered document.
// Owned by the download coordinator during its stage, immutable afterwards.
type DownloadOutcome struct {
	DocumentID string         `json:"document_id" yaml:"document_id"`
	Status     DownloadStatus `json:"status" yaml:"status"`

	// LocalPath is set iff Status is DownloadSucceeded.
	LocalPath string `json:"local_path,omitempty" yaml:"local_path,omitempty"`

	// ByteSize is the stored artifact size in bytes.
	ByteSize int64 `json:"byte_size,omitempty" yaml:"byte_size,omitempty"`

	// Error describes the failure or skip reason. Set iff Status is not
	// DownloadSucceeded.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// AttemptCount is the number of fetch attempts actually made.
	AttemptCount int `json:"attempt_count" yaml:"attempt_count"`
}

// RuleFailure is one validator's negative result.
type RuleFailure struct {
	Rule   string `json:"rule" yaml:"rule"`
	Reason string `json:"reason" yaml:"reason"`
}

// ValidationVerdict is the outcome of running a document's artifact through
// the configured validator chain. It exists only for succeeded downloads.
type ValidationVerdict struct {
	DocumentID string `json:"document_id" yaml:"document_id"`

	// Passed is true iff every validator in the chain passed.
	Passed bool `json:"passed" yaml:"passed"`

	// FailedRules lists every failing validator in chain order.
	FailedRules []RuleFailure `json:"failed_rules,omitempty" yaml:"failed_rules,omitempty"`
}

// DocumentRecord ties one discovered document to its downstream results.
// Download is nil while the document is still queued; Verdict is nil unless
// the download succeeded.
type DocumentRecord struct {
	Document DiscoveredDocument `json:"document" yaml:"document"`
	Download *DownloadOutcome   `json:"download,omitempty" yaml:"download,omitempty"`
	Verdict  *ValidationVerdict `json:"verdict,omitempty" yaml:"verdict,omitempty"`
}

// RunState is the orchestrator's per-run state machine position.
type RunState string

const (
	StateDiscovering RunState = "discovering"
	StateDownloading RunState = "downloading"
	StateValidating  RunState = "validating"
	StateCompleted   RunState = "completed"
	StateAborted     RunState = "aborted"
)

// Terminal reports whether the state admits no further transitions.
func (s RunState) Terminal() bool {
	return s == StateCompleted || s == StateAborted
}

// AcquisitionReport summarizes one pipeline run for a document class.
// Built incrementally by the orchestrator and immutable once the run
// reaches a terminal state.
type AcquisitionReport struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	ClassID     string    `json:"class_id" yaml:"class_id"`
	RequestedAt time.Time `json:"requested_at" yaml:"requested_at"`
	CompletedAt time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`

	State RunState `json:"state" yaml:"state"`

	// AbortReason is set iff State is StateAborted.
	AbortReason string `json:"abort_reason,omitempty" yaml:"abort_reason,omitempty"`

	// SearchErrors notes patterns whose provider queries could not be
	// completed. Informational; they never abort a run on their own.
	SearchErrors []string `json:"search_errors,omitempty" yaml:"search_errors,omitempty"`

	TotalDiscovered    int `json:"total_discovered" yaml:"total_discovered"`
	TotalDownloaded    int `json:"total_downloaded" yaml:"total_downloaded"`
	TotalValidatedPass int `json:"total_validated_pass" yaml:"total_validated_pass"`
	TotalValidatedFail int `json:"total_validated_fail" yaml:"total_validated_fail"`

	// PerDocument is keyed by Document.ID; ordering is not significant.
	PerDocument []DocumentRecord `json:"per_document" yaml:"per_document"`
}

// Record returns the record for the given document ID, or nil.
func (r *AcquisitionReport) Record(documentID string) *DocumentRecord {
	for i := range r.PerDocument {
		if r.PerDocument[i].Document.ID == documentID {
			return &r.PerDocument[i]
		}
	}
	return nil
}
