// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download fetches discovered documents under bounded concurrency
// and records one outcome per document.
package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Courage-7/DocumentScrapper/internal/logger"
	"github.com/Courage-7/DocumentScrapper/internal/retry"
	"github.com/Courage-7/DocumentScrapper/internal/storage"
	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

const (
	defaultConcurrency    = 5
	defaultMaxAttempts    = 3
	defaultRetryDelay     = 1 * time.Second
	defaultAttemptTimeout = 30 * time.Second
	defaultGracePeriod    = 10 * time.Second
)

// reasonCancelled is recorded on outcomes resolved by run cancellation.
const reasonCancelled = "run cancelled"

// permanentError marks fetch failures not worth retrying (4xx responses).
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Coordinator downloads document batches through a fixed-size worker pool.
// The pool size is the only state shared across workers; every worker writes
// to its own artifact path and reports its own outcome.
type Coordinator struct {
	client *http.Client
	store  storage.Store
	cfg    types.DownloadConfig
	log    logger.Interface
}

// NewCoordinator builds a coordinator. Zero config values fall back to
// defaults (concurrency 5, 3 attempts, 1s linear backoff, 30s per attempt,
// 10s cancellation grace).
func NewCoordinator(client *http.Client, store storage.Store, cfg types.DownloadConfig, log logger.Interface) *Coordinator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = defaultGracePeriod
	}
	return &Coordinator{client: client, store: store, cfg: cfg, log: log}
}

// FetchAll downloads every document and returns one outcome per input,
// keyed by document ID. One document's failure never cancels its siblings.
// When ctx is cancelled, undispatched documents resolve as skipped and
// in-flight fetches may drain for the configured grace period before being
// interrupted and recorded as failed.
func (c *Coordinator) FetchAll(ctx context.Context, class types.DocumentClass, docs []types.DiscoveredDocument) map[string]types.DownloadOutcome {
	outcomes := make(map[string]types.DownloadOutcome, len(docs))
	if len(docs) == 0 {
		return outcomes
	}

	// fetchCtx outlives ctx by the grace period so in-flight downloads can
	// drain after cancellation.
	fetchCtx, cancelFetch := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelFetch()
	batchDone := make(chan struct{})
	go func() {
		select {
		case <-batchDone:
		case <-ctx.Done():
			select {
			case <-batchDone:
			case <-time.After(c.cfg.GracePeriod):
				cancelFetch()
			}
		}
	}()

	jobs := make(chan types.DiscoveredDocument)
	results := make(chan types.DownloadOutcome)

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				results <- c.fetchOne(ctx, fetchCtx, class, doc)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, doc := range docs {
			select {
			case jobs <- doc:
			case <-ctx.Done():
				for _, rest := range docs[i:] {
					results <- types.DownloadOutcome{
						DocumentID: rest.ID,
						Status:     types.DownloadSkipped,
						Error:      reasonCancelled,
					}
				}
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for outcome := range results {
		outcomes[outcome.DocumentID] = outcome
	}
	close(batchDone)

	return outcomes
}

// fetchOne resolves a single document: type gate, stored-artifact reuse,
// then bounded fetch attempts with linear backoff.
func (c *Coordinator) fetchOne(runCtx, fetchCtx context.Context, class types.DocumentClass, doc types.DiscoveredDocument) types.DownloadOutcome {
	// Type gate happens before any network call.
	if !class.AcceptsFileType(doc.FileTypeHint) {
		c.log.Debug("skipping document with unaccepted file type",
			"document_id", doc.ID, "file_type", doc.FileTypeHint, "class_id", class.ID)
		return types.DownloadOutcome{
			DocumentID: doc.ID,
			Status:     types.DownloadSkipped,
			Error:      fmt.Sprintf("file type %q not accepted for class %s", doc.FileTypeHint, class.ID),
		}
	}

	// Queued documents picked up after cancellation resolve without fetching.
	if runCtx.Err() != nil {
		return types.DownloadOutcome{
			DocumentID: doc.ID,
			Status:     types.DownloadSkipped,
			Error:      reasonCancelled,
		}
	}

	name := artifactName(doc)
	if existing, ok := c.store.Lookup(class.ID, name); ok {
		c.log.Info("artifact already stored, reusing",
			"document_id", doc.ID, "path", existing.Path)
		return types.DownloadOutcome{
			DocumentID: doc.ID,
			Status:     types.DownloadSucceeded,
			LocalPath:  existing.Path,
			ByteSize:   existing.ByteSize,
		}
	}

	policy := retry.Policy{
		MaxAttempts: c.cfg.MaxAttempts,
		Backoff:     retry.Linear(c.cfg.RetryDelay),
		Retryable: func(err error) bool {
			// A cancelled run stops issuing new fetch attempts.
			if runCtx.Err() != nil {
				return false
			}
			var p *permanentError
			return !errors.As(err, &p)
		},
	}

	var written storage.WriteResult
	attempts, err := policy.Do(fetchCtx, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.AttemptTimeout)
		defer cancel()
		res, fetchErr := c.fetchArtifact(attemptCtx, class, doc, name)
		if fetchErr != nil {
			return fetchErr
		}
		written = res
		return nil
	})
	if err != nil {
		if runCtx.Err() != nil {
			if attempts == 0 {
				return types.DownloadOutcome{
					DocumentID: doc.ID,
					Status:     types.DownloadSkipped,
					Error:      reasonCancelled,
				}
			}
			err = fmt.Errorf("cancelled: %w", err)
		}
		c.log.Warn("document download failed",
			"document_id", doc.ID, "url", doc.SourceURL, "attempts", attempts, "error", err.Error())
		return types.DownloadOutcome{
			DocumentID:   doc.ID,
			Status:       types.DownloadFailed,
			Error:        err.Error(),
			AttemptCount: attempts,
		}
	}

	c.log.Info("document downloaded",
		"document_id", doc.ID, "path", written.Path, "bytes", written.ByteSize, "attempts", attempts)
	return types.DownloadOutcome{
		DocumentID:   doc.ID,
		Status:       types.DownloadSucceeded,
		LocalPath:    written.Path,
		ByteSize:     written.ByteSize,
		AttemptCount: attempts,
	}
}

// fetchArtifact performs one HTTP GET and streams the body into the store.
func (c *Coordinator) fetchArtifact(ctx context.Context, class types.DocumentClass, doc types.DiscoveredDocument, name string) (storage.WriteResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, doc.SourceURL, nil)
	if err != nil {
		return storage.WriteResult{}, &permanentError{err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return storage.WriteResult{}, fmt.Errorf("fetching %s: %w", doc.SourceURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return storage.WriteResult{}, fmt.Errorf("HTTP %d from %s", resp.StatusCode, doc.SourceURL)
	default:
		return storage.WriteResult{}, &permanentError{err: fmt.Errorf("HTTP %d from %s", resp.StatusCode, doc.SourceURL)}
	}

	res, writeErr := c.store.Write(ctx, class.ID, name, resp.Body)
	if writeErr != nil {
		return storage.WriteResult{}, fmt.Errorf("storing artifact: %w", writeErr)
	}
	return res, nil
}

// artifactName derives the stored filename from the document ID and hint.
func artifactName(doc types.DiscoveredDocument) string {
	if doc.FileTypeHint == "" {
		return doc.ID
	}
	return doc.ID + "." + doc.FileTypeHint
}
