// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Courage-7/DocumentScrapper/internal/logger"
	"github.com/Courage-7/DocumentScrapper/internal/retry"
	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

const (
	defaultMaxAttempts = 3
	defaultBackoffBase = 500 * time.Millisecond
)

// Gateway drives the search provider across a class's patterns, retrying
// transient failures, deduplicating by normalized URL, and stopping at the
// class limit. It keeps no state between invocations.
type Gateway struct {
	provider Provider
	cfg      types.SearchConfig
	limiter  *rate.Limiter
	log      logger.Interface
}

// NewGateway builds a gateway over the given provider. Zero config values
// fall back to defaults (3 attempts, 500ms backoff base, no query pacing).
func NewGateway(provider Provider, cfg types.SearchConfig, log logger.Interface) *Gateway {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}

	var limiter *rate.Limiter
	if cfg.QueriesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.QueriesPerSecond), 1)
	}

	return &Gateway{provider: provider, cfg: cfg, limiter: limiter, log: log}
}

// Discovery holds the deduplicated candidates plus per-pattern error notes
// for patterns whose queries could not be completed.
type Discovery struct {
	Documents     []types.DiscoveredDocument
	PatternErrors []string
}

// Discover iterates the class's search patterns in order, one provider
// query per pattern. Transient failures are retried with exponential
// backoff; a pattern whose retries are exhausted, or that fails fatally,
// is noted and the remaining patterns continue. The returned error is
// non-nil only for cancellation, or for a fatal provider error when no
// documents were discovered at all.
func (g *Gateway) Discover(ctx context.Context, class types.DocumentClass) (Discovery, error) {
	var (
		out   Discovery
		fatal error
		seen  = make(map[string]struct{})
	)

	policy := retry.Policy{
		MaxAttempts: g.cfg.MaxAttempts,
		Backoff:     retry.Exponential(g.cfg.BackoffBase),
		Retryable:   IsTransient,
	}

	for _, pattern := range class.SearchPatterns {
		if class.Limit > 0 && len(out.Documents) >= class.Limit {
			break
		}

		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return out, err
			}
		}

		var results []Result
		attempts, err := policy.Do(ctx, func(ctx context.Context) error {
			r, qerr := g.provider.Query(ctx, pattern, class.Keywords)
			if qerr != nil {
				return qerr
			}
			results = r
			return nil
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, ctxErr
			}
			out.PatternErrors = append(out.PatternErrors, fmt.Sprintf("%s: %v", pattern, err))
			if IsFatal(err) {
				fatal = err
				g.log.Error("search pattern failed fatally",
					"class_id", class.ID, "pattern", pattern, "error", err.Error())
			} else {
				g.log.Warn("search pattern exhausted retries",
					"class_id", class.ID, "pattern", pattern, "attempts", attempts, "error", err.Error())
			}
			continue
		}

		g.log.Debug("search pattern completed",
			"class_id", class.ID, "pattern", pattern, "results", len(results))

		for _, r := range results {
			normalized, normErr := NormalizeURL(r.URL)
			if normErr != nil {
				g.log.Debug("dropping result with unusable URL", "url", r.URL, "error", normErr.Error())
				continue
			}
			if _, dup := seen[normalized]; dup {
				continue
			}
			seen[normalized] = struct{}{}

			hint := strings.ToLower(strings.TrimPrefix(r.FileTypeHint, "."))
			if hint == "" {
				hint = FileTypeFromURL(r.URL)
			}

			out.Documents = append(out.Documents, types.DiscoveredDocument{
				ID:           DocumentID(normalized),
				SourceURL:    r.URL,
				ClassID:      class.ID,
				Title:        r.Title,
				FileTypeHint: hint,
				DiscoveredAt: time.Now().UTC(),
			})
			if class.Limit > 0 && len(out.Documents) >= class.Limit {
				break
			}
		}
	}

	// A fatal provider error aborts the run only when it left us with nothing.
	if len(out.Documents) == 0 && fatal != nil {
		return out, fatal
	}
	return out, nil
}
