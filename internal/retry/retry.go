// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retry implements the bounded retry policy shared by the search
// gateway and the download coordinator: a maximum attempt count, a backoff
// curve, and a predicate deciding which errors are worth retrying.
package retry

import (
	"context"
	"math/rand"
	"time"
)

// BackoffFunc returns the delay before the next attempt. attempt is the
// number of the attempt that just failed, starting at 1.
type BackoffFunc func(attempt int) time.Duration

// Exponential doubles the delay each attempt, starting at base, with
// ±50% jitter so concurrent retries do not synchronize.
func Exponential(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		d := base << (attempt - 1)
		jitter := time.Duration(rand.Int63n(int64(d) + 1)) // [0, d]
		return d/2 + jitter
	}
}

// Linear grows the delay by step each attempt: step, 2*step, 3*step, ...
func Linear(step time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// Policy bounds and shapes retries of one operation.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Values below 1 mean a single attempt.
	MaxAttempts int

	// Backoff computes the wait between attempts. Nil means no wait.
	Backoff BackoffFunc

	// Retryable reports whether an error is worth another attempt.
	// Nil treats every error as retryable.
	Retryable func(error) bool
}

// Do runs op until it succeeds, fails non-retryably, exhausts MaxAttempts,
// or the context is cancelled. It returns the number of attempts made and
// the last error. A cancellation during a backoff wait returns ctx.Err().
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) (int, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return attempt, nil
		}
		if attempt >= maxAttempts {
			return attempt, lastErr
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return attempt, lastErr
		}

		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(attempt)
		}
		if wait > 0 {
			select {
			case <-ctx.Done():
				return attempt, ctx.Err()
			case <-time.After(wait):
			}
		}
	}
}
