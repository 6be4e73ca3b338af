// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover turns a document class's search patterns into a bounded,
// deduplicated set of discovered documents via a remote search provider.
package discover

import (
	"context"
	"errors"
)

// Result is one raw hit from the search provider.
type Result struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	FileTypeHint string `json:"file_type"`
}

// Provider queries the remote search provider. Implementations classify
// failures as TransientError (worth retrying) or FatalError (not).
type Provider interface {
	Name() string
	Query(ctx context.Context, pattern string, keywords []string) ([]Result, error)
}

// TransientError marks a provider failure expected to succeed on retry:
// timeouts, 5xx responses, rate-limit signals.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient search error: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// FatalError marks a provider failure that will not succeed on retry:
// malformed queries, authentication failures.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return "fatal search error: " + e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// IsFatal reports whether err is (or wraps) a FatalError.
func IsFatal(err error) bool {
	var f *FatalError
	return errors.As(err, &f)
}
