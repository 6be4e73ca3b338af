// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the record and configuration types shared across
// pipeline stages.
package types

import (
	"strings"
	"time"
)

// ValidatorSpec names one validator in a class's chain. Options carries
// per-kind settings (e.g. "max_bytes" for the size validator).
type ValidatorSpec struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Options map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}

// DocumentClass is the immutable configuration for one kind of document:
// what to search for, which file types are acceptable, and how downloaded
// artifacts are validated. Loaded once at run start and referenced by ID.
type DocumentClass struct {
	// ID is the registry key (e.g. "incorporation", "utility_bill").
	ID string `json:"id" yaml:"id"`

	// Name is the human-readable class name.
	Name string `json:"name" yaml:"name"`

	// Category groups classes (e.g. "company", "individual").
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Description explains what documents of this class look like.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// SearchPatterns are issued to the search provider in order.
	SearchPatterns []string `json:"search_patterns" yaml:"search_patterns"`

	// AcceptedFileTypes lists acceptable extensions without the dot
	// (e.g. "pdf", "docx"). Matching is case-insensitive.
	AcceptedFileTypes []string `json:"accepted_file_types" yaml:"accepted_file_types"`

	// Keywords hint ranking at search time and feed the keyword validator.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// ValidatorChain runs in order against each downloaded artifact.
	ValidatorChain []ValidatorSpec `json:"validator_chain,omitempty" yaml:"validator_chain,omitempty"`

	// Limit caps the number of distinct documents discovered per run.
	// Zero means unbounded.
	Limit int `json:"limit" yaml:"limit"`
}

// AcceptsFileType reports whether ext (with or without a leading dot,
// any case) is in the accepted set. An empty accepted set accepts nothing.
func (c DocumentClass) AcceptsFileType(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, t := range c.AcceptedFileTypes {
		if strings.ToLower(strings.TrimPrefix(t, ".")) == ext {
			return true
		}
	}
	return false
}

// DiscoveredDocument is a candidate produced by the search gateway.
// Read-only after creation.
type DiscoveredDocument struct {
	// ID is derived from the normalized source URL and is unique within a run.
	ID string `json:"id" yaml:"id"`

	// SourceURL is the URL the document will be fetched from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// ClassID references the DocumentClass this candidate was discovered for.
	ClassID string `json:"class_id" yaml:"class_id"`

	// Title is the provider-reported title, when available.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// FileTypeHint is the extension the provider or URL suggests ("pdf").
	FileTypeHint string `json:"file_type_hint" yaml:"file_type_hint"`

	// DiscoveredAt records when the gateway yielded this candidate.
	DiscoveredAt time.Time `json:"discovered_at" yaml:"discovered_at"`
}
