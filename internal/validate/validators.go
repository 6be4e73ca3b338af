// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

// Validator evaluates one rule against an artifact. A nil return is a pass;
// any error is the failure reason.
type Validator interface {
	Name() string
	Evaluate(art Artifact, class types.DocumentClass) error
}

// Factory builds a validator from its chain spec. cfg supplies engine-level
// defaults a spec may override.
type Factory func(spec types.ValidatorSpec, cfg types.ValidationConfig) (Validator, error)

// Registry maps validator kinds to factories. New kinds register at startup;
// lookup is by name, not reflection.
type Registry struct {
	factories map[string]Factory
}

// Built-in validator kinds.
const (
	KindSize     = "size"
	KindKeywords = "keywords"
	KindFileType = "filetype"
)

const defaultMaxArtifactBytes = 10 << 20 // 10 MiB

// NewRegistry returns a registry with the built-in kinds registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(KindSize, newSizeValidator)
	r.Register(KindKeywords, newKeywordValidator)
	r.Register(KindFileType, newFileTypeValidator)
	return r
}

// Register adds or replaces the factory for a validator kind.
func (r *Registry) Register(kind string, f Factory) {
	r.factories[kind] = f
}

// Build constructs the validator named by the spec.
func (r *Registry) Build(spec types.ValidatorSpec, cfg types.ValidationConfig) (Validator, error) {
	f, ok := r.factories[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown validator kind %q", spec.Kind)
	}
	return f(spec, cfg)
}

// sizeValidator checks the artifact is non-empty and below an upper bound.
type sizeValidator struct {
	minBytes int64
	maxBytes int64
}

func newSizeValidator(spec types.ValidatorSpec, cfg types.ValidationConfig) (Validator, error) {
	v := &sizeValidator{minBytes: 1, maxBytes: cfg.MaxArtifactBytes}
	if v.maxBytes <= 0 {
		v.maxBytes = defaultMaxArtifactBytes
	}
	if raw, ok := spec.Options["min_bytes"]; ok {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("size validator: bad min_bytes %q: %w", raw, err)
		}
		v.minBytes = n
	}
	if raw, ok := spec.Options["max_bytes"]; ok {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("size validator: bad max_bytes %q: %w", raw, err)
		}
		v.maxBytes = n
	}
	return v, nil
}

func (v *sizeValidator) Name() string { return KindSize }

func (v *sizeValidator) Evaluate(art Artifact, _ types.DocumentClass) error {
	if art.ByteSize < v.minBytes {
		return fmt.Errorf("artifact is %d bytes, below minimum %d", art.ByteSize, v.minBytes)
	}
	if art.ByteSize > v.maxBytes {
		return fmt.Errorf("artifact is %d bytes, above maximum %d", art.ByteSize, v.maxBytes)
	}
	return nil
}

// keywordValidator checks that extracted artifact text contains at least one
// class keyword. Classes without keywords pass vacuously.
type keywordValidator struct{}

func newKeywordValidator(types.ValidatorSpec, types.ValidationConfig) (Validator, error) {
	return &keywordValidator{}, nil
}

func (v *keywordValidator) Name() string { return KindKeywords }

func (v *keywordValidator) Evaluate(art Artifact, class types.DocumentClass) error {
	if len(class.Keywords) == 0 {
		return nil
	}
	text, err := extractText(art)
	if err != nil {
		return fmt.Errorf("extracting text: %w", err)
	}
	haystack := strings.ToLower(text)
	for _, kw := range class.Keywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return nil
		}
	}
	return fmt.Errorf("none of the %d class keywords found in artifact text", len(class.Keywords))
}

// magicPrefixes maps file types to their leading byte signatures.
var magicPrefixes = map[string][][]byte{
	"pdf":  {[]byte("%PDF-")},
	"png":  {{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}},
	"jpg":  {{0xff, 0xd8, 0xff}},
	"jpeg": {{0xff, 0xd8, 0xff}},
	"docx": {[]byte("PK\x03\x04")},
	"xlsx": {[]byte("PK\x03\x04")},
	"doc":  {{0xd0, 0xcf, 0x11, 0xe0}},
	"xls":  {{0xd0, 0xcf, 0x11, 0xe0}},
}

// fileTypeValidator checks the artifact's bytes are a well-formed instance
// of its declared type: a magic-byte match for binary formats, valid UTF-8
// for text, a recognizable document element for HTML.
type fileTypeValidator struct{}

func newFileTypeValidator(types.ValidatorSpec, types.ValidationConfig) (Validator, error) {
	return &fileTypeValidator{}, nil
}

func (v *fileTypeValidator) Name() string { return KindFileType }

func (v *fileTypeValidator) Evaluate(art Artifact, _ types.DocumentClass) error {
	switch art.FileType {
	case "txt", "text", "md", "csv":
		if !utf8.Valid(art.Data) {
			return fmt.Errorf("declared %s but content is not valid UTF-8", art.FileType)
		}
		return nil
	case "html", "htm":
		head := strings.ToLower(string(art.Data[:min(len(art.Data), 1024)]))
		if !strings.Contains(head, "<html") && !strings.Contains(head, "<!doctype html") {
			return fmt.Errorf("declared %s but no HTML document element found", art.FileType)
		}
		return nil
	}

	prefixes, ok := magicPrefixes[art.FileType]
	if !ok {
		return fmt.Errorf("no structural check available for file type %q", art.FileType)
	}
	for _, p := range prefixes {
		if bytes.HasPrefix(art.Data, p) {
			return nil
		}
	}
	return fmt.Errorf("declared %s but content signature does not match", art.FileType)
}
