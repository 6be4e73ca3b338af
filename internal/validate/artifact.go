// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate runs configured validator chains against downloaded
// artifacts and produces pass/fail verdicts with accumulated reasons.
package validate

import (
	"fmt"
	"os"
	"strings"

	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

// Artifact is one downloaded document's bytes plus metadata, handed to each
// validator in the chain.
type Artifact struct {
	DocumentID string
	Path       string
	FileType   string
	ByteSize   int64
	Data       []byte
}

// LoadArtifact reads the stored artifact for a succeeded download outcome.
func LoadArtifact(doc types.DiscoveredDocument, outcome types.DownloadOutcome) (Artifact, error) {
	if outcome.Status != types.DownloadSucceeded {
		return Artifact{}, fmt.Errorf("artifact for %s: download status is %s", doc.ID, outcome.Status)
	}
	data, err := os.ReadFile(outcome.LocalPath)
	if err != nil {
		return Artifact{}, fmt.Errorf("reading artifact %s: %w", outcome.LocalPath, err)
	}
	return Artifact{
		DocumentID: doc.ID,
		Path:       outcome.LocalPath,
		FileType:   strings.ToLower(strings.TrimPrefix(doc.FileTypeHint, ".")),
		ByteSize:   int64(len(data)),
		Data:       data,
	}, nil
}
