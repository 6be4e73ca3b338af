// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storage writes downloaded artifacts to class-partitioned local
// storage. Writes go through a temporary file and rename so a crashed
// download never leaves a partial artifact at the final path.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const rawDocsDir = "raw_docs"

// WriteResult reports where an artifact landed and how large it is.
type WriteResult struct {
	Path     string
	ByteSize int64
}

// Store is the artifact store contract used by the download coordinator.
type Store interface {
	// Write stores the reader's bytes under the class partition with the
	// suggested name and returns the final path and size.
	Write(ctx context.Context, classID, suggestedName string, r io.Reader) (WriteResult, error)

	// Lookup reports whether an artifact with the suggested name already
	// exists in the class partition.
	Lookup(classID, suggestedName string) (WriteResult, bool)
}

// FSStore implements Store on the local filesystem under
// <dataDir>/raw_docs/<class_id>/<suggested_name>.
type FSStore struct {
	dataDir string
}

// NewFSStore creates a filesystem store rooted at dataDir ("data" if empty).
func NewFSStore(dataDir string) *FSStore {
	if dataDir == "" {
		dataDir = "data"
	}
	return &FSStore{dataDir: dataDir}
}

func (s *FSStore) artifactPath(classID, name string) string {
	return filepath.Join(s.dataDir, rawDocsDir, classID, name)
}

// Lookup checks for an existing artifact without touching it.
func (s *FSStore) Lookup(classID, suggestedName string) (WriteResult, bool) {
	p := s.artifactPath(classID, suggestedName)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return WriteResult{}, false
	}
	return WriteResult{Path: p, ByteSize: info.Size()}, true
}

// Write streams r to a temp file in the class partition and renames it into
// place on success.
func (s *FSStore) Write(ctx context.Context, classID, suggestedName string, r io.Reader) (WriteResult, error) {
	destPath := s.artifactPath(classID, suggestedName)
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return WriteResult{}, fmt.Errorf("creating artifact directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return WriteResult{}, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	n, copyErr := io.Copy(tmpFile, r)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return WriteResult{}, fmt.Errorf("writing artifact: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return WriteResult{}, fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := ctx.Err(); err != nil {
		os.Remove(tmpPath)
		return WriteResult{}, err
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return WriteResult{}, fmt.Errorf("renaming temp file: %w", err)
	}
	return WriteResult{Path: destPath, ByteSize: n}, nil
}
