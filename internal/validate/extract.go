// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// extractText pulls searchable text out of an artifact according to its
// declared file type. Image types carry no extractable text and return an
// error, as do artifacts that fail to parse.
func extractText(art Artifact) (string, error) {
	switch art.FileType {
	case "txt", "text", "md", "csv":
		if !utf8.Valid(art.Data) {
			return "", fmt.Errorf("text artifact is not valid UTF-8")
		}
		return string(art.Data), nil
	case "html", "htm":
		return stripTags(string(art.Data)), nil
	case "pdf":
		return scanPrintable(art.Data), nil
	case "docx":
		return extractZipXML(art.Data, "word/document.xml")
	case "xlsx":
		return extractZipXML(art.Data, "xl/sharedStrings.xml")
	default:
		return "", fmt.Errorf("no text extraction for file type %q", art.FileType)
	}
}

// stripTags removes markup, leaving element text separated by spaces.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			b.WriteByte(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// scanPrintable collects printable runs of at least four characters. This is
// a shallow extraction that finds literal text in uncompressed PDF streams;
// it is meant for keyword presence checks, not faithful text recovery.
func scanPrintable(data []byte) string {
	const minRun = 4
	var (
		b   strings.Builder
		run []byte
	)
	flush := func() {
		if len(run) >= minRun {
			b.Write(run)
			b.WriteByte(' ')
		}
		run = run[:0]
	}
	for _, c := range data {
		if c == ' ' || (c >= 0x21 && c <= 0x7e) {
			run = append(run, c)
			continue
		}
		flush()
	}
	flush()
	return b.String()
}

// extractZipXML reads one XML member of a zip-based Office artifact and
// strips its markup.
func extractZipXML(data []byte, member string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}
	f, err := zr.Open(member)
	if err != nil {
		return "", fmt.Errorf("archive member %s: %w", member, err)
	}
	defer f.Close()

	var b bytes.Buffer
	if _, err := b.ReadFrom(f); err != nil {
		return "", fmt.Errorf("reading archive member %s: %w", member, err)
	}
	return stripTags(b.String()), nil
}
