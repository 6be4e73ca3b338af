// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
)

// trackingParams are query parameters stripped during normalization. They
// identify ad and analytics trackers that do not affect the fetched bytes.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"fbclid":       {},
	"gclid":        {},
}

var errNoSchemeOrHost = errors.New("normalize url: missing scheme or host")

// NormalizeURL applies deterministic transformations so that equivalent URLs
// produce identical strings for deduplication: lowercased scheme and host,
// default ports removed, fragments dropped, tracking parameters stripped,
// remaining query keys sorted, and path dot-segments resolved.
func NormalizeURL(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("normalize url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errNoSchemeOrHost
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = normalizeHost(parsed)
	parsed.Fragment = ""
	parsed.RawQuery = cleanQuery(parsed.Query())
	parsed.Path = normalizePath(parsed.Path)

	return parsed.String(), nil
}

// DocumentID derives the run-unique document identifier from a normalized
// URL: "doc-" plus the first 12 hex characters of its SHA-256 digest.
func DocumentID(normalizedURL string) string {
	sum := sha256.Sum256([]byte(normalizedURL))
	return "doc-" + hex.EncodeToString(sum[:6])
}

// FileTypeFromURL returns the lowercased extension of the URL path without
// the leading dot, or "" when the path has none.
func FileTypeFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := path.Ext(parsed.Path)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func normalizeHost(u *url.URL) string {
	hostname := strings.ToLower(u.Hostname())
	port := u.Port()
	if port == "" {
		return hostname
	}
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		return hostname
	}
	return hostname + ":" + port
}

func cleanQuery(values url.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		if _, tracking := trackingParams[key]; !tracking {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		for _, val := range values[key] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(val))
		}
	}
	return b.String()
}

// normalizePath resolves dot-segments and trims trailing slashes while
// preserving the root "/".
func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	return strings.TrimRight(path.Clean(p), "/")
}
