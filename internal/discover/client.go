// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

// defaultBaseURL is the hosted crawl-search endpoint. Declared as a fallback;
// tests and self-hosted deployments set SearchConfig.BaseURL instead.
const defaultBaseURL = "https://api.firecrawl.dev/v1/search"

// SearchClient is the HTTP implementation of Provider against the
// crawl-search API: GET <base>?query=...&limit=N with bearer auth.
type SearchClient struct {
	Client *http.Client
	Config types.SearchConfig
}

// NewSearchClient builds a provider client from the search configuration.
func NewSearchClient(client *http.Client, cfg types.SearchConfig) *SearchClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &SearchClient{Client: client, Config: cfg}
}

// Name returns the provider identifier.
func (c *SearchClient) Name() string { return "firecrawl" }

// searchResponse mirrors the provider's result envelope.
type searchResponse struct {
	Results []Result `json:"results"`
}

// Query issues one search request. Keywords are passed as a ranking hint.
// Failures are classified: timeouts, connection errors, 429 and 5xx are
// transient; auth failures and malformed queries are fatal.
func (c *SearchClient) Query(ctx context.Context, pattern string, keywords []string) ([]Result, error) {
	pageSize := c.Config.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	params := url.Values{}
	params.Set("query", pattern)
	params.Set("limit", strconv.Itoa(pageSize))
	if len(keywords) > 0 {
		params.Set("hint", strings.Join(keywords, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Config.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &FatalError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.Config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.Config.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("search request: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Decoded below.
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &TransientError{Err: fmt.Errorf("search API returned HTTP %d", resp.StatusCode)}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &FatalError{Err: fmt.Errorf("search API auth failed: HTTP %d", resp.StatusCode)}
	default:
		return nil, &FatalError{Err: fmt.Errorf("search API rejected query: HTTP %d", resp.StatusCode)}
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &TransientError{Err: fmt.Errorf("parsing search response: %w", err)}
	}
	return sr.Results, nil
}
