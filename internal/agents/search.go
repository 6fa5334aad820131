package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const tavilySearchURL = "https://api.tavily.com/search"

// SearchResult is one document returned by the search provider.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// SearchResponse is the provider's answer to one query.
type SearchResponse struct {
	Answer  string         `json:"answer"`
	Results []SearchResult `json:"results"`
}

// SearchClient performs topic searches for the research stage.
type SearchClient interface {
	Search(ctx context.Context, query string, maxResults int, includeAnswer bool) (*SearchResponse, error)
}

// TavilyClient implements SearchClient against the Tavily REST API.
type TavilyClient struct {
	APIKey     string
	HTTPClient *http.Client
}

// NewTavilyClient creates a search client with the given API key.
func NewTavilyClient(apiKey string) (*TavilyClient, error) {
	if apiKey == "" {
		return nil, errors.New("tavily api key missing; provide credentials.tavily_api_key or TAVILY_API_KEY")
	}
	return &TavilyClient{APIKey: apiKey, HTTPClient: http.DefaultClient}, nil
}

type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

// Search runs one advanced-depth query.
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int, includeAnswer bool) (*SearchResponse, error) {
	payload, err := json.Marshal(tavilyRequest{
		APIKey:        c.APIKey,
		Query:         query,
		SearchDepth:   "advanced",
		MaxResults:    maxResults,
		IncludeAnswer: includeAnswer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilySearchURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var out SearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
