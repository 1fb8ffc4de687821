package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultSearchBaseURL = "https://api.tavily.com"

// SearchResult is one hit returned by the search backend
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Answer  string         `json:"answer,omitempty"`
	Results []SearchResult `json:"results"`
}

// WebSearchTool queries the Tavily search API
type WebSearchTool struct {
	apiKey     string
	baseURL    string
	maxResults int
	client     *http.Client
}

// NewWebSearchTool creates a search tool. An empty baseURL selects the public API.
func NewWebSearchTool(apiKey, baseURL string) *WebSearchTool {
	if baseURL == "" {
		baseURL = DefaultSearchBaseURL
	}
	return &WebSearchTool{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxResults: 2,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *WebSearchTool) Name() string {
	return "web_search"
}

func (s *WebSearchTool) Description() string {
	return "Search the web for current information. Returns titles, URLs and content snippets."
}

func (s *WebSearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"type":        "string",
			"description": "Search query",
		},
		"max_results": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum number of results (default: 2)",
			"minimum":     1,
			"maximum":     10,
		},
	}
}

func (s *WebSearchTool) RequiredParameters() []string {
	return []string{"query"}
}

func (s *WebSearchTool) Execute(ctx context.Context, args map[string]interface{}) (Result, error) {
	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return Result{}, fmt.Errorf("query parameter must be a non-empty string")
	}

	maxResults := s.maxResults
	if val, exists := args["max_results"]; exists {
		if n, ok := val.(float64); ok && n >= 1 {
			maxResults = int(n)
		}
	}

	body, err := json.Marshal(searchRequest{Query: query, MaxResults: maxResults})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("User-Agent", "RoriAgent-SearchTool/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("search API returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var parsed searchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Results) > maxResults {
		parsed.Results = parsed.Results[:maxResults]
	}

	return Value(parsed.Results), nil
}
