package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSearchTool(t *testing.T) {
	var got searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query": "langgraph", "results": [
			{"title": "LangGraph", "url": "https://example.com/1", "content": "graphs", "score": 0.9},
			{"title": "Agents", "url": "https://example.com/2", "content": "agents", "score": 0.8},
			{"title": "Extra", "url": "https://example.com/3", "content": "extra", "score": 0.1}
		]}`))
	}))
	defer server.Close()

	tool := NewWebSearchTool("tvly-test", server.URL+"/")
	result, err := tool.Execute(context.Background(), map[string]interface{}{"query": "langgraph"})
	require.NoError(t, err)

	assert.Equal(t, "langgraph", got.Query)
	assert.Equal(t, 2, got.MaxResults)

	results, ok := result.Value.([]SearchResult)
	require.True(t, ok)
	require.Len(t, results, 2)
	assert.Equal(t, "LangGraph", results[0].Title)
}

func TestWebSearchToolMaxResultsAndErrors(t *testing.T) {
	var got searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		http.Error(w, `{"detail": "bad key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	tool := NewWebSearchTool("bad", server.URL)
	_, err := tool.Execute(context.Background(), map[string]interface{}{"query": "x", "max_results": float64(5)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, 5, got.MaxResults)

	_, err = tool.Execute(context.Background(), map[string]interface{}{"query": " "})
	assert.Error(t, err)
}

func TestNewWebSearchToolDefaultBaseURL(t *testing.T) {
	tool := NewWebSearchTool("k", "")
	assert.Equal(t, DefaultSearchBaseURL, tool.baseURL)
}
