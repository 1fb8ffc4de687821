package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// HumanAssistanceTool escalates a question to a human.
// It never completes on its own; the turn resumes with the human's answer.
type HumanAssistanceTool struct{}

func (h *HumanAssistanceTool) Name() string {
	return "human_assistance"
}

func (h *HumanAssistanceTool) Description() string {
	return "Request assistance from a human."
}

func (h *HumanAssistanceTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"type":        "string",
			"description": "The question or request for the human expert",
		},
	}
}

func (h *HumanAssistanceTool) RequiredParameters() []string {
	return []string{"query"}
}

func (h *HumanAssistanceTool) Execute(ctx context.Context, args map[string]interface{}) (Result, error) {
	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return Result{}, fmt.Errorf("query parameter must be a non-empty string")
	}
	return Suspend(map[string]interface{}{"query": query}), nil
}

// ResumeText converts a resume payload into tool-result content.
// Accepts a plain string or a {"data": ...} document.
func ResumeText(payload interface{}) string {
	switch p := payload.(type) {
	case nil:
		return ""
	case string:
		return p
	case map[string]interface{}:
		if data, ok := p["data"].(string); ok {
			return data
		}
	case map[string]string:
		if data, ok := p["data"]; ok {
			return data
		}
	}
	if data, err := json.Marshal(payload); err == nil {
		return string(data)
	}
	return fmt.Sprintf("%v", payload)
}
