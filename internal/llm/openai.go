package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/Rorical/RoriAgent/internal/config"
	"github.com/Rorical/RoriAgent/internal/models"
	"github.com/Rorical/RoriAgent/internal/tools"
)

// OpenAIClient calls the chat completions API
type OpenAIClient struct {
	client       *openai.Client
	model        string
	temperature  float32
	systemPrompt string
}

func NewOpenAIClient(profile config.Profile, systemPrompt string) *OpenAIClient {
	clientConfig := openai.DefaultConfig(profile.APIKey)
	if profile.BaseURL != "" {
		clientConfig.BaseURL = profile.BaseURL
	}
	return &OpenAIClient{
		client:       openai.NewClientWithConfig(clientConfig),
		model:        profile.Model,
		temperature:  float32(profile.Temperature),
		systemPrompt: systemPrompt,
	}
}

func (c *OpenAIClient) Invoke(ctx context.Context, messages []models.Message, specs []tools.Spec) (models.Message, error) {
	openaiMessages, err := toOpenAIMessages(c.systemPrompt, messages)
	if err != nil {
		return models.Message{}, err
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    openaiMessages,
		Temperature: c.temperature,
	}
	if len(specs) > 0 {
		req.Tools = toOpenAITools(specs)
		// one call per turn keeps resume deterministic
		req.ParallelToolCalls = false
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return models.Message{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Message{}, ErrNoChoices
	}

	return fromOpenAIMessage(resp.Choices[0].Message)
}

func toOpenAIMessages(systemPrompt string, messages []models.Message) ([]openai.ChatCompletionMessage, error) {
	result := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if systemPrompt != "" {
		result = append(result, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}

	for _, msg := range messages {
		switch msg.Role {
		case models.RoleUser:
			result = append(result, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: msg.Content,
			})
		case models.RoleAssistant:
			out := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: msg.Content,
			}
			for _, call := range msg.ToolCalls {
				args, err := json.Marshal(call.Args)
				if err != nil {
					return nil, fmt.Errorf("failed to marshal tool arguments: %w", err)
				}
				out.ToolCalls = append(out.ToolCalls, openai.ToolCall{
					ID:   call.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      call.Name,
						Arguments: string(args),
					},
				})
			}
			result = append(result, out)
		case models.RoleTool:
			result = append(result, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    msg.Content,
				ToolCallID: msg.ToolCallID,
			})
		}
	}
	return result, nil
}

func toOpenAITools(specs []tools.Spec) []openai.Tool {
	result := make([]openai.Tool, len(specs))
	for i, spec := range specs {
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.Parameters,
			},
		}
	}
	return result
}

func fromOpenAIMessage(msg openai.ChatCompletionMessage) (models.Message, error) {
	out := models.Message{
		Role:    models.RoleAssistant,
		Content: msg.Content,
	}
	for _, call := range msg.ToolCalls {
		args := map[string]any{}
		if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return models.Message{}, fmt.Errorf("failed to parse tool arguments for %s: %w", call.Function.Name, err)
			}
		}
		out.ToolCalls = append(out.ToolCalls, models.ToolCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: args,
		})
	}
	return out, nil
}
