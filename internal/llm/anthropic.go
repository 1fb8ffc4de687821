package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Rorical/RoriAgent/internal/config"
	"github.com/Rorical/RoriAgent/internal/models"
	"github.com/Rorical/RoriAgent/internal/tools"
)

const defaultAnthropicMaxTokens = 1024

// AnthropicClient calls the Messages API
type AnthropicClient struct {
	client       anthropic.Client
	model        string
	temperature  float64
	maxTokens    int64
	systemPrompt string
}

func NewAnthropicClient(profile config.Profile, systemPrompt string) *AnthropicClient {
	opts := []option.RequestOption{option.WithAPIKey(profile.APIKey)}
	if profile.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(profile.BaseURL))
	}
	return &AnthropicClient{
		client:       anthropic.NewClient(opts...),
		model:        profile.Model,
		temperature:  profile.Temperature,
		maxTokens:    defaultAnthropicMaxTokens,
		systemPrompt: systemPrompt,
	}
}

func (c *AnthropicClient) Invoke(ctx context.Context, messages []models.Message, specs []tools.Spec) (models.Message, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		Messages:  toAnthropicMessages(messages),
		MaxTokens: c.maxTokens,
	}
	if c.systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: c.systemPrompt}}
	}
	if c.temperature > 0 {
		params.Temperature = anthropic.Float(c.temperature)
	}
	if len(specs) > 0 {
		params.Tools = toAnthropicTools(specs)
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfAuto: &anthropic.ToolChoiceAutoParam{DisableParallelToolUse: anthropic.Bool(true)},
		}
	}

	response, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return models.Message{}, fmt.Errorf("Anthropic API error: %w", err)
	}

	out := models.Message{Role: models.RoleAssistant}
	for _, block := range response.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			out.Content += b.Text
		case anthropic.ToolUseBlock:
			args := map[string]any{}
			if raw := b.JSON.Input.Raw(); raw != "" {
				if err := json.Unmarshal([]byte(raw), &args); err != nil {
					return models.Message{}, fmt.Errorf("failed to parse tool input for %s: %w", b.Name, err)
				}
			}
			out.ToolCalls = append(out.ToolCalls, models.ToolCall{
				ID:   b.ID,
				Name: b.Name,
				Args: args,
			})
		}
	}
	return out, nil
}

func toAnthropicMessages(messages []models.Message) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleUser:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case models.RoleTool:
			result = append(result, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(msg.ToolCallID, msg.Content, msg.IsError),
			))
		case models.RoleAssistant:
			blocks := []anthropic.ContentBlockParamUnion{}
			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, call.Args, call.Name))
			}
			if len(blocks) == 0 {
				continue
			}
			result = append(result, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: blocks,
			})
		}
	}
	return result
}

func toAnthropicTools(specs []tools.Spec) []anthropic.ToolUnionParam {
	result := make([]anthropic.ToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		tool := anthropic.ToolParam{
			Name:        spec.Name,
			Description: anthropic.String(spec.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: spec.Parameters["properties"],
			},
		}
		if required, ok := spec.Parameters["required"].([]string); ok {
			tool.InputSchema.Required = required
		}
		result = append(result, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return result
}
