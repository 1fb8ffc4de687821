package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rorical/RoriAgent/internal/config"
	"github.com/Rorical/RoriAgent/internal/models"
	"github.com/Rorical/RoriAgent/internal/tools"
)

var (
	ErrNoChoices           = errors.New("no response choices returned")
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// Client turns a conversation into the next assistant message.
// The returned message may request zero or more tool calls.
type Client interface {
	Invoke(ctx context.Context, messages []models.Message, specs []tools.Spec) (models.Message, error)
}

// NewClient creates the client for the active profile's provider
func NewClient(cfg *config.Config) (Client, error) {
	profile := cfg.Current()
	switch profile.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(profile, cfg.SystemPrompt), nil
	case config.ProviderAnthropic:
		return NewAnthropicClient(profile, cfg.SystemPrompt), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, profile.Provider)
	}
}
