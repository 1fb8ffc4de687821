package tools

import (
	"github.com/rs/zerolog"

	"github.com/Rorical/RoriAgent/internal/config"
)

// NewBuiltinRegistry creates a registry holding the default tool catalog.
// web_search is only registered when the active profile has a search key.
func NewBuiltinRegistry(cfg *config.Config, logger zerolog.Logger) (*Registry, error) {
	registry := NewRegistry()

	builtin := []Tool{
		&WeatherTool{},
		&WeatherReportTool{},
		&HumanAssistanceTool{},
	}

	profile := cfg.Current()
	if profile.SearchAPIKey != "" {
		builtin = append(builtin, NewWebSearchTool(profile.SearchAPIKey, profile.SearchBaseURL))
	} else {
		logger.Debug().Msg("No search API key configured, web_search disabled")
	}

	for _, tool := range builtin {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}

	logger.Debug().Int("count", len(builtin)).Msg("Registered builtin tools")
	return registry, nil
}
