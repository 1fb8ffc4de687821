package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Rorical/RoriAgent/internal/config"
	"github.com/Rorical/RoriAgent/internal/core"
	"github.com/Rorical/RoriAgent/internal/dispatcher"
	"github.com/Rorical/RoriAgent/internal/eventbus"
	"github.com/Rorical/RoriAgent/internal/llm"
	"github.com/Rorical/RoriAgent/internal/models"
	"github.com/Rorical/RoriAgent/internal/tools"
)

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	logger     zerolog.Logger
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	model      *AppModel
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
}

// NewAgent builds the agent for the active profile: model client, tool registry and step limit
func NewAgent(cfg *config.Config, logger zerolog.Logger) (*core.Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	registry, err := tools.NewBuiltinRegistry(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return core.NewAgent(core.AgentConfig{
		Client:   client,
		Registry: registry,
		MaxSteps: cfg.MaxSteps,
		Logger:   logger,
	})
}

func NewApplication(cfg *config.Config, logger zerolog.Logger) (*Application, error) {
	// Create event bus
	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(err eventbus.EventBusError) {
		logger.Warn().Err(err.Err).Str("operation", err.Operation).Msg("Event bus error")
	})

	// Create dispatcher
	disp := dispatcher.NewEventDispatcher(eb)

	// The service is always created; an unusable profile only disables chatting
	agent, err := NewAgent(cfg, logger)
	if err != nil {
		logger.Warn().Err(err).Str("profile", cfg.ActiveProfile).Msg("Agent not available")
	}
	chatService := core.NewChatService(cfg, agent, eb, logger)

	// Create app model
	model := &AppModel{
		appModel:   createInitialAppModel(chatService),
		dispatcher: disp,
	}

	return &Application{
		config:     cfg,
		logger:     logger,
		eventBus:   eb,
		dispatcher: disp,
		service:    chatService,
		model:      model,
	}, nil
}

func (app *Application) Start() error {
	app.logger.Info().Str("session", app.service.SessionID()).Msg("Starting chat session")
	app.service.Start()

	// Run UI
	p := tea.NewProgram(app.model)
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
}

func createInitialAppModel(chatService *core.ChatService) models.AppModel {
	// No initial messages in UI - they come from core as single source of truth
	return models.AppModel{
		Messages:         make([]models.DisplayMessage, 0),
		Status:           "Ready",
		Loading:          false,
		Width:            80,
		ChatServiceReady: chatService.IsReady(),
	}
}
