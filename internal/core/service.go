package core

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Rorical/RoriAgent/internal/config"
	"github.com/Rorical/RoriAgent/internal/eventbus"
	"github.com/Rorical/RoriAgent/internal/models"
)

var ErrAgentUnavailable = errors.New("model client not available, configure a profile first")

// ChatService runs one console session against the agent.
// It consumes UI events from the bus and pushes incremental state back.
type ChatService struct {
	agent     *Agent // nil when the profile is not usable
	config    *config.Config
	eventBus  *eventbus.EventBus
	logger    zerolog.Logger
	sessionID string
	ctx       context.Context
	cancel    context.CancelFunc

	mu            sync.Mutex
	notices       []models.DisplayMessage // welcome and status lines shown before the conversation
	isProcessing  bool
	lastError     error
	lastSentCount int // how many display rows the UI already has
}

// NewChatService creates a ChatService regardless of config validity
// so the UI always has something to talk to.
func NewChatService(cfg *config.Config, agent *Agent, eb *eventbus.EventBus, logger zerolog.Logger) *ChatService {
	ctx, cancel := context.WithCancel(context.Background())

	service := &ChatService{
		agent:     agent,
		config:    cfg,
		eventBus:  eb,
		logger:    logger.With().Str("component", "chat_service").Logger(),
		sessionID: NewSessionID(),
		ctx:       ctx,
		cancel:    cancel,
	}
	service.addWelcomeMessages()
	return service
}

// Start runs the core logic in a goroutine
func (cs *ChatService) Start() {
	// Send initial state to UI immediately
	cs.pushStateToUI()
	go cs.eventLoop()
}

func (cs *ChatService) Stop() {
	cs.cancel()
}

func (cs *ChatService) SessionID() string {
	return cs.sessionID
}

func (cs *ChatService) IsReady() bool {
	return cs.agent != nil && cs.config.IsValid()
}

func (cs *ChatService) eventLoop() {
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SendMessageEvent:
		cs.processMessage(e.Message)
	case eventbus.InterruptResponseEvent:
		cs.processResponse(e)
	}
}

func (cs *ChatService) processMessage(text string) {
	if cs.agent == nil {
		cs.fail(ErrAgentUnavailable)
		return
	}
	cs.logger.Debug().Str("session", cs.sessionID).Msg("Submitting user message")
	cs.consume(cs.agent.Submit(cs.ctx, cs.sessionID, text))
}

func (cs *ChatService) processResponse(e eventbus.InterruptResponseEvent) {
	if cs.agent == nil {
		cs.fail(ErrAgentUnavailable)
		return
	}
	sessionID := e.SessionID
	if sessionID == "" {
		sessionID = cs.sessionID
	}
	cs.logger.Debug().Str("session", sessionID).Msg("Resuming with human response")
	cs.consume(cs.agent.Resume(cs.ctx, sessionID, e.Response))
}

// consume drains one turn, forwarding every step to the UI
func (cs *ChatService) consume(events iter.Seq2[Event, error]) {
	cs.setProcessing(true, nil)

	for ev, err := range events {
		if err != nil {
			cs.fail(err)
			return
		}
		if ev.Interrupt != nil {
			cs.requestHumanInput(ev)
		}
		cs.pushStateToUI()
	}

	cs.setProcessing(false, nil)
	cs.pushStateToUI()
}

func (cs *ChatService) requestHumanInput(ev Event) {
	request := eventbus.InterruptRequestEvent{
		Request: models.InterruptRequest{
			SessionID: ev.SessionID,
			CallID:    ev.Interrupt.CallID,
			Query:     ev.Interrupt.Query(),
		},
	}
	if err := cs.eventBus.SendToUI(request); err != nil {
		cs.logger.Error().Err(err).Msg("Failed to send interrupt request to UI")
	}
}

func (cs *ChatService) fail(err error) {
	cs.logger.Error().Err(err).Str("session", cs.sessionID).Msg("Turn failed")
	cs.setProcessing(false, err)
	cs.pushStateToUI()
}

func (cs *ChatService) setProcessing(processing bool, err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.isProcessing = processing
	cs.lastError = err
}

// Messages returns every display row: notices followed by the conversation
func (cs *ChatService) Messages() []models.DisplayMessage {
	cs.mu.Lock()
	result := make([]models.DisplayMessage, len(cs.notices))
	copy(result, cs.notices)
	cs.mu.Unlock()

	if cs.agent != nil {
		if snapshot, ok := cs.agent.State(cs.sessionID); ok {
			result = append(result, ToDisplay(snapshot.Messages)...)
		}
	}
	return result
}

func (cs *ChatService) pushStateToUI() {
	allMessages := cs.Messages()

	cs.mu.Lock()
	// Only send new messages to reduce resource usage
	start := cs.lastSentCount
	if start > len(allMessages) {
		start = len(allMessages)
	}
	newMessages := allMessages[start:]
	cs.lastSentCount = len(allMessages)
	update := eventbus.StateUpdateEvent{
		Messages:     newMessages,
		IsProcessing: cs.isProcessing,
		Error:        cs.lastError,
	}
	cs.mu.Unlock()

	if err := cs.eventBus.SendToUI(update); err != nil {
		cs.logger.Error().Err(err).Msg("Error sending state to UI")
	}
}

func (cs *ChatService) addNotice(content string) {
	cs.notices = append(cs.notices, models.DisplayMessage{
		Content: content,
		Type:    models.DisplayProgram,
	})
}

func (cs *ChatService) addWelcomeMessages() {
	// Welcome header
	cs.addNotice("-- RORIAGENT --")

	// Profile information with status
	if cs.IsReady() {
		profile := cs.config.Current()
		cs.addNotice(fmt.Sprintf("Active Profile: %s [OK] (%s/%s)", cs.config.ActiveProfile, profile.Provider, profile.Model))
		if cs.agent != nil {
			names := make([]string, 0)
			for _, spec := range cs.agent.registry.Specs() {
				names = append(names, spec.Name)
			}
			cs.addNotice("Tools: " + strings.Join(names, ", "))
		}
		cs.addNotice("Ready to chat! Type your message and press Enter")
	} else {
		cs.addNotice(fmt.Sprintf("Active Profile: %s [NOT CONFIGURED]", cs.config.ActiveProfile))
		cs.addNotice("Configure your profile to start chatting:")
		cs.addNotice("• Run: roriagent profile add <name>")
		cs.addNotice("• Or edit: " + cs.config.Path())
	}

	cs.addNotice("Controls: Ctrl+C to exit")
	cs.addNotice("")
}
