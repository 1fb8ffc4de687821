package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriAgent/internal/eventbus"
	"github.com/Rorical/RoriAgent/internal/models"
)

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus, chatReady bool) tea.Cmd {
	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit
	case tea.KeyEnter:
		return submitInput(appModel, eb, chatReady)
	case tea.KeyBackspace:
		if runes := []rune(appModel.Input); len(runes) > 0 {
			appModel.Input = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		appModel.Input += " "
	case tea.KeyRunes:
		appModel.Input += string(keyMsg.Runes)
	}
	return nil
}

func submitInput(appModel *models.AppModel, eb *eventbus.EventBus, chatReady bool) tea.Cmd {
	text := strings.TrimSpace(appModel.Input)
	if text == "" {
		return nil
	}
	if !chatReady {
		appModel.Input = ""
		appModel.Status = "Chat service not available"
		return nil
	}
	if appModel.Loading {
		appModel.Status = "Still working on the previous message"
		return nil
	}

	var event eventbus.UIEvent = eventbus.SendMessageEvent{Message: text}
	if pending := appModel.PendingInterrupt; pending != nil {
		event = eventbus.InterruptResponseEvent{SessionID: pending.SessionID, Response: text}
	}

	if err := eb.SendToCore(event); err != nil {
		appModel.Status = "Error sending message: " + err.Error()
		return nil
	}

	// Only manage local UI state - clear input
	appModel.Input = ""
	appModel.PendingInterrupt = nil
	return nil
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		// Core sends only rows appended since the previous update
		appModel.Messages = append(appModel.Messages, event.Messages...)
		appModel.Loading = event.IsProcessing

		switch {
		case event.Error != nil:
			appModel.Status = "Error: " + event.Error.Error()
		case event.IsProcessing:
			appModel.Status = "Processing"
		case appModel.PendingInterrupt != nil:
			appModel.Status = "Waiting for your answer"
		default:
			appModel.Status = "Ready"
		}
	case eventbus.InterruptRequestEvent:
		request := event.Request
		appModel.PendingInterrupt = &request
		appModel.Status = "Waiting for your answer"
	}

	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Loading {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
