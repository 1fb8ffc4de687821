package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriAgent/internal/config"
	"github.com/Rorical/RoriAgent/internal/eventbus"
	"github.com/Rorical/RoriAgent/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("RORIAGENT_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"profiles": {"default": {"api_key": "sk-test", "model": "gpt-4o-mini"}}, "active_profile": "default"}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	cfg, err := config.LoadConfigFrom(path)
	require.NoError(t, err)
	return cfg
}

// drain reads core events until the service reports an idle state
func drain(t *testing.T, bus *eventbus.EventBus) ([]models.DisplayMessage, []eventbus.InterruptRequestEvent, error) {
	t.Helper()
	var (
		rows       []models.DisplayMessage
		interrupts []eventbus.InterruptRequestEvent
	)
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-bus.CoreToUI():
			switch e := ev.(type) {
			case eventbus.StateUpdateEvent:
				rows = append(rows, e.Messages...)
				if !e.IsProcessing {
					return rows, interrupts, e.Error
				}
			case eventbus.InterruptRequestEvent:
				interrupts = append(interrupts, e)
			}
		case <-timeout:
			t.Fatal("timed out waiting for the service")
			return nil, nil, nil
		}
	}
}

func TestChatServiceWelcomeAndTurn(t *testing.T) {
	client := &scriptedClient{replies: []models.Message{
		models.AssistantMessage("", models.ToolCall{ID: "c1", Name: "get_weather", Args: map[string]any{"city": "sf"}}),
		models.AssistantMessage("It's always sunny in sf!"),
	}}
	agent := newTestAgent(t, client)
	bus := eventbus.NewEventBus()
	defer bus.Close()

	svc := NewChatService(testConfig(t), agent, bus, zerolog.Nop())
	require.True(t, svc.IsReady())
	svc.Start()
	defer svc.Stop()

	welcome, _, err := drain(t, bus)
	require.NoError(t, err)
	require.NotEmpty(t, welcome)
	assert.Equal(t, "-- RORIAGENT --", welcome[0].Content)

	require.NoError(t, bus.SendToCore(eventbus.SendMessageEvent{Message: "what is the weather in sf"}))

	rows, _, err := drain(t, bus)
	require.NoError(t, err)
	require.Len(t, rows, 4, "only rows appended since the last update are sent")
	assert.Equal(t, models.DisplayUser, rows[0].Type)
	assert.Equal(t, models.DisplayToolCall, rows[1].Type)
	assert.Equal(t, models.DisplayToolResult, rows[2].Type)
	assert.Equal(t, "It's always sunny in sf!", rows[3].Content)
}

func TestChatServiceHumanAssistance(t *testing.T) {
	client := &scriptedClient{replies: []models.Message{
		models.AssistantMessage("", models.ToolCall{ID: "c1", Name: "human_assistance", Args: map[string]any{"query": "help me"}}),
		models.AssistantMessage("Thanks, experts."),
	}}
	agent := newTestAgent(t, client)
	bus := eventbus.NewEventBus()
	defer bus.Close()

	svc := NewChatService(testConfig(t), agent, bus, zerolog.Nop())
	svc.Start()
	defer svc.Stop()
	_, _, err := drain(t, bus)
	require.NoError(t, err)

	require.NoError(t, bus.SendToCore(eventbus.SendMessageEvent{Message: "I need help"}))
	_, interrupts, err := drain(t, bus)
	require.NoError(t, err)
	require.Len(t, interrupts, 1)
	assert.Equal(t, "help me", interrupts[0].Request.Query)
	assert.Equal(t, svc.SessionID(), interrupts[0].Request.SessionID)

	require.NoError(t, bus.SendToCore(eventbus.InterruptResponseEvent{
		SessionID: interrupts[0].Request.SessionID,
		Response:  expertAnswer,
	}))
	rows, _, err := drain(t, bus)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, expertAnswer, rows[0].Content)
	assert.Equal(t, "Thanks, experts.", rows[1].Content)
}

func TestChatServiceWithoutAgent(t *testing.T) {
	bus := eventbus.NewEventBus()
	defer bus.Close()

	svc := NewChatService(testConfig(t), nil, bus, zerolog.Nop())
	assert.False(t, svc.IsReady())
	svc.Start()
	defer svc.Stop()
	_, _, err := drain(t, bus)
	require.NoError(t, err)

	require.NoError(t, bus.SendToCore(eventbus.SendMessageEvent{Message: "hello"}))
	_, _, err = drain(t, bus)
	assert.ErrorIs(t, err, ErrAgentUnavailable)
}
