package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriAgent/internal/models"
	"github.com/Rorical/RoriAgent/internal/tools"
)

func TestPhaseTransitions(t *testing.T) {
	tests := []struct {
		from, to Phase
		ok       bool
	}{
		{PhaseDone, PhaseAwaitingModel, true},
		{PhaseAwaitingModel, PhaseAwaitingTool, true},
		{PhaseAwaitingModel, PhaseDone, true},
		{PhaseAwaitingTool, PhaseSuspended, true},
		{PhaseAwaitingTool, PhaseAwaitingModel, true},
		{PhaseSuspended, PhaseAwaitingModel, true},
		{PhaseDone, PhaseAwaitingTool, false},
		{PhaseSuspended, PhaseDone, false},
		{PhaseAwaitingTool, PhaseDone, false},
		{PhaseAwaitingModel, PhaseSuspended, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransition(tt.to))
			err := checkTransition(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "AWAITING_MODEL", PhaseAwaitingModel.String())
	assert.Equal(t, "SUSPENDED", PhaseSuspended.String())
	assert.Equal(t, "Phase(9)", Phase(9).String())
}

func TestChatStateCopiesMessages(t *testing.T) {
	state := NewChatState("s")
	call := models.ToolCall{ID: "c", Name: "get_weather", Args: map[string]any{"city": "sf"}}
	require.NoError(t, state.startSubmit(models.UserMessage("hi")))
	require.NoError(t, state.commit(models.AssistantMessage("", call), PhaseAwaitingTool))

	msgs := state.Messages()
	msgs[1].ToolCalls[0].Args["city"] = "nyc"
	msgs[0].Content = "changed"

	again := state.Messages()
	assert.Equal(t, "hi", again[0].Content)
	assert.Equal(t, "sf", again[1].ToolCalls[0].Args["city"])
}

func TestChatStateGuards(t *testing.T) {
	state := NewChatState("s")
	require.NoError(t, state.startSubmit(models.UserMessage("one")))
	assert.ErrorIs(t, state.startSubmit(models.UserMessage("two")), ErrSessionBusy)

	require.NoError(t, state.commit(models.AssistantMessage("", models.ToolCall{ID: "c", Name: "human_assistance"}), PhaseAwaitingTool))
	require.NoError(t, state.suspend(&Interrupt{CallID: "c", Tool: "human_assistance", Payload: map[string]interface{}{"query": "help"}}))
	state.release("")

	assert.Equal(t, PhaseSuspended, state.Phase())
	assert.Equal(t, "help", state.Pending().Query())
	assert.ErrorIs(t, state.startSubmit(models.UserMessage("three")), ErrSessionSuspended)

	msg, err := state.startResume("answer")
	require.NoError(t, err)
	assert.Equal(t, "c", msg.ToolCallID)
	assert.Equal(t, "human_assistance", msg.Name)
	assert.Nil(t, state.Pending())
	assert.Equal(t, PhaseAwaitingModel, state.Phase())

	_, err = state.startResume("again")
	assert.ErrorIs(t, err, ErrSessionBusy)
}

func TestToDisplay(t *testing.T) {
	rows := ToDisplay([]models.Message{
		models.UserMessage("weather?"),
		models.AssistantMessage("checking", models.ToolCall{ID: "c1", Name: "get_weather", Args: map[string]any{"city": "sf"}}),
		models.ToolMessage("c1", "get_weather", "It's always sunny in sf!"),
	})

	require.Len(t, rows, 4)
	assert.Equal(t, models.DisplayUser, rows[0].Type)
	assert.Equal(t, models.DisplayAssistant, rows[1].Type)
	assert.Equal(t, models.DisplayToolCall, rows[2].Type)
	assert.Equal(t, `{"city":"sf"}`, rows[2].Content)
	assert.Equal(t, "get_weather", rows[2].ToolName)
	assert.Equal(t, models.DisplayToolResult, rows[3].Type)
	assert.Equal(t, "c1", rows[3].CallID)
}

func TestToDisplaySummarizesWeatherReports(t *testing.T) {
	report, err := (&tools.WeatherReportTool{}).Execute(context.Background(), map[string]interface{}{"city": "Paris"})
	require.NoError(t, err)

	rows := ToDisplay([]models.Message{
		models.ToolMessage("c1", tools.WeatherReportToolName, tools.FormatValue(report.Value)),
		models.ToolMessage("c2", tools.WeatherReportToolName, `{"condition": "cloudy"}`),
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "Paris: sunny, 21.5°C, humidity 55%, wind 3.4 m/s W, precipitation 0.0 mm, visibility 16.0 km, pressure 1015.2 hPa", rows[0].Content)
	assert.Equal(t, `{"condition": "cloudy"}`, rows[1].Content, "invalid reports are shown as-is")
}
