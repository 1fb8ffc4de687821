package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriAgent/internal/models"
)

func newTestDispatcher(t *testing.T, extra ...Tool) *Dispatcher {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register(&WeatherTool{}))
	require.NoError(t, r.Register(&WeatherReportTool{}))
	require.NoError(t, r.Register(&HumanAssistanceTool{}))
	for _, tool := range extra {
		require.NoError(t, r.Register(tool))
	}
	return NewDispatcher(r, zerolog.Nop())
}

func TestDispatchValue(t *testing.T) {
	d := newTestDispatcher(t)

	out, err := d.Dispatch(context.Background(), models.ToolCall{ID: "c1", Name: "get_weather", Args: map[string]any{"city": "sf"}})
	require.NoError(t, err)
	assert.False(t, out.Suspended())
	assert.Nil(t, out.Fault)
	assert.Equal(t, models.ToolMessage("c1", "get_weather", "It's always sunny in sf!"), out.Message)
}

func TestDispatchStructuredValueAsJSON(t *testing.T) {
	d := newTestDispatcher(t)

	out, err := d.Dispatch(context.Background(), models.ToolCall{ID: "c2", Name: "get_weather_report", Args: map[string]any{"city": "Paris"}})
	require.NoError(t, err)

	report, err := ParseWeatherReport([]byte(out.Message.Content))
	require.NoError(t, err)
	assert.Equal(t, "Paris", report.City)
	assert.Equal(t, "sunny", report.Condition)
}

func TestDispatchSuspends(t *testing.T) {
	d := newTestDispatcher(t)

	out, err := d.Dispatch(context.Background(), models.ToolCall{ID: "c3", Name: "human_assistance", Args: map[string]any{"query": "help?"}})
	require.NoError(t, err)
	require.True(t, out.Suspended())
	assert.Equal(t, "help?", out.Suspension.Query())
	assert.Empty(t, out.Message.Content)
}

func TestDispatchUnknownTool(t *testing.T) {
	d := newTestDispatcher(t)

	_, err := d.Dispatch(context.Background(), models.ToolCall{ID: "c4", Name: "nope"})
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestDispatchFaults(t *testing.T) {
	failing := &stubTool{name: "failing", params: map[string]interface{}{}, run: func(ctx context.Context, args map[string]interface{}) (Result, error) {
		return Result{}, errors.New("backend down")
	}}
	panicking := &stubTool{name: "panicking", params: map[string]interface{}{}, run: func(ctx context.Context, args map[string]interface{}) (Result, error) {
		panic("boom")
	}}
	d := newTestDispatcher(t, failing, panicking)

	tests := []struct {
		name    string
		call    models.ToolCall
		content string
	}{
		{"execution error", models.ToolCall{ID: "f1", Name: "failing"}, "Error: backend down"},
		{"panic", models.ToolCall{ID: "f2", Name: "panicking"}, "Error: panic: boom"},
		{"invalid arguments", models.ToolCall{ID: "f3", Name: "get_weather", Args: map[string]any{}}, "Error: invalid arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := d.Dispatch(context.Background(), tt.call)
			require.NoError(t, err)
			require.NotNil(t, out.Fault)
			assert.Equal(t, tt.call.ID, out.Fault.CallID)
			assert.Equal(t, tt.call.ID, out.Message.ToolCallID)
			assert.Equal(t, models.RoleTool, out.Message.Role)
			assert.Contains(t, out.Message.Content, tt.content)
			assert.True(t, out.Message.IsError)
		})
	}
}

type label string

func (l label) String() string { return "label:" + string(l) }

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "plain", FormatValue("plain"))
	assert.Equal(t, "label:x", FormatValue(label("x")))
	assert.Equal(t, "{\n  \"a\": 1\n}", FormatValue(map[string]int{"a": 1}))
}
