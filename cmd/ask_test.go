package cmd

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriAgent/internal/core"
	"github.com/Rorical/RoriAgent/internal/models"
	"github.com/Rorical/RoriAgent/internal/tools"
)

type replayClient struct {
	mu      sync.Mutex
	replies []models.Message
	seen    [][]models.Message
}

func (c *replayClient) Invoke(ctx context.Context, messages []models.Message, specs []tools.Spec) (models.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, messages)
	reply := c.replies[0]
	c.replies = c.replies[1:]
	return reply, nil
}

func newAskRunner(t *testing.T, client *replayClient, stdin string, responses ...string) (*askSessionRunner, *bytes.Buffer) {
	t.Helper()
	registry := tools.NewRegistry()
	require.NoError(t, registry.Register(&tools.WeatherTool{}))
	require.NoError(t, registry.Register(&tools.HumanAssistanceTool{}))
	agent, err := core.NewAgent(core.AgentConfig{Client: client, Registry: registry, Logger: zerolog.Nop()})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &askSessionRunner{
		agent:     agent,
		sessionID: "ask-test",
		out:       out,
		in:        bufio.NewReader(strings.NewReader(stdin)),
		responses: responses,
	}, out
}

func TestAskPrintsFinalAnswer(t *testing.T) {
	client := &replayClient{replies: []models.Message{
		models.AssistantMessage("", models.ToolCall{ID: "c1", Name: "get_weather", Args: map[string]any{"city": "sf"}}),
		models.AssistantMessage("It's sunny in sf."),
	}}
	runner, out := newAskRunner(t, client, "")

	require.NoError(t, runner.run(context.Background(), "what is the weather in sf"))
	assert.Equal(t, "Assistant: It's sunny in sf.\n", out.String())
}

func TestAskAnswersInterruptFromFlag(t *testing.T) {
	client := &replayClient{replies: []models.Message{
		models.AssistantMessage("", models.ToolCall{ID: "c1", Name: "human_assistance", Args: map[string]any{"query": "Which framework?"}}),
		models.AssistantMessage("Use LangGraph."),
	}}
	runner, out := newAskRunner(t, client, "", "LangGraph")

	require.NoError(t, runner.run(context.Background(), "help me build an agent"))
	assert.Contains(t, out.String(), "Human assistance requested: Which framework?")
	assert.Contains(t, out.String(), "Assistant: Use LangGraph.")
	assert.Contains(t, client.seen[1], models.ToolMessage("c1", "human_assistance", "LangGraph"))
}

func TestAskAnswersInterruptFromStdin(t *testing.T) {
	client := &replayClient{replies: []models.Message{
		models.AssistantMessage("", models.ToolCall{ID: "c1", Name: "human_assistance", Args: map[string]any{"query": "Which framework?"}}),
		models.AssistantMessage("Noted."),
	}}
	runner, out := newAskRunner(t, client, "from stdin\n")
	runner.verbose = true

	require.NoError(t, runner.run(context.Background(), "help"))
	assert.Contains(t, out.String(), "Response: ")
	assert.Contains(t, out.String(), "Tool result human_assistance (c1): from stdin")
	assert.Contains(t, out.String(), "-> DONE")
}

func TestAskFailsWithoutResponse(t *testing.T) {
	client := &replayClient{replies: []models.Message{
		models.AssistantMessage("", models.ToolCall{ID: "c1", Name: "human_assistance", Args: map[string]any{"query": "?"}}),
	}}
	runner, _ := newAskRunner(t, client, "")

	err := runner.run(context.Background(), "help")
	assert.ErrorContains(t, err, "failed to read response")
}
