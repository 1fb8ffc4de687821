package core

import (
	"encoding/json"
	"sync"

	"github.com/Rorical/RoriAgent/internal/models"
	"github.com/Rorical/RoriAgent/internal/tools"
)

// Interrupt is a tool call waiting on an external answer
type Interrupt struct {
	CallID  string
	Tool    string
	Payload map[string]interface{}
}

// Query returns the question carried by the interrupt, if any
func (i *Interrupt) Query() string {
	if i == nil {
		return ""
	}
	q, _ := i.Payload["query"].(string)
	return q
}

func (i *Interrupt) clone() *Interrupt {
	if i == nil {
		return nil
	}
	payload := make(map[string]interface{}, len(i.Payload))
	for k, v := range i.Payload {
		payload[k] = v
	}
	return &Interrupt{CallID: i.CallID, Tool: i.Tool, Payload: payload}
}

// ChatState is the append-only conversation of one session.
// Messages go in and come out as copies.
type ChatState struct {
	mu      sync.RWMutex
	id      string
	history []models.Message
	phase   Phase
	pending *Interrupt
	running bool
}

func NewChatState(id string) *ChatState {
	return &ChatState{
		id:      id,
		history: make([]models.Message, 0),
		phase:   PhaseDone,
	}
}

func (cs *ChatState) ID() string {
	return cs.id
}

// Messages returns a copy of the conversation history
func (cs *ChatState) Messages() []models.Message {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return models.CloneMessages(cs.history)
}

// Last returns the trailing message
func (cs *ChatState) Last() (models.Message, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if len(cs.history) == 0 {
		return models.Message{}, false
	}
	return cs.history[len(cs.history)-1].Clone(), true
}

func (cs *ChatState) Phase() Phase {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.phase
}

// Pending returns the open interrupt while suspended
func (cs *ChatState) Pending() *Interrupt {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.pending.clone()
}

// startSubmit opens a new turn with the user's message
func (cs *ChatState) startSubmit(msg models.Message) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.running {
		return ErrSessionBusy
	}
	if cs.phase == PhaseSuspended {
		return ErrSessionSuspended
	}
	if err := checkTransition(cs.phase, PhaseAwaitingModel); err != nil {
		return err
	}

	cs.history = append(cs.history, msg.Clone())
	cs.phase = PhaseAwaitingModel
	cs.running = true
	return nil
}

// startResume answers the pending interrupt with content and reopens the turn
func (cs *ChatState) startResume(content string) (models.Message, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.running {
		return models.Message{}, ErrSessionBusy
	}
	if cs.phase != PhaseSuspended || cs.pending == nil {
		return models.Message{}, ErrNotSuspended
	}

	msg := models.ToolMessage(cs.pending.CallID, cs.pending.Tool, content)
	cs.history = append(cs.history, msg)
	cs.pending = nil
	cs.phase = PhaseAwaitingModel
	cs.running = true
	return msg.Clone(), nil
}

// commit appends the output of one step and moves to the next phase
func (cs *ChatState) commit(msg models.Message, next Phase) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := checkTransition(cs.phase, next); err != nil {
		return err
	}
	cs.history = append(cs.history, msg.Clone())
	cs.phase = next
	return nil
}

func (cs *ChatState) suspend(interrupt *Interrupt) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := checkTransition(cs.phase, PhaseSuspended); err != nil {
		return err
	}
	cs.pending = interrupt.clone()
	cs.phase = PhaseSuspended
	return nil
}

// release ends the running turn. A turn cut short mid-flight returns to DONE;
// an unanswered tool call is closed with an error result so the history stays
// acceptable to the model.
func (cs *ChatState) release(reason string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	switch cs.phase {
	case PhaseAwaitingTool:
		if n := len(cs.history); n > 0 {
			for _, call := range cs.history[n-1].ToolCalls {
				cs.history = append(cs.history, models.ToolErrorMessage(call.ID, call.Name, reason))
			}
		}
		cs.phase = PhaseDone
	case PhaseAwaitingModel:
		cs.phase = PhaseDone
	}
	cs.running = false
}

// ToDisplay flattens conversation messages into console rows
func ToDisplay(history []models.Message) []models.DisplayMessage {
	result := make([]models.DisplayMessage, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case models.RoleUser:
			result = append(result, models.DisplayMessage{
				Content: msg.Content,
				Type:    models.DisplayUser,
			})
		case models.RoleAssistant:
			if msg.Content != "" {
				result = append(result, models.DisplayMessage{
					Content: msg.Content,
					Type:    models.DisplayAssistant,
				})
			}
			for _, call := range msg.ToolCalls {
				result = append(result, models.DisplayMessage{
					Content:  formatArgs(call.Args),
					Type:     models.DisplayToolCall,
					ToolName: call.Name,
					CallID:   call.ID,
				})
			}
		case models.RoleTool:
			result = append(result, models.DisplayMessage{
				Content:  toolResultText(msg),
				Type:     models.DisplayToolResult,
				ToolName: msg.Name,
				CallID:   msg.ToolCallID,
			})
		}
	}
	return result
}

// toolResultText shortens structured weather reports; anything that fails
// validation is shown verbatim
func toolResultText(msg models.Message) string {
	if msg.IsError || msg.Name != tools.WeatherReportToolName {
		return msg.Content
	}
	report, err := tools.ParseWeatherReport([]byte(msg.Content))
	if err != nil {
		return msg.Content
	}
	return report.Summary()
}

func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(data)
}
