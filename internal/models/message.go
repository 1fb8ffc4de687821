package models

// Role identifies the author of a conversation message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a request, embedded in an assistant message, to invoke a named tool
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"arguments,omitempty"`
}

// Message is one turn of conversation history.
// Tool results carry ToolCallID (and Name) of the call they answer.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
	IsError    bool       `json:"is_error,omitempty"`
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AssistantMessage(content string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: calls}
}

func ToolMessage(callID, name, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID, Name: name}
}

// ToolErrorMessage is a tool result reporting that the call failed
func ToolErrorMessage(callID, name, reason string) Message {
	msg := ToolMessage(callID, name, "Error: "+reason)
	msg.IsError = true
	return msg
}

// HasToolCalls reports whether the message requests at least one tool invocation
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// Clone returns a copy that shares no slices or maps with m
func (m Message) Clone() Message {
	if m.ToolCalls == nil {
		return m
	}
	calls := make([]ToolCall, len(m.ToolCalls))
	for i, call := range m.ToolCalls {
		calls[i] = call
		if call.Args != nil {
			args := make(map[string]any, len(call.Args))
			for k, v := range call.Args {
				args[k] = v
			}
			calls[i].Args = args
		}
	}
	m.ToolCalls = calls
	return m
}

// CloneMessages copies a history slice
func CloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	for i, msg := range msgs {
		out[i] = msg.Clone()
	}
	return out
}
