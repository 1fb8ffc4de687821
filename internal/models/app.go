package models

// InterruptRequest is a pending human-assistance request shown by the UI
type InterruptRequest struct {
	SessionID string // Session that is suspended
	CallID    string // Tool call awaiting a response
	Query     string // Question for the human
}

// DisplayType classifies a line rendered in the chat view
type DisplayType int

const (
	DisplayUser DisplayType = iota
	DisplayAssistant
	DisplayProgram
	DisplayToolCall
	DisplayToolResult
)

// DisplayMessage is a conversation message flattened for rendering
type DisplayMessage struct {
	Content  string
	Type     DisplayType
	ToolName string
	CallID   string
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Messages         []DisplayMessage  // Messages to display
	Input            string            // User input field
	Status           string            // Status bar text
	Loading          bool              // Loading state from core
	LoadingDots      int               // Animation counter for loading dots
	Width            int               // Terminal width
	Height           int               // Terminal height
	ChatServiceReady bool              // Whether chat service is available
	PendingInterrupt *InterruptRequest // Current human-assistance request
}
