package components

import (
	"strings"

	"github.com/Rorical/RoriAgent/internal/models"
	"github.com/Rorical/RoriAgent/ui/styles"
)

func RenderMessages(messages []models.DisplayMessage) string {
	var b strings.Builder

	for _, msg := range messages {
		switch msg.Type {
		case models.DisplayUser:
			b.WriteString(styles.UserStyle().Render("You: "+msg.Content) + "\n\n")
		case models.DisplayAssistant:
			b.WriteString(styles.AssistantStyle().Render("Assistant: "+RenderMarkdown(msg.Content)) + "\n\n")
		case models.DisplayProgram:
			b.WriteString(styles.ProgramStyle().Render(msg.Content) + "\n")
		case models.DisplayToolCall:
			b.WriteString(styles.ToolCallStyle().Render("⚙ "+msg.ToolName+" "+msg.Content) + "\n")
		case models.DisplayToolResult:
			style := styles.ToolResultStyle()
			if strings.HasPrefix(msg.Content, "Error:") {
				style = styles.ToolErrorStyle()
			}
			b.WriteString(style.Render("↳ "+msg.Content) + "\n\n")
		}
	}

	return b.String()
}

// RenderInterrupt draws the banner for a pending human-assistance request
func RenderInterrupt(request *models.InterruptRequest, width int) string {
	if request == nil {
		return ""
	}
	return styles.InterruptStyle(width).Render("The agent is asking for help:\n"+request.Query) + "\n"
}
