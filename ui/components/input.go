package components

import (
	"github.com/Rorical/RoriAgent/ui/styles"
)

// RenderInput draws the input box. While a human answer is pending the box
// is highlighted and an empty input shows the answer prompt.
func RenderInput(input string, awaitingAnswer bool, width int) string {
	if awaitingAnswer {
		if input == "" {
			input = "Type the answer for the agent and press Enter"
		}
		return styles.PendingInputStyle(width).Render(input)
	}
	return styles.InputStyle(width).Render(input)
}
