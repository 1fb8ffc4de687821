package styles

import "github.com/charmbracelet/lipgloss"

func InputStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Width(max(width-4, 10))
}

// PendingInputStyle marks the input box while a human answer is expected
func PendingInputStyle(width int) lipgloss.Style {
	return InputStyle(width).BorderForeground(lipgloss.Color("203"))
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func UserStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("39")).
		Padding(0, 1).
		MarginLeft(2)
}

func AssistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("214")).
		Padding(0, 1).
		MarginLeft(2)
}

func ProgramStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("141")).
		Bold(true).
		Padding(0, 2)
}

func ToolCallStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("166")).
		Padding(0, 1).
		MarginLeft(2)
}

func ToolResultStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("72")).
		Padding(0, 1).
		MarginLeft(4)
}

func ToolErrorStyle() lipgloss.Style {
	return ToolResultStyle().Foreground(lipgloss.Color("203"))
}

func InterruptStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("229")).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("203")).
		Padding(0, 1).
		Width(max(width-4, 10))
}

// Markdown styles
func CodeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Padding(0, 1)
}

func HeadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Underline(true)
}

func BoldStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}
