package components

import (
	"regexp"
	"strings"

	"github.com/Rorical/RoriAgent/ui/styles"
)

var (
	orderedItem = regexp.MustCompile(`^(\d+)\.\s+(.*)`)
	inlineCode  = regexp.MustCompile("`([^`]+)`")
	boldText    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	linkText    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// RenderMarkdown applies a small subset of markdown to assistant output:
// fenced code, headings, lists, inline code, bold and links.
func RenderMarkdown(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	out := make([]string, 0, len(lines))

	inCode := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			out = append(out, styles.CodeStyle().Render(line))
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			out = append(out, styles.HeadingStyle().Render(renderInline(heading)))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			out = append(out, "  • "+renderInline(trimmed[2:]))
		case orderedItem.MatchString(trimmed):
			m := orderedItem.FindStringSubmatch(trimmed)
			out = append(out, "  "+m[1]+". "+renderInline(m[2]))
		default:
			out = append(out, renderInline(line))
		}
	}
	return strings.Join(out, "\n")
}

func renderInline(line string) string {
	line = inlineCode.ReplaceAllStringFunc(line, func(match string) string {
		return styles.CodeStyle().Render(strings.Trim(match, "`"))
	})
	line = linkText.ReplaceAllString(line, "$1 ($2)")
	line = boldText.ReplaceAllStringFunc(line, func(match string) string {
		return styles.BoldStyle().Render(strings.Trim(match, "*"))
	})
	return line
}
