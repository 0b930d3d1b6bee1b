package client

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blindbid/internal/server"
)

var (
	roomStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	directStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")).
			Bold(true)

	editStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Strikethrough(true)
)

// FormatNotice renders a notice or an edit for the terminal. Direct
// notices are marked so that private prompts stand out.
func FormatNotice(n server.NoticeData, edit bool) string {
	var b strings.Builder

	style := roomStyle
	prefix := "[" + n.SessionID + "] "
	if n.SessionID == "" {
		style = directStyle
		prefix = "[private] "
	}
	if edit {
		style = editStyle
		prefix += "(updated) "
	}
	b.WriteString(style.Render(prefix + n.Text))

	if len(n.Choices) > 0 {
		opts := make([]string, len(n.Choices))
		for i, c := range n.Choices {
			if c.Disabled {
				opts[i] = disabledStyle.Render(c.Label)
				continue
			}
			opts[i] = choiceStyle.Render("[" + c.Label + "]")
		}
		b.WriteString("\n  ")
		b.WriteString(strings.Join(opts, " "))
	}
	return b.String()
}

// FormatError renders a server error message
func FormatError(e server.ErrorData) string {
	return errorStyle.Render("error (" + e.Code + "): " + e.Message)
}
