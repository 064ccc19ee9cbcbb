package monitor

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/userdash/internal/models"
)

// writeClipboard is replaced in tests
var writeClipboard = clipboard.WriteAll

// copySelected copies the selected user to the clipboard as markdown
func (m Model) copySelected() (tea.Model, tea.Cmd) {
	u, ok := m.SelectedUser()
	if !ok {
		return m, nil
	}
	text := formatUserAsMarkdown(u)
	name := u.FullName()
	return m, func() tea.Msg {
		return clipboardMsg{what: name, err: writeClipboard(text)}
	}
}

// formatUserAsMarkdown formats a user for the clipboard and the detail view
func formatUserAsMarkdown(u models.User) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", u.FullName()))
	sb.WriteString(fmt.Sprintf("**ID:** `%s`\n\n", u.ID))
	sb.WriteString("| Field | Value |\n|---|---|\n")
	sb.WriteString(fmt.Sprintf("| First name | %s |\n", u.FirstName))
	sb.WriteString(fmt.Sprintf("| Last name | %s |\n", u.LastName))
	sb.WriteString(fmt.Sprintf("| Email | %s |\n", u.Email))
	sb.WriteString(fmt.Sprintf("| Department | %s |\n", u.DepartmentLabel()))
	return sb.String()
}
