package monitor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/marcus/userdash/pkg/monitor/modal"
)

const helpMarkdown = `Manage the users behind the configured API. Changes are sent
immediately; the page reloads after every successful change.

## Rows

| Key | Action |
|---|---|
| ↑/k ↓/j | move selection |
| e, enter | edit user |
| d | delete user |
| v | show details |
| y | copy as markdown |

## Page

| Key | Action |
|---|---|
| a | add user |
| ←/h/p | previous page |
| →/l/n | next page |
| r | refresh |
| / | filter this page |
| A | recent activity |
| x | dismiss newest notice (or click it) |
| q | quit |

In dialogs: **tab** moves focus, **enter** activates, **ctrl+s** saves a
form and **esc** closes.
`

// markdownBody renders markdown with glamour, cached per width
type markdownBody struct {
	source string
	width  int
	out    string
}

func newMarkdownBody(source string) *markdownBody {
	return &markdownBody{source: source}
}

// View implements modal.Body
func (b *markdownBody) View(width int) string {
	if b.out != "" && b.width == width {
		return b.out
	}
	b.width = width
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		b.out = b.source
		return b.out
	}
	out, err := r.Render(b.source)
	if err != nil {
		b.out = b.source
		return b.out
	}
	b.out = strings.Trim(out, "\n")
	return b.out
}

// openHelp shows the key reference
func (m *Model) openHelp() tea.Cmd {
	width, _ := m.formModalDimensions()
	return m.Modals.Show(modal.Request{
		Heading: "User Management Dashboard",
		Body:    newMarkdownBody(helpMarkdown),
		Width:   width,
		Variant: modal.VariantInfo,
		Actions: []modal.Action{{Label: "Close", Intent: modal.IntentPrimary, CloseOnClick: true}},
	})
}

// openDetail shows the selected user
func (m Model) openDetail() (tea.Model, tea.Cmd) {
	u, ok := m.SelectedUser()
	if !ok {
		return m, nil
	}
	width, _ := m.formModalDimensions()
	cmd := m.Modals.Show(modal.Request{
		Heading: "User Details",
		Body:    newMarkdownBody(formatUserAsMarkdown(u)),
		Width:   width,
		Actions: []modal.Action{
			{Label: "Edit", Intent: modal.IntentPrimary, CloseOnClick: true, OnClick: func() tea.Cmd {
				return func() tea.Msg { return openEditMsg{User: u} }
			}},
			{Label: "Close", CloseOnClick: true},
		},
	})
	return m, cmd
}
