package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// ListItem is one row of a List section
type ListItem struct {
	ID    string
	Label string
	// Detail is shown muted under the label while the item is selected
	Detail string
}

// ListOption configures a List section
type ListOption func(*listSection)

// WithMaxVisible caps the number of rows drawn at once (default 5)
func WithMaxVisible(n int) ListOption {
	return func(s *listSection) {
		if n > 0 {
			s.maxVisible = n
		}
	}
}

// WithEmptyText sets the placeholder shown for an empty list
func WithEmptyText(text string) ListOption {
	return func(s *listSection) { s.emptyText = text }
}

type listSection struct {
	id         string
	items      []ListItem
	selected   *int
	maxVisible int
	offset     int
	emptyText  string
}

// List creates a scrollable single-selection list. selected points at the
// caller's cursor and is updated in place; it may be nil for a read-only list.
func List(id string, items []ListItem, selected *int, opts ...ListOption) Section {
	s := &listSection{
		id:         id,
		items:      items,
		selected:   selected,
		maxVisible: 5,
		emptyText:  "(nothing here yet)",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *listSection) cursor() int {
	if s.selected == nil {
		return -1
	}
	return *s.selected
}

func (s *listSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if len(s.items) == 0 {
		return RenderedSection{Content: MutedText.Render(s.emptyText)}
	}

	visible := min(s.maxVisible, len(s.items))
	cur := s.cursor()
	if cur >= 0 {
		if cur < s.offset {
			s.offset = cur
		} else if cur >= s.offset+visible {
			s.offset = cur - visible + 1
		}
	}
	s.offset = clamp(s.offset, 0, len(s.items)-visible)

	focused := focusID == s.id
	var lines []string
	if s.offset > 0 {
		lines = append(lines, MutedText.Render("↑ more"))
	}
	for i := s.offset; i < s.offset+visible; i++ {
		item := s.items[i]
		style := ListItemNormal
		prefix := "  "
		switch {
		case i == cur && focused:
			style, prefix = ListItemFocused, ListCursor.Render("> ")
		case i == cur:
			style, prefix = ListItemSelected, ListCursor.Render("> ")
		}
		label := ansi.Truncate(item.Label, max(1, contentWidth-2), "…")
		lines = append(lines, prefix+style.Render(label))
		if i == cur && item.Detail != "" {
			lines = append(lines, "  "+MutedText.Render(ansi.Truncate(item.Detail, max(1, contentWidth-2), "…")))
		}
	}
	if s.offset+visible < len(s.items) {
		lines = append(lines, MutedText.Render("↓ more"))
	}

	// The list is one focus stop; arrow keys move within it
	return RenderedSection{
		Content: strings.Join(lines, "\n"),
		Focusables: []FocusableInfo{{
			ID:     s.id,
			Width:  contentWidth,
			Height: len(lines),
		}},
	}
}

func (s *listSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || focusID != s.id || s.selected == nil || len(s.items) == 0 {
		return "", nil
	}

	last := len(s.items) - 1
	switch keyMsg.String() {
	case "up", "k":
		*s.selected = clamp(*s.selected-1, 0, last)
	case "down", "j":
		*s.selected = clamp(*s.selected+1, 0, last)
	case "pgup":
		*s.selected = clamp(*s.selected-s.maxVisible, 0, last)
	case "pgdown":
		*s.selected = clamp(*s.selected+s.maxVisible, 0, last)
	case "home", "g":
		*s.selected = 0
	case "end", "G":
		*s.selected = last
	case "enter":
		if *s.selected >= 0 && *s.selected <= last {
			return s.items[*s.selected].ID, nil
		}
	}
	return "", nil
}
