// Package notice keeps transient success/error notifications for the dashboard.
// Each notice expires on its own timer and can be dismissed early.
package notice

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Kind classifies a notice
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Notice is one notification
type Notice struct {
	ID        int64
	Kind      Kind
	Text      string
	CreatedAt time.Time
}

// ExpireMsg removes the notice with ID when its timer fires
type ExpireMsg struct {
	ID int64
}

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Queue holds live notices in arrival order
type Queue struct {
	items      []Notice
	nextID     int64
	ttl        time.Duration
	maxVisible int
	now        func() time.Time
}

// New creates a queue. ttl <= 0 keeps notices until dismissed.
func New(ttl time.Duration, maxVisible int) *Queue {
	if maxVisible <= 0 {
		maxVisible = 3
	}
	return &Queue{ttl: ttl, maxVisible: maxVisible, now: time.Now}
}

// Push adds a notice and returns the command that expires it
func (q *Queue) Push(kind Kind, text string) (Notice, tea.Cmd) {
	q.nextID++
	n := Notice{ID: q.nextID, Kind: kind, Text: text, CreatedAt: q.now()}
	q.items = append(q.items, n)

	if q.ttl <= 0 {
		return n, nil
	}
	id := n.ID
	return n, tea.Tick(q.ttl, func(time.Time) tea.Msg { return ExpireMsg{ID: id} })
}

// Success pushes a success notice
func (q *Queue) Success(text string) tea.Cmd {
	_, cmd := q.Push(KindSuccess, text)
	return cmd
}

// Error pushes an error notice
func (q *Queue) Error(text string) tea.Cmd {
	_, cmd := q.Push(KindError, text)
	return cmd
}

// Info pushes an informational notice
func (q *Queue) Info(text string) tea.Cmd {
	_, cmd := q.Push(KindInfo, text)
	return cmd
}

// Update handles ExpireMsg and reports whether msg was consumed
func (q *Queue) Update(msg tea.Msg) bool {
	if m, ok := msg.(ExpireMsg); ok {
		q.Expire(m.ID)
		return true
	}
	return false
}

// Expire removes a notice whose timer fired. Already dismissed IDs are ignored.
func (q *Queue) Expire(id int64) {
	q.Dismiss(id)
}

// Dismiss removes a notice. Unknown IDs are ignored.
func (q *Queue) Dismiss(id int64) bool {
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// DismissAll removes every notice
func (q *Queue) DismissAll() {
	q.items = nil
}

// All returns every live notice, oldest first
func (q *Queue) All() []Notice {
	out := make([]Notice, len(q.items))
	copy(out, q.items)
	return out
}

// Active returns the newest notices up to the visible limit, oldest first
func (q *Queue) Active() []Notice {
	start := max(0, len(q.items)-q.maxVisible)
	return q.All()[start:]
}

// Len returns the number of live notices
func (q *Queue) Len() int {
	return len(q.items)
}

// View renders active notices, one per line, truncated to width
func (q *Queue) View(width int) string {
	active := q.Active()
	if len(active) == 0 {
		return ""
	}
	lines := make([]string, 0, len(active))
	for _, n := range active {
		var style lipgloss.Style
		prefix := "• "
		switch n.Kind {
		case KindSuccess:
			style, prefix = successStyle, "✓ "
		case KindError:
			style, prefix = errorStyle, "✗ "
		default:
			style = infoStyle
		}
		text := prefix + n.Text
		if width > 0 {
			text = ansi.Truncate(text, width, "…")
		}
		lines = append(lines, style.Render(text))
	}
	return strings.Join(lines, "\n")
}
