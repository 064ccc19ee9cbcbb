package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/userdash/pkg/monitor/mouse"
)

// Region IDs registered besides focusables
const (
	backdropID = "modal-backdrop"
	bodyID     = "modal-body"
)

// ActionCancel is returned by HandleKey/HandleMouse when the user dismisses the modal
const ActionCancel = "cancel"

// Variant selects the frame color
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
	VariantWarning
	VariantInfo
)

func (v Variant) color() lipgloss.Color {
	switch v {
	case VariantDanger:
		return Error
	case VariantWarning:
		return Warning
	case VariantInfo:
		return Info
	default:
		return Primary
	}
}

// FocusableInfo locates a focusable element relative to its section
type FocusableInfo struct {
	ID      string
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

// RenderedSection is a section's output plus its focusable elements
type RenderedSection struct {
	Content    string
	Focusables []FocusableInfo
}

// Section is one vertical block of modal content
type Section interface {
	Render(contentWidth int, focusID, hoverID string) RenderedSection
	// Update returns a non-empty action ID when the section was activated
	Update(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// Option configures a Modal
type Option func(*Modal)

// WithWidth sets the outer modal width (default 50)
func WithWidth(w int) Option {
	return func(m *Modal) {
		if w > 0 {
			m.width = w
		}
	}
}

// WithVariant sets the visual style
func WithVariant(v Variant) Option {
	return func(m *Modal) { m.variant = v }
}

// WithHints shows or hides the key hint line
func WithHints(show bool) Option {
	return func(m *Modal) { m.showHints = show }
}

// WithHintText replaces the default hint line
func WithHintText(s string) Option {
	return func(m *Modal) { m.hintText = s }
}

// WithPrimaryAction sets the action returned for Enter when nothing else handles it
func WithPrimaryAction(actionID string) Option {
	return func(m *Modal) { m.primaryAction = actionID }
}

// WithCloseOnBackdropClick makes clicks outside the frame return ActionCancel
func WithCloseOnBackdropClick(close bool) Option {
	return func(m *Modal) { m.closeOnBackdrop = close }
}

// Modal is a declarative dialog: a title, stacked sections, keyboard focus
// and mouse hit regions measured from the last render.
type Modal struct {
	title           string
	width           int
	variant         Variant
	showHints       bool
	hintText        string
	primaryAction   string
	closeOnBackdrop bool

	sections []Section

	focusables []FocusableInfo // absolute content coordinates from last render
	focusID    string
	hoverID    string
}

// New creates a modal with the given title
func New(title string, opts ...Option) *Modal {
	m := &Modal{
		title:     title,
		width:     50,
		showHints: true,
		hintText:  "tab focus • enter select • esc close",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddSection appends a section and returns the modal for chaining
func (m *Modal) AddSection(s Section) *Modal {
	m.sections = append(m.sections, s)
	return m
}

// Title returns the modal title
func (m *Modal) Title() string {
	return m.title
}

// FocusedID returns the focused element ID
func (m *Modal) FocusedID() string {
	return m.focusID
}

// SetFocus focuses the element with the given ID
func (m *Modal) SetFocus(id string) {
	m.focusID = id
}

// Render draws the modal centered on a screenW x screenH canvas and, when
// handler is non-nil, registers hit regions matching the drawn output.
func (m *Modal) Render(screenW, screenH int, handler *mouse.Handler) string {
	width := m.width
	if screenW > 0 && width > screenW-2 {
		width = screenW - 2
	}
	if width < 20 {
		width = 20
	}
	contentWidth := width - 4 // border + horizontal padding

	color := m.variant.color()
	parts := []string{ModalTitle.Foreground(color).Render(m.title), ""}
	lineY := 2

	var focusables []FocusableInfo
	for _, s := range m.sections {
		r := s.Render(contentWidth, m.focusID, m.hoverID)
		if r.Content == "" && len(r.Focusables) == 0 {
			continue
		}
		for _, f := range r.Focusables {
			f.OffsetY += lineY
			focusables = append(focusables, f)
		}
		parts = append(parts, r.Content)
		lineY += lipgloss.Height(r.Content)
	}
	if m.showHints && m.hintText != "" {
		parts = append(parts, "", MutedText.Render(m.hintText))
	}

	m.focusables = focusables
	if m.focusID == "" || !m.hasFocusable(m.focusID) {
		m.focusID = m.defaultFocus()
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Background(BgSecondary).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(parts, "\n"))

	boxW := lipgloss.Width(box)
	boxH := lipgloss.Height(box)
	x := max(0, (screenW-boxW)/2)
	y := max(0, (screenH-boxH)/2)

	if handler != nil {
		handler.Clear()
		handler.HitMap.AddRect(backdropID, 0, 0, max(screenW, boxW), max(screenH, boxH), nil)
		handler.HitMap.AddRect(bodyID, x, y, boxW, boxH, nil)
		// Content origin: one border cell plus one padding cell in from the frame
		cx, cy := x+2, y+1
		for _, f := range focusables {
			handler.HitMap.AddRect(f.ID, cx+f.OffsetX, cy+f.OffsetY, f.Width, f.Height, nil)
		}
	}

	return place(box, x, y)
}

// place offsets block by x columns and y rows
func place(block string, x, y int) string {
	var sb strings.Builder
	for i := 0; i < y; i++ {
		sb.WriteString("\n")
	}
	pad := strings.Repeat(" ", x)
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(pad)
		sb.WriteString(line)
	}
	return sb.String()
}

func (m *Modal) hasFocusable(id string) bool {
	for _, f := range m.focusables {
		if f.ID == id {
			return true
		}
	}
	return false
}

func (m *Modal) defaultFocus() string {
	if m.primaryAction != "" && m.hasFocusable(m.primaryAction) {
		return m.primaryAction
	}
	if len(m.focusables) > 0 {
		return m.focusables[0].ID
	}
	return ""
}

// cycleFocus moves focus by delta through the focusables of the last render
func (m *Modal) cycleFocus(delta int) {
	n := len(m.focusables)
	if n == 0 {
		return
	}
	idx := 0
	for i, f := range m.focusables {
		if f.ID == m.focusID {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%n + n) % n
	m.focusID = m.focusables[idx].ID
}

// HandleKey processes a key and returns the triggered action ID, if any
func (m *Modal) HandleKey(msg tea.KeyMsg) (string, tea.Cmd) {
	switch msg.String() {
	case "tab", "right":
		m.cycleFocus(1)
		return "", nil
	case "shift+tab", "left":
		m.cycleFocus(-1)
		return "", nil
	case "esc":
		return ActionCancel, nil
	}

	var cmds []tea.Cmd
	for _, s := range m.sections {
		action, cmd := s.Update(msg, m.focusID)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if action != "" {
			return action, tea.Batch(cmds...)
		}
	}
	if msg.String() == "enter" && m.primaryAction != "" {
		return m.primaryAction, tea.Batch(cmds...)
	}
	return "", tea.Batch(cmds...)
}

// HandleMouse resolves a mouse event against the regions of the last render
func (m *Modal) HandleMouse(msg tea.MouseMsg, handler *mouse.Handler) (string, tea.Cmd) {
	if handler == nil {
		return "", nil
	}
	a := handler.HandleMouse(msg)
	switch a.Type {
	case mouse.ActionHover:
		m.hoverID = ""
		if a.Region != nil && a.Region.ID != backdropID && a.Region.ID != bodyID {
			m.hoverID = a.Region.ID
		}
	case mouse.ActionClick, mouse.ActionDoubleClick:
		if a.Region == nil {
			return "", nil
		}
		switch a.Region.ID {
		case backdropID:
			if m.closeOnBackdrop {
				return ActionCancel, nil
			}
			return "", nil
		case bodyID:
			return "", nil
		}
		m.focusID = a.Region.ID
		return a.Region.ID, nil
	}
	return "", nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
