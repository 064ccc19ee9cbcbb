package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
)

type textSection struct {
	text string
}

// Text creates a static text section wrapped to the content width
func Text(s string) Section {
	return textSection{text: s}
}

func (t textSection) Render(contentWidth int, _, _ string) RenderedSection {
	return RenderedSection{Content: BodyText.Render(cellbuf.Wrap(t.text, contentWidth, ""))}
}

func (textSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

type spacerSection struct{}

// Spacer creates a blank line
func Spacer() Section {
	return spacerSection{}
}

func (spacerSection) Render(int, string, string) RenderedSection {
	return RenderedSection{Content: " "}
}

func (spacerSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// ButtonDef describes a single button
type ButtonDef struct {
	Label    string
	ID       string
	danger   bool
	disabled bool
}

// BtnOption configures a button
type BtnOption func(*ButtonDef)

// BtnDanger styles the button as destructive
func BtnDanger() BtnOption {
	return func(b *ButtonDef) { b.danger = true }
}

// BtnDisabled draws the button muted and removes it from focus order
func BtnDisabled(disabled bool) BtnOption {
	return func(b *ButtonDef) { b.disabled = disabled }
}

// Btn creates a button definition
func Btn(label, id string, opts ...BtnOption) ButtonDef {
	b := ButtonDef{Label: label, ID: id}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

type buttonsSection struct {
	buttons []ButtonDef
}

// Buttons creates a horizontal row of buttons
func Buttons(btns ...ButtonDef) Section {
	return buttonsSection{buttons: btns}
}

func (s buttonsSection) Render(_ int, focusID, hoverID string) RenderedSection {
	var (
		parts      []string
		focusables []FocusableInfo
		x          int
	)
	for i, b := range s.buttons {
		if i > 0 {
			parts = append(parts, "  ")
			x += 2
		}
		rendered := buttonStyle(b, b.ID == focusID, b.ID == hoverID).Render(b.Label)
		w := lipgloss.Width(rendered)
		if !b.disabled {
			focusables = append(focusables, FocusableInfo{ID: b.ID, OffsetX: x, Width: w, Height: 1})
		}
		parts = append(parts, rendered)
		x += w
	}
	return RenderedSection{Content: strings.Join(parts, ""), Focusables: focusables}
}

func buttonStyle(b ButtonDef, focused, hovered bool) lipgloss.Style {
	switch {
	case b.disabled:
		return ButtonDisabled
	case b.danger && focused:
		return ButtonDangerFocused
	case b.danger && hovered:
		return ButtonDangerHover
	case b.danger:
		return ButtonDanger
	case focused:
		return ButtonFocused
	case hovered:
		return ButtonHover
	default:
		return Button
	}
}

func (s buttonsSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || (keyMsg.String() != "enter" && keyMsg.String() != " ") {
		return "", nil
	}
	for _, b := range s.buttons {
		if b.ID == focusID && !b.disabled {
			return b.ID, nil
		}
	}
	return "", nil
}

// RenderFunc renders custom section content
type RenderFunc func(contentWidth int, focusID, hoverID string) RenderedSection

// UpdateFunc handles messages for custom content
type UpdateFunc func(msg tea.Msg, focusID string) (string, tea.Cmd)

type customSection struct {
	render RenderFunc
	update UpdateFunc
}

// Custom wraps arbitrary content. update may be nil.
func Custom(render RenderFunc, update UpdateFunc) Section {
	return customSection{render: render, update: update}
}

func (c customSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return c.render(contentWidth, focusID, hoverID)
}

func (c customSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if c.update == nil {
		return "", nil
	}
	return c.update(msg, focusID)
}

type whenSection struct {
	cond    func() bool
	section Section
}

// When renders section only while cond reports true
func When(cond func() bool, section Section) Section {
	return whenSection{cond: cond, section: section}
}

func (w whenSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if !w.cond() {
		return RenderedSection{}
	}
	return w.section.Render(contentWidth, focusID, hoverID)
}

func (w whenSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if !w.cond() {
		return "", nil
	}
	return w.section.Update(msg, focusID)
}
