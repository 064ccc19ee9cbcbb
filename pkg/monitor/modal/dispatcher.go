package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/marcus/userdash/pkg/monitor/mouse"
)

// Intent selects how an action button is drawn
type Intent int

const (
	IntentDefault Intent = iota
	IntentPrimary
	IntentDanger
)

// Action is a button in a dialog footer
type Action struct {
	Label string
	// ID defaults to the lower-cased label with spaces replaced by dashes
	ID       string
	Intent   Intent
	Disabled bool
	// CloseOnClick closes the dialog before OnClick runs
	CloseOnClick bool
	OnClick      func() tea.Cmd
}

// Body is dialog content
type Body interface {
	View(width int) string
}

// Interactive bodies receive every key except esc and ctrl+s, plus all
// non-input messages while shown.
type Interactive interface {
	Body
	Update(msg tea.Msg) tea.Cmd
}

// Initializer bodies return a command to run when shown
type Initializer interface {
	Init() tea.Cmd
}

// Message is a plain text body
type Message string

// View wraps the text to width
func (m Message) View(width int) string {
	return cellbuf.Wrap(string(m), width, "")
}

// Request describes one dialog
type Request struct {
	Heading string
	Body    Body
	Actions []Action
	Variant Variant
	Width   int
	Hints   string
}

// Dispatcher owns the single visible dialog. The zero value is not usable;
// create one with NewDispatcher and share it with whatever opens dialogs.
type Dispatcher struct {
	req   *Request
	modal *Modal
	mouse *mouse.Handler
}

// NewDispatcher creates a closed dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{mouse: mouse.NewHandler()}
}

// Show replaces any open dialog with req
func (d *Dispatcher) Show(req Request) tea.Cmd {
	actions := make([]Action, len(req.Actions))
	for i, a := range req.Actions {
		if a.ID == "" {
			a.ID = actionID(a.Label)
		}
		actions[i] = a
	}
	req.Actions = actions
	d.req = &req
	d.modal = d.build(d.req)
	d.mouse.Clear()

	if init, ok := req.Body.(Initializer); ok {
		return init.Init()
	}
	return nil
}

func actionID(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "-")
}

func (d *Dispatcher) build(req *Request) *Modal {
	opts := []Option{WithVariant(req.Variant)}
	if req.Width > 0 {
		opts = append(opts, WithWidth(req.Width))
	}
	if req.Hints != "" {
		opts = append(opts, WithHintText(req.Hints))
	} else if _, ok := req.Body.(Interactive); ok {
		opts = append(opts, WithHintText("ctrl+s save • esc cancel"))
	}
	for _, a := range req.Actions {
		if a.Intent == IntentPrimary && !a.Disabled {
			opts = append(opts, WithPrimaryAction(a.ID))
			break
		}
	}

	m := New(req.Heading, opts...)
	if req.Body != nil {
		body := req.Body
		m.AddSection(Custom(func(contentWidth int, _, _ string) RenderedSection {
			return RenderedSection{Content: body.View(contentWidth)}
		}, nil))
	}
	if len(req.Actions) > 0 {
		btns := make([]ButtonDef, 0, len(req.Actions))
		for _, a := range req.Actions {
			var bopts []BtnOption
			if a.Intent == IntentDanger {
				bopts = append(bopts, BtnDanger())
			}
			if a.Disabled {
				bopts = append(bopts, BtnDisabled(true))
			}
			btns = append(btns, Btn(a.Label, a.ID, bopts...))
		}
		m.AddSection(Spacer())
		m.AddSection(Buttons(btns...))
	}
	return m
}

// Close hides the dialog and drops its content
func (d *Dispatcher) Close() {
	d.req = nil
	d.modal = nil
	d.mouse.Clear()
}

// IsOpen reports whether a dialog is shown
func (d *Dispatcher) IsOpen() bool {
	return d.req != nil
}

// Current returns the open request
func (d *Dispatcher) Current() (*Request, bool) {
	if d.req == nil {
		return nil, false
	}
	return d.req, true
}

// View renders the open dialog centered in a width x height area
func (d *Dispatcher) View(width, height int) string {
	if d.modal == nil {
		return ""
	}
	return d.modal.Render(width, height, d.mouse)
}

// HandleKey routes a key press to the open dialog
func (d *Dispatcher) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if d.req == nil {
		return nil
	}

	switch msg.String() {
	case "esc":
		return d.trigger(ActionCancel)
	case "ctrl+s":
		if d.modal.primaryAction != "" {
			return d.trigger(d.modal.primaryAction)
		}
	}

	if body, ok := d.req.Body.(Interactive); ok {
		return body.Update(msg)
	}

	action, cmd := d.modal.HandleKey(msg)
	if action == "" {
		return cmd
	}
	return tea.Batch(cmd, d.trigger(action))
}

// HandleMouse routes a mouse event to the open dialog
func (d *Dispatcher) HandleMouse(msg tea.MouseMsg) tea.Cmd {
	if d.modal == nil {
		return nil
	}
	action, cmd := d.modal.HandleMouse(msg, d.mouse)
	if action == "" {
		return cmd
	}
	return tea.Batch(cmd, d.trigger(action))
}

// Update forwards non-input messages to an interactive body
func (d *Dispatcher) Update(msg tea.Msg) tea.Cmd {
	if d.req == nil {
		return nil
	}
	if body, ok := d.req.Body.(Interactive); ok {
		return body.Update(msg)
	}
	return nil
}

// Trigger activates the action with the given ID as if it were clicked
func (d *Dispatcher) Trigger(id string) tea.Cmd {
	return d.trigger(id)
}

func (d *Dispatcher) trigger(id string) tea.Cmd {
	if d.req == nil {
		return nil
	}
	for _, a := range d.req.Actions {
		if a.ID != id || a.Disabled {
			continue
		}
		if a.CloseOnClick {
			d.Close()
		}
		if a.OnClick != nil {
			return a.OnClick()
		}
		return nil
	}
	if id == ActionCancel {
		d.Close()
	}
	return nil
}
