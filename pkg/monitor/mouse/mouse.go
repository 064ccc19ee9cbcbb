// Package mouse maps terminal mouse events onto named screen regions.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const doubleClickWindow = 400 * time.Millisecond

// Rect is a screen rectangle; W and H are exclusive bounds
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) falls inside the rect
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named hit area with optional payload
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds regions in registration order. Later regions win on overlap.
type HitMap struct {
	regions []Region
}

// NewHitMap creates an empty hit map
func NewHitMap() *HitMap {
	return &HitMap{}
}

// AddRect registers a region
func (hm *HitMap) AddRect(id string, x, y, w, h int, data any) {
	hm.regions = append(hm.regions, Region{ID: id, Rect: Rect{X: x, Y: y, W: w, H: h}, Data: data})
}

// Test returns the topmost region at (x, y), or nil
func (hm *HitMap) Test(x, y int) *Region {
	for i := len(hm.regions) - 1; i >= 0; i-- {
		if hm.regions[i].Rect.Contains(x, y) {
			return &hm.regions[i]
		}
	}
	return nil
}

// Regions returns the registered regions
func (hm *HitMap) Regions() []Region {
	return hm.regions
}

// Clear removes every region. Call before each render.
func (hm *HitMap) Clear() {
	hm.regions = hm.regions[:0]
}

// ActionType classifies a mouse event
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionHover
	ActionScrollUp
	ActionScrollDown
)

// Action is the result of HandleMouse
type Action struct {
	Type   ActionType
	Region *Region
	X, Y   int
}

// ClickResult is the result of HandleClick
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler tracks hit regions plus click timing
type Handler struct {
	HitMap *HitMap

	lastClickID   string
	lastClickTime time.Time
	now           func() time.Time
}

// NewHandler creates a handler with an empty hit map
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap(), now: time.Now}
}

// HandleClick resolves a click and detects double-clicks on the same region
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	if region == nil {
		h.lastClickID = ""
		return ClickResult{}
	}

	now := h.now()
	double := region.ID == h.lastClickID && now.Sub(h.lastClickTime) < doubleClickWindow
	if double {
		// Reset so a third click starts a new sequence
		h.lastClickID = ""
	} else {
		h.lastClickID = region.ID
		h.lastClickTime = now
	}
	return ClickResult{Region: region, IsDoubleClick: double}
}

// HandleMouse converts a bubbletea mouse message into an Action
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		return Action{Type: ActionScrollUp, Region: h.HitMap.Test(msg.X, msg.Y), X: msg.X, Y: msg.Y}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		return Action{Type: ActionScrollDown, Region: h.HitMap.Test(msg.X, msg.Y), X: msg.X, Y: msg.Y}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		res := h.HandleClick(msg.X, msg.Y)
		t := ActionClick
		if res.IsDoubleClick {
			t = ActionDoubleClick
		}
		return Action{Type: t, Region: res.Region, X: msg.X, Y: msg.Y}
	case msg.Action == tea.MouseActionMotion:
		return Action{Type: ActionHover, Region: h.HitMap.Test(msg.X, msg.Y), X: msg.X, Y: msg.Y}
	}
	return Action{Type: ActionNone, X: msg.X, Y: msg.Y}
}

// Clear resets regions and click state
func (h *Handler) Clear() {
	h.HitMap.Clear()
	h.lastClickID = ""
}
