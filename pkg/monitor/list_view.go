package monitor

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/userdash/internal/models"
	"github.com/marcus/userdash/pkg/monitor/mouse"
	"github.com/sahilm/fuzzy"
)

// Hit region IDs for the main view
const (
	regionRow    = "row"
	regionPrev   = "prev"
	regionNext   = "next"
	regionAdd    = "add"
	regionNotice = "notice"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	dashTitle     = "User Management Dashboard"
)

var columnHeaders = []string{"First Name", "Last Name", "Email", "Department"}

// userSource adapts a page of users to fuzzy.Source
type userSource []models.User

func (s userSource) String(i int) string {
	u := s[i]
	return u.FirstName + " " + u.LastName + " " + u.Email + " " + u.DepartmentLabel()
}

func (s userSource) Len() int { return len(s) }

// VisibleUsers returns the current page narrowed by the filter, best match first
func (m Model) VisibleUsers() []models.User {
	pattern := strings.TrimSpace(m.Filter.Value())
	if pattern == "" {
		return m.Users
	}
	matches := fuzzy.FindFrom(pattern, userSource(m.Users))
	out := make([]models.User, len(matches))
	for i, match := range matches {
		out[i] = m.Users[match.Index]
	}
	return out
}

func (m Model) size() (int, int) {
	w, h := m.Width, m.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// View implements tea.Model
func (m Model) View() string {
	width, height := m.size()
	m.mouse.Clear()
	if m.Modals.IsOpen() {
		return m.modalView(width, height)
	}

	var blocks []string
	y := 0
	add := func(block string) {
		blocks = append(blocks, block)
		y += lipgloss.Height(block)
	}

	add(m.renderHeader(width))
	add("")
	if m.Filtering || m.Filter.Value() != "" {
		add(m.Filter.View())
	}

	// Rows start below the top border, header and header rule
	tableTop := y
	add(m.renderTable(width))
	if !m.Loading {
		for i := range m.VisibleUsers() {
			m.mouse.HitMap.AddRect(regionRow, 0, tableTop+3+i, width, 1, i)
		}
	}

	if status := m.renderStatus(); status != "" {
		add(status)
	}
	add("")
	add(m.renderPagination(y))

	if m.Notices.Len() > 0 {
		add("")
		add(m.renderNotices(width, y))
	}
	add("")
	add(m.help.View(m.keys))

	return strings.Join(blocks, "\n")
}

// modalView draws the open dialog with the notice lines pinned below it
func (m Model) modalView(width, height int) string {
	n := len(m.Notices.Active())
	if n == 0 {
		return m.Modals.View(width, height)
	}

	avail := max(1, height-n-1)
	dialog := m.Modals.View(width, avail)
	rows := lipgloss.Height(dialog)
	if rows < avail {
		dialog += strings.Repeat("\n", avail-rows)
		rows = avail
	}
	return dialog + "\n\n" + m.renderNotices(width, rows+1)
}

// renderNotices draws the active notices from row y, one click region per line
func (m Model) renderNotices(width, y int) string {
	for i, n := range m.Notices.Active() {
		m.mouse.HitMap.AddRect(regionNotice, 0, y+i, width, 1, n.ID)
	}
	return m.Notices.View(width)
}

// dismissNotice removes the newest visible notice
func (m Model) dismissNotice() bool {
	active := m.Notices.Active()
	if len(active) == 0 {
		return false
	}
	return m.Notices.Dismiss(active[len(active)-1].ID)
}

func (m Model) renderHeader(width int) string {
	title := titleStyle.Render(dashTitle)

	var info string
	switch {
	case m.Loading:
		info = m.spinner.View() + " " + mutedStyle.Render("Loading…")
	case m.TotalCount == 1:
		info = mutedStyle.Render("1 user")
	default:
		info = mutedStyle.Render(fmt.Sprintf("%d users", m.TotalCount))
	}

	left := title + "  " + info
	btn := addButtonStyle.Render("+ Add User")
	gap := width - lipgloss.Width(left) - lipgloss.Width(btn)
	if gap < 2 {
		return left
	}
	x := lipgloss.Width(left) + gap
	m.mouse.HitMap.AddRect(regionAdd, x, 0, lipgloss.Width(btn), 1, nil)
	return left + strings.Repeat(" ", gap) + btn
}

// columnWidth keeps every row on one line: four columns with one cell of
// padding each side plus five border cells.
func columnWidth(width int) int {
	return max(6, (width-13)/4)
}

func (m Model) renderTable(width int) string {
	colW := columnWidth(width)
	cut := func(s string) string { return ansi.Truncate(s, colW, "…") }

	var rows [][]string
	if m.Loading {
		for i := 0; i < SkeletonRows; i++ {
			n := 4 + (i*3)%5
			rows = append(rows, []string{
				cut(strings.Repeat("░", n+2)),
				cut(strings.Repeat("░", n+4)),
				cut(strings.Repeat("░", n+10)),
				cut(strings.Repeat("░", n)),
			})
		}
	} else {
		for _, u := range m.VisibleUsers() {
			rows = append(rows, []string{cut(u.FirstName), cut(u.LastName), cut(u.Email), cut(u.DepartmentLabel())})
		}
	}
	users := m.VisibleUsers()

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(columnHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCellStyle
			case m.Loading:
				return skeletonCellStyle
			case row == m.Cursor:
				return selectedCellStyle
			case col == 3 && row < len(users) && users[row].DepartmentLabel() == models.NoDepartment:
				return mutedCellStyle
			}
			return cellStyle
		})
	return t.Render()
}

func (m Model) renderStatus() string {
	switch {
	case m.Loading:
		return ""
	case m.FetchErr != nil:
		return errorStyle.Render("✗ "+failureText("Failed to load users", m.FetchErr)) +
			mutedStyle.Render("  press r to retry")
	case len(m.Users) == 0:
		return mutedStyle.Render("No users found. Press a to add one.")
	case len(m.VisibleUsers()) == 0:
		return mutedStyle.Render("No users on this page match the filter.")
	}
	return ""
}

// renderPagination draws previous/next controls and registers their regions at row y
func (m Model) renderPagination(y int) string {
	prevStyle, nextStyle := buttonStyle, buttonStyle
	if m.PrevDisabled() {
		prevStyle = disabledButtonStyle
	}
	if m.NextDisabled() {
		nextStyle = disabledButtonStyle
	}
	prev := prevStyle.Render("‹ Previous")
	next := nextStyle.Render("Next ›")

	total := max(m.TotalPages, 1)
	label := mutedStyle.Render(fmt.Sprintf("  Page %d of %d  ", m.Page, total))

	if !m.PrevDisabled() {
		m.mouse.HitMap.AddRect(regionPrev, 0, y, lipgloss.Width(prev), 1, nil)
	}
	if !m.NextDisabled() {
		x := lipgloss.Width(prev) + lipgloss.Width(label)
		m.mouse.HitMap.AddRect(regionNext, x, y, lipgloss.Width(next), 1, nil)
	}
	return prev + label + next
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.Modals.IsOpen() {
		if m.clickedNotice(msg) {
			return m, nil
		}
		return m, m.Modals.HandleMouse(msg)
	}

	a := m.mouse.HandleMouse(msg)
	switch a.Type {
	case mouse.ActionScrollUp:
		m.moveCursor(-1)
	case mouse.ActionScrollDown:
		m.moveCursor(1)
	case mouse.ActionClick, mouse.ActionDoubleClick:
		if a.Region == nil {
			return m, nil
		}
		switch a.Region.ID {
		case regionRow:
			if idx, ok := a.Region.Data.(int); ok {
				m.Cursor = idx
				m.clampCursor()
				if a.Type == mouse.ActionDoubleClick {
					return m.openEditForm()
				}
			}
		case regionPrev:
			cmd := m.prevPage()
			return m, cmd
		case regionNext:
			cmd := m.nextPage()
			return m, cmd
		case regionAdd:
			return m.openAddForm()
		case regionNotice:
			if id, ok := a.Region.Data.(int64); ok {
				m.Notices.Dismiss(id)
			}
		}
	}
	return m, nil
}

// clickedNotice dismisses the notice under a left click drawn beside a dialog
func (m Model) clickedNotice(msg tea.MouseMsg) bool {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false
	}
	r := m.mouse.HitMap.Test(msg.X, msg.Y)
	if r == nil || r.ID != regionNotice {
		return false
	}
	if id, ok := r.Data.(int64); ok {
		return m.Notices.Dismiss(id)
	}
	return false
}
