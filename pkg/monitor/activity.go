package monitor

import (
	"fmt"
	"log/slog"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/userdash/internal/models"
	"github.com/marcus/userdash/pkg/monitor/modal"
)

const activityLimit = 100

// openActivity loads recent journal entries
func (m Model) openActivity() (tea.Model, tea.Cmd) {
	if m.journal == nil {
		return m, m.Notices.Info("Activity journal is disabled")
	}
	return m, loadActivityCmd(m.journal, activityLimit)
}

func (m Model) showActivity(msg ActivityLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		slog.Error("load activity", "err", msg.Err)
		return m, m.Notices.Error("Failed to load activity: " + msg.Err.Error())
	}
	width, height := m.formModalDimensions()
	cmd := m.Modals.Show(modal.Request{
		Heading: fmt.Sprintf("Recent Activity (%d)", len(msg.Entries)),
		Body:    newActivityBody(msg.Entries, height-8),
		Width:   width,
		Hints:   "↑/↓ scroll • esc close",
		Actions: []modal.Action{{Label: "Close", CloseOnClick: true}},
	})
	return m, cmd
}

const activityListID = "activity"

// activityBody shows journal entries in a scrollable list
type activityBody struct {
	selected int
	list     modal.Section
}

func newActivityBody(entries []models.ActivityEntry, visible int) *activityBody {
	b := &activityBody{}
	items := make([]modal.ListItem, len(entries))
	for i, e := range entries {
		items[i] = modal.ListItem{
			ID:     strconv.FormatInt(e.ID, 10),
			Label:  activityLabel(e),
			Detail: activityDetail(e),
		}
	}
	b.list = modal.List(activityListID, items, &b.selected,
		modal.WithMaxVisible(max(3, visible)),
		modal.WithEmptyText("No changes recorded yet"))
	return b
}

func activityLabel(e models.ActivityEntry) string {
	mark := "✓"
	if !e.OK {
		mark = "✗"
	}
	return fmt.Sprintf("%s %s  %-6s  %s", mark, e.Timestamp.Local().Format("Jan 02 15:04"), e.Action, e.Summary)
}

func activityDetail(e models.ActivityEntry) string {
	id := e.UserID.String()
	if id == "" {
		id = "(unsaved)"
	}
	if e.OK {
		return "user " + id
	}
	return "user " + id + ": " + e.Error
}

// View implements modal.Body
func (b *activityBody) View(width int) string {
	return b.list.Render(width, activityListID, "").Content
}

// Update implements modal.Interactive
func (b *activityBody) Update(msg tea.Msg) tea.Cmd {
	_, cmd := b.list.Update(msg, activityListID)
	return cmd
}
