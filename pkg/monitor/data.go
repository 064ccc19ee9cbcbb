package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/userdash/internal/api"
	"github.com/marcus/userdash/internal/journal"
	"github.com/marcus/userdash/internal/models"
)

// UserService is the part of the API client the dashboard calls
type UserService interface {
	ListPage(ctx context.Context, page, pageSize int) (models.Page, error)
	Create(ctx context.Context, draft models.Draft) (models.User, error)
	Update(ctx context.Context, id models.ID, draft models.Draft) (models.User, error)
	Remove(ctx context.Context, id models.ID) (bool, error)
}

// ActivityLog records mutations made from the dashboard
type ActivityLog interface {
	Record(ctx context.Context, e models.ActivityEntry) (int64, error)
	Recent(ctx context.Context, opts journal.ListOptions) ([]models.ActivityEntry, error)
}

// PageLoadedMsg carries the result of one page fetch. Seq is the fetch
// token; only the most recent token is applied.
type PageLoadedMsg struct {
	Seq     uint64
	PageNum int
	Page    models.Page
	Err     error
}

// DeleteResultMsg reports a remove call
type DeleteResultMsg struct {
	User models.User
	Err  error
}

// ActivityLoadedMsg carries journal entries for the activity dialog
type ActivityLoadedMsg struct {
	Entries []models.ActivityEntry
	Err     error
}

// closeFormMsg closes form if it is still the open dialog
type closeFormMsg struct {
	form *FormState
}

// clipboardMsg reports a copy attempt
type clipboardMsg struct {
	what string
	err  error
}

// fetchPage starts a fetch for the current page and returns its command.
// Any earlier in-flight fetch becomes stale.
func (m *Model) fetchPage() tea.Cmd {
	m.fetchSeq++
	m.Loading = true
	m.FetchErr = nil
	return m.loadCmd()
}

// loadCmd fetches the current page under the current token
func (m Model) loadCmd() tea.Cmd {
	seq, page, size, client := m.fetchSeq, m.Page, m.PageSize, m.client
	return func() tea.Msg {
		p, err := client.ListPage(context.Background(), page, size)
		return PageLoadedMsg{Seq: seq, PageNum: page, Page: p, Err: err}
	}
}

// markStale flips the stale toggle, which always refetches the current page
func (m *Model) markStale() tea.Cmd {
	m.Stale = !m.Stale
	return m.fetchPage()
}

func deleteUserCmd(client UserService, u models.User) tea.Cmd {
	return func() tea.Msg {
		ok, err := client.Remove(context.Background(), u.ID)
		if err == nil && !ok {
			err = fmt.Errorf("remove user %s: not confirmed by server", u.ID)
		}
		return DeleteResultMsg{User: u, Err: err}
	}
}

// recordActivity writes a journal entry. Failures are logged, never surfaced.
func recordActivity(log ActivityLog, e models.ActivityEntry) tea.Cmd {
	if log == nil {
		return nil
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return func() tea.Msg {
		if _, err := log.Record(context.Background(), e); err != nil {
			slog.Error("record activity", "action", e.Action, "user", e.UserID, "err", err)
		}
		return nil
	}
}

func loadActivityCmd(log ActivityLog, limit int) tea.Cmd {
	return func() tea.Msg {
		entries, err := log.Recent(context.Background(), journal.ListOptions{Limit: limit})
		return ActivityLoadedMsg{Entries: entries, Err: err}
	}
}

// activityFor builds the journal entry for a save or delete outcome
func activityFor(action models.ActionType, u models.User, summary string, err error) models.ActivityEntry {
	e := models.ActivityEntry{
		Action:  action,
		UserID:  u.ID,
		Summary: summary,
		OK:      err == nil,
	}
	if err != nil {
		e.Error = api.UserMessage(err, err.Error())
	}
	return e
}

// failureText formats a notice for a failed operation, appending the
// server-provided message when there is one
func failureText(prefix string, err error) string {
	if msg := api.UserMessage(err, ""); msg != "" {
		return prefix + ": " + msg
	}
	return prefix
}
