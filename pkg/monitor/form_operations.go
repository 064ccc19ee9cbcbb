package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/userdash/internal/models"
	"github.com/marcus/userdash/pkg/monitor/modal"
)

// openEditMsg asks the model to open the edit form for User
type openEditMsg struct {
	User models.User
}

// openAddForm opens an empty form whose save creates a user
func (m Model) openAddForm() (tea.Model, tea.Cmd) {
	client := m.client
	fs := NewFormState(func(ctx context.Context, d models.Draft) (models.User, error) {
		return client.Create(ctx, d)
	})
	return m.showForm(fs)
}

// openEditForm opens the form bound to the selected user
func (m Model) openEditForm() (tea.Model, tea.Cmd) {
	u, ok := m.SelectedUser()
	if !ok {
		return m, nil
	}
	return m.openEditFormFor(u)
}

func (m Model) openEditFormFor(u models.User) (tea.Model, tea.Cmd) {
	client, id := m.client, u.ID
	fs := NewFormStateForEdit(u, func(ctx context.Context, d models.Draft) (models.User, error) {
		return client.Update(ctx, id, d)
	})
	return m.showForm(fs)
}

func (m Model) showForm(fs *FormState) (tea.Model, tea.Cmd) {
	// Subtract frame border and padding
	modalWidth, _ := m.formModalDimensions()
	fs.Width = modalWidth - 4
	fs.Form = fs.Form.WithWidth(fs.Width)

	m.FormState = fs
	cmd := m.Modals.Show(modal.Request{
		Heading: fs.Title(),
		Body:    fs,
		Width:   modalWidth,
		Actions: []modal.Action{
			{Label: "Save", Intent: modal.IntentPrimary, OnClick: fs.Submit},
			{Label: "Cancel", CloseOnClick: true},
		},
	})
	return m, cmd
}

// formIsOpen reports whether fs is the dialog currently shown
func (m Model) formIsOpen(fs *FormState) bool {
	req, ok := m.Modals.Current()
	if !ok {
		return false
	}
	open, ok := req.Body.(*FormState)
	return ok && open == fs
}

// handleSaveResult shows the outcome of a form save. A failure keeps the
// form open for correction; a success refreshes the page and closes the
// form after the close delay so the notice is seen first.
func (m Model) handleSaveResult(msg SaveResultMsg) (tea.Model, tea.Cmd) {
	res := msg.Result

	action := models.ActionCreate
	user := res.User
	if res.Mode == FormModeEdit {
		action = models.ActionUpdate
		if user.ID == "" && msg.Form != nil {
			user.ID = msg.Form.UserID
		}
	}
	summary := fmt.Sprintf("%sd %s %s", action, res.Draft.FirstName, res.Draft.LastName)
	journalCmd := recordActivity(m.journal, activityFor(action, user, summary, res.Err))

	if !res.OK {
		slog.Error("save user", "mode", res.Mode, "id", user.ID, "err", res.Err)
		cmds := []tea.Cmd{journalCmd, m.Notices.Error(failureText("Failed to save user", res.Err))}
		if msg.Form != nil {
			if m.formIsOpen(msg.Form) {
				cmds = append(cmds, msg.Form.Reopen())
			} else {
				msg.Form.Submitting = false
			}
		}
		return m, tea.Batch(cmds...)
	}

	slog.Info("saved user", "mode", res.Mode, "id", res.User.ID)
	cmds := []tea.Cmd{journalCmd, m.Notices.Success(res.Message), m.markStale()}

	form := msg.Form
	if m.closeDelay > 0 {
		cmds = append(cmds, tea.Tick(m.closeDelay, func(time.Time) tea.Msg {
			return closeFormMsg{form: form}
		}))
	} else if m.formIsOpen(form) {
		m.Modals.Close()
	}
	return m, tea.Batch(cmds...)
}

// confirmDelete asks before removing the selected user
func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	u, ok := m.SelectedUser()
	if !ok {
		return m, nil
	}
	client := m.client
	cmd := m.Modals.Show(modal.Request{
		Heading: "Confirm Deletion",
		Variant: modal.VariantDanger,
		Body: modal.Message(fmt.Sprintf(
			"Are you sure you want to delete this user?\n\n%s <%s>", u.FullName(), u.Email)),
		Actions: []modal.Action{
			{Label: "Delete User", Intent: modal.IntentDanger, CloseOnClick: true, OnClick: func() tea.Cmd {
				return deleteUserCmd(client, u)
			}},
			{Label: "Cancel", CloseOnClick: true},
		},
	})
	return m, cmd
}

func (m Model) handleDeleteResult(msg DeleteResultMsg) (tea.Model, tea.Cmd) {
	summary := "deleted " + msg.User.FullName()
	journalCmd := recordActivity(m.journal, activityFor(models.ActionDelete, msg.User, summary, msg.Err))

	if msg.Err != nil {
		slog.Error("delete user", "id", msg.User.ID, "err", msg.Err)
		return m, tea.Batch(journalCmd, m.Notices.Error(failureText("Failed to delete user", msg.Err)))
	}

	slog.Info("deleted user", "id", msg.User.ID)
	cmd := tea.Batch(journalCmd, m.Notices.Success("User deleted successfully"), m.markStale())
	return m, cmd
}
