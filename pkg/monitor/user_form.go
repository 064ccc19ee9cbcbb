package monitor

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/userdash/internal/api"
	"github.com/marcus/userdash/internal/models"
	"github.com/marcus/userdash/internal/validate"
)

// FormMode is fixed when the form is created
type FormMode int

const (
	FormModeCreate FormMode = iota
	FormModeEdit
)

func (m FormMode) String() string {
	if m == FormModeEdit {
		return "edit"
	}
	return "create"
}

// SaveFunc persists a validated draft and returns the stored record
type SaveFunc func(ctx context.Context, draft models.Draft) (models.User, error)

// SaveResult is the outcome of one save attempt
type SaveResult struct {
	OK      bool
	Mode    FormMode
	Message string
	User    models.User
	Draft   models.Draft
	Err     error
}

// SaveResultMsg delivers a SaveResult from the form that produced it
type SaveResultMsg struct {
	Form   *FormState
	Result SaveResult
}

var (
	formErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	formMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// FormState holds the user form. Empty for create, pre-filled for edit.
type FormState struct {
	Mode   FormMode
	UserID models.ID

	FirstName  string
	LastName   string
	Email      string
	Department string

	// Errors maps field to message from the last rejected submit; editing a
	// field clears its entry
	Errors     map[string]string
	Submitting bool
	Saves      int

	Form  *huh.Form
	Width int

	save SaveFunc
}

// NewFormState creates an empty form for adding a user
func NewFormState(save SaveFunc) *FormState {
	fs := &FormState{Mode: FormModeCreate, save: save}
	fs.buildForm()
	return fs
}

// NewFormStateForEdit creates a form bound to u
func NewFormStateForEdit(u models.User, save SaveFunc) *FormState {
	d := models.DraftFrom(u)
	fs := &FormState{
		Mode:       FormModeEdit,
		UserID:     u.ID,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		Department: d.Department,
		save:       save,
	}
	fs.buildForm()
	return fs
}

// Title is the dialog heading
func (fs *FormState) Title() string {
	if fs.Mode == FormModeEdit {
		return "Edit User"
	}
	return "Add User"
}

func (fs *FormState) buildForm() {
	fs.Form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key(validate.FieldFirstName).
				Title(validate.Labels[validate.FieldFirstName]).
				Value(&fs.FirstName).
				Validate(validate.Validator(validate.FieldFirstName)),
			huh.NewInput().
				Key(validate.FieldLastName).
				Title(validate.Labels[validate.FieldLastName]).
				Value(&fs.LastName).
				Validate(validate.Validator(validate.FieldLastName)),
			huh.NewInput().
				Key(validate.FieldEmail).
				Title(validate.Labels[validate.FieldEmail]).
				Placeholder("name@example.com").
				Value(&fs.Email).
				Validate(validate.Validator(validate.FieldEmail)),
			huh.NewInput().
				Key(validate.FieldDepartment).
				Title(validate.Labels[validate.FieldDepartment]).
				Value(&fs.Department).
				Validate(validate.Validator(validate.FieldDepartment)),
		),
	).WithShowHelp(false).WithTheme(huh.ThemeCharm())

	if fs.Width > 0 {
		fs.Form = fs.Form.WithWidth(fs.Width)
	}
}

// Draft returns the current field values
func (fs *FormState) Draft() models.Draft {
	return models.Draft{
		FirstName:  fs.FirstName,
		LastName:   fs.LastName,
		Email:      fs.Email,
		Department: fs.Department,
	}.Trimmed()
}

func (fs *FormState) values() map[string]string {
	return map[string]string{
		validate.FieldFirstName:  fs.FirstName,
		validate.FieldLastName:   fs.LastName,
		validate.FieldEmail:      fs.Email,
		validate.FieldDepartment: fs.Department,
	}
}

// Submit validates the draft. A rejected draft records per-field messages
// and keeps the form editable; a valid one returns a command that calls the
// save func.
func (fs *FormState) Submit() tea.Cmd {
	if fs.Submitting {
		return nil
	}

	draft := fs.Draft()
	if err := validate.Draft(draft); err != nil {
		fs.Errors = make(map[string]string)
		var verr *validate.ValidationError
		if errors.As(err, &verr) {
			for _, v := range verr.Violations {
				fs.Errors[v.Field] = v.Message
			}
		}
		if fs.Form.State != huh.StateNormal {
			fs.buildForm()
			return fs.Form.Init()
		}
		return nil
	}

	fs.Errors = nil
	fs.Submitting = true
	fs.Saves++
	save, mode := fs.save, fs.Mode
	return func() tea.Msg {
		user, err := save(context.Background(), draft)
		return SaveResultMsg{Form: fs, Result: newSaveResult(mode, draft, user, err)}
	}
}

func newSaveResult(mode FormMode, draft models.Draft, user models.User, err error) SaveResult {
	if err != nil {
		return SaveResult{
			Mode:    mode,
			Draft:   draft,
			Err:     err,
			Message: api.UserMessage(err, ""),
		}
	}
	msg := "User created successfully"
	if mode == FormModeEdit {
		msg = "User updated successfully"
	}
	return SaveResult{OK: true, Mode: mode, Draft: draft, User: user, Message: msg}
}

// Reopen makes the form editable again after a failed save
func (fs *FormState) Reopen() tea.Cmd {
	fs.Submitting = false
	fs.buildForm()
	return fs.Form.Init()
}

// Init implements modal.Initializer
func (fs *FormState) Init() tea.Cmd {
	return fs.Form.Init()
}

// Update implements modal.Interactive. Completing the last field submits.
func (fs *FormState) Update(msg tea.Msg) tea.Cmd {
	if fs.Form.State != huh.StateNormal {
		return nil
	}
	before := fs.values()
	model, cmd := fs.Form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		fs.Form = f
	}
	after := fs.values()
	for field, v := range before {
		if after[field] != v {
			delete(fs.Errors, field)
		}
	}
	if fs.Form.State == huh.StateCompleted {
		return tea.Batch(cmd, fs.Submit())
	}
	return cmd
}

// View implements modal.Body
func (fs *FormState) View(width int) string {
	if width > 0 && width != fs.Width {
		fs.Width = width
		fs.Form = fs.Form.WithWidth(width)
	}

	var sb strings.Builder
	sb.WriteString(fs.Form.View())
	for _, field := range validate.Fields {
		if msg, ok := fs.Errors[field]; ok {
			sb.WriteString("\n")
			sb.WriteString(formErrorStyle.Render("✗ " + msg))
		}
	}
	if fs.Submitting {
		sb.WriteString("\n")
		sb.WriteString(formMutedStyle.Render("Saving…"))
	}
	return sb.String()
}
