// Package monitor implements the interactive user management dashboard.
package monitor

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/userdash/internal/models"
	"github.com/marcus/userdash/pkg/monitor/modal"
	"github.com/marcus/userdash/pkg/monitor/mouse"
	"github.com/marcus/userdash/pkg/monitor/notice"
)

// SkeletonRows is the number of placeholder rows drawn while loading
const SkeletonRows = 10

// Options configures a dashboard Model
type Options struct {
	Client  UserService
	Journal ActivityLog // nil disables the activity journal
	// Modals is shared with anything else that opens dialogs; created when nil
	Modals     *modal.Dispatcher
	PageSize   int
	NoticeTTL  time.Duration
	CloseDelay time.Duration
}

// Model is the bubbletea model for the dashboard
type Model struct {
	Width  int
	Height int

	// Current page state
	Users      []models.User
	TotalCount int
	TotalPages int
	Page       int
	PageSize   int
	Cursor     int
	Loading    bool
	Stale      bool
	FetchErr   error

	Filter    textinput.Model
	Filtering bool

	Modals    *modal.Dispatcher
	Notices   *notice.Queue
	FormState *FormState

	client     UserService
	journal    ActivityLog
	closeDelay time.Duration
	fetchSeq   uint64

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	mouse   *mouse.Handler
}

// New creates a dashboard on page 1
func New(opts Options) Model {
	dispatcher := opts.Modals
	if dispatcher == nil {
		dispatcher = modal.NewDispatcher()
	}

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter this page"
	filter.CharLimit = 64

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle))

	return Model{
		Page:       1,
		PageSize:   models.NormalizePageSize(opts.PageSize),
		Loading:    true,
		Filter:     filter,
		Modals:     dispatcher,
		Notices:    notice.New(opts.NoticeTTL, 3),
		client:     opts.Client,
		journal:    opts.Journal,
		closeDelay: opts.CloseDelay,
		fetchSeq:   1,
		keys:       defaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		mouse:      mouse.NewHandler(),
	}
}

// Init fetches page 1 under the token assigned by New
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case notice.ExpireMsg:
		m.Notices.Update(msg)
		return m, nil

	case PageLoadedMsg:
		return m.handlePageLoaded(msg)

	case SaveResultMsg:
		return m.handleSaveResult(msg)

	case closeFormMsg:
		if m.formIsOpen(msg.form) {
			m.Modals.Close()
		}
		return m, nil

	case DeleteResultMsg:
		return m.handleDeleteResult(msg)

	case ActivityLoadedMsg:
		return m.showActivity(msg)

	case openEditMsg:
		return m.openEditFormFor(msg.User)

	case clipboardMsg:
		if msg.err != nil {
			slog.Warn("copy to clipboard", "err", msg.err)
			return m, m.Notices.Error("Copy failed: " + msg.err.Error())
		}
		return m, m.Notices.Success("Copied " + msg.what + " to clipboard")
	}

	// Everything else belongs to whatever has input focus
	if m.Modals.IsOpen() {
		return m, m.Modals.Update(msg)
	}
	if m.Filtering {
		var cmd tea.Cmd
		m.Filter, cmd = m.Filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.Modals.IsOpen() {
		return m, m.Modals.HandleKey(msg)
	}
	if m.Filtering {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Prev):
		cmd := m.prevPage()
		return m, cmd
	case key.Matches(msg, m.keys.Next):
		cmd := m.nextPage()
		return m, cmd
	case key.Matches(msg, m.keys.Add):
		return m.openAddForm()
	case key.Matches(msg, m.keys.Edit):
		return m.openEditForm()
	case key.Matches(msg, m.keys.Delete):
		return m.confirmDelete()
	case key.Matches(msg, m.keys.View):
		return m.openDetail()
	case key.Matches(msg, m.keys.Copy):
		return m.copySelected()
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.markStale()
		return m, cmd
	case key.Matches(msg, m.keys.Filter):
		m.Filtering = true
		return m, m.Filter.Focus()
	case key.Matches(msg, m.keys.Activity):
		return m.openActivity()
	case key.Matches(msg, m.keys.Dismiss):
		m.dismissNotice()
	case key.Matches(msg, m.keys.Help):
		cmd := m.openHelp()
		return m, cmd
	case msg.String() == "esc":
		if m.Filter.Value() != "" {
			m.Filter.SetValue("")
			m.Cursor = 0
		}
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Filtering = false
		m.Filter.SetValue("")
		m.Filter.Blur()
		m.Cursor = 0
		return m, nil
	case "enter":
		m.Filtering = false
		m.Filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.Filter, cmd = m.Filter.Update(msg)
	m.Cursor = 0
	return m, cmd
}

func (m Model) handlePageLoaded(msg PageLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.fetchSeq {
		slog.Debug("discard stale page", "seq", msg.Seq, "latest", m.fetchSeq, "page", msg.PageNum)
		return m, nil
	}

	m.Loading = false
	if msg.Err != nil {
		m.FetchErr = msg.Err
		slog.Error("fetch users", "page", msg.PageNum, "err", msg.Err)
		return m, m.Notices.Error(failureText("Failed to load users", msg.Err))
	}

	m.Users = msg.Page.Items
	m.TotalCount = msg.Page.TotalCount
	m.TotalPages = msg.Page.TotalPages(m.PageSize)

	// A delete can empty the last page
	if m.TotalPages > 0 && m.Page > m.TotalPages {
		m.Page = m.TotalPages
		cmd := m.fetchPage()
		return m, cmd
	}
	m.clampCursor()
	return m, nil
}

// PrevDisabled reports whether the previous-page control is inactive
func (m Model) PrevDisabled() bool {
	return m.Page <= 1
}

// NextDisabled reports whether the next-page control is inactive
func (m Model) NextDisabled() bool {
	return m.Page >= m.TotalPages
}

func (m *Model) prevPage() tea.Cmd {
	if m.PrevDisabled() {
		return nil
	}
	m.Page--
	m.Cursor = 0
	return m.fetchPage()
}

func (m *Model) nextPage() tea.Cmd {
	if m.NextDisabled() {
		return nil
	}
	m.Page++
	m.Cursor = 0
	return m.fetchPage()
}

func (m *Model) moveCursor(delta int) {
	m.Cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.VisibleUsers())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// SelectedUser returns the user under the cursor
func (m Model) SelectedUser() (models.User, bool) {
	if m.Loading {
		return models.User{}, false
	}
	users := m.VisibleUsers()
	if m.Cursor < 0 || m.Cursor >= len(users) {
		return models.User{}, false
	}
	return users[m.Cursor], true
}
