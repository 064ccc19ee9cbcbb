package modal

import "github.com/charmbracelet/lipgloss"

// Palette shared by the dashboard and its dialogs
var (
	Primary      = lipgloss.Color("212")
	Success      = lipgloss.Color("42")
	Error        = lipgloss.Color("196")
	Warning      = lipgloss.Color("214")
	Info         = lipgloss.Color("45")
	Muted        = lipgloss.Color("241")
	BgSecondary  = lipgloss.Color("235")
	BorderNormal = lipgloss.Color("240")
)

var buttonBase = lipgloss.NewStyle().Padding(0, 2)

// Button styles by intent and state
var (
	Button        = buttonBase.Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238"))
	ButtonFocused = buttonBase.Foreground(lipgloss.Color("255")).Background(Primary).Bold(true)
	ButtonHover   = buttonBase.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("245"))

	ButtonDanger        = Button
	ButtonDangerFocused = buttonBase.Foreground(lipgloss.Color("255")).Background(Error).Bold(true)
	ButtonDangerHover   = buttonBase.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("203"))

	ButtonDisabled = buttonBase.Foreground(lipgloss.Color("243")).Background(lipgloss.Color("236"))
)

// Text styles
var (
	ModalTitle = lipgloss.NewStyle().Bold(true)
	MutedText  = lipgloss.NewStyle().Foreground(Muted)
	BodyText   = lipgloss.NewStyle()
)

// List styles
var (
	ListItemNormal   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	ListItemSelected = lipgloss.NewStyle().Background(lipgloss.Color("237")).Foreground(lipgloss.Color("255"))
	ListItemFocused  = ListItemSelected.Bold(true)
	ListCursor       = lipgloss.NewStyle().Foreground(Primary).Bold(true)
)
