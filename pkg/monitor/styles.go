package monitor

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/userdash/pkg/monitor/modal"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(modal.Primary)
	accentStyle = lipgloss.NewStyle().Foreground(modal.Primary)
	mutedStyle  = lipgloss.NewStyle().Foreground(modal.Muted)
	errorStyle  = lipgloss.NewStyle().Foreground(modal.Error)

	headerCellStyle   = lipgloss.NewStyle().Bold(true).Foreground(modal.Primary).Padding(0, 1)
	cellStyle         = lipgloss.NewStyle().Padding(0, 1)
	mutedCellStyle    = cellStyle.Foreground(modal.Muted)
	selectedCellStyle = cellStyle.Background(lipgloss.Color("237")).Foreground(lipgloss.Color("255")).Bold(true)
	skeletonCellStyle = cellStyle.Foreground(lipgloss.Color("238"))

	buttonStyle         = modal.Button
	disabledButtonStyle = modal.ButtonDisabled
	addButtonStyle      = modal.ButtonFocused
)
