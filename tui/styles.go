package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ledgertools/reconcile"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	unclearedStyle = lipgloss.NewStyle()
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	clearedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green

	cursorStyle = lipgloss.NewStyle().Reverse(true)

	statusStyle         = lipgloss.NewStyle().Faint(true)
	balanceMetStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	balancePendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	previewTitleStyle = lipgloss.NewStyle().Underline(true)
	previewStyle      = lipgloss.NewStyle().Faint(true)
	previewFocusStyle = lipgloss.NewStyle().Bold(true)

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// styleFor maps a clearing status to its highlight.
func styleFor(s reconcile.Status) lipgloss.Style {
	switch s {
	case reconcile.Pending:
		return pendingStyle
	case reconcile.Cleared:
		return clearedStyle
	default:
		return unclearedStyle
	}
}
