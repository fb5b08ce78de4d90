// Package styles holds the lipgloss styles shared by the serialport
// commands.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Mauve).
			Background(Surface0).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Mauve).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(Surface1)

	CellStyle = lipgloss.NewStyle().
			PaddingRight(2)

	// Status styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Mauve).
			Bold(true)

	PendingStyle = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Subtext0)

	// Data direction indicators
	RXStyle = lipgloss.NewStyle().
		Foreground(Sky).
		Bold(true)

	TXStyle = lipgloss.NewStyle().
		Foreground(Peach).
		Bold(true)
)

type StatusType int

const (
	StatusOK StatusType = iota
	StatusFailed
	StatusPending
	StatusInfo
)

// Symbol returns the styled marker printed in front of a status line.
func Symbol(status StatusType) string {
	switch status {
	case StatusOK:
		return SuccessStyle.Render("✓")
	case StatusFailed:
		return ErrorStyle.Render("✗")
	case StatusPending:
		return PendingStyle.Render("○")
	default:
		return InfoStyle.Render("⚡")
	}
}
