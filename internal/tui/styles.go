package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorDim    = lipgloss.Color("241")
	colorAccent = lipgloss.Color("39")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	foundStyle   = lipgloss.NewStyle().Background(lipgloss.Color("34")).Foreground(lipgloss.Color("0"))
	currentStyle = lipgloss.NewStyle().Background(lipgloss.Color("196")).Foreground(lipgloss.Color("255")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)
