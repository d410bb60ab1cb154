package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for terminal output.
var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")) // green
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")) // red
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta
)
