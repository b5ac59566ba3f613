package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorError   = lipgloss.Color("#EF4444")
)

var (
	// HeadingStyle renders the object name above the prompts.
	HeadingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// OutputStyle renders read-only values.
	OutputStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// ErrorMessageStyle renders rejected answers.
	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(colorError)
)
