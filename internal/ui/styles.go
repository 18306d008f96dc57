package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorHighlight = lipgloss.Color("212") // Pink
)

// UserLabel style for the "You" speaker label.
var UserLabel = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// BotLabel style for the assistant speaker label.
var BotLabel = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary)

// MessageText style for message bodies.
var MessageText = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// StatusBar style for the bottom bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// HintText style for key hints.
var HintText = lipgloss.NewStyle().
	Foreground(colorSecondary)
