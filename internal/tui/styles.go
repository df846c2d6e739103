package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Base styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("6")).
			MarginBottom(1)

	projectStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedProjectStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(lipgloss.Color("240")).
				Bold(true)

	// Status colors
	activeColor    = lipgloss.Color("3") // Yellow
	plannedColor   = lipgloss.Color("12")
	delayedColor   = lipgloss.Color("1") // Red
	completedColor = lipgloss.Color("8") // Gray

	doneTaskStyle = lipgloss.NewStyle().
			Foreground(completedColor).
			Strikethrough(true)

	rewardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)
