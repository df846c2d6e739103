package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ohare93/pacer/internal/metrics"
)

// Consistent color scheme for project states across all commands
var (
	StyleActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // Green - in progress
	StylePlanned  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // Blue - not started
	StyleDelayed  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // Red - past the end day
	StyleComplete = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // Gray - done

	// UI elements
	StyleID        = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // Cyan
	StyleDim       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	StyleHighlight = lipgloss.NewStyle().Bold(true)
	StyleReward    = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	StyleSuccess   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	StyleWarning   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	StyleHeader    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
)

// GetStatusStyle returns the style for a listing status
func GetStatusStyle(status metrics.Status) lipgloss.Style {
	switch status {
	case metrics.StatusActive:
		return StyleActive
	case metrics.StatusNotStarted:
		return StylePlanned
	case metrics.StatusDelayed:
		return StyleDelayed
	case metrics.StatusCompleted:
		return StyleComplete
	default:
		return lipgloss.NewStyle()
	}
}
