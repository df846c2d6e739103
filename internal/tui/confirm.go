package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderConfirmDeleteView() string {
	p := m.selectedProject()
	if p == nil {
		return "No project selected"
	}

	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("1")). // Red
		Render("DELETE PROJECT")
	b.WriteString(title + "\n\n")

	b.WriteString(fmt.Sprintf("ID:     %s\n", p.ShortID()))
	b.WriteString(fmt.Sprintf("Goal:   %s\n", p.Goal))
	b.WriteString(fmt.Sprintf("Dates:  %s\n", formatRange(p.StartDate, p.EndDate)))
	b.WriteString(fmt.Sprintf("Tasks:  %d/%d done\n", p.DoneCount(), len(p.Tasks)))
	if len(p.Tags) > 0 {
		b.WriteString(fmt.Sprintf("Tags:   %s\n", strings.Join(p.Tags, ", ")))
	}
	b.WriteString("\n")

	warning := lipgloss.NewStyle().
		Foreground(lipgloss.Color("3")). // Yellow
		Render("The project moves to the bin and can be restored with `pacer restore`.")
	b.WriteString(warning + "\n\n")

	prompt := lipgloss.NewStyle().
		Bold(true).
		Render("Delete this project? [y/N]")
	b.WriteString(prompt + "\n\n")

	b.WriteString(helpStyle.Render("y = confirm | n/Esc = cancel"))

	return b.String()
}
