package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/metrics"
	"github.com/ohare93/pacer/internal/project"
)

func renderProjectList(projects []*project.Project, cursor int, width int, today time.Time) string {
	var output strings.Builder

	header := fmt.Sprintf("%-9s %-40s %-12s %-8s %-15s %s",
		"ID", "Goal", "Status", "Tasks", "Dates", "Tags")
	output.WriteString(lipgloss.NewStyle().Bold(true).Render(header) + "\n")
	output.WriteString(strings.Repeat("─", max(width, len(header))) + "\n")

	for i, p := range projects {
		status := statusLabel(p, today)
		line := fmt.Sprintf("%-9s %-40s %-12s %-8s %-15s %s",
			p.ShortID(),
			truncate(p.Goal, 40),
			status,
			fmt.Sprintf("%d/%d", p.DoneCount(), len(p.Tasks)),
			formatRange(p.StartDate, p.EndDate),
			truncate(strings.Join(p.Tags, ", "), 20),
		)

		line = lipgloss.NewStyle().Foreground(statusColor(status)).Render(line)
		if i == cursor {
			line = selectedProjectStyle.Render(line)
		} else {
			line = projectStyle.Render(line)
		}
		output.WriteString(line + "\n")
	}

	return output.String()
}

func statusLabel(p *project.Project, today time.Time) string {
	return string(metrics.ListingStatus(p, today))
}

func statusColor(status string) lipgloss.Color {
	switch status {
	case string(metrics.StatusCompleted):
		return completedColor
	case string(metrics.StatusNotStarted):
		return plannedColor
	case string(metrics.StatusDelayed):
		return delayedColor
	default:
		return activeColor
	}
}

func formatRange(start, end time.Time) string {
	if dates.Day(start).Equal(dates.Day(end)) {
		return start.Format("Jan 2")
	}
	return start.Format("Jan 2") + "-" + end.Format("Jan 2")
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func countByStatus(projects []*project.Project, today time.Time, status string) int {
	count := 0
	for _, p := range projects {
		if statusLabel(p, today) == status {
			count++
		}
	}
	return count
}
