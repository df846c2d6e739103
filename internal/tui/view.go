package tui

import (
	"fmt"
	"strings"

	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/metrics"
)

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress r to retry or q to quit", m.err))
	}

	switch m.mode {
	case listView:
		return m.renderListView()
	case detailView:
		return m.renderDetailView()
	case inputView:
		return m.renderInputView()
	case confirmDeleteView:
		return m.renderConfirmDeleteView()
	case helpView:
		return m.renderHelpView()
	default:
		return "Unknown view"
	}
}

func (m Model) renderListView() string {
	var b strings.Builder
	today := m.app.Today()

	b.WriteString(titleStyle.Render("Pacer - "+today.Format("Mon Jan 2")) + "\n")

	if len(m.projects) == 0 {
		b.WriteString("No projects yet. Press a to plan one.\n")
	} else {
		b.WriteString(renderProjectList(m.projects, m.cursor, m.width, today))
		b.WriteString(fmt.Sprintf("\nActive: %d | Planned: %d | Delayed: %d | Completed: %d\n",
			countByStatus(m.projects, today, string(metrics.StatusActive)),
			countByStatus(m.projects, today, string(metrics.StatusNotStarted)),
			countByStatus(m.projects, today, string(metrics.StatusDelayed)),
			countByStatus(m.projects, today, string(metrics.StatusCompleted)),
		))
	}

	m.renderFooter(&b, "j/k: move | enter: open | a: add | x: delete | r: reload | ?: help | q: quit")
	return b.String()
}

func (m Model) renderDetailView() string {
	p := m.selectedProject()
	if p == nil {
		return "No project selected"
	}
	today := m.app.Today()

	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Goal) + "\n")

	days := dates.DaysBetween(today, p.EndDate)
	b.WriteString(fmt.Sprintf("Status:   %s\n", statusLabel(p, today)))
	b.WriteString(fmt.Sprintf("Dates:    %s (%d days)\n", formatRange(p.StartDate, p.EndDate), p.DurationDays()))
	switch {
	case p.IsDone():
	case days < 0:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Overdue by %dd", -days)) + "\n")
	default:
		b.WriteString(fmt.Sprintf("Due in:   %dd\n", days))
	}
	if len(p.Tags) > 0 {
		b.WriteString(fmt.Sprintf("Tags:     %s\n", strings.Join(p.Tags, ", ")))
	}
	if p.Reward != "" {
		b.WriteString(rewardStyle.Render("Reward:   "+p.Reward) + "\n")
	}
	b.WriteString(fmt.Sprintf("Progress: %d%%\n\n", metrics.Pct(metrics.Completion(p.Tasks))))

	if len(p.Tasks) == 0 {
		b.WriteString("No checklist items.\n")
	}
	for i, t := range p.Tasks {
		box := "[ ]"
		text := t.Task
		if t.Completed {
			box = "[x]"
			text = doneTaskStyle.Render(text)
		}
		line := fmt.Sprintf("%s %s", box, text)
		if i == m.taskCursor {
			line = selectedProjectStyle.Render(line)
		} else {
			line = projectStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	m.renderFooter(&b, "j/k: move | space: toggle | x: delete | esc: back | q: quit")
	return b.String()
}

func (m Model) renderInputView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New project") + "\n")
	b.WriteString("Describe the goal. Dates like 11/3-11/8, 12月24日 or \"next friday\" are picked up.\n\n")
	b.WriteString(m.textInput.View() + "\n")
	m.renderFooter(&b, "enter: create | esc: cancel")
	return b.String()
}

func (m Model) renderHelpView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Keys") + "\n")
	rows := [][2]string{
		{"j / down", "next project or task"},
		{"k / up", "previous project or task"},
		{"enter", "open project"},
		{"space", "toggle the task under the cursor"},
		{"a", "plan a new project from a sentence"},
		{"x", "move the project to the bin"},
		{"r", "reload from disk"},
		{"esc", "back"},
		{"q", "quit"},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", r[0], r[1]))
	}
	m.renderFooter(&b, "any key: back")
	return b.String()
}

func (m Model) renderFooter(b *strings.Builder, help string) {
	b.WriteString("\n")
	if m.message != "" {
		if strings.HasPrefix(m.message, "Error") {
			b.WriteString(errorStyle.Render(m.message) + "\n")
		} else {
			b.WriteString(messageStyle.Render(m.message) + "\n")
		}
	}
	b.WriteString(helpStyle.Render(help))
}
