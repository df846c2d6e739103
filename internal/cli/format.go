package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/metrics"
	"github.com/ohare93/pacer/internal/project"
)

// printProjectTable writes one line per project: id, status, progress, dates, goal
func printProjectTable(w io.Writer, projects []*project.Project, today time.Time) {
	if len(projects) == 0 {
		fmt.Fprintln(w, StyleDim.Render("No projects."))
		return
	}
	fmt.Fprintln(w, StyleHeader.Render(fmt.Sprintf(" %-8s  %-11s  %-5s  %-23s  %s ", "ID", "STATUS", "DONE", "DATES", "GOAL")))
	for _, p := range projects {
		status := metrics.ListingStatus(p, today)
		fmt.Fprintf(w, " %s  %s  %-5s  %-23s  %s%s\n",
			StyleID.Render(fmt.Sprintf("%-8s", p.ShortID())),
			GetStatusStyle(status).Render(fmt.Sprintf("%-11s", status)),
			fmt.Sprintf("%d/%d", p.DoneCount(), len(p.Tasks)),
			formatRange(p),
			p.Goal,
			formatTags(p.Tags),
		)
	}
}

// printProject writes the full detail of a single project
func printProject(w io.Writer, p *project.Project, today time.Time) {
	status := metrics.ListingStatus(p, today)
	fmt.Fprintf(w, "%s %s\n", StyleHighlight.Render(p.Goal), StyleDim.Render("("+p.ShortID()+")"))
	fmt.Fprintf(w, "  Status:   %s\n", GetStatusStyle(status).Render(string(status)))
	fmt.Fprintf(w, "  Dates:    %s (%d days)\n", formatRange(p), p.DurationDays())
	if !p.IsDone() {
		left := dates.DaysBetween(today, p.EndDate)
		switch {
		case left < 0:
			fmt.Fprintf(w, "  Due:      %s\n", StyleDelayed.Render(fmt.Sprintf("overdue by %dd", -left)))
		case left == 0:
			fmt.Fprintf(w, "  Due:      %s\n", StyleWarning.Render("today"))
		default:
			fmt.Fprintf(w, "  Due:      in %dd\n", left)
		}
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(w, "  Tags:     %s\n", strings.Join(p.Tags, ", "))
	}
	if p.Reward != "" {
		fmt.Fprintf(w, "  Reward:   %s\n", StyleReward.Render(p.Reward))
	}
	fmt.Fprintf(w, "  Progress: %d%%\n", metrics.Pct(metrics.Completion(p.Tasks)))
	fmt.Fprintln(w)
	printTasks(w, p)
}

func printTasks(w io.Writer, p *project.Project) {
	if len(p.Tasks) == 0 {
		fmt.Fprintln(w, StyleDim.Render("  No checklist items."))
		return
	}
	for i, t := range p.Tasks {
		if t.Completed {
			fmt.Fprintf(w, "  %2d. %s %s\n", i+1, StyleComplete.Render("[x]"), StyleComplete.Render(t.Task))
		} else {
			fmt.Fprintf(w, "  %2d. [ ] %s\n", i+1, t.Task)
		}
	}
}

func formatRange(p *project.Project) string {
	start, end := p.StartDate.Format(dates.ISOLayout), p.EndDate.Format(dates.ISOLayout)
	if start == end {
		return start
	}
	return start + ".." + end
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " " + StyleDim.Render("#"+strings.Join(tags, " #"))
}
