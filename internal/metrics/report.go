package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/project"
)

// ReportRow is one flat line of the exported report
type ReportRow struct {
	Goal         string `json:"goal" yaml:"goal"`
	StartDate    string `json:"start_date" yaml:"start_date"`
	Deadline     string `json:"deadline" yaml:"deadline"`
	DurationDays int    `json:"duration_days" yaml:"duration_days"`
	TasksTotal   int    `json:"tasks_total" yaml:"tasks_total"`
	TasksDone    int    `json:"tasks_done" yaml:"tasks_done"`
	Completion   string `json:"completion" yaml:"completion"`
	Status       string `json:"status" yaml:"status"`
	TimeStatus   string `json:"time_status" yaml:"time_status"`
}

// ReportHeader is the column order for delimited output
var ReportHeader = []string{
	"Goal", "Start Date", "Deadline", "Duration (days)", "Tasks Total",
	"Tasks Done", "Completion %", "Status", "Time Status",
}

// Record returns the row's fields in ReportHeader order
func (r ReportRow) Record() []string {
	return []string{
		r.Goal,
		r.StartDate,
		r.Deadline,
		strconv.Itoa(r.DurationDays),
		strconv.Itoa(r.TasksTotal),
		strconv.Itoa(r.TasksDone),
		r.Completion,
		r.Status,
		r.TimeStatus,
	}
}

// ReportRows builds export rows. Duration is end minus start in days.
func ReportRows(projects []*project.Project, today time.Time) []ReportRow {
	today = dates.Day(today)
	rows := make([]ReportRow, 0, len(projects))
	for _, p := range projects {
		total := len(p.Tasks)
		done := p.DoneCount()
		pct := 0
		if total > 0 {
			pct = done * 100 / total
		}

		outcome := OutcomeOf(p, today)
		var timeStatus string
		switch outcome {
		case OutcomeLate:
			timeStatus = fmt.Sprintf("Overdue %dd", dates.DaysBetween(p.EndDate, today))
		case OutcomeEarly, OutcomeOnTime:
			timeStatus = "Done"
		default:
			timeStatus = fmt.Sprintf("%dd left", dates.DaysBetween(today, p.EndDate))
		}

		rows = append(rows, ReportRow{
			Goal:         p.Goal,
			StartDate:    p.StartDate.Format(dates.ISOLayout),
			Deadline:     p.EndDate.Format(dates.ISOLayout),
			DurationDays: dates.DaysBetween(p.StartDate, p.EndDate),
			TasksTotal:   total,
			TasksDone:    done,
			Completion:   fmt.Sprintf("%d%%", pct),
			Status:       string(outcome),
			TimeStatus:   timeStatus,
		})
	}
	return rows
}
