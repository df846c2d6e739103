// Package metrics derives scheduling and performance figures from projects.
// Every function is a pure function of the projects and the current day.
package metrics

import (
	"time"

	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/project"
)

// Status is the coarse per-project state shown in listings
type Status string

const (
	StatusCompleted  Status = "Completed"
	StatusNotStarted Status = "Not Started"
	StatusActive     Status = "Active"
	// StatusDelayed is only produced by ListingStatus
	StatusDelayed Status = "Delayed"
)

// Completion returns the done fraction of tasks, 0 for an empty list
func Completion(tasks []project.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return float64(done) / float64(len(tasks))
}

func isComplete(p *project.Project) bool {
	return Completion(p.Tasks) >= 1.0
}

// isOverdue reports an unfinished project whose end day has passed
func isOverdue(p *project.Project, today time.Time) bool {
	return !isComplete(p) && dates.Day(today).After(dates.Day(p.EndDate))
}

// StatusOf classifies a project. An overdue project is still Active here;
// only Dashboard separates out delayed projects.
func StatusOf(p *project.Project, today time.Time) Status {
	if isComplete(p) {
		return StatusCompleted
	}
	if dates.Day(p.StartDate).After(dates.Day(today)) {
		return StatusNotStarted
	}
	return StatusActive
}

// ListingStatus is StatusOf with active projects past their end day
// reported as StatusDelayed.
func ListingStatus(p *project.Project, today time.Time) Status {
	s := StatusOf(p, today)
	if s == StatusActive && isOverdue(p, today) {
		return StatusDelayed
	}
	return s
}

// CompletionDay is the calendar day a finished project counts as done:
// CompletedAt when recorded, otherwise today.
func CompletionDay(p *project.Project, today time.Time) time.Time {
	if p.CompletedAt != nil && !p.CompletedAt.IsZero() {
		return dates.Day(*p.CompletedAt)
	}
	return dates.Day(today)
}

// RhythmScore is the percentage of finished-or-due projects that were done by
// their deadline. Completed projects count on time when their completion day
// is on or before the end date; every unfinished overdue project counts
// against the score. With no completed project the score is 100.
func RhythmScore(projects []*project.Project, today time.Time) int {
	completed, onTime, overdue := 0, 0, 0
	for _, p := range projects {
		switch {
		case isComplete(p):
			completed++
			if !CompletionDay(p, today).After(dates.Day(p.EndDate)) {
				onTime++
			}
		case isOverdue(p, today):
			overdue++
		}
	}
	if completed == 0 {
		return 100
	}
	return onTime * 100 / (completed + overdue)
}

// TimeDebt sums planned minus actual days over completed projects.
// Positive means days saved, negative means days lost.
func TimeDebt(projects []*project.Project, today time.Time) int {
	total := 0
	for _, p := range projects {
		if !isComplete(p) {
			continue
		}
		planned := dates.DaysBetween(p.StartDate, p.EndDate) + 1
		actual := dates.DaysBetween(p.StartDate, CompletionDay(p, today)) + 1
		total += planned - actual
	}
	return total
}

// DashboardCounts partitions projects for the summary header
type DashboardCounts struct {
	Total   int `json:"total" yaml:"total"`
	Active  int `json:"active" yaml:"active"`
	Planned int `json:"planned" yaml:"planned"`
	Delayed int `json:"delayed" yaml:"delayed"`
	Done    int `json:"done" yaml:"done"`
}

// Dashboard counts done, planned (not yet started), delayed (end day passed)
// and active projects. Each project lands in exactly one bucket.
func Dashboard(projects []*project.Project, today time.Time) DashboardCounts {
	today = dates.Day(today)
	c := DashboardCounts{Total: len(projects)}
	for _, p := range projects {
		switch {
		case isComplete(p):
			c.Done++
		case today.Before(dates.Day(p.StartDate)):
			c.Planned++
		case dates.DaysBetween(today, p.EndDate)+1 <= 0:
			c.Delayed++
		default:
			c.Active++
		}
	}
	return c
}
