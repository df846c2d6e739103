package app

import (
	"context"
	"time"

	"github.com/ohare93/pacer/internal/insights"
	"github.com/ohare93/pacer/internal/metrics"
	"github.com/ohare93/pacer/internal/project"
)

// Stats is the dashboard summary.
type Stats struct {
	Counts      metrics.DashboardCounts `json:"counts" yaml:"counts"`
	RhythmScore int                     `json:"rhythm_score" yaml:"rhythm_score"`
	TimeDebt    int                     `json:"time_debt" yaml:"time_debt"`
}

// Review is a period review with its comparison window.
type Review struct {
	Label    string                  `json:"label" yaml:"label"`
	Current  metrics.Review          `json:"current" yaml:"current"`
	Previous *metrics.Review         `json:"previous,omitempty" yaml:"previous,omitempty"`
	Verdict  string                  `json:"verdict" yaml:"verdict"`
	Outcomes map[metrics.Outcome]int `json:"outcomes" yaml:"outcomes"`
}

// Insights is the pattern analysis with its display cards.
type Insights struct {
	Patterns    []insights.Pattern    `json:"patterns" yaml:"patterns"`
	Suggestions []insights.Suggestion `json:"suggestions" yaml:"suggestions"`
}

// Dashboard computes the summary over active projects and publishes the
// partition gauge.
func (a *App) Dashboard(ctx context.Context) (Stats, error) {
	c, err := a.view(ctx)
	if err != nil {
		return Stats{}, err
	}
	today := a.Today()
	s := Stats{
		Counts:      metrics.Dashboard(c.Projects, today),
		RhythmScore: metrics.RhythmScore(c.Projects, today),
		TimeDebt:    metrics.TimeDebt(c.Projects, today),
	}
	a.metrics.SetDashboard(s.Counts.Active, s.Counts.Planned, s.Counts.Delayed, s.Counts.Done)
	return s, nil
}

// Insights analyses active projects.
func (a *App) Insights(ctx context.Context) (Insights, error) {
	c, err := a.view(ctx)
	if err != nil {
		return Insights{}, err
	}
	patterns := insights.Analyze(c.Projects, a.Today())
	if patterns == nil {
		patterns = []insights.Pattern{}
	}
	return Insights{Patterns: patterns, Suggestions: insights.Suggestions(patterns)}, nil
}

// Review computes KPIs for the projects starting within period.
func (a *App) Review(ctx context.Context, period metrics.Period) (Review, error) {
	c, err := a.view(ctx)
	if err != nil {
		return Review{}, err
	}
	today := a.Today()
	current, previous := period.Filter(c.Projects)

	r := Review{
		Label:    period.Label(),
		Current:  metrics.ReviewOf(current, today),
		Outcomes: metrics.OutcomeCounts(current, today),
	}
	r.Verdict = r.Current.Verdict()
	if period.Previous != nil {
		prev := metrics.ReviewOf(previous, today)
		r.Previous = &prev
	}
	return r, nil
}

// Report returns export rows for the projects starting within period.
func (a *App) Report(ctx context.Context, period metrics.Period) ([]metrics.ReportRow, error) {
	c, err := a.view(ctx)
	if err != nil {
		return nil, err
	}
	current, _ := period.Filter(c.Projects)
	return metrics.ReportRows(current, a.Today()), nil
}

// MonthDensity counts active projects overlapping each month of year.
func (a *App) MonthDensity(ctx context.Context, year int) ([12]int, error) {
	c, err := a.view(ctx)
	if err != nil {
		return [12]int{}, err
	}
	return metrics.MonthDensity(c.Projects, year), nil
}

// ProjectsInMonth returns active projects whose date range overlaps month.
func (a *App) ProjectsInMonth(ctx context.Context, year int, month time.Month) ([]*project.Project, error) {
	c, err := a.view(ctx)
	if err != nil {
		return nil, err
	}
	return metrics.InMonth(c.Projects, year, month), nil
}
