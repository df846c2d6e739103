package metrics

import (
	"fmt"
	"time"

	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/project"
)

// Outcome is the retrospective classification used by reviews and reports
type Outcome string

const (
	OutcomeEarly  Outcome = "Early"
	OutcomeOnTime Outcome = "On Time"
	OutcomeLate   Outcome = "Late"
	OutcomeActive Outcome = "Active"
)

// Outcomes lists every outcome in display order
var Outcomes = []Outcome{OutcomeEarly, OutcomeOnTime, OutcomeLate, OutcomeActive}

// OutcomeOf classifies p. A completed project is Early when its recorded
// completion day is before the end day and On Time otherwise; an unfinished
// project past its end day is Late.
func OutcomeOf(p *project.Project, today time.Time) Outcome {
	end := dates.Day(p.EndDate)
	if isComplete(p) {
		if p.CompletedAt != nil && dates.Day(*p.CompletedAt).Before(end) {
			return OutcomeEarly
		}
		return OutcomeOnTime
	}
	if dates.Day(today).After(end) {
		return OutcomeLate
	}
	return OutcomeActive
}

// Review holds the KPI block for a set of projects. Rates are fractions.
type Review struct {
	Count        int     `json:"count" yaml:"count"`
	AvgProgress  float64 `json:"avg_progress" yaml:"avg_progress"`
	EarlyRate    float64 `json:"early_rate" yaml:"early_rate"`
	OnTimeRate   float64 `json:"on_time_rate" yaml:"on_time_rate"`
	DelayRate    float64 `json:"delay_rate" yaml:"delay_rate"`
	AvgDelayDays float64 `json:"avg_delay_days" yaml:"avg_delay_days"`
}

// ReviewOf computes KPIs; an empty input gives the zero Review.
func ReviewOf(projects []*project.Project, today time.Time) Review {
	if len(projects) == 0 {
		return Review{}
	}
	today = dates.Day(today)

	var progress float64
	early, onTime, late, delay := 0, 0, 0, 0
	for _, p := range projects {
		progress += Completion(p.Tasks)
		switch OutcomeOf(p, today) {
		case OutcomeEarly:
			early++
		case OutcomeOnTime:
			onTime++
		case OutcomeLate:
			late++
			delay += dates.DaysBetween(p.EndDate, today)
		}
	}

	n := float64(len(projects))
	r := Review{
		Count:       len(projects),
		AvgProgress: progress / n,
		EarlyRate:   float64(early) / n,
		OnTimeRate:  float64(onTime) / n,
		DelayRate:   float64(late) / n,
	}
	if late > 0 {
		r.AvgDelayDays = float64(delay) / float64(late)
	}
	return r
}

// Pct converts a fraction to a truncated whole percentage
func Pct(f float64) int {
	return int(f * 100)
}

// Verdict is the one-line planning analysis for the review
func (r Review) Verdict() string {
	switch {
	case r.DelayRate > 0.3:
		return fmt.Sprintf("⚠️ High Delay Rate (%d%%).", Pct(r.DelayRate))
	case r.EarlyRate > 0.3:
		return fmt.Sprintf("🚀 High Early Rate (%d%%)!", Pct(r.EarlyRate))
	default:
		return fmt.Sprintf("✅ Balanced. On-Time/Early: %d%%.", Pct(r.OnTimeRate+r.EarlyRate))
	}
}

// Delta returns r minus prev, field by field
func (r Review) Delta(prev Review) Review {
	return Review{
		Count:        r.Count - prev.Count,
		AvgProgress:  r.AvgProgress - prev.AvgProgress,
		EarlyRate:    r.EarlyRate - prev.EarlyRate,
		OnTimeRate:   r.OnTimeRate - prev.OnTimeRate,
		DelayRate:    r.DelayRate - prev.DelayRate,
		AvgDelayDays: r.AvgDelayDays - prev.AvgDelayDays,
	}
}

// OutcomeCounts tallies outcomes for the status distribution
func OutcomeCounts(projects []*project.Project, today time.Time) map[Outcome]int {
	counts := make(map[Outcome]int, len(Outcomes))
	for _, o := range Outcomes {
		counts[o] = 0
	}
	for _, p := range projects {
		counts[OutcomeOf(p, today)]++
	}
	return counts
}

// MonthDensity counts, for each month of year, the projects whose date range
// overlaps that month. Index 0 is January.
func MonthDensity(projects []*project.Project, year int) [12]int {
	var counts [12]int
	for m := time.January; m <= time.December; m++ {
		first := time.Date(year, m, 1, 0, 0, 0, 0, time.Local)
		last := first.AddDate(0, 1, -1)
		for _, p := range projects {
			if !dates.Day(p.StartDate).After(last) && !dates.Day(p.EndDate).Before(first) {
				counts[m-1]++
			}
		}
	}
	return counts
}

// InMonth returns the projects overlapping the given month
func InMonth(projects []*project.Project, year int, month time.Month) []*project.Project {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)
	var out []*project.Project
	for _, p := range projects {
		if !dates.Day(p.StartDate).After(last) && !dates.Day(p.EndDate).Before(first) {
			out = append(out, p)
		}
	}
	return out
}
