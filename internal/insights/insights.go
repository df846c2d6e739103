// Package insights detects procrastination patterns in project history.
package insights

import (
	"fmt"
	"time"

	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/metrics"
	"github.com/ohare93/pacer/internal/project"
)

// PatternType tags a detected pattern
type PatternType string

const (
	WeekendProcrastinator PatternType = "weekend_procrastinator"
	LongProjectAvoider    PatternType = "long_project_avoider"
	DeadlineSprinter      PatternType = "deadline_sprinter"
	HighPerformer         PatternType = "high_performer"
	GoodProgress          PatternType = "good_progress"
	NewUser               PatternType = "new_user"
	KeepGoing             PatternType = "keep_going"
	ReadyToStart          PatternType = "ready_to_start"
)

// Pattern is a derived tip card. It is never persisted.
type Pattern struct {
	Type        PatternType `json:"type" yaml:"type"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Tip         string      `json:"tip" yaml:"tip"`
}

// Suggestion is the display form of a pattern
type Suggestion struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Tip         string `json:"tip,omitempty" yaml:"tip,omitempty"`
}

// NoPatternsMessage is shown when there is nothing to suggest
const NoPatternsMessage = "✨ No patterns detected yet. Keep tracking your projects!"

const (
	longProjectDays  = 14
	shortProjectDays = 7
)

type annotated struct {
	p          *project.Project
	duration   int
	delay      int
	completion float64
}

// Analyze runs every rule over projects and returns the patterns that fired,
// in rule order. Projects without tasks are neither completed nor late but
// still count toward the totals.
func Analyze(projects []*project.Project, today time.Time) []Pattern {
	if len(projects) == 0 {
		return nil
	}
	today = dates.Day(today)

	var completed, late []annotated
	for _, p := range projects {
		if len(p.Tasks) == 0 {
			continue
		}
		a := annotated{
			p:          p,
			duration:   p.DurationDays(),
			completion: metrics.Completion(p.Tasks),
		}
		switch {
		case a.completion >= 1.0:
			completed = append(completed, a)
		case today.After(dates.Day(p.EndDate)):
			a.delay = dates.DaysBetween(p.EndDate, today)
			late = append(late, a)
		}
	}

	var patterns []Pattern

	weekend, weekday := 0, 0
	for _, l := range late {
		if dates.IsWeekend(l.p.StartDate) {
			weekend++
		} else {
			weekday++
		}
	}
	if len(late) >= 3 && weekend > weekday {
		patterns = append(patterns, Pattern{
			Type:        WeekendProcrastinator,
			Title:       "📅 Weekend Procrastinator",
			Description: fmt.Sprintf("You have %d delayed projects started on weekends.", weekend),
			Tip:         "Try starting important projects on Monday mornings when energy is fresh.",
		})
	}

	var long, short []annotated
	for _, l := range late {
		if l.duration > longProjectDays {
			long = append(long, l)
		}
	}
	for _, c := range completed {
		if c.duration <= shortProjectDays {
			short = append(short, c)
		}
	}
	if len(long) >= 2 && len(short) >= 2 {
		longAvg, shortAvg := avgCompletion(long), avgCompletion(short)
		if longAvg < 0.5 && shortAvg > 0.8 {
			patterns = append(patterns, Pattern{
				Type:  LongProjectAvoider,
				Title: "📏 Big Project Aversion",
				Description: fmt.Sprintf("Long projects (>2 weeks) have %d%% avg completion vs %d%% for short ones.",
					metrics.Pct(longAvg), metrics.Pct(shortAvg)),
				Tip: "Break large projects into smaller 1-week milestones.",
			})
		}
	}

	if len(late) >= 2 {
		total := 0
		for _, l := range late {
			total += l.delay
		}
		avg := float64(total) / float64(len(late))
		if avg > 3 {
			patterns = append(patterns, Pattern{
				Type:        DeadlineSprinter,
				Title:       "🏃 Deadline Sprinter",
				Description: fmt.Sprintf("Your late projects average %d days overdue.", int(avg)),
				Tip:         "Set personal deadlines 2-3 days before actual deadlines.",
			})
		}
	}

	switch {
	case len(completed) >= 2 && len(late) == 0:
		patterns = append(patterns, Pattern{
			Type:        HighPerformer,
			Title:       "🌟 Rhythm Master",
			Description: fmt.Sprintf("Excellent! %d projects completed on time.", len(completed)),
			Tip:         "Keep up the great work! Consider setting more ambitious goals.",
		})
	case len(completed) >= 1 && len(late) <= 1:
		rate := len(completed) * 100 / (len(completed) + len(late))
		patterns = append(patterns, Pattern{
			Type:        GoodProgress,
			Title:       "👍 Making Progress",
			Description: fmt.Sprintf("%d%% on-time completion rate.", rate),
			Tip:         "You're building good habits. Keep the momentum!",
		})
	}

	if len(projects) <= 3 {
		patterns = append(patterns, Pattern{
			Type:        NewUser,
			Title:       "🚀 Just Getting Started",
			Description: "Welcome! Add more projects to unlock deeper insights.",
			Tip:         "Try adding 3-5 projects to see pattern analysis.",
		})
	}

	if len(patterns) == 0 {
		if active := len(projects) - len(completed) - len(late); active > 0 {
			patterns = append(patterns, Pattern{
				Type:        KeepGoing,
				Title:       "💪 Keep Going",
				Description: fmt.Sprintf("You have %d active projects in progress.", active),
				Tip:         "Focus on completing one project at a time for best results.",
			})
		} else {
			patterns = append(patterns, Pattern{
				Type:        ReadyToStart,
				Title:       "🎯 Ready for Action",
				Description: "Your slate is clean! Time to plan new goals.",
				Tip:         "Set a new project with a realistic deadline to get started.",
			})
		}
	}
	return patterns
}

func avgCompletion(list []annotated) float64 {
	var sum float64
	for _, a := range list {
		sum += a.completion
	}
	return sum / float64(len(list))
}

// Suggestions maps patterns to display cards, or a single default message
// when there are none.
func Suggestions(patterns []Pattern) []Suggestion {
	if len(patterns) == 0 {
		return []Suggestion{{Title: NoPatternsMessage}}
	}
	out := make([]Suggestion, len(patterns))
	for i, p := range patterns {
		out[i] = Suggestion{Title: p.Title, Description: p.Description, Tip: p.Tip}
	}
	return out
}
