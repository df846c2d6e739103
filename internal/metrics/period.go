package metrics

import (
	"fmt"
	"time"

	"github.com/ohare93/pacer/internal/dates"
	"github.com/ohare93/pacer/internal/project"
)

// PeriodKind selects a review window
type PeriodKind string

const (
	PeriodLast7  PeriodKind = "last7"
	PeriodMonth  PeriodKind = "month"
	PeriodYear   PeriodKind = "year"
	PeriodCustom PeriodKind = "custom"
)

// Window is a range of start days. A zero End is unbounded. When Inclusive
// is false the End day itself is excluded.
type Window struct {
	Start     time.Time
	End       time.Time
	Inclusive bool
}

// Contains reports whether day d falls inside the window
func (w Window) Contains(d time.Time) bool {
	d = dates.Day(d)
	if d.Before(w.Start) {
		return false
	}
	if w.End.IsZero() {
		return true
	}
	if w.Inclusive {
		return !d.After(w.End)
	}
	return d.Before(w.End)
}

// Period is the current review window plus the window it is compared with
type Period struct {
	Kind     PeriodKind
	Current  Window
	Previous *Window
}

// ParsePeriodKind validates a period name
func ParsePeriodKind(s string) (PeriodKind, error) {
	switch k := PeriodKind(s); k {
	case PeriodLast7, PeriodMonth, PeriodYear, PeriodCustom:
		return k, nil
	default:
		return "", fmt.Errorf("unknown period %q (want last7, month, year or custom)", s)
	}
}

// NewPeriod builds the windows for kind relative to today. For custom,
// bounds holds zero, one or two days: none means today only, one means that
// single day, two give the range and a previous range of equal length
// ending the day before.
func NewPeriod(kind PeriodKind, today time.Time, bounds ...time.Time) (Period, error) {
	today = dates.Day(today)
	p := Period{Kind: kind}

	switch kind {
	case PeriodLast7:
		start := dates.AddDays(today, -7)
		p.Current = Window{Start: start}
		p.Previous = &Window{Start: dates.AddDays(start, -7), End: start}

	case PeriodMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.Local)
		p.Current = Window{Start: first}
		p.Previous = &Window{Start: first.AddDate(0, -1, 0), End: first}

	case PeriodYear:
		first := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.Local)
		p.Current = Window{Start: first}
		p.Previous = &Window{Start: first.AddDate(-1, 0, 0), End: first}

	case PeriodCustom:
		switch len(bounds) {
		case 0:
			p.Current = Window{Start: today, End: today, Inclusive: true}
		case 1:
			d := dates.Day(bounds[0])
			p.Current = Window{Start: d, End: d, Inclusive: true}
		case 2:
			start, end := dates.Day(bounds[0]), dates.Day(bounds[1])
			if start.After(end) {
				return Period{}, fmt.Errorf("custom period start %s is after end %s",
					start.Format(dates.ISOLayout), end.Format(dates.ISOLayout))
			}
			span := dates.DaysBetween(start, end)
			prevEnd := dates.AddDays(start, -1)
			p.Current = Window{Start: start, End: end, Inclusive: true}
			p.Previous = &Window{Start: dates.AddDays(prevEnd, -span), End: prevEnd, Inclusive: true}
		default:
			return Period{}, fmt.Errorf("custom period takes at most two dates, got %d", len(bounds))
		}

	default:
		return Period{}, fmt.Errorf("unknown period %q", kind)
	}
	return p, nil
}

// Filter splits projects by start day into the current and previous windows
func (p Period) Filter(projects []*project.Project) (current, previous []*project.Project) {
	for _, pr := range projects {
		if p.Current.Contains(pr.StartDate) {
			current = append(current, pr)
		}
		if p.Previous != nil && p.Previous.Contains(pr.StartDate) {
			previous = append(previous, pr)
		}
	}
	return current, previous
}

// Label is the human name of the period, used in report file names
func (p Period) Label() string {
	switch p.Kind {
	case PeriodLast7:
		return "Last 7 Days"
	case PeriodMonth:
		return "This Month"
	case PeriodYear:
		return "This Year"
	default:
		return "Custom Range"
	}
}
