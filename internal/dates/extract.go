package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"github.com/olebedev/when/rules/en"
	"github.com/olebedev/when/rules/zh"
)

// DefaultSpanDays is the length of the fallback range when no date is found.
const DefaultSpanDays = 7

// rolloverWindow is how far in the past a bare month/day may land before it
// is read as next year's date.
const rolloverWindow = 300

var (
	cnRangeRe   = regexp.MustCompile(`(\d+)月(\d+)日\s*[-到]\s*(\d+)月(\d+)日`)
	cnSingleRe  = regexp.MustCompile(`(\d+)月(\d+)日`)
	numRangeRe  = regexp.MustCompile(`(?:^|[^\d/-])(\d{1,2})[/-](\d{1,2})\s*-\s*(\d{1,2})[/-](\d{1,2})(?:\D|$)`)
	numDaysRe   = regexp.MustCompile(`(?:^|[^\d/-])(\d{1,2})[/-](\d{1,2})\s*-\s*(\d{1,2})(?:[^\d/-]|$)`)
	numSingleRe = regexp.MustCompile(`(?:^|[^\d/])(\d{1,2})/(\d{1,2})(?:[^\d/]|$)`)
	isoRe       = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	yearRe      = regexp.MustCompile(`\d{4}`)
)

// Extractor finds a date range in free text.
type Extractor struct {
	// Now is the clock used for "today"; defaults to time.Now.
	Now func() time.Time
	// SpanDays is the length of the range returned when nothing matches.
	SpanDays int

	fuzzy *when.Parser
}

// zhRules are the Chinese rules that need real text to match. ExactMonthDate
// matches the empty string and panics inside when, and 2月1日 forms are
// handled by the localized families anyway. when's common SlashDMY reads
// 12/5 day first, so numeric dates stay with numericSingle.
var zhRules = []rules.Rule{
	zh.Weekday(rules.Override),
	zh.CasualDate(rules.Override),
	zh.AfterTime(rules.Override),
}

// NewExtractor returns an extractor with English and Chinese fuzzy rules.
func NewExtractor() *Extractor {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(zhRules...)
	return &Extractor{Now: time.Now, SpanDays: DefaultSpanDays, fuzzy: w}
}

type family func(text string, today time.Time) (time.Time, time.Time, bool)

// Extract returns the first date range found in text. Patterns are tried from
// most to least specific; the first that yields a valid date wins. When nothing
// is found the range is [today, today+SpanDays] and matched is false.
// The returned start is never after the returned end.
func (e *Extractor) Extract(text string) (start, end time.Time, matched bool) {
	today := Day(e.now())

	for _, f := range []family{localizedRange, localizedSingle, numericRange, numericDays, numericSingle, isoDates, e.fuzzyDates} {
		if s, fin, ok := f(text, today); ok {
			return ordered(s, fin, true)
		}
	}

	span := e.SpanDays
	if span <= 0 {
		span = DefaultSpanDays
	}
	return today, AddDays(today, span), false
}

func (e *Extractor) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func ordered(s, e time.Time, matched bool) (time.Time, time.Time, bool) {
	if s.After(e) {
		s, e = e, s
	}
	return s, e, matched
}

func localizedRange(text string, today time.Time) (time.Time, time.Time, bool) {
	m := cnRangeRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}
	return monthDayRange(today, atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4]))
}

func localizedSingle(text string, today time.Time) (time.Time, time.Time, bool) {
	m := cnSingleRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}
	s, ok := monthDay(today, atoi(m[1]), atoi(m[2]))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	s = rollStart(s, today)
	return s, s, true
}

func numericRange(text string, today time.Time) (time.Time, time.Time, bool) {
	m := numRangeRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}
	return monthDayRange(today, atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4]))
}

func numericDays(text string, today time.Time) (time.Time, time.Time, bool) {
	m := numDaysRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}
	month := atoi(m[1])
	return monthDayRange(today, month, atoi(m[2]), month, atoi(m[3]))
}

func numericSingle(text string, today time.Time) (time.Time, time.Time, bool) {
	m := numSingleRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}
	s, ok := monthDay(today, atoi(m[1]), atoi(m[2]))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	s = rollStart(s, today)
	return s, s, true
}

func isoDates(text string, today time.Time) (time.Time, time.Time, bool) {
	var found []time.Time
	for _, m := range isoRe.FindAllStringSubmatch(text, 2) {
		d, err := ParseDay(m[1] + "-" + m[2] + "-" + m[3])
		if err != nil {
			continue
		}
		found = append(found, d)
	}
	switch len(found) {
	case 0:
		return time.Time{}, time.Time{}, false
	case 1:
		return found[0], found[0], true
	default:
		return found[0], found[1], true
	}
}

// fuzzyDates takes the first natural-language date as start and the next
// one after it as end.
func (e *Extractor) fuzzyDates(text string, today time.Time) (time.Time, time.Time, bool) {
	if e.fuzzy == nil {
		return time.Time{}, time.Time{}, false
	}
	first, rest, ok := e.fuzzyOne(text, today)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if second, _, ok := e.fuzzyOne(rest, today); ok {
		return first, second, true
	}
	return first, first, true
}

func (e *Extractor) fuzzyOne(text string, today time.Time) (time.Time, string, bool) {
	if text == "" {
		return time.Time{}, "", false
	}
	r, err := e.parseFuzzy(text, today)
	if err != nil || r == nil {
		return time.Time{}, "", false
	}
	d := preferFuture(Day(r.Time), today, r.Text)
	restAt := r.Index + len(r.Text)
	if restAt > len(text) {
		restAt = len(text)
	}
	return d, text[restAt:], true
}

// parseFuzzy runs the fuzzy parser, treating a panic inside a rule as no match.
func (e *Extractor) parseFuzzy(text string, today time.Time) (r *when.Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("fuzzy date rule failed on %q: %v", text, p)
		}
	}()
	return e.fuzzy.Parse(text, today)
}

// preferFuture moves a bare calendar date that fell well into the past to
// next year. Relative phrases within the last week ("yesterday", "last
// friday") and anything naming a year are left alone.
func preferFuture(d, today time.Time, phrase string) time.Time {
	if yearRe.MatchString(phrase) {
		return d
	}
	if DaysBetween(d, today) > 7 {
		return d.AddDate(1, 0, 0)
	}
	return d
}

func monthDayRange(today time.Time, m1, d1, m2, d2 int) (time.Time, time.Time, bool) {
	s, ok := monthDay(today, m1, d1)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	e, ok := monthDay(today, m2, d2)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	s = rollStart(s, today)
	for e.Before(s) {
		e = e.AddDate(1, 0, 0)
	}
	return s, e, true
}

// monthDay places month/day in today's year. Out-of-range values such as
// 2/30 are rejected rather than normalized into the next month.
func monthDay(today time.Time, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(today.Year(), time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func rollStart(s, today time.Time) time.Time {
	if DaysBetween(s, today) > rolloverWindow {
		return s.AddDate(1, 0, 0)
	}
	return s
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
