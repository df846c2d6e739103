package dates

import "time"

// ISOLayout is the calendar-day layout used in reports, prompts and the CLI.
const ISOLayout = "2006-01-02"

// Day truncates t to local midnight of the same calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// DaysBetween returns the number of calendar days from a to b.
// Negative when b is before a. DST shifts do not affect the result.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// AddDays moves a calendar day forward (or back) by n days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ParseDay parses a YYYY-MM-DD string as a local calendar day.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(ISOLayout, s, time.Local)
}
