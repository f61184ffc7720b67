package calendar

import "time"

// DateKeyLayout is the canonical YYYY-MM-DD layout for date keys.
const DateKeyLayout = "2006-01-02"

// FormatDateKey formats the calendar date of t in t's own location. It never
// converts to UTC, so a late-evening local time keeps its local date.
func FormatDateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key as midnight in loc (time.Local when nil).
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateKeyLayout, key, loc)
}

// WeekNumber returns the ISO-8601 week number of t's calendar date. Week 1 is
// the week containing the year's first Thursday.
func WeekNumber(t time.Time) int {
	y, m, d := t.Date()
	_, week := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// DateSet is a set of date keys.
type DateSet map[string]struct{}

// NewDateSet returns a set holding keys.
func NewDateSet(keys ...string) DateSet {
	set := make(DateSet, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return set
}

// Has reports whether key is in the set. A nil set is empty.
func (s DateSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Add inserts key.
func (s DateSet) Add(key string) {
	s[key] = struct{}{}
}

// StartOfDay returns midnight of t's date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsSameDay reports whether a and b fall on the same calendar date, each in
// its own location.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfWeek returns midnight of the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, -MondayIndex(t.Weekday()))
}

// EndOfWeek returns midnight of the Sunday on or after t.
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, DaysPerWeek-1)
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Quarter returns the quarter (1-4) of t's month.
func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// DateRange returns every date from start through end inclusive, at midnight.
// It returns nil when end precedes start.
func DateRange(start, end time.Time) []time.Time {
	first := StartOfDay(start)
	last := StartOfDay(end.In(start.Location()))
	if last.Before(first) {
		return nil
	}
	var dates []time.Time
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		dates = append(dates, day)
	}
	return dates
}
