package calendar

import "time"

// DefaultHorizon is the number of days GenerateSchedule inspects before
// giving up.
const DefaultHorizon = 365

// Option configures GenerateSchedule.
type Option func(*scheduleOptions)

type scheduleOptions struct {
	now      func() time.Time
	location *time.Location
	horizon  int
}

// WithClock sets the time source used to find tomorrow.
func WithClock(now func() time.Time) Option {
	return func(o *scheduleOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLocation sets the location whose calendar dates are assigned.
func WithLocation(loc *time.Location) Option {
	return func(o *scheduleOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithHorizon caps the number of days inspected.
func WithHorizon(days int) Option {
	return func(o *scheduleOptions) {
		if days > 0 {
			o.horizon = days
		}
	}
}

// Schedule maps date keys to the items assigned to them.
type Schedule[T any] struct {
	Assignments map[string]T
	// Dates lists the keys of Assignments in ascending order.
	Dates []string
	// Exhausted reports that the horizon ran out before every item was placed.
	Exhausted bool
}

// Len returns the number of placed items.
func (s Schedule[T]) Len() int {
	return len(s.Dates)
}

// GenerateSchedule assigns items, in order, to consecutive free dates starting
// tomorrow. A date is free when its weekday is in weekdays (Sunday=0) and its
// key is not in existing. At most the horizon of days is inspected; items left
// over are reported through Exhausted rather than an error.
func GenerateSchedule[T any](items []T, weekdays []time.Weekday, existing DateSet, opts ...Option) Schedule[T] {
	o := scheduleOptions{
		now:      time.Now,
		location: time.Local,
		horizon:  DefaultHorizon,
	}
	for _, opt := range opts {
		opt(&o)
	}

	schedule := Schedule[T]{Assignments: make(map[string]T)}
	if len(items) == 0 || len(weekdays) == 0 {
		return schedule
	}

	allowed := make(map[time.Weekday]struct{}, len(weekdays))
	for _, day := range weekdays {
		allowed[day] = struct{}{}
	}

	y, m, d := o.now().In(o.location).Date()
	current := time.Date(y, m, d+1, 0, 0, 0, 0, o.location)

	next := 0
	for checked := 0; next < len(items) && checked < o.horizon; checked++ {
		key := FormatDateKey(current)
		if _, ok := allowed[current.Weekday()]; ok && !existing.Has(key) {
			schedule.Assignments[key] = items[next]
			schedule.Dates = append(schedule.Dates, key)
			next++
		}
		current = current.AddDate(0, 0, 1)
	}

	schedule.Exhausted = next < len(items)
	return schedule
}
