package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-10-15 is a Thursday.
var scheduleNow = time.Date(2026, time.October, 15, 15, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerateSchedule(t *testing.T) {
	t.Parallel()

	opts := []Option{WithClock(fixedClock(scheduleNow)), WithLocation(time.UTC)}

	t.Run("assigns items to selected weekdays in order", func(t *testing.T) {
		t.Parallel()

		schedule := GenerateSchedule([]string{"a", "b", "c"}, []time.Weekday{time.Monday, time.Wednesday}, nil, opts...)

		assert.Equal(t, []string{"2026-10-19", "2026-10-21", "2026-10-26"}, schedule.Dates)
		assert.Equal(t, map[string]string{"2026-10-19": "a", "2026-10-21": "b", "2026-10-26": "c"}, schedule.Assignments)
		assert.False(t, schedule.Exhausted)
		assert.Equal(t, 3, schedule.Len())
	})

	t.Run("skips occupied dates", func(t *testing.T) {
		t.Parallel()

		existing := NewDateSet("2026-10-19", "2026-10-26")
		schedule := GenerateSchedule([]string{"a", "b", "c"}, []time.Weekday{time.Monday, time.Wednesday}, existing, opts...)

		assert.Equal(t, []string{"2026-10-21", "2026-10-28", "2026-11-02"}, schedule.Dates)
	})

	t.Run("never assigns weekends, occupied dates, today or the past", func(t *testing.T) {
		t.Parallel()

		items := make([]int, 40)
		for i := range items {
			items[i] = i
		}
		existing := NewDateSet("2026-10-16", "2026-11-03", "2026-12-01")
		weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
		schedule := GenerateSchedule(items, weekdays, existing, opts...)

		require.Len(t, schedule.Dates, len(items))
		previous := FormatDateKey(scheduleNow)
		for i, key := range schedule.Dates {
			date, err := ParseDateKey(key, time.UTC)
			require.NoError(t, err)
			assert.NotEqual(t, time.Saturday, date.Weekday(), key)
			assert.NotEqual(t, time.Sunday, date.Weekday(), key)
			assert.False(t, existing.Has(key), key)
			assert.Greater(t, key, previous)
			assert.Equal(t, i, schedule.Assignments[key])
			previous = key
		}
	})

	t.Run("today is never used even when it matches", func(t *testing.T) {
		t.Parallel()

		monday := time.Date(2026, time.October, 19, 7, 0, 0, 0, time.UTC)
		schedule := GenerateSchedule([]string{"x"}, []time.Weekday{time.Monday}, nil,
			WithClock(fixedClock(monday)), WithLocation(time.UTC))

		assert.Equal(t, []string{"2026-10-26"}, schedule.Dates)
	})

	t.Run("empty inputs return an empty schedule", func(t *testing.T) {
		t.Parallel()

		noItems := GenerateSchedule([]string{}, []time.Weekday{time.Monday}, nil, opts...)
		noDays := GenerateSchedule([]string{"a"}, nil, nil, opts...)

		assert.Empty(t, noItems.Assignments)
		assert.False(t, noItems.Exhausted)
		assert.Empty(t, noDays.Assignments)
		assert.False(t, noDays.Exhausted)
	})

	t.Run("stops at the horizon and reports exhaustion", func(t *testing.T) {
		t.Parallel()

		items := make([]string, 60)
		schedule := GenerateSchedule(items, []time.Weekday{time.Sunday}, nil, opts...)

		assert.Equal(t, 52, schedule.Len())
		assert.True(t, schedule.Exhausted)

		short := GenerateSchedule([]string{"a", "b", "c"}, []time.Weekday{time.Monday}, nil,
			append(opts, WithHorizon(7))...)
		assert.Equal(t, []string{"2026-10-19"}, short.Dates)
		assert.True(t, short.Exhausted)
	})

	t.Run("uses the local calendar date for tomorrow", func(t *testing.T) {
		t.Parallel()

		cest := time.FixedZone("CEST", 2*3600)
		// 22:30 UTC on the 15th is already the 16th in CEST.
		now := time.Date(2026, time.October, 15, 22, 30, 0, 0, time.UTC)
		daily := []time.Weekday{
			time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday,
		}

		local := GenerateSchedule([]string{"a"}, daily, nil, WithClock(fixedClock(now)), WithLocation(cest))
		utc := GenerateSchedule([]string{"a"}, daily, nil, WithClock(fixedClock(now)), WithLocation(time.UTC))

		assert.Equal(t, []string{"2026-10-17"}, local.Dates)
		assert.Equal(t, []string{"2026-10-16"}, utc.Dates)
	})
}
