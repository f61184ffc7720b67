package testfixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	t.Parallel()

	clock := NewClock(time.Time{})
	assert.True(t, clock.Now().Equal(ReferenceTime()))
	assert.Equal(t, time.Thursday, clock.Now().Weekday())
}

func TestClockAdvanceAndSet(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.March, 14, 9, 26, 0, 0, time.UTC)
	clock := NewClock(start)

	assert.Equal(t, start.Add(90*time.Minute), clock.Advance(90*time.Minute))

	clock.Set(start)
	assert.Equal(t, start.AddDate(0, 0, 3), clock.AdvanceDays(3))
}

func TestClockAdvanceDaysKeepsWallClock(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("CET", 3600)
	clock := NewClock(time.Date(2026, time.October, 24, 9, 0, 0, 0, loc))
	next := clock.AdvanceDays(1)
	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 25, next.Day())
}

func TestClockNowFunc(t *testing.T) {
	t.Parallel()

	clock := NewClock(time.Time{})
	nowFn := clock.NowFunc()
	clock.Advance(time.Minute)
	assert.Equal(t, clock.Now(), nowFn())

	var nilClock *Clock
	assert.NotNil(t, nilClock.NowFunc())
}
