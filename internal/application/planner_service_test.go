package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stateStoreStub struct {
	mu      sync.Mutex
	values  map[string]string
	saveErr error
	saves   int
}

func newStateStoreStub() *stateStoreStub {
	return &stateStoreStub{values: make(map[string]string)}
}

func (s *stateStoreStub) SaveState(ctx context.Context, key string, data any) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = string(raw)
	s.saves++
	return nil
}

func (s *stateStoreStub) LoadState(ctx context.Context, key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.values[key]
	if !ok {
		return nil, false
	}
	return json.RawMessage(raw), true
}

// overlappingStore holds each LoadState for wait after reading, so
// unsynchronized read-modify-write cycles would interleave.
type overlappingStore struct {
	*stateStoreStub
	wait time.Duration
}

func newOverlappingStore(wait time.Duration) *overlappingStore {
	return &overlappingStore{stateStoreStub: newStateStoreStub(), wait: wait}
}

func (s *overlappingStore) LoadState(ctx context.Context, key string) (json.RawMessage, bool) {
	raw, ok := s.stateStoreStub.LoadState(ctx, key)
	time.Sleep(s.wait)
	return raw, ok
}

func fixedNow() time.Time {
	// Thursday.
	return time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("event-%d", n)
	}
}

func newTestPlanner(store StateStore) *PlannerService {
	return NewPlannerService(store, sequentialIDs(), fixedNow, PlannerConfig{Location: time.UTC})
}

func drafts(n int) []Draft {
	out := make([]Draft, n)
	for i := range out {
		out[i] = Draft{ID: fmt.Sprintf("draft-%d", i+1), Platform: PlatformLinkedIn, Content: fmt.Sprintf("Post %d\nbody", i+1)}
	}
	return out
}

func eventDates(events []CalendarEvent) []string {
	out := make([]string, len(events))
	for i, event := range events {
		out[i] = event.Date
	}
	return out
}

func TestPlannerService_PlanDrafts(t *testing.T) {
	t.Parallel()

	t.Run("places drafts on allowed weekdays starting tomorrow", func(t *testing.T) {
		t.Parallel()
		store := newStateStoreStub()
		svc := newTestPlanner(store)

		result, err := svc.PlanDrafts(context.Background(), PlanDraftsParams{
			Drafts:   drafts(3),
			Weekdays: []time.Weekday{time.Monday, time.Wednesday},
		})
		require.NoError(t, err)
		assert.Empty(t, result.Unplaced)
		assert.Equal(t, []string{"2026-10-19", "2026-10-21", "2026-10-26"}, eventDates(result.Events))

		first := result.Events[0]
		assert.Equal(t, "event-1", first.ID)
		assert.Equal(t, "Post 1", first.Title)
		assert.Equal(t, "draft-1", first.PostID)
		assert.Equal(t, EventTypePost, first.Type)
		assert.Equal(t, EventStatusScheduled, first.Status)
		assert.Equal(t, PlatformLinkedIn, first.Platform)
		assert.Equal(t, fixedNow(), first.CreatedAt)

		listed, err := svc.ListEvents(context.Background())
		require.NoError(t, err)
		assert.Len(t, listed, 3)
	})

	t.Run("skips days that already carry events", func(t *testing.T) {
		t.Parallel()
		store := newStateStoreStub()
		svc := newTestPlanner(store)
		ctx := context.Background()

		_, err := svc.PlanDrafts(ctx, PlanDraftsParams{Drafts: drafts(2), Weekdays: []time.Weekday{time.Monday}})
		require.NoError(t, err)

		result, err := svc.PlanDrafts(ctx, PlanDraftsParams{Drafts: drafts(1), Weekdays: []time.Weekday{time.Monday}})
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-11-02"}, eventDates(result.Events))

		listed, err := svc.ListEvents(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-10-19", "2026-10-26", "2026-11-02"}, eventDates(listed))
	})

	t.Run("cancelled events free their day", func(t *testing.T) {
		t.Parallel()
		store := newStateStoreStub()
		require.NoError(t, store.SaveState(context.Background(), EventsStateKey, []CalendarEvent{
			{ID: "old", Date: "2026-10-19", Status: EventStatusCancelled, Type: EventTypePost},
			{ID: "busy", Date: "2026-10-21", Status: EventStatusScheduled, Type: EventTypeMeeting},
		}))
		svc := newTestPlanner(store)

		result, err := svc.PlanDrafts(context.Background(), PlanDraftsParams{
			Drafts:   drafts(2),
			Weekdays: []time.Weekday{time.Monday, time.Wednesday},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-10-19", "2026-10-26"}, eventDates(result.Events))
	})

	t.Run("reports drafts that do not fit the horizon", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		svc := NewPlannerServiceWithLogger(newStateStoreStub(), sequentialIDs(), fixedNow, PlannerConfig{Location: time.UTC, Horizon: 14}, logger)

		input := drafts(4)
		result, err := svc.PlanDrafts(context.Background(), PlanDraftsParams{Drafts: input, Weekdays: []time.Weekday{time.Sunday}})
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-10-18", "2026-10-25"}, eventDates(result.Events))
		assert.Equal(t, input[2:], result.Unplaced)
		assert.Contains(t, buf.String(), "scheduling horizon exhausted")
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		t.Parallel()
		store := newStateStoreStub()
		svc := newTestPlanner(store)

		_, err := svc.PlanDrafts(context.Background(), PlanDraftsParams{
			Drafts:   []Draft{{ID: "a", Content: "  ", Platform: "myspace"}},
			Weekdays: []time.Weekday{time.Weekday(7)},
		})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.FieldErrors, "drafts[0].content")
		assert.Contains(t, vErr.FieldErrors, "drafts[0].platform")
		assert.Contains(t, vErr.FieldErrors, "weekdays")
		assert.Zero(t, store.saves)
	})

	t.Run("surfaces store failures", func(t *testing.T) {
		t.Parallel()
		store := newStateStoreStub()
		store.saveErr = errors.New("encode failed")
		svc := newTestPlanner(store)

		_, err := svc.PlanDrafts(context.Background(), PlanDraftsParams{Drafts: drafts(1), Weekdays: []time.Weekday{time.Friday}})
		require.Error(t, err)
		assert.ErrorIs(t, err, store.saveErr)
	})
}

func TestPlannerService_DeleteEvent(t *testing.T) {
	t.Parallel()

	store := newStateStoreStub()
	svc := newTestPlanner(store)
	ctx := context.Background()

	result, err := svc.PlanDrafts(ctx, PlanDraftsParams{Drafts: drafts(2), Weekdays: []time.Weekday{time.Tuesday}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEvent(ctx, result.Events[0].ID))
	assert.ErrorIs(t, svc.DeleteEvent(ctx, result.Events[0].ID), ErrNotFound)

	var vErr *ValidationError
	assert.ErrorAs(t, svc.DeleteEvent(ctx, " "), &vErr)

	listed, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, result.Events[1].ID, listed[0].ID)
}

func TestPlannerService_MonthView(t *testing.T) {
	t.Parallel()

	store := newStateStoreStub()
	svc := newTestPlanner(store)
	ctx := context.Background()

	_, err := svc.PlanDrafts(ctx, PlanDraftsParams{Drafts: drafts(1), Weekdays: []time.Weekday{time.Friday}})
	require.NoError(t, err)

	view, err := svc.MonthView(ctx, 2026, time.October)
	require.NoError(t, err)

	// October 2026 starts on a Thursday, so the grid opens on Monday 28 September.
	assert.Equal(t, "2026-09-28", view.Days[0].Date)
	assert.False(t, view.Days[0].IsCurrentMonth)
	assert.Equal(t, "2026-11-08", view.Days[41].Date)
	assert.Equal(t, [6]int{40, 41, 42, 43, 44, 45}, view.WeekNumbers)

	var today, friday DayView
	for _, day := range view.Days {
		switch day.Date {
		case "2026-10-15":
			today = day
		case "2026-10-16":
			friday = day
		}
	}
	assert.True(t, today.IsToday)
	assert.True(t, today.IsCurrentMonth)
	require.Len(t, friday.Events, 1)
	assert.Equal(t, "Post 1", friday.Events[0].Title)

	_, err = svc.MonthView(ctx, 2026, time.Month(13))
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestPlannerService_IgnoresMalformedState(t *testing.T) {
	t.Parallel()

	store := newStateStoreStub()
	store.values[EventsStateKey] = `{"not":"a list"}`
	svc := newTestPlanner(store)

	listed, err := svc.ListEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestDraftTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Launch day", draftTitle(Draft{Content: "  Launch day  \nmore"}))

	long := strings.Repeat("a", 80)
	title := draftTitle(Draft{Content: long})
	assert.Equal(t, maxTitleLength, len([]rune(title)))
	assert.True(t, strings.HasSuffix(title, "…"))
}

func TestPlannerService_OverlappingCallsDoNotShareDates(t *testing.T) {
	t.Parallel()

	store := newOverlappingStore(50 * time.Millisecond)
	svc := newTestPlanner(store)
	params := PlanDraftsParams{Drafts: drafts(1), Weekdays: []time.Weekday{time.Monday}}

	var wg sync.WaitGroup
	results := make([]PlanResult, 2)
	errs := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.PlanDrafts(context.Background(), params)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.Len(t, results[0].Events, 1)
	require.Len(t, results[1].Events, 1)
	assert.ElementsMatch(t,
		[]string{"2026-10-19", "2026-10-26"},
		[]string{results[0].Events[0].Date, results[1].Events[0].Date},
	)

	persisted, err := svc.ListEvents(context.Background())
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestPlannerService_DeleteDuringPlanKeepsNewEvents(t *testing.T) {
	t.Parallel()

	store := newOverlappingStore(50 * time.Millisecond)
	svc := newTestPlanner(store)
	ctx := context.Background()

	seeded, err := svc.PlanDrafts(ctx, PlanDraftsParams{Drafts: drafts(1), Weekdays: []time.Weekday{time.Friday}})
	require.NoError(t, err)
	require.Len(t, seeded.Events, 1)

	var wg sync.WaitGroup
	var planErr, deleteErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, planErr = svc.PlanDrafts(ctx, PlanDraftsParams{Drafts: drafts(1), Weekdays: []time.Weekday{time.Monday}})
	}()
	go func() {
		defer wg.Done()
		deleteErr = svc.DeleteEvent(ctx, seeded.Events[0].ID)
	}()
	wg.Wait()

	require.NoError(t, planErr)
	require.NoError(t, deleteErr)
	persisted, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10-19"}, eventDates(persisted))
}
