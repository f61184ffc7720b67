package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/brandportal/growthhub/internal/calendar"
	"github.com/brandportal/growthhub/internal/metrics"
)

// EventsStateKey is the state key under which calendar events are persisted.
const EventsStateKey = "calendar_events"

const maxTitleLength = 60

// StateStore is the subset of the asset store the planner depends on.
type StateStore interface {
	SaveState(ctx context.Context, key string, data any) error
	LoadState(ctx context.Context, key string) (json.RawMessage, bool)
}

// PlannerConfig tunes date handling for the planner.
type PlannerConfig struct {
	// Location defines calendar days. Defaults to time.Local.
	Location *time.Location
	// Horizon caps how many days a planning run inspects. Defaults to calendar.DefaultHorizon.
	Horizon int
}

// PlannerService places drafts on the content calendar and serves calendar views.
type PlannerService struct {
	// mu serializes read-modify-write cycles over the stored event list.
	mu sync.Mutex

	store       StateStore
	idGenerator func() string
	now         func() time.Time
	location    *time.Location
	horizon     int
	logger      *slog.Logger
}

// NewPlannerService constructs a planner backed by the given state store.
func NewPlannerService(store StateStore, idGenerator func() string, now func() time.Time, cfg PlannerConfig) *PlannerService {
	return NewPlannerServiceWithLogger(store, idGenerator, now, cfg, nil)
}

// NewPlannerServiceWithLogger constructs a planner that emits structured logs using the provided logger.
func NewPlannerServiceWithLogger(store StateStore, idGenerator func() string, now func() time.Time, cfg PlannerConfig, logger *slog.Logger) *PlannerService {
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = calendar.DefaultHorizon
	}
	return &PlannerService{
		store:       store,
		idGenerator: idGenerator,
		now:         now,
		location:    cfg.Location,
		horizon:     cfg.Horizon,
		logger:      defaultLogger(logger),
	}
}

func (s *PlannerService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PlannerService", operation, attrs...)
}

// PlanDrafts assigns each draft, in order, to the next free allowed weekday
// starting tomorrow and records a scheduled post event for it. Days that
// already carry an active event are skipped. Drafts that do not fit within
// the horizon are returned as unplaced.
func (s *PlannerService) PlanDrafts(ctx context.Context, params PlanDraftsParams) (result PlanResult, err error) {
	logger := s.loggerWith(ctx, "PlanDrafts", "draft_count", len(params.Drafts), "weekday_count", len(params.Weekdays))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to plan drafts", "error", err, "error_kind", ErrorKind(err))
			return
		}
		if len(result.Unplaced) > 0 {
			logger.WarnContext(ctx, "scheduling horizon exhausted", "placed", len(result.Events), "unplaced", len(result.Unplaced), "horizon_days", s.horizon)
			return
		}
		logger.InfoContext(ctx, "drafts planned", "placed", len(result.Events))
	}()

	if vErr := validatePlanParams(params); vErr.HasErrors() {
		err = vErr
		return PlanResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.loadEvents(ctx, logger)
	occupied := calendar.NewDateSet()
	for _, event := range events {
		if event.Status != EventStatusCancelled {
			occupied.Add(event.Date)
		}
	}

	schedule := calendar.GenerateSchedule(params.Drafts, params.Weekdays, occupied,
		calendar.WithClock(s.now),
		calendar.WithLocation(s.location),
		calendar.WithHorizon(s.horizon),
	)

	createdAt := s.now().UTC()
	placed := make([]CalendarEvent, 0, schedule.Len())
	for _, key := range schedule.Dates {
		draft := schedule.Assignments[key]
		placed = append(placed, CalendarEvent{
			ID:          s.idGenerator(),
			Title:       draftTitle(draft),
			Description: draft.Content,
			Date:        key,
			Type:        EventTypePost,
			Status:      EventStatusScheduled,
			PostID:      draft.ID,
			Platform:    draft.Platform,
			MediaIDs:    append([]string(nil), draft.MediaIDs...),
			CreatedAt:   createdAt,
		})
	}

	if len(placed) > 0 {
		if err = s.saveEvents(ctx, append(events, placed...)); err != nil {
			return PlanResult{}, err
		}
	}

	result.Events = placed
	if schedule.Exhausted {
		// Items are assigned in input order, so the tail is what did not fit.
		result.Unplaced = append([]Draft(nil), params.Drafts[schedule.Len():]...)
		metrics.RecordUnplaced(len(result.Unplaced))
	}
	return result, nil
}

// ListEvents returns every calendar event ordered by date.
func (s *PlannerService) ListEvents(ctx context.Context) ([]CalendarEvent, error) {
	logger := s.loggerWith(ctx, "ListEvents")
	events := s.loadEvents(ctx, logger)
	logger.DebugContext(ctx, "events listed", "count", len(events))
	return events, nil
}

// DeleteEvent removes the event with the given identifier.
func (s *PlannerService) DeleteEvent(ctx context.Context, id string) (err error) {
	logger := s.loggerWith(ctx, "DeleteEvent", "event_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event deleted")
	}()

	id = strings.TrimSpace(id)
	if id == "" {
		vErr := &ValidationError{}
		vErr.add("id", "event id is required")
		err = vErr
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.loadEvents(ctx, logger)
	kept := events[:0]
	found := false
	for _, event := range events {
		if event.ID == id {
			found = true
			continue
		}
		kept = append(kept, event)
	}
	if !found {
		err = ErrNotFound
		return err
	}
	return s.saveEvents(ctx, kept)
}

// MonthView renders the 42-day grid for the month with week numbers and the
// events of each visible day.
func (s *PlannerService) MonthView(ctx context.Context, year int, month time.Month) (view MonthView, err error) {
	logger := s.loggerWith(ctx, "MonthView", "year", year, "month", int(month))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to render month", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if month < time.January || month > time.December {
		vErr := &ValidationError{}
		vErr.add("month", "month must be between 1 and 12")
		err = vErr
		return MonthView{}, err
	}

	byDate := make(map[string][]CalendarEvent)
	for _, event := range s.loadEvents(ctx, logger) {
		byDate[event.Date] = append(byDate[event.Date], event)
	}

	grid := calendar.DaysInMonth(year, month, s.location)
	today := calendar.FormatDateKey(s.now().In(s.location))

	view.Year = year
	view.Month = month
	view.WeekNumbers = grid.WeekNumbers()
	for i, day := range grid {
		key := calendar.FormatDateKey(day.Date)
		view.Days[i] = DayView{
			Date:           key,
			IsCurrentMonth: day.IsCurrentMonth,
			IsToday:        key == today,
			Events:         byDate[key],
		}
	}
	return view, nil
}

// loadEvents treats missing or malformed state as an empty calendar.
func (s *PlannerService) loadEvents(ctx context.Context, logger *slog.Logger) []CalendarEvent {
	raw, ok := s.store.LoadState(ctx, EventsStateKey)
	if !ok {
		return nil
	}
	var events []CalendarEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		logger.WarnContext(ctx, "ignoring malformed calendar state", "error", err)
		return nil
	}
	sortEvents(events)
	return events
}

func (s *PlannerService) saveEvents(ctx context.Context, events []CalendarEvent) error {
	sortEvents(events)
	if events == nil {
		events = []CalendarEvent{}
	}
	if err := s.store.SaveState(ctx, EventsStateKey, events); err != nil {
		return fmt.Errorf("save calendar events: %w", err)
	}
	return nil
}

func sortEvents(events []CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
}

func validatePlanParams(params PlanDraftsParams) *ValidationError {
	vErr := &ValidationError{}
	if len(params.Drafts) == 0 {
		vErr.add("drafts", "at least one draft is required")
	}
	for i, draft := range params.Drafts {
		if strings.TrimSpace(draft.Content) == "" {
			vErr.add(fmt.Sprintf("drafts[%d].content", i), "content is required")
		}
		if draft.Platform != "" && !draft.Platform.Valid() {
			vErr.add(fmt.Sprintf("drafts[%d].platform", i), "unsupported platform")
		}
	}
	if len(params.Weekdays) == 0 {
		vErr.add("weekdays", "at least one weekday is required")
	}
	for _, day := range params.Weekdays {
		if day < time.Sunday || day > time.Saturday {
			vErr.add("weekdays", "weekdays must be between 0 (Sunday) and 6 (Saturday)")
			break
		}
	}
	return vErr
}

// draftTitle uses the first line of the content, shortened for the calendar cell.
func draftTitle(draft Draft) string {
	line := strings.TrimSpace(draft.Content)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	if utf8.RuneCountInString(line) > maxTitleLength {
		runes := []rune(line)
		line = string(runes[:maxTitleLength-1]) + "…"
	}
	return line
}
