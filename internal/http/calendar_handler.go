package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brandportal/growthhub/internal/application"
)

type plannerService interface {
	PlanDrafts(ctx context.Context, params application.PlanDraftsParams) (application.PlanResult, error)
	ListEvents(ctx context.Context) ([]application.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error
	MonthView(ctx context.Context, year int, month time.Month) (application.MonthView, error)
}

type CalendarHandler struct {
	service   plannerService
	responder responder
	logger    *slog.Logger
}

func NewCalendarHandler(service plannerService, logger *slog.Logger) *CalendarHandler {
	base := defaultLogger(logger)
	return &CalendarHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CalendarHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "CalendarHandler", operation, attrs...)
}

// Month renders the month grid named by the path.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidYear)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidMonth)
		return
	}

	view, err := h.service.MonthView(ctx, year, time.Month(month))
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, view)
}

// ListEvents returns every calendar event.
func (h *CalendarHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	events, err := h.service.ListEvents(ctx)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	if events == nil {
		events = []application.CalendarEvent{}
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, eventsResponse{Events: events})
}

// DeleteEvent removes the event named by the path.
func (h *CalendarHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.DeleteEvent(ctx, chi.URLParam(r, "id")); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type planRequest struct {
	Drafts   []application.Draft `json:"drafts"`
	Weekdays []int               `json:"weekdays"`
}

type planResponse struct {
	Events    []application.CalendarEvent `json:"events"`
	Unplaced  []application.Draft         `json:"unplaced"`
	Exhausted bool                        `json:"exhausted"`
}

type eventsResponse struct {
	Events []application.CalendarEvent `json:"events"`
}

// Plan schedules the drafts in the body onto the calendar.
func (h *CalendarHandler) Plan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(ctx, "Plan", "error_kind", "bad_request").WarnContext(ctx, "failed to decode plan request", "error", err)
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	weekdays := make([]time.Weekday, len(req.Weekdays))
	for i, day := range req.Weekdays {
		weekdays[i] = time.Weekday(day)
	}

	result, err := h.service.PlanDrafts(ctx, application.PlanDraftsParams{Drafts: req.Drafts, Weekdays: weekdays})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	resp := planResponse{
		Events:    result.Events,
		Unplaced:  result.Unplaced,
		Exhausted: len(result.Unplaced) > 0,
	}
	if resp.Events == nil {
		resp.Events = []application.CalendarEvent{}
	}
	if resp.Unplaced == nil {
		resp.Unplaced = []application.Draft{}
	}
	h.responder.writeJSON(ctx, w, http.StatusCreated, resp)
}
