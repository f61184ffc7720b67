package application

import (
	"time"

	"github.com/brandportal/growthhub/internal/calendar"
)

// Platform identifies the social network a draft targets.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
)

// Valid reports whether p is a supported platform.
func (p Platform) Valid() bool {
	switch p {
	case PlatformLinkedIn, PlatformTwitter, PlatformFacebook, PlatformInstagram:
		return true
	}
	return false
}

// Draft is a social post waiting for a publication date.
type Draft struct {
	ID       string   `json:"id"`
	Platform Platform `json:"platform"`
	Content  string   `json:"content"`
	MediaIDs []string `json:"mediaIds,omitempty"`
}

// EventType classifies calendar events.
type EventType string

const (
	EventTypePost     EventType = "post"
	EventTypeMeeting  EventType = "meeting"
	EventTypeCall     EventType = "call"
	EventTypeTask     EventType = "task"
	EventTypeDeadline EventType = "deadline"
	EventTypeFollowUp EventType = "follow-up"
)

// EventStatus tracks a calendar event's lifecycle.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// CalendarEvent is an entry in the content calendar. Date is a YYYY-MM-DD key
// in the planner's location.
type CalendarEvent struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Date        string      `json:"date"`
	Type        EventType   `json:"type"`
	Status      EventStatus `json:"status"`
	PostID      string      `json:"postId,omitempty"`
	Platform    Platform    `json:"platform,omitempty"`
	MediaIDs    []string    `json:"mediaIds,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// PlanDraftsParams describes a batch scheduling request. Weekdays use
// time.Weekday numbering, Sunday=0.
type PlanDraftsParams struct {
	Drafts   []Draft
	Weekdays []time.Weekday
}

// PlanResult reports the events created by a planning run and the drafts left
// without a date because the scheduling horizon ran out.
type PlanResult struct {
	Events   []CalendarEvent
	Unplaced []Draft
}

// DayView is one cell of a calendar month view.
type DayView struct {
	Date           string          `json:"date"`
	IsCurrentMonth bool            `json:"isCurrentMonth"`
	IsToday        bool            `json:"isToday"`
	Events         []CalendarEvent `json:"events,omitempty"`
}

// MonthView is a month grid decorated with week numbers and events.
type MonthView struct {
	Year        int                        `json:"year"`
	Month       time.Month                 `json:"month"`
	WeekNumbers [calendar.GridWeeks]int    `json:"weekNumbers"`
	Days        [calendar.GridSize]DayView `json:"days"`
}
