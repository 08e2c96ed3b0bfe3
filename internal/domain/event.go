package domain

import (
	"strings"
	"time"
)

type EventCategory string

const (
	CategoryWedding    EventCategory = "wedding"
	CategoryCorporate  EventCategory = "corporate"
	CategoryBirthday   EventCategory = "birthday"
	CategoryConference EventCategory = "conference"
	CategoryOther      EventCategory = "other"
)

func ParseEventCategory(s string) (EventCategory, bool) {
	switch EventCategory(s) {
	case CategoryWedding, CategoryCorporate, CategoryBirthday, CategoryConference, CategoryOther:
		return EventCategory(s), true
	default:
		return "", false
	}
}

type Event struct {
	ID           int64         `json:"id"`
	OrganizerID  int64         `json:"organizer_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Date         time.Time     `json:"date"`
	Time         string        `json:"time"` // "15:04", local wall time of the event day
	Location     string        `json:"location"`
	Capacity     int           `json:"capacity"`
	Category     EventCategory `json:"category"`
	IsPublic     bool          `json:"is_public"`
	ImageURL     string        `json:"image_url,omitempty"`
	RSVPDeadline time.Time     `json:"rsvp_deadline"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// StartsAt combines the event day with its wall-clock time.
func (e *Event) StartsAt() time.Time {
	t, err := time.Parse("15:04", e.Time)
	if err != nil {
		return e.Date
	}
	y, m, d := e.Date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, e.Date.Location())
}

type CreateEventRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Time         string    `json:"time"`
	Location     string    `json:"location"`
	Capacity     int       `json:"capacity"`
	Category     string    `json:"category"`
	IsPublic     *bool     `json:"is_public"`
	ImageURL     string    `json:"image_url"`
	RSVPDeadline time.Time `json:"rsvp_deadline"`
}

func (r *CreateEventRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	if r.Category == "" {
		r.Category = string(CategoryOther)
	}
}

func (r *CreateEventRequest) Validate() error {
	if r.Title == "" {
		return Invalid("title", "is required")
	}
	if r.Description == "" {
		return Invalid("description", "is required")
	}
	if r.Date.IsZero() {
		return Invalid("date", "is required")
	}
	if _, err := time.Parse("15:04", r.Time); err != nil {
		return Invalid("time", "must be in HH:MM format")
	}
	if r.Location == "" {
		return Invalid("location", "is required")
	}
	if r.Capacity <= 0 {
		return Invalid("capacity", "must be a positive integer")
	}
	if _, ok := ParseEventCategory(r.Category); !ok {
		return Invalid("category", "must be one of wedding, corporate, birthday, conference, other")
	}
	if r.RSVPDeadline.IsZero() {
		return Invalid("rsvp_deadline", "is required")
	}
	return nil
}

// EventPatch carries partial updates; nil fields are left untouched.
type EventPatch struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Date         *time.Time `json:"date"`
	Time         *string    `json:"time"`
	Location     *string    `json:"location"`
	Capacity     *int       `json:"capacity"`
	Category     *string    `json:"category"`
	IsPublic     *bool      `json:"is_public"`
	ImageURL     *string    `json:"image_url"`
	RSVPDeadline *time.Time `json:"rsvp_deadline"`
}

func (p *EventPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return Invalid("title", "cannot be empty")
	}
	if p.Time != nil {
		if _, err := time.Parse("15:04", *p.Time); err != nil {
			return Invalid("time", "must be in HH:MM format")
		}
	}
	if p.Capacity != nil && *p.Capacity <= 0 {
		return Invalid("capacity", "must be a positive integer")
	}
	if p.Category != nil {
		if _, ok := ParseEventCategory(*p.Category); !ok {
			return Invalid("category", "must be one of wedding, corporate, birthday, conference, other")
		}
	}
	return nil
}

func (p *EventPatch) Apply(e *Event) []string {
	var changes []string
	if p.Title != nil && *p.Title != e.Title {
		e.Title = *p.Title
		changes = append(changes, "title")
	}
	if p.Description != nil && *p.Description != e.Description {
		e.Description = *p.Description
		changes = append(changes, "description")
	}
	if p.Date != nil && !p.Date.Equal(e.Date) {
		e.Date = *p.Date
		changes = append(changes, "date")
	}
	if p.Time != nil && *p.Time != e.Time {
		e.Time = *p.Time
		changes = append(changes, "time")
	}
	if p.Location != nil && *p.Location != e.Location {
		e.Location = *p.Location
		changes = append(changes, "location")
	}
	if p.Capacity != nil && *p.Capacity != e.Capacity {
		e.Capacity = *p.Capacity
		changes = append(changes, "capacity")
	}
	if p.Category != nil && EventCategory(*p.Category) != e.Category {
		e.Category = EventCategory(*p.Category)
		changes = append(changes, "category")
	}
	if p.IsPublic != nil && *p.IsPublic != e.IsPublic {
		e.IsPublic = *p.IsPublic
		changes = append(changes, "is_public")
	}
	if p.ImageURL != nil && *p.ImageURL != e.ImageURL {
		e.ImageURL = *p.ImageURL
		changes = append(changes, "image_url")
	}
	if p.RSVPDeadline != nil && !p.RSVPDeadline.Equal(e.RSVPDeadline) {
		e.RSVPDeadline = *p.RSVPDeadline
		changes = append(changes, "rsvp_deadline")
	}
	return changes
}
