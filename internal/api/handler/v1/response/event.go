package response

import (
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/service"
)

type Availability string

const (
	AvailabilityOpen    Availability = "open"
	AvailabilityClosed  Availability = "closed"
	AvailabilityExpired Availability = "expired"
	AvailabilityFull    Availability = "full"
)

// AvailabilityOf picks the single label a card shows:
// closed, then expired, then full, then open.
func AvailabilityOf(s domain.EventStatus) Availability {
	switch {
	case s.IsClosed:
		return AvailabilityClosed
	case s.IsExpired:
		return AvailabilityExpired
	case s.IsFull:
		return AvailabilityFull
	default:
		return AvailabilityOpen
	}
}

type FormField struct {
	Name     string           `json:"name"`
	Label    string           `json:"label"`
	Type     domain.FieldType `json:"type"`
	Required bool             `json:"required"`
	Options  []string         `json:"options,omitempty"`
}

type Event struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Date            string      `json:"date"`
	Time            string      `json:"time"`
	Location        string      `json:"location"`
	ImageURL        string      `json:"image_url"`
	Description     string      `json:"description"`
	Deadline        string      `json:"deadline"`
	MaxParticipants int         `json:"max_participants"`
	FormFields      []FormField `json:"form_fields"`
	FormFieldsEmpty bool        `json:"form_fields_empty"`
	IsOpen          bool        `json:"is_open"`
}

// EventCard is an event together with what a registrant sees about it.
type EventCard struct {
	Event
	Status       domain.EventStatus `json:"status"`
	Availability Availability       `json:"availability"`
	CanRegister  bool               `json:"can_register"`
}

func NewEvent(e domain.Event) Event {
	fields := make([]FormField, 0, len(e.FormFields))
	for _, f := range e.FormFields {
		fields = append(fields, FormField(f))
	}

	return Event{
		ID:              e.ID,
		Title:           e.Title,
		Date:            e.Date,
		Time:            e.Time,
		Location:        e.Location,
		ImageURL:        e.ImageURL,
		Description:     e.Description,
		Deadline:        e.Deadline,
		MaxParticipants: e.MaxParticipants,
		FormFields:      fields,
		FormFieldsEmpty: len(fields) == 0,
		IsOpen:          e.IsOpen,
	}
}

func NewEvents(events []domain.Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, NewEvent(e))
	}
	return out
}

func NewEventCard(o service.EventOverview) EventCard {
	return EventCard{
		Event:        NewEvent(o.Event),
		Status:       o.Status,
		Availability: AvailabilityOf(o.Status),
		CanRegister:  !o.Status.Blocked(),
	}
}

func NewEventCards(overviews []service.EventOverview) []EventCard {
	out := make([]EventCard, 0, len(overviews))
	for _, o := range overviews {
		out = append(out, NewEventCard(o))
	}
	return out
}

type BulkDelete struct {
	Deleted int      `json:"deleted"`
	IDs     []string `json:"ids"`
}
