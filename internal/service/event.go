package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/repository"
)

var (
	ErrEventNotFound         = repository.ErrEventNotFound
	ErrFieldIndexOutOfRange  = domain.ErrFieldIndexOutOfRange
	ErrInvalidEvent          = errors.New("invalid event")
	ErrInvalidEventFilter    = errors.New("filter must be one of all, upcoming, past")
	ErrNegativeParticipants  = errors.New("max participants must not be negative")
	ErrMissingRequiredFields = errors.New("title and date are required")
)

type EventFilter string

const (
	FilterAll      EventFilter = "all"
	FilterUpcoming EventFilter = "upcoming"
	FilterPast     EventFilter = "past"
)

func ParseEventFilter(s string) (EventFilter, error) {
	switch f := EventFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterUpcoming, FilterPast:
		return f, nil
	default:
		return "", ErrInvalidEventFilter
	}
}

type EventStore interface {
	Now() time.Time
	NewID() string
	Events() []domain.Event
	Event(id string) (domain.Event, error)
	Status(e domain.Event) domain.EventStatus
	AddEvent(ctx context.Context, e domain.Event) error
	UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	DeleteEventsBatch(ctx context.Context, ids []string) (int, error)
}

// EventOverview pairs an event with its derived status.
type EventOverview struct {
	Event  domain.Event
	Status domain.EventStatus
}

type EventService struct {
	store EventStore
}

func NewEventService(store EventStore) *EventService {
	return &EventService{
		store: store,
	}
}

func (s *EventService) overview(e domain.Event) EventOverview {
	return EventOverview{Event: e, Status: s.store.Status(e)}
}

// ListEvents returns events matching filter. Upcoming and past are decided by
// the event date against today; events with an unreadable date only show
// under FilterAll.
func (s *EventService) ListEvents(filter EventFilter) ([]EventOverview, error) {
	now := s.store.Now()

	var match func(domain.Event) bool
	switch filter {
	case FilterAll, "":
		match = func(domain.Event) bool { return true }
	case FilterUpcoming:
		match = func(e domain.Event) bool { return domain.IsTodayOrLater(e.Date, now) }
	case FilterPast:
		match = func(e domain.Event) bool { return domain.IsPastDay(e.Date, now) }
	default:
		return nil, ErrInvalidEventFilter
	}

	overviews := []EventOverview{}
	for _, e := range s.store.Events() {
		if match(e) {
			overviews = append(overviews, s.overview(e))
		}
	}

	return overviews, nil
}

func (s *EventService) GetEvent(id string) (EventOverview, error) {
	e, err := s.store.Event(id)
	if err != nil {
		return EventOverview{}, fmt.Errorf("s.store.Event -> %w", err)
	}

	return s.overview(e), nil
}

// CreateEvent fills in defaults, assigns a new id and opens the event.
// A nil FormFields gets the default fields; an empty non-nil list is kept.
func (s *EventService) CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" || strings.TrimSpace(e.Date) == "" {
		return domain.Event{}, ErrMissingRequiredFields
	}
	if e.MaxParticipants < 0 {
		return domain.Event{}, ErrNegativeParticipants
	}
	if e.ImageURL == "" {
		e.ImageURL = domain.DefaultImageURL
	}
	if e.Deadline == "" {
		e.Deadline = e.Date
	}
	if e.FormFields == nil {
		e.FormFields = domain.DefaultFormFields()
	}
	if err := domain.ValidateFormFields(e.FormFields); err != nil {
		return domain.Event{}, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	e.ID = s.store.NewID()
	e.IsOpen = true

	if err := s.store.AddEvent(ctx, e); err != nil {
		return domain.Event{}, fmt.Errorf("s.store.AddEvent -> %w", err)
	}

	return e, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error) {
	if patch.MaxParticipants != nil && *patch.MaxParticipants < 0 {
		return domain.Event{}, ErrNegativeParticipants
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return domain.Event{}, ErrMissingRequiredFields
	}
	if patch.Date != nil && strings.TrimSpace(*patch.Date) == "" {
		return domain.Event{}, ErrMissingRequiredFields
	}
	if patch.FormFields != nil {
		if err := domain.ValidateFormFields(*patch.FormFields); err != nil {
			return domain.Event{}, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
		}
	}

	updated, err := s.store.UpdateEvent(ctx, id, patch)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.store.UpdateEvent -> %w", err)
	}

	return updated, nil
}

// ToggleEvent flips the manual open/closed flag.
func (s *EventService) ToggleEvent(ctx context.Context, id string) (domain.Event, error) {
	e, err := s.store.Event(id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.store.Event -> %w", err)
	}

	isOpen := !e.IsOpen
	return s.UpdateEvent(ctx, id, domain.EventPatch{IsOpen: &isOpen})
}

// DeleteEvent removes the event. Registrations pointing at it stay.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("s.store.DeleteEvent -> %w", err)
	}

	return nil
}

// PastEvents returns events whose date is before today.
func (s *EventService) PastEvents() []domain.Event {
	now := s.store.Now()

	past := []domain.Event{}
	for _, e := range s.store.Events() {
		if domain.IsPastDay(e.Date, now) {
			past = append(past, e)
		}
	}

	return past
}

// DeletePastEvents removes every past event and returns the removed ids.
func (s *EventService) DeletePastEvents(ctx context.Context) ([]string, error) {
	past := s.PastEvents()
	ids := make([]string, 0, len(past))
	for _, e := range past {
		ids = append(ids, e.ID)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	if _, err := s.store.DeleteEventsBatch(ctx, ids); err != nil {
		return nil, fmt.Errorf("s.store.DeleteEventsBatch -> %w", err)
	}

	return ids, nil
}

func (s *EventService) AddFormField(ctx context.Context, id string) (domain.Event, error) {
	e, err := s.store.Event(id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.store.Event -> %w", err)
	}

	fields := domain.AddFormField(e.FormFields, domain.NewFormField(s.store.Now()))
	return s.saveFormFields(ctx, id, fields)
}

func (s *EventService) UpdateFormField(ctx context.Context, id string, index int, patch domain.FormFieldPatch) (domain.Event, error) {
	e, err := s.store.Event(id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.store.Event -> %w", err)
	}

	fields, err := domain.UpdateFormField(e.FormFields, index, patch)
	if err != nil {
		return domain.Event{}, err
	}
	if err = domain.ValidateFormField(fields, index); err != nil {
		return domain.Event{}, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	return s.saveFormFields(ctx, id, fields)
}

func (s *EventService) RemoveFormField(ctx context.Context, id string, index int) (domain.Event, error) {
	e, err := s.store.Event(id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.store.Event -> %w", err)
	}

	fields, err := domain.RemoveFormField(e.FormFields, index)
	if err != nil {
		return domain.Event{}, err
	}

	return s.saveFormFields(ctx, id, fields)
}

// saveFormFields skips full-list validation so fields stored before the
// name rules existed do not block edits to other fields.
func (s *EventService) saveFormFields(ctx context.Context, id string, fields []domain.FormField) (domain.Event, error) {
	updated, err := s.store.UpdateEvent(ctx, id, domain.EventPatch{FormFields: &fields})
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.store.UpdateEvent -> %w", err)
	}

	return updated, nil
}
