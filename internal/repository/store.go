package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/repository/dao"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrDocumentNotFound = dao.ErrDocumentNotFound
)

const (
	EventsKey        = "housing_events_v2"
	RegistrationsKey = "housing_registrations_v2"
)

type DocumentDAO interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte) error
}

// Store holds both collections in memory and writes the whole mutated
// collection through the DAO after every change. A failed write leaves the
// in-memory state as it was before the call.
type Store struct {
	dao DocumentDAO

	mu            sync.RWMutex
	events        []domain.Event
	registrations []domain.Registration
	listeners     []func(domain.Change)

	now   func() time.Time
	newID func() string
}

type StoreOption func(*Store)

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) StoreOption {
	return func(s *Store) {
		s.newID = newID
	}
}

func NewStore(dao DocumentDAO, opts ...StoreOption) *Store {
	s := &Store{
		dao:   dao,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// storedEvent lets Load tell a missing isOpen apart from false.
type storedEvent struct {
	domain.Event
	IsOpen *bool `json:"isOpen"`
}

// Load reads both documents. A missing events document falls back to the
// seed events and events without isOpen are treated as open. Both
// collections are written back so the documents exist afterwards.
func (s *Store) Load(ctx context.Context) error {
	events, err := s.loadEvents(ctx)
	if err != nil {
		return fmt.Errorf("s.loadEvents -> %w", err)
	}

	registrations, err := s.loadRegistrations(ctx)
	if err != nil {
		return fmt.Errorf("s.loadRegistrations -> %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.putEvents(ctx, events); err != nil {
		return err
	}
	if err = s.putRegistrations(ctx, registrations); err != nil {
		return err
	}

	s.events = events
	s.registrations = registrations

	return nil
}

func (s *Store) loadEvents(ctx context.Context) ([]domain.Event, error) {
	body, err := s.dao.Get(ctx, EventsKey)
	if err != nil {
		if errors.Is(err, dao.ErrDocumentNotFound) {
			return SeedEvents(), nil
		}

		return nil, fmt.Errorf("s.dao.Get -> %w", err)
	}

	var stored []storedEvent
	if err = json.Unmarshal(body, &stored); err != nil {
		return nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	events := make([]domain.Event, 0, len(stored))
	for _, se := range stored {
		e := se.Event
		e.IsOpen = se.IsOpen == nil || *se.IsOpen
		events = append(events, e)
	}

	return events, nil
}

func (s *Store) loadRegistrations(ctx context.Context) ([]domain.Registration, error) {
	body, err := s.dao.Get(ctx, RegistrationsKey)
	if err != nil {
		if errors.Is(err, dao.ErrDocumentNotFound) {
			return []domain.Registration{}, nil
		}

		return nil, fmt.Errorf("s.dao.Get -> %w", err)
	}

	var registrations []domain.Registration
	if err = json.Unmarshal(body, &registrations); err != nil {
		return nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}
	if registrations == nil {
		registrations = []domain.Registration{}
	}

	return registrations, nil
}

// OnChange registers fn to be called after each successful mutation.
func (s *Store) OnChange(fn func(domain.Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(changes ...domain.Change) {
	s.mu.RLock()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()

	for _, c := range changes {
		for _, fn := range listeners {
			fn(c)
		}
	}
}

func (s *Store) change(t domain.ChangeType, id string) domain.Change {
	return domain.Change{Type: t, ID: id, At: s.now()}
}

func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) Events() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.events)
}

func (s *Store) Registrations() []domain.Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.registrations)
}

func (s *Store) Event(id string) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Event{}, ErrEventNotFound
	}

	return s.events[i], nil
}

// Status derives the status of e against the current registrations.
func (s *Store) Status(e domain.Event) domain.EventStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.ComputeStatus(e, s.registrations, s.now())
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.events, func(e domain.Event) bool { return e.ID == id })
}

func (s *Store) AddEvent(ctx context.Context, e domain.Event) error {
	return s.AddEventsBatch(ctx, []domain.Event{e})
}

func (s *Store) AddEventsBatch(ctx context.Context, events []domain.Event) error {
	s.mu.Lock()
	next := append(slices.Clone(s.events), events...)
	if err := s.putEvents(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.events = next
	s.mu.Unlock()

	changes := make([]domain.Change, 0, len(events))
	for _, e := range events {
		changes = append(changes, s.change(domain.ChangeEventCreated, e.ID))
	}
	s.notify(changes...)

	return nil
}

// UpdateEvent merges patch into the event with the given id.
func (s *Store) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return domain.Event{}, ErrEventNotFound
	}

	next := slices.Clone(s.events)
	next[i] = next[i].Apply(patch)
	if err := s.putEvents(ctx, next); err != nil {
		s.mu.Unlock()
		return domain.Event{}, err
	}
	s.events = next
	updated := next[i]
	s.mu.Unlock()

	s.notify(s.change(domain.ChangeEventUpdated, id))

	return updated, nil
}

// DeleteEvent removes one event. Its registrations are kept.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	n, err := s.DeleteEventsBatch(ctx, []string{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}

	return nil
}

// DeleteEventsBatch removes every event whose id is in ids and returns how
// many were removed. Unknown ids are ignored.
func (s *Store) DeleteEventsBatch(ctx context.Context, ids []string) (int, error) {
	s.mu.Lock()
	var removed []string
	next := make([]domain.Event, 0, len(s.events))
	for _, e := range s.events {
		if slices.Contains(ids, e.ID) {
			removed = append(removed, e.ID)
			continue
		}
		next = append(next, e)
	}
	if len(removed) == 0 {
		s.mu.Unlock()
		return 0, nil
	}

	if err := s.putEvents(ctx, next); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	s.events = next
	s.mu.Unlock()

	changes := make([]domain.Change, 0, len(removed))
	for _, id := range removed {
		changes = append(changes, s.change(domain.ChangeEventDeleted, id))
	}
	s.notify(changes...)

	return len(removed), nil
}

// RegisterUser records a registration for eventID, newest first. It does not
// check capacity or that the event exists.
func (s *Store) RegisterUser(ctx context.Context, eventID string, formData map[string]string) (domain.Registration, error) {
	reg := domain.Registration{
		ID:        s.newID(),
		EventID:   eventID,
		FormData:  formData,
		Timestamp: s.now().UnixMilli(),
	}

	s.mu.Lock()
	next := make([]domain.Registration, 0, len(s.registrations)+1)
	next = append(next, reg)
	next = append(next, s.registrations...)
	if err := s.putRegistrations(ctx, next); err != nil {
		s.mu.Unlock()
		return domain.Registration{}, err
	}
	s.registrations = next
	s.mu.Unlock()

	s.notify(s.change(domain.ChangeRegistrationCreated, reg.ID))

	return reg, nil
}

func (s *Store) NewID() string {
	return s.newID()
}

func (s *Store) putEvents(ctx context.Context, events []domain.Event) error {
	if events == nil {
		events = []domain.Event{}
	}

	return s.put(ctx, EventsKey, events)
}

func (s *Store) putRegistrations(ctx context.Context, registrations []domain.Registration) error {
	if registrations == nil {
		registrations = []domain.Registration{}
	}

	return s.put(ctx, RegistrationsKey, registrations)
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if err = s.dao.Put(ctx, key, body); err != nil {
		return fmt.Errorf("s.dao.Put -> %w", err)
	}

	return nil
}
