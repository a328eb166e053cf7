package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
)

var (
	ErrRegistrationClosed  = errors.New("registration is closed")
	ErrRegistrationExpired = errors.New("registration deadline has passed")
	ErrEventFull           = errors.New("event is full")
	ErrInvalidSubmission   = errors.New("invalid registration form")
	ErrNotificationFailed  = errors.New("failed to send registration notification")
)

const UnknownEventTitle = "Unknown Event"

// At least six digits, made of digits, spaces, dashes, parentheses, '+' and '#'.
var phoneExp = regexp2.MustCompile(`^(?=(?:\D*\d){6,})[0-9+\-\s()#]+$`, regexp2.None)

type RegistrationStore interface {
	Event(id string) (domain.Event, error)
	Events() []domain.Event
	Registrations() []domain.Registration
	Status(e domain.Event) domain.EventStatus
	RegisterUser(ctx context.Context, eventID string, formData map[string]string) (domain.Registration, error)
}

// Notifier runs while a registration is being submitted, before it is
// recorded. A failure aborts the registration.
type Notifier interface {
	Notify(ctx context.Context, event domain.Event, formData map[string]string) error
}

// RegistrationEntry is a registration with the title of its event, or
// UnknownEventTitle when the event is gone.
type RegistrationEntry struct {
	Registration domain.Registration
	EventTitle   string
}

type RegistrationService struct {
	store    RegistrationStore
	notifier Notifier
}

func NewRegistrationService(store RegistrationStore, notifier Notifier) *RegistrationService {
	return &RegistrationService{
		store:    store,
		notifier: notifier,
	}
}

// Register checks the event is open, not expired and not full, validates the
// form, runs the notifier and records the registration. The checks are not
// held across the notifier, so concurrent submissions can overfill an event.
func (s *RegistrationService) Register(ctx context.Context, eventID string, formData map[string]string) (domain.Registration, error) {
	event, err := s.store.Event(eventID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.store.Event -> %w", err)
	}

	status := s.store.Status(event)
	switch {
	case status.IsClosed:
		return domain.Registration{}, ErrRegistrationClosed
	case status.IsExpired:
		return domain.Registration{}, ErrRegistrationExpired
	case status.IsFull:
		return domain.Registration{}, ErrEventFull
	}

	data, err := ValidateSubmission(event.FormFields, formData)
	if err != nil {
		return domain.Registration{}, err
	}

	if err = s.notifier.Notify(ctx, event, data); err != nil {
		return domain.Registration{}, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	reg, err := s.store.RegisterUser(ctx, event.ID, data)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.store.RegisterUser -> %w", err)
	}

	return reg, nil
}

// ValidateSubmission checks the submitted values against the event's fields
// and returns only the declared fields, trimmed. Blank optional values are
// dropped.
func ValidateSubmission(fields []domain.FormField, formData map[string]string) (map[string]string, error) {
	data := make(map[string]string, len(fields))
	errs := validation.Errors{}

	for _, f := range fields {
		v := strings.TrimSpace(formData[f.Name])
		if v == "" {
			if f.Required {
				errs[f.Name] = validation.Required.Validate(v)
			}
			continue
		}

		if err := validateValue(f, v); err != nil {
			errs[f.Name] = err
			continue
		}
		data[f.Name] = v
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSubmission, errs)
	}

	return data, nil
}

func validateValue(f domain.FormField, v string) error {
	switch f.Type {
	case domain.FieldEmail:
		return is.Email.Validate(v)
	case domain.FieldTel:
		ok, err := phoneExp.MatchString(v)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("must be a valid phone number")
		}
	case domain.FieldNumber:
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return errors.New("must be a number")
		}
	case domain.FieldSelect:
		if len(f.Options) > 0 && !slices.Contains(f.Options, v) {
			return validation.In(toAny(f.Options)...).Validate(v)
		}
	}

	return nil
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// ListRegistrations returns registrations newest first, optionally only
// those for eventID.
func (s *RegistrationService) ListRegistrations(eventID string) []RegistrationEntry {
	titles := eventTitles(s.store.Events())
	regs := domain.FilterRegistrations(s.store.Registrations(), eventID)

	entries := make([]RegistrationEntry, 0, len(regs))
	for _, r := range regs {
		title, ok := titles[r.EventID]
		if !ok {
			title = UnknownEventTitle
		}
		entries = append(entries, RegistrationEntry{Registration: r, EventTitle: title})
	}

	slices.SortStableFunc(entries, func(a, b RegistrationEntry) int {
		return compareDesc(a.Registration.Timestamp, b.Registration.Timestamp)
	})

	return entries
}

func eventTitles(events []domain.Event) map[string]string {
	titles := make(map[string]string, len(events))
	for _, e := range events {
		titles[e.ID] = e.Title
	}
	return titles
}

func compareDesc(a, b int64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// DelayNotifier stands in for a confirmation mail: it only waits.
type DelayNotifier struct {
	Delay time.Duration
}

func (n DelayNotifier) Notify(ctx context.Context, _ domain.Event, _ map[string]string) error {
	if n.Delay <= 0 {
		return nil
	}

	timer := time.NewTimer(n.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
