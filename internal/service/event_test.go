package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
)

func eventIDs(overviews []EventOverview) []string {
	ids := make([]string, 0, len(overviews))
	for _, o := range overviews {
		ids = append(ids, o.Event.ID)
	}
	return ids
}

func TestListEventsFilters(t *testing.T) {
	store := newTestStore(t,
		testEvent("past", "2023-09-19"),
		testEvent("today", "2023-09-20"),
		testEvent("future", "2023-10-01"),
		testEvent("tbd", "someday"),
	)
	svc := NewEventService(store)

	tests := []struct {
		filter EventFilter
		want   []string
	}{
		{filter: FilterAll, want: []string{"past", "today", "future", "tbd"}},
		{filter: FilterUpcoming, want: []string{"today", "future"}},
		{filter: FilterPast, want: []string{"past"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got, err := svc.ListEvents(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, eventIDs(got))
		})
	}

	_, err := svc.ListEvents("later")
	assert.ErrorIs(t, err, ErrInvalidEventFilter)
}

func TestParseEventFilter(t *testing.T) {
	f, err := ParseEventFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseEventFilter(" Past ")
	require.NoError(t, err)
	assert.Equal(t, FilterPast, f)

	_, err = ParseEventFilter("tomorrow")
	assert.ErrorIs(t, err, ErrInvalidEventFilter)
}

func TestDeletePastEventsRemovesExactlyThePastOnes(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t,
		testEvent("a", "2023-09-01"),
		testEvent("b", "2023-09-20"),
		testEvent("c", "2023-09-19"),
		testEvent("d", "2024-01-01"),
	)
	svc := NewEventService(store)

	_, err := store.RegisterUser(ctx, "a", map[string]string{"name": "x"})
	require.NoError(t, err)

	ids, err := svc.DeletePastEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids)

	all, err := svc.ListEvents(FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d"}, eventIDs(all))
	assert.Len(t, store.Registrations(), 1, "registrations are kept")

	ids, err = svc.DeletePastEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCreateEventDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewEventService(newTestStore(t))

	e, err := svc.CreateEvent(ctx, domain.Event{
		Title:           "  社區大掃除 ",
		Date:            "2023-10-15",
		MaxParticipants: domain.DefaultMaxParticipants,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "社區大掃除", e.Title)
	assert.Equal(t, "2023-10-15", e.Deadline)
	assert.Equal(t, domain.DefaultImageURL, e.ImageURL)
	assert.Equal(t, domain.DefaultFormFields(), e.FormFields)
	assert.True(t, e.IsOpen)

	got, err := svc.GetEvent(e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got.Event)
	assert.Equal(t, 50, got.Status.RemainingSpots)
}

func TestCreateEventKeepsEmptyFormFields(t *testing.T) {
	svc := NewEventService(newTestStore(t))

	e, err := svc.CreateEvent(context.Background(), domain.Event{
		Title:      "open house",
		Date:       "2023-10-15",
		FormFields: []domain.FormField{},
	})
	require.NoError(t, err)
	assert.NotNil(t, e.FormFields)
	assert.Empty(t, e.FormFields)
}

func TestCreateEventRejects(t *testing.T) {
	svc := NewEventService(newTestStore(t))
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, domain.Event{Date: "2023-10-15"})
	assert.ErrorIs(t, err, ErrMissingRequiredFields)

	_, err = svc.CreateEvent(ctx, domain.Event{Title: "x"})
	assert.ErrorIs(t, err, ErrMissingRequiredFields)

	_, err = svc.CreateEvent(ctx, domain.Event{Title: "x", Date: "2023-10-15", MaxParticipants: -1})
	assert.ErrorIs(t, err, ErrNegativeParticipants)

	_, err = svc.CreateEvent(ctx, domain.Event{
		Title: "x", Date: "2023-10-15",
		FormFields: []domain.FormField{{Name: "1bad", Label: "bad", Type: domain.FieldText}},
	})
	assert.ErrorIs(t, err, ErrInvalidEvent)
	assert.ErrorIs(t, err, domain.ErrInvalidFieldName)
}

func TestToggleEvent(t *testing.T) {
	ctx := context.Background()
	svc := NewEventService(newTestStore(t, testEvent("a", "2023-10-01")))

	e, err := svc.ToggleEvent(ctx, "a")
	require.NoError(t, err)
	assert.False(t, e.IsOpen)

	o, err := svc.GetEvent("a")
	require.NoError(t, err)
	assert.True(t, o.Status.IsClosed)

	e, err = svc.ToggleEvent(ctx, "a")
	require.NoError(t, err)
	assert.True(t, e.IsOpen)

	_, err = svc.ToggleEvent(ctx, "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()
	svc := NewEventService(newTestStore(t, testEvent("a", "2023-10-01")))

	location := "B棟 頂樓花園"
	e, err := svc.UpdateEvent(ctx, "a", domain.EventPatch{Location: &location})
	require.NoError(t, err)
	assert.Equal(t, location, e.Location)
	assert.Equal(t, "event a", e.Title)

	negative := -5
	_, err = svc.UpdateEvent(ctx, "a", domain.EventPatch{MaxParticipants: &negative})
	assert.ErrorIs(t, err, ErrNegativeParticipants)

	blank := " "
	_, err = svc.UpdateEvent(ctx, "a", domain.EventPatch{Title: &blank})
	assert.ErrorIs(t, err, ErrMissingRequiredFields)

	_, err = svc.UpdateEvent(ctx, "missing", domain.EventPatch{Location: &location})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestDeleteEvent(t *testing.T) {
	ctx := context.Background()
	svc := NewEventService(newTestStore(t, testEvent("a", "2023-10-01")))

	require.NoError(t, svc.DeleteEvent(ctx, "a"))
	assert.ErrorIs(t, svc.DeleteEvent(ctx, "a"), ErrEventNotFound)
}

func TestFormFieldBuilder(t *testing.T) {
	ctx := context.Background()
	svc := NewEventService(newTestStore(t, testEvent("a", "2023-10-01")))

	e, err := svc.AddFormField(ctx, "a")
	require.NoError(t, err)
	require.Len(t, e.FormFields, 4)
	assert.Equal(t, "field_1695204000000", e.FormFields[3].Name)

	name, typ := "meal", domain.FieldSelect
	opts := []string{"葷", "素"}
	e, err = svc.UpdateFormField(ctx, "a", 3, domain.FormFieldPatch{Name: &name, Type: &typ, Options: &opts})
	require.NoError(t, err)
	assert.Equal(t, domain.FormField{Name: "meal", Label: domain.NewFieldLabel, Type: domain.FieldSelect, Options: opts}, e.FormFields[3])

	taken := "email"
	_, err = svc.UpdateFormField(ctx, "a", 3, domain.FormFieldPatch{Name: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicateFieldName)

	_, err = svc.UpdateFormField(ctx, "a", 9, domain.FormFieldPatch{Name: &name})
	assert.ErrorIs(t, err, ErrFieldIndexOutOfRange)

	e, err = svc.RemoveFormField(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, e.FormFields, 3)
	assert.Equal(t, "phone", e.FormFields[0].Name)

	_, err = svc.RemoveFormField(ctx, "missing", 0)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestAddFormFieldTwiceInOneMillisecond(t *testing.T) {
	ctx := context.Background()
	svc := NewEventService(newTestStore(t, testEvent("a", "2023-10-01")))

	_, err := svc.AddFormField(ctx, "a")
	require.NoError(t, err)
	e, err := svc.AddFormField(ctx, "a")
	require.NoError(t, err)

	require.Len(t, e.FormFields, 5)
	assert.Equal(t, "field_1695204000000", e.FormFields[3].Name)
	assert.Equal(t, "field_1695204000000_2", e.FormFields[4].Name)

	fields := e.FormFields
	_, err = svc.UpdateEvent(ctx, "a", domain.EventPatch{FormFields: &fields})
	assert.NoError(t, err)
}
