package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/repository/dao"
)

var errDiskFull = errors.New("disk full")

type memDAO struct {
	mu      sync.Mutex
	docs    map[string][]byte
	failPut bool
}

func newMemDAO() *memDAO {
	return &memDAO{docs: map[string][]byte{}}
}

func (m *memDAO) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	body, ok := m.docs[key]
	if !ok {
		return nil, dao.ErrDocumentNotFound
	}
	return body, nil
}

func (m *memDAO) Put(_ context.Context, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failPut {
		return errDiskFull
	}
	m.docs[key] = body
	return nil
}

func (m *memDAO) decode(t *testing.T, key string, v any) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NoError(t, json.Unmarshal(m.docs[key], v))
}

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2023, 9, 20, 10, 0, 0, 0, time.UTC) }
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, d *memDAO) *Store {
	t.Helper()
	s := NewStore(d, WithClock(fixedClock()), WithIDGenerator(sequentialIDs()))
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestLoadSeedsWhenEmpty(t *testing.T) {
	d := newMemDAO()
	s := newTestStore(t, d)

	events := s.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "社區中秋聯歡晚會", events[0].Title)
	assert.Equal(t, 10, events[1].MaxParticipants)
	assert.Empty(t, s.Registrations())

	var stored []domain.Event
	d.decode(t, EventsKey, &stored)
	assert.Len(t, stored, 2)

	var regs []domain.Registration
	d.decode(t, RegistrationsKey, &regs)
	assert.NotNil(t, regs)
}

func TestLoadTreatsMissingIsOpenAsOpen(t *testing.T) {
	d := newMemDAO()
	d.docs[EventsKey] = []byte(`[
		{"id":"a","title":"legacy","date":"2023-10-01","maxParticipants":5},
		{"id":"b","title":"closed","date":"2023-10-01","maxParticipants":5,"isOpen":false}
	]`)
	d.docs[RegistrationsKey] = []byte(`[{"id":"r1","eventId":"a","formData":{"name":"A"},"timestamp":1}]`)

	s := newTestStore(t, d)

	a, err := s.Event("a")
	require.NoError(t, err)
	assert.True(t, a.IsOpen)

	b, err := s.Event("b")
	require.NoError(t, err)
	assert.False(t, b.IsOpen)

	require.Len(t, s.Registrations(), 1)

	var stored []map[string]any
	d.decode(t, EventsKey, &stored)
	assert.Equal(t, true, stored[0]["isOpen"])
}

func TestLoadKeepsEmptyEventsDocument(t *testing.T) {
	d := newMemDAO()
	d.docs[EventsKey] = []byte(`[]`)

	s := newTestStore(t, d)
	assert.Empty(t, s.Events())
}

func TestLoadRejectsCorruptDocument(t *testing.T) {
	d := newMemDAO()
	d.docs[EventsKey] = []byte(`{not json`)

	s := NewStore(d)
	assert.Error(t, s.Load(context.Background()))
}

func TestDeleteEventKeepsRegistrations(t *testing.T) {
	ctx := context.Background()
	d := newMemDAO()
	s := newTestStore(t, d)

	_, err := s.RegisterUser(ctx, "1", map[string]string{"name": "王小明"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteEvent(ctx, "1"))

	_, err = s.Event("1")
	assert.ErrorIs(t, err, ErrEventNotFound)
	require.Len(t, s.Registrations(), 1)
	assert.Equal(t, "1", s.Registrations()[0].EventID)

	assert.ErrorIs(t, s.DeleteEvent(ctx, "1"), ErrEventNotFound)
}

func TestRegisterUserPrependsNewest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newMemDAO())

	first, err := s.RegisterUser(ctx, "1", map[string]string{"name": "A"})
	require.NoError(t, err)
	second, err := s.RegisterUser(ctx, "2", map[string]string{"name": "B"})
	require.NoError(t, err)

	regs := s.Registrations()
	require.Len(t, regs, 2)
	assert.Equal(t, second.ID, regs[0].ID)
	assert.Equal(t, first.ID, regs[1].ID)
	assert.Equal(t, fixedClock()().UnixMilli(), first.Timestamp)
}

func TestFailedWriteLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	d := newMemDAO()
	s := newTestStore(t, d)
	d.failPut = true

	err := s.AddEvent(ctx, domain.Event{ID: "x", Title: "new"})
	assert.ErrorIs(t, err, errDiskFull)
	assert.Len(t, s.Events(), 2)

	title := "renamed"
	_, err = s.UpdateEvent(ctx, "1", domain.EventPatch{Title: &title})
	assert.ErrorIs(t, err, errDiskFull)
	e, _ := s.Event("1")
	assert.Equal(t, "社區中秋聯歡晚會", e.Title)

	_, err = s.RegisterUser(ctx, "1", map[string]string{})
	assert.ErrorIs(t, err, errDiskFull)
	assert.Empty(t, s.Registrations())

	_, err = s.DeleteEventsBatch(ctx, []string{"1", "2"})
	assert.ErrorIs(t, err, errDiskFull)
	assert.Len(t, s.Events(), 2)
}

func TestDeleteEventsBatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newMemDAO())

	n, err := s.DeleteEventsBatch(ctx, []string{"2", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "1", events[0].ID)

	n, err = s.DeleteEventsBatch(ctx, []string{"missing"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateEventUnknownID(t *testing.T) {
	s := newTestStore(t, newMemDAO())

	title := "x"
	_, err := s.UpdateEvent(context.Background(), "nope", domain.EventPatch{Title: &title})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestOnChange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newMemDAO())

	var got []domain.Change
	s.OnChange(func(c domain.Change) { got = append(got, c) })

	require.NoError(t, s.AddEventsBatch(ctx, []domain.Event{{ID: "a"}, {ID: "b"}}))
	reg, err := s.RegisterUser(ctx, "a", nil)
	require.NoError(t, err)
	require.NoError(t, s.DeleteEvent(ctx, "a"))

	require.Len(t, got, 4)
	assert.Equal(t, domain.ChangeEventCreated, got[0].Type)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, domain.Change{Type: domain.ChangeRegistrationCreated, ID: reg.ID, At: fixedClock()()}, got[2])
	assert.Equal(t, domain.ChangeEventDeleted, got[3].Type)
}

func TestEventsReturnsCopy(t *testing.T) {
	s := newTestStore(t, newMemDAO())

	events := s.Events()
	events[0].Title = "mutated"

	e, err := s.Event("1")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", e.Title)
}

func TestStatusUsesStoreClock(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newMemDAO())

	require.NoError(t, s.AddEvent(ctx, domain.Event{
		ID: "cap2", Date: "2023-09-29", Deadline: "2023-09-25", MaxParticipants: 2, IsOpen: true,
	}))
	for i := 0; i < 2; i++ {
		_, err := s.RegisterUser(ctx, "cap2", map[string]string{"name": "x"})
		require.NoError(t, err)
	}

	e, err := s.Event("cap2")
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatus{IsFull: true, RemainingSpots: 0}, s.Status(e))
}
