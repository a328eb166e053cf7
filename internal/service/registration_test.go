package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, event domain.Event, formData map[string]string) error {
	args := m.Called(ctx, event, formData)
	return args.Error(0)
}

var validForm = map[string]string{
	"name":  " 王小明 ",
	"phone": "0912-345-678",
	"email": "ming@example.com",
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, testEvent("a", "2023-10-01"))
	notifier := &mockNotifier{}
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(e domain.Event) bool { return e.ID == "a" }), mock.Anything).
		Return(nil).Once()
	svc := NewRegistrationService(store, notifier)

	form := map[string]string{"ignored": "x"}
	for k, v := range validForm {
		form[k] = v
	}

	reg, err := svc.Register(ctx, "a", form)
	require.NoError(t, err)

	assert.Equal(t, "a", reg.EventID)
	assert.Equal(t, map[string]string{
		"name":  "王小明",
		"phone": "0912-345-678",
		"email": "ming@example.com",
	}, reg.FormData)
	assert.Equal(t, today.UnixMilli(), reg.Timestamp)
	assert.Len(t, store.Registrations(), 1)
	notifier.AssertExpectations(t)
}

func TestRegisterBlocked(t *testing.T) {
	closed := testEvent("closed", "2023-10-01")
	closed.IsOpen = false
	expired := testEvent("expired", "2023-10-01")
	expired.Deadline = "2023-09-19"
	full := testEvent("full", "2023-09-29")
	full.Deadline = "2023-09-25"
	full.MaxParticipants = 2
	closedAndFull := full
	closedAndFull.ID = "closed-full"
	closedAndFull.IsOpen = false

	ctx := context.Background()
	store := newTestStore(t, closed, expired, full, closedAndFull)
	for _, id := range []string{"full", "full", "closed-full", "closed-full"} {
		_, err := store.RegisterUser(ctx, id, map[string]string{"name": "x"})
		require.NoError(t, err)
	}

	notifier := &mockNotifier{}
	svc := NewRegistrationService(store, notifier)

	tests := []struct {
		eventID string
		wantErr error
	}{
		{eventID: "closed", wantErr: ErrRegistrationClosed},
		{eventID: "expired", wantErr: ErrRegistrationExpired},
		{eventID: "full", wantErr: ErrEventFull},
		{eventID: "closed-full", wantErr: ErrRegistrationClosed},
		{eventID: "missing", wantErr: ErrEventNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.eventID, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.eventID, validForm)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Len(t, store.Registrations(), 4)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterNotifierFailureRecordsNothing(t *testing.T) {
	store := newTestStore(t, testEvent("a", "2023-10-01"))
	notifier := &mockNotifier{}
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	svc := NewRegistrationService(store, notifier)

	_, err := svc.Register(context.Background(), "a", validForm)
	assert.ErrorIs(t, err, ErrNotificationFailed)
	assert.Empty(t, store.Registrations())
}

func TestRegisterInvalidFormRecordsNothing(t *testing.T) {
	store := newTestStore(t, testEvent("a", "2023-10-01"))
	svc := NewRegistrationService(store, &mockNotifier{})

	_, err := svc.Register(context.Background(), "a", map[string]string{"name": "王小明"})
	assert.ErrorIs(t, err, ErrInvalidSubmission)
	assert.Empty(t, store.Registrations())
}

func TestValidateSubmission(t *testing.T) {
	fields := append(domain.DefaultFormFields(),
		domain.FormField{Name: "people", Label: "人數", Type: domain.FieldNumber},
		domain.FormField{Name: "meal", Label: "餐點", Type: domain.FieldSelect, Options: []string{"葷", "素"}},
	)

	tests := []struct {
		name     string
		override map[string]string
		wantKeys []string
	}{
		{name: "valid", override: map[string]string{"people": "2", "meal": "素"}},
		{name: "missing required", override: map[string]string{"name": "  "}, wantKeys: []string{"name"}},
		{name: "bad email", override: map[string]string{"email": "ming@"}, wantKeys: []string{"email"}},
		{name: "bad phone", override: map[string]string{"phone": "call me"}, wantKeys: []string{"phone"}},
		{name: "short phone", override: map[string]string{"phone": "123"}, wantKeys: []string{"phone"}},
		{name: "bad number", override: map[string]string{"people": "two"}, wantKeys: []string{"people"}},
		{name: "unknown option", override: map[string]string{"meal": "魚"}, wantKeys: []string{"meal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := map[string]string{}
			for k, v := range validForm {
				form[k] = v
			}
			for k, v := range tt.override {
				form[k] = v
			}

			data, err := ValidateSubmission(fields, form)
			if len(tt.wantKeys) == 0 {
				require.NoError(t, err)
				assert.Equal(t, "王小明", data["name"])
				return
			}

			require.ErrorIs(t, err, ErrInvalidSubmission)
			for _, k := range tt.wantKeys {
				assert.Contains(t, err.Error(), k)
			}
		})
	}
}

func TestValidateSubmissionDropsBlankOptional(t *testing.T) {
	fields := []domain.FormField{{Name: "note", Label: "備註", Type: domain.FieldText}}

	data, err := ValidateSubmission(fields, map[string]string{"note": "   "})
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestListRegistrations(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, testEvent("a", "2023-10-01"), testEvent("b", "2023-10-02"))
	svc := NewRegistrationService(store, DelayNotifier{})

	_, err := store.RegisterUser(ctx, "a", map[string]string{"name": "1"})
	require.NoError(t, err)
	_, err = store.RegisterUser(ctx, "b", map[string]string{"name": "2"})
	require.NoError(t, err)
	require.NoError(t, store.DeleteEvent(ctx, "b"))

	all := svc.ListRegistrations("")
	require.Len(t, all, 2)
	assert.Equal(t, UnknownEventTitle, all[0].EventTitle)
	assert.Equal(t, "event a", all[1].EventTitle)

	onlyA := svc.ListRegistrations("a")
	require.Len(t, onlyA, 1)
	assert.Equal(t, "1", onlyA[0].Registration.FormData["name"])
}

func TestDelayNotifier(t *testing.T) {
	n := DelayNotifier{Delay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Notify(ctx, domain.Event{}, nil), context.Canceled)

	start := time.Now()
	require.NoError(t, DelayNotifier{Delay: 10 * time.Millisecond}.Notify(context.Background(), domain.Event{}, nil))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}
