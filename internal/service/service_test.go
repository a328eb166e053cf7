package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/repository"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/repository/dao"
)

// today is the clock used by every service test: 2023-09-20 10:00 UTC.
var today = time.Date(2023, 9, 20, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, events ...domain.Event) *repository.Store {
	t.Helper()

	n := 0
	store := repository.NewStore(
		dao.NewFileDocumentDAO(t.TempDir()),
		repository.WithClock(func() time.Time { return today }),
		repository.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	require.NoError(t, store.Load(context.Background()))

	if len(events) > 0 {
		_, err := store.DeleteEventsBatch(context.Background(), []string{"1", "2"})
		require.NoError(t, err)
		require.NoError(t, store.AddEventsBatch(context.Background(), events))
	}

	return store
}

func testEvent(id, date string) domain.Event {
	return domain.Event{
		ID:              id,
		Title:           "event " + id,
		Date:            date,
		Deadline:        date,
		MaxParticipants: 10,
		FormFields:      domain.DefaultFormFields(),
		IsOpen:          true,
	}
}
