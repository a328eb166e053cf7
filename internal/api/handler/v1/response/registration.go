package response

import (
	"time"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/service"
)

type Registration struct {
	ID         string            `json:"id"`
	EventID    string            `json:"event_id"`
	EventTitle string            `json:"event_title,omitempty"`
	FormData   map[string]string `json:"form_data"`
	CreatedAt  time.Time         `json:"created_at"`
}

func NewRegistration(r domain.Registration) Registration {
	return Registration{
		ID:        r.ID,
		EventID:   r.EventID,
		FormData:  r.FormData,
		CreatedAt: r.CreatedAt().UTC(),
	}
}

func NewRegistrationEntries(entries []service.RegistrationEntry) []Registration {
	out := make([]Registration, 0, len(entries))
	for _, e := range entries {
		r := NewRegistration(e.Registration)
		r.EventTitle = e.EventTitle
		out = append(out, r)
	}
	return out
}
