package domain

import "time"

// Registration references its event by id only. Deleting the event leaves
// the registration in place.
type Registration struct {
	ID        string            `json:"id"`
	EventID   string            `json:"eventId"`
	FormData  map[string]string `json:"formData"`
	Timestamp int64             `json:"timestamp"`
}

func (r Registration) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

func CountRegistrations(regs []Registration, eventID string) int {
	n := 0
	for _, r := range regs {
		if r.EventID == eventID {
			n++
		}
	}
	return n
}

func FilterRegistrations(regs []Registration, eventID string) []Registration {
	if eventID == "" {
		return regs
	}
	filtered := make([]Registration, 0, len(regs))
	for _, r := range regs {
		if r.EventID == eventID {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
