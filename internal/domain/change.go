package domain

import "time"

type ChangeType string

const (
	ChangeEventCreated        ChangeType = "event.created"
	ChangeEventUpdated        ChangeType = "event.updated"
	ChangeEventDeleted        ChangeType = "event.deleted"
	ChangeRegistrationCreated ChangeType = "registration.created"
)

// Change is what the admin feed broadcasts after a store mutation.
type Change struct {
	Type ChangeType `json:"type"`
	ID   string     `json:"id"`
	At   time.Time  `json:"at"`
}
