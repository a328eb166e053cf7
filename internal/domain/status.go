package domain

import "time"

// EventStatus flags are independent of each other; any combination may hold.
type EventStatus struct {
	IsFull         bool `json:"is_full"`
	IsExpired      bool `json:"is_expired"`
	IsClosed       bool `json:"is_closed"`
	RemainingSpots int  `json:"remaining_spots"`
}

func (s EventStatus) Blocked() bool {
	return s.IsFull || s.IsExpired || s.IsClosed
}

func ComputeStatus(e Event, regs []Registration, now time.Time) EventStatus {
	count := CountRegistrations(regs, e.ID)
	remaining := e.MaxParticipants - count
	if remaining < 0 {
		remaining = 0
	}

	return EventStatus{
		IsFull:         count >= e.MaxParticipants,
		IsExpired:      IsPastDay(e.Deadline, now),
		IsClosed:       !e.IsOpen,
		RemainingSpots: remaining,
	}
}
