package entity

import "time"

// Registration joins one PARENT to one Event. The (UserID, EventID) pair is unique.
type Registration struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	EventID      string    `json:"eventId"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type RegistrationWithEvent struct {
	Registration
	Event EventSummary `json:"event"`
}

// Participant is a registration as seen by the event's organizer.
type Participant struct {
	Registration
	User PersonSummary `json:"user"`
}
