package models

import "time"

// EventTeam is a team scoped to a single event. Names are unique per event, ignoring case.
type EventTeam struct {
	ID        int       `json:"id" db:"id"`
	EventID   int       `json:"eventId" db:"event_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Members []SafeUser `json:"members,omitempty" db:"-"`
}
