package models

import "time"

// EventParticipant links a user to an event, optionally to one of the event's teams.
type EventParticipant struct {
	ID        int       `json:"id" db:"id"`
	EventID   int       `json:"eventId" db:"event_id"`
	UserID    int       `json:"userId" db:"user_id"`
	TeamID    *int      `json:"teamId" db:"team_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type ParticipantView struct {
	SafeUser
	TeamID *int `json:"teamId"`
}

// EventAssignment is a judge or organiser link.
type EventAssignment struct {
	EventID   int       `json:"eventId" db:"event_id"`
	UserID    int       `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
