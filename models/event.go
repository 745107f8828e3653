package models

import "time"

// Event is a hackathon or club event.
type Event struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	StartDate   time.Time `json:"startDate" db:"start_date"`
	EndDate     time.Time `json:"endDate" db:"end_date"`
	Location    *string   `json:"location,omitempty" db:"location"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
	PosterKey   *string   `json:"-" db:"poster_key"`
	PosterURL   *string   `json:"posterUrl,omitempty" db:"-"`
}

// EventDetails is an event joined with everything attached to it.
type EventDetails struct {
	Event
	Photos       []EventPhoto      `json:"photos"`
	Organisers   []SafeUser        `json:"organisers"`
	Participants []ParticipantView `json:"participants"`
	Judges       []SafeUser        `json:"judges"`
	Teams        []EventTeam       `json:"teams"`
	Sponsors     []Sponsor         `json:"sponsors"`
}

type EventPhoto struct {
	ID        int       `json:"id" db:"id"`
	EventID   int       `json:"eventId" db:"event_id"`
	ObjectKey string    `json:"-" db:"object_key"`
	URL       string    `json:"url,omitempty" db:"-"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type EventListOptions struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}
