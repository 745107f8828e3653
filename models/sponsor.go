package models

import "time"

type SponsorTier string

const (
	SponsorTierGold    SponsorTier = "gold"
	SponsorTierSilver  SponsorTier = "silver"
	SponsorTierBronze  SponsorTier = "bronze"
	SponsorTierPartner SponsorTier = "partner"
)

type Sponsor struct {
	ID        int         `json:"id" db:"id"`
	EventID   int         `json:"eventId" db:"event_id"`
	Name      string      `json:"name" db:"name"`
	Website   *string     `json:"website,omitempty" db:"website"`
	Tier      SponsorTier `json:"tier" db:"tier"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
}
