package models

import "time"

// ApprovalStatus mirrors the approval_status enum in the database.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

const (
	MinTeamMembers = 1
	MaxTeamMembers = 5
)

// TeamDetails is a team submitted through the proposal flow. A user owns at most one.
type TeamDetails struct {
	ID          int            `json:"id" db:"id"`
	UserID      int            `json:"userId" db:"user_id"`
	TeamName    string         `json:"teamName" db:"team_name"`
	IdeaTitle   *string        `json:"ideaTitle,omitempty" db:"idea_title"`
	ProposalKey *string        `json:"-" db:"proposal_key"`
	ProposalURL *string        `json:"proposalUrl,omitempty" db:"-"`
	Status      ApprovalStatus `json:"status" db:"status"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`

	Members []TeamMember `json:"members,omitempty" db:"-"`
}

type TeamMember struct {
	ID                int       `json:"id" db:"id"`
	TeamID            int       `json:"teamId" db:"team_id"`
	Name              string    `json:"name" db:"name"`
	Email             string    `json:"email" db:"email"`
	Phone             *string   `json:"phone,omitempty" db:"phone"`
	Institution       *string   `json:"institution,omitempty" db:"institution"`
	DietaryPreference *string   `json:"dietaryPreference,omitempty" db:"dietary_preference"`
	TShirtSize        *string   `json:"tshirtSize,omitempty" db:"tshirt_size"`
	IsLeader          bool      `json:"isLeader" db:"is_leader"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

type ProposalFilter struct {
	Status *ApprovalStatus
	Limit  int
	Offset int
}
