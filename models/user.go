package models

import "time"

// User is an account created on first sign-in through the identity provider.
type User struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Image     *string   `json:"image,omitempty" db:"image"`
	IsAdmin   bool      `json:"isAdmin" db:"is_admin"`
	IsJudge   bool      `json:"isJudge" db:"is_judge"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// SafeUser is the public projection of a user embedded in event details.
type SafeUser struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}

func (u *User) Safe() SafeUser {
	return SafeUser{ID: u.ID, Name: u.Name, Image: u.Image}
}

type UserFilter struct {
	Search string
	Limit  int
	Offset int
}

type UserListResponse struct {
	Users      []User `json:"users"`
	TotalCount int    `json:"totalCount"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}
