package domain

import "time"

type User struct {
	ID           string
	Username     string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string // argon2id PHC string
	Disabled     bool
	RoleID       string
	Role         Role // resolved from RoleID on reads
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the part of a user the guard chain cares about.
type Identity struct {
	ID       string
	Username string
	Role     Role
	Active   bool
}

func (u User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		Active:   !u.Disabled,
	}
}

// UserFilter narrows user listings. Empty fields are ignored; set fields match
// case-insensitively as substrings.
type UserFilter struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	Username  *string
	FirstName *string
	LastName  *string
	Email     *string
	Disabled  *bool
}

// Apply copies the set fields of p onto u.
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Disabled != nil {
		u.Disabled = *p.Disabled
	}
}
