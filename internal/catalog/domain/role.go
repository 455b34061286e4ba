package domain

import "time"

// Role is the authorization level carried by users and tokens.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// RoleRecord is a row of the roles table. Both roles are seeded by the initial
// migration.
type RoleRecord struct {
	ID        string
	Name      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
