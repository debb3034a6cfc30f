package domain

import "time"

// RoleLabel is the closed set of authorization levels a session can carry.
// It is the internal representation; it serializes to a plain string only at
// the token/session boundary.
type RoleLabel string

const (
	RoleAdmin  RoleLabel = "admin"
	RoleDoctor RoleLabel = "doctor"
	// RoleUser is the least-privileged label, used when no Role row is
	// attached to the user (or when one cannot be read).
	RoleUser RoleLabel = "user"
)

// ParseRoleLabel maps a stored role name to a RoleLabel, defaulting to RoleUser
// for anything outside the closed set.
func ParseRoleLabel(name string) RoleLabel {
	switch RoleLabel(name) {
	case RoleAdmin, RoleDoctor:
		return RoleLabel(name)
	default:
		return RoleUser
	}
}

// Role is a named authorization level. Role names are unique in the datastore.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User models an account created by the identity layer on first successful
// verification. RoleID is nil until a role is assigned.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	RoleID    *string   `json:"role_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasRole reports whether a Role row is attached to the user.
func (u *User) HasRole() bool {
	return u != nil && u.RoleID != nil && *u.RoleID != ""
}
