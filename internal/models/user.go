package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is a user's permission level inside their group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// User represents one member of a group.
//
// A user belongs to exactly one group. Logging in from another group context
// creates a separate membership record scoped to that group.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name, also used together with Email to log in.
	Name string `json:"name"`

	// Email is unique within a single group's member set only.
	Email string `json:"email"`

	// Role is fixed at join time, except for a group creator who is always admin.
	Role Role `json:"role"`

	// JoinedAt is when the user registered.
	JoinedAt time.Time `json:"joinedAt"`
}

// NewUser creates a user with a fresh ID.
func NewUser(name, email string, role Role, now time.Time) *User {
	return &User{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    email,
		Role:     role,
		JoinedAt: now.UTC(),
	}
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// SameEmail compares emails the way membership uniqueness is enforced.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
