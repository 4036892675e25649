package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "fmt"

// Role represents an application authorization role.
// Keep string form for easy persistence and JSON snapshots.
// Valid values are defined as constants below; anything else observed from
// an identity source is invalid and forces logout.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleAcademicAdmin Role = "academic_admin"
	RoleTeacher       Role = "teacher"
	RoleStudent       Role = "student"
)

// ParseRole validates a raw role string against the closed enumeration.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleAcademicAdmin, RoleTeacher, RoleStudent:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("invalid role: %s", raw)
	}
}

// Valid reports whether r is one of the four enumerated roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// User is the authenticated identity as held by the session store and
// persisted (minus any token material) in the snapshot slot.
// Profile mirrors Role for downstream consumers; the two are always assigned
// together and must never disagree.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Profile Role   `json:"profile"`
}

// NewUser builds a User from an identity, mirroring the role into Profile.
func NewUser(id, name, email string, role Role) User {
	return User{ID: id, Name: name, Email: email, Role: role, Profile: role}
}

// Identity is the raw principal returned by an identity provider before
// role validation. Adapters map provider-specific payloads into this shape.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Credentials is the login credential pair submitted by a user.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Snapshot is the JSON document persisted in the session-snapshot slot.
// It deliberately carries no token material; the access token lives only in
// the separate token slot.
type Snapshot struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"is_authenticated"`
}
