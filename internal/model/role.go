package model

import (
	"errors"
	"strings"
)

// Role is the closed set of identity roles.  The string value is what is
// persisted in users.role and carried in the JWT "role" claim.
type Role string

const (
	RoleClient    Role = "client"     // guest client booking for themselves
	RoleFrontDesk Role = "front_desk" // reception staff acting for any client
	RoleAdmin     Role = "admin"      // full access, including room management
)

// ErrUnknownRole is returned by ParseRole for values outside the closed set.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole maps a raw string onto a Role.  Matching is case-insensitive and
// tolerates surrounding whitespace; anything else is rejected.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleClient, RoleFrontDesk, RoleAdmin:
		return r, nil
	}
	return "", ErrUnknownRole
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleFrontDesk, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role acts on behalf of other identities.
func (r Role) IsStaff() bool { return r == RoleFrontDesk || r == RoleAdmin }

func (r Role) String() string { return string(r) }
