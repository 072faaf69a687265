package entity

import "strings"

// Role is the closed set of account roles.
type Role string

const (
	RoleParent    Role = "PARENT"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

func (r Role) Valid() bool {
	switch r {
	case RoleParent, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
