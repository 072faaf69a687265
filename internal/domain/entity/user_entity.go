package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for accounts.
// Password holds the bcrypt hash, never the plain text.
type User struct {
	ID        string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name, skipping empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Principal is the authenticated actor of a request.
type Principal struct {
	ID        string
	Email     string
	Role      Role
	FirstName string
	LastName  string
}

func PrincipalOf(u *User) Principal {
	return Principal{ID: u.ID, Email: u.Email, Role: u.Role, FirstName: u.FirstName, LastName: u.LastName}
}

// PersonSummary is the public identity of a user embedded in other resources.
type PersonSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}
