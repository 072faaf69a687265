package entity

import (
	"strings"
	"time"
)

// OrganizerProfile extends a User with role ORGANIZER. It is the target of reviews.
type OrganizerProfile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	OrgName     string    `json:"orgName"`
	Description *string   `json:"description,omitempty"`
	Website     *string   `json:"website,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DefaultOrgName is used when an organizer registers without an organization name.
func DefaultOrgName(firstName string) string {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return "My Organization"
	}
	return firstName + "'s Organization"
}
