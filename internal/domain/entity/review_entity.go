package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a parent's rating of an organizer profile, optionally scoped to one event.
type Review struct {
	ID                 string    `json:"id"`
	Rating             int       `json:"rating"`
	Comment            *string   `json:"comment"`
	ReviewerID         string    `json:"reviewerId"`
	OrganizerProfileID string    `json:"organizerProfileId"`
	EventID            *string   `json:"eventId"`
	CreatedAt          time.Time `json:"createdAt"`
}

func (r *Review) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Rating, validation.Required, validation.Min(MinRating), validation.Max(MaxRating)),
		validation.Field(&r.ReviewerID, validation.Required),
		validation.Field(&r.OrganizerProfileID, validation.Required),
	)
}

type ReviewerName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type ReviewWithReviewer struct {
	Review
	Reviewer ReviewerName `json:"reviewer"`
}

// OrganizerPublicProfile merges an organizer's public user fields, profile and recent reviews.
type OrganizerPublicProfile struct {
	ID          string               `json:"id"`
	UserID      string               `json:"userId"`
	FirstName   string               `json:"firstName"`
	LastName    string               `json:"lastName"`
	OrgName     string               `json:"orgName"`
	Description *string              `json:"description,omitempty"`
	Website     *string              `json:"website,omitempty"`
	Phone       *string              `json:"phone,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	Reviews     []ReviewWithReviewer `json:"reviews"`
}
