package entity

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Event is a listing owned by exactly one organizer.
type Event struct {
	ID          string    `json:"id"`
	OrganizerID string    `json:"organizerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Category    *string   `json:"category"`
	AgeGroup    *string   `json:"ageGroup"`
	Price       *float64  `json:"price"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate defends the invariants storage relies on.
func (e *Event) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.OrganizerID, validation.Required),
		validation.Field(&e.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&e.Description, validation.Required),
		validation.Field(&e.Date, validation.Required),
		validation.Field(&e.Location, validation.Required),
		validation.Field(&e.Price, validation.Min(float64(0))),
	)
}

// OrganizerSummary is the organizer block attached to event listings.
type OrganizerSummary struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email,omitempty"`
	OrgName   *string `json:"orgName,omitempty"`
}

// EventListItem is one row of the public catalog.
type EventListItem struct {
	Event
	Organizer         OrganizerSummary `json:"organizer"`
	RegistrationCount int              `json:"registrationCount"`
}

// EventWithCount is one row of an organizer's dashboard.
type EventWithCount struct {
	Event
	RegistrationCount int `json:"registrationCount"`
}

// OrganizerPublic is the organizer block of an event detail.
type OrganizerPublic struct {
	ID            string            `json:"id"`
	FirstName     string            `json:"firstName"`
	LastName      string            `json:"lastName"`
	Email         string            `json:"email"`
	OrganizerInfo *OrganizerProfile `json:"organizerInfo"`
}

// EventDetail is a single event with its organizer's public profile.
type EventDetail struct {
	Event
	Organizer OrganizerPublic `json:"organizer"`
}

// EventSummary is the event block embedded in registrations.
type EventSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Category    *string   `json:"category,omitempty"`
	AgeGroup    *string   `json:"ageGroup,omitempty"`
	Price       *float64  `json:"price,omitempty"`
}

func (e *Event) Summary() EventSummary {
	return EventSummary{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		Category:    e.Category,
		AgeGroup:    e.AgeGroup,
		Price:       e.Price,
	}
}

// EventPatch carries a partial update. Nil fields are left unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
	Category    *string
	AgeGroup    *string
	Price       *float64
}

func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil && p.Location == nil &&
		p.Category == nil && p.AgeGroup == nil && p.Price == nil
}

// Apply copies the present fields onto e.
func (p EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Category != nil {
		v := *p.Category
		e.Category = &v
	}
	if p.AgeGroup != nil {
		v := *p.AgeGroup
		e.AgeGroup = &v
	}
	if p.Price != nil {
		v := *p.Price
		e.Price = &v
	}
}

// EventFilter selects catalog rows. Empty fields do not constrain.
// Category, AgeGroup and StartDate are conjunctive; SearchTerm matches any of
// title, description, location, category, organizer name or organization name.
type EventFilter struct {
	Category   string
	AgeGroup   string
	StartDate  *time.Time
	SearchTerm string
}

// Matches reports whether item satisfies f. Postgres mirrors this with ILIKE.
func (f EventFilter) Matches(item EventListItem) bool {
	if f.Category != "" && !containsFold(deref(item.Category), f.Category) {
		return false
	}
	if f.AgeGroup != "" && !containsFold(deref(item.AgeGroup), f.AgeGroup) {
		return false
	}
	if f.StartDate != nil && item.Date.Before(*f.StartDate) {
		return false
	}
	if f.SearchTerm == "" {
		return true
	}
	for _, field := range []string{
		item.Title,
		item.Description,
		item.Location,
		deref(item.Category),
		item.Organizer.FirstName,
		item.Organizer.LastName,
		deref(item.Organizer.OrgName),
	} {
		if containsFold(field, f.SearchTerm) {
			return true
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
