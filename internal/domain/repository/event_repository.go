package repository

import (
	"context"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
)

type EventRepository interface {
	Create(ctx context.Context, e *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	GetDetail(ctx context.Context, id string) (*entity.EventDetail, error)
	// List returns matching events ordered by date ascending.
	List(ctx context.Context, f entity.EventFilter) ([]entity.EventListItem, error)
	// ListByOrganizer returns the organizer's events ordered by date descending.
	ListByOrganizer(ctx context.Context, organizerID string) ([]entity.EventWithCount, error)
	// Update writes the editable fields. It never touches image_url.
	Update(ctx context.Context, e *entity.Event) error
	// SetImageURL replaces only the image and returns the URL it replaced.
	SetImageURL(ctx context.Context, id, url string) (previous *string, err error)
	Delete(ctx context.Context, id string) error
}

type RegistrationRepository interface {
	// Create inserts under the (user, event) uniqueness constraint and returns
	// ErrDuplicate when the pair already exists.
	Create(ctx context.Context, r *entity.Registration) error
	CountByEvent(ctx context.Context, eventID string) (int, error)
	// ListByEvent orders by registration time ascending.
	ListByEvent(ctx context.Context, eventID string) ([]entity.Participant, error)
	// ListByUser orders by the referenced event's date ascending.
	ListByUser(ctx context.Context, userID string) ([]entity.RegistrationWithEvent, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r *entity.Review) error
	// ListRecentByProfile orders by creation time descending.
	ListRecentByProfile(ctx context.Context, profileID string, limit int) ([]entity.ReviewWithReviewer, error)
}
