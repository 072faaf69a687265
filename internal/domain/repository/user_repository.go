package repository

import (
	"context"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	// CreateOrganizer stores u and its organizer profile atomically.
	CreateOrganizer(ctx context.Context, u *entity.User, p *entity.OrganizerProfile) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
}

type OrganizerProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entity.OrganizerProfile, error)
	GetByUserID(ctx context.Context, userID string) (*entity.OrganizerProfile, error)
}
